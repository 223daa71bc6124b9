package timeline

import (
	"errors"
	"fmt"
	"strings"

	"placelog/internal/models"
)

// ErrInvalidEntry marks validation failures on an edited timeline batch, so
// callers can tell a bad request from a persistence failure.
var ErrInvalidEntry = errors.New("invalid timeline entry")

// DefaultIcon is used when no keyword category matches a label.
const DefaultIcon = "pin"

// iconKeywords maps label keywords to timeline icons. First match wins, in
// this order.
var iconKeywords = []struct {
	icon  string
	words []string
}{
	{"home", []string{"home", "house", "apartment"}},
	{"work", []string{"work", "office"}},
	{"gym", []string{"gym", "fitness"}},
	{"food", []string{"restaurant", "cafe", "coffee", "bar", "diner", "bakery"}},
	{"park", []string{"park", "garden", "playground"}},
	{"shopping", []string{"mall", "market", "store", "shop", "supermarket"}},
	{"hospital", []string{"hospital", "clinic", "pharmacy"}},
	{"school", []string{"school", "university", "college", "library"}},
	{"transit", []string{"station", "airport", "terminal", "bus", "metro"}},
	{"beach", []string{"beach", "pier", "harbor"}},
	{"mountain", []string{"mountain", "trail", "peak", "hill"}},
}

// IconFor picks an icon for a place label by keyword match.
func IconFor(label string) string {
	l := strings.ToLower(label)
	for _, cat := range iconKeywords {
		for _, w := range cat.words {
			if strings.Contains(l, w) {
				return cat.icon
			}
		}
	}
	return DefaultIcon
}

// Merge reconciles a day's edited timeline with its confirmed stays. Stays
// whose observedAt timestamp already appears among the existing entries are
// dropped; the rest are converted and appended after the existing entries.
// The result carries a dense 0-based position sequence. Inputs are not
// mutated.
func Merge(existing []models.TimelineEntry, incoming []models.Stay) []models.TimelineEntry {
	seen := make(map[int64]struct{}, len(existing))
	for _, e := range existing {
		seen[e.ObservedAt] = struct{}{}
	}

	out := make([]models.TimelineEntry, 0, len(existing)+len(incoming))
	out = append(out, existing...)

	for _, s := range incoming {
		if _, ok := seen[s.ObservedAt]; ok {
			continue
		}
		seen[s.ObservedAt] = struct{}{}
		out = append(out, models.TimelineEntry{
			Label:      s.Label,
			ObservedAt: s.ObservedAt,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
			Icon:       IconFor(s.Label),
		})
	}

	for i := range out {
		out[i].Position = i
	}
	return out
}

// ValidateEntries checks an edited timeline batch before persistence. The
// whole batch is rejected on the first malformed entry so partial writes
// never occur; the error identifies the offending entry.
func ValidateEntries(entries []models.TimelineEntry) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Label) == "" {
			return fmt.Errorf("%w: entry %d has no label", ErrInvalidEntry, i)
		}
		if e.ObservedAt <= 0 {
			return fmt.Errorf("%w: entry %d (%q) has no timestamp", ErrInvalidEntry, i, e.Label)
		}
	}
	return nil
}
