package detector

import (
	"strings"

	"placelog/internal/models"
)

// Classify decides whether a labeled candidate is a genuinely different
// place from the last confirmed stay. It returns whether the candidate is
// significant, plus the next value for the last-stay baseline: the candidate
// when it was adopted (first baseline or a confirmed change), or last
// unchanged when the candidate turned out to be the same place.
//
// The very first candidate after a fresh state only establishes the
// baseline; it is never reported as significant.
func Classify(last *models.Stay, candidate models.Stay) (bool, models.Stay) {
	if last == nil {
		return false, candidate
	}
	if labelsMatch(last.Label, candidate.Label) {
		return false, *last
	}
	return true, candidate
}

// labelsMatch compares two reverse-geocoded labels structurally rather than
// by raw string equality. Labels split on commas into ordered parts
// (venue/street, neighborhood, city, ...). The same physical spot can
// geocode to slightly different labels fix to fix, so only the first three
// parts participate, and a part missing on either side is not a mismatch.
// An empty label on either side always counts as changed.
func labelsMatch(a, b string) bool {
	pa := splitLabel(a)
	pb := splitLabel(b)
	if len(pa) == 0 || len(pb) == 0 {
		return false
	}
	if pa[0] != pb[0] {
		return false
	}
	for i := 1; i <= 2; i++ {
		if len(pa) > i && len(pb) > i && pa[i] != pb[i] {
			return false
		}
	}
	return true
}

func splitLabel(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}
