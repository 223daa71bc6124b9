package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"placelog/internal/models"
)

// RetentionWindow bounds how long a stay remains in its day's persisted
// list. Enforced on every append, not by a background sweep.
const RetentionWindow = 24 * time.Hour

const (
	detectorStateKey  = "detector/state"
	stayKeyPrefix     = "stays/"
	timelineKeyPrefix = "timeline/"
)

// DailyStore is the append-only per-day log of confirmed stays, plus the
// persisted detector state and user-edited timelines. Each day key is an
// independent JSON blob in the underlying KV store.
type DailyStore struct {
	kv  KV
	now func() time.Time
}

// NewDailyStore creates a daily store over the given KV backend.
func NewDailyStore(kv KV) *DailyStore {
	return &DailyStore{kv: kv, now: time.Now}
}

// Append adds a stay to the day's list. Stays older than RetentionWindow
// relative to now are dropped from that day's list before the write; other
// days are untouched.
func (s *DailyStore) Append(dayKey string, stay models.Stay) error {
	stays, err := s.Load(dayKey)
	if err != nil {
		return err
	}
	stays = append(stays, stay)

	cutoff := s.now().Add(-RetentionWindow).Unix()
	kept := make([]models.Stay, 0, len(stays))
	for _, st := range stays {
		if st.ObservedAt >= cutoff {
			kept = append(kept, st)
		}
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("failed to marshal stays for %s: %w", dayKey, err)
	}
	if err := s.kv.Set(stayKeyPrefix+dayKey, data); err != nil {
		return fmt.Errorf("failed to persist stays for %s: %w", dayKey, err)
	}
	return nil
}

// Load returns the day's stays sorted ascending by observedAt. Insertion
// order should already be chronological; the sort is defensive.
func (s *DailyStore) Load(dayKey string) ([]models.Stay, error) {
	data, err := s.kv.Get(stayKeyPrefix + dayKey)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stays for %s: %w", dayKey, err)
	}

	var stays []models.Stay
	if err := json.Unmarshal(data, &stays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stays for %s: %w", dayKey, err)
	}
	sort.Slice(stays, func(i, j int) bool { return stays[i].ObservedAt < stays[j].ObservedAt })
	return stays, nil
}

// SaveState persists the detector state blob.
func (s *DailyStore) SaveState(state *models.DetectorState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal detector state: %w", err)
	}
	if err := s.kv.Set(detectorStateKey, data); err != nil {
		return fmt.Errorf("failed to persist detector state: %w", err)
	}
	return nil
}

// LoadState returns the persisted detector state, or a fresh empty state on
// first-ever run.
func (s *DailyStore) LoadState() (*models.DetectorState, error) {
	data, err := s.kv.Get(detectorStateKey)
	if err == ErrNotFound {
		return &models.DetectorState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load detector state: %w", err)
	}

	var state models.DetectorState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal detector state: %w", err)
	}
	return &state, nil
}

// SaveTimeline persists a day's edited timeline. The edit path owns these
// entries; stay records are never rewritten through here.
func (s *DailyStore) SaveTimeline(dayKey string, entries []models.TimelineEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline for %s: %w", dayKey, err)
	}
	if err := s.kv.Set(timelineKeyPrefix+dayKey, data); err != nil {
		return fmt.Errorf("failed to persist timeline for %s: %w", dayKey, err)
	}
	return nil
}

// LoadTimeline returns a day's edited timeline, or nil when none was saved.
func (s *DailyStore) LoadTimeline(dayKey string) ([]models.TimelineEntry, error) {
	data, err := s.kv.Get(timelineKeyPrefix + dayKey)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline for %s: %w", dayKey, err)
	}

	var entries []models.TimelineEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline for %s: %w", dayKey, err)
	}
	return entries, nil
}

// ClearAll erases every day's stays and timelines along with the detector
// state. Used for a full data reset.
func (s *DailyStore) ClearAll() error {
	for _, prefix := range []string{stayKeyPrefix, timelineKeyPrefix} {
		keys, err := s.kv.KeysWithPrefix(prefix)
		if err != nil {
			return fmt.Errorf("failed to list %q keys: %w", prefix, err)
		}
		for _, k := range keys {
			if err := s.kv.Delete(k); err != nil {
				return fmt.Errorf("failed to delete %q: %w", k, err)
			}
		}
	}
	if err := s.kv.Delete(detectorStateKey); err != nil {
		return fmt.Errorf("failed to delete detector state: %w", err)
	}
	return nil
}
