package service

import (
	"placelog/internal/models"
	"placelog/internal/store"
	"placelog/internal/timeline"
)

// TimelineService serves a day's merged timeline and persists user edits.
// Edits operate on TimelineEntry copies; the detection pipeline's Stay
// records are never rewritten through this path.
type TimelineService struct {
	store *store.DailyStore
}

// NewTimelineService creates a new timeline service.
func NewTimelineService(st *store.DailyStore) *TimelineService {
	return &TimelineService{store: st}
}

// Day returns the day's edited timeline merged with its confirmed stays,
// deduplicated and re-indexed.
func (s *TimelineService) Day(dayKey string) ([]models.TimelineEntry, error) {
	existing, err := s.store.LoadTimeline(dayKey)
	if err != nil {
		return nil, err
	}
	stays, err := s.store.Load(dayKey)
	if err != nil {
		return nil, err
	}
	return timeline.Merge(existing, stays), nil
}

// Save validates and persists an edited timeline for a day. The batch is
// all-or-nothing: a single malformed entry rejects the whole save.
func (s *TimelineService) Save(dayKey string, entries []models.TimelineEntry) ([]models.TimelineEntry, error) {
	if err := timeline.ValidateEntries(entries); err != nil {
		return nil, err
	}
	merged := timeline.Merge(entries, nil)
	if err := s.store.SaveTimeline(dayKey, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Stays returns the day's confirmed stays in chronological order.
func (s *TimelineService) Stays(dayKey string) ([]models.Stay, error) {
	return s.store.Load(dayKey)
}
