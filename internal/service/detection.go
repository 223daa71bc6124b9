package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"placelog/internal/detector"
	"placelog/internal/geocoding"
	"placelog/internal/models"
	"placelog/internal/store"
)

// Geocoder labels a coordinate. Satisfied by geocoding.Service; tests plug
// in a stub to control labels and tiers.
type Geocoder interface {
	Lookup(ctx context.Context, lat, lon float64) geocoding.Result
}

// DetectionService owns the fix-processing pipeline: detect → label →
// classify → persist. It is the exclusive owner of the detector state and
// of writes to the daily store; fixes run through it one at a time.
type DetectionService struct {
	mu       sync.Mutex
	store    *store.DailyStore
	geocoder Geocoder
	state    *models.DetectorState
}

// NewDetectionService loads the persisted detector state and returns a ready
// pipeline.
func NewDetectionService(st *store.DailyStore, geocoder Geocoder) (*DetectionService, error) {
	state, err := st.LoadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load detector state: %w", err)
	}
	return &DetectionService{store: st, geocoder: geocoder, state: state}, nil
}

// ProcessFix runs the full pipeline for one fix and returns the confirmed
// stay, if the fix produced one. The in-memory state is only adopted after
// the stay (when any) and the detector state have been written, so a
// persistence failure never silently loses a confirmed stay across a
// restart.
func (s *DetectionService) ProcessFix(ctx context.Context, fix models.Fix) (*models.Stay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	cand := detector.Advance(next, fix)

	var confirmed *models.Stay
	if cand != nil {
		res := s.geocoder.Lookup(ctx, cand.Latitude, cand.Longitude)
		candidate := models.Stay{
			Label:      res.Label,
			Latitude:   cand.Latitude,
			Longitude:  cand.Longitude,
			ObservedAt: cand.ObservedAt,
		}

		significant, baseline := detector.Classify(next.LastStay, candidate)
		next.LastStay = &baseline
		detector.ResetDwell(next, cand.ObservedAt)

		if significant {
			dayKey := models.DayKey(candidate.ObservedAt)
			if err := s.store.Append(dayKey, candidate); err != nil {
				return nil, fmt.Errorf("failed to persist stay: %w", err)
			}
			confirmed = &candidate
			logrus.WithFields(logrus.Fields{
				"label":  candidate.Label,
				"source": res.Source,
				"day":    dayKey,
			}).Info("confirmed significant stay")
		} else {
			logrus.WithField("label", candidate.Label).Debug("candidate stay rejected")
		}
	}

	if err := s.store.SaveState(next); err != nil {
		return nil, fmt.Errorf("failed to persist detector state: %w", err)
	}
	s.state = next
	return confirmed, nil
}

// ProcessBatch sorts fixes by capture time and feeds them through the
// pipeline one at a time; out-of-order delivery would corrupt the
// stationary-window logic. Returns every stay confirmed by the batch.
func (s *DetectionService) ProcessBatch(ctx context.Context, fixes []models.Fix) ([]models.Stay, error) {
	sorted := append([]models.Fix(nil), fixes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CapturedAt < sorted[j].CapturedAt })

	var confirmed []models.Stay
	for _, f := range sorted {
		stay, err := s.ProcessFix(ctx, f)
		if err != nil {
			return confirmed, err
		}
		if stay != nil {
			confirmed = append(confirmed, *stay)
		}
	}
	return confirmed, nil
}

// State returns a copy of the current detector state.
func (s *DetectionService) State() *models.DetectorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Reset erases all persisted data and the detector state, including the
// last-stay baseline, so the next stationary window starts from scratch.
func (s *DetectionService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ClearAll(); err != nil {
		return err
	}
	s.state = &models.DetectorState{}
	return nil
}
