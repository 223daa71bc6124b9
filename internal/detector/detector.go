package detector

import (
	"time"

	"placelog/internal/models"
	"placelog/internal/spatial"
)

const (
	// StationaryThreshold is the minimum dwell time before a stationary
	// window produces a candidate stay.
	StationaryThreshold = 5 * time.Minute

	// SamePlaceRadius is the maximum distance in meters between successive
	// fixes that still counts as "not moved".
	SamePlaceRadius = 100.0
)

// Candidate is a ripe stationary window awaiting labeling and
// classification. It carries the coordinates and timestamp of the fix that
// completed the dwell, not the anchor.
type Candidate struct {
	Latitude   float64
	Longitude  float64
	ObservedAt int64
}

// Advance feeds one fix into the detector, mutating state in place. It
// returns a candidate once the device has dwelled within SamePlaceRadius for
// at least StationaryThreshold, nil otherwise.
//
// The radius check compares against the previous fix rather than the anchor:
// the anchor marks where movement last settled, while successive-fix
// comparison catches any new departure immediately. Slow drift that never
// exceeds the radius between consecutive fixes keeps the dwell clock
// running.
func Advance(state *models.DetectorState, fix models.Fix) *Candidate {
	if state.AnchorFix == nil || state.LastFix == nil {
		// First fix ever, or freshly reset: nothing to compare against.
		anchor(state, fix)
		return nil
	}

	d := spatial.HaversineDistance(
		state.LastFix.Latitude, state.LastFix.Longitude,
		fix.Latitude, fix.Longitude,
	)
	if d > SamePlaceRadius {
		// Moved meaningfully; a new dwell window starts here.
		anchor(state, fix)
		return nil
	}

	f := fix
	state.LastFix = &f

	elapsed := time.Duration(fix.CapturedAt-state.AnchorSince) * time.Second
	if elapsed < StationaryThreshold {
		return nil
	}

	return &Candidate{
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		ObservedAt: fix.CapturedAt,
	}
}

// ResetDwell restarts the stationary clock without moving the anchor. The
// pipeline calls this after every classification outcome, confirmed or
// rejected; otherwise a device that stays put would re-trigger
// classification on every subsequent fix.
func ResetDwell(state *models.DetectorState, at int64) {
	state.AnchorSince = at
}

func anchor(state *models.DetectorState, fix models.Fix) {
	f := fix
	state.AnchorFix = &f
	state.AnchorSince = fix.CapturedAt
	state.LastFix = &f
}
