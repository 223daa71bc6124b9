package models

// Stay represents a confirmed significant location visited during a day.
// Stays are created by the place-change classifier accepting a candidate and
// are immutable once created.
type Stay struct {
	Label      string  `json:"label"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ObservedAt int64   `json:"observedAt"` // Unix timestamp in seconds, the fix that triggered confirmation
}

// DetectorState is the durable state of the stay detector, persisted across
// restarts so an in-progress stationary window and the last confirmed place
// survive a process restart.
//
// AnchorSince is zero iff AnchorFix is nil.
type DetectorState struct {
	LastFix     *Fix  `json:"lastFix,omitempty"`
	AnchorFix   *Fix  `json:"anchorFix,omitempty"`
	AnchorSince int64 `json:"anchorSince,omitempty"`
	LastStay    *Stay `json:"lastStay,omitempty"`
}

// Clone returns a deep copy. The pipeline advances a copy and only adopts it
// once the corresponding writes have succeeded.
func (s *DetectorState) Clone() *DetectorState {
	out := &DetectorState{AnchorSince: s.AnchorSince}
	if s.LastFix != nil {
		f := *s.LastFix
		out.LastFix = &f
	}
	if s.AnchorFix != nil {
		f := *s.AnchorFix
		out.AnchorFix = &f
	}
	if s.LastStay != nil {
		st := *s.LastStay
		out.LastStay = &st
	}
	return out
}
