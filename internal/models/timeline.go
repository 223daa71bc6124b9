package models

// TimelineEntry is a user-facing, editable stop within a day's timeline. An
// entry may originate from a confirmed Stay, from a place search, or from
// free-text editing. Position is a dense 0-based display order within the
// day.
type TimelineEntry struct {
	Label      string  `json:"label"`
	ObservedAt int64   `json:"observedAt"` // Unix timestamp in seconds
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Icon       string  `json:"icon"`
	Position   int     `json:"position"`
}

// SaveTimelineRequest is the body of PUT /api/v1/days/:day/timeline.
type SaveTimelineRequest struct {
	Entries []TimelineEntry `json:"entries"`
}
