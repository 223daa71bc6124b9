package models

import "time"

// Fix represents a single raw GPS observation from the device's location
// provider. Fixes are consumed transiently by the stay detector and are
// never persisted individually.
type Fix struct {
	Latitude   float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" binding:"min=-180,max=180"`
	CapturedAt int64   `json:"capturedAt" binding:"gt=0"` // Unix timestamp in seconds
}

// IngestRequest is the body of POST /api/v1/fixes. Fixes may arrive batched;
// the pipeline sorts them by capturedAt before processing.
type IngestRequest struct {
	Fixes []Fix `json:"fixes" binding:"required,min=1,dive"`
}

// DayKey returns the device-local calendar date for a Unix timestamp,
// formatted YYYY-MM-DD. All stay storage is partitioned by this key.
func DayKey(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02")
}
