package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"placelog/internal/models"
	"placelog/internal/service"
	"placelog/internal/store"
)

func setupTimelineRouter(t *testing.T) (*gin.Engine, *store.DailyStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewDailyStore(store.NewMemoryKV())
	h := NewTimelineHandler(service.NewTimelineService(st))

	r := gin.New()
	r.GET("/days/:day/stays", h.GetStays)
	r.GET("/days/:day/timeline", h.GetTimeline)
	r.PUT("/days/:day/timeline", h.SaveTimeline)
	return r, st
}

func TestGetStays_InvalidDay(t *testing.T) {
	r, _ := setupTimelineRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/days/not-a-date/stays", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed day, got %d", rr.Code)
	}
}

func TestSaveTimeline_RejectsMalformedBatch(t *testing.T) {
	r, st := setupTimelineRouter(t)

	body := `{"entries": [
		{"label": "Cafe", "observedAt": 100},
		{"label": "", "observedAt": 200}
	]}`
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("PUT", "/days/2026-08-30/timeline", strings.NewReader(body)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed entry, got %d", rr.Code)
	}

	// All-or-nothing: the valid entry must not have been written either.
	entries, err := st.LoadTimeline("2026-08-30")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if entries != nil {
		t.Fatalf("partial write occurred: %+v", entries)
	}
}

func TestSaveAndGetTimeline_MergesStays(t *testing.T) {
	r, st := setupTimelineRouter(t)

	// Recent timestamps so the store's 24h retention keeps the seeded stay.
	stayAt := time.Now().Add(-30 * time.Minute).Unix()
	editAt := time.Now().Add(-2 * time.Hour).Unix()
	day := models.DayKey(stayAt)

	if err := st.Append(day, models.Stay{
		Label: "Central Park, New York", Latitude: 40.78, Longitude: -73.96, ObservedAt: stayAt,
	}); err != nil {
		t.Fatalf("seed append failed: %v", err)
	}

	body := fmt.Sprintf(`{"entries": [{"label": "Morning run", "observedAt": %d, "latitude": 40.7, "longitude": -74.0}]}`, editAt)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("PUT", "/days/"+day+"/timeline", strings.NewReader(body)))
	if rr.Code != http.StatusOK {
		t.Fatalf("save failed with %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/days/"+day+"/timeline", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get failed with %d", rr.Code)
	}

	var resp struct {
		Data []models.TimelineEntry `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected edited entry plus merged stay, got %d entries", len(resp.Data))
	}
	if resp.Data[0].Label != "Morning run" || resp.Data[1].Label != "Central Park, New York" {
		t.Fatalf("unexpected merge order: %+v", resp.Data)
	}
	for i, e := range resp.Data {
		if e.Position != i {
			t.Fatalf("expected dense positions, got %d at %d", e.Position, i)
		}
	}
}
