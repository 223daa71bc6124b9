package geocoding

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE geocache (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			min_lat REAL NOT NULL,
			max_lat REAL NOT NULL,
			min_lon REAL NOT NULL,
			max_lon REAL NOT NULL,
			label TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("failed to create geocache table: %v", err)
	}
	return db
}

func testService(t *testing.T, baseURL string) *Service {
	t.Helper()
	svc := NewService(testDB(t), baseURL, "placelog-test/1.0")
	svc.minInterval = 0 // no throttling in tests
	return svc
}

func TestLookup_RemoteTierBuildsStructuredLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "placelog-test/1.0" {
			t.Fatalf("missing user agent, got %q", ua)
		}
		w.Write([]byte(`{
			"name": "Blue Bottle Coffee",
			"display_name": "Blue Bottle Coffee, 54 W 40th St, Midtown, New York",
			"boundingbox": ["40.7523", "40.7525", "-73.9843", "-73.9841"],
			"address": {
				"amenity": "Blue Bottle Coffee",
				"road": "West 40th Street",
				"suburb": "Midtown",
				"city": "New York"
			}
		}`))
	}))
	defer srv.Close()

	svc := testService(t, srv.URL)
	res := svc.Lookup(context.Background(), 40.7524, -73.9842)

	if res.Source != SourceRemote {
		t.Fatalf("expected remote tier, got %q", res.Source)
	}
	if res.Label != "Blue Bottle Coffee, Midtown, New York" {
		t.Fatalf("unexpected label %q", res.Label)
	}
}

func TestLookup_CacheTierAnswersSecondQuery(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{
			"name": "Central Park",
			"display_name": "Central Park, New York",
			"boundingbox": ["40.7640", "40.8005", "-73.9818", "-73.9498"],
			"address": {"leisure": "Central Park", "city": "New York"}
		}`))
	}))
	defer srv.Close()

	svc := testService(t, srv.URL)
	ctx := context.Background()

	first := svc.Lookup(ctx, 40.7824, -73.9655)
	if first.Source != SourceRemote {
		t.Fatalf("expected remote on first lookup, got %q", first.Source)
	}

	// Inside the cached bounding box: no second network call.
	second := svc.Lookup(ctx, 40.7825, -73.9656)
	if second.Source != SourceCache {
		t.Fatalf("expected cache on second lookup, got %q", second.Source)
	}
	if second.Label != first.Label {
		t.Fatalf("cache label %q differs from remote label %q", second.Label, first.Label)
	}
	if calls != 1 {
		t.Fatalf("expected one remote call, got %d", calls)
	}
}

func TestLookup_FallbackTierOnRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svc := testService(t, srv.URL)
	res := svc.Lookup(context.Background(), 40.0, -74.0)

	if res.Source != SourceFallback {
		t.Fatalf("expected fallback tier, got %q", res.Source)
	}
	if res.Label != "40.0000, -74.0000" {
		t.Fatalf("unexpected fallback label %q", res.Label)
	}
}

func TestFallbackLabel_FixedPrecision(t *testing.T) {
	if got := FallbackLabel(40.123456, -74.987654); got != "40.1235, -74.9877" {
		t.Fatalf("unexpected fallback label %q", got)
	}
}

func TestBuildLabel_RoadFallsBackWhenUnnamed(t *testing.T) {
	nr := nominatimResponse{
		Address: nominatimAddress{
			HouseNumber:   "54",
			Road:          "West 40th Street",
			Neighbourhood: "Garment District",
			City:          "New York",
		},
	}
	if got := buildLabel(nr); got != "54 West 40th Street, Garment District, New York" {
		t.Fatalf("unexpected label %q", got)
	}
}
