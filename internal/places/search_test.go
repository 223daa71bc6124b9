package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch_RankedSuggestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "blue bottle" {
			t.Fatalf("unexpected query %q", q)
		}
		w.Write([]byte(`[
			{"osm_type": "node", "osm_id": 240109189, "name": "Blue Bottle Coffee",
			 "display_name": "Blue Bottle Coffee, 54 W 40th St, New York",
			 "lat": "40.7524", "lon": "-73.9842"},
			{"osm_type": "way", "osm_id": 998877, "name": "",
			 "display_name": "Blue Bottle Roastery, Oakland",
			 "lat": "37.8044", "lon": "-122.2712"}
		]`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "placelog-test/1.0")
	got := svc.Search(context.Background(), "blue bottle")

	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].ID != "N240109189" {
		t.Fatalf("unexpected id %q", got[0].ID)
	}
	if got[0].MainText != "Blue Bottle Coffee" {
		t.Fatalf("unexpected main text %q", got[0].MainText)
	}
	if got[0].SecondaryText != "54 W 40th St, New York" {
		t.Fatalf("unexpected secondary text %q", got[0].SecondaryText)
	}
	if got[1].ID != "W998877" || got[1].MainText != "Blue Bottle Roastery" {
		t.Fatalf("unexpected second suggestion %+v", got[1])
	}
}

func TestSearch_FailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "placelog-test/1.0")
	if got := svc.Search(context.Background(), "anything"); len(got) != 0 {
		t.Fatalf("expected empty result set on failure, got %d", len(got))
	}
}

func TestDetails_ResolvesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lookup" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ids := r.URL.Query().Get("osm_ids"); ids != "N240109189" {
			t.Fatalf("unexpected osm_ids %q", ids)
		}
		w.Write([]byte(`[
			{"osm_type": "node", "osm_id": 240109189, "name": "Blue Bottle Coffee",
			 "display_name": "Blue Bottle Coffee, 54 W 40th St, New York",
			 "lat": "40.7524", "lon": "-73.9842"}
		]`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, "placelog-test/1.0")
	got := svc.Details(context.Background(), "N240109189")

	if got == nil {
		t.Fatal("expected details")
	}
	if got.Name != "Blue Bottle Coffee" || got.Latitude != 40.7524 || got.Longitude != -73.9842 {
		t.Fatalf("unexpected details %+v", got)
	}
}

func TestDetails_RejectsMalformedID(t *testing.T) {
	svc := NewService("http://127.0.0.1:0", "placelog-test/1.0")

	for _, id := range []string{"", "X123", "N", "Nabc", "123"} {
		if got := svc.Details(context.Background(), id); got != nil {
			t.Fatalf("expected nil for malformed id %q, got %+v", id, got)
		}
	}
}
