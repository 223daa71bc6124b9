package geocoding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Lookup sources, in tier order.
const (
	SourceCache    = "cache"
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Result is a tagged reverse-geocoding outcome, so callers (and tests) can
// tell which tier produced the label.
type Result struct {
	Source string `json:"source"`
	Label  string `json:"label"`
}

// Service resolves coordinates to human-readable place labels. Tiers: local
// geocache first, then Nominatim, then a fixed-precision coordinate string.
// Lookup never fails; a label always comes back.
type Service struct {
	db         *sql.DB
	httpClient *http.Client
	baseURL    string
	userAgent  string

	// Nominatim usage policy caps at 1 request/second.
	minInterval time.Duration
	lastRequest time.Time
	rateMu      sync.Mutex
}

// NewService creates a reverse-geocoding service backed by the given
// database (for the geocache table) and Nominatim endpoint.
func NewService(db *sql.DB, baseURL, userAgent string) *Service {
	return &Service{
		db:          db,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		minInterval: time.Second,
	}
}

// Lookup resolves a coordinate to a structured label like
// "Venue, Neighborhood, City". Remote failures degrade to the coordinate
// string rather than surfacing an error.
func (g *Service) Lookup(ctx context.Context, lat, lon float64) Result {
	if label, err := g.lookupCache(lat, lon); err == nil && label != "" {
		return Result{Source: SourceCache, Label: label}
	}

	label, err := g.fetchRemote(ctx, lat, lon)
	if err != nil {
		logrus.WithError(err).Warnf("reverse geocode failed for (%.6f, %.6f)", lat, lon)
	} else if label != "" {
		return Result{Source: SourceRemote, Label: label}
	}

	return Result{Source: SourceFallback, Label: FallbackLabel(lat, lon)}
}

// FallbackLabel is the last-resort label when no geocoder tier answers.
func FallbackLabel(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// lookupCache checks whether the point falls within any cached bounding box.
func (g *Service) lookupCache(lat, lon float64) (string, error) {
	var label string
	err := g.db.QueryRow(`
		SELECT label FROM geocache
		WHERE ? >= min_lat AND ? <= max_lat AND ? >= min_lon AND ? <= max_lon
		LIMIT 1
	`, lat, lat, lon, lon).Scan(&label)
	if err != nil {
		return "", err
	}
	return label, nil
}

// insertCache stores a resolved label with its bounding box so later fixes
// inside the box resolve without a network round trip.
func (g *Service) insertCache(minLat, maxLat, minLon, maxLon float64, label string) error {
	_, err := g.db.Exec(`
		INSERT INTO geocache (min_lat, max_lat, min_lon, max_lon, label, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, minLat, maxLat, minLon, maxLon, label, time.Now().Unix())
	return err
}

// nominatimResponse is the subset of the /reverse jsonv2 payload we use.
type nominatimResponse struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	BoundingBox []string         `json:"boundingbox"` // [min_lat, max_lat, min_lon, max_lon]
	Address     nominatimAddress `json:"address"`
}

type nominatimAddress struct {
	Amenity       string `json:"amenity,omitempty"`
	Shop          string `json:"shop,omitempty"`
	Tourism       string `json:"tourism,omitempty"`
	Leisure       string `json:"leisure,omitempty"`
	Building      string `json:"building,omitempty"`
	HouseNumber   string `json:"house_number,omitempty"`
	Road          string `json:"road,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	Village       string `json:"village,omitempty"`
}

func (g *Service) fetchRemote(ctx context.Context, lat, lon float64) (string, error) {
	g.throttle()

	reqURL := fmt.Sprintf(
		"%s/reverse?lat=%.6f&lon=%.6f&format=jsonv2&zoom=18&addressdetails=1",
		g.baseURL, lat, lon,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	// Required by Nominatim ToS
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var nr nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return "", fmt.Errorf("failed to parse nominatim response: %w", err)
	}

	label := buildLabel(nr)
	if label == "" {
		return "", nil
	}

	if len(nr.BoundingBox) == 4 {
		minLat, _ := strconv.ParseFloat(nr.BoundingBox[0], 64)
		maxLat, _ := strconv.ParseFloat(nr.BoundingBox[1], 64)
		minLon, _ := strconv.ParseFloat(nr.BoundingBox[2], 64)
		maxLon, _ := strconv.ParseFloat(nr.BoundingBox[3], 64)

		// Expand the box to include the query point.
		if lat < minLat {
			minLat = lat
		}
		if lat > maxLat {
			maxLat = lat
		}
		if lon < minLon {
			minLon = lon
		}
		if lon > maxLon {
			maxLon = lon
		}

		if err := g.insertCache(minLat, maxLat, minLon, maxLon, label); err != nil {
			logrus.WithError(err).Warn("failed to cache geocode result")
		}
	}

	return label, nil
}

func (g *Service) throttle() {
	g.rateMu.Lock()
	defer g.rateMu.Unlock()
	if elapsed := time.Since(g.lastRequest); elapsed < g.minInterval {
		time.Sleep(g.minInterval - elapsed)
	}
	g.lastRequest = time.Now()
}

// buildLabel assembles a comma-joined structural label from a Nominatim
// address: venue or street first, then neighborhood, then city. The
// place-change classifier compares these parts hierarchically, so the order
// matters more than completeness.
func buildLabel(nr nominatimResponse) string {
	var parts []string

	if primary := primaryPart(nr); primary != "" {
		parts = append(parts, primary)
	}

	addr := nr.Address
	if addr.Neighbourhood != "" {
		parts = append(parts, addr.Neighbourhood)
	} else if addr.Suburb != "" {
		parts = append(parts, addr.Suburb)
	}

	switch {
	case addr.City != "":
		parts = append(parts, addr.City)
	case addr.Town != "":
		parts = append(parts, addr.Town)
	case addr.Village != "":
		parts = append(parts, addr.Village)
	}

	return strings.Join(parts, ", ")
}

// primaryPart picks the most specific name for the first label component.
func primaryPart(nr nominatimResponse) string {
	if nr.Name != "" {
		return nr.Name
	}

	addr := nr.Address
	for _, v := range []string{addr.Amenity, addr.Shop, addr.Tourism, addr.Leisure} {
		if v != "" {
			return v
		}
	}
	if addr.Building != "" && addr.Building != "yes" {
		return addr.Building
	}
	if addr.Road != "" {
		if addr.HouseNumber != "" {
			return addr.HouseNumber + " " + addr.Road
		}
		return addr.Road
	}
	return ""
}
