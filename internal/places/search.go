package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"placelog/internal/models"
)

// Service provides free-text place search against Nominatim. Used by the
// timeline edit path, never by the detection pipeline. Transient failures
// degrade to empty results rather than errors.
type Service struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

// NewService creates a place search service for the given Nominatim
// endpoint.
func NewService(baseURL, userAgent string) *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		limit:      10,
	}
}

// searchResult is the subset of one Nominatim /search (or /lookup) jsonv2
// entry we use. The suggestion ID is the OSM type letter plus the OSM id
// (e.g. "N240109189"), which /lookup resolves directly.
type searchResult struct {
	OSMType     string `json:"osm_type"`
	OSMID       int64  `json:"osm_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns ranked suggestions for a free-text query. Any failure is
// logged and reported as an empty result set.
func (s *Service) Search(ctx context.Context, query string) []models.PlaceSuggestion {
	reqURL := fmt.Sprintf("%s/search?q=%s&format=jsonv2&limit=%d",
		s.baseURL, url.QueryEscape(query), s.limit)

	results, err := s.fetch(ctx, reqURL)
	if err != nil {
		logrus.WithError(err).Warnf("place search failed for %q", query)
		return nil
	}

	suggestions := make([]models.PlaceSuggestion, 0, len(results))
	for _, r := range results {
		id := suggestionID(r)
		if id == "" {
			continue
		}
		main, secondary := splitDisplayName(r)
		suggestions = append(suggestions, models.PlaceSuggestion{
			ID:            id,
			Description:   r.DisplayName,
			MainText:      main,
			SecondaryText: secondary,
		})
	}
	return suggestions
}

// Details resolves a suggestion ID to its name, address, and coordinates.
// Returns nil when the ID does not resolve or the lookup fails.
func (s *Service) Details(ctx context.Context, id string) *models.PlaceDetails {
	if !validID(id) {
		return nil
	}

	reqURL := fmt.Sprintf("%s/lookup?osm_ids=%s&format=jsonv2",
		s.baseURL, url.QueryEscape(id))

	results, err := s.fetch(ctx, reqURL)
	if err != nil {
		logrus.WithError(err).Warnf("place details lookup failed for %q", id)
		return nil
	}
	if len(results) == 0 {
		return nil
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil
	}

	name := r.Name
	if name == "" {
		name, _ = splitDisplayName(r)
	}
	return &models.PlaceDetails{
		Name:      name,
		Address:   r.DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}
}

func (s *Service) fetch(ctx context.Context, reqURL string) ([]searchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to parse nominatim response: %w", err)
	}
	return results, nil
}

func suggestionID(r searchResult) string {
	if r.OSMID == 0 || r.OSMType == "" {
		return ""
	}
	return strings.ToUpper(r.OSMType[:1]) + strconv.FormatInt(r.OSMID, 10)
}

// validID accepts the N/W/R + digits shape produced by suggestionID.
func validID(id string) bool {
	if len(id) < 2 {
		return false
	}
	switch id[0] {
	case 'N', 'W', 'R':
	default:
		return false
	}
	_, err := strconv.ParseInt(id[1:], 10, 64)
	return err == nil
}

func splitDisplayName(r searchResult) (main, secondary string) {
	if r.Name != "" {
		main = r.Name
		if rest := strings.TrimPrefix(r.DisplayName, r.Name); rest != r.DisplayName {
			secondary = strings.TrimLeft(rest, ", ")
		} else {
			secondary = r.DisplayName
		}
		return main, secondary
	}

	parts := strings.SplitN(r.DisplayName, ",", 2)
	main = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		secondary = strings.TrimSpace(parts[1])
	}
	return main, secondary
}
