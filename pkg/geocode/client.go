// Package geocode provides forward and reverse geocoding backed by a
// Nominatim-compatible API. Results are trimmed to the fields the resting
// place picker needs.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Place is one geocoding result.
type Place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Client defines the interface for the geocoding service.
type Client interface {
	// Search resolves a free-text query to candidate places.
	Search(ctx context.Context, query string) ([]Place, error)

	// Reverse resolves coordinates to the nearest place.
	Reverse(ctx context.Context, lat, lon string) (*Place, error)
}

// Config holds configuration for creating a geocoding client.
type Config struct {
	BaseURL   string
	UserAgent string
}

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewClient creates a new geocoding client.
func NewClient(cfg *Config, logger *zap.Logger) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user agent is required")
	}

	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger.Named("geocode"),
	}, nil
}

// nominatimAddress carries the address detail fields we read. Smaller
// localities report only county or state, so city selection falls back
// through the locality ladder.
type nominatimAddress struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	County  string `json:"county"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type nominatimResult struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}

// firstOf picks the first non-empty locality candidate.
func firstOf(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func toPlace(r nominatimResult, city string) Place {
	return Place{
		DisplayName: r.DisplayName,
		Lat:         r.Lat,
		Lon:         r.Lon,
		City:        city,
		State:       r.Address.State,
		Country:     r.Address.Country,
	}
}

// Search resolves a free-text query to candidate places.
func (c *client) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")

	var results []nominatimResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		a := r.Address
		places = append(places, toPlace(r, firstOf(a.City, a.Town, a.Village, a.County, a.State)))
	}
	return places, nil
}

// Reverse resolves coordinates to the nearest place.
func (c *client) Reverse(ctx context.Context, lat, lon string) (*Place, error) {
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var result nominatimResult
	if err := c.get(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}

	// Reverse lookups near small localities often name only the county,
	// so it wins over the city for the label.
	a := result.Address
	place := toPlace(result, firstOf(a.County, a.City, a.State))
	return &place, nil
}

func (c *client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("geocode service returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocode response: %w", err)
	}
	return nil
}

var _ Client = (*client)(nil)
