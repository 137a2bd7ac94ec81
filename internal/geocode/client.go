// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geocode resolves free-text addresses to coordinates through
// an external Photon instance.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable signals a transport or server failure on the Photon
// side, as opposed to an address that simply has no match.
var ErrUnavailable = errors.New("geocoding service unavailable")

const requestTimeout = 10 * time.Second

// Coordinates is a resolved point. Photon returns GeoJSON [lon, lat];
// the client re-orders it into the latitude/longitude the API exposes.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// photonResponse mirrors the subset of the Photon GeoJSON reply we read.
type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Client queries a Photon geocoding endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Photon client for the given base URL
// (e.g. https://photon.komoot.io). An empty base URL yields a client
// whose lookups always report ErrUnavailable.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// BuildQuery concatenates the address parts into a free-text query,
// skipping empties.
func BuildQuery(address, venueName, postalCode, city string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{address, venueName, postalCode, city} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// Search resolves a free-text query to coordinates. It returns
// (nil, nil) when the address has no match and ErrUnavailable when the
// service cannot be reached or answers with a non-200 status.
func (c *Client) Search(ctx context.Context, query string) (*Coordinates, error) {
	if c.baseURL == "" {
		return nil, ErrUnavailable
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/api?q=%s&limit=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if len(body.Features) == 0 {
		return nil, nil
	}
	coords := body.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, nil
	}
	lon, lat := coords[0], coords[1]
	if !isFinite(lat) || !isFinite(lon) {
		return nil, nil
	}
	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
