package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const worldBoundaryURL = "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson"

// CountryBoundary is one country polygon from the world-boundary dataset,
// with the geometry kept opaque for the map layer.
type CountryBoundary struct {
	Name     string          `json:"name"`
	ISOCode  string          `json:"isoCode"`
	Geometry json.RawMessage `json:"geometry"`
}

type boundaryFeatureCollection struct {
	Features []struct {
		Properties struct {
			Admin   string `json:"ADMIN"`
			ISOCode string `json:"ISO_A3"`
		} `json:"properties"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"features"`
}

// BoundaryCache holds the world-boundary GeoJSON payload the fog-of-war map
// draws from. The payload is large and static, so it is fetched once per
// process: EnsureLoaded is idempotent, a successful load is kept for the
// process lifetime, concurrent callers block on the single in-flight fetch,
// and a failed load leaves the cache empty so the next call retries.
type BoundaryCache struct {
	url    string
	client *http.Client

	mu        sync.Mutex
	countries []CountryBoundary
}

func NewBoundaryCache() *BoundaryCache {
	return &BoundaryCache{
		url:    worldBoundaryURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewBoundaryCacheWithURL points the cache at a custom dataset URL (for tests).
func NewBoundaryCacheWithURL(url string) *BoundaryCache {
	return &BoundaryCache{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// EnsureLoaded returns the cached boundaries, fetching them on first use.
func (c *BoundaryCache) EnsureLoaded(ctx context.Context) ([]CountryBoundary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.countries != nil {
		return c.countries, nil
	}

	countries, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.countries = countries
	return c.countries, nil
}

func (c *BoundaryCache) fetch(ctx context.Context) ([]CountryBoundary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating boundary request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching world boundaries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("world boundary fetch returned status %d", resp.StatusCode)
	}

	var fc boundaryFeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decoding world boundaries: %w", err)
	}

	countries := make([]CountryBoundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		countries = append(countries, CountryBoundary{
			Name:     f.Properties.Admin,
			ISOCode:  f.Properties.ISOCode,
			Geometry: f.Geometry,
		})
	}
	return countries, nil
}
