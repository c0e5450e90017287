package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
)

// SiteSource finds candidate sites for a location. Zero results is a valid
// answer, not an error; only transport or upstream failures error out.
type SiteSource interface {
	Search(ctx context.Context, locationText string, near *planner.Coordinate) ([]models.Site, error)
}

const (
	otmGeonameURL = "https://api.opentripmap.com/0.1/en/places/geoname"
	otmRadiusURL  = "https://api.opentripmap.com/0.1/en/places/radius"

	siteSearchRadiusMeters = 25000
	siteSearchLimit        = 50
)

// HeritageSiteClient searches OpenTripMap for heritage sites: the location
// text is geocoded first unless the caller already has a coordinate, then a
// radius query collects nearby cultural/historic places.
type HeritageSiteClient struct {
	apiKey      string
	geoBaseURL  string
	siteBaseURL string
	client      *http.Client
}

func NewHeritageSiteClient(apiKey string) *HeritageSiteClient {
	return &HeritageSiteClient{
		apiKey:      apiKey,
		geoBaseURL:  otmGeonameURL,
		siteBaseURL: otmRadiusURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// NewHeritageSiteClientWithURLs points the client at custom endpoints (for tests).
func NewHeritageSiteClientWithURLs(geoBaseURL, siteBaseURL, apiKey string) *HeritageSiteClient {
	return &HeritageSiteClient{
		apiKey:      apiKey,
		geoBaseURL:  geoBaseURL,
		siteBaseURL: siteBaseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type otmGeoname struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type otmFeatureCollection struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			XID   string  `json:"xid"`
			Name  string  `json:"name"`
			Kinds string  `json:"kinds"`
			Rate  float64 `json:"rate"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"features"`
}

func (c *HeritageSiteClient) Search(ctx context.Context, locationText string, near *planner.Coordinate) ([]models.Site, error) {
	coord := near
	if coord == nil {
		geocoded, err := c.geocode(ctx, locationText)
		if err != nil {
			return nil, err
		}
		coord = geocoded
	}
	if err := coord.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	endpoint := fmt.Sprintf("%s?radius=%d&lon=%f&lat=%f&kinds=cultural,historic&rate=2&limit=%d&apikey=%s",
		c.siteBaseURL, siteSearchRadiusMeters, coord.Lng, coord.Lat, siteSearchLimit, c.apiKey)

	var fc otmFeatureCollection
	if err := c.getJSON(ctx, endpoint, &fc); err != nil {
		return nil, fmt.Errorf("site search near (%f,%f): %w", coord.Lat, coord.Lng, err)
	}

	sites := make([]models.Site, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Properties.Name == "" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		refID := f.Properties.XID
		if refID == "" {
			refID = f.ID
		}
		site := models.Site{
			RefID:     refID,
			Name:      f.Properties.Name,
			Category:  primaryKind(f.Properties.Kinds),
			Rating:    f.Properties.Rate,
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
		}
		if ht := heritageFromKinds(f.Properties.Kinds); ht != nil {
			site.HeritageType = ht
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func (c *HeritageSiteClient) geocode(ctx context.Context, locationText string) (*planner.Coordinate, error) {
	if strings.TrimSpace(locationText) == "" {
		return nil, &ValidationError{Reason: "a location or coordinate is required"}
	}
	endpoint := c.geoBaseURL + "?name=" + url.QueryEscape(locationText) + "&apikey=" + c.apiKey

	var geo otmGeoname
	if err := c.getJSON(ctx, endpoint, &geo); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", locationText, err)
	}
	return &planner.Coordinate{Lat: geo.Lat, Lng: geo.Lon}, nil
}

func (c *HeritageSiteClient) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// primaryKind picks the first of the comma-separated OpenTripMap kinds.
func primaryKind(kinds string) string {
	if i := strings.IndexByte(kinds, ','); i >= 0 {
		return kinds[:i]
	}
	return kinds
}

// heritageFromKinds maps OpenTripMap kind tags onto the heritage
// classification set, nil when none applies.
func heritageFromKinds(kinds string) *models.HeritageType {
	var ht models.HeritageType
	switch {
	case strings.Contains(kinds, "unesco"):
		ht = models.HeritageUNESCO
	case strings.Contains(kinds, "national_heritage"):
		ht = models.HeritageNational
	case strings.Contains(kinds, "regional_heritage"):
		ht = models.HeritageRegional
	case strings.Contains(kinds, "historic"):
		ht = models.HeritageLocal
	default:
		return nil
	}
	return &ht
}
