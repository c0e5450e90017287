package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
	"github.com/odyssey-app/api-go/services"
)

func featurePayload() any {
	return map[string]any{
		"features": []map[string]any{
			{
				"id": "F1",
				"properties": map[string]any{
					"xid":   "W12345",
					"name":  "Fushimi Inari Taisha",
					"kinds": "historic,unesco,religion",
					"rate":  3,
				},
				"geometry": map[string]any{"coordinates": []float64{135.7727, 34.9671}},
			},
			{
				// Unnamed features are dropped.
				"id": "F2",
				"properties": map[string]any{
					"xid":   "W99999",
					"name":  "",
					"kinds": "historic",
					"rate":  1,
				},
				"geometry": map[string]any{"coordinates": []float64{135.0, 35.0}},
			},
		},
	}
}

func TestSearchWithCoordinate(t *testing.T) {
	var geoHits int
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geoHits++
	}))
	defer geoSrv.Close()

	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(featurePayload())
	}))
	defer siteSrv.Close()

	client := services.NewHeritageSiteClientWithURLs(geoSrv.URL, siteSrv.URL, "test-key")
	sites, err := client.Search(context.Background(), "", &planner.Coordinate{Lat: 34.96, Lng: 135.77})
	require.NoError(t, err)

	assert.Zero(t, geoHits, "no geocoding when a coordinate is supplied")
	require.Len(t, sites, 1)
	assert.Equal(t, "W12345", sites[0].RefID)
	assert.Equal(t, "Fushimi Inari Taisha", sites[0].Name)
	assert.Equal(t, "historic", sites[0].Category)
	require.NotNil(t, sites[0].HeritageType)
	assert.Equal(t, models.HeritageUNESCO, *sites[0].HeritageType)
	assert.InDelta(t, 34.9671, sites[0].Latitude, 1e-6)
}

func TestSearchGeocodesLocationText(t *testing.T) {
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Kyoto", r.URL.Query().Get("name"))
		json.NewEncoder(w).Encode(map[string]float64{"lat": 35.0116, "lon": 135.7681})
	}))
	defer geoSrv.Close()

	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(featurePayload())
	}))
	defer siteSrv.Close()

	client := services.NewHeritageSiteClientWithURLs(geoSrv.URL, siteSrv.URL, "test-key")
	sites, err := client.Search(context.Background(), "Kyoto", nil)
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestSearchZeroResultsIsNotAnError(t *testing.T) {
	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"features": []any{}})
	}))
	defer siteSrv.Close()

	client := services.NewHeritageSiteClientWithURLs("", siteSrv.URL, "test-key")
	sites, err := client.Search(context.Background(), "", &planner.Coordinate{Lat: 0, Lng: 0})
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestSearchTransportFailure(t *testing.T) {
	siteSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer siteSrv.Close()

	client := services.NewHeritageSiteClientWithURLs("", siteSrv.URL, "test-key")
	_, err := client.Search(context.Background(), "", &planner.Coordinate{Lat: 0, Lng: 0})
	assert.Error(t, err)
}

func TestSearchRejectsEmptyInput(t *testing.T) {
	client := services.NewHeritageSiteClientWithURLs("", "", "test-key")
	_, err := client.Search(context.Background(), "   ", nil)
	require.Error(t, err)
	assert.True(t, services.IsValidation(err))
}
