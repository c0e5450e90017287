package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-app/api-go/services"
)

func boundaryPayload() any {
	return map[string]any{
		"features": []map[string]any{
			{
				"properties": map[string]string{"ADMIN": "Japan", "ISO_A3": "JPN"},
				"geometry":   map[string]any{"type": "MultiPolygon", "coordinates": []any{}},
			},
			{
				"properties": map[string]string{"ADMIN": "Portugal", "ISO_A3": "PRT"},
				"geometry":   map[string]any{"type": "MultiPolygon", "coordinates": []any{}},
			},
		},
	}
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(boundaryPayload())
	}))
	defer srv.Close()

	cache := services.NewBoundaryCacheWithURL(srv.URL)

	first, err := cache.EnsureLoaded(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "JPN", first[0].ISOCode)

	second, err := cache.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "payload is fetched once per process")
}

func TestEnsureLoadedFailureIsRetryable(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(boundaryPayload())
	}))
	defer srv.Close()

	cache := services.NewBoundaryCacheWithURL(srv.URL)

	_, err := cache.EnsureLoaded(context.Background())
	require.Error(t, err, "first load fails")

	countries, err := cache.EnsureLoaded(context.Background())
	require.NoError(t, err, "a failed load does not poison the cache")
	assert.Len(t, countries, 2)
}

func TestEnsureLoadedConcurrentCallers(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		json.NewEncoder(w).Encode(boundaryPayload())
	}))
	defer srv.Close()

	cache := services.NewBoundaryCacheWithURL(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			countries, err := cache.EnsureLoaded(context.Background())
			assert.NoError(t, err)
			assert.Len(t, countries, 2)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "concurrent callers share one fetch")
}
