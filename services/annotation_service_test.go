package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-app/api-go/services"
)

func annotationPayload(t *testing.T) []byte {
	t.Helper()
	inner, err := json.Marshal(map[string]any{
		"placeInfo": map[string]string{"summary": "An old shrine.", "history": "Founded in 711."},
		"phrases": []map[string]string{
			{"language": "Japanese", "original": "hello", "translated": "konnichiwa"},
		},
		"culturalTips": []string{"Bow at the torii gate."},
	})
	require.NoError(t, err)

	outer, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": string(inner)}}}},
		},
	})
	require.NoError(t, err)
	return outer
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write(annotationPayload(t))
	}))
	defer srv.Close()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	annotations, err := client.Generate(context.Background(), "Fushimi Inari", "Japan")
	require.NoError(t, err)

	require.NotNil(t, annotations.PlaceInfo)
	assert.Equal(t, "An old shrine.", annotations.PlaceInfo.Summary)
	require.Len(t, annotations.Phrases, 1)
	assert.Equal(t, "konnichiwa", annotations.Phrases[0].Translated)
	assert.NotNil(t, annotations.GeneratedAt)
	assert.True(t, annotations.Translated())
}

func TestGenerateRetriesOn429(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(annotationPayload(t))
	}))
	defer srv.Close()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	annotations, err := client.Generate(context.Background(), "Fushimi Inari", "Japan")
	require.NoError(t, err)
	assert.NotNil(t, annotations.PlaceInfo)
	assert.Equal(t, 3, hits)
}

func TestGenerateHonorsRetryAfter(t *testing.T) {
	var hits int
	var secondHit time.Time
	start := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		secondHit = time.Now()
		w.Write(annotationPayload(t))
	}))
	defer srv.Close()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	_, err := client.Generate(context.Background(), "Fushimi Inari", "Japan")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, secondHit.Sub(start), time.Second, "server-provided delay is honored")
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	_, err := client.Generate(context.Background(), "Fushimi Inari", "Japan")
	assert.ErrorIs(t, err, services.ErrRateLimited)
	assert.Equal(t, 3, hits)
}

func TestGenerateDoesNotRetryOtherFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	_, err := client.Generate(context.Background(), "Fushimi Inari", "Japan")
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrRateLimited)
	assert.Equal(t, 1, hits, "only rate limits are retried")
}

func TestGenerateRespectsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := services.NewAnnotationClientWithURL(srv.URL, "test-key", time.Millisecond)
	_, err := client.Generate(ctx, "Fushimi Inari", "Japan")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
