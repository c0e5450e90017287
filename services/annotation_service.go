package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/odyssey-app/api-go/models"
)

const (
	geminiDefaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

	annotationMaxAttempts = 3
	annotationBaseDelay   = time.Second
)

// AnnotationClient calls the generative text endpoint that produces journal
// annotations (place background, phrase translations, cultural tips).
//
// Retry policy: only HTTP 429 responses are retried, up to 3 attempts, with
// exponential backoff or the server's Retry-After delay when one is given.
// Every other failure surfaces immediately.
type AnnotationClient struct {
	apiKey    string
	baseURL   string
	client    *http.Client
	baseDelay time.Duration
}

func NewAnnotationClient(apiKey string) *AnnotationClient {
	return &AnnotationClient{
		apiKey:    apiKey,
		baseURL:   geminiDefaultURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		baseDelay: annotationBaseDelay,
	}
}

// NewAnnotationClientWithURL points the client at a custom endpoint and
// backoff base (for tests).
func NewAnnotationClientWithURL(baseURL, apiKey string, baseDelay time.Duration) *AnnotationClient {
	return &AnnotationClient{
		apiKey:    apiKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		baseDelay: baseDelay,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces annotations for one visited site. The model is prompted
// to answer with the annotation JSON shape directly.
func (c *AnnotationClient) Generate(ctx context.Context, siteName, country string) (*models.Annotations, error) {
	prompt := fmt.Sprintf(
		`You are a travel companion. For the site %q in %q respond with only a JSON object shaped as `+
			`{"placeInfo":{"summary":"...","history":"..."},"phrases":[{"language":"...","original":"...","translated":"..."}],"culturalTips":["..."]} `+
			`containing a short background, three useful local phrases with translations, and two cultural tips.`,
		siteName, country)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding annotation request: %w", err)
	}

	var retryAfter string
	for attempt := 0; attempt < annotationMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.wait(ctx, attempt, retryAfter); err != nil {
				return nil, err
			}
		}

		annotations, status, hdr, err := c.post(ctx, body)
		if err != nil {
			return nil, err
		}
		if status == http.StatusOK {
			return annotations, nil
		}
		retryAfter = hdr
	}

	return nil, fmt.Errorf("annotation generation after %d attempts: %w", annotationMaxAttempts, ErrRateLimited)
}

// post performs one request. A 429 is reported via the returned status and
// Retry-After header so the caller can back off; any other non-200 is a hard
// error.
func (c *AnnotationClient) post(ctx context.Context, body []byte) (*models.Annotations, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, 0, "", fmt.Errorf("creating annotation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, "", fmt.Errorf("calling annotation endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, resp.StatusCode, resp.Header.Get("Retry-After"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, "", fmt.Errorf("annotation endpoint returned status %d", resp.StatusCode)
	}

	var raw geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, resp.StatusCode, "", fmt.Errorf("decoding annotation response: %w", err)
	}
	if len(raw.Candidates) == 0 || len(raw.Candidates[0].Content.Parts) == 0 {
		return nil, resp.StatusCode, "", fmt.Errorf("annotation response contained no candidates")
	}

	var annotations models.Annotations
	if err := json.Unmarshal([]byte(raw.Candidates[0].Content.Parts[0].Text), &annotations); err != nil {
		return nil, resp.StatusCode, "", fmt.Errorf("parsing generated annotations: %w", err)
	}
	now := time.Now()
	annotations.GeneratedAt = &now
	return &annotations, resp.StatusCode, "", nil
}

// wait sleeps before the next attempt: the server's Retry-After seconds when
// provided, otherwise exponential backoff from the configured base delay.
func (c *AnnotationClient) wait(ctx context.Context, attempt int, retryAfter string) error {
	delay := c.baseDelay << (attempt - 1)
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
