// Package forecast fetches runway forecasts from a remote service and
// falls back to the local simulation when the service is unavailable.
package forecast

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	forecastPath   = "/v1/forecast"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the API key is missing or invalid.
	ErrUnauthorized = errors.New("forecast: unauthorized (api key missing or invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("forecast: rate limited")
	// ErrBadResponse indicates the service replied with an unusable forecast.
	ErrBadResponse = errors.New("forecast: malformed response")
)

// Client talks to the remote forecast service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
// Returns nil if baseURL is empty.
func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{},
	}
}

// Fetch requests a forecast and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, req Request) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: encoding request: %w", err)
	}
	return c.post(ctx, forecastPath, payload)
}

// post performs an authenticated POST request and returns the response body.
func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("forecast: creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/runway/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	//nolint:gosec // URL comes from the user's own config
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("forecast: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("forecast: reading response: %w", err)
	}
	return body, nil
}

// DecodeResponse parses a response body and checks it covers months.
func DecodeResponse(body []byte, months int) (Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if len(r.Projections) != months {
		return Response{}, fmt.Errorf("%w: got %d months, want %d", ErrBadResponse, len(r.Projections), months)
	}
	for i, p := range r.Projections {
		if p.Month != i+1 {
			return Response{}, fmt.Errorf("%w: month %d out of order", ErrBadResponse, p.Month)
		}
	}
	return r, nil
}

// RequestHash returns a stable cache key for req.
func RequestHash(req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("forecast: hashing request: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
