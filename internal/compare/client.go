// Package compare calls the optional product-comparison service. The service
// enriches a recommendation run with a side-by-side comparison; it is never
// load-bearing, and callers treat any failure here as a degraded run.
package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Client defines the comparison operation.
type Client interface {
	// Compare submits the merged profile and recommendations and returns the
	// comparison document.
	Compare(ctx context.Context, mp model.MergedProfile, recs []model.Recommendation) (map[string]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	cfg  config.CompareConfig
	http *http.Client
}

// NewClient creates a comparison client from config.
func NewClient(cfg config.CompareConfig, opts ...Option) Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &httpClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Compare(ctx context.Context, mp model.MergedProfile, recs []model.Recommendation) (map[string]any, error) {
	payload, err := json.Marshal(map[string]any{
		"profile":         mp,
		"recommendations": recs,
	})
	if err != nil {
		return nil, eris.Wrap(err, "compare: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/compare", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "compare: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "compare: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "compare: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("compare: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "compare: unmarshal response")
	}
	return result, nil
}
