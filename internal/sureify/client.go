// Package sureify provides a client for the Sureify Puddle Data API, the
// external system of record for policies, suitability rows, and products.
package sureify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/meridian-advisory/renewal-intel/internal/config"
)

// Client defines the Puddle Data API operations.
type Client interface {
	// Authenticate obtains (or refreshes) the access token.
	Authenticate(ctx context.Context) error
	// GetBookOfBusiness fetches all policy records as loosely-shaped maps.
	GetBookOfBusiness(ctx context.Context) ([]map[string]any, error)
	// GetSuitabilityData fetches the suitability rows.
	GetSuitabilityData(ctx context.Context) ([]map[string]any, error)
	// GetProductOptions fetches the external product catalog.
	GetProductOptions(ctx context.Context) ([]map[string]any, error)
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
	cfg     config.SureifyConfig
	http    *http.Client
	limiter *rate.Limiter

	mu    sync.Mutex
	token string
}

// NewClient creates a Puddle Data API client from config.
func NewClient(cfg config.SureifyConfig, opts ...Option) Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 5
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 10
	}

	c := &httpClient{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(perSec), burst),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Authenticate(ctx context.Context) error {
	if c.cfg.BearerToken != "" {
		c.mu.Lock()
		c.token = strings.TrimSpace(c.cfg.BearerToken)
		c.mu.Unlock()
		return nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	if c.cfg.Scope != "" {
		form.Set("scope", c.cfg.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return eris.Wrap(err, "sureify: create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "sureify: token request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "sureify: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("sureify: token endpoint status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return eris.Wrap(err, "sureify: unmarshal token response")
	}
	if tokenResp.AccessToken == "" {
		return eris.New("sureify: token response missing access_token")
	}

	c.mu.Lock()
	c.token = tokenResp.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *httpClient) GetBookOfBusiness(ctx context.Context) ([]map[string]any, error) {
	return c.getList(ctx, "/puddle/policyData", "policyData")
}

func (c *httpClient) GetSuitabilityData(ctx context.Context) ([]map[string]any, error) {
	return c.getList(ctx, "/puddle/suitabilityData", "suitabilityData")
}

func (c *httpClient) GetProductOptions(ctx context.Context) ([]map[string]any, error) {
	return c.getList(ctx, "/puddle/productOption", "productOptions")
}

// getList performs an authenticated GET and unwraps the named list from the
// response envelope. A 401 triggers one re-authentication before failing.
func (c *httpClient) getList(ctx context.Context, path, responseKey string) ([]map[string]any, error) {
	body, status, err := c.doGet(ctx, path)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		body, status, err = c.doGet(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, eris.Errorf("sureify: GET %s status %d: %s", path, status, string(body))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, eris.Wrapf(err, "sureify: unmarshal %s envelope", path)
	}
	raw, ok := envelope[responseKey]
	if !ok {
		return nil, eris.Errorf("sureify: response for %s missing key %q", path, responseKey)
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, eris.Wrapf(err, "sureify: unmarshal %s records", path)
	}
	return records, nil
}

func (c *httpClient) doGet(ctx context.Context, path string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, eris.Wrap(err, "sureify: rate limiter wait")
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		if err := c.Authenticate(ctx); err != nil {
			return nil, 0, err
		}
		c.mu.Lock()
		token = c.token
		c.mu.Unlock()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "sureify: create request %s", path)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserID != "" {
		req.Header.Set("UserID", c.cfg.UserID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "sureify: GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "sureify: read response body")
	}
	return body, resp.StatusCode, nil
}
