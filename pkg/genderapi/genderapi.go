// Package genderapi infers gender from a first name via gender-api.com.
// This is best-effort enrichment: every failure path returns "unknown".
package genderapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://gender-api.com"

// Unknown is the fallback returned on any lookup failure
const Unknown = "unknown"

// Client queries the gender inference API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gender inference client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL overrides the API base URL, used in tests
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Lookup resolves a first name to a gender string. It returns an error for
// the caller to log, together with Unknown, so enrichment never blocks
// customer creation.
func (c *Client) Lookup(ctx context.Context, firstName string) (string, error) {
	if firstName == "" {
		return Unknown, nil
	}

	endpoint := fmt.Sprintf("%s/get?name=%s&key=%s",
		c.baseURL, url.QueryEscape(firstName), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Unknown, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("gender api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown, fmt.Errorf("gender api: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Gender string `json:"gender"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Unknown, fmt.Errorf("gender api: %w", err)
	}
	if body.Gender == "" {
		return Unknown, nil
	}
	return body.Gender, nil
}
