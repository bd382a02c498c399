// Package convertkit subscribes customers to ConvertKit mailing-list forms.
package convertkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.convertkit.com/v3"

// Client talks to the ConvertKit v3 API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a ConvertKit client
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

// Subscribe adds an email address to the given form
func (c *Client) Subscribe(ctx context.Context, formID, email, firstName string) error {
	payload, err := json.Marshal(map[string]string{
		"api_key":    c.apiKey,
		"email":      email,
		"first_name": firstName,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/forms/%s/subscribe", c.baseURL, formID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("convertkit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("convertkit: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
