// Package campfire posts messages into the studio's Campfire chat rooms.
package campfire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Room selects the destination channel
type Room string

const (
	RoomStudio Room = "studio"
	RoomAlert  Room = "alert"
	RoomBot    Room = "bot"
)

// Client posts messages to per-room webhook URLs
type Client struct {
	urls       map[Room]string
	httpClient *http.Client
}

// Config maps each room to its webhook URL
type Config struct {
	StudioURL string
	AlertURL  string
	BotURL    string
}

// NewClient creates a Campfire client with a bounded request timeout
func NewClient(cfg Config) *Client {
	return &Client{
		urls: map[Room]string{
			RoomStudio: cfg.StudioURL,
			RoomAlert:  cfg.AlertURL,
			RoomBot:    cfg.BotURL,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts an HTML message to the given room. Any 2xx response counts as
// success.
func (c *Client) Send(ctx context.Context, room Room, message string) error {
	url, ok := c.urls[room]
	if !ok || url == "" {
		return fmt.Errorf("campfire: unknown room %q", room)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("campfire: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("campfire: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
