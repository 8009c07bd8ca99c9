// Package messenger implements the Facebook Messenger Send API channel
// adapter.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Client is a thin Messenger Send API client.
type Client struct {
	baseURL         string
	pageAccessToken string
	httpClient      *http.Client
	logger          zerolog.Logger
}

// ClientConfig holds Messenger Send API configuration.
type ClientConfig struct {
	PageAccessToken string

	// BaseURL overrides the Graph API endpoint, used in tests.
	BaseURL string

	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient creates a Messenger Send API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.PageAccessToken == "" {
		return nil, fmt.Errorf("page access token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:         baseURL,
		pageAccessToken: cfg.PageAccessToken,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          cfg.Logger,
	}, nil
}

// Send posts a message payload to the Send API.
func (c *Client) Send(ctx context.Context, recipientID string, message any) error {
	body, err := json.Marshal(map[string]any{
		"recipient": map[string]any{"id": recipientID},
		"message":   message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal messenger payload: %w", err)
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, c.pageAccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransportError("messenger", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("response", string(detail)).
			Msg("messenger send rejected")
		return errors.NewTransportError("messenger",
			fmt.Errorf("send returned status %d", resp.StatusCode))
	}
	return nil
}
