// Package whatsapp implements the WhatsApp Cloud API channel adapter.
package whatsapp

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

// Client is a thin WhatsApp Cloud API client.
type Client struct {
	baseURL       string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
	logger        zerolog.Logger
}

// ClientConfig holds WhatsApp Cloud API configuration.
type ClientConfig struct {
	PhoneNumberID string
	AccessToken   string

	// BaseURL overrides the Graph API endpoint, used in tests.
	BaseURL string

	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient creates a WhatsApp Cloud API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("phone number ID is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
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
		baseURL:       baseURL,
		phoneNumberID: cfg.PhoneNumberID,
		accessToken:   cfg.AccessToken,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        cfg.Logger,
	}, nil
}

// Send posts a message payload to the Cloud API.
func (c *Client) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransportError("whatsapp", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("response", string(detail)).
			Msg("whatsapp send rejected")
		return errors.NewTransportError("whatsapp",
			fmt.Errorf("send returned status %d", resp.StatusCode))
	}
	return nil
}
