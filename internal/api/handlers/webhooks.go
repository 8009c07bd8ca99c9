package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/api/middleware"
	"github.com/techrehub/chatbot-service/internal/channels"
	domainerrors "github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
	"github.com/techrehub/chatbot-service/internal/services/notify"
)

// Processor turns an inbound message into a reply directive.
type Processor interface {
	ProcessMessage(ctx context.Context, msg conversation.Inbound) models.Directive
}

// WebhookHandler handles Meta webhook verification and inbound message
// delivery for a single channel. Construct one per channel.
type WebhookHandler struct {
	adapter     channels.Adapter
	engine      Processor
	notifier    notify.Notifier
	verifyToken string
	appSecret   string
	logger      zerolog.Logger
}

// WebhookConfig holds the dependencies for a WebhookHandler.
type WebhookConfig struct {
	Adapter     channels.Adapter
	Engine      Processor
	Notifier    notify.Notifier
	VerifyToken string
	AppSecret   string
	Logger      zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(cfg WebhookConfig) (*WebhookHandler, error) {
	if cfg.Adapter == nil {
		return nil, domainerrors.NewInternalError("webhook handler adapter is required", nil)
	}
	if cfg.Engine == nil {
		return nil, domainerrors.NewInternalError("webhook handler engine is required", nil)
	}
	return &WebhookHandler{
		adapter:     cfg.Adapter,
		engine:      cfg.Engine,
		notifier:    cfg.Notifier,
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		logger:      cfg.Logger.With().Str("channel", string(cfg.Adapter.Platform())).Logger(),
	}, nil
}

// Verify handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken && h.verifyToken != "" {
		c.String(http.StatusOK, challenge)
		return
	}

	middleware.HandleError(c, domainerrors.NewUnauthorizedError("webhook verification failed"))
}

// Receive handles POST webhook events. The signature gate is the only
// failure that changes the response status; everything after it is
// acknowledged with 200 so Meta does not retry delivery.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		middleware.HandleError(c, domainerrors.NewValidationError("failed to read request body", err.Error()))
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if !verifySignature(h.appSecret, body, signature) {
		h.logger.Warn().Str("path", c.Request.URL.Path).Msg("webhook signature verification failed")
		middleware.HandleError(c, domainerrors.NewUnauthorizedError("invalid webhook signature"))
		return
	}

	events, err := h.adapter.ParseEvents(body)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to parse webhook body")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	// Each event is processed independently so one bad message cannot
	// block its batch siblings.
	for _, event := range events {
		h.process(c.Request.Context(), event)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (h *WebhookHandler) process(ctx context.Context, event conversation.Inbound) {
	directive := h.engine.ProcessMessage(ctx, event)
	if _, ok := directive.(models.NoneDirective); ok {
		return
	}

	if err := h.adapter.Render(ctx, event.UserID, directive); err != nil {
		h.logger.Error().
			Err(err).
			Str("userId", event.UserID).
			Msg("failed to deliver reply")

		if h.notifier != nil {
			h.notifier.Notify(notify.EventSendFallback, map[string]string{
				"user":     event.UserID,
				"platform": string(event.Platform),
				"error":    err.Error(),
			})
		}
	}
}

// verifySignature checks the X-Hub-Signature-256 header against an
// HMAC-SHA256 of the raw body keyed with the app secret.
func verifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature[len(prefix):]))
}
