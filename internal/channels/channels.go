// Package channels defines the contract between the conversation engine and
// the messaging platforms. Each platform adapter normalizes its webhook
// payloads into engine inputs and renders engine directives into the
// platform's message shapes.
package channels

import (
	"context"

	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
)

// Adapter is implemented once per messaging platform.
type Adapter interface {
	// Platform identifies the channel.
	Platform() models.Platform

	// ParseEvents extracts user messages from a webhook body. Events the
	// bot cannot act on (delivery receipts, unsupported attachments) are
	// skipped, not errors.
	ParseEvents(body []byte) ([]conversation.Inbound, error)

	// Render delivers a directive to a recipient, translating it into the
	// platform's richest supported shape.
	Render(ctx context.Context, recipient string, directive models.Directive) error

	// SendText delivers a plain text message.
	SendText(ctx context.Context, recipient, body string) error
}

// Clip shortens s to at most max runes, appending an ellipsis when it had
// to cut. Platform APIs reject over-length fields outright, so clipping is
// done before send rather than trusting the caller.
func Clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
