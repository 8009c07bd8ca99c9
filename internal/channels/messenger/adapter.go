package messenger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/techrehub/chatbot-service/internal/channels"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
)

// Send API field limits.
const (
	maxElementTitle    = 80
	maxElementSubtitle = 80
	maxElements        = 10
	maxQuickReplies    = 13
	maxQuickReplyTitle = 20
	maxTemplateButtons = 3
)

// Adapter renders directives as Messenger messages and normalizes page
// webhook events.
type Adapter struct {
	client *Client
}

// NewAdapter creates a Messenger adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Platform identifies the channel.
func (a *Adapter) Platform() models.Platform {
	return models.PlatformMessenger
}

// webhookBody mirrors the page webhook envelope, limited to the fields the
// bot consumes.
type webhookBody struct {
	Entry []struct {
		Messaging []messagingEvent `json:"messaging"`
	} `json:"entry"`
}

type messagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Timestamp int64 `json:"timestamp"`
	Message   *struct {
		Text       string `json:"text"`
		QuickReply *struct {
			Payload string `json:"payload"`
		} `json:"quick_reply"`
		IsEcho bool `json:"is_echo"`
	} `json:"message"`
	Postback *struct {
		Title   string `json:"title"`
		Payload string `json:"payload"`
	} `json:"postback"`
}

// ParseEvents extracts user messages from a webhook body. Echoes and
// delivery receipts are skipped; attachment-only messages are kept as
// unsupported events so the sender gets a notice.
func (a *Adapter) ParseEvents(body []byte) ([]conversation.Inbound, error) {
	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse messenger webhook: %w", err)
	}

	var events []conversation.Inbound
	for _, entry := range payload.Entry {
		for _, msg := range entry.Messaging {
			event, ok := normalize(msg)
			if !ok {
				continue
			}
			events = append(events, event)
		}
	}
	return events, nil
}

func normalize(msg messagingEvent) (conversation.Inbound, bool) {
	event := conversation.Inbound{
		UserID:    msg.Sender.ID,
		Platform:  models.PlatformMessenger,
		Timestamp: time.UnixMilli(msg.Timestamp).UTC(),
	}
	if event.UserID == "" {
		return conversation.Inbound{}, false
	}

	switch {
	case msg.Postback != nil:
		event.Payload = msg.Postback.Payload
		event.Text = msg.Postback.Title
	case msg.Message != nil && !msg.Message.IsEcho:
		if msg.Message.QuickReply != nil {
			event.Payload = msg.Message.QuickReply.Payload
		}
		event.Text = msg.Message.Text
		if event.Text == "" && event.Payload == "" {
			// Attachment-only message. The sender gets a notice that
			// only text can be read.
			event.Unsupported = true
		}
	default:
		return conversation.Inbound{}, false
	}
	return event, true
}

// Render delivers a directive to a recipient.
func (a *Adapter) Render(ctx context.Context, recipient string, directive models.Directive) error {
	switch d := directive.(type) {
	case models.TextDirective:
		return a.SendText(ctx, recipient, d.Body)
	case models.CarouselDirective:
		return a.sendCarousel(ctx, recipient, d)
	case models.ButtonsDirective:
		return a.sendQuickReplies(ctx, recipient, d.Body, d.Options)
	case models.ConfirmationDirective:
		return a.sendQuickReplies(ctx, recipient, d.Summary, []models.ButtonOption{d.Yes, d.No})
	case models.EscalationDirective:
		return a.SendText(ctx, recipient, d.Body)
	case models.NoneDirective:
		return nil
	default:
		return fmt.Errorf("unsupported directive %T", directive)
	}
}

// SendText delivers a plain text message.
func (a *Adapter) SendText(ctx context.Context, recipient, body string) error {
	return a.client.Send(ctx, recipient, map[string]any{"text": body})
}

// sendCarousel renders a catalog carousel as a generic template.
func (a *Adapter) sendCarousel(ctx context.Context, recipient string, d models.CarouselDirective) error {
	payloadPrefix := "service_"
	if d.Kind == models.CatalogProduct {
		payloadPrefix = "product_"
	}

	items := d.Items
	if len(items) > maxElements {
		items = items[:maxElements]
	}

	elements := make([]map[string]any, 0, len(items))
	for _, item := range items {
		buttons := []map[string]any{
			{
				"type":    "postback",
				"title":   "Learn More",
				"payload": payloadPrefix + item.ID,
			},
		}
		if d.Kind == models.CatalogProduct {
			buttons = append(buttons, map[string]any{
				"type":    "postback",
				"title":   "Request Quote",
				"payload": "productquote_" + item.ID,
			})
		} else {
			buttons = append(buttons, map[string]any{
				"type":    "postback",
				"title":   "Book Now",
				"payload": "book_" + item.ID,
			})
		}
		if len(buttons) > maxTemplateButtons {
			buttons = buttons[:maxTemplateButtons]
		}

		elements = append(elements, map[string]any{
			"title":    channels.Clip(item.Name, maxElementTitle),
			"subtitle": channels.Clip(item.Description+" - "+item.Price, maxElementSubtitle),
			"buttons":  buttons,
		})
	}

	return a.client.Send(ctx, recipient, map[string]any{
		"attachment": map[string]any{
			"type": "template",
			"payload": map[string]any{
				"template_type": "generic",
				"elements":      elements,
			},
		},
	})
}

// sendQuickReplies renders tappable choices as quick replies.
func (a *Adapter) sendQuickReplies(ctx context.Context, recipient, body string, options []models.ButtonOption) error {
	if len(options) > maxQuickReplies {
		options = options[:maxQuickReplies]
	}

	replies := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		replies = append(replies, map[string]any{
			"content_type": "text",
			"title":        channels.Clip(strings.TrimSpace(opt.Label), maxQuickReplyTitle),
			"payload":      opt.Payload,
		})
	}

	return a.client.Send(ctx, recipient, map[string]any{
		"text":          body,
		"quick_replies": replies,
	})
}
