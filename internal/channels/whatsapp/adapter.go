package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/techrehub/chatbot-service/internal/channels"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
)

// Cloud API field limits.
const (
	maxListRowTitle       = 24
	maxListRowDescription = 72
	maxListRows           = 10
	maxButtons            = 3
	maxButtonTitle        = 20
)

// Adapter renders directives as WhatsApp messages and normalizes Cloud API
// webhook events.
type Adapter struct {
	client *Client
}

// NewAdapter creates a WhatsApp adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Platform identifies the channel.
func (a *Adapter) Platform() models.Platform {
	return models.PlatformWhatsApp
}

// webhookBody mirrors the Cloud API webhook envelope, limited to the fields
// the bot consumes.
type webhookBody struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive *struct {
		Type      string `json:"type"`
		ListReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
	Button *struct {
		Payload string `json:"payload"`
		Text    string `json:"text"`
	} `json:"button"`
}

// ParseEvents extracts user messages from a webhook body. Status updates
// are skipped; messages the bot cannot read (media, location, reactions)
// are kept as unsupported events so the sender gets a notice.
func (a *Adapter) ParseEvents(body []byte) ([]conversation.Inbound, error) {
	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse whatsapp webhook: %w", err)
	}

	var events []conversation.Inbound
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				event, ok := normalize(msg)
				if !ok {
					continue
				}
				events = append(events, event)
			}
		}
	}
	return events, nil
}

func normalize(msg inboundMessage) (conversation.Inbound, bool) {
	event := conversation.Inbound{
		UserID:    msg.From,
		Platform:  models.PlatformWhatsApp,
		Timestamp: parseTimestamp(msg.Timestamp),
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil || strings.TrimSpace(msg.Text.Body) == "" {
			return conversation.Inbound{}, false
		}
		event.Text = msg.Text.Body
	case "interactive":
		if msg.Interactive == nil {
			return conversation.Inbound{}, false
		}
		switch {
		case msg.Interactive.ListReply != nil:
			event.Payload = msg.Interactive.ListReply.ID
			event.Text = msg.Interactive.ListReply.Title
		case msg.Interactive.ButtonReply != nil:
			event.Payload = msg.Interactive.ButtonReply.ID
			event.Text = msg.Interactive.ButtonReply.Title
		default:
			return conversation.Inbound{}, false
		}
	case "button":
		if msg.Button == nil {
			return conversation.Inbound{}, false
		}
		event.Payload = msg.Button.Payload
		event.Text = msg.Button.Text
	default:
		// Media, reactions, location and the rest cannot be read as text.
		// The sender still gets a reply telling them so.
		if msg.From == "" {
			return conversation.Inbound{}, false
		}
		event.Unsupported = true
	}
	return event, true
}

func parseTimestamp(raw string) time.Time {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(secs, 0).UTC()
}

// Render delivers a directive to a recipient.
func (a *Adapter) Render(ctx context.Context, recipient string, directive models.Directive) error {
	switch d := directive.(type) {
	case models.TextDirective:
		return a.SendText(ctx, recipient, d.Body)
	case models.CarouselDirective:
		return a.sendList(ctx, recipient, d)
	case models.ButtonsDirective:
		return a.sendButtons(ctx, recipient, d.Body, d.Options)
	case models.ConfirmationDirective:
		return a.sendButtons(ctx, recipient, d.Summary, []models.ButtonOption{d.Yes, d.No})
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
	return a.client.Send(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                normalizeRecipient(recipient),
		"type":              "text",
		"text":              map[string]any{"body": body},
	})
}

// sendList renders a catalog carousel as an interactive list message.
func (a *Adapter) sendList(ctx context.Context, recipient string, d models.CarouselDirective) error {
	payloadPrefix := "service_"
	sectionTitle := "Services"
	if d.Kind == models.CatalogProduct {
		payloadPrefix = "product_"
		sectionTitle = "Products"
	}

	items := d.Items
	if len(items) > maxListRows {
		items = items[:maxListRows]
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]any{
			"id":          payloadPrefix + item.ID,
			"title":       channels.Clip(item.Name, maxListRowTitle),
			"description": channels.Clip(item.Description+" - "+item.Price, maxListRowDescription),
		})
	}

	return a.client.Send(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                normalizeRecipient(recipient),
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "list",
			"body": map[string]any{"text": d.Title},
			"action": map[string]any{
				"button": "View Options",
				"sections": []map[string]any{
					{"title": sectionTitle, "rows": rows},
				},
			},
		},
	})
}

// sendButtons renders tappable reply buttons. The Cloud API allows at most
// three; extra options are dropped rather than failing the send.
func (a *Adapter) sendButtons(ctx context.Context, recipient, body string, options []models.ButtonOption) error {
	if len(options) > maxButtons {
		options = options[:maxButtons]
	}

	buttons := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		buttons = append(buttons, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    opt.Payload,
				"title": channels.Clip(opt.Label, maxButtonTitle),
			},
		})
	}

	return a.client.Send(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                normalizeRecipient(recipient),
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"buttons": buttons},
		},
	})
}

// normalizeRecipient strips formatting from a phone number so it matches
// the wa_id digits-only form the API expects.
func normalizeRecipient(recipient string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, recipient)
}
