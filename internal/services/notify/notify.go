// Package notify sends best-effort operator notifications. Delivery is
// fire-and-forget: a failed or slow notification never blocks or fails the
// conversation turn that triggered it.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single notification send.
const DefaultTimeout = 10 * time.Second

// Event kinds.
const (
	EventNewBooking          = "NEW_BOOKING"
	EventNewQuotation        = "NEW_QUOTATION"
	EventNewProductQuotation = "NEW_PRODUCT_QUOTATION"
	EventNewDemoRequest      = "NEW_DEMO_REQUEST"
	EventHumanTransfer       = "HUMAN_TRANSFER"
	EventSendFallback        = "SEND_FALLBACK"
)

// Sender delivers a text message to a recipient. The WhatsApp channel
// adapter satisfies this.
type Sender interface {
	SendText(ctx context.Context, recipient, body string) error
}

// Notifier broadcasts events to the configured operator numbers.
type Notifier interface {
	// Notify sends an event to all operators in the background.
	Notify(event string, fields map[string]string)
}

type notifier struct {
	sender     Sender
	recipients []string
	timeout    time.Duration
	logger     zerolog.Logger
}

// Config holds notifier configuration.
type Config struct {
	Sender     Sender
	Recipients []string
	Timeout    time.Duration
	Logger     zerolog.Logger
}

// New creates a notifier. With no recipients or no sender it degrades to a
// no-op that only logs.
func New(cfg Config) Notifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &notifier{
		sender:     cfg.Sender,
		recipients: cfg.Recipients,
		timeout:    timeout,
		logger:     cfg.Logger,
	}
}

// Notify sends an event to all operators in the background.
func (n *notifier) Notify(event string, fields map[string]string) {
	body := format(event, fields)
	n.logger.Info().Str("event", event).Msg("operator notification")

	if n.sender == nil || len(n.recipients) == 0 {
		return
	}

	for _, recipient := range n.recipients {
		go func(recipient string) {
			ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
			defer cancel()

			if err := n.sender.SendText(ctx, recipient, body); err != nil {
				n.logger.Warn().Err(err).
					Str("event", event).
					Str("recipient", recipient).
					Msg("operator notification failed")
			}
		}(recipient)
	}
}

func format(event string, fields map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]", event)
	for _, key := range sortedKeys(fields) {
		fmt.Fprintf(&sb, "\n%s: %s", key, fields[key])
	}
	return sb.String()
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
