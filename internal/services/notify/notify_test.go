package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/services/notify"
)

type sentMessage struct {
	recipient string
	body      string
}

// channelSender hands each send to the test over a channel so asynchronous
// deliveries can be awaited.
type channelSender struct {
	sent chan sentMessage
}

func newChannelSender() *channelSender {
	return &channelSender{sent: make(chan sentMessage, 8)}
}

func (s *channelSender) SendText(ctx context.Context, recipient, body string) error {
	s.sent <- sentMessage{recipient: recipient, body: body}
	return nil
}

func (s *channelSender) await(t *testing.T) sentMessage {
	t.Helper()
	select {
	case msg := <-s.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return sentMessage{}
	}
}

func TestNotify_BroadcastsToAllRecipients(t *testing.T) {
	sender := newChannelSender()
	notifier := notify.New(notify.Config{
		Sender:     sender,
		Recipients: []string{"263770000001", "263770000002"},
		Logger:     zerolog.Nop(),
	})

	notifier.Notify(notify.EventNewBooking, map[string]string{
		"reference": "BK-20260110-ABCDEF01",
		"name":      "John Doe",
	})

	first := sender.await(t)
	second := sender.await(t)

	recipients := []string{first.recipient, second.recipient}
	assert.ElementsMatch(t, []string{"263770000001", "263770000002"}, recipients)
	assert.Equal(t, first.body, second.body)
}

func TestNotify_FormatsEventWithSortedFields(t *testing.T) {
	sender := newChannelSender()
	notifier := notify.New(notify.Config{
		Sender:     sender,
		Recipients: []string{"263770000001"},
		Logger:     zerolog.Nop(),
	})

	notifier.Notify(notify.EventHumanTransfer, map[string]string{
		"user":     "user-1",
		"platform": "whatsapp",
	})

	msg := sender.await(t)
	require.Equal(t, "[HUMAN_TRANSFER]\nplatform: whatsapp\nuser: user-1", msg.body)
}

func TestNotify_NoRecipientsIsNoOp(t *testing.T) {
	sender := newChannelSender()
	notifier := notify.New(notify.Config{Sender: sender, Logger: zerolog.Nop()})

	notifier.Notify(notify.EventNewQuotation, map[string]string{"reference": "QT-1"})

	select {
	case msg := <-sender.sent:
		t.Fatalf("unexpected send to %s", msg.recipient)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotify_NoSenderIsNoOp(t *testing.T) {
	notifier := notify.New(notify.Config{Recipients: []string{"263770000001"}, Logger: zerolog.Nop()})

	assert.NotPanics(t, func() {
		notifier.Notify(notify.EventSendFallback, nil)
	})
}
