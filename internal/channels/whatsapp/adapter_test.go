// Package whatsapp_test provides unit tests for the WhatsApp adapter.
package whatsapp_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/channels/whatsapp"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*whatsapp.Adapter, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := whatsapp.NewClient(whatsapp.ClientConfig{
		PhoneNumberID: "12345",
		AccessToken:   "token",
		BaseURL:       server.URL,
		Logger:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return whatsapp.NewAdapter(client), server
}

func capturePayload(t *testing.T) (*whatsapp.Adapter, *map[string]any) {
	t.Helper()

	var captured map[string]any
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
	})
	return adapter, &captured
}

func TestParseEvents_TextMessage(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	body := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"263771234567","timestamp":"1767009600","type":"text","text":{"body":"hello"}}
	]}}]}]}`

	events, err := adapter.ParseEvents([]byte(body))

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "263771234567", events[0].UserID)
	assert.Equal(t, models.PlatformWhatsApp, events[0].Platform)
	assert.Equal(t, "hello", events[0].Text)
	assert.Empty(t, events[0].Payload)
	assert.Equal(t, time.Unix(1767009600, 0).UTC(), events[0].Timestamp)
}

func TestParseEvents_ListReply(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	body := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"263771234567","timestamp":"1767009600","type":"interactive",
		 "interactive":{"type":"list_reply","list_reply":{"id":"service_computer-repair","title":"Computer Repair"}}}
	]}}]}]}`

	events, err := adapter.ParseEvents([]byte(body))

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "service_computer-repair", events[0].Payload)
}

func TestParseEvents_MediaKeptAsUnsupported(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	body := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"263771234567","timestamp":"1767009600","type":"image"},
		{"from":"263771234567","timestamp":"1767009600","type":"text","text":{"body":"still here"}}
	]}}]}]}`

	events, err := adapter.ParseEvents([]byte(body))

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Unsupported)
	assert.Equal(t, "263771234567", events[0].UserID)
	assert.Empty(t, events[0].Text)
	assert.False(t, events[1].Unsupported)
	assert.Equal(t, "still here", events[1].Text)
}

func TestParseEvents_MalformedBody(t *testing.T) {
	adapter, _ := newTestAdapter(t, nil)

	_, err := adapter.ParseEvents([]byte("{not json"))

	assert.Error(t, err)
}

func TestRender_Text(t *testing.T) {
	adapter, captured := capturePayload(t)

	err := adapter.Render(context.Background(), "+263 77 123 4567", models.TextDirective{Body: "hi"})

	require.NoError(t, err)
	payload := *captured
	assert.Equal(t, "whatsapp", payload["messaging_product"])
	assert.Equal(t, "263771234567", payload["to"], "recipient must be digits only")
	assert.Equal(t, "text", payload["type"])
}

func TestRender_CarouselAsList(t *testing.T) {
	adapter, captured := capturePayload(t)

	items := []models.CatalogItem{
		{
			ID:          "computer-repair",
			Kind:        models.CatalogService,
			Name:        "A Very Long Service Name Indeed",
			Description: "A long description meant to exceed the row description limit of the list message by a comfortable margin",
			Price:       "From $50",
		},
	}

	err := adapter.Render(context.Background(), "263771234567", models.CarouselDirective{
		Title: "Here are our available services:",
		Kind:  models.CatalogService,
		Items: items,
	})

	require.NoError(t, err)
	payload := *captured
	interactive := payload["interactive"].(map[string]any)
	assert.Equal(t, "list", interactive["type"])

	sections := interactive["action"].(map[string]any)["sections"].([]any)
	rows := sections[0].(map[string]any)["rows"].([]any)
	row := rows[0].(map[string]any)

	assert.Equal(t, "service_computer-repair", row["id"])
	assert.LessOrEqual(t, len([]rune(row["title"].(string))), 24)
	assert.LessOrEqual(t, len([]rune(row["description"].(string))), 72)
}

func TestRender_ButtonsTruncatedToThree(t *testing.T) {
	adapter, captured := capturePayload(t)

	err := adapter.Render(context.Background(), "263771234567", models.ButtonsDirective{
		Body: "pick one",
		Options: []models.ButtonOption{
			{Payload: "a", Label: "A"},
			{Payload: "b", Label: "B"},
			{Payload: "c", Label: "C"},
			{Payload: "d", Label: "D"},
		},
	})

	require.NoError(t, err)
	payload := *captured
	interactive := payload["interactive"].(map[string]any)
	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	assert.Len(t, buttons, 3)
}

func TestRender_ConfirmationUsesYesNoButtons(t *testing.T) {
	adapter, captured := capturePayload(t)

	err := adapter.Render(context.Background(), "263771234567", models.ConfirmationDirective{
		Summary: "Is this correct?",
		Yes:     models.ButtonOption{Payload: "confirm_yes", Label: "✅ Yes"},
		No:      models.ButtonOption{Payload: "confirm_no", Label: "❌ No"},
	})

	require.NoError(t, err)
	payload := *captured
	interactive := payload["interactive"].(map[string]any)
	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	require.Len(t, buttons, 2)

	first := buttons[0].(map[string]any)["reply"].(map[string]any)
	assert.Equal(t, "confirm_yes", first["id"])
}

func TestRender_NoneSendsNothing(t *testing.T) {
	called := false
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	err := adapter.Render(context.Background(), "263771234567", models.NoneDirective{})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestSend_APIErrorSurfacesAsTransportError(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := adapter.SendText(context.Background(), "263771234567", "hi")

	require.Error(t, err)
	assert.True(t, errors.IsTransportError(err))
}
