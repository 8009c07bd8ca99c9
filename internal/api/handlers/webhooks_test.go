// Package handlers_test provides unit tests for the HTTP handlers.
package handlers_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/api/handlers"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/conversation"
	"github.com/techrehub/chatbot-service/internal/services/notify"
)

const (
	testVerifyToken = "verify-token"
	testAppSecret   = "app-secret"
)

// fakeAdapter scripts ParseEvents and records Render calls.
type fakeAdapter struct {
	events    []conversation.Inbound
	parseErr  error
	renderErr map[string]error

	mu       sync.Mutex
	rendered []models.Directive
}

func (a *fakeAdapter) Platform() models.Platform { return models.PlatformWhatsApp }

func (a *fakeAdapter) ParseEvents(body []byte) ([]conversation.Inbound, error) {
	if a.parseErr != nil {
		return nil, a.parseErr
	}
	return a.events, nil
}

func (a *fakeAdapter) Render(ctx context.Context, recipient string, directive models.Directive) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rendered = append(a.rendered, directive)
	if err, ok := a.renderErr[recipient]; ok {
		return err
	}
	return nil
}

func (a *fakeAdapter) SendText(ctx context.Context, recipient, body string) error {
	return a.Render(ctx, recipient, models.TextDirective{Body: body})
}

func (a *fakeAdapter) renderedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rendered)
}

// fakeEngine records inbound messages and answers with a scripted directive.
type fakeEngine struct {
	directive models.Directive

	mu       sync.Mutex
	received []conversation.Inbound
}

func (e *fakeEngine) ProcessMessage(ctx context.Context, msg conversation.Inbound) models.Directive {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.received = append(e.received, msg)
	if e.directive == nil {
		return models.TextDirective{Body: "ok"}
	}
	return e.directive
}

func (e *fakeEngine) receivedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.received)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(event string, fields map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

type webhookFixture struct {
	router   *gin.Engine
	adapter  *fakeAdapter
	engine   *fakeEngine
	notifier *recordingNotifier
}

func newWebhookFixture(t *testing.T, adapter *fakeAdapter) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := &fakeEngine{}
	notifier := &recordingNotifier{}
	handler, err := handlers.NewWebhookHandler(handlers.WebhookConfig{
		Adapter:     adapter,
		Engine:      engine,
		Notifier:    notifier,
		VerifyToken: testVerifyToken,
		AppSecret:   testAppSecret,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)

	router := gin.New()
	router.GET("/webhooks/whatsapp", handler.Verify)
	router.POST("/webhooks/whatsapp", handler.Receive)

	return &webhookFixture{router: router, adapter: adapter, engine: engine, notifier: notifier}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (f *webhookFixture) post(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func inbound(userID, text string) conversation.Inbound {
	return conversation.Inbound{
		UserID:   userID,
		Platform: models.PlatformWhatsApp,
		Text:     text,
	}
}

func TestVerify_EchoesChallenge(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{})

	url := fmt.Sprintf("/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=%s&hub.challenge=challenge-123", testVerifyToken)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "challenge-123", w.Body.String())
}

func TestVerify_WrongTokenRejected(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{})

	req := httptest.NewRequest(http.MethodGet,
		"/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-123", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReceive_MissingSignatureRejected(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{events: []conversation.Inbound{inbound("user-1", "hello")}})

	w := f.post([]byte(`{"entry":[]}`), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.engine.receivedCount())
}

func TestReceive_TamperedBodyRejected(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{events: []conversation.Inbound{inbound("user-1", "hello")}})

	signature := sign(testAppSecret, []byte(`{"entry":[]}`))
	w := f.post([]byte(`{"entry":[{"changes":[]}]}`), signature)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.engine.receivedCount())
}

func TestReceive_ValidSignatureProcessed(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{events: []conversation.Inbound{inbound("user-1", "hello")}})

	body := []byte(`{"entry":[]}`)
	w := f.post(body, sign(testAppSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")
	assert.Equal(t, 1, f.engine.receivedCount())
	assert.Equal(t, 1, f.adapter.renderedCount())
}

func TestReceive_UnparseableBodyAcknowledged(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{parseErr: fmt.Errorf("bad payload")})

	body := []byte(`not json`)
	w := f.post(body, sign(testAppSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
	assert.Zero(t, f.engine.receivedCount())
}

func TestReceive_DeliveryFailureDoesNotBlockSiblings(t *testing.T) {
	adapter := &fakeAdapter{
		events: []conversation.Inbound{
			inbound("user-1", "first"),
			inbound("user-2", "second"),
			inbound("user-3", "third"),
		},
		renderErr: map[string]error{"user-2": fmt.Errorf("send failed")},
	}
	f := newWebhookFixture(t, adapter)

	body := []byte(`{"entry":[]}`)
	w := f.post(body, sign(testAppSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, f.engine.receivedCount())
	assert.Equal(t, 3, adapter.renderedCount())
	assert.Contains(t, f.notifier.Events(), notify.EventSendFallback)
}

func TestReceive_SilentDirectiveSendsNothing(t *testing.T) {
	f := newWebhookFixture(t, &fakeAdapter{events: []conversation.Inbound{inbound("user-1", "hello")}})
	f.engine.directive = models.NoneDirective{}

	body := []byte(`{"entry":[]}`)
	w := f.post(body, sign(testAppSecret, body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.engine.receivedCount())
	assert.Zero(t, f.adapter.renderedCount())
}

func TestNewWebhookHandler_RequiresAdapterAndEngine(t *testing.T) {
	_, err := handlers.NewWebhookHandler(handlers.WebhookConfig{Engine: &fakeEngine{}})
	assert.Error(t, err)

	_, err = handlers.NewWebhookHandler(handlers.WebhookConfig{Adapter: &fakeAdapter{}})
	assert.Error(t, err)
}
