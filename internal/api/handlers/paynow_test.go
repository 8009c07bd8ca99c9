package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/techrehub/chatbot-service/internal/api/handlers"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/payments"
)

// stubPayments scripts HandleCallback so the handler's error mapping can be
// exercised without a gateway.
type stubPayments struct {
	payment *models.Payment
	err     error

	callbacks []payments.CallbackData
}

func (s *stubPayments) CreateBookingPayment(ctx context.Context, booking *models.Booking, amount float64, email string) (*models.Payment, error) {
	return nil, errors.NewInternalError("not implemented", nil)
}

func (s *stubPayments) CreateQuotationPayment(ctx context.Context, quotation *models.Quotation, email string) (*models.Payment, error) {
	return nil, errors.NewInternalError("not implemented", nil)
}

func (s *stubPayments) CheckStatus(ctx context.Context, reference string) (*models.Payment, error) {
	return nil, errors.NewInternalError("not implemented", nil)
}

func (s *stubPayments) HandleCallback(ctx context.Context, data payments.CallbackData) (*models.Payment, error) {
	s.callbacks = append(s.callbacks, data)
	if s.err != nil {
		return nil, s.err
	}
	if s.payment != nil {
		return s.payment, nil
	}
	return &models.Payment{Reference: data.Reference, Status: models.PaymentCompleted}, nil
}

// rejectingGateway fails every hash check.
type rejectingGateway struct{}

func (rejectingGateway) Initiate(ctx context.Context, reference string, amount float64, email string) (*payments.InitiateResult, error) {
	return nil, errors.NewInternalError("not implemented", nil)
}

func (rejectingGateway) Poll(ctx context.Context, pollURL string) (*payments.PollResult, error) {
	return nil, errors.NewInternalError("not implemented", nil)
}

func (rejectingGateway) VerifyCallback(values url.Values) bool { return false }

func newPaynowRouter(t *testing.T, svc payments.Service, gateway payments.Gateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := handlers.NewPaynowHandler(svc, gateway, zerolog.Nop())
	router := gin.New()
	router.POST("/payments/paynow/callback", handler.Callback)
	return router
}

func postCallback(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/paynow/callback",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func callbackForm(reference, amount, status string) url.Values {
	return url.Values{
		"reference":       {reference},
		"paynowreference": {"987654"},
		"amount":          {amount},
		"status":          {status},
		"pollurl":         {"https://paynow.test/poll/1"},
	}
}

func TestCallback_SettlesPayment(t *testing.T) {
	svc := &stubPayments{}
	router := newPaynowRouter(t, svc, nil)

	w := postCallback(router, callbackForm("BK-20260110-ABCDEF01", "50.00", "Paid"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BK-20260110-ABCDEF01")
	assert.Len(t, svc.callbacks, 1)
	assert.Equal(t, "987654", svc.callbacks[0].GatewayRef)
	assert.Equal(t, 50.0, svc.callbacks[0].Amount)
}

func TestCallback_MissingReferenceRejected(t *testing.T) {
	svc := &stubPayments{}
	router := newPaynowRouter(t, svc, nil)

	w := postCallback(router, callbackForm("", "50.00", "Paid"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.callbacks)
}

func TestCallback_MalformedAmountRejected(t *testing.T) {
	svc := &stubPayments{}
	router := newPaynowRouter(t, svc, nil)

	w := postCallback(router, callbackForm("BK-20260110-ABCDEF01", "fifty", "Paid"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.callbacks)
}

func TestCallback_BadHashRejected(t *testing.T) {
	svc := &stubPayments{}
	router := newPaynowRouter(t, svc, rejectingGateway{})

	w := postCallback(router, callbackForm("BK-20260110-ABCDEF01", "50.00", "Paid"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.callbacks)
}

func TestCallback_AmountMismatchMapsTo400(t *testing.T) {
	svc := &stubPayments{err: errors.NewValidationError("callback amount does not match payment", "")}
	router := newPaynowRouter(t, svc, nil)

	w := postCallback(router, callbackForm("BK-20260110-ABCDEF01", "5.00", "Paid"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_UnknownReferenceMapsTo404(t *testing.T) {
	svc := &stubPayments{err: errors.NewNotFoundError("payment", "BK-20260110-MISSING1")}
	router := newPaynowRouter(t, svc, nil)

	w := postCallback(router, callbackForm("BK-20260110-MISSING1", "50.00", "Paid"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
