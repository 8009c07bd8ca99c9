// Package payments_test provides unit tests for the payment service.
package payments_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/core/docdb/docdbtest"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/payments"
)

// fakeGateway records initiations and serves canned poll results.
type fakeGateway struct {
	initiated   []string
	pollStatus  string
	initiateErr error
}

func (g *fakeGateway) Initiate(ctx context.Context, reference string, amount float64, email string) (*payments.InitiateResult, error) {
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	g.initiated = append(g.initiated, reference)
	return &payments.InitiateResult{
		RedirectURL: "https://paynow.test/pay/" + reference,
		PollURL:     "https://paynow.test/poll/" + reference,
	}, nil
}

func (g *fakeGateway) Poll(ctx context.Context, pollURL string) (*payments.PollResult, error) {
	return &payments.PollResult{Status: g.pollStatus}, nil
}

func (g *fakeGateway) VerifyCallback(values url.Values) bool { return true }

func setup(t *testing.T) (payments.Service, *fakeGateway, *docdbtest.FakeClient) {
	t.Helper()

	db := docdbtest.NewFakeClient()
	gateway := &fakeGateway{}
	svc, err := payments.NewService(db, gateway, zerolog.Nop())
	require.NoError(t, err)
	return svc, gateway, db
}

func seedBooking(db *docdbtest.FakeClient) *models.Booking {
	booking := &models.Booking{
		ID:       "booking-1",
		UserID:   "user-1",
		Platform: models.PlatformWhatsApp,
		Status:   models.BookingPending,
	}
	db.SeedBooking(booking)
	return booking
}

func TestCreateBookingPayment_Initiates(t *testing.T) {
	svc, gateway, db := setup(t)
	booking := seedBooking(db)

	payment, err := svc.CreateBookingPayment(context.Background(), booking, 50, "")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, models.PaymentForBooking, payment.ReferenceType)
	assert.Equal(t, "booking-1", payment.ReferenceID)
	assert.Equal(t, 50.0, payment.Amount)
	assert.Contains(t, payment.RedirectURL, payment.Reference)
	assert.Equal(t, "BK", payment.Reference[:2])
	assert.Len(t, gateway.initiated, 1)
}

func TestCreateBookingPayment_ReusesPendingPayment(t *testing.T) {
	svc, gateway, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	first, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	second, err := svc.CreateBookingPayment(ctx, booking, 50, "")

	require.NoError(t, err)
	assert.Equal(t, first.Reference, second.Reference)
	assert.Len(t, gateway.initiated, 1, "a pending payment must not be initiated twice")
}

func TestCreateBookingPayment_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, db := setup(t)
	booking := seedBooking(db)

	_, err := svc.CreateBookingPayment(context.Background(), booking, 0, "")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateQuotationPayment_RequiresQuotedStatus(t *testing.T) {
	svc, _, db := setup(t)
	quotation := &models.Quotation{
		ID:       "quote-1",
		UserID:   "user-1",
		Platform: models.PlatformWhatsApp,
		Status:   models.QuotationPending,
		Amount:   120,
	}
	db.SeedQuotation(quotation)

	_, err := svc.CreateQuotationPayment(context.Background(), quotation, "")

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestHandleCallback_CompletesPaymentAndSettlesBooking(t *testing.T) {
	svc, _, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	updated, err := svc.HandleCallback(ctx, payments.CallbackData{
		Reference: payment.Reference,
		Amount:    50,
		Status:    payments.GatewayStatusPaid,
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.Status)
	require.NotNil(t, updated.PaidAt)

	settled, err := db.Bookings().Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, settled.Status)
}

func TestHandleCallback_AmountMismatchRejected(t *testing.T) {
	svc, _, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	_, err = svc.HandleCallback(ctx, payments.CallbackData{
		Reference: payment.Reference,
		Amount:    5,
		Status:    payments.GatewayStatusPaid,
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	// The payment must remain untouched.
	stored, err := db.Payments().GetByReference(ctx, payment.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.Status)
}

func TestHandleCallback_ReplayIsNoOp(t *testing.T) {
	svc, _, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	callback := payments.CallbackData{
		Reference: payment.Reference,
		Amount:    50,
		Status:    payments.GatewayStatusPaid,
	}
	first, err := svc.HandleCallback(ctx, callback)
	require.NoError(t, err)

	replayed, err := svc.HandleCallback(ctx, callback)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, replayed.Status)
	assert.Equal(t, first.PaidAt.Unix(), replayed.PaidAt.Unix())
}

func TestHandleCallback_FailureStatus(t *testing.T) {
	svc, _, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	updated, err := svc.HandleCallback(ctx, payments.CallbackData{
		Reference: payment.Reference,
		Amount:    50,
		Status:    payments.GatewayStatusCancelled,
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, updated.Status)

	// The booking stays pending on a failed payment.
	stored, err := db.Bookings().Get(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
}

func TestHandleCallback_UnknownReference(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.HandleCallback(context.Background(), payments.CallbackData{
		Reference: "BK-20260101-DEADBEEF",
		Amount:    50,
		Status:    payments.GatewayStatusPaid,
	})

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCheckStatus_PollsPendingPayment(t *testing.T) {
	svc, gateway, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	gateway.pollStatus = payments.GatewayStatusPaid
	updated, err := svc.CheckStatus(ctx, payment.Reference)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.Status)
}

func TestCheckStatus_InFlightStatusStaysPending(t *testing.T) {
	svc, gateway, db := setup(t)
	booking := seedBooking(db)
	ctx := context.Background()

	payment, err := svc.CreateBookingPayment(ctx, booking, 50, "")
	require.NoError(t, err)

	gateway.pollStatus = "Sent"
	updated, err := svc.CheckStatus(ctx, payment.Reference)

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, updated.Status)
	assert.Equal(t, "Sent", updated.GatewayStatus)
}
