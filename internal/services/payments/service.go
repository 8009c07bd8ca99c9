package payments

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/workflows"
)

// DefaultCurrency is the currency payments are charged in.
const DefaultCurrency = "USD"

// amountTolerance absorbs float rounding between our records and the
// gateway's reported amount.
const amountTolerance = 0.01

// CallbackData is a parsed gateway result callback.
type CallbackData struct {
	Reference  string
	GatewayRef string
	Amount     float64
	Status     string
	Raw        url.Values
}

// Service manages the payment lifecycle for bookings and quotations.
type Service interface {
	// CreateBookingPayment initiates a payment for a booking. If a pending
	// payment already exists for the booking it is returned instead of
	// initiating a second transaction.
	CreateBookingPayment(ctx context.Context, booking *models.Booking, amount float64, email string) (*models.Payment, error)

	// CreateQuotationPayment initiates a payment for a quotation, with the
	// same duplicate guard.
	CreateQuotationPayment(ctx context.Context, quotation *models.Quotation, email string) (*models.Payment, error)

	// CheckStatus polls the gateway for the latest status of a payment and
	// applies any transition.
	CheckStatus(ctx context.Context, reference string) (*models.Payment, error)

	// HandleCallback processes a gateway result callback. Completed
	// payments are settled exactly once; replays are no-ops.
	HandleCallback(ctx context.Context, data CallbackData) (*models.Payment, error)
}

type service struct {
	db      docdb.Client
	gateway Gateway
	logger  zerolog.Logger
}

// NewService creates a payment service.
func NewService(db docdb.Client, gateway Gateway, logger zerolog.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("docdb client is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	return &service{db: db, gateway: gateway, logger: logger}, nil
}

// CreateBookingPayment initiates a payment for a booking.
func (s *service) CreateBookingPayment(ctx context.Context, booking *models.Booking, amount float64, email string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, errors.NewValidationError("payment amount must be positive", "")
	}
	return s.create(ctx, models.PaymentForBooking, booking.ID, booking.UserID, booking.Platform, "BK", amount, email)
}

// CreateQuotationPayment initiates a payment for a quotation.
func (s *service) CreateQuotationPayment(ctx context.Context, quotation *models.Quotation, email string) (*models.Payment, error) {
	if quotation.Status != models.QuotationQuoted {
		return nil, errors.NewValidationError("quotation has not been priced yet", "")
	}
	if quotation.Amount <= 0 {
		return nil, errors.NewValidationError("quotation amount must be positive", "")
	}
	return s.create(ctx, models.PaymentForQuotation, quotation.ID, quotation.UserID, quotation.Platform, "QT", quotation.Amount, email)
}

func (s *service) create(ctx context.Context, refType models.PaymentReferenceType, refID, userID string, platform models.Platform, prefix string, amount float64, email string) (*models.Payment, error) {
	existing, err := s.db.Payments().FindPending(ctx, refType, refID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info().
			Str("reference", existing.Reference).
			Str("referenceId", refID).
			Msg("returning existing pending payment")
		return existing, nil
	}

	reference := workflows.NewReference(prefix)
	result, err := s.gateway.Initiate(ctx, reference, amount, email)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Reference:     reference,
		UserID:        userID,
		Platform:      platform,
		ReferenceType: refType,
		ReferenceID:   refID,
		Amount:        amount,
		Currency:      DefaultCurrency,
		Status:        models.PaymentPending,
		PollURL:       result.PollURL,
		RedirectURL:   result.RedirectURL,
	}
	if _, err := s.db.Payments().Insert(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("reference", reference).
		Str("referenceType", string(refType)).
		Str("referenceId", refID).
		Float64("amount", amount).
		Msg("payment initiated")
	return payment, nil
}

// CheckStatus polls the gateway for the latest status of a payment.
func (s *service) CheckStatus(ctx context.Context, reference string) (*models.Payment, error) {
	payment, err := s.db.Payments().GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentPending || payment.PollURL == "" {
		return payment, nil
	}

	result, err := s.gateway.Poll(ctx, payment.PollURL)
	if err != nil {
		return nil, err
	}

	return s.applyStatus(ctx, payment, result.Status, result.GatewayRef)
}

// HandleCallback processes a gateway result callback.
func (s *service) HandleCallback(ctx context.Context, data CallbackData) (*models.Payment, error) {
	payment, err := s.db.Payments().GetByReference(ctx, data.Reference)
	if err != nil {
		return nil, err
	}

	// A replayed callback for a settled payment changes nothing.
	if payment.Status != models.PaymentPending {
		s.logger.Info().
			Str("reference", payment.Reference).
			Str("status", string(payment.Status)).
			Msg("ignoring callback for settled payment")
		return payment, nil
	}

	if math.Abs(data.Amount-payment.Amount) > amountTolerance {
		return nil, errors.NewValidationError(
			"callback amount does not match payment",
			fmt.Sprintf("reference %s: expected %.2f, received %.2f",
				payment.Reference, payment.Amount, data.Amount),
		)
	}

	return s.applyStatus(ctx, payment, data.Status, data.GatewayRef)
}

// applyStatus transitions a pending payment based on a gateway status and
// settles the underlying record on success.
func (s *service) applyStatus(ctx context.Context, payment *models.Payment, status, gatewayRef string) (*models.Payment, error) {
	payment.GatewayStatus = status

	switch status {
	case GatewayStatusPaid, GatewayStatusAwaitingDelivery, GatewayStatusDelivered:
		now := time.Now().UTC()
		payment.Status = models.PaymentCompleted
		payment.PaidAt = &now
	case GatewayStatusCancelled, GatewayStatusFailed:
		payment.Status = models.PaymentFailed
	default:
		// Still in flight ("Created", "Sent"). Record the gateway status
		// but stay pending.
	}
	if err := s.db.Payments().Update(ctx, payment); err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentCompleted {
		if err := s.settle(ctx, payment); err != nil {
			// The payment itself is recorded; settling the record is
			// retried on the next status check.
			s.logger.Error().Err(err).
				Str("reference", payment.Reference).
				Msg("failed to settle record for completed payment")
		}
	}

	s.logger.Info().
		Str("reference", payment.Reference).
		Str("gatewayRef", gatewayRef).
		Str("gatewayStatus", status).
		Str("status", string(payment.Status)).
		Msg("payment status updated")
	return payment, nil
}

func (s *service) settle(ctx context.Context, payment *models.Payment) error {
	switch payment.ReferenceType {
	case models.PaymentForBooking:
		return s.db.Bookings().UpdateStatus(ctx, payment.ReferenceID, models.BookingConfirmed)
	case models.PaymentForQuotation:
		return s.db.Quotations().UpdateStatus(ctx, payment.ReferenceID, models.QuotationAccepted)
	default:
		return fmt.Errorf("unknown payment reference type %q", payment.ReferenceType)
	}
}
