package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// basePrices maps service IDs to the booking deposit charged through the
// gateway. Unlisted services fall back to the default deposit.
var basePrices = map[string]float64{
	"computer-repair": 50,
	"network-setup":   80,
	"data-recovery":   100,
	"virus-removal":   60,
	"system-upgrade":  120,
}

const defaultBasePrice = 50

// handleCommand routes messages carrying an explicit command marker like
// "Book: ..." or "Pay: ...". A nil return means the message is not a
// command and intent routing continues.
func (e *Engine) handleCommand(ctx context.Context, session *models.Session, message string) models.Directive {
	lowered := strings.ToLower(message)

	switch {
	// productquote: must be tried before quote:, the marker contains it.
	case strings.Contains(lowered, "productquote:"):
		return e.handleProductQuoteInput(session, message)
	case strings.Contains(lowered, "book:"):
		return e.handleBookingInput(session, message)
	case strings.Contains(lowered, "quote:"):
		return e.handleQuoteInput(session, message)
	case strings.Contains(lowered, "demo:"):
		return e.handleDemoInput(session, message)
	case strings.Contains(lowered, "pay:"):
		return e.handlePayCommand(ctx, session, message)
	default:
		return nil
	}
}

// handlePayCommand parses "Pay: [booking|quotation|status], [id]" commands.
func (e *Engine) handlePayCommand(ctx context.Context, session *models.Session, message string) models.Directive {
	if e.deps.Payments == nil {
		return text(paymentsDisabledText)
	}

	fields := strings.SplitN(stripCommandPrefix(message, "pay:"), ",", 2)
	kind := strings.ToLower(strings.TrimSpace(fields[0]))
	if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
		return text(paymentHelpText)
	}
	id := strings.TrimSpace(fields[1])

	switch kind {
	case "booking":
		return e.payForBooking(ctx, session, id)
	case "quotation":
		return e.payForQuotation(ctx, session, id)
	case "status":
		return e.paymentStatus(ctx, session, id)
	default:
		return text(paymentHelpText)
	}
}

func (e *Engine) payForBooking(ctx context.Context, session *models.Session, bookingID string) models.Directive {
	booking, err := e.deps.Bookings.Get(ctx, bookingID)
	if err != nil {
		return text("Sorry, we couldn't find that booking. Please check the ID or type 'speak to a human' for assistance.")
	}
	if booking.UserID != session.UserID {
		return text("Sorry, we couldn't find that booking. Please check the ID or type 'speak to a human' for assistance.")
	}

	amount, ok := basePrices[booking.ServiceID]
	if !ok {
		amount = defaultBasePrice
	}

	payment, err := e.deps.Payments.CreateBookingPayment(ctx, booking, amount, "")
	if err != nil {
		e.deps.Logger.Error().Err(err).Str("bookingId", bookingID).Msg("failed to create booking payment")
		return text(errorText)
	}
	return e.paymentCreated(session, payment, booking.Description)
}

func (e *Engine) payForQuotation(ctx context.Context, session *models.Session, quotationID string) models.Directive {
	quotation, err := e.deps.Quotations.Get(ctx, quotationID)
	if err != nil || quotation.UserID != session.UserID {
		return text("Sorry, we couldn't find that quotation. Please check the ID or type 'speak to a human' for assistance.")
	}
	if quotation.Status == models.QuotationPending {
		return text("Your quotation is still being processed. We'll notify you once it's ready for payment.")
	}

	payment, err := e.deps.Payments.CreateQuotationPayment(ctx, quotation, "")
	if err != nil {
		e.deps.Logger.Error().Err(err).Str("quotationId", quotationID).Msg("failed to create quotation payment")
		return text(validationText(err))
	}
	return e.paymentCreated(session, payment, quotation.Requirements)
}

// paymentCreated moves the session into the payment stage and hands the
// user the payment link.
func (e *Engine) paymentCreated(session *models.Session, payment *models.Payment, service string) models.Directive {
	session.Context = models.Context{
		Payment: &models.PaymentDetails{
			Reference:     payment.Reference,
			Amount:        payment.Amount,
			Service:       service,
			ReferenceType: string(payment.ReferenceType),
			ReferenceID:   payment.ReferenceID,
		},
	}
	session.Stage = models.StageAwaitingPayment

	return text(fmt.Sprintf(
		"Your payment link has been created!\n\n"+
			"Amount: $%.2f\nReference: %s\n\n"+
			"Click the link below to complete your payment:\n%s\n\n"+
			"After payment you will receive a confirmation. Reply with "+
			"'Pay: status, %s' to check the status at any time.",
		payment.Amount, payment.Reference, payment.RedirectURL, payment.Reference,
	))
}

func (e *Engine) paymentStatus(ctx context.Context, session *models.Session, reference string) models.Directive {
	payment, err := e.deps.Payments.CheckStatus(ctx, reference)
	if err != nil {
		return text("Sorry, we couldn't find that payment reference. Please check it or type 'speak to a human' for assistance.")
	}

	switch payment.Status {
	case models.PaymentCompleted:
		if session.Stage == models.StageAwaitingPayment {
			session.Stage = models.StagePaymentCompleted
			session.Context.Payment = nil
		}
		return text(fmt.Sprintf(
			"✅ Your payment (reference: %s) has been processed and confirmed.\n\n"+
				"Amount: $%.2f\n\nThank you for your payment!",
			payment.Reference, payment.Amount,
		))
	case models.PaymentPending:
		return text(fmt.Sprintf(
			"Your payment (reference: %s) is still pending.\n\n"+
				"Amount: $%.2f\n\nPlease complete your payment using this link:\n%s",
			payment.Reference, payment.Amount, payment.RedirectURL,
		))
	default:
		return text(fmt.Sprintf(
			"Your payment (reference: %s) has a status of '%s'.\n\n"+
				"If you believe this is an error, please type 'speak to a human' for assistance.",
			payment.Reference, payment.Status,
		))
	}
}
