// Package conversation implements the turn-by-turn chatbot engine. One
// inbound message goes through session load, staleness reset, stage or
// intent routing, and comes back out as a render directive for the channel
// adapter. The engine never surfaces internal errors to the user; failures
// degrade to an apology text.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
	"github.com/techrehub/chatbot-service/internal/services/classifier"
	"github.com/techrehub/chatbot-service/internal/services/notify"
	"github.com/techrehub/chatbot-service/internal/services/payments"
	"github.com/techrehub/chatbot-service/internal/services/sessions"
	"github.com/techrehub/chatbot-service/internal/services/workflows"
)

// Inbound is a normalized user message, independent of channel.
type Inbound struct {
	UserID   string
	Platform models.Platform

	// Text is the message body. Empty for pure button taps.
	Text string

	// Payload is the quick-reply or button payload, if the user tapped one.
	Payload string

	// Unsupported marks a message whose type the channel cannot convey as
	// text (media, location, reactions). The user gets a canned notice.
	Unsupported bool

	Timestamp time.Time
}

// Classifier maps free text to an intent.
type Classifier interface {
	Classify(message string) classifier.Result
}

// Catalog is the read surface the engine needs from the catalog.
type Catalog interface {
	Services() []models.CatalogItem
	Products() []models.CatalogItem
	Get(id string) (models.CatalogItem, error)
}

// Deps are the collaborators the engine is wired with.
type Deps struct {
	Classifier  Classifier
	Sessions    sessions.Service
	Catalog     Catalog
	Records     workflows.Records
	Escalations docdb.ChatSessionsCollection
	Bookings    docdb.BookingsCollection
	Quotations  docdb.QuotationsCollection

	// Payments is nil when the gateway is not configured; payment commands
	// then answer with a graceful notice.
	Payments payments.Service

	Notifier notify.Notifier
	Logger   zerolog.Logger

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// Engine processes conversation turns.
type Engine struct {
	deps Deps
	now  func() time.Time

	// turns holds one mutex per (platform, user) key. Turns for the same
	// user run one at a time; a near-simultaneous double-send is processed
	// as two ordinary sequential turns.
	turns sync.Map
}

// NewEngine creates a conversation engine.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("sessions service is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if deps.Records == nil {
		return nil, fmt.Errorf("records service is required")
	}
	if deps.Escalations == nil {
		return nil, fmt.Errorf("escalations collection is required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{deps: deps, now: now}, nil
}

// ProcessMessage handles one turn. It always returns a directive; internal
// failures come back as an apology text rather than an error.
func (e *Engine) ProcessMessage(ctx context.Context, msg Inbound) models.Directive {
	logger := e.deps.Logger.With().
		Str("userId", msg.UserID).
		Str("platform", string(msg.Platform)).
		Logger()

	mu := e.turnLock(msg.Platform, msg.UserID)
	mu.Lock()
	defer mu.Unlock()

	session, err := e.deps.Sessions.Get(ctx, msg.UserID, msg.Platform)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load session")
		return text(errorText)
	}

	now := e.now().UTC()
	wasStale := session.Stage == models.StageInitial && session.Context.IsEmpty() &&
		!session.LastInteraction.IsZero() && now.Sub(session.LastInteraction) > models.StalenessWindow

	if msg.Text != "" {
		session.AppendHistory(msg.Text, now)
	}
	session.LastInteraction = now

	var reply models.Directive
	switch {
	case wasStale:
		reply = text(staleText)
	case msg.Unsupported:
		reply = text(unsupportedTypeText)
	case msg.Payload != "":
		reply = e.handlePayload(ctx, session, msg.Payload)
	default:
		reply = e.handleText(ctx, session, msg.Text)
	}

	if err := e.deps.Sessions.Save(ctx, session); err != nil {
		// The reply still goes out; the next turn reloads from the store.
		logger.Error().Err(err).Msg("failed to save session")
	}

	logger.Debug().
		Str("stage", string(session.Stage)).
		Msg("turn processed")
	return reply
}

func (e *Engine) turnLock(platform models.Platform, userID string) *sync.Mutex {
	key := string(platform) + "|" + userID
	mu, _ := e.turns.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// handleText routes a free-text message: active flow stages first, then
// command prefixes, then intent classification.
func (e *Engine) handleText(ctx context.Context, session *models.Session, message string) models.Directive {
	if session.Stage != models.StageInitial {
		if reply := e.handleStage(ctx, session, message); reply != nil {
			return reply
		}
	}

	if reply := e.handleCommand(ctx, session, message); reply != nil {
		return reply
	}

	result := e.deps.Classifier.Classify(message)
	e.deps.Logger.Debug().
		Str("intent", result.Intent).
		Float64("confidence", result.Confidence).
		Bool("keywordMatch", result.KeywordMatch).
		Msg("message classified")
	return e.handleIntent(ctx, session, result)
}

// handleStage dispatches to the active flow. A nil return means the stage
// does not capture messages and normal routing continues.
func (e *Engine) handleStage(ctx context.Context, session *models.Session, message string) models.Directive {
	switch session.Stage {
	case models.StageAwaitingBookingDetails:
		return e.handleBookingInput(session, message)
	case models.StageAwaitingQuoteDetails:
		return e.handleQuoteInput(session, message)
	case models.StageAwaitingProductQuoteInput:
		return e.handleProductQuoteInput(session, message)
	case models.StageAwaitingDemoDetails:
		return e.handleDemoInput(session, message)
	case models.StageConfirmingBooking,
		models.StageConfirmingQuote,
		models.StageConfirmingProductQuote,
		models.StageConfirmingDemo:
		return e.handleConfirmation(ctx, session, message)
	case models.StageAwaitingPayment:
		return e.handlePaymentStage(session, message)
	case models.StageTransferred:
		return e.handleTransferred(ctx, session, message)
	case models.StagePaymentCompleted, models.StageClosed:
		// The flow is over; drop back to normal routing.
		session.Reset()
		return nil
	default:
		return nil
	}
}

func (e *Engine) handleBookingInput(session *models.Session, message string) models.Directive {
	input := stripCommandPrefix(message, "book:")
	details, err := workflows.ParseBooking(input, e.now().UTC())
	if err != nil {
		return text(validationText(err) + "\n\nFormat: Book: [Name], [Date], [Time], [Description]")
	}

	details.ServiceID = session.Context.SelectedServiceID
	session.Context.Booking = details
	session.Stage = models.StageConfirmingBooking
	return confirmationReply(bookingSummary(details))
}

func (e *Engine) handleQuoteInput(session *models.Session, message string) models.Directive {
	input := stripCommandPrefix(message, "quote:")
	details, err := workflows.ParseQuote(input)
	if err != nil {
		return text(validationText(err) + "\n\nFormat: Quote: [Name], [Requirements], [Timeline], [Budget]")
	}

	if session.Context.SelectedServiceID != "" {
		if item, catErr := e.deps.Catalog.Get(session.Context.SelectedServiceID); catErr == nil {
			details.Service = item.Name
		}
	}
	session.Context.Quote = details
	session.Stage = models.StageConfirmingQuote
	return confirmationReply(quoteSummary(details))
}

func (e *Engine) handleProductQuoteInput(session *models.Session, message string) models.Directive {
	input := stripCommandPrefix(message, "productquote:")
	details, err := workflows.ParseProductQuote(input)
	if err != nil {
		return text(validationText(err) + "\n\nFormat: ProductQuote: [Company], [Users], [Features], [Integrations], [Timeline]")
	}

	details.ProductID = session.Context.SelectedProductID
	session.Context.ProductQuote = details
	session.Stage = models.StageConfirmingProductQuote
	return confirmationReply(productQuoteSummary(details))
}

func (e *Engine) handleDemoInput(session *models.Session, message string) models.Directive {
	input := stripCommandPrefix(message, "demo:")
	details, err := workflows.ParseDemo(input)
	if err != nil {
		return text(validationText(err) + "\n\nFormat: Demo: [Name], [Company], [Date/Time], [Team Size]")
	}

	details.ProductID = session.Context.SelectedProductID
	session.Context.Demo = details
	session.Stage = models.StageConfirmingDemo
	return confirmationReply(demoSummary(details))
}

// handleConfirmation resolves the yes/no sub-protocol for all confirming
// stages. The confirming stage is left before the record is created, so a
// duplicate "yes" cannot create a second record.
func (e *Engine) handleConfirmation(ctx context.Context, session *models.Session, message string) models.Directive {
	switch parseYesNo(message) {
	case answerYes:
		return e.confirm(ctx, session)
	case answerNo:
		return e.declineConfirmation(session)
	default:
		return e.repeatConfirmation(session)
	}
}

// declineConfirmation sends the user back to the matching input stage. The
// rejected draft is dropped so the next submission starts from scratch.
func (e *Engine) declineConfirmation(session *models.Session) models.Directive {
	switch session.Stage {
	case models.StageConfirmingBooking:
		session.Context.Booking = nil
		session.Stage = models.StageAwaitingBookingDetails
		return text(retryText + "\n\n" + bookingPromptText)
	case models.StageConfirmingQuote:
		session.Context.Quote = nil
		session.Stage = models.StageAwaitingQuoteDetails
		return text(retryText + "\n\n" + quotePromptText)
	case models.StageConfirmingProductQuote:
		session.Context.ProductQuote = nil
		session.Stage = models.StageAwaitingProductQuoteInput
		return text(retryText + "\n\n" + productQuotePromptText)
	case models.StageConfirmingDemo:
		session.Context.Demo = nil
		session.Stage = models.StageAwaitingDemoDetails
		return text(retryText + "\n\n" + demoPromptText)
	default:
		session.Reset()
		return text(errorText)
	}
}

func (e *Engine) confirm(ctx context.Context, session *models.Session) models.Directive {
	stage := session.Stage
	flow := session.Context
	session.Reset()

	switch stage {
	case models.StageConfirmingBooking:
		if flow.Booking == nil {
			return text(errorText)
		}
		booking, err := e.deps.Records.CreateBooking(ctx, session.UserID, session.Platform, flow.Booking)
		if err != nil {
			e.deps.Logger.Error().Err(err).Msg("failed to create booking")
			return text(errorText)
		}
		e.deps.Notifier.Notify(notify.EventNewBooking, map[string]string{
			"id":       booking.ID,
			"name":     booking.Name,
			"when":     booking.StartsAt.Format(time.RFC1123),
			"details":  booking.Description,
			"platform": string(booking.Platform),
		})
		return text(fmt.Sprintf(
			"✅ Your booking is confirmed!\n\nBooking ID: %s\nDate: %s\nTime: %s\n\n"+
				"To pay a deposit now, reply with 'Pay: booking, %s'. See you soon!",
			booking.ID, flow.Booking.Date, flow.Booking.Time, booking.ID,
		))

	case models.StageConfirmingQuote:
		if flow.Quote == nil {
			return text(errorText)
		}
		quotation, err := e.deps.Records.CreateQuotation(ctx, session.UserID, session.Platform, flow.Quote)
		if err != nil {
			e.deps.Logger.Error().Err(err).Msg("failed to create quotation")
			return text(errorText)
		}
		e.deps.Notifier.Notify(notify.EventNewQuotation, map[string]string{
			"id":           quotation.ID,
			"name":         quotation.Name,
			"requirements": quotation.Requirements,
			"platform":     string(quotation.Platform),
		})
		return text(fmt.Sprintf(
			"✅ Your quotation request has been received!\n\nRequest ID: %s\n\n"+
				"Our team will review it and get back to you within 24 hours.",
			quotation.ID,
		))

	case models.StageConfirmingProductQuote:
		if flow.ProductQuote == nil {
			return text(errorText)
		}
		quotation, err := e.deps.Records.CreateProductQuotation(ctx, session.UserID, session.Platform, flow.ProductQuote)
		if err != nil {
			e.deps.Logger.Error().Err(err).Msg("failed to create product quotation")
			return text(errorText)
		}
		e.deps.Notifier.Notify(notify.EventNewProductQuotation, map[string]string{
			"reference": quotation.Reference,
			"company":   quotation.Company,
			"users":     quotation.Users,
			"platform":  string(quotation.Platform),
		})
		return text(fmt.Sprintf(
			"✅ Your product quotation request has been received!\n\nReference: %s\n\n"+
				"Our team will prepare a tailored quote and contact you within 24 hours.",
			quotation.Reference,
		))

	case models.StageConfirmingDemo:
		if flow.Demo == nil {
			return text(errorText)
		}
		demo, err := e.deps.Records.CreateDemoRequest(ctx, session.UserID, session.Platform, flow.Demo)
		if err != nil {
			e.deps.Logger.Error().Err(err).Msg("failed to create demo request")
			return text(errorText)
		}
		e.deps.Notifier.Notify(notify.EventNewDemoRequest, map[string]string{
			"reference": demo.Reference,
			"name":      demo.Name,
			"company":   demo.Company,
			"when":      demo.DateTime,
			"platform":  string(demo.Platform),
		})
		return text(fmt.Sprintf(
			"✅ Your demo request has been received!\n\nReference: %s\n\n"+
				"We'll confirm the exact slot with you shortly.",
			demo.Reference,
		))

	default:
		return text(errorText)
	}
}

// repeatConfirmation re-renders the pending confirmation prompt.
func (e *Engine) repeatConfirmation(session *models.Session) models.Directive {
	flow := session.Context
	switch session.Stage {
	case models.StageConfirmingBooking:
		if flow.Booking != nil {
			return confirmationReply(bookingSummary(flow.Booking))
		}
	case models.StageConfirmingQuote:
		if flow.Quote != nil {
			return confirmationReply(quoteSummary(flow.Quote))
		}
	case models.StageConfirmingProductQuote:
		if flow.ProductQuote != nil {
			return confirmationReply(productQuoteSummary(flow.ProductQuote))
		}
	case models.StageConfirmingDemo:
		if flow.Demo != nil {
			return confirmationReply(demoSummary(flow.Demo))
		}
	}
	session.Reset()
	return text(errorText)
}

func (e *Engine) handlePaymentStage(session *models.Session, message string) models.Directive {
	// Pay commands and status checks still work inside the stage.
	if strings.Contains(strings.ToLower(message), "pay:") {
		return nil
	}

	info := session.Context.Payment
	if info == nil {
		session.Reset()
		return text("Sorry, I could not find your payment information. Please start over.")
	}
	return text(fmt.Sprintf(
		"Your payment of $%.2f for %s is still pending.\n\nReference: %s\n\n"+
			"Reply with 'Pay: status, %s' to check whether it has gone through.",
		info.Amount, info.Service, info.Reference, info.Reference,
	))
}

// handleTransferred appends user messages to the escalation transcript while
// an operator owns the conversation. The bot stays silent.
func (e *Engine) handleTransferred(ctx context.Context, session *models.Session, message string) models.Directive {
	if id := session.Context.ChatSessionID; id != "" {
		err := e.deps.Escalations.AppendMessage(ctx, id, models.ChatMessage{
			Sender:    "user",
			Content:   message,
			Timestamp: e.now().UTC(),
		})
		if err != nil {
			e.deps.Logger.Warn().Err(err).Str("chatSessionId", id).Msg("failed to append to escalation transcript")
		}
	}
	return models.NoneDirective{}
}

// handleIntent routes a classified intent.
func (e *Engine) handleIntent(ctx context.Context, session *models.Session, result classifier.Result) models.Directive {
	if id, _, ok := classifier.ParseInfoIntent(result.Intent); ok {
		item, err := e.deps.Catalog.Get(id)
		if err != nil {
			e.deps.Logger.Warn().Str("intent", result.Intent).Msg("info intent for unknown catalog item")
			return text(fallbackText)
		}
		return itemInfoReply(item)
	}

	switch result.Intent {
	case classifier.IntentGreeting:
		return greetingReply()
	case classifier.IntentServiceList:
		return servicesReply(e.deps.Catalog.Services())
	case classifier.IntentProductList:
		return productsReply(e.deps.Catalog.Products())
	case classifier.IntentBookingStart:
		session.Stage = models.StageAwaitingBookingDetails
		return text(bookingPromptText)
	case classifier.IntentQuotationStart:
		session.Stage = models.StageAwaitingQuoteDetails
		return text(quotePromptText)
	case classifier.IntentPaymentInitiate, classifier.IntentPaymentStatus:
		if e.deps.Payments == nil {
			return text(paymentsDisabledText)
		}
		return text(paymentHelpText)
	case classifier.IntentTransferHuman:
		return e.escalate(ctx, session)
	case classifier.IntentPortfolioShow:
		return text(portfolioText)
	case classifier.IntentPromotionOffers:
		return text(promotionsText)
	case classifier.IntentTestimonialsShow:
		return text(testimonialsText)
	case classifier.IntentNewsletterSubscribe:
		return text(newsletterText)
	case classifier.IntentLeadContact:
		return text(leadContactText)
	case classifier.IntentChatbotDevelopment:
		return text(chatbotDevText)
	default:
		return text(fallbackText)
	}
}

// escalate hands the conversation to a human operator, snapshotting the
// bot-phase history for context.
func (e *Engine) escalate(ctx context.Context, session *models.Session) models.Directive {
	transcript := make([]models.ChatMessage, 0, len(session.History))
	for _, entry := range session.History {
		transcript = append(transcript, models.ChatMessage{
			Sender:    "user",
			Content:   entry.Content,
			Timestamp: entry.Timestamp,
		})
	}

	chat := &models.ChatSession{
		UserID:   session.UserID,
		Platform: session.Platform,
		Status:   models.ChatSessionTransferred,
		Messages: transcript,
		OpenedAt: e.now().UTC(),
	}
	id, err := e.deps.Escalations.Insert(ctx, chat)
	if err != nil {
		e.deps.Logger.Error().Err(err).Msg("failed to open escalation")
		return text(errorText)
	}

	session.Context = models.Context{ChatSessionID: id}
	session.Stage = models.StageTransferred

	e.deps.Notifier.Notify(notify.EventHumanTransfer, map[string]string{
		"chatSessionId": id,
		"userId":        session.UserID,
		"platform":      string(session.Platform),
	})
	return models.EscalationDirective{Body: escalationText}
}

type yesNoAnswer int

const (
	answerAmbiguous yesNoAnswer = iota
	answerYes
	answerNo
)

func parseYesNo(message string) yesNoAnswer {
	switch strings.ToLower(strings.TrimSpace(strings.Trim(message, "!. "))) {
	case "yes", "y", "yeah", "yep", "confirm", "correct", "ok", "okay", "sure":
		return answerYes
	case "no", "n", "nope", "cancel", "wrong", "stop":
		return answerNo
	default:
		return answerAmbiguous
	}
}

// stripCommandPrefix removes a leading "book:" style marker, matching
// case-insensitively anywhere in the head of the message.
func stripCommandPrefix(message, prefix string) string {
	lowered := strings.ToLower(message)
	if idx := strings.Index(lowered, prefix); idx >= 0 {
		return strings.TrimSpace(message[idx+len(prefix):])
	}
	return strings.TrimSpace(message)
}

func validationText(err error) string {
	if derr, ok := errors.GetDomainError(err); ok {
		return derr.Message
	}
	return errorText
}
