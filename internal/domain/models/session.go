// Package models contains domain models for the TechRehub chatbot service.
package models

import "time"

// Platform identifies the messaging channel a conversation belongs to.
type Platform string

const (
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformMessenger Platform = "messenger"
	PlatformWeb       Platform = "web"
)

// Stage is the current position of a conversation in the multi-turn flow
// state machine.
type Stage string

const (
	StageInitial                    Stage = "initial"
	StageAwaitingBookingDetails     Stage = "awaiting_booking_details"
	StageConfirmingBooking          Stage = "confirming_booking"
	StageAwaitingQuoteDetails       Stage = "awaiting_quote_details"
	StageConfirmingQuote            Stage = "confirming_quote"
	StageAwaitingProductQuoteInput  Stage = "awaiting_product_quote_details"
	StageConfirmingProductQuote     Stage = "confirming_product_quote"
	StageAwaitingDemoDetails        Stage = "awaiting_demo_details"
	StageConfirmingDemo             Stage = "confirming_demo"
	StageAwaitingPayment            Stage = "awaiting_payment"
	StagePaymentCompleted           Stage = "payment_completed"
	StageTransferred                Stage = "transferred"
	StageClosed                     Stage = "closed"
)

const (
	// StalenessWindow is the inactivity window after which a conversation is
	// considered abandoned and reset to the initial stage.
	StalenessWindow = 30 * time.Minute

	// MaxHistoryEntries bounds the per-session message history. The history is
	// a staleness/fallback aid, not a transcript store of record.
	MaxHistoryEntries = 20
)

// HistoryEntry is a single inbound message recorded on a session.
type HistoryEntry struct {
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// BookingDetails are the staged fields of an in-progress booking flow.
type BookingDetails struct {
	Name        string    `json:"name" bson:"name"`
	Date        string    `json:"date" bson:"date"`
	Time        string    `json:"time" bson:"time"`
	Description string    `json:"description" bson:"description"`
	ServiceID   string    `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	StartsAt    time.Time `json:"startsAt" bson:"startsAt"`
}

// QuoteDetails are the staged fields of an in-progress quotation flow.
type QuoteDetails struct {
	Name         string `json:"name" bson:"name"`
	Service      string `json:"service,omitempty" bson:"service,omitempty"`
	Requirements string `json:"requirements" bson:"requirements"`
	Timeline     string `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Budget       string `json:"budget,omitempty" bson:"budget,omitempty"`
}

// ProductQuoteDetails are the staged fields of a product quotation flow.
type ProductQuoteDetails struct {
	Company      string `json:"company" bson:"company"`
	Users        string `json:"users" bson:"users"`
	Features     string `json:"features" bson:"features"`
	Integrations string `json:"integrations,omitempty" bson:"integrations,omitempty"`
	Timeline     string `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Budget       string `json:"budget,omitempty" bson:"budget,omitempty"`
	ProductID    string `json:"productId,omitempty" bson:"productId,omitempty"`
}

// DemoDetails are the staged fields of a demo request flow.
type DemoDetails struct {
	Name      string `json:"name" bson:"name"`
	Company   string `json:"company" bson:"company"`
	DateTime  string `json:"dateTime" bson:"dateTime"`
	Users     string `json:"users,omitempty" bson:"users,omitempty"`
	ProductID string `json:"productId,omitempty" bson:"productId,omitempty"`
}

// PaymentDetails are the staged fields of an in-progress payment flow.
type PaymentDetails struct {
	Reference     string  `json:"reference" bson:"reference"`
	Amount        float64 `json:"amount" bson:"amount"`
	Service       string  `json:"service" bson:"service"`
	ReferenceType string  `json:"referenceType" bson:"referenceType"`
	ReferenceID   string  `json:"referenceId" bson:"referenceId"`
}

// Context carries the in-progress flow data for a session. Exactly the draft
// matching the current stage is expected to be set; the variants are typed so
// a confirming stage statically carries its own fields instead of a loose
// key-value bag.
type Context struct {
	Booking      *BookingDetails      `json:"booking,omitempty" bson:"booking,omitempty"`
	Quote        *QuoteDetails        `json:"quote,omitempty" bson:"quote,omitempty"`
	ProductQuote *ProductQuoteDetails `json:"productQuote,omitempty" bson:"productQuote,omitempty"`
	Demo         *DemoDetails         `json:"demo,omitempty" bson:"demo,omitempty"`
	Payment      *PaymentDetails      `json:"payment,omitempty" bson:"payment,omitempty"`

	// SelectedServiceID / SelectedProductID track a catalog selection made via
	// quick-reply before a flow starts.
	SelectedServiceID string `json:"selectedServiceId,omitempty" bson:"selectedServiceId,omitempty"`
	SelectedProductID string `json:"selectedProductId,omitempty" bson:"selectedProductId,omitempty"`

	// ChatSessionID references the escalation record once transferred.
	ChatSessionID string `json:"chatSessionId,omitempty" bson:"chatSessionId,omitempty"`
}

// IsEmpty reports whether no flow data is staged.
func (c Context) IsEmpty() bool {
	return c.Booking == nil && c.Quote == nil && c.ProductQuote == nil &&
		c.Demo == nil && c.Payment == nil &&
		c.SelectedServiceID == "" && c.SelectedProductID == "" && c.ChatSessionID == ""
}

// Session is the per-(userID, platform) conversation state. At most one
// session exists per key; it is created lazily on first message, mutated on
// every turn and expired by the store after 24 hours of inactivity.
type Session struct {
	UserID          string         `json:"userId" bson:"userId"`
	Platform        Platform       `json:"platform" bson:"platform"`
	Stage           Stage          `json:"stage" bson:"stage"`
	Context         Context        `json:"context" bson:"context"`
	History         []HistoryEntry `json:"history" bson:"history"`
	LastInteraction time.Time      `json:"lastInteraction" bson:"lastInteraction"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// NewSession creates a fresh session in the initial stage.
func NewSession(userID string, platform Platform) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:          userID,
		Platform:        platform,
		Stage:           StageInitial,
		LastInteraction: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsStale reports whether the session has been inactive longer than the
// staleness window.
func (s *Session) IsStale(now time.Time) bool {
	return now.Sub(s.LastInteraction) > StalenessWindow
}

// Reset returns the session to the initial stage and clears all staged flow
// data. History is kept.
func (s *Session) Reset() {
	s.Stage = StageInitial
	s.Context = Context{}
}

// AppendHistory records an inbound message, keeping at most MaxHistoryEntries
// most recent entries.
func (s *Session) AppendHistory(content string, at time.Time) {
	s.History = append(s.History, HistoryEntry{Content: content, Timestamp: at})
	if len(s.History) > MaxHistoryEntries {
		s.History = s.History[len(s.History)-MaxHistoryEntries:]
	}
}

// SessionKey generates a cache key for the session.
func SessionKey(platform Platform, userID string) string {
	return "session:" + string(platform) + ":" + userID
}
