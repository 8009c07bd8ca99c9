// Package docdbtest provides an in-memory docdb.Client for tests.
package docdbtest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// FakeClient is an in-memory implementation of docdb.Client. It is safe for
// concurrent use and keeps documents in plain maps so tests can inspect
// state directly through the collection getters.
type FakeClient struct {
	mu sync.Mutex

	sessions          map[string]*models.Session
	bookings          map[string]*models.Booking
	quotations        map[string]*models.Quotation
	productQuotations map[string]*models.ProductQuotation
	demoRequests      map[string]*models.DemoRequest
	payments          map[string]*models.Payment
	chatSessions      map[string]*models.ChatSession
}

var _ docdb.Client = (*FakeClient)(nil)

// NewFakeClient creates an empty FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		sessions:          make(map[string]*models.Session),
		bookings:          make(map[string]*models.Booking),
		quotations:        make(map[string]*models.Quotation),
		productQuotations: make(map[string]*models.ProductQuotation),
		demoRequests:      make(map[string]*models.DemoRequest),
		payments:          make(map[string]*models.Payment),
		chatSessions:      make(map[string]*models.ChatSession),
	}
}

func (c *FakeClient) Sessions() docdb.SessionsCollection                 { return fakeSessions{c} }
func (c *FakeClient) Bookings() docdb.BookingsCollection                 { return fakeBookings{c} }
func (c *FakeClient) Quotations() docdb.QuotationsCollection             { return fakeQuotations{c} }
func (c *FakeClient) ProductQuotations() docdb.ProductQuotationsCollection {
	return fakeProductQuotations{c}
}
func (c *FakeClient) DemoRequests() docdb.DemoRequestsCollection { return fakeDemoRequests{c} }
func (c *FakeClient) Payments() docdb.PaymentsCollection         { return fakePayments{c} }
func (c *FakeClient) ChatSessions() docdb.ChatSessionsCollection { return fakeChatSessions{c} }

func (c *FakeClient) EnsureIndexes(ctx context.Context) error { return nil }
func (c *FakeClient) Ping(ctx context.Context) error          { return nil }
func (c *FakeClient) Close(ctx context.Context) error         { return nil }

// SeedBooking stores a booking directly, for test arrangement.
func (c *FakeClient) SeedBooking(booking *models.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	c.bookings[booking.ID] = booking
}

// SeedQuotation stores a quotation directly, for test arrangement.
func (c *FakeClient) SeedQuotation(quotation *models.Quotation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quotation.ID == "" {
		quotation.ID = uuid.NewString()
	}
	c.quotations[quotation.ID] = quotation
}

type fakeSessions struct{ c *FakeClient }

func (f fakeSessions) Get(ctx context.Context, userID string, platform models.Platform) (*models.Session, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	session, ok := f.c.sessions[models.SessionKey(platform, userID)]
	if !ok {
		return nil, errors.NewNotFoundError("session", userID)
	}
	clone := *session
	return &clone, nil
}

func (f fakeSessions) Upsert(ctx context.Context, session *models.Session) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	clone := *session
	f.c.sessions[models.SessionKey(session.Platform, session.UserID)] = &clone
	return nil
}

func (f fakeSessions) Delete(ctx context.Context, userID string, platform models.Platform) (bool, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	key := models.SessionKey(platform, userID)
	_, ok := f.c.sessions[key]
	delete(f.c.sessions, key)
	return ok, nil
}

func (f fakeSessions) EnsureIndexes(ctx context.Context) error { return nil }

type fakeBookings struct{ c *FakeClient }

func (f fakeBookings) Insert(ctx context.Context, booking *models.Booking) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	booking.ID = uuid.NewString()
	clone := *booking
	f.c.bookings[booking.ID] = &clone
	return booking.ID, nil
}

func (f fakeBookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	booking, ok := f.c.bookings[id]
	if !ok {
		return nil, errors.NewNotFoundError("booking", id)
	}
	clone := *booking
	return &clone, nil
}

func (f fakeBookings) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	booking, ok := f.c.bookings[id]
	if !ok {
		return errors.NewNotFoundError("booking", id)
	}
	booking.Status = status
	return nil
}

func (f fakeBookings) ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Booking, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	var out []*models.Booking
	for _, b := range f.c.bookings {
		if b.UserID == userID && b.Platform == platform {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f fakeBookings) EnsureIndexes(ctx context.Context) error { return nil }

type fakeQuotations struct{ c *FakeClient }

func (f fakeQuotations) Insert(ctx context.Context, quotation *models.Quotation) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation.ID = uuid.NewString()
	clone := *quotation
	f.c.quotations[quotation.ID] = &clone
	return quotation.ID, nil
}

func (f fakeQuotations) Get(ctx context.Context, id string) (*models.Quotation, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation, ok := f.c.quotations[id]
	if !ok {
		return nil, errors.NewNotFoundError("quotation", id)
	}
	clone := *quotation
	return &clone, nil
}

func (f fakeQuotations) UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation, ok := f.c.quotations[id]
	if !ok {
		return errors.NewNotFoundError("quotation", id)
	}
	quotation.Status = status
	return nil
}

func (f fakeQuotations) ListByUser(ctx context.Context, userID string, platform models.Platform, limit int64) ([]*models.Quotation, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	var out []*models.Quotation
	for _, q := range f.c.quotations {
		if q.UserID == userID && q.Platform == platform {
			clone := *q
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f fakeQuotations) EnsureIndexes(ctx context.Context) error { return nil }

type fakeProductQuotations struct{ c *FakeClient }

func (f fakeProductQuotations) Insert(ctx context.Context, quotation *models.ProductQuotation) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation.ID = uuid.NewString()
	clone := *quotation
	f.c.productQuotations[quotation.ID] = &clone
	return quotation.ID, nil
}

func (f fakeProductQuotations) Get(ctx context.Context, id string) (*models.ProductQuotation, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation, ok := f.c.productQuotations[id]
	if !ok {
		return nil, errors.NewNotFoundError("product quotation", id)
	}
	clone := *quotation
	return &clone, nil
}

func (f fakeProductQuotations) UpdateStatus(ctx context.Context, id string, status models.QuotationStatus) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	quotation, ok := f.c.productQuotations[id]
	if !ok {
		return errors.NewNotFoundError("product quotation", id)
	}
	quotation.Status = status
	return nil
}

func (f fakeProductQuotations) EnsureIndexes(ctx context.Context) error { return nil }

type fakeDemoRequests struct{ c *FakeClient }

func (f fakeDemoRequests) Insert(ctx context.Context, demo *models.DemoRequest) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	demo.ID = uuid.NewString()
	clone := *demo
	f.c.demoRequests[demo.ID] = &clone
	return demo.ID, nil
}

func (f fakeDemoRequests) Get(ctx context.Context, id string) (*models.DemoRequest, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	demo, ok := f.c.demoRequests[id]
	if !ok {
		return nil, errors.NewNotFoundError("demo request", id)
	}
	clone := *demo
	return &clone, nil
}

func (f fakeDemoRequests) UpdateStatus(ctx context.Context, id string, status models.DemoStatus) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	demo, ok := f.c.demoRequests[id]
	if !ok {
		return errors.NewNotFoundError("demo request", id)
	}
	demo.Status = status
	return nil
}

func (f fakeDemoRequests) EnsureIndexes(ctx context.Context) error { return nil }

type fakePayments struct{ c *FakeClient }

func (f fakePayments) Insert(ctx context.Context, payment *models.Payment) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if payment.Reference == "" {
		return "", errors.NewValidationError("payment reference is required", "")
	}
	if _, exists := f.c.payments[payment.Reference]; exists {
		return "", errors.NewConflictError("payment already exists", payment.Reference)
	}
	payment.ID = uuid.NewString()
	clone := *payment
	f.c.payments[payment.Reference] = &clone
	return payment.ID, nil
}

func (f fakePayments) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	payment, ok := f.c.payments[reference]
	if !ok {
		return nil, errors.NewNotFoundError("payment", reference)
	}
	clone := *payment
	return &clone, nil
}

func (f fakePayments) FindPending(ctx context.Context, refType models.PaymentReferenceType, refID string) (*models.Payment, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	for _, p := range f.c.payments {
		if p.ReferenceType == refType && p.ReferenceID == refID && p.Status == models.PaymentPending {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f fakePayments) Update(ctx context.Context, payment *models.Payment) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if _, ok := f.c.payments[payment.Reference]; !ok {
		return errors.NewNotFoundError("payment", payment.Reference)
	}
	clone := *payment
	f.c.payments[payment.Reference] = &clone
	return nil
}

func (f fakePayments) EnsureIndexes(ctx context.Context) error { return nil }

type fakeChatSessions struct{ c *FakeClient }

func (f fakeChatSessions) Insert(ctx context.Context, chat *models.ChatSession) (string, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	chat.ID = uuid.NewString()
	clone := *chat
	f.c.chatSessions[chat.ID] = &clone
	return chat.ID, nil
}

func (f fakeChatSessions) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	chat, ok := f.c.chatSessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("chat session", id)
	}
	clone := *chat
	return &clone, nil
}

func (f fakeChatSessions) GetActive(ctx context.Context, userID string, platform models.Platform) (*models.ChatSession, error) {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	for _, chat := range f.c.chatSessions {
		if chat.UserID == userID && chat.Platform == platform && chat.Status != models.ChatSessionClosed {
			clone := *chat
			return &clone, nil
		}
	}
	return nil, errors.NewNotFoundError("chat session", userID)
}

func (f fakeChatSessions) AppendMessage(ctx context.Context, id string, message models.ChatMessage) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	chat, ok := f.c.chatSessions[id]
	if !ok {
		return errors.NewNotFoundError("chat session", id)
	}
	chat.Messages = append(chat.Messages, message)
	return nil
}

func (f fakeChatSessions) Close(ctx context.Context, id string) error {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	chat, ok := f.c.chatSessions[id]
	if !ok {
		return errors.NewNotFoundError("chat session", id)
	}
	chat.Status = models.ChatSessionClosed
	return nil
}

func (f fakeChatSessions) EnsureIndexes(ctx context.Context) error { return nil }
