package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/techrehub/chatbot-service/internal/core/docdb"
	"github.com/techrehub/chatbot-service/internal/domain/models"
)

// Records turns confirmed flow drafts into persisted pending records.
type Records interface {
	// CreateBooking persists a pending booking from confirmed details.
	CreateBooking(ctx context.Context, userID string, platform models.Platform, details *models.BookingDetails) (*models.Booking, error)

	// CreateQuotation persists a pending quotation from confirmed details.
	CreateQuotation(ctx context.Context, userID string, platform models.Platform, details *models.QuoteDetails) (*models.Quotation, error)

	// CreateProductQuotation persists a pending product quotation and
	// assigns it a PQ reference number.
	CreateProductQuotation(ctx context.Context, userID string, platform models.Platform, details *models.ProductQuoteDetails) (*models.ProductQuotation, error)

	// CreateDemoRequest persists a pending demo request and assigns it a
	// DM reference number.
	CreateDemoRequest(ctx context.Context, userID string, platform models.Platform, details *models.DemoDetails) (*models.DemoRequest, error)
}

type records struct {
	db     docdb.Client
	logger zerolog.Logger
}

// NewRecords creates a Records service backed by the document database.
func NewRecords(db docdb.Client, logger zerolog.Logger) Records {
	return &records{db: db, logger: logger}
}

func (r *records) CreateBooking(ctx context.Context, userID string, platform models.Platform, details *models.BookingDetails) (*models.Booking, error) {
	booking := &models.Booking{
		UserID:      userID,
		Platform:    platform,
		Name:        details.Name,
		ServiceID:   details.ServiceID,
		Description: details.Description,
		StartsAt:    details.StartsAt,
		Status:      models.BookingPending,
	}

	id, err := r.db.Bookings().Insert(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id

	r.logger.Info().
		Str("bookingId", id).
		Str("userId", userID).
		Str("platform", string(platform)).
		Time("startsAt", booking.StartsAt).
		Msg("booking created")
	return booking, nil
}

func (r *records) CreateQuotation(ctx context.Context, userID string, platform models.Platform, details *models.QuoteDetails) (*models.Quotation, error) {
	quotation := &models.Quotation{
		UserID:       userID,
		Platform:     platform,
		Name:         details.Name,
		Service:      details.Service,
		Requirements: details.Requirements,
		Timeline:     details.Timeline,
		Budget:       details.Budget,
		Status:       models.QuotationPending,
	}

	id, err := r.db.Quotations().Insert(ctx, quotation)
	if err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}
	quotation.ID = id

	r.logger.Info().
		Str("quotationId", id).
		Str("userId", userID).
		Str("platform", string(platform)).
		Msg("quotation created")
	return quotation, nil
}

func (r *records) CreateProductQuotation(ctx context.Context, userID string, platform models.Platform, details *models.ProductQuoteDetails) (*models.ProductQuotation, error) {
	quotation := &models.ProductQuotation{
		Reference:    NewReference("PQ"),
		UserID:       userID,
		Platform:     platform,
		ProductID:    details.ProductID,
		Company:      details.Company,
		Users:        details.Users,
		Features:     details.Features,
		Integrations: details.Integrations,
		Timeline:     details.Timeline,
		Budget:       details.Budget,
		Status:       models.QuotationPending,
	}

	id, err := r.db.ProductQuotations().Insert(ctx, quotation)
	if err != nil {
		return nil, fmt.Errorf("failed to create product quotation: %w", err)
	}
	quotation.ID = id

	r.logger.Info().
		Str("productQuotationId", id).
		Str("reference", quotation.Reference).
		Str("userId", userID).
		Msg("product quotation created")
	return quotation, nil
}

func (r *records) CreateDemoRequest(ctx context.Context, userID string, platform models.Platform, details *models.DemoDetails) (*models.DemoRequest, error) {
	demo := &models.DemoRequest{
		Reference: NewReference("DM"),
		UserID:    userID,
		Platform:  platform,
		ProductID: details.ProductID,
		Name:      details.Name,
		Company:   details.Company,
		DateTime:  details.DateTime,
		Users:     details.Users,
		Status:    models.DemoPending,
	}

	id, err := r.db.DemoRequests().Insert(ctx, demo)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo request: %w", err)
	}
	demo.ID = id

	r.logger.Info().
		Str("demoRequestId", id).
		Str("reference", demo.Reference).
		Str("userId", userID).
		Msg("demo request created")
	return demo, nil
}

// NewReference generates a short human-readable reference number with the
// given prefix, e.g. "PQ-20260831-4F7A2C1B".
func NewReference(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), token)
}
