package models

import "time"

// BookingStatus is the lifecycle state of a service booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no_show"
)

// Booking is a confirmed service appointment produced by the booking flow.
type Booking struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	UserID      string        `json:"userId" bson:"userId"`
	Platform    Platform      `json:"platform" bson:"platform"`
	Name        string        `json:"name" bson:"name"`
	ServiceID   string        `json:"serviceId,omitempty" bson:"serviceId,omitempty"`
	Description string        `json:"description" bson:"description"`
	StartsAt    time.Time     `json:"startsAt" bson:"startsAt"`
	Status      BookingStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// QuotationStatus is the lifecycle state of a quotation request.
type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationQuoted   QuotationStatus = "quoted"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

// Quotation is a service quotation request produced by the quote flow.
type Quotation struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	UserID       string          `json:"userId" bson:"userId"`
	Platform     Platform        `json:"platform" bson:"platform"`
	Name         string          `json:"name" bson:"name"`
	Service      string          `json:"service,omitempty" bson:"service,omitempty"`
	Requirements string          `json:"requirements" bson:"requirements"`
	Timeline     string          `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Budget       string          `json:"budget,omitempty" bson:"budget,omitempty"`
	Amount       float64         `json:"amount,omitempty" bson:"amount,omitempty"`
	Status       QuotationStatus `json:"status" bson:"status"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// ProductQuotation is a software product quotation request, richer than a
// service quotation (company, seat count, feature and integration needs).
type ProductQuotation struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	Reference    string          `json:"reference" bson:"reference"`
	UserID       string          `json:"userId" bson:"userId"`
	Platform     Platform        `json:"platform" bson:"platform"`
	ProductID    string          `json:"productId,omitempty" bson:"productId,omitempty"`
	Company      string          `json:"company" bson:"company"`
	Users        string          `json:"users" bson:"users"`
	Features     string          `json:"features" bson:"features"`
	Integrations string          `json:"integrations,omitempty" bson:"integrations,omitempty"`
	Timeline     string          `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Budget       string          `json:"budget,omitempty" bson:"budget,omitempty"`
	Status       QuotationStatus `json:"status" bson:"status"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// DemoStatus is the lifecycle state of a demo request.
type DemoStatus string

const (
	DemoPending   DemoStatus = "pending"
	DemoScheduled DemoStatus = "scheduled"
	DemoCompleted DemoStatus = "completed"
	DemoCancelled DemoStatus = "cancelled"
)

// DemoRequest is a product demo request produced by the demo flow.
type DemoRequest struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Reference string     `json:"reference" bson:"reference"`
	UserID    string     `json:"userId" bson:"userId"`
	Platform  Platform   `json:"platform" bson:"platform"`
	ProductID string     `json:"productId,omitempty" bson:"productId,omitempty"`
	Name      string     `json:"name" bson:"name"`
	Company   string     `json:"company" bson:"company"`
	DateTime  string     `json:"dateTime" bson:"dateTime"`
	Users     string     `json:"users,omitempty" bson:"users,omitempty"`
	Status    DemoStatus `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentReferenceType names the record a payment settles.
type PaymentReferenceType string

const (
	PaymentForBooking   PaymentReferenceType = "booking"
	PaymentForQuotation PaymentReferenceType = "quotation"
)

// Payment is a payment attempt against a booking or quotation. Reference is
// the gateway-facing merchant reference and is unique per payment.
type Payment struct {
	ID            string               `json:"id" bson:"_id,omitempty"`
	Reference     string               `json:"reference" bson:"reference"`
	UserID        string               `json:"userId" bson:"userId"`
	Platform      Platform             `json:"platform" bson:"platform"`
	ReferenceType PaymentReferenceType `json:"referenceType" bson:"referenceType"`
	ReferenceID   string               `json:"referenceId" bson:"referenceId"`
	Amount        float64              `json:"amount" bson:"amount"`
	Currency      string               `json:"currency" bson:"currency"`
	Status        PaymentStatus        `json:"status" bson:"status"`
	PollURL       string               `json:"pollUrl,omitempty" bson:"pollUrl,omitempty"`
	RedirectURL   string               `json:"redirectUrl,omitempty" bson:"redirectUrl,omitempty"`
	GatewayStatus string               `json:"gatewayStatus,omitempty" bson:"gatewayStatus,omitempty"`
	PaidAt        *time.Time           `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}
