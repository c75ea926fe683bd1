package events

import (
	"time"

	"github.com/quickseat/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTicketResponseAdded  EventType = "ticket_response_added"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventPaymentRecorded      EventType = "payment_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.UserRole `json:"role"`
	UserID string          `json:"user_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string `json:"subject"`
	Category string `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Automatic bool                `json:"automatic,omitempty"`
}

// TicketResponseAddedPayload payload.
type TicketResponseAddedPayload struct {
	ResponseID    string               `json:"response_id"`
	ResponderType domain.ResponderType `json:"responder_type"`
	BodyPreview   string               `json:"body_preview"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	EventID     string `json:"event_id"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	PaymentID   string               `json:"payment_id"`
	AmountCents int64                `json:"amount_cents"`
	Status      domain.PaymentStatus `json:"status"`
}
