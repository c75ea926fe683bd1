package dto

import (
	"time"

	"github.com/quickseat/portal/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	EventID  string `json:"event_id"`
	Quantity int    `json:"quantity"`
}

// ConfirmBookingRequest payload.
type ConfirmBookingRequest struct {
	Method string `json:"method"`
}

// BookingResponse payload.
type BookingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	EventID     string               `json:"event_id"`
	Quantity    int                  `json:"quantity"`
	AmountCents int64                `json:"amount_cents"`
	Status      domain.BookingStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// PaymentResponse payload.
type PaymentResponse struct {
	ID          string               `json:"id"`
	BookingID   string               `json:"booking_id"`
	AmountCents int64                `json:"amount_cents"`
	Method      string               `json:"method"`
	Status      domain.PaymentStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// BookingDetailResponse payload with payment records.
type BookingDetailResponse struct {
	Booking  BookingResponse   `json:"booking"`
	Payments []PaymentResponse `json:"payments"`
}
