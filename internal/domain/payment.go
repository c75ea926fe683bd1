package domain

import "time"

// PaymentStatus enumerates payment record states.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Payment records money movement against a booking.
type Payment struct {
	ID          string
	BookingID   string
	AmountCents int64
	Method      string
	Status      PaymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
