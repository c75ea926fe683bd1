package domain

import "time"

// BookingStatus enumerates booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking reserves a quantity of seats for an event on behalf of a user.
type Booking struct {
	ID          string
	UserID      string
	EventID     string
	Quantity    int
	AmountCents int64
	Status      BookingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
