package domain

import "time"

// Event is a bookable occasion hosted at a venue. Prices are stored in
// cents to avoid floating point money.
type Event struct {
	ID          string
	VenueID     string
	Name        string
	Category    string
	Description string
	StartsAt    time.Time
	Capacity    int
	PriceCents  int64
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
