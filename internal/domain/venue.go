package domain

import "time"

// Venue is a physical location events are booked into.
type Venue struct {
	ID        string
	Name      string
	Address   string
	City      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
