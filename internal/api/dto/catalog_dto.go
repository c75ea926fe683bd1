package dto

import "time"

// VenueRequest payload for venue create/update.
type VenueRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
}

// VenueResponse payload.
type VenueResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventRequest payload for event create/update.
type EventRequest struct {
	VenueID     string    `json:"venue_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	PriceCents  int64     `json:"price_cents"`
	Published   bool      `json:"published"`
}

// EventResponse payload.
type EventResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    int       `json:"capacity"`
	PriceCents  int64     `json:"price_cents"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
