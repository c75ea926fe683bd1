package dto

import "github.com/quickseat/portal/internal/domain"

// DashboardResponse summarizes derived ticket state plus booking counts
// for the admin dashboard. Recomputed on every request.
type DashboardResponse struct {
	Tickets  TicketDashboard  `json:"tickets"`
	Bookings BookingDashboard `json:"bookings"`
}

// TicketDashboard carries the aggregated detector output.
type TicketDashboard struct {
	Total          int                         `json:"total"`
	ByStatus       map[domain.TicketStatus]int `json:"by_status"`
	WithUnread     int                         `json:"with_unread"`
	NeedsAttention int                         `json:"needs_attention"`
}

// BookingDashboard carries booking totals per status.
type BookingDashboard struct {
	ByStatus map[domain.BookingStatus]int `json:"by_status"`
}
