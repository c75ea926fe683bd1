package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/dto"
	"github.com/quickseat/portal/internal/service"
)

// DashboardHandler serves the admin overview. Everything here is derived
// on request from fresh reads; there are no stored counters to drift.
type DashboardHandler struct {
	tickets  *service.TicketService
	bookings *service.BookingService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(ticketService *service.TicketService, bookingService *service.BookingService) *DashboardHandler {
	return &DashboardHandler{tickets: ticketService, bookings: bookingService}
}

// Summary GET /admin/dashboard.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	ticketSummary, err := h.tickets.DashboardSummary(c.Context())
	if err != nil {
		return err
	}
	bookingCounts, err := h.bookings.CountByStatus(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Tickets: dto.TicketDashboard{
			Total:          ticketSummary.Total,
			ByStatus:       ticketSummary.ByStatus,
			WithUnread:     ticketSummary.WithUnread,
			NeedsAttention: ticketSummary.NeedsAttention,
		},
		Bookings: dto.BookingDashboard{
			ByStatus: bookingCounts,
		},
	}})
}
