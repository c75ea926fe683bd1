package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/dto"
	"github.com/quickseat/portal/internal/auth"
	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/service"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// AdminTicketsHandler manages the admin side of the support desk.
type AdminTicketsHandler struct {
	service *service.TicketService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService) *AdminTicketsHandler {
	return &AdminTicketsHandler{service: ticketService}
}

// ListTickets GET /admin/tickets.
func (h *AdminTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)

	overviews, err := h.service.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	if c.QueryBool("needs_attention") {
		filtered := overviews[:0]
		for _, overview := range overviews {
			if overview.Activity.NeedsAttention {
				filtered = append(filtered, overview)
			}
		}
		overviews = filtered
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(overviews)})
}

// GetTicket GET /admin/tickets/:id.
func (h *AdminTicketsHandler) GetTicket(c *fiber.Ctx) error {
	thread, activity, err := h.service.GetTicketThread(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	history, err := h.service.ListStatusChanges(c.Context(), thread.Ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(thread, activity, history)})
}

// AddResponse POST /admin/tickets/:id/responses.
func (h *AdminTicketsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	thread, activity, err := h.service.AddResponse(c.Context(), principal.User.ID, domain.ResponderAdmin, c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(thread, activity, nil)})
}

// ChangeStatus PATCH /admin/tickets/:id/status.
func (h *AdminTicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, outcome, err := h.service.ChangeStatus(c.Context(), principal.User.ID, domain.ResponderAdmin, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	overview := service.TicketOverview{Ticket: *ticket}
	if outcome == domain.TransitionApplied {
		// re-derive activity from the fresh read so the client sees
		// post-transition state
		thread, activity, err := h.service.GetTicketThread(c.Context(), ticket.ID)
		if err != nil {
			return err
		}
		overview = service.TicketOverview{Ticket: thread.Ticket, Activity: activity}
	}
	return c.JSON(fiber.Map{"data": dto.ChangeStatusResponse{
		Outcome: outcome,
		Ticket:  ticketSummary(overview),
	}})
}
