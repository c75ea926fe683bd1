package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/dto"
	"github.com/quickseat/portal/internal/auth"
	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/service"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// TicketsHandler manages end-user support ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal.User.ID, service.TicketCreateInput{
		Subject:     req.Subject,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	// a fresh ticket has no responses yet; its activity derives from Open
	overview := service.TicketOverview{
		Ticket:   *ticket,
		Activity: domain.EvaluateThread(*ticket, nil, ticket.CreatedAt),
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(overview)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTicketQuery(c)
	filter.RequesterID = &principal.User.ID

	overviews, err := h.service.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(overviews)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	thread, activity, err := h.service.GetTicketForRequester(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(thread, activity, nil)})
}

// AddResponse POST /tickets/:id/responses.
func (h *TicketsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	thread, activity, err := h.service.AddResponse(c.Context(), principal.User.ID, principal.ResponderType(), c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(thread, activity, nil)})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(overview service.TicketOverview) dto.TicketSummary {
	return dto.TicketSummary{
		ID:             overview.Ticket.ID,
		Subject:        overview.Ticket.Subject,
		Category:       overview.Ticket.Category,
		Status:         overview.Ticket.Status,
		HasUnread:      overview.Activity.HasUnread,
		UnreadCount:    overview.Activity.UnreadCount,
		NeedsAttention: overview.Activity.NeedsAttention,
		CreatedAt:      overview.Ticket.CreatedAt,
		UpdatedAt:      overview.Ticket.UpdatedAt,
	}
}

func ticketSummaries(overviews []service.TicketOverview) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(overviews))
	for _, overview := range overviews {
		items = append(items, ticketSummary(overview))
	}
	return items
}

func ticketDetail(thread *domain.TicketThread, activity domain.ThreadActivity, history []domain.StatusChange) dto.TicketDetailResponse {
	ordered := domain.SortResponses(thread.Responses)
	responses := make([]dto.ResponseView, 0, len(ordered))
	for _, response := range ordered {
		responses = append(responses, dto.ResponseView{
			ID:            response.ID,
			ResponderID:   response.ResponderID,
			ResponderType: response.ResponderType,
			Message:       response.Message,
			CreatedAt:     response.CreatedAt,
		})
	}
	detail := dto.TicketDetailResponse{
		ID:             thread.Ticket.ID,
		RequesterID:    thread.Ticket.RequesterID,
		Subject:        thread.Ticket.Subject,
		Category:       thread.Ticket.Category,
		Description:    thread.Ticket.Description,
		Status:         thread.Ticket.Status,
		HasUnread:      activity.HasUnread,
		UnreadCount:    activity.UnreadCount,
		NeedsAttention: activity.NeedsAttention,
		CreatedAt:      thread.Ticket.CreatedAt,
		UpdatedAt:      thread.Ticket.UpdatedAt,
		Responses:      responses,
	}
	for _, change := range history {
		detail.StatusHistory = append(detail.StatusHistory, dto.StatusChangeResponse{
			ID:         change.ID,
			ActorID:    change.ActorID,
			ActorRole:  change.ActorRole,
			FromStatus: change.FromStatus,
			ToStatus:   change.ToStatus,
			Note:       change.Note,
			CreatedAt:  change.CreatedAt,
		})
	}
	return detail
}
