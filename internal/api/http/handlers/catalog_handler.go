package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/dto"
	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/repository"
	"github.com/quickseat/portal/internal/service"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// CatalogHandler exposes venue and event endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// ListEvents GET /events (public, published only).
func (h *CatalogHandler) ListEvents(c *fiber.Ctx) error {
	filter := parseEventQuery(c)
	events, err := h.service.ListPublishedEvents(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponses(events)})
}

// GetEvent GET /events/:id (public).
func (h *CatalogHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.service.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if !event.Published {
		return apperrors.NewNotFound("event", map[string]any{"event_id": event.ID})
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// AdminListEvents GET /admin/events.
func (h *CatalogHandler) AdminListEvents(c *fiber.Ctx) error {
	events, err := h.service.ListEvents(c.Context(), parseEventQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponses(events)})
}

// CreateEvent POST /admin/events.
func (h *CatalogHandler) CreateEvent(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	event, err := h.service.CreateEvent(c.Context(), eventInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": eventResponse(event)})
}

// UpdateEvent PUT /admin/events/:id.
func (h *CatalogHandler) UpdateEvent(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	event, err := h.service.UpdateEvent(c.Context(), c.Params("id"), eventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// ListVenues GET /admin/venues.
func (h *CatalogHandler) ListVenues(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	venues, err := h.service.ListVenues(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.VenueResponse, 0, len(venues))
	for i := range venues {
		items = append(items, venueResponse(&venues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateVenue POST /admin/venues.
func (h *CatalogHandler) CreateVenue(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	venue, err := h.service.CreateVenue(c.Context(), venueInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": venueResponse(venue)})
}

// UpdateVenue PUT /admin/venues/:id.
func (h *CatalogHandler) UpdateVenue(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	venue, err := h.service.UpdateVenue(c.Context(), c.Params("id"), venueInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": venueResponse(venue)})
}

func parseEventQuery(c *fiber.Ctx) repository.EventFilter {
	filter := repository.EventFilter{}
	if venueID := strings.TrimSpace(c.Query("venue_id")); venueID != "" {
		filter.VenueID = &venueID
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

func venueInput(req dto.VenueRequest) service.VenueInput {
	return service.VenueInput{
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Capacity: req.Capacity,
	}
}

func eventInput(req dto.EventRequest) service.EventInput {
	return service.EventInput{
		VenueID:     req.VenueID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	}
}

func venueResponse(venue *domain.Venue) dto.VenueResponse {
	return dto.VenueResponse{
		ID:        venue.ID,
		Name:      venue.Name,
		Address:   venue.Address,
		City:      venue.City,
		Capacity:  venue.Capacity,
		CreatedAt: venue.CreatedAt,
		UpdatedAt: venue.UpdatedAt,
	}
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          event.ID,
		VenueID:     event.VenueID,
		Name:        event.Name,
		Category:    event.Category,
		Description: event.Description,
		StartsAt:    event.StartsAt,
		Capacity:    event.Capacity,
		PriceCents:  event.PriceCents,
		Published:   event.Published,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func eventResponses(events []domain.Event) []dto.EventResponse {
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return items
}
