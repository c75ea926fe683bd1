package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/quickseat/portal/internal/api/dto"
	"github.com/quickseat/portal/internal/auth"
	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/repository"
	"github.com/quickseat/portal/internal/service"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// BookingsHandler exposes booking endpoints for users and admins.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// CreateBooking POST /bookings.
func (h *BookingsHandler) CreateBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EventID == "" {
		return apperrors.NewValidationError("event_id required", nil)
	}

	booking, err := h.service.CreateBooking(c.Context(), principal.User.ID, req.EventID, req.Quantity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": bookingResponse(booking)})
}

// ListBookings GET /bookings.
func (h *BookingsHandler) ListBookings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	bookings, err := h.service.ListUserBookings(c.Context(), principal.User.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponses(bookings)})
}

// GetBooking GET /bookings/:id.
func (h *BookingsHandler) GetBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	booking, payments, err := h.service.GetBookingForUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingDetail(booking, payments)})
}

// CancelBooking POST /bookings/:id/cancel.
func (h *BookingsHandler) CancelBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	booking, err := h.service.CancelBooking(c.Context(), principal.User.ID, principal.Role(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponse(booking)})
}

// AdminListBookings GET /admin/bookings.
func (h *BookingsHandler) AdminListBookings(c *fiber.Ctx) error {
	filter := repository.BookingFilter{}
	if eventID := strings.TrimSpace(c.Query("event_id")); eventID != "" {
		filter.EventID = &eventID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.BookingStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	bookings, err := h.service.ListBookings(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookingResponses(bookings)})
}

// ConfirmBooking POST /admin/bookings/:id/confirm.
func (h *BookingsHandler) ConfirmBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ConfirmBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "card"
	}

	booking, payment, err := h.service.ConfirmBooking(c.Context(), principal.User.ID, c.Params("id"), method)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"booking": bookingResponse(booking),
		"payment": paymentResponse(payment),
	}})
}

func bookingResponse(booking *domain.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:          booking.ID,
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		Quantity:    booking.Quantity,
		AmountCents: booking.AmountCents,
		Status:      booking.Status,
		CreatedAt:   booking.CreatedAt,
		UpdatedAt:   booking.UpdatedAt,
	}
}

func bookingResponses(bookings []domain.Booking) []dto.BookingResponse {
	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, bookingResponse(&bookings[i]))
	}
	return items
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          payment.ID,
		BookingID:   payment.BookingID,
		AmountCents: payment.AmountCents,
		Method:      payment.Method,
		Status:      payment.Status,
		CreatedAt:   payment.CreatedAt,
	}
}

func bookingDetail(booking *domain.Booking, payments []domain.Payment) dto.BookingDetailResponse {
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return dto.BookingDetailResponse{
		Booking:  bookingResponse(booking),
		Payments: items,
	}
}
