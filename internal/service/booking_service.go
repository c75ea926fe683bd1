package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/events"
	"github.com/quickseat/portal/internal/repository"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// BookingService coordinates booking and payment workflows.
type BookingService struct {
	bookings   repository.BookingRepository
	payments   repository.PaymentRepository
	eventsRepo repository.EventRepository
	dispatcher events.Dispatcher
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	PaymentRepo repository.PaymentRepository
	EventRepo   repository.EventRepository
	Dispatcher  events.Dispatcher
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings:   deps.BookingRepo,
		payments:   deps.PaymentRepo,
		eventsRepo: deps.EventRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateBooking reserves seats on a published event. The amount is priced
// server-side from the event, never taken from the client.
func (s *BookingService) CreateBooking(ctx context.Context, userID, eventID string, quantity int) (*domain.Booking, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	if !event.Published {
		return nil, apperrors.NewValidationError("event not open for booking", nil)
	}
	if quantity > event.Capacity {
		return nil, apperrors.NewValidationError("quantity exceeds event capacity", nil)
	}

	booking := &domain.Booking{
		UserID:      userID,
		EventID:     event.ID,
		Quantity:    quantity,
		AmountCents: BookingAmountCents(event.PriceCents, quantity),
		Status:      domain.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: booking.ID,
		Actor:     events.Actor{Role: domain.RoleUser, UserID: userID},
		Payload: events.BookingCreatedPayload{
			EventID:     booking.EventID,
			Quantity:    booking.Quantity,
			AmountCents: booking.AmountCents,
		},
	})
	return booking, nil
}

// BookingAmountCents computes the charge for a quantity of seats.
func BookingAmountCents(priceCents int64, quantity int) int64 {
	return priceCents * int64(quantity)
}

// ListUserBookings returns bookings owned by a user.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListWithFilter(ctx, repository.BookingFilter{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	})
}

// ListBookings returns bookings matching an admin filter.
func (s *BookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	return s.bookings.ListWithFilter(ctx, filter)
}

// GetBookingForUser fetches a booking enforcing ownership.
func (s *BookingService) GetBookingForUser(ctx context.Context, userID, bookingID string) (*domain.Booking, []domain.Payment, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.UserID != userID {
		return nil, nil, apperrors.NewForbidden("booking belongs to another user")
	}
	payments, err := s.payments.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, nil, err
	}
	return booking, payments, nil
}

// ConfirmBooking marks a pending booking confirmed and records the paid
// payment in the same operation.
func (s *BookingService) ConfirmBooking(ctx context.Context, adminID, bookingID, method string) (*domain.Booking, *domain.Payment, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, nil, apperrors.NewConflict("only pending bookings can be confirmed", map[string]any{"status": booking.Status})
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusConfirmed); err != nil {
		return nil, nil, err
	}
	oldStatus := booking.Status
	booking.Status = domain.BookingStatusConfirmed

	payment := &domain.Payment{
		BookingID:   booking.ID,
		AmountCents: booking.AmountCents,
		Method:      method,
		Status:      domain.PaymentStatusPaid,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: booking.ID,
		Actor:     events.Actor{Role: domain.RoleAdmin, UserID: adminID},
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: booking.Status,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventPaymentRecorded,
		SubjectID: booking.ID,
		Actor:     events.Actor{Role: domain.RoleAdmin, UserID: adminID},
		Payload: events.PaymentRecordedPayload{
			PaymentID:   payment.ID,
			AmountCents: payment.AmountCents,
			Status:      payment.Status,
		},
	})
	return booking, payment, nil
}

// CancelBooking cancels a booking and refunds any paid payments. Users may
// cancel their own pending bookings; admins may cancel any non-cancelled
// booking.
func (s *BookingService) CancelBooking(ctx context.Context, actorID string, actorRole domain.UserRole, bookingID string) (*domain.Booking, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin {
		if booking.UserID != actorID {
			return nil, apperrors.NewForbidden("booking belongs to another user")
		}
		if booking.Status != domain.BookingStatusPending {
			return nil, apperrors.NewConflict("only pending bookings can be cancelled by the owner", map[string]any{"status": booking.Status})
		}
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	oldStatus := booking.Status
	booking.Status = domain.BookingStatusCancelled

	payments, err := s.payments.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	for _, payment := range payments {
		if payment.Status != domain.PaymentStatusPaid {
			continue
		}
		if err := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusRefunded); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: booking.ID,
		Actor:     events.Actor{Role: actorRole, UserID: actorID},
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: booking.Status,
		},
	})
	return booking, nil
}

// CountByStatus exposes booking totals for the admin dashboard.
func (s *BookingService) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int, error) {
	return s.bookings.CountByStatus(ctx)
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
