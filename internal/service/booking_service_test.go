package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/repository"
	apperrors "github.com/quickseat/portal/pkg/util"
)

type fakeBookingRepo struct {
	bookings map[string]domain.Booking
	seq      int

	updateCalls int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]domain.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	f.seq++
	booking.ID = fmt.Sprintf("booking-%03d", f.seq)
	booking.CreatedAt = clockBase.Add(time.Duration(f.seq) * time.Second)
	booking.UpdatedAt = booking.CreatedAt
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	f.updateCalls++
	booking, ok := f.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	booking.Status = status
	f.bookings[id] = booking
	return nil
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, booking := range f.bookings {
		if filter.UserID != nil && booking.UserID != *filter.UserID {
			continue
		}
		if filter.EventID != nil && booking.EventID != *filter.EventID {
			continue
		}
		out = append(out, booking)
	}
	return out, nil
}

func (f *fakeBookingRepo) CountByStatus(_ context.Context) (map[domain.BookingStatus]int, error) {
	out := make(map[domain.BookingStatus]int)
	for _, booking := range f.bookings {
		out[booking.Status]++
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments map[string]domain.Payment
	seq      int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]domain.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	f.seq++
	payment.ID = fmt.Sprintf("payment-%03d", f.seq)
	payment.CreatedAt = clockBase.Add(time.Duration(f.seq) * time.Second)
	f.payments[payment.ID] = *payment
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	payment, ok := f.payments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	payment.Status = status
	f.payments[id] = payment
	return nil
}

func (f *fakePaymentRepo) ListByBooking(_ context.Context, bookingID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, payment := range f.payments {
		if payment.BookingID == bookingID {
			out = append(out, payment)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	events map[string]domain.Event
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := event
	return &copied, nil
}

func (f *fakeEventRepo) ListWithFilter(_ context.Context, _ repository.EventFilter) ([]domain.Event, error) {
	var out []domain.Event
	for _, event := range f.events {
		out = append(out, event)
	}
	return out, nil
}

type bookingFixture struct {
	service  *BookingService
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	events   *fakeEventRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	fx := &bookingFixture{
		bookings: newFakeBookingRepo(),
		payments: newFakePaymentRepo(),
		events: &fakeEventRepo{events: map[string]domain.Event{
			"event-1": {
				ID:         "event-1",
				VenueID:    "venue-1",
				Name:       "Spring Gala",
				Capacity:   100,
				PriceCents: 2500,
				Published:  true,
			},
			"event-draft": {
				ID:         "event-draft",
				VenueID:    "venue-1",
				Name:       "Unannounced Show",
				Capacity:   50,
				PriceCents: 1000,
				Published:  false,
			},
		}},
	}
	fx.service = NewBookingService(BookingDependencies{
		BookingRepo: fx.bookings,
		PaymentRepo: fx.payments,
		EventRepo:   fx.events,
	})
	return fx
}

func TestCreateBookingPricesServerSide(t *testing.T) {
	fx := newBookingFixture(t)
	booking, err := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 4)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if booking.AmountCents != 10000 {
		t.Fatalf("amount = %d, want 4 * 2500", booking.AmountCents)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Fatalf("status = %s, want PENDING", booking.Status)
	}
}

func TestCreateBookingRejectsUnpublishedEvent(t *testing.T) {
	fx := newBookingFixture(t)
	_, err := fx.service.CreateBooking(context.Background(), "user-1", "event-draft", 1)
	if code := bookingErrorCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestCreateBookingValidatesQuantity(t *testing.T) {
	fx := newBookingFixture(t)
	if _, err := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 0); err == nil {
		t.Fatal("zero quantity accepted")
	}
	if _, err := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 101); err == nil {
		t.Fatal("quantity above capacity accepted")
	}
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	fx := newBookingFixture(t)
	_, err := fx.service.CreateBooking(context.Background(), "user-1", "missing", 1)
	if code := bookingErrorCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}

func TestConfirmBookingRecordsPayment(t *testing.T) {
	fx := newBookingFixture(t)
	created, err := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 2)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	booking, payment, err := fx.service.ConfirmBooking(context.Background(), "admin-1", created.ID, "card")
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", booking.Status)
	}
	if payment.Status != domain.PaymentStatusPaid || payment.AmountCents != booking.AmountCents {
		t.Fatalf("payment = %+v", payment)
	}
}

func TestConfirmBookingOnlyPending(t *testing.T) {
	fx := newBookingFixture(t)
	created, _ := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 1)
	if _, _, err := fx.service.ConfirmBooking(context.Background(), "admin-1", created.ID, "card"); err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	_, _, err := fx.service.ConfirmBooking(context.Background(), "admin-1", created.ID, "card")
	if code := bookingErrorCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT", code)
	}
}

func TestCancelBookingRefundsPaidPayments(t *testing.T) {
	fx := newBookingFixture(t)
	created, _ := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 1)
	_, payment, err := fx.service.ConfirmBooking(context.Background(), "admin-1", created.ID, "card")
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}

	booking, err := fx.service.CancelBooking(context.Background(), "admin-1", domain.RoleAdmin, created.ID)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", booking.Status)
	}
	if got := fx.payments.payments[payment.ID].Status; got != domain.PaymentStatusRefunded {
		t.Fatalf("payment status = %s, want REFUNDED", got)
	}
}

func TestOwnerCanOnlyCancelPending(t *testing.T) {
	fx := newBookingFixture(t)
	created, _ := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 1)

	if _, err := fx.service.CancelBooking(context.Background(), "user-2", domain.RoleUser, created.ID); err == nil {
		t.Fatal("another user cancelled a booking they do not own")
	}

	if _, _, err := fx.service.ConfirmBooking(context.Background(), "admin-1", created.ID, "card"); err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	_, err := fx.service.CancelBooking(context.Background(), "user-1", domain.RoleUser, created.ID)
	if code := bookingErrorCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s, want CONFLICT for owner cancelling a confirmed booking", code)
	}
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	fx := newBookingFixture(t)
	created, _ := fx.service.CreateBooking(context.Background(), "user-1", "event-1", 1)
	if _, err := fx.service.CancelBooking(context.Background(), "user-1", domain.RoleUser, created.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	fx.bookings.updateCalls = 0

	booking, err := fx.service.CancelBooking(context.Background(), "admin-1", domain.RoleAdmin, created.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", booking.Status)
	}
	if fx.bookings.updateCalls != 0 {
		t.Fatal("cancelling an already cancelled booking must not write")
	}
}

func TestBookingAmountCents(t *testing.T) {
	if got := BookingAmountCents(2500, 3); got != 7500 {
		t.Fatalf("got %d, want 7500", got)
	}
	if got := BookingAmountCents(0, 10); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func bookingErrorCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return domainErr.Code
}
