package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/events"
	"github.com/quickseat/portal/internal/repository"
	apperrors "github.com/quickseat/portal/pkg/util"
)

// TicketService orchestrates support ticket workflows: creation, thread
// appends, status transitions and the derived dashboard state. The store
// is the single writer of truth; every successful mutation returns state
// re-read from the store rather than a locally mutated copy.
type TicketService struct {
	tickets    repository.TicketRepository
	responses  repository.ResponseRepository
	changes    repository.StatusChangeRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo       repository.TicketRepository
	ResponseRepo     repository.ResponseRepository
	StatusChangeRepo repository.StatusChangeRepository
	Dispatcher       events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Category    string
	Description string
}

// TicketListFilter describes ticket listing parameters.
type TicketListFilter struct {
	RequesterID *string
	Statuses    []domain.TicketStatus
	Category    *string
	Limit       int
	Offset      int
}

// TicketOverview pairs a ticket with its derived notification state for
// list views. Activity is recomputed on every read, never stored.
type TicketOverview struct {
	Ticket   domain.Ticket
	Activity domain.ThreadActivity
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		responses:  deps.ResponseRepo,
		changes:    deps.StatusChangeRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new support ticket for a requester. Status is
// always forced to Open regardless of input.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, apperrors.NewValidationError("subject and description required", nil)
	}

	ticket := &domain.Ticket{
		RequesterID: userID,
		Subject:     subject,
		Category:    strings.TrimSpace(input.Category),
		Description: description,
		Status:      domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     events.Actor{Role: domain.RoleUser, UserID: userID},
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets matching the filter together with their
// derived unread state.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]TicketOverview, error) {
	repoFilter := repository.TicketFilter{
		RequesterID: filter.RequesterID,
		Statuses:    filter.Statuses,
		Category:    filter.Category,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		// list reads are retried once before giving up
		tickets, err = s.tickets.ListWithFilter(ctx, repoFilter)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
	}

	ids := make([]string, 0, len(tickets))
	for i := range tickets {
		ids = append(ids, tickets[i].ID)
	}
	threads, err := s.responses.ListByTickets(ctx, ids)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	now := time.Now()
	overviews := make([]TicketOverview, 0, len(tickets))
	for i := range tickets {
		overviews = append(overviews, TicketOverview{
			Ticket:   tickets[i],
			Activity: domain.EvaluateThread(tickets[i], threads[tickets[i].ID], now),
		})
	}
	return overviews, nil
}

// GetTicketForRequester fetches a ticket with its thread, enforcing
// ownership.
func (s *TicketService) GetTicketForRequester(ctx context.Context, userID, ticketID string) (*domain.TicketThread, domain.ThreadActivity, error) {
	thread, activity, err := s.GetTicketThread(ctx, ticketID)
	if err != nil {
		return nil, domain.ThreadActivity{}, err
	}
	if thread.Ticket.RequesterID != userID {
		return nil, domain.ThreadActivity{}, apperrors.NewForbidden("ticket belongs to another user")
	}
	return thread, activity, nil
}

// GetTicketThread fetches a ticket plus its full ordered thread and
// recomputes the derived notification state.
func (s *TicketService) GetTicketThread(ctx context.Context, ticketID string) (*domain.TicketThread, domain.ThreadActivity, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.ThreadActivity{}, err
	}
	responses, err := s.fetchThread(ctx, ticketID)
	if err != nil {
		return nil, domain.ThreadActivity{}, err
	}
	thread := &domain.TicketThread{Ticket: *ticket, Responses: responses}
	return thread, domain.EvaluateThread(*ticket, responses, time.Now()), nil
}

// AddResponse appends a message to a ticket's thread. The store assigns
// the response ID and timestamp; when an admin replies to an Open ticket
// the ticket auto-advances to InProgress within the same operation.
func (s *TicketService) AddResponse(ctx context.Context, responderID string, responderType domain.ResponderType, ticketID, message string) (*domain.TicketThread, domain.ThreadActivity, error) {
	if !domain.ValidResponderType(responderType) {
		return nil, domain.ThreadActivity{}, apperrors.NewValidationError("unknown responder type", nil)
	}
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, domain.ThreadActivity{}, apperrors.NewEmptyMessage()
	}

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.ThreadActivity{}, err
	}
	if responderType == domain.ResponderUser && ticket.RequesterID != responderID {
		return nil, domain.ThreadActivity{}, apperrors.NewForbidden("ticket belongs to another user")
	}
	if ticket.Closed() {
		return nil, domain.ThreadActivity{}, apperrors.NewTicketClosed(ticketID)
	}

	response := &domain.Response{
		TicketID:      ticket.ID,
		ResponderID:   responderID,
		ResponderType: responderType,
		Message:       trimmed,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		// a failed append must not be assumed applied; surface and let the
		// caller decide, never blind-retry a mutation
		return nil, domain.ThreadActivity{}, apperrors.NewStoreUnavailable(err)
	}
	if err := s.tickets.TouchUpdatedAt(ctx, ticket.ID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ThreadActivity{}, apperrors.NewStoreUnavailable(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketResponseAdded,
		SubjectID: ticket.ID,
		Actor:     events.Actor{Role: roleFor(responderType), UserID: responderID},
		Payload: events.TicketResponseAddedPayload{
			ResponseID:    response.ID,
			ResponderType: responderType,
			BodyPreview:   preview(trimmed, 120),
		},
	})

	if responderType == domain.ResponderAdmin && ticket.Status == domain.TicketStatusOpen {
		if err := s.applyTransition(ctx, ticket, domain.TicketStatusInProgress, responderID, responderType, "first admin reply", true); err != nil {
			return nil, domain.ThreadActivity{}, err
		}
	}

	// read-after-write: expose only freshly fetched state
	return s.GetTicketThread(ctx, ticket.ID)
}

// ChangeStatus applies an explicit status change request. Redundant or
// backwards requests are reported as ignored no-ops; leaving Closed is an
// error.
func (s *TicketService) ChangeStatus(ctx context.Context, actorID string, actorRole domain.ResponderType, ticketID string, next domain.TicketStatus) (*domain.Ticket, domain.TransitionOutcome, error) {
	if !domain.ValidStatus(next) {
		return nil, domain.TransitionRejected, apperrors.NewInvalidStatusTransition("", string(next))
	}

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.TransitionRejected, err
	}

	switch domain.EvaluateTransition(ticket.Status, next) {
	case domain.TransitionIgnored:
		return ticket, domain.TransitionIgnored, nil
	case domain.TransitionRejected:
		return nil, domain.TransitionRejected, apperrors.NewTicketClosed(ticketID)
	}

	if err := s.applyTransition(ctx, ticket, next, actorID, actorRole, "", false); err != nil {
		return nil, domain.TransitionRejected, err
	}
	fresh, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, domain.TransitionRejected, err
	}
	return fresh, domain.TransitionApplied, nil
}

// ListStatusChanges returns the audit trail for a ticket.
func (s *TicketService) ListStatusChanges(ctx context.Context, ticketID string) ([]domain.StatusChange, error) {
	if s.changes == nil {
		return []domain.StatusChange{}, nil
	}
	changes, err := s.changes.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return changes, nil
}

// DashboardSummary folds the detector across the whole ticket collection.
// It is a stateless reduction against a fresh read; nothing is cached
// across mutation boundaries.
func (s *TicketService) DashboardSummary(ctx context.Context) (domain.AttentionSummary, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		tickets, err = s.tickets.ListAll(ctx)
		if err != nil {
			return domain.AttentionSummary{}, apperrors.NewStoreUnavailable(err)
		}
	}
	ids := make([]string, 0, len(tickets))
	for i := range tickets {
		ids = append(ids, tickets[i].ID)
	}
	responsesByTicket, err := s.responses.ListByTickets(ctx, ids)
	if err != nil {
		return domain.AttentionSummary{}, apperrors.NewStoreUnavailable(err)
	}

	threads := make([]domain.TicketThread, 0, len(tickets))
	for i := range tickets {
		threads = append(threads, domain.TicketThread{
			Ticket:    tickets[i],
			Responses: responsesByTicket[tickets[i].ID],
		})
	}
	return domain.Summarize(threads, time.Now()), nil
}

// applyTransition persists a status change, records the audit entry and
// publishes the event. After an ambiguous store failure it re-reads the
// ticket to check whether the write actually landed before reporting.
func (s *TicketService) applyTransition(ctx context.Context, ticket *domain.Ticket, next domain.TicketStatus, actorID string, actorRole domain.ResponderType, note string, automatic bool) error {
	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewTicketNotFound(ticket.ID)
		}
		fresh, readErr := s.tickets.GetByID(ctx, ticket.ID)
		if readErr != nil || fresh.Status != next {
			return apperrors.NewStoreUnavailable(err)
		}
		// the write landed despite the reported failure; carry on
	}
	ticket.Status = next

	if s.changes != nil {
		change := &domain.StatusChange{
			TicketID:   ticket.ID,
			ActorID:    actorID,
			ActorRole:  actorRole,
			FromStatus: oldStatus,
			ToStatus:   next,
			Note:       note,
		}
		if err := s.changes.Create(ctx, change); err != nil {
			return apperrors.NewStoreUnavailable(err)
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		SubjectID: ticket.ID,
		Actor:     events.Actor{Role: roleFor(actorRole), UserID: actorID},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
			Automatic: automatic,
		},
	})
	return nil
}

// fetchTicket reads a ticket, retrying transient failures once. Reads are
// safe to retry; mutations never are.
func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		ticket, err = s.tickets.GetByID(ctx, ticketID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return ticket, nil
}

func (s *TicketService) fetchThread(ctx context.Context, ticketID string) ([]domain.Response, error) {
	responses, err := s.responses.ListByTicket(ctx, ticketID)
	if err != nil {
		responses, err = s.responses.ListByTicket(ctx, ticketID)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
	}
	return responses, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func roleFor(rt domain.ResponderType) domain.UserRole {
	if rt == domain.ResponderAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
