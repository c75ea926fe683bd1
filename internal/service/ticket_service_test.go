package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/events"
	"github.com/quickseat/portal/internal/repository"
	apperrors "github.com/quickseat/portal/pkg/util"
)

var clockBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeTicketRepo is an in-memory TicketRepository. Store-assigned fields
// use a monotonically increasing clock so ordering is deterministic.
type fakeTicketRepo struct {
	tickets map[string]domain.Ticket
	seq     int

	getFailures    int
	updateFailures int
	listFailures   int
	getCalls       int
	updateCalls    int

	// when set, UpdateStatus applies the write and then reports failure
	updateLands bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) next() (string, time.Time) {
	f.seq++
	return fmt.Sprintf("ticket-%03d", f.seq), clockBase.Add(time.Duration(f.seq) * time.Second)
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	id, at := f.next()
	ticket.ID = id
	ticket.CreatedAt = at
	ticket.UpdatedAt = at
	f.tickets[id] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.getCalls++
	if f.getFailures > 0 {
		f.getFailures--
		return nil, errors.New("connection reset")
	}
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	f.updateCalls++
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if f.updateFailures > 0 {
		f.updateFailures--
		if f.updateLands {
			ticket.Status = status
			f.tickets[id] = ticket
		}
		return errors.New("write timeout")
	}
	ticket.Status = status
	f.tickets[id] = ticket
	return nil
}

func (f *fakeTicketRepo) TouchUpdatedAt(_ context.Context, id string) error {
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	_, at := f.next()
	ticket.UpdatedAt = at
	f.tickets[id] = ticket
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if f.listFailures > 0 {
		f.listFailures--
		return nil, errors.New("connection reset")
	}
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if filter.RequesterID != nil && ticket.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, s := range filter.Statuses {
				if ticket.Status == s {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	if f.listFailures > 0 {
		f.listFailures--
		return nil, errors.New("connection reset")
	}
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		out = append(out, ticket)
	}
	return out, nil
}

type fakeResponseRepo struct {
	byTicket map[string][]domain.Response
	clock    *fakeTicketRepo

	createFailures int
	createCalls    int
}

func newFakeResponseRepo(clock *fakeTicketRepo) *fakeResponseRepo {
	return &fakeResponseRepo{byTicket: make(map[string][]domain.Response), clock: clock}
}

func (f *fakeResponseRepo) Create(_ context.Context, response *domain.Response) error {
	f.createCalls++
	if f.createFailures > 0 {
		f.createFailures--
		return errors.New("write timeout")
	}
	id, at := f.clock.next()
	response.ID = id
	response.CreatedAt = at
	f.byTicket[response.TicketID] = append(f.byTicket[response.TicketID], *response)
	return nil
}

func (f *fakeResponseRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Response, error) {
	return append([]domain.Response{}, f.byTicket[ticketID]...), nil
}

func (f *fakeResponseRepo) ListByTickets(_ context.Context, ticketIDs []string) (map[string][]domain.Response, error) {
	out := make(map[string][]domain.Response)
	for _, id := range ticketIDs {
		if responses, ok := f.byTicket[id]; ok {
			out[id] = append([]domain.Response{}, responses...)
		}
	}
	return out, nil
}

type fakeStatusChangeRepo struct {
	changes []domain.StatusChange
	clock   *fakeTicketRepo
}

func (f *fakeStatusChangeRepo) Create(_ context.Context, change *domain.StatusChange) error {
	id, at := f.clock.next()
	change.ID = id
	change.CreatedAt = at
	f.changes = append(f.changes, *change)
	return nil
}

func (f *fakeStatusChangeRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.StatusChange, error) {
	var out []domain.StatusChange
	for _, change := range f.changes {
		if change.TicketID == ticketID {
			out = append(out, change)
		}
	}
	return out, nil
}

type ticketFixture struct {
	service   *TicketService
	tickets   *fakeTicketRepo
	responses *fakeResponseRepo
	changes   *fakeStatusChangeRepo
	published []events.Event
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	responses := newFakeResponseRepo(tickets)
	changes := &fakeStatusChangeRepo{clock: tickets}
	fixture := &ticketFixture{tickets: tickets, responses: responses, changes: changes}

	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, event events.Event) error {
		fixture.published = append(fixture.published, event)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, record)
	dispatcher.Subscribe(events.EventTicketStatusChanged, record)
	dispatcher.Subscribe(events.EventTicketResponseAdded, record)

	fixture.service = NewTicketService(TicketDependencies{
		TicketRepo:       tickets,
		ResponseRepo:     responses,
		StatusChangeRepo: changes,
		Dispatcher:       dispatcher,
	})
	return fixture
}

func (fx *ticketFixture) mustCreate(t *testing.T, userID string) *domain.Ticket {
	t.Helper()
	ticket, err := fx.service.CreateTicket(context.Background(), userID, TicketCreateInput{
		Subject:     "seats not released",
		Category:    "billing",
		Description: "my cancelled booking still holds seats",
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	return ticket
}

func errorCode(t *testing.T, err error) string {
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

func TestCreateTicketForcesOpen(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("new ticket status = %s, want OPEN", ticket.Status)
	}
	if ticket.ID == "" || ticket.CreatedAt.IsZero() {
		t.Fatal("store must assign ID and timestamps")
	}
	if len(fx.published) != 1 || fx.published[0].Type != events.EventTicketCreated {
		t.Fatalf("expected one ticket_created event, got %v", fx.published)
	}
}

func TestCreateTicketRequiresSubjectAndDescription(t *testing.T) {
	fx := newTicketFixture(t)
	_, err := fx.service.CreateTicket(context.Background(), "user-1", TicketCreateInput{Subject: "  ", Description: "x"})
	if code := errorCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s, want VALIDATION_FAILED", code)
	}
}

func TestAddResponseRejectsEmptyMessage(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	_, _, err := fx.service.AddResponse(context.Background(), "user-1", domain.ResponderUser, ticket.ID, "   \n\t ")
	if code := errorCode(t, err); code != "EMPTY_MESSAGE" {
		t.Fatalf("code = %s, want EMPTY_MESSAGE", code)
	}
	if fx.responses.createCalls != 0 {
		t.Fatal("an empty message must be rejected before any store call")
	}
}

func TestAddResponseUnknownTicket(t *testing.T) {
	fx := newTicketFixture(t)
	_, _, err := fx.service.AddResponse(context.Background(), "user-1", domain.ResponderUser, "missing", "hello")
	if code := errorCode(t, err); code != "TICKET_NOT_FOUND" {
		t.Fatalf("code = %s, want TICKET_NOT_FOUND", code)
	}
}

func TestAddResponseClosedTicket(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	forceStatus(fx, ticket.ID, domain.TicketStatusClosed)

	_, _, err := fx.service.AddResponse(context.Background(), "user-1", domain.ResponderUser, ticket.ID, "still broken")
	if code := errorCode(t, err); code != "TICKET_CLOSED" {
		t.Fatalf("code = %s, want TICKET_CLOSED", code)
	}
	if fx.responses.createCalls != 0 {
		t.Fatal("closed tickets must not accept responses")
	}
}

func TestAddResponseEnforcesOwnership(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	_, _, err := fx.service.AddResponse(context.Background(), "user-2", domain.ResponderUser, ticket.ID, "mine now")
	if code := errorCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s, want FORBIDDEN", code)
	}
}

func TestUserReplyKeepsStatus(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	thread, activity, err := fx.service.AddResponse(context.Background(), "user-1", domain.ResponderUser, ticket.ID, "any update?")
	if err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	if thread.Ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", thread.Ticket.Status)
	}
	if !activity.HasUnread || activity.UnreadCount != 1 {
		t.Fatalf("activity = %+v, want one unread", activity)
	}
}

func TestAdminReplyAutoAdvancesOpenTicket(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	thread, activity, err := fx.service.AddResponse(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, "looking into it")
	if err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	if thread.Ticket.Status != domain.TicketStatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS after first admin reply", thread.Ticket.Status)
	}
	if activity.HasUnread {
		t.Fatalf("admin reply should clear unread state, got %+v", activity)
	}
	if len(fx.changes.changes) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(fx.changes.changes))
	}
	change := fx.changes.changes[0]
	if change.FromStatus != domain.TicketStatusOpen || change.ToStatus != domain.TicketStatusInProgress {
		t.Fatalf("audit entry %+v", change)
	}
}

func TestAdminReplyDoesNotAdvanceResolvedTicket(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	forceStatus(fx, ticket.ID, domain.TicketStatusResolved)

	thread, _, err := fx.service.AddResponse(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, "confirming the fix")
	if err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	if thread.Ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("status = %s, want RESOLVED", thread.Ticket.Status)
	}
}

func TestChangeStatusApplied(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	updated, outcome, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusResolved)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if outcome != domain.TransitionApplied {
		t.Fatalf("outcome = %s, want APPLIED", outcome)
	}
	if updated.Status != domain.TicketStatusResolved {
		t.Fatalf("status = %s, want RESOLVED", updated.Status)
	}
	if len(fx.changes.changes) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(fx.changes.changes))
	}
}

func TestChangeStatusRedundantIsIgnored(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	updated, outcome, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusOpen)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if outcome != domain.TransitionIgnored {
		t.Fatalf("outcome = %s, want IGNORED", outcome)
	}
	if updated.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN", updated.Status)
	}
	if fx.tickets.updateCalls != 0 {
		t.Fatal("ignored transitions must not touch the store")
	}
}

func TestChangeStatusBackwardsIsIgnored(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	forceStatus(fx, ticket.ID, domain.TicketStatusResolved)
	fx.tickets.updateCalls = 0

	_, outcome, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if outcome != domain.TransitionIgnored {
		t.Fatalf("outcome = %s, want IGNORED", outcome)
	}
	if fx.tickets.updateCalls != 0 {
		t.Fatal("backwards transitions must not touch the store")
	}
}

func TestChangeStatusLeavingClosedIsRejected(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	forceStatus(fx, ticket.ID, domain.TicketStatusClosed)
	fx.tickets.updateCalls = 0

	_, outcome, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusOpen)
	if code := errorCode(t, err); code != "TICKET_CLOSED" {
		t.Fatalf("code = %s, want TICKET_CLOSED", code)
	}
	if outcome != domain.TransitionRejected {
		t.Fatalf("outcome = %s, want REJECTED", outcome)
	}
	if fx.tickets.updateCalls != 0 {
		t.Fatal("rejected transitions must not touch the store")
	}
}

func TestChangeStatusUnknownValue(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	_, _, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, "ARCHIVED")
	if code := errorCode(t, err); code != "INVALID_STATUS_TRANSITION" {
		t.Fatalf("code = %s, want INVALID_STATUS_TRANSITION", code)
	}
	if fx.tickets.getCalls != 0 {
		t.Fatal("unknown status values are rejected before any store read")
	}
}

func TestReadRetriesOnceOnTransientFailure(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	fx.tickets.getFailures = 1
	fx.tickets.getCalls = 0

	thread, _, err := fx.service.GetTicketThread(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetTicketThread: %v", err)
	}
	if thread.Ticket.ID != ticket.ID {
		t.Fatalf("thread ticket = %s, want %s", thread.Ticket.ID, ticket.ID)
	}
	if fx.tickets.getCalls != 2 {
		t.Fatalf("getCalls = %d, want 2 (one retry)", fx.tickets.getCalls)
	}
}

func TestReadGivesUpAfterSecondFailure(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	fx.tickets.getFailures = 2

	_, _, err := fx.service.GetTicketThread(context.Background(), ticket.ID)
	if code := errorCode(t, err); code != "STORE_UNAVAILABLE" {
		t.Fatalf("code = %s, want STORE_UNAVAILABLE", code)
	}
}

func TestFailedAppendIsNotRetried(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")
	fx.responses.createFailures = 1

	_, _, err := fx.service.AddResponse(context.Background(), "user-1", domain.ResponderUser, ticket.ID, "hello")
	if code := errorCode(t, err); code != "STORE_UNAVAILABLE" {
		t.Fatalf("code = %s, want STORE_UNAVAILABLE", code)
	}
	if fx.responses.createCalls != 1 {
		t.Fatalf("createCalls = %d; mutations must never be blind-retried", fx.responses.createCalls)
	}
	if len(fx.responses.byTicket[ticket.ID]) != 0 {
		t.Fatal("failed append must not leave a response behind")
	}
}

func TestAmbiguousStatusWriteIsVerifiedByReRead(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	// the store reports failure but the write actually landed
	fx.tickets.updateFailures = 1
	fx.tickets.updateLands = true

	updated, outcome, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("ChangeStatus should succeed when the re-read confirms the write: %v", err)
	}
	if outcome != domain.TransitionApplied || updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("outcome=%s status=%s", outcome, updated.Status)
	}
	if fx.tickets.updateCalls != 1 {
		t.Fatalf("updateCalls = %d; the mutation itself must not be retried", fx.tickets.updateCalls)
	}
}

func TestAmbiguousStatusWriteThatDidNotLandFails(t *testing.T) {
	fx := newTicketFixture(t)
	ticket := fx.mustCreate(t, "user-1")

	fx.tickets.updateFailures = 1
	fx.tickets.updateLands = false

	_, _, err := fx.service.ChangeStatus(context.Background(), "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusInProgress)
	if code := errorCode(t, err); code != "STORE_UNAVAILABLE" {
		t.Fatalf("code = %s, want STORE_UNAVAILABLE", code)
	}
	if got := fx.tickets.tickets[ticket.ID].Status; got != domain.TicketStatusOpen {
		t.Fatalf("status = %s, want OPEN untouched", got)
	}
}

func TestListTicketsDerivesActivity(t *testing.T) {
	fx := newTicketFixture(t)
	requester := "user-1"
	ticket := fx.mustCreate(t, requester)
	fx.mustCreate(t, "user-2")

	overviews, err := fx.service.ListTickets(context.Background(), TicketListFilter{RequesterID: &requester})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("len = %d, want 1", len(overviews))
	}
	if overviews[0].Ticket.ID != ticket.ID {
		t.Fatalf("ticket = %s, want %s", overviews[0].Ticket.ID, ticket.ID)
	}
	if !overviews[0].Activity.HasUnread || overviews[0].Activity.UnreadCount != 1 {
		t.Fatalf("activity = %+v, want the fresh description counted as unread", overviews[0].Activity)
	}
}

func TestListTicketsRetriesOnce(t *testing.T) {
	fx := newTicketFixture(t)
	fx.mustCreate(t, "user-1")
	fx.tickets.listFailures = 1

	overviews, err := fx.service.ListTickets(context.Background(), TicketListFilter{})
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(overviews) != 1 {
		t.Fatalf("len = %d, want 1", len(overviews))
	}
}

func TestDashboardSummary(t *testing.T) {
	fx := newTicketFixture(t)
	fx.mustCreate(t, "user-1")
	second := fx.mustCreate(t, "user-2")
	if _, _, err := fx.service.AddResponse(context.Background(), "admin-1", domain.ResponderAdmin, second.ID, "on it"); err != nil {
		t.Fatalf("AddResponse: %v", err)
	}

	summary, err := fx.service.DashboardSummary(context.Background())
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("Total = %d, want 2", summary.Total)
	}
	if summary.ByStatus[domain.TicketStatusOpen] != 1 || summary.ByStatus[domain.TicketStatusInProgress] != 1 {
		t.Fatalf("ByStatus = %v", summary.ByStatus)
	}
	if summary.WithUnread != 1 || summary.NeedsAttention != 1 {
		t.Fatalf("summary = %+v, want exactly the untouched open ticket flagged", summary)
	}
}

// Full lifecycle: open, first admin reply auto-advances, user follow-ups
// accumulate unread, resolve, close, then nothing else moves.
func TestTicketLifecycle(t *testing.T) {
	fx := newTicketFixture(t)
	ctx := context.Background()
	ticket := fx.mustCreate(t, "user-1")

	_, activity, err := fx.service.GetTicketThread(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("GetTicketThread: %v", err)
	}
	if !activity.HasUnread || activity.UnreadCount != 1 || !activity.NeedsAttention {
		t.Fatalf("fresh open ticket activity = %+v", activity)
	}

	thread, activity, err := fx.service.AddResponse(ctx, "admin-1", domain.ResponderAdmin, ticket.ID, "investigating")
	if err != nil {
		t.Fatalf("admin reply: %v", err)
	}
	if thread.Ticket.Status != domain.TicketStatusInProgress || activity.HasUnread {
		t.Fatalf("after admin reply: status=%s activity=%+v", thread.Ticket.Status, activity)
	}

	if _, _, err := fx.service.AddResponse(ctx, "user-1", domain.ResponderUser, ticket.ID, "still happening"); err != nil {
		t.Fatalf("user reply: %v", err)
	}
	_, activity, err = fx.service.AddResponse(ctx, "user-1", domain.ResponderUser, ticket.ID, "any news?")
	if err != nil {
		t.Fatalf("user reply: %v", err)
	}
	if activity.UnreadCount != 2 {
		t.Fatalf("unread = %d, want 2 trailing user messages", activity.UnreadCount)
	}

	if _, _, err := fx.service.ChangeStatus(ctx, "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, _, err := fx.service.ChangeStatus(ctx, "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, _, err := fx.service.AddResponse(ctx, "user-1", domain.ResponderUser, ticket.ID, "reopening?"); err == nil {
		t.Fatal("closed ticket accepted a response")
	}
	if _, _, err := fx.service.ChangeStatus(ctx, "admin-1", domain.ResponderAdmin, ticket.ID, domain.TicketStatusOpen); err == nil {
		t.Fatal("closed ticket accepted a status change")
	}

	history, err := fx.service.ListStatusChanges(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("ListStatusChanges: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("audit entries = %d, want 3 (auto advance, resolve, close)", len(history))
	}
	if history[0].Note != "first admin reply" {
		t.Fatalf("first entry should record the automatic advance, got %+v", history[0])
	}
}

func forceStatus(fx *ticketFixture, ticketID string, status domain.TicketStatus) {
	ticket := fx.tickets.tickets[ticketID]
	ticket.Status = status
	fx.tickets.tickets[ticketID] = ticket
}
