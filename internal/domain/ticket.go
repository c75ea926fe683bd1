package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket is the aggregate for support requests. Subject, category and
// description are fixed at creation; only the status and the response
// thread change afterwards, and nothing changes once the ticket is closed.
type Ticket struct {
	ID          string
	RequesterID string
	Subject     string
	Category    string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Closed reports whether the ticket has reached its terminal state.
func (t *Ticket) Closed() bool {
	return t.Status == TicketStatusClosed
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// allowedTransitions captures the forward-only status graph. Closed is
// terminal: nothing leaves it.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// CanTransition reports whether current may legally advance to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionOutcome classifies a requested status change.
type TransitionOutcome string

const (
	// TransitionApplied means the request is legal and should be persisted.
	TransitionApplied TransitionOutcome = "APPLIED"
	// TransitionIgnored means the request is redundant or would move the
	// status backwards; it is dropped without error.
	TransitionIgnored TransitionOutcome = "IGNORED"
	// TransitionRejected means the request would leave the Closed state,
	// which is never permitted silently.
	TransitionRejected TransitionOutcome = "REJECTED"
)

// EvaluateTransition decides how a status change request is handled.
// Re-declaring the current status and skipping backwards are ignored
// no-ops; any attempt to move a closed ticket elsewhere is rejected.
func EvaluateTransition(current, next TicketStatus) TransitionOutcome {
	if current == next {
		return TransitionIgnored
	}
	if current == TicketStatusClosed {
		return TransitionRejected
	}
	if !CanTransition(current, next) {
		return TransitionIgnored
	}
	return TransitionApplied
}
