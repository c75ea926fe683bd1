package domain

import "time"

// StatusChange is an immutable audit entry recorded for every applied
// ticket status transition. Tickets are retained after closure, so the
// trail stays queryable for the ticket's full history.
type StatusChange struct {
	ID         string
	TicketID   string
	ActorID    string
	ActorRole  ResponderType
	FromStatus TicketStatus
	ToStatus   TicketStatus
	Note       string
	CreatedAt  time.Time
}
