package domain

import "time"

// StaleAfter is the age past which an unanswered ticket is surfaced on the
// admin dashboard even when it has left the Open state.
const StaleAfter = 24 * time.Hour

// ThreadActivity is the derived notification state for one ticket. It is
// never persisted; callers recompute it from a fresh read every time.
type ThreadActivity struct {
	HasUnread      bool
	UnreadCount    int
	NeedsAttention bool
}

// EvaluateThread derives unread and needs-attention state from a ticket's
// status and its response thread.
//
// A ticket with no responses counts as one unread item while it is still
// Open: the original description is itself awaiting a first reply. With
// responses present, the thread is unread exactly when the latest entry
// came from the requester, and the unread count is the trailing run of
// consecutive user responses no admin has answered yet.
func EvaluateThread(ticket Ticket, responses []Response, now time.Time) ThreadActivity {
	var activity ThreadActivity

	if len(responses) == 0 {
		if ticket.Status == TicketStatusOpen {
			activity.HasUnread = true
			activity.UnreadCount = 1
		}
	} else {
		ordered := SortResponses(responses)
		if ordered[len(ordered)-1].ResponderType == ResponderUser {
			activity.HasUnread = true
			for i := len(ordered) - 1; i >= 0; i-- {
				if ordered[i].ResponderType != ResponderUser {
					break
				}
				activity.UnreadCount++
			}
		}
	}

	if activity.HasUnread && (ticket.Status == TicketStatusOpen || now.Sub(ticket.CreatedAt) > StaleAfter) {
		activity.NeedsAttention = true
	}
	return activity
}

// TicketThread pairs a ticket with its full conversation.
type TicketThread struct {
	Ticket    Ticket
	Responses []Response
}

// AttentionSummary aggregates derived notification state across the whole
// ticket collection for dashboard display.
type AttentionSummary struct {
	Total          int
	ByStatus       map[TicketStatus]int
	WithUnread     int
	NeedsAttention int
}

// Summarize folds EvaluateThread over every ticket. It is a stateless
// reduction recomputed on each read, so it cannot drift from the store.
func Summarize(threads []TicketThread, now time.Time) AttentionSummary {
	summary := AttentionSummary{
		ByStatus: make(map[TicketStatus]int),
	}
	for _, thread := range threads {
		summary.Total++
		summary.ByStatus[thread.Ticket.Status]++
		activity := EvaluateThread(thread.Ticket, thread.Responses, now)
		if activity.HasUnread {
			summary.WithUnread++
		}
		if activity.NeedsAttention {
			summary.NeedsAttention++
		}
	}
	return summary
}
