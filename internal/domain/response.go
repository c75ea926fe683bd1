package domain

import (
	"sort"
	"time"
)

// ResponderType identifies the author role of a response. It is a closed
// variant so thread logic can branch exhaustively.
type ResponderType string

const (
	ResponderUser  ResponderType = "USER"
	ResponderAdmin ResponderType = "ADMIN"
)

// ValidResponderType reports whether rt is a known responder role.
func ValidResponderType(rt ResponderType) bool {
	return rt == ResponderUser || rt == ResponderAdmin
}

// Response is one message in a ticket's conversation thread. Responses are
// append-only; the store assigns ID and CreatedAt.
type Response struct {
	ID            string
	TicketID      string
	ResponderID   string
	ResponderType ResponderType
	Message       string
	CreatedAt     time.Time
}

// SortResponses returns a copy of the thread ordered by creation time,
// oldest first. Timestamp ties are broken by response ID so the order is
// total regardless of how the store returned the rows.
func SortResponses(responses []Response) []Response {
	ordered := make([]Response, len(responses))
	copy(ordered, responses)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered
}
