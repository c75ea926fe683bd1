package dto

import (
	"time"

	"github.com/quickseat/portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CreateResponseRequest payload.
type CreateResponseRequest struct {
	Message string `json:"message"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response for list views, carrying derived unread state.
type TicketSummary struct {
	ID             string              `json:"id"`
	Subject        string              `json:"subject"`
	Category       string              `json:"category"`
	Status         domain.TicketStatus `json:"status"`
	HasUnread      bool                `json:"has_unread"`
	UnreadCount    int                 `json:"unread_count"`
	NeedsAttention bool                `json:"needs_attention"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info with the ordered thread.
type TicketDetailResponse struct {
	ID             string                 `json:"id"`
	RequesterID    string                 `json:"requester_id"`
	Subject        string                 `json:"subject"`
	Category       string                 `json:"category"`
	Description    string                 `json:"description"`
	Status         domain.TicketStatus    `json:"status"`
	HasUnread      bool                   `json:"has_unread"`
	UnreadCount    int                    `json:"unread_count"`
	NeedsAttention bool                   `json:"needs_attention"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Responses      []ResponseView         `json:"responses"`
	StatusHistory  []StatusChangeResponse `json:"status_history,omitempty"`
}

// ResponseView represents one thread message.
type ResponseView struct {
	ID            string               `json:"id"`
	ResponderID   string               `json:"responder_id"`
	ResponderType domain.ResponderType `json:"responder_type"`
	Message       string               `json:"message"`
	CreatedAt     time.Time            `json:"created_at"`
}

// StatusChangeResponse represents one audit trail entry.
type StatusChangeResponse struct {
	ID         string               `json:"id"`
	ActorID    string               `json:"actor_id"`
	ActorRole  domain.ResponderType `json:"actor_role"`
	FromStatus domain.TicketStatus  `json:"from_status"`
	ToStatus   domain.TicketStatus  `json:"to_status"`
	Note       string               `json:"note,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ChangeStatusResponse reports the outcome of a status change request.
type ChangeStatusResponse struct {
	Outcome domain.TransitionOutcome `json:"outcome"`
	Ticket  TicketSummary            `json:"ticket"`
}
