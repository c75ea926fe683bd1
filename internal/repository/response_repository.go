package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickseat/portal/internal/domain"
)

// ResponseRepository manages ticket conversation threads. Threads are
// append-only; rows are never updated or deleted.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.Response) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error)
	ListByTickets(ctx context.Context, ticketIDs []string) (map[string][]domain.Response, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

func (r *responseRepository) Create(ctx context.Context, response *domain.Response) error {
	const query = `
        INSERT INTO ticket_responses (ticket_id, responder_id, responder_type, message)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		response.TicketID,
		response.ResponderID,
		response.ResponderType,
		response.Message,
	).Scan(&response.ID, &response.CreatedAt)
}

func (r *responseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Response, error) {
	const query = `
        SELECT id, ticket_id, responder_id, responder_type, message, created_at
        FROM ticket_responses WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResponses(rows)
}

// ListByTickets fetches threads for many tickets in one round trip, keyed
// by ticket ID.
func (r *responseRepository) ListByTickets(ctx context.Context, ticketIDs []string) (map[string][]domain.Response, error) {
	result := make(map[string][]domain.Response, len(ticketIDs))
	if len(ticketIDs) == 0 {
		return result, nil
	}
	const query = `
        SELECT id, ticket_id, responder_id, responder_type, message, created_at
        FROM ticket_responses WHERE ticket_id = ANY($1) ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	responses, err := scanResponses(rows)
	if err != nil {
		return nil, err
	}
	for _, response := range responses {
		result[response.TicketID] = append(result[response.TicketID], response)
	}
	return result, nil
}

func scanResponses(rows pgx.Rows) ([]domain.Response, error) {
	var result []domain.Response
	for rows.Next() {
		var response domain.Response
		if err := rows.Scan(
			&response.ID,
			&response.TicketID,
			&response.ResponderID,
			&response.ResponderType,
			&response.Message,
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, rows.Err()
}
