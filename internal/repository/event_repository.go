package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickseat/portal/internal/domain"
)

// EventFilter captures event listing parameters.
type EventFilter struct {
	VenueID       *string
	Category      *string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (venue_id, name, category, description, starts_at, capacity, price_cents, published)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.VenueID,
		event.Name,
		event.Category,
		event.Description,
		event.StartsAt,
		event.Capacity,
		event.PriceCents,
		event.Published,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET venue_id=$1, name=$2, category=$3, description=$4, starts_at=$5,
            capacity=$6, price_cents=$7, published=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		event.VenueID,
		event.Name,
		event.Category,
		event.Description,
		event.StartsAt,
		event.Capacity,
		event.PriceCents,
		event.Published,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `
        SELECT id, venue_id, name, category, description, starts_at, capacity, price_cents, published, created_at, updated_at
        FROM events WHERE id=$1`
	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.VenueID,
		&event.Name,
		&event.Category,
		&event.Description,
		&event.StartsAt,
		&event.Capacity,
		&event.PriceCents,
		&event.Published,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	base := `SELECT id, venue_id, name, category, description, starts_at, capacity, price_cents, published, created_at, updated_at
             FROM events`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.VenueID != nil {
		args = append(args, *filter.VenueID)
		clauses = append(clauses, fmt.Sprintf("venue_id=$%d", len(args)))
	}
	if filter.Category != nil && strings.TrimSpace(*filter.Category) != "" {
		args = append(args, strings.TrimSpace(*filter.Category))
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "published=TRUE")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.VenueID,
			&event.Name,
			&event.Category,
			&event.Description,
			&event.StartsAt,
			&event.Capacity,
			&event.PriceCents,
			&event.Published,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
