package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickseat/portal/internal/domain"
)

// VenueRepository encapsulates venue persistence.
type VenueRepository interface {
	Create(ctx context.Context, venue *domain.Venue) error
	Update(ctx context.Context, venue *domain.Venue) error
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	List(ctx context.Context, limit, offset int) ([]domain.Venue, error)
}

type venueRepository struct {
	pool *pgxpool.Pool
}

// NewVenueRepository instantiates repository.
func NewVenueRepository(pool *pgxpool.Pool) VenueRepository {
	return &venueRepository{pool: pool}
}

func (r *venueRepository) Create(ctx context.Context, venue *domain.Venue) error {
	const query = `
        INSERT INTO venues (name, address, city, capacity)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		venue.Name,
		venue.Address,
		venue.City,
		venue.Capacity,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

func (r *venueRepository) Update(ctx context.Context, venue *domain.Venue) error {
	const query = `
        UPDATE venues SET name=$1, address=$2, city=$3, capacity=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		venue.Name,
		venue.Address,
		venue.City,
		venue.Capacity,
		venue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	const query = `
        SELECT id, name, address, city, capacity, created_at, updated_at
        FROM venues WHERE id=$1`
	var venue domain.Venue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Address,
		&venue.City,
		&venue.Capacity,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, name, address, city, capacity, created_at, updated_at
        FROM venues ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Venue
	for rows.Next() {
		var venue domain.Venue
		if err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Address,
			&venue.City,
			&venue.Capacity,
			&venue.CreatedAt,
			&venue.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, venue)
	}
	return result, rows.Err()
}
