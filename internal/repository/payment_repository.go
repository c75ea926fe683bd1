package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickseat/portal/internal/domain"
)

// PaymentRepository encapsulates payment record persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (booking_id, amount_cents, method, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		payment.BookingID,
		payment.AmountCents,
		payment.Method,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	const query = `UPDATE payments SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Payment, error) {
	const query = `
        SELECT id, booking_id, amount_cents, method, status, created_at, updated_at
        FROM payments WHERE booking_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.BookingID,
			&payment.AmountCents,
			&payment.Method,
			&payment.Status,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
