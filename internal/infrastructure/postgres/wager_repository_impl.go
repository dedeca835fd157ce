package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betaware/betaware-api/internal/domain/entity"
	"github.com/betaware/betaware-api/internal/domain/repository"
)

type WagerRepository struct {
	pool *pgxpool.Pool
}

func NewWagerRepository(pool *pgxpool.Pool) *WagerRepository {
	return &WagerRepository{pool: pool}
}

const wagerSelect = `
	SELECT w.id, w.category, w.event, w.amount, w.outcome, w.occurred_at,
	       w.user_id, u.username, w.created_at
	FROM wagers w
	JOIN users u ON u.id = w.user_id
`

func (r *WagerRepository) Create(ctx context.Context, w *entity.Wager) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO wagers (category, event, amount, outcome, occurred_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, w.Category, w.Event, w.Amount, w.Outcome, w.OccurredAt, w.OwnerID)

	return row.Scan(&w.ID, &w.CreatedAt)
}

func (r *WagerRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Wager, error) {
	rows, err := r.pool.Query(ctx, wagerSelect+`
		WHERE w.user_id = $1
		ORDER BY w.occurred_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectWagers(rows)
}

func (r *WagerRepository) ListByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Wager, error) {
	rows, err := r.pool.Query(ctx, wagerSelect+`
		WHERE w.user_id = $1 AND w.occurred_at BETWEEN $2 AND $3
		ORDER BY w.occurred_at DESC
	`, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	return collectWagers(rows)
}

func (r *WagerRepository) ListBetween(ctx context.Context, from, to time.Time) ([]entity.Wager, error) {
	rows, err := r.pool.Query(ctx, wagerSelect+`
		WHERE w.occurred_at BETWEEN $1 AND $2
		ORDER BY w.occurred_at DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectWagers(rows)
}

func collectWagers(rows pgx.Rows) ([]entity.Wager, error) {
	defer rows.Close()
	out := []entity.Wager{}
	for rows.Next() {
		var w entity.Wager
		if err := rows.Scan(&w.ID, &w.Category, &w.Event, &w.Amount, &w.Outcome,
			&w.OccurredAt, &w.OwnerID, &w.OwnerUsername, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

var _ repository.WagerRepository = (*WagerRepository)(nil)
