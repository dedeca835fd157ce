package repository

import (
	"context"
	"time"

	"github.com/betaware/betaware-api/internal/domain/entity"
)

// WagerRepository defines the interface for wager persistence.
// The ownership filter is decided by the caller (authorization policy);
// the store only executes the query it is given.
type WagerRepository interface {
	Create(ctx context.Context, w *entity.Wager) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Wager, error)
	ListByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]entity.Wager, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]entity.Wager, error)
}
