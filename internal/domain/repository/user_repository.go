package repository

import (
	"context"

	"github.com/betaware/betaware-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts a new user. A uniqueness collision surfaces as a
	// *DuplicateError naming the colliding field.
	Create(ctx context.Context, u *entity.User) error

	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*entity.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}
