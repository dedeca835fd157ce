package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/betaware/betaware-api/internal/domain/entity"
	"github.com/betaware/betaware-api/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, username, name, national_id, postal_code, address, email, password_hash, role, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, name, national_id, postal_code, address, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Name, u.NationalID, u.PostalCode, u.Address, u.Email, u.PasswordHash, u.Role)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		// Unique constraints are the backstop for concurrent registration
		// races; map them to the same duplicate kind as the pre-checks.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return &repository.DuplicateError{Field: fieldForConstraint(pgErr.ConstraintName)}
		}
		return err
	}
	return nil
}

func fieldForConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "national_id"):
		return "national_id"
	case strings.Contains(constraint, "email"):
		return "email"
	default:
		return "username"
	}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*entity.User, error) {
	return r.getBy(ctx, "national_id", nationalID)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE `+column+` = $1
	`, value)

	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.NationalID, &u.PostalCode, &u.Address,
		&u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "username", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "email", email)
}

func (r *UserRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return r.existsBy(ctx, "national_id", nationalID)
}

func (r *UserRepository) existsBy(ctx context.Context, column, value string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE `+column+` = $1)
	`, value).Scan(&exists)
	return exists, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
