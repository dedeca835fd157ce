package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/betaware/betaware-api/internal/domain/entity"
	repo "github.com/betaware/betaware-api/internal/domain/repository"
	"github.com/betaware/betaware-api/pkg/helpers"
	"github.com/betaware/betaware-api/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// AuthService implements registration, credential verification, and token
// issuance.
type AuthService struct {
	Users       repo.UserRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:       users,
		JWT:         jwt,
		Redis:       rdb,
		Logger:      logger,
		Pub:         pub,
		MailEnabled: mailEnabled,
	}
}

type RegisterInput struct {
	Username   string
	Name       string
	NationalID string
	PostalCode string
	Address    string
	Password   string
	Email      string
}

// Register creates a new identity with the USER role.
//
// Username, email, and national ID are each checked for existing use before
// any write; a collision yields a *repository.DuplicateError naming the
// field. The storage-level unique constraints close the race a concurrent
// registration could otherwise win, and surface as the same error kind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	checks := []struct {
		field  string
		exists func(context.Context, string) (bool, error)
		value  string
	}{
		{"username", s.Users.ExistsByUsername, in.Username},
		{"email", s.Users.ExistsByEmail, in.Email},
		{"national_id", s.Users.ExistsByNationalID, in.NationalID},
	}
	for _, c := range checks {
		exists, err := c.exists(ctx, c.value)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &repo.DuplicateError{Field: c.field}
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Username:     in.Username,
		Name:         in.Name,
		NationalID:   in.NationalID,
		PostalCode:   in.PostalCode,
		Address:      in.Address,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.queueWelcomeEmail(ctx, u)
	return u, nil
}

// queueWelcomeEmail publishes a welcome email job. Best-effort: a publish
// failure is logged and never fails the registration.
func (s *AuthService) queueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name, "Username": u.Username},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Warn("welcome email publish failed")
	}
}

// Authenticate validates username/password and returns the user without
// issuing a token. Unknown user and bad password collapse into the same
// error; a store failure is not a credential problem and propagates as is.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Name      string
	Role      entity.Role
}

// Login verifies credentials and issues a signed token carrying the
// subject username and role claim. A session record is written to Redis
// for observability; token verification never reads it back.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.JWT.GenerateToken(u.Username, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", u.Username).Error("token generation failed")
		}
		return nil, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":   u.ID,
			"username":  u.Username,
			"name":      u.Name,
			"role":      string(u.Role),
			"logged_in": true,
			"login_at":  nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
	}, nil
}
