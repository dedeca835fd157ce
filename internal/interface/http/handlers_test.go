package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betaware/betaware-api/internal/application"
	"github.com/betaware/betaware-api/internal/domain/entity"
	repo "github.com/betaware/betaware-api/internal/domain/repository"
	"github.com/betaware/betaware-api/internal/interface/middleware"
	"github.com/betaware/betaware-api/pkg/helpers"
	"github.com/betaware/betaware-api/pkg/validation"
)

var setupOnce sync.Once

type memUserRepo struct {
	users map[string]*entity.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) add(u *entity.User) {
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *u
	r.users[u.Username] = &clone
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range r.users {
		switch {
		case ex.Username == u.Username:
			return &repo.DuplicateError{Field: "username"}
		case ex.Email == u.Email:
			return &repo.DuplicateError{Field: "email"}
		case ex.NationalID == u.NationalID:
			return &repo.DuplicateError{Field: "national_id"}
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.add(u)
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if u, ok := r.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) GetByNationalID(_ context.Context, nationalID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.NationalID == nationalID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	for _, u := range r.users {
		if u.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

var _ repo.UserRepository = (*memUserRepo)(nil)

type memWagerRepo struct {
	wagers []entity.Wager
	seq    int
}

func (r *memWagerRepo) Create(_ context.Context, w *entity.Wager) error {
	r.seq++
	w.ID = fmt.Sprintf("wager-%d", r.seq)
	w.CreatedAt = time.Now()
	r.wagers = append(r.wagers, *w)
	return nil
}

func (r *memWagerRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWagerRepo) ListByOwnerBetween(_ context.Context, ownerID string, from, to time.Time) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if w.OwnerID == ownerID && !w.OccurredAt.Before(from) && !w.OccurredAt.After(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memWagerRepo) ListBetween(_ context.Context, from, to time.Time) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if !w.OccurredAt.Before(from) && !w.OccurredAt.After(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

var _ repo.WagerRepository = (*memWagerRepo)(nil)

// testEnv wires real services and handlers over in-memory stores, with
// the same routes and auth middleware the server mounts.
type testEnv struct {
	router *gin.Engine
	users  *memUserRepo
	wagers *memWagerRepo
	jwt    *helpers.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	users := newMemUserRepo()
	wagers := &memWagerRepo{}
	jwtm := helpers.NewJWTManager("test-secret", time.Hour)

	authSvc := application.NewAuthService(users, jwtm, nil, nil, nil, false)
	wagerSvc := application.NewWagerService(wagers, users, nil, nil, "")

	authH := NewAuthHandler(authSvc, nil)
	wagerH := NewWagerHandler(wagerSvc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	wg := api.Group("/wagers", middleware.Auth(jwtm))
	wg.POST("", wagerH.Create)
	wg.GET("", wagerH.List)
	wg.GET("/mine", wagerH.ListMineBetween)
	wg.GET("/period", wagerH.ListAllBetween)
	wg.GET("/search", wagerH.Search)

	return &testEnv{router: r, users: users, wagers: wagers, jwt: jwtm}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors the uniform response shape for assertions.
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func (e *testEnv) register(t *testing.T, username, email, nationalID string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":    username,
		"name":        "Test User",
		"national_id": nationalID,
		"postal_code": "12345678",
		"address":     "Rua Exemplo, 123",
		"password":    "senha123",
		"email":       email,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}
}

func (e *testEnv) tokenFor(t *testing.T, username string) string {
	t.Helper()
	u, ok := e.users.users[username]
	if !ok {
		t.Fatalf("no such user %q", username)
	}
	token, _, err := e.jwt.GenerateToken(u.Username, string(u.Role))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}
