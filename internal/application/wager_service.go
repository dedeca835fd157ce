package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/betaware/betaware-api/internal/domain/entity"
	repo "github.com/betaware/betaware-api/internal/domain/repository"
)

var (
	// ErrForbidden signals a caller without the role a query requires.
	ErrForbidden = errors.New("operation not allowed for this role")

	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidOutcome = errors.New("outcome must be WON, LOST or PENDING")
	ErrMissingField   = errors.New("category and event are required")
)

// WagerService applies the record-access policy on top of the wager store:
// creates are always owned by the caller, "my" listings are always filtered
// to the caller, and the global date-range listing requires the ADMIN role.
type WagerService struct {
	Wagers  repo.WagerRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewWagerService(wagers repo.WagerRepository, users repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *WagerService {
	return &WagerService{Wagers: wagers, Users: users, Logger: logger, ES: es, ESIndex: esIndex}
}

type CreateWagerInput struct {
	Category   string
	Event      string
	Amount     float64
	Outcome    entity.Outcome
	OccurredAt time.Time
}

// Create stores a new wager owned by the caller. The owner is the resolved
// identity unconditionally; there is no way to create a wager on behalf of
// another user. Validation happens before any storage access.
func (s *WagerService) Create(ctx context.Context, ownerUsername string, in CreateWagerInput) (*entity.Wager, error) {
	if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Event) == "" {
		return nil, ErrMissingField
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !in.Outcome.Valid() {
		return nil, ErrInvalidOutcome
	}

	owner, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	w := &entity.Wager{
		Category:      in.Category,
		Event:         in.Event,
		Amount:        in.Amount,
		Outcome:       in.Outcome,
		OccurredAt:    in.OccurredAt,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
	}
	if err := s.Wagers.Create(ctx, w); err != nil {
		return nil, err
	}

	s.indexWager(ctx, w)
	return w, nil
}

// ListMine returns every wager owned by the caller, and nothing else.
func (s *WagerService) ListMine(ctx context.Context, username string) ([]entity.Wager, error) {
	owner, err := s.resolveOwner(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Wagers.ListByOwner(ctx, owner.ID)
}

// ListMineBetween returns the caller's wagers whose occurrence falls in
// [from, to].
func (s *WagerService) ListMineBetween(ctx context.Context, username string, from, to time.Time) ([]entity.Wager, error) {
	owner, err := s.resolveOwner(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.Wagers.ListByOwnerBetween(ctx, owner.ID, from, to)
}

// ListAllBetween returns every user's wagers in [from, to]. The global
// range listing requires the ADMIN role.
func (s *WagerService) ListAllBetween(ctx context.Context, role entity.Role, from, to time.Time) ([]entity.Wager, error) {
	if role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.Wagers.ListBetween(ctx, from, to)
}

// resolveOwner maps the token subject back to a stored identity. A token
// whose subject no longer exists fails here rather than at verification
// time, which stays pure. Store failures propagate unchanged.
func (s *WagerService) resolveOwner(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// indexWager pushes the wager document to Elasticsearch. Best-effort: an
// indexing failure is logged and never fails the create.
func (s *WagerService) indexWager(ctx context.Context, w *entity.Wager) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          w.ID,
		"category":    w.Category,
		"event":       w.Event,
		"amount":      w.Amount,
		"outcome":     w.Outcome,
		"occurred_at": w.OccurredAt.Format(time.RFC3339Nano),
		"username":    w.OwnerUsername,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: w.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("wager_id", w.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("wager_id", w.ID).Warn("es index response error")
	}
}

// Search performs a multi_match query on category and event. ADMIN only,
// same gate as the global date-range listing.
func (s *WagerService) Search(ctx context.Context, role entity.Role, q string, size int) ([]map[string]any, error) {
	if role != entity.RoleAdmin {
		return nil, ErrForbidden
	}
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"category^2", "event"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
