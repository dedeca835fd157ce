package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/betaware/betaware-api/internal/domain/entity"
	repo "github.com/betaware/betaware-api/internal/domain/repository"
)

type stubWagerRepo struct {
	wagers  []entity.Wager
	creates int
	seq     int
}

func (r *stubWagerRepo) Create(_ context.Context, w *entity.Wager) error {
	r.creates++
	r.seq++
	w.ID = fmt.Sprintf("wager-%d", r.seq)
	w.CreatedAt = time.Now()
	r.wagers = append(r.wagers, *w)
	return nil
}

func (r *stubWagerRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *stubWagerRepo) ListByOwnerBetween(_ context.Context, ownerID string, from, to time.Time) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if w.OwnerID == ownerID && inRange(w.OccurredAt, from, to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *stubWagerRepo) ListBetween(_ context.Context, from, to time.Time) ([]entity.Wager, error) {
	out := []entity.Wager{}
	for _, w := range r.wagers {
		if inRange(w.OccurredAt, from, to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

var _ repo.WagerRepository = (*stubWagerRepo)(nil)

func newWagerFixture(t *testing.T) (*WagerService, *stubWagerRepo, *stubUserRepo) {
	t.Helper()
	users := newStubUserRepo()
	users.add(&entity.User{Username: "alice", Email: "alice@example.com", NationalID: "11111111111", Role: entity.RoleUser})
	users.add(&entity.User{Username: "bob", Email: "bob@example.com", NationalID: "22222222222", Role: entity.RoleUser})
	wagers := &stubWagerRepo{}
	return NewWagerService(wagers, users, nil, nil, ""), wagers, users
}

func TestWagerService_Create_RoundTrip(t *testing.T) {
	svc, _, _ := newWagerFixture(t)
	occurred := time.Date(2026, 8, 15, 20, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), "alice", CreateWagerInput{
		Category:   "Soccer",
		Event:      "A x B",
		Amount:     100.0,
		Outcome:    entity.OutcomePending,
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
	if created.OwnerUsername != "alice" {
		t.Fatalf("expected owner alice, got %q", created.OwnerUsername)
	}

	list, err := svc.ListMine(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 wager, got %d", len(list))
	}
	got := list[0]
	if got.Category != "Soccer" || got.Event != "A x B" || got.Amount != 100.0 ||
		got.Outcome != entity.OutcomePending || !got.OccurredAt.Equal(occurred) {
		t.Fatalf("stored wager differs from input: %+v", got)
	}
}

func TestWagerService_Create_Validation(t *testing.T) {
	occurred := time.Now()
	cases := []struct {
		name string
		in   CreateWagerInput
		want error
	}{
		{"zero amount", CreateWagerInput{Category: "Soccer", Event: "A x B", Amount: 0, Outcome: entity.OutcomeWon, OccurredAt: occurred}, ErrInvalidAmount},
		{"negative amount", CreateWagerInput{Category: "Soccer", Event: "A x B", Amount: -5, Outcome: entity.OutcomeWon, OccurredAt: occurred}, ErrInvalidAmount},
		{"bad outcome", CreateWagerInput{Category: "Soccer", Event: "A x B", Amount: 10, Outcome: "MAYBE", OccurredAt: occurred}, ErrInvalidOutcome},
		{"blank category", CreateWagerInput{Category: "  ", Event: "A x B", Amount: 10, Outcome: entity.OutcomeWon, OccurredAt: occurred}, ErrMissingField},
		{"blank event", CreateWagerInput{Category: "Soccer", Event: "", Amount: 10, Outcome: entity.OutcomeWon, OccurredAt: occurred}, ErrMissingField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, wagers, _ := newWagerFixture(t)
			_, err := svc.Create(context.Background(), "alice", tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if wagers.creates != 0 {
				t.Fatalf("invalid input must not reach storage, creates=%d", wagers.creates)
			}
		})
	}
}

func TestWagerService_Create_UnknownOwner(t *testing.T) {
	svc, wagers, _ := newWagerFixture(t)

	_, err := svc.Create(context.Background(), "ghost", CreateWagerInput{
		Category: "Soccer", Event: "A x B", Amount: 10, Outcome: entity.OutcomeWon, OccurredAt: time.Now(),
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if wagers.creates != 0 {
		t.Fatal("create must not reach storage for an unknown owner")
	}
}

func TestWagerService_OwnerScoping(t *testing.T) {
	svc, _, _ := newWagerFixture(t)
	now := time.Now()

	mk := func(owner, event string) {
		t.Helper()
		_, err := svc.Create(context.Background(), owner, CreateWagerInput{
			Category: "Soccer", Event: event, Amount: 10, Outcome: entity.OutcomeWon, OccurredAt: now,
		})
		if err != nil {
			t.Fatalf("create for %s: %v", owner, err)
		}
	}
	mk("alice", "alice-1")
	mk("alice", "alice-2")
	mk("bob", "bob-1")

	aliceList, err := svc.ListMine(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListMine alice: %v", err)
	}
	if len(aliceList) != 2 {
		t.Fatalf("expected 2 wagers for alice, got %d", len(aliceList))
	}
	for _, w := range aliceList {
		if w.OwnerUsername != "alice" {
			t.Fatalf("foreign wager leaked into alice's listing: %+v", w)
		}
	}

	bobList, err := svc.ListMine(context.Background(), "bob")
	if err != nil {
		t.Fatalf("ListMine bob: %v", err)
	}
	if len(bobList) != 1 || bobList[0].Event != "bob-1" {
		t.Fatalf("unexpected listing for bob: %+v", bobList)
	}
}

func TestWagerService_ListMineBetween(t *testing.T) {
	svc, _, _ := newWagerFixture(t)
	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	for i, off := range []int{-5, 0, 5} {
		_, err := svc.Create(context.Background(), "alice", CreateWagerInput{
			Category: "Soccer", Event: fmt.Sprintf("event-%d", i), Amount: 10,
			Outcome: entity.OutcomePending, OccurredAt: base.AddDate(0, 0, off),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := svc.ListMineBetween(context.Background(), "alice", base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListMineBetween: %v", err)
	}
	if len(list) != 1 || list[0].Event != "event-1" {
		t.Fatalf("expected only the in-range wager, got %+v", list)
	}
}

func TestWagerService_ListAllBetween_AdminOnly(t *testing.T) {
	svc, _, _ := newWagerFixture(t)
	now := time.Now()

	for _, owner := range []string{"alice", "bob"} {
		_, err := svc.Create(context.Background(), owner, CreateWagerInput{
			Category: "Soccer", Event: owner + "-wager", Amount: 10,
			Outcome: entity.OutcomeWon, OccurredAt: now,
		})
		if err != nil {
			t.Fatalf("create for %s: %v", owner, err)
		}
	}

	if _, err := svc.ListAllBetween(context.Background(), entity.RoleUser, now.Add(-time.Hour), now.Add(time.Hour)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for USER, got %v", err)
	}

	list, err := svc.ListAllBetween(context.Background(), entity.RoleAdmin, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListAllBetween as ADMIN: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected wagers across owners, got %d", len(list))
	}
}

func TestWagerService_StoreFailureIsNotNotFound(t *testing.T) {
	wagers := &stubWagerRepo{}
	svc := NewWagerService(wagers, &downUserRepo{newStubUserRepo()}, nil, nil, "")

	_, err := svc.ListMine(context.Background(), "alice")
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("store failure must not masquerade as a missing user")
	}
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}

	_, err = svc.Create(context.Background(), "alice", CreateWagerInput{
		Category: "Soccer", Event: "A x B", Amount: 10, Outcome: entity.OutcomeWon, OccurredAt: time.Now(),
	})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
	if wagers.creates != 0 {
		t.Fatal("create must not reach storage when the owner lookup fails")
	}
}

func TestWagerService_Search_Gating(t *testing.T) {
	svc, _, _ := newWagerFixture(t)

	if _, err := svc.Search(context.Background(), entity.RoleUser, "soccer", 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for USER, got %v", err)
	}

	// No search backend wired: admin gets an empty result, not an error.
	hits, err := svc.Search(context.Background(), entity.RoleAdmin, "soccer", 10)
	if err != nil {
		t.Fatalf("Search as ADMIN: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty result without a backend, got %d hits", len(hits))
	}
}
