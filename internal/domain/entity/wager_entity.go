package entity

import "time"

// Outcome is the settled (or pending) result of a wager.
type Outcome string

const (
	OutcomeWon     Outcome = "WON"
	OutcomeLost    Outcome = "LOST"
	OutcomePending Outcome = "PENDING"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeWon || o == OutcomeLost || o == OutcomePending
}

// Wager is a single bet record. It has exactly one owner, set at creation
// and immutable afterwards; there are no update or delete operations.
//
// OccurredAt may lie in the future: a pending wager on an upcoming event
// is a valid record.
type Wager struct {
	ID            string
	Category      string
	Event         string
	Amount        float64
	Outcome       Outcome
	OccurredAt    time.Time
	OwnerID       string
	OwnerUsername string
	CreatedAt     time.Time
}
