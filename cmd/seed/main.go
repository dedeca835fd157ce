package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/betaware/betaware-api/config"
	"github.com/betaware/betaware-api/pkg/helpers"
)

// Seeds an admin, a demo user, and a few sample wagers. Best-effort and
// idempotent: reruns update nothing meaningful and failures only log.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := seedUser(db, "admin", "Administrator", "12345678901", "12345678", "Rua Exemplo, 123", "admin@betaware.com", "senha123", "ADMIN")
	userID := seedUser(db, "usuario1", "Demo User", "98765432109", "87654321", "Av Principal, 456", "usuario@betaware.com", "senha123", "USER")
	if adminID == "" || userID == "" {
		return
	}

	var wagerCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM wagers WHERE user_id = $1`, userID).Scan(&wagerCount); err != nil {
		log.Printf("failed to count wagers: %v", err)
		return
	}
	if wagerCount > 0 {
		log.Println("sample wagers already present, skipping")
		return
	}

	now := time.Now()
	seedWager(db, userID, "Soccer", "Flamengo x Vasco", 100.0, "WON", now.AddDate(0, 0, -3))
	seedWager(db, userID, "Basketball", "Lakers x Bulls", 50.0, "LOST", now.AddDate(0, 0, -2))
	seedWager(db, userID, "Soccer", "Brazil x Argentina", 200.0, "PENDING", now.AddDate(0, 0, 2))

	fmt.Println("seed completed")
}

func seedUser(db *sql.DB, username, name, nationalID, postalCode, address, email, password, role string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Printf("failed to hash password for %s: %v", username, err)
		return ""
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, name, national_id, postal_code, address, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (username) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, username, name, nationalID, postalCode, address, email, hash, role).Scan(&id)
	if err != nil {
		log.Printf("failed to seed user %s: %v", username, err)
		return ""
	}
	fmt.Printf("seeded user: id=%s username=%s role=%s\n", id, username, role)
	return id
}

func seedWager(db *sql.DB, userID, category, event string, amount float64, outcome string, occurredAt time.Time) {
	if _, err := db.Exec(`
		INSERT INTO wagers (category, event, amount, outcome, occurred_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, category, event, amount, outcome, occurredAt, userID); err != nil {
		log.Printf("failed to seed wager %q: %v", event, err)
		return
	}
	fmt.Printf("seeded wager: %s (%s)\n", event, outcome)
}
