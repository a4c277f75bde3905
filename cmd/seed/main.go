// Seeds a demo user with a handful of tasks for local development.
package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/taskhive/taskhive/config"
	"github.com/taskhive/taskhive/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	email := "demo@example.com"
	password := "password123"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s password=%s\n", id, username, password)

	// tasks have no natural key, so re-running must not append duplicates
	var existing int
	if err := db.QueryRow(`SELECT count(*) FROM tasks WHERE owner_id = $1`, id).Scan(&existing); err != nil {
		log.Fatalf("failed to count tasks: %v", err)
	}
	if existing > 0 {
		fmt.Printf("user %d already has %d tasks; skipping task seed\n", id, existing)
		return
	}

	seedTasks := []struct {
		title, description, status string
	}{
		{"Try the API", "Log in and list your tasks", "To do"},
		{"Read the docs", "Skim the endpoint table", "Doing"},
		{"Set up the indexer", "Run cmd/indexer against a local Elasticsearch", "To do"},
	}
	for _, t := range seedTasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (owner_id, title, description, status)
			VALUES ($1, $2, $3, $4)
		`, id, t.title, t.description, t.status); err != nil {
			log.Fatalf("failed to seed task: %v", err)
		}
	}
	fmt.Printf("seeded %d tasks for user %d\n", len(seedTasks), id)
}
