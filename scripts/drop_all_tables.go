package main

import (
	"database/sql"
	"fmt"
	"log"

	"loomspace/internal/config"
	"loomspace/internal/repository/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.SupabaseDBURL == "" {
		log.Fatal("SUPABASE_DB_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop tables in prod")
	}

	db, err := sql.Open("pgx", cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	tables := postgres.NewTableNames(cfg.TablePrefix)
	for _, stmt := range postgres.DropStatements(tables) {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
