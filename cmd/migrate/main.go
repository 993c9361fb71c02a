package main

import (
	"context"
	"log"
	"os"

	"github.com/protokol-hq/protokol-backend/internal/store"
)

// One-shot schema initialization for deployments that create tables ahead of
// the first server start. The server runs the same idempotent statements on
// boot, so this is optional.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := store.Open(dsn)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()

	log.Println("Applying schema...")
	if err := store.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("error applying schema: %v", err)
	}
	log.Println("Schema applied successfully")
}
