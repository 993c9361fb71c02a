// Package testdb provides in-memory sqlite fixtures for store and handler
// tests. The stores bind all timestamps and ranges in Go and use plain $n
// placeholders, so the same SQL runs under sqlite and Postgres.
package testdb

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE expense_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount REAL NOT NULL,
		date DATE NOT NULL,
		payment_method TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'not_ordered',
		self_paid BOOLEAN NOT NULL DEFAULT FALSE,
		comment TEXT,
		file_name TEXT,
		file_size TEXT,
		file_type TEXT,
		file_data TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT,
		telegram_id INTEGER,
		avatar_url TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
}

// New opens a fresh in-memory database with the full schema. The connection
// pool is pinned to one connection because every sqlite :memory: connection
// is its own database.
func New(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create test schema: %v", err)
		}
	}
	return db
}
