package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/heartlab/heartgame/storage/db"
	_ "modernc.org/sqlite"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var testMigrations embed.FS

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB() (*sql.DB, *db.Queries, func(), error) {
	database, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}

	goose.SetBaseFS(testMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(database, "migrations"); err != nil {
		database.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	queries := db.New(database)

	cleanup := func() {
		database.Close()
	}

	return database, queries, cleanup, nil
}

// NewTestStorage wraps NewTestDB in a Storage for service-level tests
func NewTestStorage() (*Storage, func(), error) {
	database, queries, cleanup, err := NewTestDB()
	if err != nil {
		return nil, nil, err
	}

	return &Storage{db: database, Queries: queries}, cleanup, nil
}
