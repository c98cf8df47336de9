package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type implStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS minutes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	transcript TEXT NOT NULL,
	minutes_md TEXT NOT NULL,
	created_at REAL NOT NULL
)`

// Open opens (or creates) the minutes database at path
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create minutes table: %w", err)
	}

	return &implStore{db: db}, nil
}
