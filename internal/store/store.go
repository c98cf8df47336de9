package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Save appends one minutes record, auto-timestamped
func (s *implStore) Save(ctx context.Context, title, transcript, minutesMD string) error {
	now := float64(time.Now().UnixNano()) / 1e9

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO minutes (id, title, transcript, minutes_md, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), title, transcript, minutesMD, now)
	if err != nil {
		return fmt.Errorf("insert minutes: %w", err)
	}
	return nil
}

// FetchLatest returns the most recently created record, or nil when the
// store is empty.
func (s *implStore) FetchLatest(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, transcript, minutes_md, created_at
		FROM minutes
		ORDER BY created_at DESC
		LIMIT 1
	`)

	var rec Record
	var createdAt float64
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Transcript, &rec.MinutesMD, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan minutes record: %w", err)
	}
	rec.CreatedAt = timeFromUnix(createdAt)

	return &rec, nil
}

// FetchAll returns every record, newest first
func (s *implStore) FetchAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, transcript, minutes_md, created_at
		FROM minutes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query minutes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt float64
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Transcript, &rec.MinutesMD, &createdAt); err != nil {
			return nil, fmt.Errorf("scan minutes record: %w", err)
		}
		rec.CreatedAt = timeFromUnix(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *implStore) Close() error {
	return s.db.Close()
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
