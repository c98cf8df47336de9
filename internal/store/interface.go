package store

import (
	"context"
	"time"
)

// Record is one stored minutes document. Records are immutable after
// creation; "latest" queries order by CreatedAt descending.
type Record struct {
	ID         string
	Title      string
	Transcript string
	MinutesMD  string
	CreatedAt  time.Time
}

// Store is the append-only minutes archive
type Store interface {
	Save(ctx context.Context, title, transcript, minutesMD string) error
	FetchLatest(ctx context.Context) (*Record, error)
	FetchAll(ctx context.Context) ([]Record, error)
	Close() error
}
