package agenda

import "context"

// Generator derives a next-meeting agenda from the current transcript and,
// when available, the most recent prior minutes.
type Generator interface {
	Next(ctx context.Context, transcript, priorMinutes string) (string, error)
}
