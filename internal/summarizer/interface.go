package summarizer

import "context"

// Summarizer reduces a long transcript into structured minutes
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	GenerateMinutes(ctx context.Context, title, transcript string) (string, error)
}
