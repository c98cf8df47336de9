package provider

import (
	"context"
	"errors"
)

// ErrEmptyTranscript is returned when a provider call succeeds but yields no
// usable text. A silent or garbled segment must surface as a failure rather
// than disappear from the transcript.
var ErrEmptyTranscript = errors.New("transcription returned empty text")

// CompleteRequest carries one generation request across the language-model
// boundary. Exact prompt assembly is up to each provider.
type CompleteRequest struct {
	Instruction  string
	Content      string
	PriorContext string
}

// Provider is a pluggable speech-to-text and text-generation backend
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, language string) (string, error)
	Complete(ctx context.Context, req CompleteRequest) (string, error)
}
