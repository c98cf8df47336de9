package pipeline

import "context"

// Result holds everything one pipeline run produced
type Result struct {
	Title       string
	Transcript  string            // primary provider's transcript
	Transcripts map[string]string // per provider name, comparison mode
	MinutesMD   string
	AgendaMD    string
}

// Pipeline defines the interface for one audio-to-minutes run
type Pipeline interface {
	Run(ctx context.Context, audioPath, title string, withAgenda bool) (*Result, error)
}
