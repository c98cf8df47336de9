package summarizer

import (
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/internal/provider"
)

type implSummarizer struct {
	provider   provider.Provider
	logger     logger.Logger
	chunkChars int
}

// New creates a Summarizer with the given per-chunk character budget
func New(p provider.Provider, log logger.Logger, chunkChars int) Summarizer {
	if chunkChars <= 0 {
		chunkChars = 6000
	}
	return &implSummarizer{
		provider:   p,
		logger:     log,
		chunkChars: chunkChars,
	}
}
