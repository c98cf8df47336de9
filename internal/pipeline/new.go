package pipeline

import (
	"github.com/minutesflow/minutes-flow/internal/agenda"
	"github.com/minutesflow/minutes-flow/internal/config"
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/internal/provider"
	"github.com/minutesflow/minutes-flow/internal/segmenter"
	"github.com/minutesflow/minutes-flow/internal/store"
	"github.com/minutesflow/minutes-flow/internal/summarizer"
	"github.com/minutesflow/minutes-flow/pkg/executor"
)

type implPipeline struct {
	cfg        *config.Config
	executor   executor.Executor
	segmenter  segmenter.Segmenter
	providers  []provider.Provider
	summarizer summarizer.Summarizer
	agenda     agenda.Generator
	store      store.Store
	logger     logger.Logger
}

// New creates a Pipeline. providers[0] is the primary; any further
// providers run the same segments side by side for comparison.
func New(
	cfg *config.Config,
	exec executor.Executor,
	seg segmenter.Segmenter,
	providers []provider.Provider,
	sum summarizer.Summarizer,
	gen agenda.Generator,
	st store.Store,
	log logger.Logger,
) Pipeline {
	return &implPipeline{
		cfg:        cfg,
		executor:   exec,
		segmenter:  seg,
		providers:  providers,
		summarizer: sum,
		agenda:     gen,
		store:      st,
		logger:     log,
	}
}
