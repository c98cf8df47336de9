package segmenter

import (
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/pkg/executor"
)

type implSegmenter struct {
	executor executor.Executor
	logger   logger.Logger
	tempDir  string
}

// New creates a Segmenter that writes segment files under tempDir
func New(exec executor.Executor, log logger.Logger, tempDir string) Segmenter {
	return &implSegmenter{
		executor: exec,
		logger:   log,
		tempDir:  tempDir,
	}
}
