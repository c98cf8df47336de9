package pipeline

import (
	"context"
	"os"
)

// cleanupTempFile removes a temporary file or directory, logging on failure
func (p *implPipeline) cleanupTempFile(ctx context.Context, path string) {
	if err := os.RemoveAll(path); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp path %s: %v", path, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp path: %s", path)
	}
}

// cleanupRunDir removes the run's work directory on every exit path
func (p *implPipeline) cleanupRunDir(ctx context.Context, rc *runContext) {
	if rc.workDir == "" {
		return
	}
	p.cleanupTempFile(ctx, rc.workDir)
}
