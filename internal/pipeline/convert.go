package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// prepareAudio converts containers the speech APIs reject. Currently only
// m4a needs a pass through ffmpeg; everything else is segmented as-is.
// Conversion state is recorded on the run context so the temporary copy can
// be reclaimed after segmentation.
func (p *implPipeline) prepareAudio(ctx context.Context, rc *runContext, audioPath string) (string, error) {
	if strings.ToLower(filepath.Ext(audioPath)) != ".m4a" {
		return audioPath, nil
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	outPath := filepath.Join(rc.workDir, base+".mp3")

	p.logger.Info(ctx, "Converting m4a to mp3: %s", audioPath)

	args := []string{
		"-y",
		"-i", audioPath,
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		outPath,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert m4a: %w", err)
	}

	rc.converted = true
	return outPath, nil
}
