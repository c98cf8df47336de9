package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minutesflow/minutes-flow/internal/transcript"
)

// runContext carries run-scoped state through the call chain. Each run gets
// its own work directory; nothing here survives the run.
type runContext struct {
	workDir   string
	converted bool
}

// Run executes the full audio-to-minutes pipeline: convert if needed,
// segment, transcribe per segment, assemble, then summarize and (optionally)
// generate the next-meeting agenda. Minutes and agenda failures are
// independent: one stage failing does not suppress the other's output.
func (p *implPipeline) Run(ctx context.Context, audioPath, title string, withAgenda bool) (*Result, error) {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting minutes run: %s", audioPath)
	p.logger.Info(ctx, "========================================")

	workDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "run-*")
	if err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	rc := &runContext{workDir: workDir}
	defer p.cleanupRunDir(ctx, rc)

	prepared, err := p.prepareAudio(ctx, rc, audioPath)
	if err != nil {
		return nil, fmt.Errorf("prepare audio: %w", err)
	}

	segments, err := p.segmenter.Split(ctx, prepared, p.cfg.Audio.MaxSegmentSeconds)
	if err != nil {
		return nil, err
	}
	// Segments are on disk now; the unsegmented temporary copy has served
	// its purpose.
	if rc.converted {
		p.cleanupTempFile(ctx, prepared)
	}
	defer p.cleanupTempFile(ctx, filepath.Dir(segments[0].Path))

	fragments := p.transcribeSegments(ctx, segments)

	result := &Result{
		Title:       title,
		Transcripts: make(map[string]string, len(p.providers)),
	}
	for i, prov := range p.providers {
		result.Transcripts[prov.Name()] = transcript.Assemble(fragments[i])
	}
	result.Transcript = result.Transcripts[p.providers[0].Name()]

	// Latest prior minutes are read before this run appends its own record
	var priorMinutes string
	prior, err := p.store.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest minutes: %w", err)
	}
	if prior != nil {
		priorMinutes = prior.MinutesMD
	}

	var minutesErr, agendaErr error

	result.MinutesMD, minutesErr = p.summarizer.GenerateMinutes(ctx, title, result.Transcript)
	if minutesErr != nil {
		p.logger.Error(ctx, "Minutes generation failed: %v", minutesErr)
	} else if err := p.store.Save(ctx, title, result.Transcript, result.MinutesMD); err != nil {
		minutesErr = fmt.Errorf("save minutes: %w", err)
	}

	if withAgenda {
		result.AgendaMD, agendaErr = p.agenda.Next(ctx, result.Transcript, priorMinutes)
		if agendaErr != nil {
			p.logger.Error(ctx, "Agenda generation failed: %v", agendaErr)
		}
	}

	p.logger.Info(ctx, "Run completed in %s (%d segments, %d provider(s))",
		time.Since(startTime), len(segments), len(p.providers))

	return result, errors.Join(minutesErr, agendaErr)
}
