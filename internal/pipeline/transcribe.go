package pipeline

import (
	"context"
	"sync"

	"github.com/minutesflow/minutes-flow/internal/segmenter"
	"github.com/minutesflow/minutes-flow/internal/transcript"
)

// transcribeSegments fans segments out to bounded concurrent workers and
// returns one fragment list per provider. A provider error on one segment
// becomes a failed fragment for that provider only; the run never aborts
// here. Every segment file is removed once all providers have attempted it.
func (p *implPipeline) transcribeSegments(ctx context.Context, segments []segmenter.Segment) [][]transcript.Fragment {
	fragments := make([][]transcript.Fragment, len(p.providers))
	for i := range fragments {
		fragments[i] = make([]transcript.Fragment, len(segments))
	}

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var wg sync.WaitGroup

	for _, seg := range segments {
		if err := sem.acquire(ctx); err != nil {
			for pi := range p.providers {
				fragments[pi][seg.Index] = transcript.Fragment{Index: seg.Index, Err: err}
			}
			p.cleanupTempFile(ctx, seg.Path)
			continue
		}

		wg.Add(1)
		go func(seg segmenter.Segment) {
			defer wg.Done()
			defer sem.release()
			defer p.cleanupTempFile(ctx, seg.Path)

			for pi, prov := range p.providers {
				text, err := prov.Transcribe(ctx, seg.Path, p.cfg.Audio.Language)
				if err != nil {
					p.logger.Warn(ctx, "Segment %d failed on %s: %v", seg.Index, prov.Name(), err)
					fragments[pi][seg.Index] = transcript.Fragment{Index: seg.Index, Err: err}
					continue
				}
				fragments[pi][seg.Index] = transcript.Fragment{Index: seg.Index, Text: text}
			}
		}(seg)
	}

	wg.Wait()
	return fragments
}
