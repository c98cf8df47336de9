package segmenter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Split cuts the audio into consecutive non-overlapping segments of at most
// maxSegmentSeconds. The sample data is stream-copied when the container
// allows it; re-encoding is the fallback. On any failure the partial segment
// directory is removed and no segment list is returned.
func (s *implSegmenter) Split(ctx context.Context, audioPath string, maxSegmentSeconds int) ([]Segment, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("segment audio: source not readable: %w", err)
	}

	totalSeconds := s.probeDuration(ctx, audioPath)

	segDir, err := os.MkdirTemp(s.tempDir, "segments-*")
	if err != nil {
		return nil, fmt.Errorf("segment audio: create segment dir: %w", err)
	}

	absAudio, err := filepath.Abs(audioPath)
	if err != nil {
		os.RemoveAll(segDir)
		return nil, fmt.Errorf("segment audio: %w", err)
	}

	ext := filepath.Ext(audioPath)
	if ext == "" {
		ext = ".mp3"
	}

	s.logger.Info(ctx, "Splitting audio into %ds segments: %s", maxSegmentSeconds, audioPath)

	// Stream copy first, re-encode only if the container refuses
	copyArgs := []string{
		"-i", absAudio,
		"-f", "segment",
		"-segment_time", strconv.Itoa(maxSegmentSeconds),
		"-c", "copy",
		"-y",
		"segment_%03d" + ext,
	}
	if _, err := s.executor.ExecuteInDir(ctx, segDir, "ffmpeg", copyArgs...); err != nil {
		s.logger.Warn(ctx, "Stream copy split failed, re-encoding: %v", err)

		encodeArgs := []string{
			"-i", absAudio,
			"-f", "segment",
			"-segment_time", strconv.Itoa(maxSegmentSeconds),
			"-c:a", "libmp3lame",
			"-q:a", "2",
			"-y",
			"segment_%03d.mp3",
		}
		if _, err := s.executor.ExecuteInDir(ctx, segDir, "ffmpeg", encodeArgs...); err != nil {
			os.RemoveAll(segDir)
			return nil, fmt.Errorf("segment audio: ffmpeg split: %w", err)
		}
	}

	segments, err := s.collectSegments(segDir, maxSegmentSeconds, totalSeconds)
	if err != nil {
		os.RemoveAll(segDir)
		return nil, fmt.Errorf("segment audio: %w", err)
	}

	s.logger.Info(ctx, "Produced %d segments in %s", len(segments), segDir)
	return segments, nil
}

// collectSegments lists the segment files in name order and numbers them
// 0..N-1. ffmpeg's %03d pattern makes lexical order temporal order.
func (s *implSegmenter) collectSegments(segDir string, maxSegmentSeconds int, totalSeconds float64) ([]Segment, error) {
	entries, err := os.ReadDir(segDir)
	if err != nil {
		return nil, fmt.Errorf("read segment dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "segment_") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no segments")
	}
	sort.Strings(names)

	segments := make([]Segment, len(names))
	for i, name := range names {
		hint := float64(maxSegmentSeconds)
		if i == len(names)-1 && totalSeconds > 0 {
			if rest := totalSeconds - float64(i*maxSegmentSeconds); rest > 0 && rest < hint {
				hint = rest
			}
		}
		segments[i] = Segment{
			Index:        i,
			Path:         filepath.Join(segDir, name),
			DurationHint: hint,
		}
	}

	return segments, nil
}

// probeDuration returns the source duration in seconds, or 0 when ffprobe
// is unavailable or the container hides it.
func (s *implSegmenter) probeDuration(ctx context.Context, audioPath string) float64 {
	out, err := s.executor.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	if err != nil {
		s.logger.Warn(ctx, "ffprobe duration failed: %v", err)
		return 0
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		s.logger.Debug(ctx, "ffprobe returned unparseable duration: %q", out)
		return 0
	}
	return seconds
}
