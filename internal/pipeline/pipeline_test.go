package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minutesflow/minutes-flow/internal/agenda"
	"github.com/minutesflow/minutes-flow/internal/config"
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/internal/provider"
	"github.com/minutesflow/minutes-flow/internal/segmenter"
	"github.com/minutesflow/minutes-flow/internal/store"
	"github.com/minutesflow/minutes-flow/internal/summarizer"
)

// fakeSegmenter writes one file per text into a fresh directory
type fakeSegmenter struct {
	texts []string
	err   error

	lastDir string
}

func (f *fakeSegmenter) Split(ctx context.Context, audioPath string, maxSegmentSeconds int) ([]segmenter.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	dir, err := os.MkdirTemp("", "fake-segments-*")
	if err != nil {
		return nil, err
	}
	f.lastDir = dir

	segments := make([]segmenter.Segment, len(f.texts))
	for i, text := range f.texts {
		path := filepath.Join(dir, fmt.Sprintf("segment_%03d.mp3", i))
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return nil, err
		}
		segments[i] = segmenter.Segment{Index: i, Path: path, DurationHint: float64(maxSegmentSeconds)}
	}
	return segments, nil
}

// fakeProvider transcribes by reading the segment file's bytes as text
type fakeProvider struct {
	name         string
	failOnText   string // segment content that fails transcription
	failComplete bool
	completeOut  string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Transcribe(ctx context.Context, audioPath string, language string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	text := string(data)
	if f.failOnText != "" && text == f.failOnText {
		return "", errors.New("provider timeout")
	}
	return text, nil
}

func (f *fakeProvider) Complete(ctx context.Context, req provider.CompleteRequest) (string, error) {
	if f.failComplete {
		return "", errors.New("model unavailable")
	}
	if f.completeOut != "" {
		return f.completeOut, nil
	}
	return "- generated bullets", nil
}

// memStore is an in-memory Store
type memStore struct {
	records []store.Record
}

func (m *memStore) Save(ctx context.Context, title, transcript, minutesMD string) error {
	m.records = append(m.records, store.Record{
		Title:      title,
		Transcript: transcript,
		MinutesMD:  minutesMD,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (m *memStore) FetchLatest(ctx context.Context) (*store.Record, error) {
	if len(m.records) == 0 {
		return nil, nil
	}
	rec := m.records[len(m.records)-1]
	return &rec, nil
}

func (m *memStore) FetchAll(ctx context.Context) ([]store.Record, error) {
	return m.records, nil
}

func (m *memStore) Close() error { return nil }

type noExecutor struct{}

func (noExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", errors.New("no external commands in this test")
}

func (noExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return "", errors.New("no external commands in this test")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Providers: config.ProvidersConfig{Primary: "openai"},
		Paths: config.PathsConfig{
			Output:   t.TempDir(),
			Temp:     t.TempDir(),
			Database: "unused",
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config, seg segmenter.Segmenter, provs []provider.Provider, st store.Store) Pipeline {
	t.Helper()
	log := logger.New("error")
	return New(cfg, noExecutor{}, seg, provs,
		summarizer.New(provs[0], log, cfg.Summary.ChunkChars),
		agenda.New(provs[0], log),
		st, log)
}

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	seg := &fakeSegmenter{texts: []string{"A", "B", "C"}}
	prov := &fakeProvider{name: "openai", completeOut: "- summary"}
	st := &memStore{}

	p := newTestPipeline(t, cfg, seg, []provider.Provider{prov}, st)
	result, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Transcript != "A\nB\nC" {
		t.Errorf("Transcript = %q, want %q", result.Transcript, "A\nB\nC")
	}
	if !strings.Contains(result.MinutesMD, "- summary") {
		t.Errorf("MinutesMD = %q", result.MinutesMD)
	}
	if result.AgendaMD == "" {
		t.Error("AgendaMD empty with withAgenda=true")
	}

	if len(st.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(st.records))
	}
	if st.records[0].Transcript != "A\nB\nC" {
		t.Errorf("stored transcript = %q", st.records[0].Transcript)
	}

	// All segment files and their directory must be gone
	if _, err := os.Stat(seg.lastDir); !os.IsNotExist(err) {
		t.Errorf("segment dir still exists: %v", err)
	}
}

func TestRunPartialTranscriptionFailure(t *testing.T) {
	cfg := testConfig(t)
	seg := &fakeSegmenter{texts: []string{"A", "B", "C"}}
	prov := &fakeProvider{name: "openai", failOnText: "B"}
	st := &memStore{}

	p := newTestPipeline(t, cfg, seg, []provider.Provider{prov}, st)
	result, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(result.Transcript, "\n")
	if len(lines) != 3 {
		t.Fatalf("transcript has %d lines, want 3", len(lines))
	}
	if lines[0] != "A" || lines[2] != "C" {
		t.Errorf("surviving fragments wrong: %q", lines)
	}
	if !strings.Contains(lines[1], "provider timeout") {
		t.Errorf("failed segment marker missing: %q", lines[1])
	}
}

func TestRunComparisonModeIsolatesProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.Compare = true
	seg := &fakeSegmenter{texts: []string{"A", "B"}}
	primary := &fakeProvider{name: "openai"}
	secondary := &fakeProvider{name: "gemini", failOnText: "A"}
	st := &memStore{}

	p := newTestPipeline(t, cfg, seg, []provider.Provider{primary, secondary}, st)
	result, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Transcripts["openai"] != "A\nB" {
		t.Errorf("primary transcript = %q, polluted by secondary failure", result.Transcripts["openai"])
	}
	if !strings.Contains(result.Transcripts["gemini"], "provider timeout") {
		t.Errorf("secondary transcript missing its own failure marker: %q", result.Transcripts["gemini"])
	}
	if result.Transcript != result.Transcripts["openai"] {
		t.Error("primary transcript not used for the run result")
	}
}

func TestRunSegmentationErrorIsFatal(t *testing.T) {
	cfg := testConfig(t)
	seg := &fakeSegmenter{err: errors.New("segment audio: broken container")}
	st := &memStore{}

	p := newTestPipeline(t, cfg, seg, []provider.Provider{&fakeProvider{name: "openai"}}, st)
	if _, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", false); err == nil {
		t.Fatal("Run() should fail on segmentation error")
	}
	if len(st.records) != 0 {
		t.Error("nothing should be saved after a segmentation error")
	}
}

func TestRunMinutesFailureDoesNotBlockAgenda(t *testing.T) {
	cfg := testConfig(t)
	seg := &fakeSegmenter{texts: []string{"A"}}
	transcriber := &fakeProvider{name: "openai"}
	st := &memStore{}

	log := logger.New("error")
	failing := &fakeProvider{name: "openai", failComplete: true}
	p := New(cfg, noExecutor{}, seg, []provider.Provider{transcriber},
		summarizer.New(failing, log, cfg.Summary.ChunkChars),
		agenda.New(transcriber, log),
		st, log)

	result, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", true)
	if err == nil {
		t.Fatal("Run() should report the summarization failure")
	}
	if result == nil {
		t.Fatal("Run() should still return a result")
	}
	if result.AgendaMD == "" {
		t.Error("agenda should be generated despite minutes failure")
	}
	if len(st.records) != 0 {
		t.Error("failed minutes must not be saved")
	}
}

func TestRunUsesPriorMinutesForAgenda(t *testing.T) {
	cfg := testConfig(t)
	seg := &fakeSegmenter{texts: []string{"A"}}
	prov := &fakeProvider{name: "openai"}
	st := &memStore{}
	if err := st.Save(context.Background(), "前回", "t", "# 前回議事録"); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, cfg, seg, []provider.Provider{prov}, st)
	if _, err := p.Run(context.Background(), writeAudio(t, "meeting.mp3"), "定例会議", true); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// This run appended a second record; the prior one must still be first
	if len(st.records) != 2 {
		t.Fatalf("store has %d records, want 2", len(st.records))
	}
}
