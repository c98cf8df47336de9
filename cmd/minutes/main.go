package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/minutesflow/minutes-flow/internal/agenda"
	"github.com/minutesflow/minutes-flow/internal/config"
	"github.com/minutesflow/minutes-flow/internal/logger"
	"github.com/minutesflow/minutes-flow/internal/pipeline"
	"github.com/minutesflow/minutes-flow/internal/provider"
	"github.com/minutesflow/minutes-flow/internal/segmenter"
	"github.com/minutesflow/minutes-flow/internal/store"
	"github.com/minutesflow/minutes-flow/internal/summarizer"
	"github.com/minutesflow/minutes-flow/internal/watcher"
	"github.com/minutesflow/minutes-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	audioPath := flag.String("audio", "", "audio file to process")
	title := flag.String("title", "", "meeting title (default: timestamped)")
	withAgenda := flag.Bool("agenda", true, "generate next-meeting agenda")
	watchMode := flag.Bool("watch", false, "watch the input directory for new recordings")
	history := flag.Bool("history", false, "list stored minutes and exit")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Minutes Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Primary provider: %s (compare: %v)", cfg.Providers.Primary, cfg.Providers.Compare)
	log.Info(ctx, "Language: %s, segment window: %ds", cfg.Audio.Language, cfg.Audio.MaxSegmentSeconds)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Paths.Database)
	if err != nil {
		log.Error(ctx, "Failed to open minutes store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	if *history {
		printHistory(ctx, st)
		return
	}

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		log.Error(ctx, "Failed to initialize providers: %v", err)
		os.Exit(1)
	}

	exec := executor.New()
	seg := segmenter.New(exec, log, cfg.Paths.Temp)
	sum := summarizer.New(providers[0], log, cfg.Summary.ChunkChars)
	gen := agenda.New(providers[0], log)
	pipe := pipeline.New(cfg, exec, seg, providers, sum, gen, st, log)

	if *watchMode {
		runWatch(ctx, cfg, pipe, log, *withAgenda)
		return
	}

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: minutes -audio <file> [-title <title>] [-agenda] or minutes -watch")
		os.Exit(1)
	}

	if err := runOnce(ctx, cfg, pipe, log, *audioPath, *title, *withAgenda); err != nil {
		os.Exit(1)
	}
}

// runOnce processes a single recording and writes the artifacts
func runOnce(ctx context.Context, cfg *config.Config, pipe pipeline.Pipeline, log logger.Logger, audioPath, title string, withAgenda bool) error {
	if title == "" {
		title = time.Now().Format("2006-01-02 15:04") + " の会議"
	}

	result, err := pipe.Run(ctx, audioPath, title, withAgenda)
	if err != nil && result == nil {
		log.Error(ctx, "Run failed: %v", err)
		return err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	stamp := time.Now().Format("20060102-1504")

	if result.MinutesMD != "" {
		mdPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("%s_%s_minutes.md", base, stamp))
		if werr := os.WriteFile(mdPath, []byte(result.MinutesMD), 0644); werr != nil {
			log.Error(ctx, "Failed to write minutes: %v", werr)
		} else {
			log.Info(ctx, "Minutes written: %s", mdPath)
		}

		docxPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("%s_%s_minutes.docx", base, stamp))
		if werr := summarizer.WriteDocx(title, result.MinutesMD, docxPath); werr != nil {
			log.Warn(ctx, "Failed to write docx: %v", werr)
		} else {
			log.Info(ctx, "Minutes docx written: %s", docxPath)
		}
	}

	if result.AgendaMD != "" {
		agendaPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("%s_%s_agenda.md", base, stamp))
		if werr := os.WriteFile(agendaPath, []byte(result.AgendaMD), 0644); werr != nil {
			log.Error(ctx, "Failed to write agenda: %v", werr)
		} else {
			log.Info(ctx, "Agenda written: %s", agendaPath)
		}
	}

	if cfg.Providers.Compare {
		for name, tr := range result.Transcripts {
			trPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("%s_%s_transcript_%s.txt", base, stamp, name))
			if werr := os.WriteFile(trPath, []byte(tr), 0644); werr != nil {
				log.Warn(ctx, "Failed to write %s transcript: %v", name, werr)
			}
		}
	}

	if err != nil {
		log.Error(ctx, "Run completed with errors: %v", err)
		return err
	}
	return nil
}

// runWatch monitors the input directory until interrupted
func runWatch(ctx context.Context, cfg *config.Config, pipe pipeline.Pipeline, log logger.Logger, withAgenda bool) {
	handler := func(ctx context.Context, filePath string) error {
		title := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		return runOnce(ctx, cfg, pipe, log, filePath, title, withAgenda)
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	cancel()
	log.Info(ctx, "Pipeline stopped")
}

func printHistory(ctx context.Context, st store.Store) {
	records, err := st.FetchAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch minutes: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No minutes stored yet.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  (%s)\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.Title, rec.ID)
	}
}

// buildProviders returns the primary provider first, plus the other one in
// comparison mode. API keys come from the environment.
func buildProviders(ctx context.Context, cfg *config.Config) ([]provider.Provider, error) {
	names := []string{cfg.Providers.Primary}
	if cfg.Providers.Compare {
		if cfg.Providers.Primary == "openai" {
			names = append(names, "gemini")
		} else {
			names = append(names, "openai")
		}
	}

	providers := make([]provider.Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "openai":
			key := os.Getenv("OPENAI_API_KEY")
			if key == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY is not set")
			}
			providers = append(providers, provider.NewOpenAI(key, cfg.OpenAI.TranscribeModel, cfg.OpenAI.ChatModel))
		case "gemini":
			key := os.Getenv("GEMINI_API_KEY")
			if key == "" {
				return nil, fmt.Errorf("GEMINI_API_KEY is not set")
			}
			p, err := provider.NewGemini(ctx, key, cfg.Gemini.Model)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Temp,
		filepath.Dir(cfg.Paths.Database),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
