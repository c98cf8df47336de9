package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Providers   ProvidersConfig   `yaml:"providers"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Audio       AudioConfig       `yaml:"audio"`
	Summary     SummaryConfig     `yaml:"summary"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ProvidersConfig struct {
	Primary string `yaml:"primary"`
	Compare bool   `yaml:"compare"`
}

type OpenAIConfig struct {
	TranscribeModel string `yaml:"transcribe_model"`
	ChatModel       string `yaml:"chat_model"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type AudioConfig struct {
	Language          string `yaml:"language"`
	MaxSegmentSeconds int    `yaml:"max_segment_seconds"`
}

type SummaryConfig struct {
	ChunkChars int `yaml:"chunk_chars"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Temp     string `yaml:"temp"`
	Database string `yaml:"database"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads a YAML config file and applies validation and defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Providers.Primary {
	case "openai", "gemini":
	case "":
		return fmt.Errorf("providers.primary is required")
	default:
		return fmt.Errorf("providers.primary must be 'openai' or 'gemini', got %q", c.Providers.Primary)
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Paths.Database == "" {
		return fmt.Errorf("paths.database is required")
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.OpenAI.TranscribeModel == "" {
		c.OpenAI.TranscribeModel = "gpt-4o-mini-transcribe"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Audio.Language == "" {
		c.Audio.Language = "ja"
	}
	if c.Audio.MaxSegmentSeconds == 0 {
		c.Audio.MaxSegmentSeconds = 1200
	}
	if c.Summary.ChunkChars == 0 {
		c.Summary.ChunkChars = 6000
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
