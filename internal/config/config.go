// Package config loads settings from a JSON config file with
// environment-variable overrides.
package config

import (
	"fmt"

	"github.com/resumatch/resumatch/internal/scoring"
)

type Config struct {
	Server   ServerConfig
	Ollama   OllamaConfig
	Storage  StorageConfig
	Matching MatchingConfig
	Scoring  ScoringConfig
	API      APIConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int
}

type OllamaConfig struct {
	BaseURL    string
	EmbedModel string
}

type StorageConfig struct {
	DataDir string
}

type MatchingConfig struct {
	Threshold float64
}

// ScoringConfig carries the component weights. They must sum to 1.0.
type ScoringConfig struct {
	Semantic   float64
	Skill      float64
	Experience float64
	Education  float64
	Keyword    float64
}

type APIConfig struct {
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	w := scoring.DefaultWeights()
	return Config{
		Server: ServerConfig{
			Port: 4500,
		},
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			EmbedModel: "nomic-embed-text",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Matching: MatchingConfig{
			Threshold: 0.7,
		},
		Scoring: ScoringConfig{
			Semantic:   w.Semantic,
			Skill:      w.Skill,
			Experience: w.Experience,
			Education:  w.Education,
			Keyword:    w.Keyword,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file at
// $XDG_CONFIG_HOME/resumatch/config.json, then applies RESUMATCH_*
// environment variable overrides. The API token is env-only.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Weights().Validate(); err != nil {
		return Config{}, fmt.Errorf("scoring weights: %w", err)
	}

	return cfg, nil
}

// Weights converts the configured scoring weights.
func (c Config) Weights() scoring.Weights {
	return scoring.Weights{
		Semantic:   c.Scoring.Semantic,
		Skill:      c.Scoring.Skill,
		Experience: c.Scoring.Experience,
		Education:  c.Scoring.Education,
		Keyword:    c.Scoring.Keyword,
	}
}
