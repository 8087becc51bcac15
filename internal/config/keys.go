package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "RESUMATCH_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "ollama.base_url", typ: kString, env: "RESUMATCH_OLLAMA_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.BaseURL },
	},
	{
		key: "ollama.embed_model", typ: kString, env: "RESUMATCH_OLLAMA_EMBED_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Ollama.EmbedModel = v.(string) },
		extract: func(cfg Config) any { return cfg.Ollama.EmbedModel },
	},
	{
		key: "storage.data_dir", typ: kString, env: "RESUMATCH_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "matching.threshold", typ: kFloat, env: "RESUMATCH_MATCHING_THRESHOLD",
		apply:   func(cfg *Config, v any) { cfg.Matching.Threshold = v.(float64) },
		extract: func(cfg Config) any { return cfg.Matching.Threshold },
	},
	{
		key: "scoring.semantic_weight", typ: kFloat, env: "RESUMATCH_SCORING_SEMANTIC_WEIGHT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Semantic = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Semantic },
	},
	{
		key: "scoring.skill_weight", typ: kFloat, env: "RESUMATCH_SCORING_SKILL_WEIGHT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Skill = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Skill },
	},
	{
		key: "scoring.experience_weight", typ: kFloat, env: "RESUMATCH_SCORING_EXPERIENCE_WEIGHT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Experience = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Experience },
	},
	{
		key: "scoring.education_weight", typ: kFloat, env: "RESUMATCH_SCORING_EDUCATION_WEIGHT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Education = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Education },
	},
	{
		key: "scoring.keyword_weight", typ: kFloat, env: "RESUMATCH_SCORING_KEYWORD_WEIGHT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Keyword = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Keyword },
	},
	{
		key: "api.token", typ: kString, env: "RESUMATCH_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.API.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.API.Token },
	},
	{
		key: "log.level", typ: kString, env: "RESUMATCH_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kFloat:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok && v != "" {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					s.apply(cfg, f)
				} else {
					fmt.Fprintf(os.Stderr, "[WARN] could not parse float from config key %s=%q: %v. Using default value.\n", s.key, v, err)
				}
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
