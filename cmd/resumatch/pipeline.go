package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/resumatch/resumatch/internal/analyzer"
	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/document"
	"github.com/resumatch/resumatch/internal/embedding"
	"github.com/resumatch/resumatch/internal/explain"
	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/match"
	"github.com/resumatch/resumatch/internal/scoring"
	"github.com/resumatch/resumatch/internal/vocab"
)

// pipeline bundles the locally constructed components a command needs.
type pipeline struct {
	analyzer  *analyzer.Analyzer
	extractor *extract.Extractor
	vocab     *vocab.Vocabulary
	provider  *embedding.OllamaProvider
}

func buildPipeline(cfg config.Config) (*pipeline, error) {
	v, err := vocab.Load()
	if err != nil {
		return nil, fmt.Errorf("loading skill vocabulary: %w", err)
	}
	extractor, err := extract.New(v, nil)
	if err != nil {
		return nil, fmt.Errorf("building extractor: %w", err)
	}

	provider := embedding.NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel)
	ensemble, err := embedding.NewEnsemble(provider)
	if err != nil {
		return nil, err
	}
	matcher := match.New(provider, cfg.Matching.Threshold)

	engine, err := scoring.NewEngine(cfg.Weights())
	if err != nil {
		return nil, fmt.Errorf("building scoring engine: %w", err)
	}
	enhanced, err := explain.NewEnhanced(engine.Weights())
	if err != nil {
		return nil, fmt.Errorf("building enhanced explainer: %w", err)
	}

	a, err := analyzer.New(extractor, matcher, ensemble, engine, explain.NewExplainer(), enhanced, slog.Default())
	if err != nil {
		return nil, err
	}
	return &pipeline{
		analyzer:  a,
		extractor: extractor,
		vocab:     v,
		provider:  provider,
	}, nil
}

// warmUp checks the embedding backend, pulling the model if needed.
// Startup continues on failure; analyses will error until the backend
// is reachable.
func (p *pipeline) warmUp(ctx context.Context) {
	if err := embedding.EnsureReady(ctx, p.provider, os.Stderr); err != nil {
		printWarning("embedding backend unavailable, analyses will fail until it is reachable: %v", err)
	}
}

// readInput loads text for a command argument. Values starting with "@"
// or naming an existing file are read as documents; anything else is
// treated as literal text.
func readInput(arg string) (string, error) {
	if strings.HasPrefix(arg, "@") {
		return document.ExtractText(arg[1:])
	}
	if _, err := os.Stat(arg); err == nil {
		return document.ExtractText(arg)
	}
	return arg, nil
}

func setupLogging(cfg config.Config) {
	level := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
