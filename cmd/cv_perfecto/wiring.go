package main

import (
	"context"
	"fmt"

	"github.com/jonathan/cv-perfecto/internal/config"
	"github.com/jonathan/cv-perfecto/internal/extraction"
	"github.com/jonathan/cv-perfecto/internal/latex"
	"github.com/jonathan/cv-perfecto/internal/llm"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/optimizer"
	"github.com/jonathan/cv-perfecto/internal/resume"
	"github.com/jonathan/cv-perfecto/internal/storage"
)

// openArtifactStore returns the configured document store.
func openArtifactStore(ctx context.Context, cfg *config.AppConfig) (storage.ArtifactStore, error) {
	switch cfg.ArtifactStore {
	case config.StoreMinIO:
		return storage.NewMinIOStore(ctx, cfg.MinIO)
	default:
		return storage.NewLocalStore(cfg.OutputDir)
	}
}

// pipeline bundles the resume service with the model client it owns.
type pipeline struct {
	service *resume.Service
	client  llm.ChatCompleter
}

func (p *pipeline) Close() error {
	return p.client.Close()
}

// newPipeline builds the extraction, model and post-processing chain.
// store and artifacts may be nil for local runs.
func newPipeline(ctx context.Context, cfg *config.AppConfig, store resume.Store, artifacts storage.ArtifactStore) (*pipeline, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("%s API key is not configured", cfg.LLM.Provider)
	}
	if err := optimizer.CheckPrompts(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	tmpl, err := latex.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load LaTeX template, continuing without it")
	}
	if tmpl == nil {
		logger.Warn().Str("path", cfg.TemplatePath).Msg("no LaTeX template loaded")
	}

	optOpts := []optimizer.Option{optimizer.WithModels(cfg.LLM.Models...)}
	if tmpl != nil {
		optOpts = append(optOpts, optimizer.WithTemplate(tmpl.Text()))
	}

	extractor := extraction.New(
		extraction.WithConfidenceThreshold(cfg.ConfidenceThreshold),
		extraction.WithGarbleThresholds(cfg.Garble),
	)

	svc := resume.NewService(store, extractor, optimizer.New(client, optOpts...), latex.NewPostProcessor(tmpl), artifacts)
	return &pipeline{service: svc, client: client}, nil
}
