package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-perfecto/internal/config"
	"github.com/jonathan/cv-perfecto/internal/db"
	"github.com/jonathan/cv-perfecto/internal/latex"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/server"
	"github.com/jonathan/cv-perfecto/internal/server/ratelimit"
	"github.com/jonathan/cv-perfecto/internal/storage"
)

var (
	servePort    int
	serveMigrate bool
)

const cleanupInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start the HTTP server exposing registration, login and the resume optimization endpoints.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
	}

	artifacts, err := openArtifactStore(ctx, cfg)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, cfg, database, artifacts)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	limiter := ratelimit.NewLimiter(ratelimit.LoadConfig())
	defer limiter.Stop()

	jwtService := server.NewJWTService(jwtConfig)
	auth := server.NewAuthHandler(server.NewUserService(database, passwordConfig), jwtService)
	resumes := server.NewResumeHandler(p.service, server.HealthProbe{
		OutputDir:     cfg.OutputDir,
		UploadsDir:    cfg.UploadsDir,
		LLMConfigured: cfg.LLM.APIKey != "",
		PDFLatex:      latex.PDFLatexAvailable,
		Database:      database.Ping,
		Storage:       artifacts.Ready,
	})

	srv := server.New(server.Config{Port: cfg.Port, AllowedOrigins: cfg.AllowedOrigins}, auth, resumes, jwtService.AsTokenValidator(), limiter)

	go runCleanupLoop(ctx, artifacts, cfg.OutputMaxAge, cleanupInterval)

	logger.Info().
		Int("port", cfg.Port).
		Str("provider", string(cfg.LLM.Provider)).
		Strs("models", cfg.LLM.Models).
		Str("artifact_store", cfg.ArtifactStore).
		Msg("starting server")
	return srv.Run(ctx)
}

// runCleanupLoop deletes old artifacts once at start and then every interval
// until ctx is done.
func runCleanupLoop(ctx context.Context, store storage.ArtifactStore, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		removed, err := store.CleanupOlderThan(ctx, maxAge)
		if err != nil && ctx.Err() == nil {
			logger.Warn().Err(err).Msg("artifact cleanup failed")
		} else if removed > 0 {
			logger.Info().Int("removed", removed).Msg("deleted old artifacts")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
