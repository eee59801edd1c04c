package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/admitlens/admitlens/internal/config"
	"github.com/admitlens/admitlens/internal/db"
	"github.com/admitlens/admitlens/internal/review"
	"github.com/admitlens/admitlens/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review web server",
	Long: `Run the AdmitLens web server: an upload form for the three
application documents, the evaluation results page, and a lookup of
previously saved feedback.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	slog.Info("connecting to database", "path", cfg.DatabasePath)
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	gemini, err := review.NewGeminiClient(ctx, review.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("create gemini client: %w", err)
	}

	reviewer := review.New(review.Config{
		Store:     store,
		Generator: gemini,
	})

	srv := server.New(server.Config{
		Reviewer:       reviewer,
		Store:          store,
		Addr:           cfg.ListenAddr,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	slog.Info("starting AdmitLens server",
		"addr", cfg.ListenAddr,
		"model", cfg.GeminiModel,
	)

	// Run the server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx)
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	slog.Info("shutting down...")
	cancel()

	return nil
}
