package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/admitlens/admitlens/internal/config"
	"github.com/admitlens/admitlens/internal/db"
	"github.com/admitlens/admitlens/internal/review"
	"github.com/spf13/cobra"
)

var (
	reviewEmail      string
	reviewUniversity string
	reviewProgram    string
	reviewResume     string
	reviewSOP        string
	reviewLOR        string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review application documents from the command line",
	Long: `Run one evaluation without the web UI.

Example:
  admitlens review --email you@example.com \
    --university "University of Oxford" --program "MSc in AI" \
    --resume resume.pdf --sop sop.docx --lor lor.pdf`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewEmail, "email", "", "Email used to store and retrieve feedback")
	reviewCmd.Flags().StringVar(&reviewUniversity, "university", "", "Target university")
	reviewCmd.Flags().StringVar(&reviewProgram, "program", "", "Target program")
	reviewCmd.Flags().StringVar(&reviewResume, "resume", "", "Path to the resume (pdf/docx/txt)")
	reviewCmd.Flags().StringVar(&reviewSOP, "sop", "", "Path to the statement of purpose (pdf/docx/txt)")
	reviewCmd.Flags().StringVar(&reviewLOR, "lor", "", "Path to the letter of recommendation (pdf/docx/txt)")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForReview(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

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

	req := review.Request{
		Email:      reviewEmail,
		University: reviewUniversity,
		Program:    reviewProgram,
	}
	if req.Resume, err = readDocument(reviewResume); err != nil {
		return err
	}
	if req.SOP, err = readDocument(reviewSOP); err != nil {
		return err
	}
	if req.LOR, err = readDocument(reviewLOR); err != nil {
		return err
	}

	slog.Info("running review",
		"email", reviewEmail,
		"university", reviewUniversity,
		"program", reviewProgram,
	)

	result, err := reviewer.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("run review: %w", err)
	}

	fmt.Printf("=== Evaluation (%s) ===\n\n", result.Mode)
	fmt.Println(result.Reply)
	fmt.Println()
	fmt.Println("=== Saved areas of improvement ===")
	fmt.Println()
	fmt.Println("Resume:")
	fmt.Println(result.ResumeNotes)
	fmt.Println()
	fmt.Println("SOP:")
	fmt.Println(result.SOPNotes)
	fmt.Println()
	fmt.Println("LOR:")
	fmt.Println(result.LORNotes)

	return nil
}

func readDocument(path string) (review.Upload, error) {
	if path == "" {
		return review.Upload{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return review.Upload{}, fmt.Errorf("read document %s: %w", path, err)
	}
	return review.Upload{Name: path, Data: data}, nil
}
