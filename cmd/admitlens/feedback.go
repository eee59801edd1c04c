package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/admitlens/admitlens/internal/config"
	"github.com/admitlens/admitlens/internal/db"
	"github.com/spf13/cobra"
)

var (
	feedbackEmail      string
	feedbackUniversity string
	feedbackProgram    string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Show the last saved feedback for an email, university, and program",
	RunE:  runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackEmail, "email", "", "Email the feedback was stored under")
	feedbackCmd.Flags().StringVar(&feedbackUniversity, "university", "", "Target university")
	feedbackCmd.Flags().StringVar(&feedbackProgram, "program", "", "Target program")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if feedbackEmail == "" || feedbackUniversity == "" || feedbackProgram == "" {
		return fmt.Errorf("--email, --university, and --program are all required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
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

	email := strings.ToLower(strings.TrimSpace(feedbackEmail))
	notes, err := store.LatestFeedback(ctx, email,
		strings.TrimSpace(feedbackUniversity), strings.TrimSpace(feedbackProgram))
	if err != nil {
		return fmt.Errorf("look up feedback: %w", err)
	}

	if !notes.HasAny() {
		fmt.Println("No saved feedback found for that email, university, and program.")
		return nil
	}

	fmt.Println("=== Last saved areas of improvement ===")
	fmt.Println()
	fmt.Println("Resume:")
	fmt.Println(notes.Resume.String)
	fmt.Println()
	fmt.Println("SOP:")
	fmt.Println(notes.SOP.String)
	fmt.Println()
	fmt.Println("LOR:")
	fmt.Println(notes.LOR.String)

	return nil
}
