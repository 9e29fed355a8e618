package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskpro/taskpro-backend/internal/classify"
	"github.com/taskpro/taskpro-backend/internal/db"
	"github.com/taskpro/taskpro-backend/internal/llm"
	"github.com/taskpro/taskpro-backend/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [request text]",
	Short: "Classify a request without running the full pipeline",
	Long: `Runs only the classifier agent over the request text and prints the
structured intent: matched category, urgency, confidence and any clarifying
questions. Useful for tuning the category catalog and the classify prompt.`,
	RunE: runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeText       string
	analyzeJSON       bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Request text (alternative to positional arguments)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw intent as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd, analyzeConfigPath)
	if err != nil {
		return err
	}

	text := analyzeText
	if text == "" {
		text = strings.TrimSpace(strings.Join(args, " "))
	}
	if text == "" {
		return fmt.Errorf("request text is required (pass it as arguments or via --text)")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	categories, err := database.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	llmCfg := llm.DefaultConfig()
	for tier, model := range cfg.Models {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	intent, err := classify.New(client).Classify(ctx, text, categories)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(intent)
	}

	observability.NewPrinter(os.Stdout).PrintIntent(intent)
	return nil
}
