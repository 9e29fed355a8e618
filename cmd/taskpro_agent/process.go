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
	"github.com/taskpro/taskpro-backend/internal/logger"
	"github.com/taskpro/taskpro-backend/internal/observability"
	"github.com/taskpro/taskpro-backend/internal/pipeline"
	"github.com/taskpro/taskpro-backend/internal/ranking"
	"github.com/taskpro/taskpro-backend/internal/screening"
)

var processCmd = &cobra.Command{
	Use:   "process [request text]",
	Short: "Run the full matching pipeline for one request",
	Long: `Runs a free-text service request through the full pipeline: classification,
candidate ranking and risk screening, ending in one of the three terminal
decisions (request_created, needs_clarification, blocked_by_alerts).

The request text is taken from the arguments, or from --text.`,
	RunE: runProcess,
}

var (
	processConfigPath   string
	processText         string
	processNeighborhood int64
	processAPIKey       string
	processDatabaseURL  string
	processVerbose      bool
	processJSON         bool
)

func init() {
	processCmd.Flags().StringVar(&processConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	processCmd.Flags().StringVar(&processText, "text", "", "Request text (alternative to positional arguments)")
	processCmd.Flags().Int64Var(&processNeighborhood, "neighborhood", 0, "Neighborhood ID of the service location (optional)")
	processCmd.Flags().StringVar(&processAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	processCmd.Flags().StringVar(&processDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	processCmd.Flags().BoolVarP(&processVerbose, "verbose", "v", false, "Print each stage's output as it completes")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "Print the raw pipeline result as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadCLIConfig(cmd, processConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = processAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = processDatabaseURL
	}

	text := processText
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

	log, err := logger.New(cfg.JSONLogs, processVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	llmCfg := llm.DefaultConfig()
	for tier, model := range cfg.Models {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	orch := pipeline.New(database,
		classify.New(client), ranking.New(client), screening.New(client), log)

	input := pipeline.Input{Text: text}
	if processNeighborhood > 0 {
		input.NeighborhoodID = &processNeighborhood
	}

	result, err := orch.Process(ctx, input)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	if processJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	if processVerbose {
		printer.PrintIntent(&result.Intent)
		printer.PrintRanking(result.Ranking)
		printer.PrintRisk(&result.Risk)
	}
	printer.PrintResult(result)
	return nil
}
