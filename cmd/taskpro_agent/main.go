// Package main provides the entry point for the TaskPro matching agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskpro_agent",
	Short: "TaskPro request matching agent",
	Long:  "TaskPro matches free-text home service requests to ranked, risk-screened workers through a classify -> rank -> screen agent pipeline, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
