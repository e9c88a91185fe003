// Package main provides the entry point for the interview simulator HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Voice Interview Simulator HTTP API Server",
	Long:  "Interview simulator runs multi-round mock interviews (technical, coding, behavioral, sales) with adaptive questioning and structured feedback via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
