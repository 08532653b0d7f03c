// Package main provides the jobtrack command line interface and HTTP API
// server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrack",
	Short: "Personal job application tracker",
	Long:  "jobtrack keeps a single user's job applications in PostgreSQL: list and kanban views, pipeline statuses, resume uploads and skill suggestions, served over a REST API or driven directly from the command line.",
}

var (
	rootConfigPath string
	rootDBURL      string
	rootUserEmail  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootDBURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.PersistentFlags().StringVarP(&rootUserEmail, "user", "u", "", "Email of the account to act as (defaults to JOBTRACK_USER env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
