package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "campus",
	Short: "Campus Manager - events, exams, hostel, payments, transport and reports",
	Long: `campus runs the Campus Manager API and its maintenance tasks.

Configuration is read from CAMPUS_* environment variables (and a .env file
when present), e.g. CAMPUS_SERVER__PORT=8080.

Examples:
  campus serve
  campus migrate --target 3
  campus email preview exam_result`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(emailCmd)
}
