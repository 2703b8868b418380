package main

import (
	"fmt"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/database"
	"github.com/deppfellow/campus-manager/internal/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded PostgreSQL migrations",
	Long: `Apply the embedded PostgreSQL migrations to the database configured
with CAMPUS_DATABASE__*. Without --target the schema moves to the latest
version; a lower target migrates down.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Int32P("target", "t", -1, "Target schema version (-1 for latest)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetInt32("target")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLoggerWithService(cfg.Observability, nil)

	if err := database.Migrate(cmd.Context(), &log, cfg, target); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
