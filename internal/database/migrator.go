package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable records the applied migration version.
const VersionTable = "schema_version"

// Migrations returns the embedded migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies the embedded migrations up to targetVersion, or to the
// latest version when targetVersion is negative.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, targetVersion int32) error {
	conn, err := pgx.Connect(ctx, DSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	if err := m.LoadMigrations(Migrations()); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	latest := int32(len(m.Migrations))
	if targetVersion < 0 || targetVersion > latest {
		targetVersion = latest
	}

	if from == targetVersion {
		logger.Info().Int32("version", from).Msg("database schema up to date")
		return nil
	}

	if err := m.MigrateTo(ctx, targetVersion); err != nil {
		return fmt.Errorf("migrating database schema: %w", err)
	}

	logger.Info().
		Int32("from", from).
		Int32("to", targetVersion).
		Msg("migrated database schema")
	return nil
}
