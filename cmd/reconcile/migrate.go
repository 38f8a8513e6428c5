package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/statement-reconciler/internal/cli"
	"github.com/Veraticus/statement-reconciler/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on startup, so this is mostly useful for
checking the schema version with --status.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := databasePath()
	ctx := cmd.Context()

	slog.Info("Starting database migration",
		"database", dbPath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		state := cli.FormatSuccess("up to date")
		if current < storage.ExpectedSchemaVersion {
			state = cli.FormatWarning("migrations pending")
		}
		body := fmt.Sprintf("Database: %s\nCurrent version: %d\nLatest version: %d\n%s",
			dbPath, current, storage.ExpectedSchemaVersion, state)
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Database Migration Status", body))
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Database migrations completed successfully"))
	return nil
}
