package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movelab/onomatopoeia-api/internal/database"
	"github.com/movelab/onomatopoeia-api/pkg/config"
)

// migrateCmd applies the local database schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply local database migrations",
	Long: `Apply the schema for the local sqlite database.

Only the between-pass hand-off state lives locally; the spreadsheet remains
the system of record and needs no migration.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	fmt.Printf("Database schema up to date at %s\n", cfg.Database.Path)
	return nil
}
