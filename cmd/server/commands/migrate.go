package commands

import (
	"errors"
	"fmt"

	"showcase/internal/config"
	"showcase/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var downSteps int

// migrateCmd groups the schema commands
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Manage the Postgres schema embedded in the binary.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the applied schema version`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if cfg.StoreDriver != config.StoreDriverPostgres {
			return errors.New("migrate requires STORE_DRIVER=postgres")
		}
		return nil
	},
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrateUp(cfg, logger)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back applied migrations.

Examples:
  showcase migrate down             # Roll back the last migration
  showcase migrate down --steps 2   # Roll back two migrations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		return migrator.Down(downSteps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrator, err := postgres.NewMigrator(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
