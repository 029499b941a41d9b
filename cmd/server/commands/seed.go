package commands

import (
	"errors"

	"showcase/internal/config"

	"github.com/spf13/cobra"
)

var (
	seedFile    string
	seedMigrate bool
)

// seedCmd loads fixtures into the configured store
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users and projects from YAML fixtures",
	Long: `Load users and projects from YAML fixtures through the regular services,
so seeded data passes the same validation as API writes. Re-running is safe:
existing users (by email) and projects (by owner and title) are skipped.

Examples:
  showcase seed                          # Load the embedded demo fixtures
  showcase seed --file fixtures.yaml     # Load a custom file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreDriver == config.StoreDriverMemory {
			return errors.New("seeding the memory store from the CLI has no effect; set SEED_FILE for serve instead")
		}

		if seedMigrate {
			if err := migrateUp(cfg, logger); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		b, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()

		return runSeed(ctx, b, newServices(b, cfg, logger), seedFile)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Fixture file (defaults to the embedded demo set)")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", true, "Apply pending migrations before seeding")
	rootCmd.AddCommand(seedCmd)
}
