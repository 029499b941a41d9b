package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"showcase/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envFile string

	// Set by PersistentPreRunE for every subcommand
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "showcase",
	Short: "Project showcase API server",
	Long: `Showcase serves a REST API where developers publish portfolio projects
and other users browse, search, comment on and like them.

Commands:
  serve    - Run the HTTP API
  migrate  - Apply or roll back the database schema
  seed     - Load users and projects from YAML fixtures`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine in production
		_ = godotenv.Load(envFile)

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded

		var out io.Writer = os.Stdout
		if cfg.LogDir != "" {
			f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
			if err != nil {
				return err
			}
			logFile = f
			out = io.MultiWriter(os.Stdout, f)
		}

		logger = config.NewLogger(cfg, out)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading configuration")
}
