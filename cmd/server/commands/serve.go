package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"showcase/internal/auth"
	"showcase/internal/config"
	"showcase/internal/handler"
	"showcase/internal/seed"

	"github.com/spf13/cobra"
)

var shutdownTimeout time.Duration

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

With the postgres store and AUTO_MIGRATE=true the schema is migrated first.
When SEED_FILE is set its fixtures are loaded before the listener starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Grace period for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.ValidateAuth(); err != nil {
		return err
	}

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
	)

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTJWKSURL, logger)
	if err != nil {
		return fmt.Errorf("create token verifier: %w", err)
	}
	defer verifier.Close()

	if cfg.StoreDriver == config.StoreDriverPostgres && cfg.AutoMigrate {
		if err := migrateUp(cfg, logger); err != nil {
			return err
		}
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	svc := newServices(b, cfg, logger)

	if cfg.SeedFile != "" {
		if err := runSeed(ctx, b, svc, cfg.SeedFile); err != nil {
			return err
		}
	}

	logger.Info("services initialized")

	router := handler.NewRouter(handler.RouterConfig{
		Projects:    svc.projects,
		Engagement:  svc.engagement,
		Projector:   svc.projector,
		Verifier:    verifier,
		Store:       b.pinger,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func runSeed(ctx context.Context, b *backend, svc appServices, path string) error {
	fixtures, err := seed.Load(path)
	if err != nil {
		return err
	}

	seeder := seed.NewSeeder(b.users, b.projects, svc.projects, svc.engagement, logger)
	if _, err := seeder.Run(ctx, fixtures); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
