// Package cli provides the process bootstrap shared by the binaries:
// environment loading, logging, configuration and the record store.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expense-tracker/internal/config"
	"expense-tracker/internal/log"
	"expense-tracker/internal/storage"
)

// LoadEnvFile loads the .env file for local use.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and installs it as
// the slog default so package-level slog calls share its handler.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.DefaultConfig().Level
	}

	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from the environment and validates it.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitStore opens the record store at the configured path and applies
// migrations.
func InitStore(logger *log.Logger, cfg *config.Config) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize store at %s: %w", cfg.DBPath, err)
	}
	logger.WithComponent(log.ComponentStorage).Info("Record store ready", log.FieldDBPath, repo.Path())
	return repo, nil
}

// InterruptContext returns a context cancelled on SIGINT or SIGTERM.
func InterruptContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
