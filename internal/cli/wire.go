package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
	"github.com/stowpack/stowpack/internal/logging"
	"github.com/stowpack/stowpack/internal/store"
)

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the structured logger for a command run.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, nil
}

// openStore opens the plan database named in config.
func openStore(cfg *config.Config) (*store.Store, error) {
	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open plan store: %w", err)
	}
	return db, nil
}
