package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
	"github.com/stowpack/stowpack/internal/events"
	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/render"
	"github.com/stowpack/stowpack/internal/watch"
	"github.com/stowpack/stowpack/internal/web"
)

// NewServeCmd creates the serve command.
// Usage: stowpack serve [--scenario FILE] [--run-on-save] [--port PORT]
func NewServeCmd(app *App) *cobra.Command {
	var (
		scenarioPath string
		runOnSave    bool
		fileWatcher  string
		port         int
		address      string
		headless     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the packing dashboard server",
		Long: `Starts the web server that hosts the interactive packing dashboard.

Cargo is assembled in the browser or seeded from a scenario file.
With --run-on-save the scenario file is watched and every save
triggers a fresh packing run, streamed to connected browsers via
Server-Sent Events.

Press Ctrl+C to stop the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("address") {
				cfg.Server.Address = address
			}
			if cmd.Flags().Changed("headless") {
				cfg.Server.Headless = headless
			}
			if cmd.Flags().Changed("run-on-save") {
				cfg.Server.RunOnSave = runOnSave
			}
			if cmd.Flags().Changed("file-watcher") {
				cfg.Server.FileWatcher = config.WatcherType(fileWatcher)
			}

			return app.runServe(cfg, scenarioPath)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file to seed the dashboard with")
	cmd.Flags().BoolVar(&runOnSave, "run-on-save", false, "Re-pack when the scenario file changes")
	cmd.Flags().StringVar(&fileWatcher, "file-watcher", "", "Watch mechanism: fsnotify or poll")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port to listen on")
	cmd.Flags().StringVar(&address, "address", "", "Bind address")
	cmd.Flags().BoolVar(&headless, "headless", false, "Do not open the local browser")

	return cmd
}

func (a *App) runServe(cfg *config.Config, scenarioPath string) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	renderer, err := render.New(cfg.Render, logger)
	if err != nil {
		return err
	}
	defer renderer.Close()

	usageInterval, err := time.ParseDuration(cfg.Telemetry.Interval)
	if err != nil {
		return fmt.Errorf("parse telemetry interval: %w", err)
	}

	bus := events.NewBus()
	defer bus.Close()

	srv, err := web.New(web.Config{
		Addr:             cfg.ListenAddr(),
		Plans:            db,
		Renderer:         renderer,
		Bus:              bus,
		Logger:           logger,
		GatherUsageStats: cfg.Telemetry.GatherUsageStats,
		UsageInterval:    usageInterval,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	var scenarioWatch watch.Watcher
	if scenarioPath != "" {
		scn, err := packing.LoadScenario(scenarioPath)
		if err != nil {
			return err
		}
		srv.SeedScenario(scn)

		if cfg.Server.RunOnSave {
			pollInterval, err := time.ParseDuration(cfg.Server.PollInterval)
			if err != nil {
				return fmt.Errorf("parse poll interval: %w", err)
			}
			scenarioWatch, err = watch.New(cfg.Server.FileWatcher, scenarioPath, pollInterval, logger)
			if err != nil {
				return err
			}
			go watchScenario(scenarioWatch, scenarioPath, srv, logger)
		}
	}
	if scenarioWatch != nil {
		defer scenarioWatch.Close()
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	url := fmt.Sprintf("http://%s", srv.Addr())
	fmt.Printf("Dashboard listening on %s\n", url)
	fmt.Println("Press Ctrl+C to stop")

	if !cfg.Server.Headless {
		if err := openBrowser(url); err != nil {
			logger.Debug("could not open browser", zap.Error(err))
		}
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nShutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}

// watchScenario reloads and re-packs the scenario on every file change
// signal until the watcher closes.
func watchScenario(w watch.Watcher, path string, srv *web.Server, logger *zap.Logger) {
	bus := srv.Bus()
	for range w.C() {
		bus.Emit(events.NewEvent(events.WatchTriggered, ""))

		scn, err := packing.LoadScenario(path)
		if err != nil {
			logger.Warn("scenario reload failed", zap.String("path", path), zap.Error(err))
			bus.Emit(events.NewEvent(events.ScenarioInvalid, "").WithError(err))
			continue
		}

		srv.SeedScenario(scn)
		bus.Emit(events.NewEvent(events.ScenarioReloaded, ""))

		if err := srv.StartPack(scn); err != nil {
			if errors.Is(err, web.ErrPackRunning) {
				logger.Info("skipping re-pack, a run is in progress")
				continue
			}
			logger.Warn("re-pack failed to start", zap.Error(err))
		}
	}
}
