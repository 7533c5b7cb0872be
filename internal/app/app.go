// Package app wires configuration, storage, controllers, and the
// simulation runner into a running application.
package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/edwenger/larval-habitat/internal/controllers/restserver"
	"github.com/edwenger/larval-habitat/internal/habitat"
	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/sim"
	"github.com/edwenger/larval-habitat/internal/storage"
	"github.com/edwenger/larval-habitat/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until the simulation completes or
// a shutdown signal arrives
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize the storage manager and its reading distributor
	storageManager, err := storage.NewManager(ctx, &wg, &cfg.Storage)
	if err != nil {
		return err
	}

	// Start configured controllers; the REST server consumes readings
	// from the distributor like a storage engine
	for _, controller := range cfg.Controllers {
		if controller.RESTServer == nil {
			continue
		}
		rest, err := restserver.New(controller.RESTServer)
		if err != nil {
			return err
		}
		storageManager.RegisterEngine(ctx, &wg, rest)
		rest.StartServer(ctx, &wg)
	}

	// Build the simulation runner from the configured habitats
	runner, err := sim.NewRunner(cfg.Habitats, storageManager.ReadingDistributor, a.logger)
	if err != nil {
		return err
	}

	// Restore model state from a previous run if a checkpoint exists
	if cfg.Checkpoint.Path != "" {
		if _, err := habitat.LoadCheckpoint(cfg.Checkpoint.Path, runner.Models()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Info("no checkpoint found, starting from initial state")
			} else {
				return err
			}
		} else {
			log.Infof("restored model state from checkpoint %s", cfg.Checkpoint.Path)
		}
	}

	source, err := sim.NewCSVSource(cfg.Weather.CSVPath)
	if err != nil {
		return err
	}
	defer source.Close()

	runErr := make(chan error, 1)
	go func() {
		steps, err := runner.Run(ctx, source)
		log.Infof("simulation finished after %d timesteps", steps)
		runErr <- err
	}()

	log.Info("application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	case err = <-runErr:
		if err != nil {
			log.Errorf("simulation error: %v", err)
		}
	}

	// Save model state so an interrupted or completed run can resume
	if cfg.Checkpoint.Path != "" {
		if cpErr := habitat.SaveCheckpoint(cfg.Checkpoint.Path, runner.RunID, runner.Models()); cpErr != nil {
			log.Errorf("could not save checkpoint: %v", cpErr)
		} else {
			log.Infof("saved checkpoint to %s", cfg.Checkpoint.Path)
		}
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return err
}
