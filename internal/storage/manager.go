package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/storage/sqlite"
	"github.com/edwenger/larval-habitat/internal/storage/timescaledb"
	"github.com/edwenger/larval-habitat/internal/types"
	"github.com/edwenger/larval-habitat/pkg/config"
)

// Manager holds our active storage backends
type Manager struct {
	Engines            []Engine
	ReadingDistributor chan types.CapacityReading
}

// Engine holds a backend storage engine's interface as well as
// a channel for passing readings to the engine
type Engine struct {
	Engine EngineInterface
	C      chan<- types.CapacityReading
}

// NewManager creates a Manager object, populated with all configured
// storage engines, and starts its reading distributor
func NewManager(ctx context.Context, wg *sync.WaitGroup, c *config.StorageData) (*Manager, error) {
	m := Manager{}

	// Initialize our channel for passing readings to the distributor
	m.ReadingDistributor = make(chan types.CapacityReading, 20)

	// Start our reading distributor to distribute received readings to
	// storage backends
	go m.startReadingDistributor(ctx, wg)

	// Check the configuration for supported storage backends and enable
	// them if found

	if c.SQLite != nil && c.SQLite.Path != "" {
		engine, err := sqlite.New(ctx, c.SQLite.Path)
		if err != nil {
			return &m, fmt.Errorf("could not add SQLite storage backend: %w", err)
		}
		m.RegisterEngine(ctx, wg, engine)
	}

	if c.TimescaleDB != nil && c.TimescaleDB.ConnectionString != "" {
		engine, err := timescaledb.New(ctx, c.TimescaleDB.ConnectionString)
		if err != nil {
			return &m, fmt.Errorf("could not add TimescaleDB storage backend: %w", err)
		}
		m.RegisterEngine(ctx, wg, engine)
	}

	return &m, nil
}

// RegisterEngine starts an engine and adds it to the distributor fan-out.
// Controllers that consume readings (like the REST server's latest-reading
// cache) register through here as well.
func (m *Manager) RegisterEngine(ctx context.Context, wg *sync.WaitGroup, e EngineInterface) {
	engine := Engine{Engine: e}
	engine.C = e.StartStorageEngine(ctx, wg)
	m.Engines = append(m.Engines, engine)
}

// startReadingDistributor receives readings from the simulation and fans
// them out to the various storage backends
func (m *Manager) startReadingDistributor(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-m.ReadingDistributor:
			if len(m.Engines) == 0 {
				// No storage engines configured - reading discarded
				continue
			}
			for _, e := range m.Engines {
				e.C <- r
			}
		case <-ctx.Done():
			log.Info("cancellation request received, stopping reading distributor")
			return
		}
	}
}
