// Package timescaledb stores capacity readings in a TimescaleDB
// (PostgreSQL) hypertable.
package timescaledb

import (
	"context"
	"sync"

	"github.com/edwenger/larval-habitat/internal/database"
	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/types"
	"gorm.io/gorm"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS capacity_readings (
	time        TIMESTAMPTZ NOT NULL,
	runid       TEXT NOT NULL,
	habitatname TEXT NOT NULL,
	capacity    DOUBLE PRECISION NOT NULL,
	rawcapacity DOUBLE PRECISION NOT NULL
);`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createHypertableSQL = `
SELECT create_hypertable('capacity_readings', 'time', if_not_exists => TRUE);`

// Storage holds the configuration for a TimescaleDB storage backend
type Storage struct {
	TimescaleDBConn *gorm.DB
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, connectionString string) (*Storage, error) {
	var err error
	t := Storage{}

	log.Info("connecting to TimescaleDB...")
	t.TimescaleDBConn, err = database.CreateConnection(connectionString)
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return &Storage{}, err
	}

	log.Info("creating TimescaleDB extension...")
	if err := t.TimescaleDBConn.WithContext(ctx).Exec(createExtensionSQL).Error; err != nil {
		log.Warn("warning: could not create TimescaleDB extension")
		return &Storage{}, err
	}

	log.Info("creating capacity readings table...")
	if err := t.TimescaleDBConn.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		log.Warn("warning: could not create table in database")
		return &Storage{}, err
	}

	log.Info("creating hypertable...")
	if err := t.TimescaleDBConn.WithContext(ctx).Exec(createHypertableSQL).Error; err != nil {
		log.Warn("warning: could not create hypertable")
		return &Storage{}, err
	}

	return &t, nil
}

// StartStorageEngine creates a goroutine loop to receive readings and send
// them off to TimescaleDB
func (t *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.CapacityReading {
	log.Info("starting TimescaleDB storage engine...")
	readingChan := make(chan types.CapacityReading, 10)
	go t.processReadings(ctx, wg, readingChan)
	return readingChan
}

func (t *Storage) processReadings(ctx context.Context, wg *sync.WaitGroup, rchan <-chan types.CapacityReading) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			if err := t.StoreReading(r); err != nil {
				log.Error("could not store capacity reading:", err)
			}
		case <-ctx.Done():
			log.Info("cancellation request received, stopping TimescaleDB storage engine")
			return
		}
	}
}

// StoreReading stores a capacity reading in TimescaleDB
func (t *Storage) StoreReading(r types.CapacityReading) error {
	return t.TimescaleDBConn.Table("capacity_readings").Create(&r).Error
}
