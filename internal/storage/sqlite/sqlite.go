// Package sqlite stores capacity readings in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/edwenger/larval-habitat/internal/log"
	"github.com/edwenger/larval-habitat/internal/types"
	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS capacity_readings (
	runid       TEXT NOT NULL,
	habitatname TEXT NOT NULL,
	time        TIMESTAMP NOT NULL,
	capacity    REAL NOT NULL,
	rawcapacity REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_capacity_readings_habitat_time
	ON capacity_readings (habitatname, time);
`

// Storage holds the connection to a SQLite capacity-history database
type Storage struct {
	db *sql.DB
}

// New sets up a new SQLite storage backend
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create capacity readings table: %w", err)
	}

	return &Storage{db: db}, nil
}

// StartStorageEngine creates a goroutine loop to receive readings and
// write them to SQLite
func (s *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.CapacityReading {
	log.Info("starting SQLite storage engine...")
	readingChan := make(chan types.CapacityReading, 10)
	go s.processReadings(ctx, wg, readingChan)
	return readingChan
}

func (s *Storage) processReadings(ctx context.Context, wg *sync.WaitGroup, rchan <-chan types.CapacityReading) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case r := <-rchan:
			if err := s.StoreReading(ctx, r); err != nil {
				log.Error("could not store capacity reading:", err)
			}
		case <-ctx.Done():
			log.Info("cancellation request received, stopping SQLite storage engine")
			s.db.Close()
			return
		}
	}
}

// StoreReading stores a capacity reading in SQLite
func (s *Storage) StoreReading(ctx context.Context, r types.CapacityReading) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO capacity_readings (runid, habitatname, time, capacity, rawcapacity)
		 VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.HabitatName, r.Timestamp, r.Capacity, r.RawCapacity)
	if err != nil {
		return fmt.Errorf("error inserting capacity reading: %w", err)
	}
	return nil
}

// GetReadings retrieves the stored capacity history for one habitat,
// oldest first
func (s *Storage) GetReadings(ctx context.Context, habitatName string) ([]types.CapacityReading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT runid, habitatname, time, capacity, rawcapacity
		 FROM capacity_readings WHERE habitatname = ? ORDER BY time`,
		habitatName)
	if err != nil {
		return nil, fmt.Errorf("error querying capacity readings: %w", err)
	}
	defer rows.Close()

	var readings []types.CapacityReading
	for rows.Next() {
		var r types.CapacityReading
		if err := rows.Scan(&r.RunID, &r.HabitatName, &r.Timestamp, &r.Capacity, &r.RawCapacity); err != nil {
			return nil, fmt.Errorf("error scanning capacity reading: %w", err)
		}
		readings = append(readings, r)
	}

	return readings, rows.Err()
}
