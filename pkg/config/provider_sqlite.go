package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	habitats, err := s.GetHabitats()
	if err != nil {
		return nil, fmt.Errorf("failed to load habitats: %w", err)
	}
	config.Habitats = habitats

	weather, err := s.GetWeatherConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load weather config: %w", err)
	}
	config.Weather = *weather

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	checkpoint, err := s.getCheckpointConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint config: %w", err)
	}
	config.Checkpoint = *checkpoint

	return config, nil
}

// GetHabitats returns the configured habitats
func (s *SQLiteProvider) GetHabitats() ([]HabitatData, error) {
	rows, err := s.db.Query(`
		SELECT name, type,
		       COALESCE(capacity, 0),
		       COALESCE(accumulation_scale, 0),
		       COALESCE(evaporation_scale, 0),
		       COALESCE(stream_decay_scale, 0),
		       COALESCE(flow_threshold, 0),
		       COALESCE(max_capacity, 0)
		FROM habitats ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query habitats: %w", err)
	}
	defer rows.Close()

	var habitats []HabitatData
	for rows.Next() {
		var h HabitatData
		if err := rows.Scan(&h.Name, &h.Type, &h.Capacity, &h.AccumulationScale,
			&h.EvaporationScale, &h.StreamDecayScale, &h.FlowThreshold, &h.MaxCapacity); err != nil {
			return nil, fmt.Errorf("failed to scan habitat row: %w", err)
		}
		habitats = append(habitats, h)
	}

	return habitats, rows.Err()
}

// GetWeatherConfig returns the weather source configuration
func (s *SQLiteProvider) GetWeatherConfig() (*WeatherData, error) {
	weather := &WeatherData{}

	err := s.db.QueryRow(`SELECT COALESCE(csv_path, '') FROM weather_config LIMIT 1`).
		Scan(&weather.CSVPath)
	if err == sql.ErrNoRows {
		return weather, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query weather config: %w", err)
	}

	return weather, nil
}

// GetStorageConfig returns the storage configuration
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	storage := &StorageData{}

	var sqlitePath, timescaleConn sql.NullString
	err := s.db.QueryRow(`SELECT sqlite_path, timescaledb_connection FROM storage_config LIMIT 1`).
		Scan(&sqlitePath, &timescaleConn)
	if err == sql.ErrNoRows {
		return storage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage config: %w", err)
	}

	if sqlitePath.Valid && sqlitePath.String != "" {
		storage.SQLite = &SQLiteData{Path: sqlitePath.String}
	}
	if timescaleConn.Valid && timescaleConn.String != "" {
		storage.TimescaleDB = &TimescaleDBData{ConnectionString: timescaleConn.String}
	}

	return storage, nil
}

// GetControllers returns the configured controllers
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	rows, err := s.db.Query(`
		SELECT type, COALESCE(listen_addr, ''), COALESCE(port, 0)
		FROM controllers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var c ControllerData
		var listenAddr string
		var port int
		if err := rows.Scan(&c.Type, &listenAddr, &port); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}
		if c.Type == "rest" {
			c.RESTServer = &RESTServerData{ListenAddr: listenAddr, Port: port}
		}
		controllers = append(controllers, c)
	}

	return controllers, rows.Err()
}

func (s *SQLiteProvider) getCheckpointConfig() (*CheckpointData, error) {
	checkpoint := &CheckpointData{}

	err := s.db.QueryRow(`SELECT COALESCE(path, '') FROM checkpoint_config LIMIT 1`).
		Scan(&checkpoint.Path)
	if err == sql.ErrNoRows {
		return checkpoint, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoint config: %w", err)
	}

	return checkpoint, nil
}

// IsReadOnly returns false: SQLite configurations support runtime edits
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the underlying database handle
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
