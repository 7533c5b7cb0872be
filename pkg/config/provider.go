// Package config loads larval-habitat configuration from YAML files or
// SQLite databases through a common provider interface.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetHabitats() ([]HabitatData, error)
	GetWeatherConfig() (*WeatherData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	// Configuration management
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Habitats    []HabitatData    `json:"habitats"`
	Weather     WeatherData      `json:"weather"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
	Checkpoint  CheckpointData   `json:"checkpoint,omitempty"`
}

// HabitatData holds the model type and parameters for one simulated habitat
type HabitatData struct {
	Name string `json:"name"`
	Type string `json:"type"` // "constant", "rainfall", or "seasonal_stream"

	// Constant model
	Capacity float64 `json:"capacity,omitempty"`

	// Rainfall model
	AccumulationScale float64 `json:"accumulation_scale,omitempty"`
	EvaporationScale  float64 `json:"evaporation_scale,omitempty"`

	// Seasonal stream model
	StreamDecayScale float64 `json:"stream_decay_scale,omitempty"`
	FlowThreshold    float64 `json:"flow_threshold,omitempty"`
	MaxCapacity      float64 `json:"max_capacity,omitempty"`
}

// WeatherData holds configuration for the weather forcing source
type WeatherData struct {
	CSVPath string `json:"csv_path"`
}

// StorageData holds the configuration for various storage backends
type StorageData struct {
	SQLite      *SQLiteData      `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// SQLiteData holds configuration for the SQLite capacity-history backend
type SQLiteData struct {
	Path string `json:"path"`
}

// TimescaleDBData holds configuration for the TimescaleDB capacity-history backend
type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// ControllerData holds the configuration for various controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

// RESTServerData holds configuration for the REST capacity server
type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port"`
}

// CheckpointData holds configuration for model state checkpointing
type CheckpointData struct {
	Path string `json:"path,omitempty"`
}
