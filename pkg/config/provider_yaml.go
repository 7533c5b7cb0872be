package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// YAML-tagged mirror structs for unmarshaling
type habitatYAML struct {
	Name              string  `yaml:"name"`
	Type              string  `yaml:"type"`
	Capacity          float64 `yaml:"capacity,omitempty"`
	AccumulationScale float64 `yaml:"accumulation_scale,omitempty"`
	EvaporationScale  float64 `yaml:"evaporation_scale,omitempty"`
	StreamDecayScale  float64 `yaml:"stream_decay_scale,omitempty"`
	FlowThreshold     float64 `yaml:"flow_threshold,omitempty"`
	MaxCapacity       float64 `yaml:"max_capacity,omitempty"`
}

type weatherYAML struct {
	CSVPath string `yaml:"csv_path"`
}

type storageYAML struct {
	SQLite      *sqliteYAML      `yaml:"sqlite,omitempty"`
	TimescaleDB *timescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type sqliteYAML struct {
	Path string `yaml:"path"`
}

type timescaleDBYAML struct {
	ConnectionString string `yaml:"connection_string"`
}

type controllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *restServerYAML `yaml:"rest,omitempty"`
}

type restServerYAML struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
	Port       int    `yaml:"port"`
}

type checkpointYAML struct {
	Path string `yaml:"path,omitempty"`
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		Habitats    []habitatYAML    `yaml:"habitats"`
		Weather     weatherYAML      `yaml:"weather"`
		Storage     storageYAML      `yaml:"storage,omitempty"`
		Controllers []controllerYAML `yaml:"controllers,omitempty"`
		Checkpoint  checkpointYAML   `yaml:"checkpoint,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Habitats:    make([]HabitatData, len(yamlConfig.Habitats)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, h := range yamlConfig.Habitats {
		config.Habitats[i] = HabitatData{
			Name:              h.Name,
			Type:              h.Type,
			Capacity:          h.Capacity,
			AccumulationScale: h.AccumulationScale,
			EvaporationScale:  h.EvaporationScale,
			StreamDecayScale:  h.StreamDecayScale,
			FlowThreshold:     h.FlowThreshold,
			MaxCapacity:       h.MaxCapacity,
		}
	}

	config.Weather = WeatherData{CSVPath: yamlConfig.Weather.CSVPath}

	config.Storage = StorageData{}
	if yamlConfig.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteData{
			Path: yamlConfig.Storage.SQLite.Path,
		}
	}
	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, c := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{Type: c.Type}
		if c.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				ListenAddr: c.RESTServer.ListenAddr,
				Port:       c.RESTServer.Port,
			}
		}
	}

	config.Checkpoint = CheckpointData{Path: yamlConfig.Checkpoint.Path}

	y.config = config
	return config, nil
}

// GetHabitats returns the configured habitats
func (y *YAMLProvider) GetHabitats() ([]HabitatData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Habitats, nil
}

// GetWeatherConfig returns the weather source configuration
func (y *YAMLProvider) GetWeatherConfig() (*WeatherData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Weather, nil
}

// GetStorageConfig returns the storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetControllers returns the configured controllers
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true: YAML configurations are not editable at runtime
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML providers
func (y *YAMLProvider) Close() error {
	return nil
}
