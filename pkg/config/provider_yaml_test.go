package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
habitats:
  - name: village-pond
    type: constant
    capacity: 5000
  - name: roadside-pool
    type: rainfall
    accumulation_scale: 1.5
    evaporation_scale: 0.1
  - name: streambed
    type: seasonal_stream
    accumulation_scale: 2.0
    evaporation_scale: 0.05
    stream_decay_scale: 0.5
    flow_threshold: 5
    max_capacity: 100

weather:
  csv_path: weather.csv

storage:
  sqlite:
    path: capacity.db

controllers:
  - type: rest
    rest:
      port: 8080

checkpoint:
  path: run.checkpoint
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(writeTestConfig(t))

	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Habitats) != 3 {
		t.Fatalf("expected 3 habitats, got %d", len(cfg.Habitats))
	}

	pond := cfg.Habitats[0]
	if pond.Name != "village-pond" || pond.Type != "constant" || pond.Capacity != 5000 {
		t.Errorf("unexpected constant habitat: %+v", pond)
	}

	pool := cfg.Habitats[1]
	if pool.Type != "rainfall" || pool.AccumulationScale != 1.5 || pool.EvaporationScale != 0.1 {
		t.Errorf("unexpected rainfall habitat: %+v", pool)
	}

	stream := cfg.Habitats[2]
	if stream.Type != "seasonal_stream" || stream.StreamDecayScale != 0.5 ||
		stream.FlowThreshold != 5 || stream.MaxCapacity != 100 {
		t.Errorf("unexpected seasonal stream habitat: %+v", stream)
	}

	if cfg.Weather.CSVPath != "weather.csv" {
		t.Errorf("unexpected weather config: %+v", cfg.Weather)
	}

	if cfg.Storage.SQLite == nil || cfg.Storage.SQLite.Path != "capacity.db" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Storage.TimescaleDB != nil {
		t.Errorf("expected no TimescaleDB config, got %+v", cfg.Storage.TimescaleDB)
	}

	if len(cfg.Controllers) != 1 || cfg.Controllers[0].RESTServer == nil ||
		cfg.Controllers[0].RESTServer.Port != 8080 {
		t.Errorf("unexpected controllers: %+v", cfg.Controllers)
	}

	if cfg.Checkpoint.Path != "run.checkpoint" {
		t.Errorf("unexpected checkpoint config: %+v", cfg.Checkpoint)
	}
}

func TestYAMLProviderSectionGetters(t *testing.T) {
	provider := NewYAMLProvider(writeTestConfig(t))

	// Section getters lazily load the file.
	habitats, err := provider.GetHabitats()
	if err != nil {
		t.Fatal(err)
	}
	if len(habitats) != 3 {
		t.Errorf("expected 3 habitats, got %d", len(habitats))
	}

	storage, err := provider.GetStorageConfig()
	if err != nil {
		t.Fatal(err)
	}
	if storage.SQLite == nil {
		t.Error("expected SQLite storage config")
	}

	if !provider.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
	if err := provider.Close(); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := provider.LoadConfig(); err == nil {
		t.Error("expected error loading missing config file")
	}
}
