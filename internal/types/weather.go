// Package types defines the data values passed between the simulation,
// habitat models, and storage backends.
package types

import "time"

// WeatherRecord is one timestep of weather forcing, typically daily.
// Records are immutable: the simulation constructs one per step and passes
// it by value to every habitat model.
type WeatherRecord struct {
	Timestamp time.Time `json:"timestamp"`
	MeanTempC float64   `json:"mean_temp_c"` // mean air temperature, °C
	RelHumid  float64   `json:"rel_humid"`   // relative humidity, fraction in [0,1]
	RainMM    float64   `json:"rain_mm"`     // rainfall accumulated this step, mm
}

// CapacityReading is the per-habitat, per-timestep output of a simulation
// run: the externally-reported carrying capacity alongside the raw stored
// capacity before any read-time suppression.
type CapacityReading struct {
	RunID       string    `json:"run_id" gorm:"column:runid"`
	HabitatName string    `json:"habitat_name" gorm:"column:habitatname"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:time"`
	Capacity    float64   `json:"capacity" gorm:"column:capacity"`
	RawCapacity float64   `json:"raw_capacity" gorm:"column:rawcapacity"`
}
