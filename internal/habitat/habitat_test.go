package habitat

import (
	"testing"

	"github.com/edwenger/larval-habitat/internal/types"
)

// All model variants must satisfy Model and Snapshotter.
var (
	_ Model       = (*ConstantModel)(nil)
	_ Model       = (*RainfallModel)(nil)
	_ Model       = (*SeasonalStreamModel)(nil)
	_ Snapshotter = (*ConstantModel)(nil)
	_ Snapshotter = (*RainfallModel)(nil)
	_ Snapshotter = (*SeasonalStreamModel)(nil)
)

func TestConstantModelInvariance(t *testing.T) {
	m := NewConstantModel(123.45)

	weathers := []types.WeatherRecord{
		{MeanTempC: 25, RelHumid: 0.8, RainMM: 10},
		{MeanTempC: 40, RelHumid: 0.0, RainMM: 0},
		{MeanTempC: -5, RelHumid: 1.0, RainMM: 100},
		{MeanTempC: 18, RelHumid: 0.5, RainMM: 2.5},
	}

	for i, w := range weathers {
		m.Update(w)
		if m.CurrentCapacity() != 123.45 {
			t.Fatalf("update %d changed constant capacity to %.6f", i, m.CurrentCapacity())
		}
	}
}

func TestConstantModelZeroCapacity(t *testing.T) {
	m := NewConstantModel(0)
	m.Update(types.WeatherRecord{MeanTempC: 25, RelHumid: 0.5, RainMM: 50})
	if m.CurrentCapacity() != 0 {
		t.Errorf("expected zero capacity, got %.6f", m.CurrentCapacity())
	}
}
