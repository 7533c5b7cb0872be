package habitat

import (
	"github.com/edwenger/larval-habitat/internal/types"
)

// RainfallModel models temporary habitat created by rainfall and removed
// by temperature- and humidity-dependent evaporation.  Rainfall adds
// capacity linearly; evaporation removes a fraction of the existing
// capacity each step.
type RainfallModel struct {
	capacity float64

	// AccumulationScale converts millimeters of rainfall to capacity gained.
	AccumulationScale float64

	// EvaporationScale is the per-timestep evaporative loss coefficient (1/days).
	EvaporationScale float64
}

// NewRainfallModel returns a rainfall-driven model starting from zero capacity.
func NewRainfallModel(accumulationScale, evaporationScale float64) *RainfallModel {
	return &RainfallModel{
		AccumulationScale: accumulationScale,
		EvaporationScale:  evaporationScale,
	}
}

// Update accumulates rainfall, then applies proportional evaporative loss.
// The evaporation step uses the post-accumulation capacity, so a single
// step can remove at most the full current capacity: capacity is clamped
// at zero, never negative.
func (m *RainfallModel) Update(w types.WeatherRecord) {
	m.capacity += w.RainMM * m.AccumulationScale
	m.capacity -= m.capacity * m.EvaporationScale * EvaporationRate(w)

	if m.capacity < 0 {
		m.capacity = 0
	}
}

// CurrentCapacity returns the stored capacity.
func (m *RainfallModel) CurrentCapacity() float64 {
	return m.capacity
}

// State returns a snapshot of the model state.
func (m *RainfallModel) State() State {
	return State{Capacity: m.capacity}
}

// SetState restores the model from a snapshot.
func (m *RainfallModel) SetState(s State) {
	m.capacity = s.Capacity
}
