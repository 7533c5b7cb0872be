// Package habitat implements weather-driven larval habitat carrying
// capacity models.  Each model holds one mutable capacity state variable,
// updated once per timestep from a weather record and read back out as the
// habitat's current carrying capacity.
package habitat

import (
	"github.com/edwenger/larval-habitat/internal/types"
)

// Model is the contract every capacity model satisfies.  A model instance
// is owned by exactly one simulation loop: Update is called once per
// timestep and CurrentCapacity is read after each update.  Neither method
// is safe for concurrent use.
type Model interface {
	// Update advances the model state by one timestep of weather.
	Update(w types.WeatherRecord)

	// CurrentCapacity returns the present carrying capacity estimate.
	// It never mutates model state.
	CurrentCapacity() float64
}

// State is a point-in-time snapshot of a model's mutable state, used for
// checkpointing long simulation runs.  StreamFlow is only meaningful for
// seasonal stream models and is zero otherwise.
type State struct {
	Capacity   float64 `msgpack:"capacity"`
	StreamFlow float64 `msgpack:"stream_flow,omitempty"`
}

// Snapshotter is implemented by models that can save and restore their
// mutable state across process restarts.
type Snapshotter interface {
	State() State
	SetState(s State)
}

// ConstantModel reports a fixed carrying capacity regardless of weather.
type ConstantModel struct {
	capacity float64
}

// NewConstantModel returns a model with the given fixed capacity.  The
// value is not validated; callers are expected to pass a non-negative
// capacity.
func NewConstantModel(capacity float64) *ConstantModel {
	return &ConstantModel{capacity: capacity}
}

// Update is a no-op: constant habitats do not respond to weather.
func (m *ConstantModel) Update(w types.WeatherRecord) {}

// CurrentCapacity returns the capacity set at construction.
func (m *ConstantModel) CurrentCapacity() float64 {
	return m.capacity
}

// State returns a snapshot of the model state.
func (m *ConstantModel) State() State {
	return State{Capacity: m.capacity}
}

// SetState restores the model from a snapshot.
func (m *ConstantModel) SetState(s State) {
	m.capacity = s.Capacity
}
