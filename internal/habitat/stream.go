package habitat

import (
	"fmt"

	"github.com/edwenger/larval-habitat/internal/types"
)

// SeasonalStreamModel extends the rainfall model to stagnant pools in
// drying seasonal streambeds, where flowing water limits habitat
// availability.  It tracks recent flowing-water intensity as a decaying
// accumulator of rainfall and suppresses the reported capacity while flow
// is high relative to a threshold.  The suppression is applied at read
// time only: the stored capacity is never modified by it.
type SeasonalStreamModel struct {
	RainfallModel

	streamFlow float64

	// StreamDecayScale is the fraction of accumulated flow lost per timestep.
	StreamDecayScale float64

	// FlowThreshold is the flow at which suppression reaches half strength.
	FlowThreshold float64

	// MaxCapacity caps the stored capacity after every update.
	MaxCapacity float64
}

// NewSeasonalStreamModel returns a seasonal streambed model starting from
// zero capacity and zero stream flow.  FlowThreshold must be strictly
// positive: it is the denominator offset in the suppression factor, and a
// zero threshold would divide by zero whenever the stream is dry.
func NewSeasonalStreamModel(accumulationScale, evaporationScale, streamDecayScale, flowThreshold, maxCapacity float64) (*SeasonalStreamModel, error) {
	if flowThreshold <= 0 {
		return nil, fmt.Errorf("flow threshold must be positive, got %g", flowThreshold)
	}

	return &SeasonalStreamModel{
		RainfallModel: RainfallModel{
			AccumulationScale: accumulationScale,
			EvaporationScale:  evaporationScale,
		},
		StreamDecayScale: streamDecayScale,
		FlowThreshold:    flowThreshold,
		MaxCapacity:      maxCapacity,
	}, nil
}

// Update runs the full rainfall accumulation/evaporation step, caps the
// stored capacity at MaxCapacity, then advances the stream flow
// accumulator with the same accumulate-then-decay recurrence used for
// capacity.
func (m *SeasonalStreamModel) Update(w types.WeatherRecord) {
	m.RainfallModel.Update(w)
	if m.capacity > m.MaxCapacity {
		m.capacity = m.MaxCapacity
	}

	m.streamFlow += w.RainMM
	m.streamFlow -= m.streamFlow * m.StreamDecayScale
}

// CurrentCapacity returns the stored capacity reduced by the
// stream-flow suppression factor.  The factor approaches 1 as the stream
// dries out and 0 as flow grows large relative to FlowThreshold.
func (m *SeasonalStreamModel) CurrentCapacity() float64 {
	suppression := m.FlowThreshold / (m.streamFlow + m.FlowThreshold)
	return m.capacity * suppression
}

// StreamFlow returns the current flow accumulator value.
func (m *SeasonalStreamModel) StreamFlow() float64 {
	return m.streamFlow
}

// State returns a snapshot of the model state.
func (m *SeasonalStreamModel) State() State {
	return State{Capacity: m.capacity, StreamFlow: m.streamFlow}
}

// SetState restores the model from a snapshot.
func (m *SeasonalStreamModel) SetState(s State) {
	m.capacity = s.Capacity
	m.streamFlow = s.StreamFlow
}
