package sim

import (
	"fmt"

	"github.com/edwenger/larval-habitat/internal/habitat"
	"github.com/edwenger/larval-habitat/pkg/config"
)

// BuildModel constructs the habitat model described by one habitat
// configuration entry.
func BuildModel(h config.HabitatData) (habitat.Model, error) {
	switch h.Type {
	case "constant":
		return habitat.NewConstantModel(h.Capacity), nil
	case "rainfall":
		return habitat.NewRainfallModel(h.AccumulationScale, h.EvaporationScale), nil
	case "seasonal_stream":
		m, err := habitat.NewSeasonalStreamModel(h.AccumulationScale, h.EvaporationScale,
			h.StreamDecayScale, h.FlowThreshold, h.MaxCapacity)
		if err != nil {
			return nil, fmt.Errorf("habitat %q: %w", h.Name, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("habitat %q: unknown model type %q", h.Name, h.Type)
	}
}
