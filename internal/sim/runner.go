// Package sim drives habitat models through a weather time series,
// emitting one capacity reading per habitat per timestep.
package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/edwenger/larval-habitat/internal/habitat"
	"github.com/edwenger/larval-habitat/internal/types"
	"github.com/edwenger/larval-habitat/pkg/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WeatherSource supplies one weather record per timestep, returning
// io.EOF when the series is exhausted.
type WeatherSource interface {
	Next() (types.WeatherRecord, error)
}

// Habitat pairs a configured habitat name with its model instance.
type Habitat struct {
	Name  string
	Model habitat.Model
}

// Runner owns a set of habitat models and advances all of them through a
// weather series.  Each Runner is single-threaded: models are updated
// sequentially and only immutable readings leave the run loop.
type Runner struct {
	RunID    string
	habitats []Habitat

	distributor chan<- types.CapacityReading
	logger      *zap.SugaredLogger
}

// NewRunner builds models for the configured habitats and assigns the run
// a fresh UUID.  The distributor channel may be nil, in which case
// readings are produced but not forwarded.
func NewRunner(cfgs []config.HabitatData, distributor chan<- types.CapacityReading, logger *zap.SugaredLogger) (*Runner, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no habitats configured")
	}

	r := &Runner{
		RunID:       uuid.New().String(),
		distributor: distributor,
		logger:      logger,
	}

	seen := make(map[string]bool, len(cfgs))
	for _, cfg := range cfgs {
		if seen[cfg.Name] {
			return nil, fmt.Errorf("duplicate habitat name %q", cfg.Name)
		}
		seen[cfg.Name] = true

		m, err := BuildModel(cfg)
		if err != nil {
			return nil, err
		}
		r.habitats = append(r.habitats, Habitat{Name: cfg.Name, Model: m})
	}

	return r, nil
}

// Models returns the runner's models keyed by habitat name, for
// checkpoint save and restore.
func (r *Runner) Models() map[string]habitat.Model {
	models := make(map[string]habitat.Model, len(r.habitats))
	for _, h := range r.habitats {
		models[h.Name] = h.Model
	}
	return models
}

// Step advances every model by one weather record and returns the
// resulting readings in habitat configuration order.
func (r *Runner) Step(w types.WeatherRecord) []types.CapacityReading {
	readings := make([]types.CapacityReading, 0, len(r.habitats))

	for _, h := range r.habitats {
		h.Model.Update(w)

		reading := types.CapacityReading{
			RunID:       r.RunID,
			HabitatName: h.Name,
			Timestamp:   w.Timestamp,
			Capacity:    h.Model.CurrentCapacity(),
		}
		// Raw capacity differs from the reported value only for models
		// with read-time suppression.
		reading.RawCapacity = reading.Capacity
		if s, ok := h.Model.(habitat.Snapshotter); ok {
			reading.RawCapacity = s.State().Capacity
		}

		readings = append(readings, reading)
	}

	return readings
}

// Run consumes the weather source until it is exhausted or the context is
// cancelled, forwarding readings to the distributor.  It returns the
// number of timesteps completed.
func (r *Runner) Run(ctx context.Context, source WeatherSource) (int, error) {
	steps := 0

	for {
		w, err := source.Next()
		if err == io.EOF {
			r.logger.Infof("simulation run %s complete after %d timesteps", r.RunID, steps)
			return steps, nil
		}
		if err != nil {
			return steps, fmt.Errorf("weather source failed at step %d: %w", steps, err)
		}

		for _, reading := range r.Step(w) {
			r.logger.Debugw("capacity reading",
				"habitat", reading.HabitatName,
				"time", reading.Timestamp,
				"capacity", reading.Capacity,
				"raw_capacity", reading.RawCapacity,
			)

			if r.distributor == nil {
				continue
			}
			select {
			case r.distributor <- reading:
			case <-ctx.Done():
				return steps, ctx.Err()
			}
		}

		steps++

		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}
	}
}
