package sim

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/edwenger/larval-habitat/internal/types"
	"github.com/edwenger/larval-habitat/pkg/config"
	"go.uber.org/zap"
)

// sliceSource feeds a fixed weather series, then io.EOF.
type sliceSource struct {
	records []types.WeatherRecord
	i       int
}

func (s *sliceSource) Next() (types.WeatherRecord, error) {
	if s.i >= len(s.records) {
		return types.WeatherRecord{}, io.EOF
	}
	w := s.records[s.i]
	s.i++
	return w, nil
}

var testHabitats = []config.HabitatData{
	{Name: "village-pond", Type: "constant", Capacity: 5000},
	{
		Name: "streambed", Type: "seasonal_stream",
		AccumulationScale: 1.0, EvaporationScale: 0.0,
		StreamDecayScale: 0.5, FlowThreshold: 5, MaxCapacity: 100,
	},
}

func TestNewRunnerValidation(t *testing.T) {
	logger := zap.NewNop().Sugar()

	if _, err := NewRunner(nil, nil, logger); err == nil {
		t.Error("expected error for empty habitat list")
	}

	dup := []config.HabitatData{
		{Name: "pond", Type: "constant", Capacity: 1},
		{Name: "pond", Type: "constant", Capacity: 2},
	}
	if _, err := NewRunner(dup, nil, logger); err == nil {
		t.Error("expected error for duplicate habitat names")
	}

	bad := []config.HabitatData{{Name: "pond", Type: "bathtub"}}
	if _, err := NewRunner(bad, nil, logger); err == nil {
		t.Error("expected error for unknown model type")
	}

	badStream := []config.HabitatData{{Name: "creek", Type: "seasonal_stream", FlowThreshold: 0}}
	if _, err := NewRunner(badStream, nil, logger); err == nil {
		t.Error("expected error for zero flow threshold")
	}
}

func TestRunnerStep(t *testing.T) {
	r, err := NewRunner(testHabitats, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	if r.RunID == "" {
		t.Error("expected a run ID to be assigned")
	}

	w := types.WeatherRecord{
		Timestamp: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		MeanTempC: 25, RelHumid: 0.8, RainMM: 10,
	}

	readings := r.Step(w)
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}

	pond := readings[0]
	if pond.HabitatName != "village-pond" || pond.Capacity != 5000 || pond.RawCapacity != 5000 {
		t.Errorf("unexpected constant reading: %+v", pond)
	}
	if pond.RunID != r.RunID || !pond.Timestamp.Equal(w.Timestamp) {
		t.Errorf("reading not stamped with run metadata: %+v", pond)
	}

	// Streambed after one 10 mm step: raw capacity 10, flow 5,
	// reported 10 * 5/(5+5) = 5.
	stream := readings[1]
	if math.Abs(stream.RawCapacity-10) > 1e-12 || math.Abs(stream.Capacity-5) > 1e-12 {
		t.Errorf("unexpected stream reading: %+v", stream)
	}

	// Second identical step: raw 20, flow 7.5, reported 20 * 5/12.5 = 8.
	readings = r.Step(w)
	stream = readings[1]
	if math.Abs(stream.RawCapacity-20) > 1e-12 || math.Abs(stream.Capacity-8) > 1e-12 {
		t.Errorf("unexpected stream reading after second step: %+v", stream)
	}
}

func TestRunnerRunForwardsReadings(t *testing.T) {
	dist := make(chan types.CapacityReading, 100)
	r, err := NewRunner(testHabitats, dist, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	source := &sliceSource{records: []types.WeatherRecord{
		{Timestamp: base, MeanTempC: 25, RelHumid: 0.8, RainMM: 10},
		{Timestamp: base.AddDate(0, 0, 1), MeanTempC: 28, RelHumid: 0.4, RainMM: 0},
		{Timestamp: base.AddDate(0, 0, 2), MeanTempC: 22, RelHumid: 0.9, RainMM: 5},
	}}

	steps, err := r.Run(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 3 {
		t.Errorf("expected 3 timesteps, got %d", steps)
	}

	close(dist)
	var received []types.CapacityReading
	for reading := range dist {
		received = append(received, reading)
	}
	if len(received) != 6 {
		t.Fatalf("expected 6 readings (2 habitats x 3 steps), got %d", len(received))
	}

	for _, reading := range received {
		if reading.RunID != r.RunID {
			t.Errorf("reading has wrong run ID: %+v", reading)
		}
		if reading.Capacity < 0 || reading.Capacity > reading.RawCapacity+1e-12 {
			t.Errorf("reading violates capacity invariants: %+v", reading)
		}
	}
}

func TestRunnerRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Unbuffered distributor with no consumer: Run can only exit via the
	// cancelled context.
	dist := make(chan types.CapacityReading)
	r, err := NewRunner(testHabitats, dist, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}

	source := &sliceSource{records: []types.WeatherRecord{
		{MeanTempC: 25, RelHumid: 0.8, RainMM: 10},
	}}

	if _, err := r.Run(ctx, source); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
