package habitat

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Checkpoint holds the saved state of every model in a simulation run,
// keyed by habitat name, so a long run can be resumed after a restart.
type Checkpoint struct {
	RunID    string           `msgpack:"run_id"`
	SavedAt  time.Time        `msgpack:"saved_at"`
	Habitats map[string]State `msgpack:"habitats"`
}

// SaveCheckpoint snapshots the given models and writes them to path as
// MessagePack.  Models that do not implement Snapshotter are skipped.
func SaveCheckpoint(path, runID string, models map[string]Model) error {
	cp := Checkpoint{
		RunID:    runID,
		SavedAt:  time.Now(),
		Habitats: make(map[string]State, len(models)),
	}

	for name, m := range models {
		if s, ok := m.(Snapshotter); ok {
			cp.Habitats[name] = s.State()
		}
	}

	data, err := msgpack.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint file: %w", err)
	}

	return nil
}

// LoadCheckpoint reads a checkpoint from path and restores the state of
// every model whose habitat name appears in it.  Habitat names present in
// the checkpoint but absent from models are ignored, so configurations
// can drop habitats between runs.
func LoadCheckpoint(path string, models map[string]Model) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp Checkpoint
	if err := msgpack.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	for name, state := range cp.Habitats {
		m, ok := models[name]
		if !ok {
			continue
		}
		if s, ok := m.(Snapshotter); ok {
			s.SetState(state)
		}
	}

	return &cp, nil
}
