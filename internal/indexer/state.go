package indexer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// IndexState checkpoints embeddings computed so far for one vintage, so
// an interrupted run resumes without paying for the same texts twice.
// The checkpoint is never visible to queries: only a committed rebuild
// is.
type IndexState struct {
	JobID       string               `json:"job_id"`
	Vintage     string               `json:"vintage"`
	Model       string               `json:"model"`
	Vectors     map[string][]float32 `json:"vectors"` // unit ID -> embedding
	LastUpdated time.Time            `json:"last_updated"`
}

func statePath(dir, vintage string) string {
	return filepath.Join(dir, vintage+".json")
}

// LoadState reads the checkpoint for a vintage. A missing file, or a
// checkpoint produced by a different model, yields a fresh state:
// vectors from different models are not comparable and must never be
// reused.
func LoadState(dir, vintage, model string) (*IndexState, error) {
	fresh := &IndexState{
		JobID:   uuid.NewString(),
		Vintage: vintage,
		Model:   model,
		Vectors: make(map[string][]float32),
	}

	data, err := os.ReadFile(statePath(dir, vintage))
	if err != nil {
		if os.IsNotExist(err) {
			return fresh, nil
		}
		return nil, fmt.Errorf("reading index state: %w", err)
	}

	var state IndexState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding index state: %w", err)
	}
	if state.Model != model || state.Vintage != vintage {
		return fresh, nil
	}
	if state.Vectors == nil {
		state.Vectors = make(map[string][]float32)
	}
	return &state, nil
}

// Save writes the checkpoint to disk.
func (s *IndexState) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	s.LastUpdated = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding index state: %w", err)
	}
	return os.WriteFile(statePath(dir, s.Vintage), data, 0o644)
}

// Clear removes the checkpoint after a successful commit.
func (s *IndexState) Clear(dir string) error {
	err := os.Remove(statePath(dir, s.Vintage))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
