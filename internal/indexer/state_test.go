package indexer

import (
	"testing"
)

func TestLoadState_FreshWhenMissing(t *testing.T) {
	state, err := LoadState(t.TempDir(), "2020", "mock")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if state.JobID == "" {
		t.Error("fresh state needs a job ID")
	}
	if state.Vintage != "2020" || state.Model != "mock" {
		t.Errorf("fresh state = %+v", state)
	}
	if len(state.Vectors) != 0 {
		t.Errorf("fresh state has %d vectors", len(state.Vectors))
	}
}

func TestSaveAndLoadState(t *testing.T) {
	dir := t.TempDir()

	state, err := LoadState(dir, "2020", "mock")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	state.Vectors["unit-1"] = []float32{0.1, 0.2}
	state.Vectors["unit-2"] = []float32{0.3, 0.4}
	if err := state.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadState(dir, "2020", "mock")
	if err != nil {
		t.Fatalf("LoadState after save: %v", err)
	}
	if loaded.JobID != state.JobID {
		t.Errorf("job ID changed across reload: %s vs %s", loaded.JobID, state.JobID)
	}
	if len(loaded.Vectors) != 2 {
		t.Fatalf("loaded %d vectors, want 2", len(loaded.Vectors))
	}
	if loaded.Vectors["unit-1"][1] != 0.2 {
		t.Errorf("vector content lost: %v", loaded.Vectors["unit-1"])
	}
	if loaded.LastUpdated.IsZero() {
		t.Error("LastUpdated not recorded")
	}
}

func TestLoadState_ModelChangeDiscards(t *testing.T) {
	dir := t.TempDir()

	state, err := LoadState(dir, "2020", "text-embedding-3-small")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	state.Vectors["unit-1"] = []float32{0.1}
	if err := state.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Vectors from a different model are never reused.
	loaded, err := LoadState(dir, "2020", "text-embedding-3-large")
	if err != nil {
		t.Fatalf("LoadState with new model: %v", err)
	}
	if len(loaded.Vectors) != 0 {
		t.Errorf("checkpoint survived a model change: %d vectors", len(loaded.Vectors))
	}
	if loaded.JobID == state.JobID {
		t.Error("a discarded checkpoint should start a new job")
	}
}

func TestClearState(t *testing.T) {
	dir := t.TempDir()

	state, err := LoadState(dir, "2020", "mock")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if err := state.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := state.Clear(dir); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	// Clearing twice is fine.
	if err := state.Clear(dir); err != nil {
		t.Fatalf("second Clear: %v", err)
	}

	loaded, err := LoadState(dir, "2020", "mock")
	if err != nil {
		t.Fatalf("LoadState after clear: %v", err)
	}
	if len(loaded.Vectors) != 0 {
		t.Errorf("cleared checkpoint still has %d vectors", len(loaded.Vectors))
	}
}
