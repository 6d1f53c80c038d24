package indexer

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"

	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/db"
	"github.com/northbuild/necbquery/internal/embeddings"
	"github.com/northbuild/necbquery/internal/progress"
	"github.com/northbuild/necbquery/internal/vectordb"
)

// scriptedEmbedder produces deterministic vectors and can be told to
// start failing after a number of successful batches.
type scriptedEmbedder struct {
	dims      int
	batches   int
	failAfter int // fail every batch once this many have succeeded; 0 means never
}

func (s *scriptedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if s.failAfter > 0 && s.batches >= s.failAfter {
		return nil, &embeddings.ProviderError{Provider: "scripted", Err: errors.New("injected failure")}
	}
	s.batches++

	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = s.vector(text)
	}
	return results, nil
}

func (s *scriptedEmbedder) Dimensions() int { return s.dims }
func (s *scriptedEmbedder) Name() string    { return "scripted" }

func (s *scriptedEmbedder) vector(text string) []float32 {
	vec := make([]float32, s.dims)
	for i, ch := range text {
		idx := (int(ch) + i) % s.dims
		vec[idx] += 1.0
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func seedCorpus(t *testing.T, vintage string, sections int) *corpus.Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	store := corpus.NewStore(d)
	snap := corpus.VintageSnapshot{Vintage: vintage}
	for i := 0; i < sections; i++ {
		snap.Sections = append(snap.Sections, corpus.Section{
			ID:            vintage + "-sec-" + string(rune('a'+i)),
			SectionNumber: "3.2.2." + string(rune('1'+i)),
			Title:         "Section " + string(rune('A'+i)),
			Content:       "thermal requirements paragraph " + string(rune('a'+i)),
			PageNumber:    10 + i,
		})
	}
	if err := store.ReplaceVintage(context.Background(), snap); err != nil {
		t.Fatalf("ReplaceVintage: %v", err)
	}
	return store
}

func TestIndexVintage(t *testing.T) {
	store := seedCorpus(t, "2020", 5)
	embedder := &scriptedEmbedder{dims: 32}
	vectors := vectordb.NewStore(embedder)
	stateDir := t.TempDir()

	x := New(store, vectors, embedder, 2, stateDir, progress.NopReporter{})
	summary, err := x.IndexVintage(context.Background(), "2020")
	if err != nil {
		t.Fatalf("IndexVintage: %v", err)
	}

	if summary.Units != 5 {
		t.Errorf("Units = %d, want 5", summary.Units)
	}
	if summary.Embedded != 5 {
		t.Errorf("Embedded = %d, want 5", summary.Embedded)
	}
	if summary.Resumed != 0 {
		t.Errorf("Resumed = %d, want 0", summary.Resumed)
	}
	if summary.JobID == "" {
		t.Error("summary missing job ID")
	}

	if !vectors.HasIndex("2020") {
		t.Fatal("index not active after a successful run")
	}
	if got := vectors.Count("2020"); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}

	// Checkpoint is cleared after commit.
	if _, err := os.Stat(statePath(stateDir, "2020")); !os.IsNotExist(err) {
		t.Errorf("checkpoint should be gone, stat err = %v", err)
	}
}

func TestIndexVintage_FailureLeavesNothingVisible(t *testing.T) {
	store := seedCorpus(t, "2020", 5)
	embedder := &scriptedEmbedder{dims: 32, failAfter: 1}
	vectors := vectordb.NewStore(embedder)
	stateDir := t.TempDir()

	x := New(store, vectors, embedder, 2, stateDir, progress.NopReporter{})
	_, err := x.IndexVintage(context.Background(), "2020")
	if !errors.Is(err, embeddings.ErrUnavailable) {
		t.Fatalf("expected a provider failure, got %v", err)
	}

	if vectors.HasIndex("2020") {
		t.Error("a failed run must not activate an index")
	}

	// The partial work is checkpointed for the next attempt.
	state, loadErr := LoadState(stateDir, "2020", "scripted")
	if loadErr != nil {
		t.Fatalf("LoadState: %v", loadErr)
	}
	if len(state.Vectors) != 2 {
		t.Errorf("checkpoint has %d vectors, want the 2 from the successful batch", len(state.Vectors))
	}
}

func TestIndexVintage_ResumesFromCheckpoint(t *testing.T) {
	store := seedCorpus(t, "2020", 5)
	stateDir := t.TempDir()

	// First attempt dies after one batch of two.
	failing := &scriptedEmbedder{dims: 32, failAfter: 1}
	vectors := vectordb.NewStore(failing)
	x := New(store, vectors, failing, 2, stateDir, progress.NopReporter{})
	if _, err := x.IndexVintage(context.Background(), "2020"); err == nil {
		t.Fatal("first attempt should fail")
	}

	// Second attempt reuses the checkpointed vectors.
	good := &scriptedEmbedder{dims: 32}
	vectors2 := vectordb.NewStore(good)
	x2 := New(store, vectors2, good, 2, stateDir, progress.NopReporter{})
	summary, err := x2.IndexVintage(context.Background(), "2020")
	if err != nil {
		t.Fatalf("resumed IndexVintage: %v", err)
	}

	if summary.Resumed != 2 {
		t.Errorf("Resumed = %d, want 2", summary.Resumed)
	}
	if summary.Embedded != 3 {
		t.Errorf("Embedded = %d, want 3", summary.Embedded)
	}
	if got := vectors2.Count("2020"); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
}

func TestIndexVintage_Rerun(t *testing.T) {
	store := seedCorpus(t, "2020", 3)
	embedder := &scriptedEmbedder{dims: 32}
	vectors := vectordb.NewStore(embedder)
	stateDir := t.TempDir()

	x := New(store, vectors, embedder, 8, stateDir, progress.NopReporter{})
	ctx := context.Background()

	if _, err := x.IndexVintage(ctx, "2020"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := x.IndexVintage(ctx, "2020"); err != nil {
		t.Fatalf("second run: %v", err)
	}

	// Still exactly one active index with every unit.
	if got := vectors.Count("2020"); got != 3 {
		t.Errorf("Count = %d after rerun, want 3", got)
	}
}

func TestIndexVintage_EmptyVintage(t *testing.T) {
	store := seedCorpus(t, "2020", 3)
	embedder := &scriptedEmbedder{dims: 32}
	vectors := vectordb.NewStore(embedder)

	x := New(store, vectors, embedder, 8, t.TempDir(), progress.NopReporter{})
	if _, err := x.IndexVintage(context.Background(), "2017"); err == nil {
		t.Fatal("expected an error for an unloaded vintage")
	}
}

func TestEmbedText(t *testing.T) {
	u := corpus.DocumentUnit{Title: "Scope", Body: "This part applies."}
	if got := embedText(u); got != "Scope\nThis part applies." {
		t.Errorf("embedText = %q", got)
	}

	u.Title = ""
	if got := embedText(u); got != "This part applies." {
		t.Errorf("embedText without title = %q", got)
	}
}

func TestUnitDocument_LocatorMapping(t *testing.T) {
	sec := corpus.DocumentUnit{ID: "s", Kind: corpus.KindSection, Locator: "3.2.2.2", Vintage: "2020"}
	if d := unitDocument(sec, nil); d.Metadata.SectionNumber != "3.2.2.2" || d.Metadata.TableNumber != "" {
		t.Errorf("section locator mapped to %+v", d.Metadata)
	}

	tbl := corpus.DocumentUnit{ID: "t", Kind: corpus.KindTable, Locator: "3.2.2.2", Vintage: "2020"}
	if d := unitDocument(tbl, nil); d.Metadata.TableNumber != "3.2.2.2" || d.Metadata.SectionNumber != "" {
		t.Errorf("table locator mapped to %+v", d.Metadata)
	}
}
