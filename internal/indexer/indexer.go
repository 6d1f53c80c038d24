// Package indexer builds the per-vintage vector index as an offline,
// idempotent batch job. Embeddings are computed in batches and
// checkpointed; the index itself commits all-or-nothing, so a failure
// mid-run never leaves a partially visible index.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/embeddings"
	"github.com/northbuild/necbquery/internal/progress"
	"github.com/northbuild/necbquery/internal/vectordb"
)

// VectorIndexer reads every document unit of a vintage, embeds it, and
// swaps the result in as the vintage's active index.
type VectorIndexer struct {
	store     *corpus.Store
	vectors   *vectordb.Store
	embedder  embeddings.Embedder
	batchSize int
	stateDir  string
	reporter  progress.Reporter

	mu      sync.Mutex
	running map[string]bool
}

// New creates a vector indexer. batchSize bounds texts per embedding
// request; stateDir holds resume checkpoints.
func New(store *corpus.Store, vectors *vectordb.Store, embedder embeddings.Embedder, batchSize int, stateDir string, reporter progress.Reporter) *VectorIndexer {
	if batchSize <= 0 {
		batchSize = 64
	}
	if reporter == nil {
		reporter = progress.NopReporter{}
	}
	return &VectorIndexer{
		store:     store,
		vectors:   vectors,
		embedder:  embedder,
		batchSize: batchSize,
		stateDir:  stateDir,
		reporter:  reporter,
	}
}

// Summary describes one completed indexing run.
type Summary struct {
	JobID    string
	Vintage  string
	Model    string
	Units    int
	Embedded int // texts sent to the provider this run
	Resumed  int // vectors reused from the checkpoint
	Duration time.Duration
}

// IndexVintage builds or rebuilds the vector index for one vintage.
// Runs for the same vintage are exclusive; re-running on an unchanged
// corpus with the same model produces an index equivalent to a full
// rebuild. Provider failures abort before anything becomes visible;
// already-computed embeddings stay checkpointed for the next attempt.
func (x *VectorIndexer) IndexVintage(ctx context.Context, vintage string) (*Summary, error) {
	x.mu.Lock()
	if x.running == nil {
		x.running = make(map[string]bool)
	}
	if x.running[vintage] {
		x.mu.Unlock()
		return nil, fmt.Errorf("indexing for vintage %s already in progress", vintage)
	}
	x.running[vintage] = true
	x.mu.Unlock()
	defer func() {
		x.mu.Lock()
		delete(x.running, vintage)
		x.mu.Unlock()
	}()

	start := time.Now()

	units, err := x.store.Units(ctx, vintage)
	if err != nil {
		return nil, fmt.Errorf("loading units for vintage %s: %w", vintage, err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("vintage %s has no units; load the corpus first", vintage)
	}

	state, err := LoadState(x.stateDir, vintage, x.embedder.Name())
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		JobID:   state.JobID,
		Vintage: vintage,
		Model:   x.embedder.Name(),
		Units:   len(units),
	}

	x.reporter.Start(len(units))
	defer x.reporter.Finish()

	// Phase one: compute embeddings, checkpointing after every batch.
	var pending []corpus.DocumentUnit
	for _, u := range units {
		if _, ok := state.Vectors[u.ID]; ok {
			summary.Resumed++
			continue
		}
		pending = append(pending, u)
	}
	x.reporter.Update(summary.Resumed, fmt.Sprintf("vintage %s: %d cached", vintage, summary.Resumed))

	done := summary.Resumed
	for i := 0; i < len(pending); i += x.batchSize {
		end := i + x.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[i:end]

		texts := make([]string, len(batch))
		for j, u := range batch {
			texts[j] = embedText(u)
		}

		vecs, err := x.embedder.Embed(ctx, texts)
		if err != nil {
			// Keep the checkpoint: the next run resumes from here.
			if saveErr := state.Save(x.stateDir); saveErr != nil {
				return nil, fmt.Errorf("embedding batch: %w (checkpoint save also failed: %v)", err, saveErr)
			}
			return nil, fmt.Errorf("embedding batch for vintage %s: %w", vintage, err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("provider returned %d vectors for %d texts", len(vecs), len(batch))
		}

		for j, u := range batch {
			state.Vectors[u.ID] = vecs[j]
		}
		summary.Embedded += len(batch)
		done += len(batch)
		x.reporter.Update(done, fmt.Sprintf("vintage %s: embedded %d/%d", vintage, done, len(units)))

		if err := state.Save(x.stateDir); err != nil {
			return nil, fmt.Errorf("saving checkpoint: %w", err)
		}
	}

	// Phase two: build the new index generation and swap it in.
	rebuild, err := x.vectors.BeginRebuild(vintage)
	if err != nil {
		return nil, err
	}

	docs := make([]vectordb.Document, 0, len(units))
	for _, u := range units {
		vec, ok := state.Vectors[u.ID]
		if !ok {
			rebuild.Abort()
			return nil, fmt.Errorf("missing embedding for unit %s", u.ID)
		}
		docs = append(docs, unitDocument(u, vec))
	}
	if err := rebuild.Add(ctx, docs); err != nil {
		rebuild.Abort()
		return nil, fmt.Errorf("populating index for vintage %s: %w", vintage, err)
	}
	if err := rebuild.Commit(); err != nil {
		return nil, fmt.Errorf("committing index for vintage %s: %w", vintage, err)
	}

	if err := state.Clear(x.stateDir); err != nil {
		return nil, fmt.Errorf("clearing checkpoint: %w", err)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// embedText is the canonical text representation embedded for a unit:
// title plus body. Changing this invalidates existing indexes the same
// way a model change does, so keep it stable.
func embedText(u corpus.DocumentUnit) string {
	if u.Title == "" {
		return u.Body
	}
	return u.Title + "\n" + u.Body
}

func unitDocument(u corpus.DocumentUnit, vec []float32) vectordb.Document {
	md := vectordb.DocumentMetadata{
		Vintage:    u.Vintage,
		Type:       string(u.Kind),
		Title:      u.Title,
		PageNumber: u.Page,
	}
	switch u.Kind {
	case corpus.KindSection:
		md.SectionNumber = u.Locator
	case corpus.KindTable:
		md.TableNumber = u.Locator
	case corpus.KindRequirement:
		md.SectionNumber = u.Locator
	}
	return vectordb.Document{
		ID:        u.ID,
		Content:   u.Body,
		Embedding: vec,
		Metadata:  md,
	}
}
