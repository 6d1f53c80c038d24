package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/northbuild/necbquery/internal/embeddings"
)

const (
	dbFileName       = "chromem.gob.gz"
	manifestFileName = "manifest.json"
)

// Store implements the vector index using chromem-go. Each vintage is
// indexed into its own collection; rebuilds go into a fresh generation
// and the active pointer is swapped only on commit, so concurrent
// queries see either the old index or the new one, never a mix.
type Store struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc
	model     string

	mu       sync.RWMutex
	manifest manifest
}

// manifest records which collection generation serves each vintage and
// which embedding model produced the vectors.
type manifest struct {
	Model      string            `json:"model"`
	Active     map[string]string `json:"active"`     // vintage -> collection name
	Generation map[string]int    `json:"generation"` // vintage -> latest generation
}

// NewStore creates an empty vector store bound to the given embedder.
// The embedder's model name becomes part of the index identity: an
// index built with a different model is unusable, not silently reused.
func NewStore(embedder embeddings.Embedder) *Store {
	return &Store{
		db:        chromem.NewDB(),
		embedFunc: embeddings.ToChromemFunc(embedder),
		model:     embedder.Name(),
		manifest: manifest{
			Model:      embedder.Name(),
			Active:     make(map[string]string),
			Generation: make(map[string]int),
		},
	}
}

func collectionName(vintage string, generation int) string {
	return fmt.Sprintf("necb_%s_g%d", vintage, generation)
}

// HasIndex reports whether an index built with the current model is
// active for the vintage.
func (s *Store) HasIndex(vintage string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.manifest.Active[vintage]
	return ok && s.manifest.Model == s.model
}

// Count returns the number of documents indexed for a vintage, or 0 if
// no index is active.
func (s *Store) Count(vintage string) int {
	s.mu.RLock()
	name, ok := s.manifest.Active[vintage]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	col := s.db.GetCollection(name, s.embedFunc)
	if col == nil {
		return 0
	}
	return col.Count()
}

// Search runs a nearest-neighbor lookup for a vintage, ordered by
// decreasing cosine similarity. Returns IndexUnavailableError when no
// index is active for the vintage or the active index was built with a
// different embedding model.
func (s *Store) Search(ctx context.Context, vintage, query string, topK int) ([]SearchResult, error) {
	s.mu.RLock()
	name, ok := s.manifest.Active[vintage]
	model := s.manifest.Model
	s.mu.RUnlock()

	if !ok {
		return nil, &IndexUnavailableError{Vintage: vintage, Reason: "not indexed"}
	}
	if model != s.model {
		return nil, &IndexUnavailableError{
			Vintage: vintage,
			Reason:  fmt.Sprintf("indexed with model %s, current model is %s", model, s.model),
		}
	}

	col := s.db.GetCollection(name, s.embedFunc)
	if col == nil {
		return nil, &IndexUnavailableError{Vintage: vintage, Reason: "active collection missing"}
	}

	if topK <= 0 {
		topK = 10
	}
	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := col.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	searchResults := make([]SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
			Rank:       i + 1,
		}
	}
	return searchResults, nil
}

// Rebuild is an in-progress out-of-place index build for one vintage.
// Nothing it adds is visible to Search until Commit.
type Rebuild struct {
	store      *Store
	vintage    string
	name       string
	generation int
	collection *chromem.Collection
	done       bool
}

// BeginRebuild starts building the next generation of a vintage's
// index. Only one rebuild per vintage may run at a time; the indexer
// enforces that exclusivity.
func (s *Store) BeginRebuild(vintage string) (*Rebuild, error) {
	s.mu.Lock()
	gen := s.manifest.Generation[vintage] + 1
	s.manifest.Generation[vintage] = gen
	s.mu.Unlock()

	name := collectionName(vintage, gen)
	col, err := s.db.GetOrCreateCollection(name, map[string]string{"vintage": vintage, "model": s.model}, s.embedFunc)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", name, err)
	}

	return &Rebuild{
		store:      s,
		vintage:    vintage,
		name:       name,
		generation: gen,
		collection: col,
	}, nil
}

// Add inserts documents with precomputed embeddings into the staging
// collection.
func (r *Rebuild) Add(ctx context.Context, docs []Document) error {
	if r.done {
		return fmt.Errorf("rebuild for vintage %s already finished", r.vintage)
	}
	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
			Metadata:  metadataToMap(doc.Metadata),
		}
	}
	return r.collection.AddDocuments(ctx, chromemDocs, 1)
}

// Commit atomically makes the staging collection the active index for
// the vintage and drops the previous generation.
func (r *Rebuild) Commit() error {
	if r.done {
		return fmt.Errorf("rebuild for vintage %s already finished", r.vintage)
	}
	r.done = true

	r.store.mu.Lock()
	old := r.store.manifest.Active[r.vintage]
	r.store.manifest.Active[r.vintage] = r.name
	r.store.manifest.Model = r.store.model
	r.store.mu.Unlock()

	if old != "" && old != r.name {
		if err := r.store.db.DeleteCollection(old); err != nil {
			return fmt.Errorf("dropping superseded collection %s: %w", old, err)
		}
	}
	return nil
}

// Abort discards the staging collection, leaving the previously active
// index untouched.
func (r *Rebuild) Abort() error {
	if r.done {
		return nil
	}
	r.done = true
	if err := r.store.db.DeleteCollection(r.name); err != nil {
		return fmt.Errorf("dropping staging collection %s: %w", r.name, err)
	}
	return nil
}

// Persist saves the store contents and manifest to dir.
func (s *Store) Persist(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating vector dir: %w", err)
	}

	if err := s.db.ExportToFile(filepath.Join(dir, dbFileName), true, ""); err != nil {
		return fmt.Errorf("exporting vector db: %w", err)
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load restores the store contents and manifest from dir. A missing
// directory is not an error: the store simply has no indexes and every
// Search reports IndexUnavailableError.
func (s *Store) Load(ctx context.Context, dir string) error {
	manifestPath := filepath.Join(dir, manifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decoding manifest: %w", err)
	}
	if m.Active == nil {
		m.Active = make(map[string]string)
	}
	if m.Generation == nil {
		m.Generation = make(map[string]int)
	}

	if err := s.db.ImportFromFile(filepath.Join(dir, dbFileName), ""); err != nil {
		return fmt.Errorf("importing vector db: %w", err)
	}

	s.mu.Lock()
	s.manifest = m
	s.mu.Unlock()
	return nil
}
