package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/northbuild/necbquery/internal/config"
	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/db"
	"github.com/northbuild/necbquery/internal/embeddings"
	"github.com/northbuild/necbquery/internal/search"
	"github.com/northbuild/necbquery/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `necbquery init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// The embedder is wrapped with the configured request timeout.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	model := cfg.EmbeddingModelOrDefault()

	var embedder embeddings.Embedder
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		embedder = embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model))
	case config.ProviderOllama:
		embedder = embeddings.NewOllamaEmbedder(model, 768, cfg.OllamaBaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.EmbeddingProvider)
	}

	return embeddings.WithTimeout(embedder, cfg.Search.EmbedTimeout), nil
}

// openStore opens the corpus database and wraps it in a store.
func openStore(cfg *config.Config) (*db.DB, *corpus.Store, error) {
	d, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return d, corpus.NewStore(d), nil
}

// loadVectors creates the vector store for the configured embedder and
// loads any persisted indexes. A missing vector directory is fine: the
// store just reports every vintage as not indexed.
func loadVectors(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*vectordb.Store, error) {
	vectors := vectordb.NewStore(embedder)
	if err := vectors.Load(ctx, cfg.VectorDir); err != nil {
		return nil, fmt.Errorf("loading vector store from %s: %w", cfg.VectorDir, err)
	}
	return vectors, nil
}

// newEngine builds the hybrid search engine from config.
func newEngine(cfg *config.Config, store *corpus.Store, vectors *vectordb.Store) *search.Engine {
	return search.NewEngine(store, vectors, search.Options{
		RRFK:            cfg.Search.RRFK,
		CandidatePool:   cfg.Search.CandidatePool,
		SemanticTimeout: cfg.Search.SemanticTimeout,
	})
}
