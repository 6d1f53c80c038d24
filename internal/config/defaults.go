package config

import "time"

// defaultEmbeddingModels maps each provider to its default model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:      "data/necb.db",
		VectorDir:         "data/vectors",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		Search: SearchConfig{
			RRFK: 60,
			// Zero lets the engine size the pool from top_k.
			CandidatePool:   0,
			SemanticTimeout: 10 * time.Second,
			EmbedTimeout:    30 * time.Second,
		},
		Index: IndexConfig{
			BatchSize: 64,
			StateDir:  "data/index-state",
		},
	}
}

// DefaultEmbeddingModel returns the default model for a provider.
func DefaultEmbeddingModel(provider ProviderType) string {
	if m, ok := defaultEmbeddingModels[provider]; ok {
		return m
	}
	return defaultEmbeddingModels[ProviderOpenAI]
}
