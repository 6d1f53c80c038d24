package config

import "time"

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level necbquery configuration, corresponding to .necbquery.yml.
type Config struct {
	DatabasePath      string       `yaml:"database_path" koanf:"database_path"`
	VectorDir         string       `yaml:"vector_dir" koanf:"vector_dir"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaBaseURL     string       `yaml:"ollama_base_url" koanf:"ollama_base_url"`

	Search SearchConfig `yaml:"search" koanf:"search"`
	Index  IndexConfig  `yaml:"index" koanf:"index"`
}

// SearchConfig tunes the hybrid query path. RRFK and the semantic-leg
// timeout change result ordering and degradation behavior, so they are
// part of the documented search contract.
type SearchConfig struct {
	RRFK            int           `yaml:"rrf_k" koanf:"rrf_k"`
	CandidatePool   int           `yaml:"candidate_pool" koanf:"candidate_pool"`
	SemanticTimeout time.Duration `yaml:"semantic_timeout" koanf:"semantic_timeout"`
	EmbedTimeout    time.Duration `yaml:"embed_timeout" koanf:"embed_timeout"`
}

// IndexConfig tunes the offline vector indexing job.
type IndexConfig struct {
	BatchSize int    `yaml:"batch_size" koanf:"batch_size"`
	StateDir  string `yaml:"state_dir" koanf:"state_dir"`
}
