package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.EmbeddingProvider)
	}
	if cfg.DatabasePath != "data/necb.db" {
		t.Errorf("expected default database_path %q, got %q", "data/necb.db", cfg.DatabasePath)
	}
	if cfg.Search.RRFK != 60 {
		t.Errorf("expected default rrf_k 60, got %d", cfg.Search.RRFK)
	}
	if cfg.Search.CandidatePool != 0 {
		t.Errorf("expected default candidate_pool 0 so the engine sizes it from top_k, got %d", cfg.Search.CandidatePool)
	}
	if cfg.Search.SemanticTimeout != 10*time.Second {
		t.Errorf("expected default semantic_timeout 10s, got %v", cfg.Search.SemanticTimeout)
	}
	if cfg.Index.BatchSize != 64 {
		t.Errorf("expected default batch_size 64, got %d", cfg.Index.BatchSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.necbquery.yml")

	original := DefaultConfig()
	original.DatabasePath = "/srv/necb/corpus.db"
	original.VectorDir = "/srv/necb/vectors"
	original.EmbeddingProvider = ProviderOllama
	original.EmbeddingModel = "nomic-embed-text"
	original.OllamaBaseURL = "http://ollama.internal:11434"
	original.Search.RRFK = 30
	original.Index.BatchSize = 16

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.DatabasePath != original.DatabasePath {
		t.Errorf("database_path: got %q, want %q", loaded.DatabasePath, original.DatabasePath)
	}
	if loaded.EmbeddingProvider != original.EmbeddingProvider {
		t.Errorf("provider: got %q, want %q", loaded.EmbeddingProvider, original.EmbeddingProvider)
	}
	if loaded.OllamaBaseURL != original.OllamaBaseURL {
		t.Errorf("ollama_base_url: got %q, want %q", loaded.OllamaBaseURL, original.OllamaBaseURL)
	}
	if loaded.Search.RRFK != 30 {
		t.Errorf("rrf_k: got %d, want 30", loaded.Search.RRFK)
	}
	if loaded.Index.BatchSize != 16 {
		t.Errorf("batch_size: got %d, want 16", loaded.Index.BatchSize)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load of absent file: %v", err)
	}
	if cfg.EmbeddingProvider != ProviderOpenAI {
		t.Errorf("provider = %q, want the default", cfg.EmbeddingProvider)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NECBQUERY_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("NECBQUERY_EMBEDDING_PROVIDER", "ollama")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabasePath != "/tmp/override.db" {
		t.Errorf("database_path = %q, want the env override", cfg.DatabasePath)
	}
	if cfg.EmbeddingProvider != ProviderOllama {
		t.Errorf("provider = %q, want ollama", cfg.EmbeddingProvider)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"missing vector dir", func(c *Config) { c.VectorDir = "" }, true},
		{"missing provider", func(c *Config) { c.EmbeddingProvider = "" }, true},
		{"unknown provider", func(c *Config) { c.EmbeddingProvider = "cohere" }, true},
		{"non-positive rrf_k", func(c *Config) { c.Search.RRFK = 0 }, true},
		{"negative candidate pool", func(c *Config) { c.Search.CandidatePool = -1 }, true},
		{"non-positive batch size", func(c *Config) { c.Index.BatchSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestEmbeddingModelOrDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EmbeddingModel = ""
	cfg.EmbeddingProvider = ProviderOllama
	if got := cfg.EmbeddingModelOrDefault(); got != "nomic-embed-text" {
		t.Errorf("got %q, want the ollama default", got)
	}

	cfg.EmbeddingModel = "custom-model"
	if got := cfg.EmbeddingModelOrDefault(); got != "custom-model" {
		t.Errorf("got %q, want the explicit model", got)
	}
}
