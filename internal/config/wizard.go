package config

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// DefaultConfigFile is where the wizard writes its result.
const DefaultConfigFile = ".necbquery.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .necbquery.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to necbquery! Let's configure the search engine.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider selection.
	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(providerStr)

	// 2. Embedding model.
	modelPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: DefaultEmbeddingModel(cfg.EmbeddingProvider),
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}
	cfg.EmbeddingModel = model

	// 3. Database path.
	dbPrompt := promptui.Prompt{
		Label:   "Corpus database path",
		Default: cfg.DatabasePath,
	}
	dbPath, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	cfg.DatabasePath = dbPath

	// 4. Vector store directory.
	vecPrompt := promptui.Prompt{
		Label:   "Vector store directory",
		Default: cfg.VectorDir,
	}
	vecDir, err := vecPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("vector dir: %w", err)
	}
	cfg.VectorDir = vecDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration written to %s\n", DefaultConfigFile)

	if cfg.EmbeddingProvider == ProviderOpenAI {
		fmt.Println("Set OPENAI_API_KEY before running `necbquery index` or `necbquery serve`.")
	}

	return cfg, nil
}
