package embeddings

import (
	"context"
	"errors"
	"fmt"
)

// Embedder defines the interface for generating text embeddings.
// Implementations wrap exactly one external provider; swapping the
// provider never touches indexing or query code.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model. Vectors
	// from different names are not comparable and must be recomputed.
	Name() string
}

// ErrUnavailable marks a provider failure (timeout, network, 5xx).
// Query paths degrade to keyword-only on this; indexing aborts.
var ErrUnavailable = errors.New("embedding provider unavailable")

// ProviderError wraps a provider failure with the provider's name.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is makes every ProviderError match ErrUnavailable.
func (e *ProviderError) Is(target error) bool { return target == ErrUnavailable }
