package embeddings

import (
	"context"
	"errors"
	"time"
)

// WithTimeout wraps an embedder so every request is bounded by d.
// A deadline overrun surfaces as a ProviderError matching
// ErrUnavailable, the same as any other provider failure.
func WithTimeout(e Embedder, d time.Duration) Embedder {
	if d <= 0 {
		return e
	}
	return &timeoutEmbedder{inner: e, timeout: d}
}

type timeoutEmbedder struct {
	inner   Embedder
	timeout time.Duration
}

func (t *timeoutEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	vecs, err := t.inner.Embed(ctx, texts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrUnavailable) {
			return nil, &ProviderError{Provider: t.inner.Name(), Err: err}
		}
		return nil, err
	}
	return vecs, nil
}

func (t *timeoutEmbedder) Dimensions() int { return t.inner.Dimensions() }
func (t *timeoutEmbedder) Name() string    { return t.inner.Name() }
