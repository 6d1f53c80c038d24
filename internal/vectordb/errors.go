package vectordb

import (
	"errors"
	"fmt"
)

// ErrIndexUnavailable indicates no usable vector index exists for a
// vintage: either it was never built, or it was built with a different
// embedding model. Callers surface this explicitly instead of falling
// back silently, so they are never misled about which ranking signals
// contributed to a result.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// IndexUnavailableError carries the vintage and reason for an
// unavailable index. It matches ErrIndexUnavailable via errors.Is.
type IndexUnavailableError struct {
	Vintage string
	Reason  string
}

func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("vector index for vintage %s unavailable: %s", e.Vintage, e.Reason)
}

func (e *IndexUnavailableError) Is(target error) bool { return target == ErrIndexUnavailable }
