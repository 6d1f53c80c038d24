package corpus

import "errors"

// ErrNotFound indicates an exact-locator lookup missed. This is an
// expected condition, not a failure.
var ErrNotFound = errors.New("corpus: not found")

// ErrInconsistent indicates an index entry references a unit with no
// backing row. The corpus and an index are out of sync; callers must
// abort rather than return partial results.
var ErrInconsistent = errors.New("corpus: index references missing unit")
