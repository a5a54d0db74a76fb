package store

import "fmt"

// Error taxonomy. Callers switch on errors.Is/errors.As against these
// sentinels and typed wrappers. A badger error is never wrapped: where one
// occurs, it is formatted into an ErrStorage message with %v, so its text
// appears in the message but errors.Is/errors.As cannot reach it.
var (
	// ErrValidation indicates a caller-supplied value failed structural
	// validation before any storage operation was attempted.
	ErrValidation = fmt.Errorf("store: validation failed")

	// ErrStorage wraps any underlying badger failure. The badger error's
	// text is included in the returned message; this package does not
	// log it.
	ErrStorage = fmt.Errorf("store: storage operation failed")

	// ErrSerialization indicates a persisted blob failed to (un)marshal.
	ErrSerialization = fmt.Errorf("store: serialization failed")
)

// NotFoundError is returned when a lookup by key finds nothing.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: %s not found: %s", e.Entity, e.Key)
}

// NewNotFound builds a NotFoundError for the given entity/key pair.
func NewNotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// ConflictError is returned when an insert collides with an existing key
// that the operation requires to be absent.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("store: %s conflict: %s already exists", e.Entity, e.Key)
}

// NewConflict builds a ConflictError for the given entity/key pair.
func NewConflict(entity, key string) error {
	return &ConflictError{Entity: entity, Key: key}
}

// CASExhaustedError is returned when an optimistic compare-and-swap loop
// exceeds its retry budget, typically under heavy contention on a single
// key. This should be rare because the per-user mutex (internal/amas/engine)
// already serializes writers of the hot paths; it exists as a defense for
// the trees that are written from outside that lock (e.g. cron workers).
type CASExhaustedError struct {
	Entity   string
	Key      string
	Attempts int
}

func (e *CASExhaustedError) Error() string {
	return fmt.Sprintf("store: CAS exhausted for %s %s after %d attempts", e.Entity, e.Key, e.Attempts)
}

// NewCASExhausted builds a CASExhaustedError.
func NewCASExhausted(entity, key string, attempts int) error {
	return &CASExhaustedError{Entity: entity, Key: key, Attempts: attempts}
}

// InvariantViolationError describes a non-fatal breach of one field's
// expected range. No code in this module constructs or returns it; the
// monitoring sampler records breaches as monitor.InvariantViolation values
// instead.
type InvariantViolationError struct {
	Field         string
	Value         float64
	ExpectedRange string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s=%v outside %s", e.Field, e.Value, e.ExpectedRange)
}
