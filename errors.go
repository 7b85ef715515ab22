package contextpg

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine operations.
var (
	// ErrInvalidConfig indicates invalid consumer configuration.
	ErrInvalidConfig = errors.New("invalid context configuration")

	// ErrUnknownConsumer indicates the consumer has no context yet.
	ErrUnknownConsumer = errors.New("unknown consumer")

	// ErrEmptyContent indicates an add with no content.
	ErrEmptyContent = errors.New("content is empty")

	// ErrInvalidKind indicates an unrecognized item kind.
	ErrInvalidKind = errors.New("invalid item kind")

	// ErrInvalidPriority indicates an unrecognized priority tier.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrUnknownMetadataKey indicates a metadata key outside the recognized set.
	ErrUnknownMetadataKey = errors.New("unknown metadata key")

	// ErrNoCompactableItems indicates nothing below high priority is active,
	// so compaction has nothing to work with. The needs-compaction flag
	// remains set on the consumer's state.
	ErrNoCompactableItems = errors.New("no compactable items")

	// ErrArchiveFailed indicates the archival sink rejected a write.
	ErrArchiveFailed = errors.New("archival write failed")
)

// ContextError provides structured error context for engine operations.
type ContextError struct {
	// Op is the operation that failed (e.g. "AddToContext", "Compact").
	Op string

	// ConsumerID is the consumer, if applicable.
	ConsumerID string

	// Err is the underlying error.
	Err error

	// Context holds additional key-value pairs for debugging.
	Context map[string]any
}

// Error returns a formatted error message.
func (e *ContextError) Error() string {
	msg := fmt.Sprintf("contextpg %s failed", e.Op)
	if e.ConsumerID != "" {
		msg += fmt.Sprintf(" for consumer %s", e.ConsumerID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *ContextError) Unwrap() error {
	return e.Err
}

// NewContextError creates a ContextError with the given operation and cause.
func NewContextError(op string, err error) *ContextError {
	return &ContextError{
		Op:      op,
		Err:     err,
		Context: make(map[string]any),
	}
}

// WithConsumer sets the consumer ID on the error and returns it for chaining.
func (e *ContextError) WithConsumer(consumerID string) *ContextError {
	e.ConsumerID = consumerID
	return e
}

// WithContext adds a key-value pair to the error context and returns the
// error for chaining.
func (e *ContextError) WithContext(key string, value any) *ContextError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WrapError wraps an error with operation context. If err is nil, returns nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewContextError(op, err)
}
