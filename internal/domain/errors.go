package domain

import "fmt"

// ConfigurationError reports an invalid policy value. It is fatal at startup
// and never recovered.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError builds a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// CountMismatchError is an internal invariant violation in the reconciler:
// the keep/cancel/place/ignore partition must conserve order count.
// A programming-logic fault, never retried.
type CountMismatchError struct {
	In  int
	Out int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("reconciliation count mismatch: %d orders in, %d orders out", e.In, e.Out)
}

// LookupError reports a tracked order with no matching identity, which means
// the tracker and the book have desynchronized. Must not be silently ignored.
type LookupError struct {
	ClientID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no tracked order with client id %q", e.ClientID)
}
