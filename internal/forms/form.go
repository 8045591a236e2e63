// Package forms holds the edit buffers for create/edit modals. A buffer is
// seeded from an existing record (relations normalized to bare ids) or
// from type defaults, validated locally before any network call, and
// serialized as the full field set for submission.
package forms

import "fmt"

// ValidationError is a local, field-level validation failure. It is raised
// before any backend call and never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
