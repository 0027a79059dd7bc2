package weather

import (
	"errors"
	"fmt"
)

// Failure classes for the pipeline. Steps wrap these with %w so callers can
// classify with errors.Is without depending on step internals.
var (
	ErrUpstream   = errors.New("upstream weather api failure")
	ErrValidation = errors.New("validation failed")
	ErrIOWrite    = errors.New("snapshot write failed")
	ErrIORead     = errors.New("snapshot read failed")
	ErrConnection = errors.New("document store unreachable")
	ErrInsert     = errors.New("document store rejected insert")
)

// FieldError returns a validation error naming the offending field.
func FieldError(field string) error {
	return fmt.Errorf("%w: missing or invalid required field %q", ErrValidation, field)
}

// Retryable reports whether err may succeed on a retry. Validation failures
// are deterministic and insert rejections mean the store refused the document;
// neither can be fixed by trying again.
func Retryable(err error) bool {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrInsert) {
		return false
	}
	return true
}
