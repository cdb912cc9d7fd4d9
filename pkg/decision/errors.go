package decision

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes a single violated invariant of a notification.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every violated invariant found by Validate.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the given field has a recorded violation.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err is (or wraps) a ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
