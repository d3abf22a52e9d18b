package gateway

import (
	"errors"
	"fmt"
)

// ValidationError reports bad caller input. It is the only failure the five
// operations surface to callers; provider trouble is always absorbed by the
// fallback path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
