package validation

import (
	"errors"
	"fmt"
)

// FieldError points at the first request field that failed a rule.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s failed rule %s", e.Field, e.Rule)
}

// As wraps errors.As so callers in this package stay terse.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
