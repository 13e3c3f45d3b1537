// Package validation checks request shapes before any mutation runs.
// Failures here are always safe to retry after the caller fixes the
// input.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("weekday", weekdayRule)
	_ = v.RegisterValidation("money", moneyRule)
	return v
}

// Struct validates a request DTO against its tags and returns a
// caller-friendly message for the first failure.
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var errs validator.ValidationErrors
		if ok := As(err, &errs); ok && len(errs) > 0 {
			return &FieldError{Field: errs[0].Field(), Rule: errs[0].Tag()}
		}
		return err
	}
	return nil
}

func weekdayRule(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

// moneyRule accepts a decimal string with at most two fraction
// digits.
func moneyRule(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > 2 {
		return false
	}
	for i, r := range s {
		if r == '.' || (r == '-' && i == 0) {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
