// Package validation provides numeric parameter checks for simulation tuning
// values. Every failure is a *ParameterError that unwraps to ErrInvalidParameter,
// so callers can branch with errors.Is without knowing which field failed.
package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is the sentinel behind every ParameterError.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError describes a single rejected parameter.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite rejects NaN and infinities.
func Finite(field string, v float64) error {
	if !IsFinite(v) {
		return &ParameterError{Field: field, Value: v, Reason: "must be finite"}
	}
	return nil
}

// NonNegative rejects non-finite and negative values.
func NonNegative(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return &ParameterError{Field: field, Value: v, Reason: "must be non-negative"}
	}
	return nil
}

// Positive rejects non-finite values and anything <= 0.
func Positive(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return &ParameterError{Field: field, Value: v, Reason: "must be greater than zero"}
	}
	return nil
}

// Factor accepts multiplicative per-tick factors in (0, 1].
func Factor(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v <= 0 || v > 1 {
		return &ParameterError{Field: field, Value: v, Reason: "must be in (0, 1]"}
	}
	return nil
}

// InRange accepts lo <= v <= hi.
func InRange(field string, v, lo, hi float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return &ParameterError{
			Field:  field,
			Value:  v,
			Reason: fmt.Sprintf("must be between %v and %v", lo, hi),
		}
	}
	return nil
}

// Ordered accepts lo < hi, reporting against the hi field.
func Ordered(loField, hiField string, lo, hi float64) error {
	if err := Finite(loField, lo); err != nil {
		return err
	}
	if err := Finite(hiField, hi); err != nil {
		return err
	}
	if lo >= hi {
		return &ParameterError{
			Field:  hiField,
			Value:  hi,
			Reason: fmt.Sprintf("must be greater than %s (%v)", loField, lo),
		}
	}
	return nil
}

// Collect joins the non-nil errors. It returns nil when all checks passed.
func Collect(errs ...error) error {
	return errors.Join(errs...)
}
