package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for body construction and simulation setup.
var (
	// ErrInvalidMass indicates a mass that is not a finite positive number.
	ErrInvalidMass = errors.New("dynamo: mass must be finite and positive")

	// ErrInvalidRadius indicates a negative or non-finite radius.
	ErrInvalidRadius = errors.New("dynamo: radius must be finite and non-negative")

	// ErrInvalidVector indicates a position or velocity with NaN or Inf components.
	ErrInvalidVector = errors.New("dynamo: vector has NaN or Inf components")

	// ErrInvalidTrail indicates a negative trail capacity or sampling interval.
	ErrInvalidTrail = errors.New("dynamo: trail settings must be non-negative")

	// ErrParameterBounds indicates a simulation parameter outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// ValidationError wraps a domain error with the offending field.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Err.Error(), e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, value any, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// CheckPositive rejects values that are not finite and strictly positive.
func CheckPositive(field string, v float64, err error) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return invalid(field, v, err)
	}
	return nil
}

// CheckNonNegative rejects values that are negative or not finite.
func CheckNonNegative(field string, v float64, err error) error {
	if !(v >= 0) || math.IsInf(v, 1) {
		return invalid(field, v, err)
	}
	return nil
}

// CheckVector rejects vectors with NaN or Inf components.
func CheckVector(field string, v Vector3) error {
	if !v.IsFinite() {
		return invalid(field, v, ErrInvalidVector)
	}
	return nil
}
