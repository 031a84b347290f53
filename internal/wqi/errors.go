package wqi

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching
var (
	ErrConfiguration      = errors.New("invalid variant configuration")
	ErrInvalidMeasurement = errors.New("invalid measurement set")
)

// ConfigurationError is returned when a variant's static parameter table is inconsistent
type ConfigurationError struct {
	Variant   Variant
	Parameter string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Parameter != "" {
		return fmt.Sprintf("variant %s: parameter %s: %s", e.Variant, e.Parameter, e.Reason)
	}
	return fmt.Sprintf("variant %s: %s", e.Variant, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingParameterError is returned when a measurement set lacks required keys
type MissingParameterError struct {
	Variant Variant
	Keys    []string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("variant %s: missing parameters: %s", e.Variant, strings.Join(e.Keys, ", "))
}

func (e *MissingParameterError) Unwrap() error { return ErrInvalidMeasurement }

// UnknownParameterError is returned when a measurement set carries keys the variant does not define
type UnknownParameterError struct {
	Variant Variant
	Keys    []string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("variant %s: unknown parameters: %s", e.Variant, strings.Join(e.Keys, ", "))
}

func (e *UnknownParameterError) Unwrap() error { return ErrInvalidMeasurement }

// InvalidValueError is returned for NaN or infinite raw values
type InvalidValueError struct {
	Variant   Variant
	Parameter string
	Value     float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("variant %s: parameter %s: value %v is not finite", e.Variant, e.Parameter, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidMeasurement }

// ScoreRangeError is returned when a finite raw value drives a parameter score
// or the aggregated index outside the float64 range. Parameter is empty when
// only the index overflowed.
type ScoreRangeError struct {
	Variant   Variant
	Parameter string
	Value     float64
}

func (e *ScoreRangeError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("variant %s: index is not finite", e.Variant)
	}
	return fmt.Sprintf("variant %s: parameter %s: value %g produces a non-finite score", e.Variant, e.Parameter, e.Value)
}

func (e *ScoreRangeError) Unwrap() error { return ErrInvalidMeasurement }

// UnknownVariantError is returned when no scorer is registered for a variant
type UnknownVariantError struct {
	Variant Variant
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q", string(e.Variant))
}
