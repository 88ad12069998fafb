package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors for run configuration and problem selection.
// Callers match them with errors.Is; the concrete error usually carries more detail.
var (
	// ErrUnrecognizedOption indicates an option name that maps to no RunConfig field.
	ErrUnrecognizedOption = errors.New("unrecognized option")

	// ErrConfigInvalid indicates a RunConfig that violates one of its invariants,
	// or an option value that does not parse as the field's type.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrUnknownVariant indicates a problem name that matches no known variant.
	ErrUnknownVariant = errors.New("unrecognized problem name")

	// ErrInsufficientCoefficients indicates a variant received fewer coefficients than it requires.
	ErrInsufficientCoefficients = errors.New("too few coefficients")

	// ErrInvalidCoefficient indicates a coefficient that is not a number, or not an
	// integer where the variant requires one.
	ErrInvalidCoefficient = errors.New("invalid coefficient")
)

// ConfigError describes a single configuration failure.
// Option is the offending option name when the failure is tied to one
// (parse failures), and empty for cross-field rule violations.
type ConfigError struct {
	Option string
	Reason string
	Err    error // one of the sentinels above
}

func (e *ConfigError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("--%s: %s", e.Option, e.Reason)
	}
	return e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func invalid(reason string) error {
	return &ConfigError{Reason: reason, Err: ErrConfigInvalid}
}
