package sim

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Variant identifies one of the predefined PFHub1a problem configurations.
type Variant int

const (
	// VariantBenchmark2017 is the established benchmark problem.
	VariantBenchmark2017 Variant = iota
	// VariantCHiMaD2023 is the periodic modification proposed at the August 2023 CHiMaD meeting.
	VariantCHiMaD2023
	// VariantCustom is the periodic problem with user-supplied wave counts and amplitudes.
	VariantCustom
)

// CustomCoefficients is the number of positional coefficients VariantCustom requires.
const CustomCoefficients = 12

// variantNames maps accepted problem names to variants. Matching is exact.
var variantNames = map[string]Variant{
	"2017":   VariantBenchmark2017,
	"2023":   VariantCHiMaD2023,
	"custom": VariantCustom,
}

// String returns the problem name the variant is selected by.
func (v Variant) String() string {
	switch v {
	case VariantBenchmark2017:
		return "2017"
	case VariantCHiMaD2023:
		return "2023"
	case VariantCustom:
		return "custom"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Arity returns the number of coefficients the variant requires.
func (v Variant) Arity() int {
	if v == VariantCustom {
		return CustomCoefficients
	}
	return 0
}

// ParseVariant returns the variant selected by name.
func ParseVariant(name string) (Variant, error) {
	v, ok := variantNames[name]
	if !ok {
		return 0, fmt.Errorf("%w %q; valid: 2017, 2023, custom", ErrUnknownVariant, name)
	}
	return v, nil
}

// Problem is a variant together with its numeric coefficients.
type Problem struct {
	Variant      Variant
	Coefficients []float64 // len == Variant.Arity()
}

// NewProblem selects a variant from the positional arguments that follow the
// options: the problem name, then the variant's coefficients. Surplus
// coefficients are ignored with a warning.
func NewProblem(args []string) (Problem, error) {
	if len(args) == 0 {
		return Problem{}, fmt.Errorf("%w: no problem name specified", ErrUnknownVariant)
	}
	v, err := ParseVariant(args[0])
	if err != nil {
		return Problem{}, err
	}
	raw := args[1:]
	n := v.Arity()
	if len(raw) < n {
		return Problem{}, fmt.Errorf("%w (need %d) for %s, got %d", ErrInsufficientCoefficients, n, v, len(raw))
	}
	if len(raw) > n {
		logrus.Warnf("ignoring %d surplus coefficient(s) for problem %s: %v", len(raw)-n, v, raw[n:])
	}
	coeffs := make([]float64, n)
	for i := 0; i < n; i++ {
		coeffs[i], err = strconv.ParseFloat(raw[i], 64)
		if err != nil {
			return Problem{}, fmt.Errorf("%w: coefficient %d (%q) for %s is not a number", ErrInvalidCoefficient, i+1, raw[i], v)
		}
	}
	return Problem{Variant: v, Coefficients: coeffs}, nil
}
