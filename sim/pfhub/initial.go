package pfhub

import (
	"fmt"
	"math"

	"github.com/pfhub-sim/pfhub-sim/sim"
)

// PFHub benchmark 1a model parameters.
const (
	DomainSize = 200.0 // square periodic domain edge length
	C0         = 0.5   // mean concentration
	Epsilon    = 0.01  // initial perturbation amplitude
	RhoS       = 5.0   // free energy barrier height
	CAlpha     = 0.3   // first well
	CBeta      = 0.7   // second well
	Kappa      = 2.0   // gradient energy coefficient
	Mobility   = 5.0
)

// chiMaD2023 holds the fixed wave counts of the 2023 variant: the 2017 wavenumbers
// rounded to the nearest whole number of periods over the domain.
var chiMaD2023 = waveCounts{cos: [8]int{3, 4, 4, 3, 1, 5, 2, 1}}

// waveCounts parameterizes the periodic initial condition.
// cos holds the eight cosine wave counts; the two sine terms add
// ax*sin(k(sinX)*x) and ay*sin(k(sinY)*y) inside the perturbation.
type waveCounts struct {
	cos        [8]int
	ax, ay     float64
	sinX, sinY int
}

// initialCondition returns c(x, y) at t=0 for the problem.
type initialCondition func(x, y float64) float64

func benchmark2017(x, y float64) float64 {
	a := math.Cos(0.13*x) * math.Cos(0.087*y)
	return C0 + Epsilon*(math.Cos(0.105*x)*math.Cos(0.11*y)+
		a*a+
		math.Cos(0.025*x-0.15*y)*math.Cos(0.07*x-0.02*y))
}

func (w waveCounts) condition() initialCondition {
	k := func(n int) float64 { return 2 * math.Pi * float64(n) / DomainSize }
	n := w.cos
	return func(x, y float64) float64 {
		a := math.Cos(k(n[2])*x) * math.Cos(k(n[3])*y)
		return C0 + Epsilon*(math.Cos(k(n[0])*x)*math.Cos(k(n[1])*y)+
			a*a+
			math.Cos(k(n[4])*x-k(n[5])*y)*math.Cos(k(n[6])*x-k(n[7])*y)+
			w.ax*math.Sin(k(w.sinX)*x)+
			w.ay*math.Sin(k(w.sinY)*y))
	}
}

// customWaveCounts reads the 12 positional coefficients of the custom variant:
// eight cosine wave counts, A_X, the x sine wave count, A_Y, the y sine wave count.
func customWaveCounts(coeffs []float64) (waveCounts, error) {
	if len(coeffs) < sim.CustomCoefficients {
		return waveCounts{}, fmt.Errorf("%w (need %d), got %d", sim.ErrInsufficientCoefficients, sim.CustomCoefficients, len(coeffs))
	}
	integer := func(i int) (int, error) {
		v := coeffs[i]
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: coefficient %d must be a whole wave count, got %g", sim.ErrInvalidCoefficient, i+1, v)
		}
		return int(v), nil
	}
	var w waveCounts
	var err error
	for i := 0; i < 8; i++ {
		if w.cos[i], err = integer(i); err != nil {
			return waveCounts{}, err
		}
	}
	w.ax = coeffs[8]
	if w.sinX, err = integer(9); err != nil {
		return waveCounts{}, err
	}
	w.ay = coeffs[10]
	if w.sinY, err = integer(11); err != nil {
		return waveCounts{}, err
	}
	return w, nil
}

// problemSetup returns the subproblem name and initial condition for p.
func problemSetup(p sim.Problem) (string, initialCondition, error) {
	switch p.Variant {
	case sim.VariantBenchmark2017:
		return "PFHub1aBenchmark2017", benchmark2017, nil
	case sim.VariantCHiMaD2023:
		return "PFHub1aCHiMaD2023", chiMaD2023.condition(), nil
	case sim.VariantCustom:
		w, err := customWaveCounts(p.Coefficients)
		if err != nil {
			return "", nil, err
		}
		return "PFHub1aCustom", w.condition(), nil
	default:
		return "", nil, fmt.Errorf("%w: %s", sim.ErrUnknownVariant, p.Variant)
	}
}

// chemical returns the bulk free energy density f(c) = ρs (c-cα)² (cβ-c)².
func chemical(c float64) float64 {
	a, b := c-CAlpha, CBeta-c
	return RhoS * a * a * b * b
}

// chemicalPotential returns df/dc.
func chemicalPotential(c float64) float64 {
	return 2 * RhoS * (c - CAlpha) * (CBeta - c) * (CAlpha + CBeta - 2*c)
}
