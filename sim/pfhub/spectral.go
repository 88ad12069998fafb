package pfhub

import (
	"context"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectral performs 2-D FFTs on an n×n row-major grid by transforming rows,
// then columns. Each worker chunk owns its own FFT plan and column buffer
// because gonum's plans keep internal work space.
type spectral struct {
	n     int
	rt    *Runtime
	plans []*fourier.CmplxFFT
	cols  [][]complex128
}

func newSpectral(n int, rt *Runtime) *spectral {
	w := rt.Workers()
	sp := &spectral{
		n:     n,
		rt:    rt,
		plans: make([]*fourier.CmplxFFT, w),
		cols:  make([][]complex128, w),
	}
	for i := 0; i < w; i++ {
		sp.plans[i] = fourier.NewCmplxFFT(n)
		sp.cols[i] = make([]complex128, n)
	}
	return sp
}

// wavenumbers returns the angular wavenumber of each FFT index for grid spacing dx.
func (sp *spectral) wavenumbers(dx float64) []float64 {
	k := make([]float64, sp.n)
	for i := range k {
		k[i] = 2 * math.Pi * sp.plans[0].Freq(i) / dx
	}
	return k
}

// forward replaces data with its (unnormalized) 2-D Fourier coefficients.
func (sp *spectral) forward(ctx context.Context, data []complex128) error {
	return sp.transform(ctx, data, false)
}

// inverse replaces coefficients with the normalized 2-D sequence, so that
// inverse(forward(x)) == x.
func (sp *spectral) inverse(ctx context.Context, data []complex128) error {
	if err := sp.transform(ctx, data, true); err != nil {
		return err
	}
	scale := complex(1/float64(sp.n*sp.n), 0)
	for i := range data {
		data[i] *= scale
	}
	return nil
}

func (sp *spectral) transform(ctx context.Context, data []complex128, inverse bool) error {
	n := sp.n
	apply := func(plan *fourier.CmplxFFT, v []complex128) {
		if inverse {
			plan.Sequence(v, v)
		} else {
			plan.Coefficients(v, v)
		}
	}

	err := sp.rt.ParallelFor(ctx, n, func(ctx context.Context, chunk, lo, hi int) error {
		for r := lo; r < hi; r++ {
			apply(sp.plans[chunk], data[r*n:(r+1)*n])
		}
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	return sp.rt.ParallelFor(ctx, n, func(ctx context.Context, chunk, lo, hi int) error {
		col := sp.cols[chunk]
		for c := lo; c < hi; c++ {
			for r := 0; r < n; r++ {
				col[r] = data[r*n+c]
			}
			apply(sp.plans[chunk], col)
			for r := 0; r < n; r++ {
				data[r*n+c] = col[r]
			}
		}
		return ctx.Err()
	})
}
