// Package pfhub implements the PFHub benchmark 1a spinodal decomposition
// problem: a 2-D Cahn–Hilliard model on a periodic square domain, advanced
// with a semi-implicit spectral scheme.
//
// Minor outputs report the total free energy as "time,free_energy" CSV
// records; major outputs write the concentration field as a CSV snapshot.
package pfhub

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/pfhub-sim/pfhub-sim/sim"
	"github.com/pfhub-sim/pfhub-sim/sim/trace"
)

// ErrDiverged is returned when the concentration field stops being finite,
// typically because dt is too large.
var ErrDiverged = errors.New("pfhub: simulation diverged")

// Options configures simulations built by New and Factory.
type Options struct {
	Runtime     *Runtime         // required
	Out         io.Writer        // minor output records
	SnapshotDir string           // major output directory; empty = log a summary only
	TraceLevel  trace.TraceLevel // "outputs" records every performed output
}

// Simulation is a PFHub1a run on an n×n grid.
type Simulation struct {
	name  string
	runID string
	n     int
	dx    float64
	dt    float64
	step  int

	c     []float64    // concentration, row-major, row = y
	chat  []complex128 // Fourier coefficients of c
	work  []complex128
	dens  []float64 // free energy density scratch
	k2    []float64
	denom []float64 // 1 + dt M κ k⁴

	sp      *spectral
	pending outputQueue
	seq     int
	opts    Options
	trace   *trace.SimulationTrace
}

var _ sim.Simulation = (*Simulation)(nil)

// Factory returns a sim.SimulationFactory building PFHub1a simulations with opts.
func Factory(opts Options) sim.SimulationFactory {
	return func(runID string, p sim.Problem, cfg sim.RunConfig) (sim.Simulation, error) {
		return New(runID, p, cfg.GridPoints, cfg.Dt, opts)
	}
}

// New builds the simulation for p with gridPoints² nodes and timestep dt,
// initialized at t=0.
func New(runID string, p sim.Problem, gridPoints int, dt float64, opts Options) (*Simulation, error) {
	if gridPoints <= 0 || !(dt > 0) {
		return nil, fmt.Errorf("pfhub: grid points (%d) and dt (%g) must be positive", gridPoints, dt)
	}
	if opts.Runtime == nil {
		return nil, errors.New("pfhub: Options.Runtime is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	name, ic, err := problemSetup(p)
	if err != nil {
		return nil, err
	}

	n := gridPoints
	s := &Simulation{
		name:  name,
		runID: runID,
		n:     n,
		dx:    DomainSize / float64(n),
		dt:    dt,
		c:     make([]float64, n*n),
		chat:  make([]complex128, n*n),
		work:  make([]complex128, n*n),
		dens:  make([]float64, n*n),
		k2:    make([]float64, n*n),
		denom: make([]float64, n*n),
		sp:    newSpectral(n, opts.Runtime),
		opts:  opts,
		trace: trace.NewSimulationTrace(opts.TraceLevel),
	}

	k := s.sp.wavenumbers(s.dx)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			idx := i*n + j
			s.c[idx] = ic(float64(j)*s.dx, float64(i)*s.dx)
			s.k2[idx] = k[j]*k[j] + k[i]*k[i]
			s.denom[idx] = 1 + dt*Mobility*Kappa*s.k2[idx]*s.k2[idx]
		}
	}
	for i, v := range s.c {
		s.chat[i] = complex(v, 0)
	}
	if err := s.sp.forward(context.Background(), s.chat); err != nil {
		return nil, err
	}
	logrus.Debugf("[run %s] %s initialized: n=%d dx=%g dt=%g", runID, name, n, s.dx, dt)
	return s, nil
}

// Name implements sim.Simulation.
func (s *Simulation) Name() string { return s.name }

// Metric implements sim.Simulation.
func (s *Simulation) Metric() string { return "free_energy" }

// Trace implements sim.Traced.
func (s *Simulation) Trace() *trace.SimulationTrace { return s.trace }

// Time returns the current simulation time.
func (s *Simulation) Time() float64 { return float64(s.step) * s.dt }

// Concentration returns the current concentration field, row-major with rows along y.
// The slice is owned by the simulation and changes as it advances.
func (s *Simulation) Concentration() []float64 { return s.c }

// RegisterOutput implements sim.Simulation. Outputs fire at the first step
// whose time is within dt/2 of t or later; duplicates fire once per registration.
func (s *Simulation) RegisterOutput(t float64, major bool) {
	heap.Push(&s.pending, pendingOutput{time: t, major: major, seq: s.seq})
	s.seq++
}

// RunUntil implements sim.Simulation.
func (s *Simulation) RunUntil(ctx context.Context, endTime float64) error {
	half := s.dt / 2
	for {
		if err := s.flushOutputs(s.Time() + half); err != nil {
			return err
		}
		if s.Time() >= endTime-half {
			break
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped at t=%g: %w", s.Time(), err)
		}
		if err := s.advance(ctx); err != nil {
			return err
		}
	}
	if len(s.pending) > 0 {
		logrus.Warnf("[run %s] %d output(s) registered after end time %g were not performed", s.runID, len(s.pending), endTime)
	}
	return nil
}

// advance performs one semi-implicit step:
// ĉ' = (ĉ - dt M k² FFT(f'(c))) / (1 + dt M κ k⁴).
func (s *Simulation) advance(ctx context.Context) error {
	for i, v := range s.c {
		s.work[i] = complex(chemicalPotential(v), 0)
	}
	if err := s.sp.forward(ctx, s.work); err != nil {
		return err
	}
	for i := range s.chat {
		s.chat[i] = (s.chat[i] - complex(s.dt*Mobility*s.k2[i], 0)*s.work[i]) / complex(s.denom[i], 0)
	}
	copy(s.work, s.chat)
	if err := s.sp.inverse(ctx, s.work); err != nil {
		return err
	}
	for i, v := range s.work {
		s.c[i] = real(v)
	}
	s.step++
	if floats.HasNaN(s.c) || math.IsInf(floats.Max(s.c), 0) || math.IsInf(floats.Min(s.c), 0) {
		return fmt.Errorf("%w at t=%g (step %d); reduce dt", ErrDiverged, s.Time(), s.step)
	}
	return nil
}

// FreeEnergy returns the total free energy ∫ f(c) + κ/2 |∇c|² dA, with
// periodic central differences for the gradient.
func (s *Simulation) FreeEnergy() float64 {
	n := s.n
	for i := 0; i < n; i++ {
		up, down := ((i+1)%n)*n, ((i-1+n)%n)*n
		for j := 0; j < n; j++ {
			right, left := (j+1)%n, (j-1+n)%n
			c := s.c[i*n+j]
			dcx := (s.c[i*n+right] - s.c[i*n+left]) / (2 * s.dx)
			dcy := (s.c[up+j] - s.c[down+j]) / (2 * s.dx)
			s.dens[i*n+j] = chemical(c) + Kappa/2*(dcx*dcx+dcy*dcy)
		}
	}
	return floats.Sum(s.dens) * s.dx * s.dx
}

func (s *Simulation) flushOutputs(until float64) error {
	for len(s.pending) > 0 && s.pending[0].time <= until {
		o := heap.Pop(&s.pending).(pendingOutput)
		rec := trace.OutputRecord{Time: o.time, Clock: s.Time(), Step: s.step, Major: o.major}
		if o.major {
			path, err := s.writeSnapshot()
			if err != nil {
				return err
			}
			rec.Path = path
		} else {
			rec.Metric = s.FreeEnergy()
			if _, err := fmt.Fprintf(s.opts.Out, "%g,%g\n", s.Time(), rec.Metric); err != nil {
				return fmt.Errorf("write free energy: %w", err)
			}
		}
		s.trace.RecordOutput(rec)
	}
	return nil
}

type pendingOutput struct {
	time  float64
	major bool
	seq   int
}

// outputQueue implements heap.Interface and orders outputs by time, then registration order.
type outputQueue []pendingOutput

func (q outputQueue) Len() int { return len(q) }
func (q outputQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}
func (q outputQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *outputQueue) Push(x any) {
	*q = append(*q, x.(pendingOutput))
}

func (q *outputQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}
