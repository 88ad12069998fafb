package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pfhub-sim/pfhub-sim/sim/trace"
)

// Simulation is the time-stepping engine a Driver runs. Implementations own
// all physical state; the driver only tells them when to output and when to stop.
type Simulation interface {
	// Name identifies the concrete subproblem; printed as the first header line.
	Name() string
	// Metric names the quantity reported at each minor output (the CSV column after "time").
	Metric() string
	// RegisterOutput requests a major or minor output at simulation time t.
	RegisterOutput(t float64, major bool)
	// RunUntil advances the simulation to endTime, performing registered outputs on the way.
	RunUntil(ctx context.Context, endTime float64) error
}

// Traced is implemented by simulations that record the outputs they perform.
type Traced interface {
	Trace() *trace.SimulationTrace
}

// SimulationFactory builds the simulation for a problem from a validated config.
type SimulationFactory func(runID string, p Problem, cfg RunConfig) (Simulation, error)

// DriverState is the lifecycle state of a Driver.
type DriverState int

const (
	StateUnconfigured DriverState = iota
	StateConfigured
	StateScheduled
	StateCompleted
	StateFailed
)

func (s DriverState) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateScheduled:
		return "scheduled"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("DriverState(%d)", int(s))
	}
}

// Driver wires a validated RunConfig and its output schedule into a
// Simulation and runs it to completion. A Driver performs exactly one run:
//
//	Unconfigured -> Configured -> Scheduled -> Completed
//
// Any error moves it to Failed, which is terminal. Calling a step out of
// order is a programming error and panics.
type Driver struct {
	RunID string

	factory  SimulationFactory
	out      io.Writer
	state    DriverState
	cfg      RunConfig
	schedule OutputSchedule
	sim      Simulation
}

// NewDriver creates a Driver that obtains simulations from factory and writes
// the output header to out.
func NewDriver(factory SimulationFactory, out io.Writer) *Driver {
	return &Driver{
		RunID:   uuid.NewString(),
		factory: factory,
		out:     out,
	}
}

// State returns the current lifecycle state.
func (d *Driver) State() DriverState {
	return d.state
}

// Config returns the validated configuration. Only valid once configured.
func (d *Driver) Config() RunConfig {
	if d.state == StateUnconfigured {
		panic("sim: Driver.Config called before Configure")
	}
	return d.cfg
}

// Schedule returns the output schedule registered with the simulation.
func (d *Driver) Schedule() OutputSchedule {
	return d.schedule
}

func (d *Driver) expect(want DriverState, op string) {
	if d.state != want {
		panic(fmt.Sprintf("sim: Driver.%s called in state %s, want %s", op, d.state, want))
	}
}

func (d *Driver) transition(to DriverState) {
	logrus.Debugf("[run %s] %s -> %s", d.RunID, d.state, to)
	d.state = to
}

func (d *Driver) fail(err error) error {
	d.transition(StateFailed)
	return err
}

// Configure resolves defaults on cfg, validates it and keeps the result.
func (d *Driver) Configure(cfg RunConfig) error {
	d.expect(StateUnconfigured, "Configure")
	cfg.ResolveDefaults()
	if err := cfg.Validate(); err != nil {
		return d.fail(err)
	}
	d.cfg = cfg
	d.transition(StateConfigured)
	return nil
}

// Register builds the simulation for p, prints the output header and
// registers every scheduled output: the major sequence, then the minor one.
func (d *Driver) Register(p Problem) error {
	d.expect(StateConfigured, "Register")
	s, err := d.factory(d.RunID, p, d.cfg)
	if err != nil {
		return d.fail(fmt.Errorf("create simulation for problem %s: %w", p.Variant, err))
	}
	d.sim = s

	// The header must precede any output the simulation writes.
	if _, err := fmt.Fprintf(d.out, "%s\ntime,%s\n", s.Name(), s.Metric()); err != nil {
		return d.fail(fmt.Errorf("write header: %w", err))
	}

	d.schedule = ComputeSchedule(d.cfg)
	logrus.Infof("[run %s] registering %d major and %d minor outputs (log=%v)",
		d.RunID, len(d.schedule.Major), len(d.schedule.Minor), d.cfg.LogScale)
	for _, ev := range d.schedule.Events() {
		logrus.Tracef("[run %s] register %s output at t=%g", d.RunID, ev.Kind(), ev.Time)
		s.RegisterOutput(ev.Time, ev.Major)
	}
	d.transition(StateScheduled)
	return nil
}

// Run advances the simulation to the configured end time. Simulation errors
// are returned wrapped, never swallowed.
func (d *Driver) Run(ctx context.Context) error {
	d.expect(StateScheduled, "Run")
	logrus.Infof("[run %s] running %s until t=%g (dt=%g, grid=%d)",
		d.RunID, d.sim.Name(), d.cfg.EndTime, d.cfg.Dt, d.cfg.GridPoints)
	if err := d.sim.RunUntil(ctx, d.cfg.EndTime); err != nil {
		return d.fail(fmt.Errorf("run %s: %w", d.sim.Name(), err))
	}
	if t, ok := d.sim.(Traced); ok {
		sum := trace.Summarize(t.Trace())
		logrus.Infof("[run %s] performed %d major and %d minor outputs; %s range [%g, %g]",
			d.RunID, sum.MajorCount, sum.MinorCount, d.sim.Metric(), sum.MinMetric, sum.MaxMetric)
	}
	d.transition(StateCompleted)
	return nil
}

// Execute performs Configure, Register and Run in sequence.
func (d *Driver) Execute(ctx context.Context, cfg RunConfig, p Problem) error {
	if err := d.Configure(cfg); err != nil {
		return err
	}
	if err := d.Register(p); err != nil {
		return err
	}
	return d.Run(ctx)
}
