package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfhub-sim/pfhub-sim/sim/trace"
)

// stubSimulation records every call the driver makes.
type stubSimulation struct {
	registered []OutputEvent
	runCalls   []float64
	runErr     error
	trace      *trace.SimulationTrace
}

func (s *stubSimulation) Name() string   { return "StubProblem" }
func (s *stubSimulation) Metric() string { return "energy" }

func (s *stubSimulation) RegisterOutput(t float64, major bool) {
	s.registered = append(s.registered, OutputEvent{Time: t, Major: major})
}

func (s *stubSimulation) RunUntil(_ context.Context, endTime float64) error {
	s.runCalls = append(s.runCalls, endTime)
	return s.runErr
}

type tracedStub struct {
	stubSimulation
}

func (s *tracedStub) Trace() *trace.SimulationTrace { return s.trace }

func stubFactory(s Simulation, gotProblem *Problem) SimulationFactory {
	return func(runID string, p Problem, cfg RunConfig) (Simulation, error) {
		if gotProblem != nil {
			*gotProblem = p
		}
		return s, nil
	}
}

func TestDriver_Execute_RegistersEveryEventThenRuns(t *testing.T) {
	// GIVEN a stub simulation and a config with a zero prefix
	stub := &stubSimulation{}
	var out bytes.Buffer
	var gotProblem Problem
	d := NewDriver(stubFactory(stub, &gotProblem), &out)
	cfg := RunConfig{GridPoints: 32, Dt: 0.5, EndTime: 40, StartOutput: 10, EndOutput: 30,
		MajorOutputs: 3, MinorOutputs: 5, OutputAtZero: true}

	// WHEN the run is executed
	err := d.Execute(context.Background(), cfg, Problem{Variant: VariantCHiMaD2023})

	// THEN every event is registered once: majors then minors, plus the zero pair
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, d.State())
	assert.Len(t, stub.registered, cfg.MajorOutputs+cfg.MinorOutputs+2)
	assert.Equal(t, []OutputEvent{
		{Time: 0, Major: true}, {Time: 10, Major: true}, {Time: 20, Major: true}, {Time: 30, Major: true},
		{Time: 0}, {Time: 10}, {Time: 15}, {Time: 20}, {Time: 25}, {Time: 30},
	}, stub.registered)

	// AND the schedule the driver reports is the one it registered
	assert.Equal(t, stub.registered, d.Schedule().Events())
	assert.Equal(t, 4, len(d.Schedule().Major))

	// AND run is called exactly once with the end time
	assert.Equal(t, []float64{40}, stub.runCalls)
	assert.Equal(t, VariantCHiMaD2023, gotProblem.Variant)

	// AND the header precedes everything else
	assert.Equal(t, "StubProblem\ntime,energy\n", out.String())
}

func TestDriver_Execute_NoZeroPrefixWhenWindowStartsAtZero(t *testing.T) {
	stub := &stubSimulation{}
	d := NewDriver(stubFactory(stub, nil), &bytes.Buffer{})
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndOutput: 8, MajorOutputs: 2, MinorOutputs: 4, OutputAtZero: true}

	require.NoError(t, d.Execute(context.Background(), cfg, Problem{}))

	assert.Len(t, stub.registered, cfg.MajorOutputs+cfg.MinorOutputs)
}

func TestDriver_Configure_ResolvesDefaults(t *testing.T) {
	d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
	require.NoError(t, d.Configure(RunConfig{GridPoints: 8, Dt: 1, EndOutput: 12, MinorOutputs: 2}))
	assert.Equal(t, StateConfigured, d.State())
	assert.Equal(t, 12.0, d.Config().EndTime)
}

func TestDriver_Configure_InvalidConfig_Fails(t *testing.T) {
	// GIVEN a config without grid points
	stub := &stubSimulation{}
	d := NewDriver(stubFactory(stub, nil), &bytes.Buffer{})

	// WHEN configured
	err := d.Configure(RunConfig{Dt: 1, EndTime: 10})

	// THEN it fails and nothing reaches the simulation
	assert.ErrorIs(t, err, ErrConfigInvalid)
	assert.Equal(t, StateFailed, d.State())
	assert.Empty(t, stub.registered)
	assert.Empty(t, stub.runCalls)
}

func TestDriver_Register_FactoryError_Fails(t *testing.T) {
	d := NewDriver(func(string, Problem, RunConfig) (Simulation, error) {
		return nil, ErrInsufficientCoefficients
	}, &bytes.Buffer{})
	require.NoError(t, d.Configure(RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}))

	err := d.Register(Problem{Variant: VariantCustom})

	assert.ErrorIs(t, err, ErrInsufficientCoefficients)
	assert.Equal(t, StateFailed, d.State())
}

func TestDriver_Run_PropagatesSimulationError(t *testing.T) {
	// GIVEN a simulation that fails while running
	simErr := errors.New("solver exploded")
	stub := &stubSimulation{runErr: simErr}
	d := NewDriver(stubFactory(stub, nil), &bytes.Buffer{})

	// WHEN executed
	err := d.Execute(context.Background(), RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}, Problem{})

	// THEN the original error is reachable and the driver failed
	assert.ErrorIs(t, err, simErr)
	assert.Equal(t, StateFailed, d.State())
}

func TestDriver_Run_LogsTraceSummary(t *testing.T) {
	stub := &tracedStub{}
	stub.trace = trace.NewSimulationTrace(trace.TraceLevelOutputs)
	stub.trace.RecordOutput(trace.OutputRecord{Time: 1, Metric: 3})
	d := NewDriver(stubFactory(stub, nil), &bytes.Buffer{})

	require.NoError(t, d.Execute(context.Background(), RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}, Problem{}))
	assert.Equal(t, StateCompleted, d.State())
}

func TestDriver_OutOfOrderCalls_Panic(t *testing.T) {
	t.Run("register before configure", func(t *testing.T) {
		d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
		assert.Panics(t, func() { _ = d.Register(Problem{}) })
	})
	t.Run("run before register", func(t *testing.T) {
		d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
		require.NoError(t, d.Configure(RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}))
		assert.Panics(t, func() { _ = d.Run(context.Background()) })
	})
	t.Run("configure twice", func(t *testing.T) {
		d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
		require.NoError(t, d.Configure(RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}))
		assert.Panics(t, func() { _ = d.Configure(RunConfig{GridPoints: 8, Dt: 1, EndTime: 10}) })
	})
	t.Run("anything after failure", func(t *testing.T) {
		d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
		require.Error(t, d.Configure(RunConfig{}))
		assert.Panics(t, func() { _ = d.Register(Problem{}) })
	})
	t.Run("config before configure", func(t *testing.T) {
		d := NewDriver(stubFactory(&stubSimulation{}, nil), &bytes.Buffer{})
		assert.Panics(t, func() { _ = d.Config() })
	})
}

func TestDriver_RunIDsAreUnique(t *testing.T) {
	a := NewDriver(nil, &bytes.Buffer{})
	b := NewDriver(nil, &bytes.Buffer{})
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestDriverState_String(t *testing.T) {
	assert.Equal(t, "unconfigured", StateUnconfigured.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
}
