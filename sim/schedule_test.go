package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfhub-sim/pfhub-sim/sim/internal/testutil"
)

func times(events []OutputEvent) []float64 {
	ts := make([]float64, len(events))
	for i, e := range events {
		ts[i] = e.Time
	}
	return ts
}

func TestComputeSchedule_Linear_FiveMajor(t *testing.T) {
	// GIVEN five linear major outputs over [0, 10]
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 10, EndOutput: 10, MajorOutputs: 5}
	require.NoError(t, cfg.Validate())

	// WHEN the schedule is computed
	s := ComputeSchedule(cfg)

	// THEN major timestamps are exactly evenly spaced and strictly increasing
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, times(s.Major))
	for _, e := range s.Major {
		assert.True(t, e.Major)
	}
	for i := 1; i < len(s.Major); i++ {
		assert.Greater(t, s.Major[i].Time, s.Major[i-1].Time)
	}
	assert.Empty(t, s.Minor)
}

func TestComputeSchedule_Log_ThreeMinor(t *testing.T) {
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 100, StartOutput: 1, EndOutput: 100, MinorOutputs: 3, LogScale: true}
	require.NoError(t, cfg.Validate())

	s := ComputeSchedule(cfg)

	assert.Equal(t, []float64{1, 10, 100}, times(s.Minor))
	for _, e := range s.Minor {
		assert.False(t, e.Major)
	}
	assert.Empty(t, s.Major)
}

func TestComputeSchedule_OutputAtZero_PositiveStart_PrependsPair(t *testing.T) {
	// GIVEN outputatzero with a window starting at 5
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 25, StartOutput: 5, EndOutput: 25,
		MajorOutputs: 2, MinorOutputs: 3, OutputAtZero: true}

	// WHEN the schedule is computed
	s := ComputeSchedule(cfg)

	// THEN both sequences start with a t=0 event, followed by the regular schedule
	assert.Equal(t, []float64{0, 5, 25}, times(s.Major))
	assert.Equal(t, []float64{0, 5, 15, 25}, times(s.Minor))
	assert.True(t, s.Major[0].Major)
	assert.False(t, s.Minor[0].Major)
	assert.Equal(t, cfg.MajorOutputs+cfg.MinorOutputs+2, s.Len())
}

func TestComputeSchedule_OutputAtZero_ZeroStart_NoDuplicate(t *testing.T) {
	// GIVEN outputatzero with a window already starting at 0
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 4, EndOutput: 4,
		MajorOutputs: 3, MinorOutputs: 2, OutputAtZero: true}

	s := ComputeSchedule(cfg)

	// THEN t=0 appears once per kind, from the regular schedule
	assert.Equal(t, []float64{0, 2, 4}, times(s.Major))
	assert.Equal(t, []float64{0, 4}, times(s.Minor))
	assert.Equal(t, cfg.MajorOutputs+cfg.MinorOutputs, s.Len())
}

func TestComputeSchedule_OutputAtZero_NoOutputsInWindow_StillPrependsPair(t *testing.T) {
	// The zero pair does not depend on the per-kind counts.
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 4, StartOutput: 1, EndOutput: 4, OutputAtZero: true}

	s := ComputeSchedule(cfg)

	assert.Equal(t, []OutputEvent{{Time: 0, Major: true}}, s.Major)
	assert.Equal(t, []OutputEvent{{Time: 0, Major: false}}, s.Minor)
}

func TestComputeSchedule_CountOne_SingleEventAtStart(t *testing.T) {
	tests := []struct {
		name     string
		logScale bool
	}{
		{"linear", false},
		{"log", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 50, StartOutput: 5, EndOutput: 50,
				MajorOutputs: 1, MinorOutputs: 1, LogScale: tt.logScale}

			s := ComputeSchedule(cfg)

			require.Len(t, s.Major, 1)
			require.Len(t, s.Minor, 1)
			testutil.AssertFloat64Equal(t, "major", 5, s.Major[0].Time, 1e-12)
			testutil.AssertFloat64Equal(t, "minor", 5, s.Minor[0].Time, 1e-12)
		})
	}
}

func TestComputeSchedule_ZeroCounts_NoEvents(t *testing.T) {
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 10, StartOutput: 20, EndOutput: 3}
	s := ComputeSchedule(cfg)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Events())
}

func TestComputeSchedule_Deterministic(t *testing.T) {
	cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 1e4, StartOutput: 0.3, EndOutput: 1e4,
		MajorOutputs: 17, MinorOutputs: 101, LogScale: true, OutputAtZero: true}
	assert.Equal(t, ComputeSchedule(cfg), ComputeSchedule(cfg))
}

func TestComputeSchedule_NonDecreasingWithinKind(t *testing.T) {
	for _, logScale := range []bool{false, true} {
		cfg := RunConfig{GridPoints: 8, Dt: 1, EndTime: 1000, StartOutput: 0.5, EndOutput: 1000,
			MajorOutputs: 13, MinorOutputs: 250, LogScale: logScale, OutputAtZero: true}
		s := ComputeSchedule(cfg)
		for _, seq := range [][]OutputEvent{s.Major, s.Minor} {
			for i := 1; i < len(seq); i++ {
				assert.GreaterOrEqual(t, seq[i].Time, seq[i-1].Time, "log=%v index %d", logScale, i)
			}
		}
	}
}

func TestOutputSchedule_Events_MajorThenMinor(t *testing.T) {
	s := OutputSchedule{
		Major: []OutputEvent{{Time: 5, Major: true}, {Time: 10, Major: true}},
		Minor: []OutputEvent{{Time: 1}, {Time: 5}},
	}
	assert.Equal(t, []OutputEvent{
		{Time: 5, Major: true}, {Time: 10, Major: true}, {Time: 1}, {Time: 5},
	}, s.Events())
}

func TestOutputEvent_Kind(t *testing.T) {
	assert.Equal(t, "major", OutputEvent{Major: true}.Kind())
	assert.Equal(t, "minor", OutputEvent{}.Kind())
}

func TestComputeSchedule_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			cfg := RunConfig{
				GridPoints:   16,
				Dt:           0.01,
				EndTime:      tc.EndTime,
				StartOutput:  tc.StartOutput,
				EndOutput:    tc.EndOutput,
				MajorOutputs: tc.MajorOutputs,
				MinorOutputs: tc.MinorOutputs,
				LogScale:     tc.LogScale,
				OutputAtZero: tc.OutputAtZero,
			}
			require.NoError(t, cfg.Validate())

			s := ComputeSchedule(cfg)

			assert.Equal(t, tc.Major, times(s.Major), "major")
			assert.Equal(t, tc.Minor, times(s.Minor), "minor")
		})
	}
}
