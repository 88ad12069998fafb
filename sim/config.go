package sim

import (
	"fmt"
	"math"
	"strconv"
)

// Option names accepted by RunConfig.Set. They double as the CLI long flags
// and as the keys of a YAML run file.
const (
	OptGrid         = "grid"
	OptDt           = "dt"
	OptEndTime      = "endtime"
	OptMajorOutputs = "majoroutputs"
	OptMinorOutputs = "minoroutputs"
	OptStartOutput  = "startoutput"
	OptEndOutput    = "endoutput"
	OptLogScale     = "log"
	OptOutputAtZero = "outputatzero"
)

// RunConfig is the parameter set for one simulation run.
// The zero value means "nothing provided"; populate it with Set, then call
// ResolveDefaults and Validate before handing it to a Driver.
// A validated RunConfig is passed by value and never mutated afterwards.
type RunConfig struct {
	GridPoints   int     // grid points per spatial dimension (> 0)
	Dt           float64 // timestep size (> 0)
	EndTime      float64 // simulation stop time; 0 = take EndOutput
	StartOutput  float64 // first output time, inclusive
	EndOutput    float64 // last output time, inclusive; 0 = take EndTime
	MajorOutputs int     // number of major outputs (e.g. field snapshots)
	MinorOutputs int     // number of minor outputs (e.g. free energy)
	LogScale     bool    // space outputs logarithmically instead of linearly
	OutputAtZero bool    // add an output pair at t=0 independent of the window
}

// Set assigns one field from its textual value. No validation is performed
// beyond parsing the value; a later Set of the same option overwrites the earlier one.
// Flags (log, outputatzero) accept any strconv.ParseBool value.
func (c *RunConfig) Set(option, value string) error {
	var err error
	switch option {
	case OptGrid:
		c.GridPoints, err = strconv.Atoi(value)
	case OptDt:
		c.Dt, err = strconv.ParseFloat(value, 64)
	case OptEndTime:
		c.EndTime, err = strconv.ParseFloat(value, 64)
	case OptMajorOutputs:
		c.MajorOutputs, err = strconv.Atoi(value)
	case OptMinorOutputs:
		c.MinorOutputs, err = strconv.Atoi(value)
	case OptStartOutput:
		c.StartOutput, err = strconv.ParseFloat(value, 64)
	case OptEndOutput:
		c.EndOutput, err = strconv.ParseFloat(value, 64)
	case OptLogScale:
		c.LogScale, err = strconv.ParseBool(value)
	case OptOutputAtZero:
		c.OutputAtZero, err = strconv.ParseBool(value)
	default:
		return &ConfigError{Option: option, Reason: "unrecognized option", Err: ErrUnrecognizedOption}
	}
	if err != nil {
		return &ConfigError{Option: option, Reason: fmt.Sprintf("invalid value %q", value), Err: ErrConfigInvalid}
	}
	return nil
}

// ResolveDefaults makes EndTime and EndOutput default to each other when
// exactly one of them is unset (zero). Idempotent.
func (c *RunConfig) ResolveDefaults() {
	if c.EndOutput == 0 && c.EndTime != 0 {
		c.EndOutput = c.EndTime
	}
	if c.EndTime == 0 && c.EndOutput != 0 {
		c.EndTime = c.EndOutput
	}
}

// Outputting reports whether any outputs are requested.
func (c RunConfig) Outputting() bool {
	return c.MajorOutputs > 0 || c.MinorOutputs > 0
}

// Validate checks the invariants in a fixed order and returns a *ConfigError
// wrapping ErrConfigInvalid for the first one violated. Window checks are
// skipped entirely when no outputs are requested.
func (c RunConfig) Validate() error {
	if c.GridPoints <= 0 {
		return invalid("grid points must be specified and positive")
	}
	// Negated comparisons so that NaN fails too.
	if !(c.Dt > 0) || math.IsInf(c.Dt, 1) {
		return invalid("dt must be specified and positive")
	}
	if !(c.EndTime > 0) || math.IsInf(c.EndTime, 1) {
		return invalid("end time must be specified and positive")
	}
	if c.MajorOutputs < 0 || c.MinorOutputs < 0 {
		return invalid("output counts cannot be negative")
	}
	if !c.Outputting() {
		return nil
	}
	if !(c.StartOutput < c.EndOutput) {
		return invalid("startoutput cannot be >= endoutput when outputting")
	}
	if c.StartOutput < 0 || c.EndOutput < 0 {
		return invalid("output bounds cannot be negative")
	}
	// +Inf passes the ordering and sign checks above.
	if math.IsInf(c.EndOutput, 1) {
		return invalid("output bounds must be finite")
	}
	// log10(0) = -Inf
	if c.LogScale && c.StartOutput == 0 {
		return invalid("log-scale outputs cannot start at 0; use --outputatzero instead")
	}
	return nil
}
