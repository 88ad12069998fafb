package sim

import "math"

// OutputEvent is a point in simulation time at which the simulation should
// perform a major or a minor output.
type OutputEvent struct {
	Time  float64
	Major bool
}

// Kind returns "major" or "minor".
func (e OutputEvent) Kind() string {
	if e.Major {
		return "major"
	}
	return "minor"
}

// OutputSchedule holds the two independent output sequences of a run.
// Each sequence is in non-decreasing time order; no ordering holds across them.
type OutputSchedule struct {
	Major []OutputEvent
	Minor []OutputEvent
}

// Len returns the total number of events.
func (s OutputSchedule) Len() int {
	return len(s.Major) + len(s.Minor)
}

// Events returns the major sequence followed by the minor sequence,
// which is the order a Driver registers them in.
func (s OutputSchedule) Events() []OutputEvent {
	events := make([]OutputEvent, 0, s.Len())
	events = append(events, s.Major...)
	return append(events, s.Minor...)
}

// ComputeSchedule derives the output events for a validated RunConfig.
//
// Outputs of each kind are spread evenly over [StartOutput, EndOutput], both
// ends inclusive, in linear or log10 space. A count of 1 yields a single
// event at StartOutput. With OutputAtZero and a window starting after 0, one
// extra event of each kind is placed at t=0 ahead of the regular sequence; a
// window starting at 0 already produces it.
func ComputeSchedule(cfg RunConfig) OutputSchedule {
	var s OutputSchedule
	if cfg.OutputAtZero && cfg.StartOutput > 0 {
		s.Major = append(s.Major, OutputEvent{Time: 0, Major: true})
		s.Minor = append(s.Minor, OutputEvent{Time: 0, Major: false})
	}

	low, high := cfg.StartOutput, cfg.EndOutput
	if cfg.LogScale {
		low, high = math.Log10(low), math.Log10(high)
	}
	s.Major = appendSpaced(s.Major, cfg.MajorOutputs, low, high, cfg.LogScale, true)
	s.Minor = appendSpaced(s.Minor, cfg.MinorOutputs, low, high, cfg.LogScale, false)
	return s
}

func appendSpaced(dst []OutputEvent, count int, low, high float64, logScale, major bool) []OutputEvent {
	for i := 0; i < count; i++ {
		t := low
		if count > 1 {
			t = low + float64(i)*(high-low)/float64(count-1)
		}
		if logScale {
			t = math.Pow(10, t)
		}
		dst = append(dst, OutputEvent{Time: t, Major: major})
	}
	return dst
}
