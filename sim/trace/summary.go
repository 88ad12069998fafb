package trace

import "math"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	MajorCount int
	MinorCount int
	MinMetric  float64 // over minor outputs; 0 when there are none
	MaxMetric  float64
	LastTime   float64 // latest clock at which an output was performed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	minM, maxM := math.Inf(1), math.Inf(-1)
	for _, r := range st.Outputs {
		if r.Major {
			summary.MajorCount++
		} else {
			summary.MinorCount++
			minM = math.Min(minM, r.Metric)
			maxM = math.Max(maxM, r.Metric)
		}
		if r.Clock > summary.LastTime {
			summary.LastTime = r.Clock
		}
	}
	if summary.MinorCount > 0 {
		summary.MinMetric, summary.MaxMetric = minM, maxM
	}
	return summary
}
