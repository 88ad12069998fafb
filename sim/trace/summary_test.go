package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceLevelOutputs)

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero and the metric range is not infinite
	if summary.MajorCount != 0 || summary.MinorCount != 0 {
		t.Error("expected 0 major and minor outputs")
	}
	if summary.MinMetric != 0 || summary.MaxMetric != 0 {
		t.Errorf("expected zero metric range, got [%v, %v]", summary.MinMetric, summary.MaxMetric)
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.MajorCount != 0 || summary.LastTime != 0 {
		t.Error("expected zero summary for nil trace")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed major and minor outputs
	st := NewSimulationTrace(TraceLevelOutputs)
	st.RecordOutput(OutputRecord{Time: 0, Clock: 0, Major: true})
	st.RecordOutput(OutputRecord{Time: 0, Clock: 0, Metric: 320.5})
	st.RecordOutput(OutputRecord{Time: 10, Clock: 10, Metric: 300.25})
	st.RecordOutput(OutputRecord{Time: 20, Clock: 20.5, Metric: 280})
	st.RecordOutput(OutputRecord{Time: 20, Clock: 20.5, Major: true})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and ranges match
	if summary.MajorCount != 2 {
		t.Errorf("expected 2 major outputs, got %d", summary.MajorCount)
	}
	if summary.MinorCount != 3 {
		t.Errorf("expected 3 minor outputs, got %d", summary.MinorCount)
	}
	if summary.MinMetric != 280 || summary.MaxMetric != 320.5 {
		t.Errorf("expected metric range [280, 320.5], got [%v, %v]", summary.MinMetric, summary.MaxMetric)
	}
	if summary.LastTime != 20.5 {
		t.Errorf("expected last time 20.5, got %v", summary.LastTime)
	}
}
