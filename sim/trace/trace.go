package trace

// TraceLevel controls the verbosity of output tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelOutputs captures every performed output.
	TraceLevelOutputs TraceLevel = "outputs"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelOutputs: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects output records during a run.
// A nil *SimulationTrace is safe to record into; records are dropped.
type SimulationTrace struct {
	Level   TraceLevel
	Outputs []OutputRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:   level,
		Outputs: make([]OutputRecord, 0),
	}
}

// RecordOutput appends an output record when the level captures outputs.
func (st *SimulationTrace) RecordOutput(record OutputRecord) {
	if st == nil || st.Level != TraceLevelOutputs {
		return
	}
	st.Outputs = append(st.Outputs, record)
}
