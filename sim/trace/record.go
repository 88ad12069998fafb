// Package trace records the outputs a simulation actually performs during a run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// OutputRecord captures a single performed output.
type OutputRecord struct {
	Time   float64 // simulation time the output was registered for
	Clock  float64 // simulation time at which it was performed
	Step   int     // timestep count at which it was performed
	Major  bool
	Metric float64 // minor outputs: the reported metric; major outputs: 0
	Path   string  // major outputs: snapshot file written, if any
}
