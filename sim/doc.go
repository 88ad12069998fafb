// Package sim provides the run layer for the PFHub1a spinodal decomposition benchmarks.
//
// # Reading Guide
//
// Start with these files to understand a run:
//   - config.go: RunConfig, option parsing, default resolution and validation
//   - schedule.go: linear and log-spaced output schedules
//   - variant.go: problem variants (2017, 2023, custom) and their coefficients
//   - driver.go: the Driver state machine (configure → register → run)
//
// # Architecture
//
// The sim package defines the Simulation interface and the types that flow
// through a run; the solver lives in a sub-package:
//   - sim/pfhub/: semi-implicit spectral Cahn–Hilliard solver, worker runtime, snapshots
//   - sim/trace/: output trace recording and summary
//
// A Driver builds its Simulation through a SimulationFactory, so callers pick
// the solver (and tests substitute a stub) without the driver knowing about it.
//
// # Error Handling
//
// Input problems are reported as errors wrapping one of the sentinels in
// errors.go (ErrConfigInvalid, ErrUnrecognizedOption, ErrUnknownVariant,
// ErrInsufficientCoefficients, ErrInvalidCoefficient). Calling Driver methods
// out of order is a programming error and panics.
package sim
