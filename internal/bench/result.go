// Package bench is the measurement engine: it spawns a command once per
// run with its output discarded, measures wall-clock duration, and samples
// the child's resident memory from a background goroutine while the run is
// in flight. Runs within a command, and commands within an invocation, are
// strictly sequential so that benchmark subjects never contend with each
// other.
package bench

import "time"

// RunResult is one measured execution of a command. Immutable once
// produced.
type RunResult struct {
	// Duration is the wall-clock time from spawn success to exit
	// observation.
	Duration time.Duration `json:"duration_ns"`

	// PeakMemoryBytes is the highest resident set size sampled during
	// the run. 0 means the process exited before it could be measured.
	PeakMemoryBytes uint64 `json:"peak_memory_bytes"`

	// ExitCode is nil when the process was terminated by a signal.
	ExitCode *int `json:"exit_code"`
}

// Failed reports whether the run counts as failed: a non-zero exit code,
// or termination by signal.
func (r RunResult) Failed() bool {
	return r.ExitCode == nil || *r.ExitCode != 0
}
