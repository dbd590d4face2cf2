// Package stats reduces raw run results into per-command summaries and
// computes pairwise winner/ratio comparisons across commands.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/mohsinrashid64/clash-cli/internal/bench"
)

// Label bounds for display: commands longer than maxLabelLen characters
// (after trimming) are cut at labelCutLen and suffixed with an ellipsis.
const (
	maxLabelLen = 30
	labelCutLen = 27
	ellipsis    = "…"
)

// CommandStats aggregates all measured runs of one command. Built once
// after the command's runs complete; never mutated afterward.
type CommandStats struct {
	Command         string            `json:"command"`
	Label           string            `json:"label"`
	Runs            int               `json:"runs"`
	TimeMean        time.Duration     `json:"time_mean_ns"`
	TimeMin         time.Duration     `json:"time_min_ns"`
	TimeMax         time.Duration     `json:"time_max_ns"`
	TimeStdDev      time.Duration     `json:"time_std_dev_ns"`
	PeakMemoryBytes uint64            `json:"peak_memory_bytes"`
	AllRuns         []bench.RunResult `json:"all_runs"`
	FailedRuns      int               `json:"failed_runs"`
}

// Comparison is the outcome of ranking commands on one metric. Ratio is
// the slowest-or-largest value divided by the fastest-or-smallest, so it
// is always >= 1.0.
type Comparison struct {
	WinnerIndex int
	Ratio       float64
}

// Compute aggregates the results of one command. results must be
// non-empty; the runner guarantees at least one measured run.
func Compute(command string, results []bench.RunResult) CommandStats {
	durations := make([]float64, len(results))
	for i, r := range results {
		durations[i] = r.Duration.Seconds()
	}

	n := float64(len(durations))
	var sum float64
	minD, maxD := durations[0], durations[0]
	for _, d := range durations {
		sum += d
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	mean := sum / n

	// Sample standard deviation (Bessel-corrected); exactly 0 for n == 1.
	var stdDev float64
	if len(durations) > 1 {
		var sq float64
		for _, d := range durations {
			sq += (d - mean) * (d - mean)
		}
		stdDev = math.Sqrt(sq / (n - 1))
	}

	var peakMemory uint64
	failed := 0
	for _, r := range results {
		if r.PeakMemoryBytes > peakMemory {
			peakMemory = r.PeakMemoryBytes
		}
		if r.Failed() {
			failed++
		}
	}

	return CommandStats{
		Command:         command,
		Label:           makeLabel(command),
		Runs:            len(results),
		TimeMean:        secondsToDuration(mean),
		TimeMin:         secondsToDuration(minD),
		TimeMax:         secondsToDuration(maxD),
		TimeStdDev:      secondsToDuration(stdDev),
		PeakMemoryBytes: peakMemory,
		AllRuns:         results,
		FailedRuns:      failed,
	}
}

// CompareTime ranks commands by mean duration. Returns nil for fewer
// than two commands.
func CompareTime(all []CommandStats) *Comparison {
	if len(all) < 2 {
		return nil
	}
	values := make([]float64, len(all))
	for i, s := range all {
		values[i] = s.TimeMean.Seconds()
	}
	return compare(values)
}

// CompareMemory ranks commands by peak memory. Returns nil for fewer than
// two commands, or when any command's peak is 0 (unmeasured): a ratio
// against an unmeasured value would be meaningless.
func CompareMemory(all []CommandStats) *Comparison {
	if len(all) < 2 {
		return nil
	}
	values := make([]float64, len(all))
	for i, s := range all {
		if s.PeakMemoryBytes == 0 {
			return nil
		}
		values[i] = float64(s.PeakMemoryBytes)
	}
	return compare(values)
}

// compare picks the minimum as the winner. Ties go to the earliest index.
func compare(values []float64) *Comparison {
	minIdx := 0
	minVal, maxVal := values[0], values[0]
	for i, v := range values {
		if v < minVal {
			minVal = v
			minIdx = i
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return &Comparison{WinnerIndex: minIdx, Ratio: maxVal / minVal}
}

func makeLabel(command string) string {
	trimmed := strings.TrimSpace(command)
	runes := []rune(trimmed)
	if len(runes) <= maxLabelLen {
		return trimmed
	}
	return string(runes[:labelCutLen]) + ellipsis
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
