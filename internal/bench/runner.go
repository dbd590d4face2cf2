package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/mohsinrashid64/clash-cli/internal/cmdline"
)

// Sentinel errors. Both are fatal to the whole benchmark invocation: a
// command that cannot be launched or awaited invalidates any comparison.
var (
	ErrSpawn = errors.New("failed to spawn command")
	ErrWait  = errors.New("failed to wait for command")
)

// Phase identifies which stage of a benchmark a progress event belongs to.
type Phase int

const (
	PhaseWarmup Phase = iota
	PhaseMeasure
)

// ProgressFunc is invoked after each completed run, outside the timed
// section, so reporting cost never leaks into a measurement.
type ProgressFunc func(phase Phase, completed, total int)

// Options configures a Runner.
type Options struct {
	Runs           int           // measured runs per command, >= 1
	Warmup         int           // discarded priming runs, >= 0
	SampleInterval time.Duration // memory poll interval, 0 = DefaultSampleInterval
	Progress       ProgressFunc  // optional
}

// Runner executes one command string repeatedly and collects RunResults.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

func NewRunner(opts Options, logger *slog.Logger) *Runner {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	if opts.Warmup < 0 {
		opts.Warmup = 0
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = DefaultSampleInterval
	}
	return &Runner{opts: opts, logger: logger}
}

// Benchmark tokenizes command, executes the warmup runs (results
// discarded, spawn failures still fatal), then the measured runs, and
// returns one RunResult per measured run in execution order.
func (r *Runner) Benchmark(ctx context.Context, command string) ([]RunResult, error) {
	argv, err := cmdline.Split(command)
	if err != nil {
		return nil, err
	}

	for i := 0; i < r.opts.Warmup; i++ {
		if _, err := r.runOnce(ctx, argv); err != nil {
			return nil, err
		}
		r.report(PhaseWarmup, i+1, r.opts.Warmup)
	}

	results := make([]RunResult, 0, r.opts.Runs)
	for i := 0; i < r.opts.Runs; i++ {
		res, err := r.runOnce(ctx, argv)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("run complete",
			"command", argv[0],
			"run", i+1,
			"duration", res.Duration,
			"peak_memory_bytes", res.PeakMemoryBytes,
			"failed", res.Failed(),
		)
		results = append(results, res)
		r.report(PhaseMeasure, i+1, r.opts.Runs)
	}

	return results, nil
}

// runOnce spawns the command once with stdout and stderr discarded,
// samples its memory concurrently, and blocks until it exits. The sampler
// is stopped and joined only after the wait returns, so its final sample
// races against process exit but never blocks it.
func (r *Runner) runOnce(ctx context.Context, argv []string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Stdout and Stderr stay nil: the child writes to the null device,
	// output is neither inherited nor captured.

	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("%w %q: %v", ErrSpawn, argv[0], err)
	}

	sampler := newMemSampler(cmd.Process.Pid, r.opts.SampleInterval)
	sampler.start()

	start := time.Now()
	waitErr := cmd.Wait()
	duration := time.Since(start)

	peak := sampler.stop()

	if ctx.Err() != nil {
		return RunResult{}, ctx.Err()
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return RunResult{}, fmt.Errorf("%w %q: %v", ErrWait, argv[0], waitErr)
	}

	res := RunResult{
		Duration:        duration,
		PeakMemoryBytes: peak,
	}
	// A non-zero or signal exit is data, not an error: it flows into the
	// statistics and is surfaced as a warning by the presentation layer.
	if state := cmd.ProcessState; state.Exited() {
		code := state.ExitCode()
		res.ExitCode = &code
	}

	return res, nil
}

func (r *Runner) report(phase Phase, completed, total int) {
	if r.opts.Progress != nil {
		r.opts.Progress(phase, completed, total)
	}
}
