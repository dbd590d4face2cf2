package bench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohsinrashid64/clash-cli/internal/cmdline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireUnixShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests exercise sh")
	}
}

func TestBenchmarkCollectsResultsInOrder(t *testing.T) {
	requireUnixShell(t)

	type event struct {
		phase     Phase
		completed int
		total     int
	}
	var events []event

	r := NewRunner(Options{
		Runs:   3,
		Warmup: 1,
		Progress: func(phase Phase, completed, total int) {
			events = append(events, event{phase, completed, total})
		},
	}, testLogger())

	results, err := r.Benchmark(context.Background(), `sh -c "exit 0"`)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, res := range results {
		assert.Greater(t, res.Duration, time.Duration(0))
		require.NotNil(t, res.ExitCode)
		assert.Equal(t, 0, *res.ExitCode)
		assert.False(t, res.Failed())
	}

	// One warmup event, then three measured events, in order.
	require.Len(t, events, 4)
	assert.Equal(t, event{PhaseWarmup, 1, 1}, events[0])
	for i := 1; i < 4; i++ {
		assert.Equal(t, event{PhaseMeasure, i, 3}, events[i])
	}
}

func TestBenchmarkNonZeroExitIsRecordedNotFatal(t *testing.T) {
	requireUnixShell(t)

	r := NewRunner(Options{Runs: 2}, testLogger())
	results, err := r.Benchmark(context.Background(), `sh -c "exit 7"`)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		require.NotNil(t, res.ExitCode)
		assert.Equal(t, 7, *res.ExitCode)
		assert.True(t, res.Failed())
	}
}

func TestBenchmarkSignalTermination(t *testing.T) {
	requireUnixShell(t)

	r := NewRunner(Options{Runs: 1}, testLogger())
	results, err := r.Benchmark(context.Background(), `sh -c 'kill -9 $$'`)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Nil(t, results[0].ExitCode)
	assert.True(t, results[0].Failed())
}

func TestBenchmarkSpawnFailureIsFatal(t *testing.T) {
	r := NewRunner(Options{Runs: 2}, testLogger())
	_, err := r.Benchmark(context.Background(), "/definitely/not/a/real/binary-xyz")
	assert.ErrorIs(t, err, ErrSpawn)
}

func TestBenchmarkSpawnFailureDuringWarmupIsFatal(t *testing.T) {
	r := NewRunner(Options{Runs: 1, Warmup: 1}, testLogger())
	_, err := r.Benchmark(context.Background(), "/definitely/not/a/real/binary-xyz")
	assert.ErrorIs(t, err, ErrSpawn)
}

func TestBenchmarkTokenizerErrorsPropagate(t *testing.T) {
	r := NewRunner(Options{Runs: 1}, testLogger())

	_, err := r.Benchmark(context.Background(), "   ")
	assert.ErrorIs(t, err, cmdline.ErrEmptyCommand)

	_, err = r.Benchmark(context.Background(), `echo "unterminated`)
	assert.ErrorIs(t, err, cmdline.ErrUnclosedQuote)
}

func TestSamplerObservesOwnProcess(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("resident memory sampling is linux-only")
	}

	s := newMemSampler(os.Getpid(), time.Millisecond)
	s.start()
	time.Sleep(10 * time.Millisecond)
	peak := s.stop()

	assert.Greater(t, peak, uint64(0))
}

func TestSamplerGonePIDReportsZero(t *testing.T) {
	// Beyond the default pid_max, so never a live process.
	s := newMemSampler(1<<22+7, time.Millisecond)
	s.start()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, uint64(0), s.stop())
}
