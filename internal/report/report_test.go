package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohsinrashid64/clash-cli/internal/bench"
	"github.com/mohsinrashid64/clash-cli/internal/stats"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{90*time.Second + 500*time.Millisecond, "1m 30.500s"},
		{2500 * time.Millisecond, "2.500s"},
		{1 * time.Second, "1.000s"},
		{42 * time.Millisecond, "42.0ms"},
		{1500 * time.Microsecond, "1.5ms"},
		{250 * time.Microsecond, "250µs"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.d))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "N/A", FormatBytes(0))
	assert.Equal(t, "4KiB", FormatBytes(4096))
	assert.Equal(t, "1.5MiB", FormatBytes(3*512*1024))
}

func sampleStats() []stats.CommandStats {
	zero := 0
	fast := []bench.RunResult{
		{Duration: 100 * time.Millisecond, PeakMemoryBytes: 1 << 20, ExitCode: &zero},
		{Duration: 120 * time.Millisecond, PeakMemoryBytes: 2 << 20, ExitCode: &zero},
	}
	slow := []bench.RunResult{
		{Duration: 300 * time.Millisecond, PeakMemoryBytes: 8 << 20, ExitCode: &zero},
		{Duration: 340 * time.Millisecond, PeakMemoryBytes: 8 << 20, ExitCode: &zero},
	}
	return []stats.CommandStats{
		stats.Compute("fast-cmd", fast),
		stats.Compute("slow-cmd", slow),
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)
	r.Render(New(2, 0, sampleStats()))

	out := buf.String()
	assert.Contains(t, out, "fast-cmd")
	assert.Contains(t, out, "slow-cmd")
	assert.Contains(t, out, "Mean")
	assert.Contains(t, out, "Peak RSS")
	assert.Contains(t, out, "is 2.91x faster")
	assert.Contains(t, out, "uses 4.00x less memory")
	assert.Contains(t, out, "Summary:")
}

func TestRenderReportMemoryUnavailable(t *testing.T) {
	all := sampleStats()
	for i := range all {
		all[i].PeakMemoryBytes = 0
	}

	var buf bytes.Buffer
	NewRenderer(&buf, true).Render(New(2, 0, all))

	assert.Contains(t, buf.String(), "Memory data unavailable")
	assert.NotContains(t, buf.String(), "Peak RSS")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	rep := New(2, 1, sampleStats())
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, rep.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.ID, decoded.ID)
	assert.Equal(t, 2, decoded.Runs)
	assert.Equal(t, 1, decoded.Warmup)
	require.Len(t, decoded.Commands, 2)
	assert.Equal(t, "fast-cmd", decoded.Commands[0].Command)
	require.Len(t, decoded.Commands[0].AllRuns, 2)
	assert.Equal(t, rep.Commands[0].AllRuns[0].Duration, decoded.Commands[0].AllRuns[0].Duration)
}
