package report

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// FormatDuration renders a duration at the precision a human cares about
// for benchmarks: µs below a millisecond, up to minutes.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs >= 60:
		mins := int(secs / 60)
		return fmt.Sprintf("%dm %.3fs", mins, secs-float64(mins)*60)
	case secs >= 1:
		return fmt.Sprintf("%.3fs", secs)
	case secs >= 0.001:
		return fmt.Sprintf("%.1fms", secs*1000)
	default:
		return fmt.Sprintf("%.0fµs", secs*1e6)
	}
}

// FormatBytes renders a byte count in binary units. 0 means the value was
// never measured, not that the process used no memory.
func FormatBytes(b uint64) string {
	if b == 0 {
		return "N/A"
	}
	return units.BytesSize(float64(b))
}
