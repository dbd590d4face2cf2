//go:build linux

package bench

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// residentBytes reads the current resident set size of pid from
// /proc/<pid>/statm (second field, in pages). A zero-signal kill probes
// for existence first so an exited or recycled PID is not misread.
func residentBytes(pid int) (uint64, error) {
	if err := unix.Kill(pid, 0); err != nil {
		return 0, fmt.Errorf("probe pid %d: %w", pid, err)
	}

	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/statm", pid))
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed statm for pid %d", pid)
	}

	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse statm for pid %d: %w", pid, err)
	}

	return pages * uint64(os.Getpagesize()), nil
}
