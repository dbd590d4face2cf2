package bench

import (
	"sync/atomic"
	"time"
)

// DefaultSampleInterval is how often the sampler polls the child's
// resident memory. 30ms trades sampling fidelity against polling
// overhead; it is a tunable, not a contract.
const DefaultSampleInterval = 30 * time.Millisecond

// memSampler tracks the running maximum RSS of one process from a
// background goroutine. The only state shared with the run driving it is
// the monotonic peak and the alive flag, both atomic.
type memSampler struct {
	pid      int
	interval time.Duration
	peak     atomic.Uint64
	alive    atomic.Bool
	done     chan struct{}
}

func newMemSampler(pid int, interval time.Duration) *memSampler {
	s := &memSampler{pid: pid, interval: interval, done: make(chan struct{})}
	s.alive.Store(true)
	return s
}

// start launches the sampling goroutine. It samples immediately so very
// short-lived processes still have a chance of being observed, then on
// every interval until stop clears the alive flag.
func (s *memSampler) start() {
	go func() {
		defer close(s.done)
		for s.alive.Load() {
			s.sample()
			time.Sleep(s.interval)
		}
		// One last sample after the run signalled completion, to catch a
		// peak between the final tick and process exit. Best-effort: the
		// process has usually exited by now and the probe reports ESRCH.
		s.sample()
	}()
}

// stop clears the alive flag, joins the goroutine, and returns the peak.
func (s *memSampler) stop() uint64 {
	s.alive.Store(false)
	<-s.done
	return s.peak.Load()
}

// sample reads the process's current RSS and raises the peak if it grew.
// Errors (process gone, unreadable proc entry) leave the peak untouched.
func (s *memSampler) sample() {
	rss, err := residentBytes(s.pid)
	if err != nil {
		return
	}
	for {
		cur := s.peak.Load()
		if rss <= cur || s.peak.CompareAndSwap(cur, rss) {
			return
		}
	}
}
