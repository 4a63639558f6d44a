package timing

import (
	"sync"
	"time"
)

// Scheduler invokes a callback repeatedly at a target interval,
// correcting for callback execution time and timer granularity so the
// long-run rate matches the target even though individual gaps vary.
//
// A Scheduler knows nothing about tokens or playback; it is a generic
// rate-corrected repeating-callback primitive. Changing the interval of
// a running scheduler requires Stop followed by Start.
type Scheduler struct {
	mu       sync.Mutex
	running  bool
	gen      uint64
	timer    *time.Timer
	expected time.Time
	lastTick time.Time
	drift    time.Duration
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start invokes fn once synchronously, then schedules repeated
// invocations every interval with drift correction. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start(interval time.Duration, fn func()) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.gen++
	gen := s.gen
	now := time.Now()
	s.lastTick = now
	s.expected = now.Add(interval)
	s.drift = 0
	s.mu.Unlock()

	fn()
	s.arm(gen, interval, interval, fn)
}

// Stop halts all future invocations. It is safe to call repeatedly or
// before any Start. A tick scheduled before Stop cannot fire after it:
// the pending timer is cleared and the generation counter invalidates
// any timer that already fired but has not run yet.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Running reports whether the scheduler has a tick chain in flight.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Drift returns the deviation measured at the most recent tick.
func (s *Scheduler) Drift() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drift
}

func (s *Scheduler) arm(gen uint64, delay, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || gen != s.gen {
		return
	}
	s.timer = time.AfterFunc(delay, func() {
		s.tick(gen, interval, fn)
	})
}

func (s *Scheduler) tick(gen uint64, interval time.Duration, fn func()) {
	s.mu.Lock()
	if !s.running || gen != s.gen {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	drift := now.Sub(s.expected)
	s.drift = drift
	s.lastTick = now
	var delay time.Duration
	if drift >= interval {
		// The consumer fell a full interval behind; fire the next tick
		// immediately and rebase the expected-time chain on now.
		s.expected = now.Add(interval)
		delay = 0
	} else {
		// Advance the baseline by exactly one interval so transient
		// lateness never turns into permanent phase slip.
		s.expected = s.expected.Add(interval)
		delay = interval - drift
		if delay < 0 {
			delay = 0
		}
	}
	s.mu.Unlock()

	fn()
	s.arm(gen, delay, interval, fn)
}
