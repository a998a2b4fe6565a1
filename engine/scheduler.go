package engine

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs keyed periodic callbacks.
//
// Start replaces any callback already registered under key. Cancel is
// idempotent and never waits for an in-flight callback, so it is safe to call
// while holding a lock the callback also takes. A callback may therefore run
// once after Cancel returns; callers guard against that themselves (see Rotator).
type Scheduler interface {
	Start(key string, fn func(), interval time.Duration)
	Cancel(key string)
}

// TickerScheduler runs each key on its own goroutine driven by a time.Ticker
type TickerScheduler struct {
	mu    sync.Mutex
	stops map[string]chan struct{}
}

// NewTickerScheduler creates a wall-clock Scheduler
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{stops: make(map[string]chan struct{})}
}

// Ensure TickerScheduler implements Scheduler
var _ Scheduler = (*TickerScheduler)(nil)

// Start registers fn to run every interval until cancelled
func (s *TickerScheduler) Start(key string, fn func(), interval time.Duration) {
	if interval <= 0 {
		return
	}
	stop := make(chan struct{})

	s.mu.Lock()
	if old, ok := s.stops[key]; ok {
		close(old)
	}
	s.stops[key] = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Cancel stops the callback registered under key, if any
func (s *TickerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.stops[key]; ok {
		close(stop)
		delete(s.stops, key)
	}
}

// Len returns the number of running keys
func (s *TickerScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stops)
}

type manualTimer struct {
	fn       func()
	interval time.Duration
	next     time.Duration
}

// ManualScheduler is a Scheduler driven by Advance instead of the wall clock.
// Callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers map[string]*manualTimer
}

// NewManualScheduler creates a deterministic Scheduler at time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[string]*manualTimer)}
}

// Ensure ManualScheduler implements Scheduler
var _ Scheduler = (*ManualScheduler)(nil)

// Start registers fn to run every interval of simulated time
func (s *ManualScheduler) Start(key string, fn func(), interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[key] = &manualTimer{fn: fn, interval: interval, next: s.now + interval}
}

// Cancel removes the callback registered under key, if any
func (s *ManualScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, key)
}

// Active reports whether a callback is registered under key
func (s *ManualScheduler) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Len returns the number of registered callbacks
func (s *ManualScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Now returns the simulated time elapsed since creation
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves simulated time forward by d, firing due callbacks in time order.
// Ties fire in key order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.nextDue(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = t.next
		t.next += t.interval
		fn := t.fn
		s.mu.Unlock()

		fn()
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	keys := make([]string, 0, len(s.timers))
	for key := range s.timers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var due *manualTimer
	for _, key := range keys {
		t := s.timers[key]
		if t.next > target {
			continue
		}
		if due == nil || t.next < due.next {
			due = t
		}
	}
	return due
}
