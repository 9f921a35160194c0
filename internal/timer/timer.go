// Package timer implements the inactivity countdown: a deadline pushed
// forward on every user activity event, a one-second tick feeding the
// visible countdown, and a timeout callback that fires exactly once when
// the deadline elapses untouched.
package timer

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultThreshold is the idle time after which the session is torn down.
const DefaultThreshold = 300 * time.Second

// Timer counts down from a configured threshold and invokes the timeout
// callback when the user has been idle for the whole threshold. Touch
// resets the countdown; Stop cancels both the deadline and the tick so
// nothing fires after teardown.
type Timer struct {
	mu        sync.Mutex
	threshold time.Duration
	onTimeout func()
	log       *log.Logger

	active    bool
	epoch     int
	remaining int
	deadline  *time.Timer
	tickStop  chan struct{}
}

// New builds a Timer. A non-positive threshold falls back to
// DefaultThreshold. The callback runs on its own goroutine and may safely
// call back into the Timer.
func New(threshold time.Duration, onTimeout func()) *Timer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Timer{
		threshold: threshold,
		onTimeout: onTimeout,
		log:       log.NewWithOptions(os.Stderr, log.Options{Prefix: "timer"}),
	}
}

// Start activates the countdown. Starting an already active timer is a
// no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return
	}
	t.active = true
	t.armLocked()

	stop := make(chan struct{})
	t.tickStop = stop
	go t.tick(stop)
}

// Touch records a user activity event: the idle deadline is pushed
// forward by the full threshold and the visible countdown resets.
func (t *Timer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return
	}
	t.armLocked()
}

// Remaining returns the seconds left on the visible countdown. It never
// goes below zero.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether the countdown is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Stop deactivates the timer and cancels the deadline and the tick.
// Idempotent; a stopped timer never fires.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reconfigure swaps the threshold and callback. An in-flight countdown is
// restarted cleanly under the new parameters.
func (t *Timer) Reconfigure(threshold time.Duration, onTimeout func()) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.threshold = threshold
	t.onTimeout = onTimeout
	if t.active {
		t.armLocked()
	}
}

// armLocked resets the countdown and re-arms the deadline. The epoch ties
// each armed deadline to its arming; a deadline from a previous epoch
// that races the rearm is ignored when it fires.
func (t *Timer) armLocked() {
	t.epoch++
	epoch := t.epoch
	t.remaining = int(t.threshold / time.Second)
	if t.deadline != nil {
		t.deadline.Stop()
	}
	t.deadline = time.AfterFunc(t.threshold, func() { t.fire(epoch) })
}

func (t *Timer) stopLocked() {
	if !t.active && t.tickStop == nil {
		return
	}
	t.active = false
	t.epoch++
	if t.deadline != nil {
		t.deadline.Stop()
		t.deadline = nil
	}
	if t.tickStop != nil {
		close(t.tickStop)
		t.tickStop = nil
	}
}

// fire runs when the idle deadline elapses. The callback is invoked
// outside the lock so it can tear the session (and this timer) down.
func (t *Timer) fire(epoch int) {
	t.mu.Lock()
	if !t.active || epoch != t.epoch {
		t.mu.Unlock()
		return
	}
	t.remaining = 0
	cb := t.onTimeout
	threshold := t.threshold
	t.stopLocked()
	t.mu.Unlock()

	t.log.Info("inactivity timeout reached", "threshold", threshold)
	if cb != nil {
		cb()
	}
}

// tick decrements the visible countdown once a second, flooring at zero.
func (t *Timer) tick(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.remaining > 0 {
				t.remaining--
			}
			t.mu.Unlock()
		}
	}
}
