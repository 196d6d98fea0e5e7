package drawing

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a burst of changes is committed.
const DefaultDebounce = 500 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it via
// RealAfterFunc; tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc wraps time.AfterFunc.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer holds at most one pending callback. Each Trigger cancels the
// previous timer and arms a fresh one, so a burst of triggers fires once,
// window after the last of them.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	after   AfterFunc
	timer   Timer
	pending func()
	gen     uint64
}

// NewDebouncer creates a debouncer. A nil after uses RealAfterFunc.
func NewDebouncer(window time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = RealAfterFunc
	}
	return &Debouncer{window: window, after: after}
}

// Trigger (re)arms the timer with fn.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
	d.pending = fn
	gen := d.gen
	d.timer = d.after(d.window, func() { d.fire(gen) })
}

// Stop cancels the pending callback, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
}

// Flush runs the pending callback now instead of waiting for the window.
// It reports whether a callback ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	d.release()
	d.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// release stops the timer and invalidates any callback already in flight.
// Caller holds d.mu.
func (d *Debouncer) release() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	fn()
}
