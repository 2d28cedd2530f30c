package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period between the last search/filter edit
// and the resulting fetch.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs at most one pending function, restarting the delay on every
// Trigger. A zero delay runs the function inline.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling any pending call. It reports whether a
// pending call was superseded.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	superseded := d.stopLocked()
	d.gen++
	gen := d.gen

	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return superseded
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that lost the race with Stop or a newer Trigger must not run.
		if d.closed || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
	return superseded
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Close cancels the pending call and makes future Triggers no-ops.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
