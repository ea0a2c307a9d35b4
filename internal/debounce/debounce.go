// Package debounce implements a trailing-edge debouncer: a burst of triggers
// collapses into one deferred task executed after the burst settles. Each new
// Schedule cancels the pending timer and arms a fresh one, so only the task
// scheduled last ever runs.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces scheduled tasks. The zero value is not usable; call New.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
}

// New returns a Debouncer with the given trailing delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms the debouncer with fn, cancelling any pending task. It
// reports whether a previously scheduled task was displaced. fn runs on the
// timer goroutine after the delay elapses without another Schedule.
func (d *Debouncer) Schedule(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	displaced := d.timer != nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, d.fire)
	return displaced
}

// Fire runs the pending task immediately, if any, cancelling its timer.
// Used to force a flush ahead of the deadline.
func (d *Debouncer) Fire() {
	d.fire()
}

// Stop cancels any pending task without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()

	// Run outside the lock so the task may call Schedule again.
	if fn != nil {
		fn()
	}
}
