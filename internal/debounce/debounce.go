// Package debounce implements a keyed delayed executor (spec.md §4.10):
// scheduling a key resets that key's pending timer without disturbing
// any other key's. Grounded on
// internal/indexing/debounced_rebuilder.go's DebouncedRebuilder
// (time.AfterFunc, sync.Mutex-guarded pending set, Shutdown draining any
// in-flight timers), generalized from a single implicit pending-file-set
// key to an explicit per-key timer so independent documents can debounce
// independently instead of coalescing into one global rebuild.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	fn    func()
}

// Debouncer delays calling a key's callback until delay has elapsed
// since the most recent Schedule call for that key.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pending
	done    bool
}

// New creates a Debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*pending)}
}

// Delay returns the configured debounce window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule arranges for fn to run after the debounce delay, canceling any
// timer already pending for key. A no-op after Shutdown.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pending{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = p
}

// Cancel stops key's pending timer, if any, without running its callback.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Flush runs key's pending callback immediately, if one is scheduled,
// bypassing the remaining delay (spec.md §4.8's updateNow path).
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
	d.mu.Unlock()
	if ok {
		p.fn()
	}
}

// Shutdown stops every pending timer and marks the Debouncer inert;
// further Schedule calls are no-ops.
func (d *Debouncer) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
	for k, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, k)
	}
}
