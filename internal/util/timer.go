// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the courier application.
package util

import (
	"sync"
	"time"
)

// =============================================================================
// DEBOUNCER
// =============================================================================

// Debouncer coalesces a burst of Schedule calls into a single deferred
// invocation of the most recent callback.
//
// Every pending call carries a scope key. The callback fires only if the key
// is still the one most recently scheduled, so a save scheduled for chat A
// can never apply after the user has navigated to chat B: the navigation
// schedules (or cancels) under a different key.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	key   string
	fn    func()

	// frozen suppresses scheduling until Unfreeze; used for the one-tick
	// freeze window after a flush-on-teardown.
	frozen bool
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule replaces any pending invocation with fn, to fire after the
// configured delay under the given scope key. No-ops while frozen.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frozen {
		return
	}

	d.key = key
	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(key)
	})
}

// fire runs the pending callback if key is still current.
func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	if d.key != key || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops any pending invocation.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
}

// Flush runs any pending invocation immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Freeze cancels any pending invocation and suppresses new scheduling until
// Unfreeze is called.
func (d *Debouncer) Freeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
}

// Unfreeze re-enables scheduling.
func (d *Debouncer) Unfreeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = false
}

// Pending reports whether an invocation is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// =============================================================================
// THROTTLER
// =============================================================================

// Throttler limits invocations to at most one per interval. A call arriving
// inside the interval is stored and fires on the trailing edge, so the most
// recent callback is never lost. The autocomplete detectors rely on this to
// always end up computed against the final text.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	timer    *time.Timer
	pending  func()
}

// NewThrottler creates a throttler with the given minimum interval.
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

// Do invokes fn immediately if the interval has elapsed since the previous
// invocation; otherwise fn replaces any pending trailing call.
func (t *Throttler) Do(fn func()) {
	t.mu.Lock()
	now := time.Now()
	if now.Sub(t.last) >= t.interval {
		t.last = now
		t.mu.Unlock()
		fn()
		return
	}

	t.pending = fn
	if t.timer == nil {
		wait := t.interval - now.Sub(t.last)
		t.timer = time.AfterFunc(wait, t.fireTrailing)
	}
	t.mu.Unlock()
}

// fireTrailing runs the stored trailing callback, if any.
func (t *Throttler) fireTrailing() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	t.last = time.Now()
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops any pending trailing invocation.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
}
