// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"sync"
	"time"
)

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler defers work by one rendering pass. The post-send composer reset
// runs through it so the send animation starts before the input clears, and
// the draft freeze window ends on it.
type Scheduler interface {
	NextTick(fn func())
}

// frameInterval approximates one rendering pass.
const frameInterval = 16 * time.Millisecond

// FrameScheduler defers callbacks by one frame on a timer.
type FrameScheduler struct{}

func (FrameScheduler) NextTick(fn func()) {
	time.AfterFunc(frameInterval, fn)
}

// ManualScheduler queues callbacks until Flush, giving tests deterministic
// control over tick boundaries.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (m *ManualScheduler) NextTick(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
}

// Flush runs every queued callback in order. Callbacks scheduled during the
// flush wait for the next Flush, matching real tick boundaries.
func (m *ManualScheduler) Flush() {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
}

// Pending reports the number of queued callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
