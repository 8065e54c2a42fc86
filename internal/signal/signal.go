// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signal provides a minimal reactive value primitive.
//
// The composer keeps the live input text in a Signal rather than component
// state so keystroke-rate updates notify only the parties that subscribed
// (draft synchronizer, autocomplete coordinator) instead of forcing a full
// re-render of the surrounding view tree.
package signal

import (
	"sort"
	"sync"
)

// =============================================================================
// SIGNAL
// =============================================================================

// Signal holds a value, a monotonically increasing change generation, and a
// set of subscribers notified synchronously on every Set.
//
// Subscribers run on the calling goroutine of Set, in registration order.
// A mutex guards the value for cross-goroutine reads (timer callbacks), but
// writers are expected to be the single UI goroutine.
type Signal[T any] struct {
	mu     sync.Mutex
	value  T
	gen    uint64
	subs   map[int]func(T)
	nextID int
}

// New creates a signal holding the given initial value at generation zero.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Generation returns the current change generation. It increases by exactly
// one per Set, which makes it usable as a dismissal watermark ("closed until
// the text changes again").
func (s *Signal[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Set stores a new value, bumps the generation and notifies subscribers.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.gen++
	// Copy the subscriber list so a subscriber may unsubscribe re-entrantly.
	// Ids are handed out sequentially, so sorting them restores the
	// registration order the doc comment promises.
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn to run on every subsequent Set. The returned
// function removes the subscription; calling it more than once is harmless.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
