// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package signal

import "testing"

func TestSetNotifiesInRegistrationOrder(t *testing.T) {
	s := New("")

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.Subscribe(func(string) { order = append(order, i) })
	}

	s.Set("x")

	if len(order) != 5 {
		t.Fatalf("notified %d subscribers, want 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("notification order = %v, want registration order", order)
		}
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New(0)

	calls := 0
	unsub := s.Subscribe(func(int) { calls++ })

	s.Set(1)
	unsub()
	unsub() // repeated calls are harmless
	s.Set(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestGenerationBumpsOncePerSet(t *testing.T) {
	s := New("a")
	if s.Generation() != 0 {
		t.Fatalf("initial generation = %d, want 0", s.Generation())
	}
	s.Set("b")
	s.Set("c")
	if s.Generation() != 2 {
		t.Errorf("generation = %d, want 2", s.Generation())
	}
	if s.Get() != "c" {
		t.Errorf("value = %q, want c", s.Get())
	}
}
