// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// LENGTH BOUNDARY
// =============================================================================

func TestSendLengthBoundary(t *testing.T) {
	tests := []struct {
		name         string
		length       int
		wantSent     bool
		wantOverflow string
		wantPlural   string
	}{
		{name: "exactly at limit", length: 20, wantSent: true},
		{name: "one over", length: 21, wantOverflow: "1", wantPlural: ""},
		{name: "three over", length: 23, wantOverflow: "3", wantPlural: "s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.c.cfg.Limits.MaxMessageLength = 20

			f.typeText(t, strings.Repeat("a", tt.length))
			f.c.Send(SendOptions{})

			if tt.wantSent {
				if len(f.disp.Sent) != 1 {
					t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
				}
				return
			}
			if len(f.disp.Sent) != 0 {
				t.Fatal("over-limit send must not dispatch")
			}
			d, ok := f.notif.lastDialog()
			if !ok {
				t.Fatal("dialog expected")
			}
			if !d.IsError {
				t.Error("length violation is an error dialog")
			}
			if d.Params["EXTRA_CHARS_COUNT"] != tt.wantOverflow {
				t.Errorf("overflow = %q, want %q", d.Params["EXTRA_CHARS_COUNT"], tt.wantOverflow)
			}
			if d.Params["PLURAL_S"] != tt.wantPlural {
				t.Errorf("plural = %q, want %q", d.Params["PLURAL_S"], tt.wantPlural)
			}
		})
	}
}

func TestLengthCountsUTF16Units(t *testing.T) {
	f := newFixture(t)
	f.c.cfg.Limits.MaxMessageLength = 3

	// Astral emoji occupy two units each.
	f.typeText(t, "\U0001F600\U0001F600")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 0 {
		t.Fatal("four units over a three-unit limit must be rejected")
	}
	d, _ := f.notif.lastDialog()
	if d.Params["EXTRA_CHARS_COUNT"] != "1" {
		t.Errorf("overflow = %q, want 1", d.Params["EXTRA_CHARS_COUNT"])
	}
}

// =============================================================================
// SLOW MODE
// =============================================================================

func TestSlowModeBoundary(t *testing.T) {
	tests := []struct {
		name          string
		elapsed       time.Duration
		wantSent      bool
		wantRemaining string
	}{
		{name: "29s of 30s still blocked", elapsed: 29 * time.Second, wantRemaining: "1"},
		{name: "exactly 30s proceeds", elapsed: 30 * time.Second, wantSent: true},
		{name: "just started", elapsed: 0, wantRemaining: "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.st.PutChat(model.Chat{
				ID:          "chat1",
				Permissions: model.AllPermissions(),
				SlowMode:    &model.SlowModeOptions{Seconds: 30},
			})
			f.st.SetLastSentAt("chat1", f.clock.Now())
			f.clock.Advance(tt.elapsed)

			f.typeText(t, "hi")
			f.c.Send(SendOptions{})

			if tt.wantSent {
				if len(f.disp.Sent) != 1 {
					t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
				}
				return
			}
			if len(f.disp.Sent) != 0 {
				t.Fatal("cooling-down send must not dispatch")
			}
			d, ok := f.notif.lastDialog()
			if !ok || !d.IsSlowMode {
				t.Fatal("slow-mode dialog expected")
			}
			if d.Params["SECONDS_REMAINING"] != tt.wantRemaining {
				t.Errorf("remaining = %q, want %q", d.Params["SECONDS_REMAINING"], tt.wantRemaining)
			}
		})
	}
}

func TestSlowModeAdminExempt(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(model.Chat{
		ID:          "chat1",
		Permissions: model.AllPermissions(),
		SlowMode:    &model.SlowModeOptions{Seconds: 30},
		AdminIDs:    []string{"me"},
	})
	f.st.SetLastSentAt("chat1", f.clock.Now())

	f.typeText(t, "admin bypass")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 1 {
		t.Error("admins are exempt from slow mode")
	}
}

func TestSlowModeServerDateWins(t *testing.T) {
	f := newFixture(t)
	// Local bookkeeping says fine, server says wait another 45s.
	f.st.PutChat(model.Chat{
		ID:          "chat1",
		Permissions: model.AllPermissions(),
		SlowMode: &model.SlowModeOptions{
			Seconds:      30,
			NextSendDate: time.Now().Add(45 * time.Second).Unix(),
		},
	})

	f.typeText(t, "hi")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 0 {
		t.Fatal("server next-send date must block")
	}
	d, _ := f.notif.lastDialog()
	if !d.IsSlowMode {
		t.Error("slow-mode dialog expected")
	}
}

func TestClockFormatting(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{754, "12:34"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

// =============================================================================
// PAYMENT GATE
// =============================================================================

func paidChat(stars int64) model.Chat {
	return model.Chat{
		ID:               "chat1",
		Permissions:      model.AllPermissions(),
		PaidMessageStars: stars,
	}
}

func TestPaymentBelowBalanceOpensTopUp(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(paidChat(5))
	f.st.SetStarBalance(3)

	f.typeText(t, "pricey")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 0 {
		t.Fatal("insufficient balance must not dispatch")
	}
	if len(f.notif.starsModals) != 1 || f.notif.starsModals[0] != 5 {
		t.Errorf("top-up modal = %v, want [5]", f.notif.starsModals)
	}
}

func TestPaymentConfirmFlow(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(paidChat(5))
	f.st.SetStarBalance(100)

	f.typeText(t, "pricey")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 0 {
		t.Fatal("send must wait for confirmation")
	}
	pending, ok := f.c.Gate().Pending()
	if !ok {
		t.Fatal("pending action expected")
	}
	if pending.TotalStars != 5 || pending.MessagesCount != 1 {
		t.Errorf("pending = %d stars x %d messages", pending.TotalStars, pending.MessagesCount)
	}

	f.c.Gate().Confirm(true)
	if len(f.disp.Sent) != 1 {
		t.Fatal("confirm must dispatch")
	}
	if f.disp.Sent[0].PaidStars != 5 {
		t.Errorf("paidStars = %d, want 5", f.disp.Sent[0].PaidStars)
	}
	if !f.st.AutoApprovePayments() {
		t.Error("opting in must persist auto-approval")
	}
}

func TestPaymentAutoApprovalSkipsDialog(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(paidChat(5))
	f.st.SetStarBalance(100)
	f.st.SetAutoApprovePayments(true)

	f.typeText(t, "pricey")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 1 {
		t.Fatal("auto-approval must dispatch immediately")
	}
	if f.disp.Sent[0].PaidStars != 5 {
		t.Errorf("paidStars = %d, want 5", f.disp.Sent[0].PaidStars)
	}
}

func TestPaymentReplacesNotQueues(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(paidChat(5))
	f.st.SetStarBalance(100)

	f.typeText(t, "first")
	f.c.Send(SendOptions{})
	f.sched.Flush()

	f.typeText(t, "second")
	f.c.Send(SendOptions{})

	f.c.Gate().Confirm(false)
	if len(f.disp.Sent) != 1 {
		t.Fatalf("sent = %d, only the latest pending action may fire", len(f.disp.Sent))
	}
	if f.disp.Sent[0].Text.Text != "second" {
		t.Errorf("sent %q, want the replacing action", f.disp.Sent[0].Text.Text)
	}

	// A second confirm has nothing left to fire.
	f.c.Gate().Confirm(false)
	if len(f.disp.Sent) != 1 {
		t.Error("confirm must be one-shot")
	}
}

func TestPaymentAttachmentsCountPerMessage(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(paidChat(5))
	f.st.SetStarBalance(100)

	f.c.Stager().HandleFileSelect([]FileInput{photoFile("a.jpg"), photoFile("b.jpg"), photoFile("c.jpg")}, true)
	f.c.Send(SendOptions{})

	pending, ok := f.c.Gate().Pending()
	if !ok {
		t.Fatal("pending action expected")
	}
	if pending.MessagesCount != 3 {
		t.Errorf("messagesCount = %d, want 3", pending.MessagesCount)
	}
	if pending.TotalStars != 15 {
		t.Errorf("totalStars = %d, want 15", pending.TotalStars)
	}
}
