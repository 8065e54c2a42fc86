// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"testing"
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/textparse"
)

func TestDraftDebouncedSave(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "work in progress")
	d := f.waitForDraft(t, "chat1", model.MainThreadID)

	if d.Text.Text != "work in progress" {
		t.Errorf("saved text = %q", d.Text.Text)
	}
	if !d.IsLocal {
		t.Error("locally saved draft must be marked local")
	}
}

func TestDraftIdempotence(t *testing.T) {
	f := newFixture(t)

	input := "see <b>this</b> and <a href=\"https://example.com\">that</a>"
	f.typeText(t, input)
	f.c.drafts.Flush()

	d, ok := f.st.Draft("chat1", model.MainThreadID)
	if !ok {
		t.Fatal("draft not saved")
	}

	// A fresh session on the same thread reproduces the same rendering.
	f.c.SwitchChat("chat2", "")
	f.c.SwitchChat("chat1", "")
	restored := f.c.Session().HTML.Get()
	if restored != textparse.RenderHTML(d.Text) {
		t.Errorf("restored = %q, want %q", restored, textparse.RenderHTML(d.Text))
	}
	if reparsed := textparse.ParseHTML(restored); reparsed.Text != d.Text.Text {
		t.Errorf("plain text drifted: %q vs %q", reparsed.Text, d.Text.Text)
	}
}

func TestDraftEmptyTextClears(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "temp")
	f.c.drafts.Flush()
	if _, ok := f.st.Draft("chat1", model.MainThreadID); !ok {
		t.Fatal("draft not saved")
	}

	f.typeText(t, "")
	f.c.drafts.Flush()
	if d, ok := f.st.Draft("chat1", model.MainThreadID); ok && !d.Text.IsEmpty() {
		t.Errorf("draft text should be cleared, got %q", d.Text.Text)
	}
}

func TestDirtyWinsOverRemoteDraft(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "local edit")
	f.st.ApplyRemoteDraft("chat1", model.MainThreadID, model.Draft{
		Text: model.FormattedText{Text: "remote version"},
	})

	if got := f.c.Session().HTML.Get(); got != "local edit" {
		t.Errorf("input = %q, local edits must win while touched", got)
	}
}

func TestRemoteDraftAppliesWhenClean(t *testing.T) {
	f := newFixture(t)

	f.st.ApplyRemoteDraft("chat1", model.MainThreadID, model.Draft{
		Text: model.FormattedText{Text: "from another device"},
	})

	if got := f.c.Session().HTML.Get(); got != "from another device" {
		t.Errorf("input = %q, clean session must accept remote drafts", got)
	}
	if f.c.Session().IsTouched {
		t.Error("remote application must not mark the session touched")
	}
}

func TestRemoteDraftMatchingInputClearsTouched(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "synced text")
	f.st.ApplyRemoteDraft("chat1", model.MainThreadID, model.Draft{
		Text: model.FormattedText{Text: "synced text"},
	})

	if f.c.Session().IsTouched {
		t.Error("matching remote draft must clear the touched flag")
	}
}

func TestStaleRevisionIgnored(t *testing.T) {
	f := newFixture(t)

	f.st.ApplyRemoteDraft("chat1", model.MainThreadID, model.Draft{
		Text: model.FormattedText{Text: "first"},
	})
	sess := f.c.Session()

	// Replay an already-applied revision by hand.
	stale := model.Draft{Text: model.FormattedText{Text: "stale"}, Revision: 1}
	f.c.drafts.OnRemoteDraft("chat1", model.MainThreadID, stale)

	if got := sess.HTML.Get(); got != "first" {
		t.Errorf("input = %q, stale revisions must be dropped", got)
	}
}

func TestRestoreProtocolOnSwitch(t *testing.T) {
	f := newFixture(t)

	// chat2 has a persisted draft; chat1 has none.
	f.st.SaveDraft("chat2", model.MainThreadID, model.Draft{
		Text: model.FormattedText{Text: "resume me"},
	})

	f.c.SwitchChat("chat2", "")
	if got := f.c.Session().HTML.Get(); got != "resume me" {
		t.Errorf("input = %q, want restored draft", got)
	}

	// Moving from a thread with a draft to one without clears the input.
	f.c.SwitchChat("chat1", "")
	if got := f.c.Session().HTML.Get(); got != "" {
		t.Errorf("input = %q, want empty", got)
	}
}

func TestFlushOnSwitchPersistsTyping(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "unsent thought")
	f.c.SwitchChat("chat2", "")

	d, ok := f.st.Draft("chat1", model.MainThreadID)
	if !ok {
		t.Fatal("switching away must flush the draft")
	}
	if d.Text.Text != "unsent thought" {
		t.Errorf("flushed text = %q", d.Text.Text)
	}
}

func TestFreezeWindowSuppressesDoubleWrite(t *testing.T) {
	f := newFixture(t)

	f.typeText(t, "before switch")
	f.c.SwitchChat("chat2", "")

	// Inside the freeze window nothing schedules; after the tick the new
	// thread saves normally again.
	if f.c.drafts.deb.Pending() {
		t.Error("no save may be pending inside the freeze window")
	}
	f.sched.Flush()

	f.typeText(t, "after tick")
	time.Sleep(100 * time.Millisecond)
	if d, ok := f.st.Draft("chat2", model.MainThreadID); !ok || d.Text.Text != "after tick" {
		t.Error("saving must resume after the freeze window lifts")
	}
}
