// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composerview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/courier-tui/internal/composer"
	"github.com/jeranaias/courier-tui/internal/config"
	"github.com/jeranaias/courier-tui/internal/dispatch"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/store"
	"github.com/jeranaias/courier-tui/internal/ui/styles"
)

// =============================================================================
// FIXTURE
// =============================================================================

type fixture struct {
	m      Model
	st     *store.MemoryStore
	disp   *dispatch.LogDispatcher
	sched  *composer.ManualScheduler
	engine *composer.Composer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Draft.DebounceMs = 50
	cfg.Autocomplete.ThrottleMs = 0 // synchronous detector passes

	st := store.NewMemoryStore()
	st.PutChat(model.Chat{ID: "chat1", Title: "Ops Channel", Permissions: model.AllPermissions()})
	st.PutUser(model.User{ID: "u1", Username: "alice", FirstName: "Alice"})
	st.PutUser(model.User{ID: "u2", FirstName: "Bob", LastName: "Budnick"})
	st.PutMember("chat1", model.User{ID: "u1", Username: "alice", FirstName: "Alice"})
	st.PutMember("chat1", model.User{ID: "u2", FirstName: "Bob", LastName: "Budnick"})
	st.PutBotCommands("chat1", []model.BotCommand{
		{BotID: "b1", Command: "start", Description: "Start the bot"},
	})

	disp := dispatch.NewLogDispatcher()
	disp.Quiet = true
	notif := NewNotifier()
	sched := &composer.ManualScheduler{}

	engine, err := composer.New(composer.Options{
		Config:     cfg,
		Reader:     st,
		Writer:     st,
		Dispatcher: disp,
		Notifier:   notif,
		Drafts:     st,
		Scheduler:  sched,
		UserID:     "me",
		Voice:      &composer.SimulatedVoiceSource{},
	})
	if err != nil {
		t.Fatalf("composer.New: %v", err)
	}
	engine.SwitchChat("chat1", "")
	sched.Flush()

	m := New(Options{
		Theme:    styles.NewTheme(),
		Engine:   engine,
		Config:   cfg,
		Reader:   st,
		Notifier: notif,
		Outbox:   disp.SentRequests,
	})
	t.Cleanup(engine.Close)

	return &fixture{m: m, st: st, disp: disp, sched: sched, engine: engine}
}

func (f *fixture) update(t *testing.T, msg tea.Msg) {
	t.Helper()
	mm, _ := f.m.Update(msg)
	f.m = mm.(Model)
}

func (f *fixture) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		f.update(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestTypingReachesEngine(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "hello")

	sess := f.engine.Session()
	if got := sess.HTML.Get(); got != "hello" {
		t.Errorf("engine HTML = %q, want %q", got, "hello")
	}
	if !sess.IsTouched {
		t.Error("session not touched after typing")
	}
}

func TestMentionTooltipCyclesAndAccepts(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "@a")

	set, open := f.engine.Autocomplete().Active()
	if !open {
		t.Fatal("mention tooltip did not open")
	}
	if len(set.Candidates) == 0 {
		t.Fatal("no mention candidates")
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyDown})
	f.update(t, tea.KeyMsg{Type: tea.KeyUp})
	if f.m.selected != 0 {
		t.Errorf("selected = %d after down+up, want 0", f.m.selected)
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyTab})
	if got := f.m.input.Value(); !strings.Contains(got, "@alice") {
		t.Errorf("input after accept = %q, want it to contain @alice", got)
	}
	if _, stillOpen := f.engine.Autocomplete().Active(); stillOpen {
		t.Error("tooltip still open after accept")
	}
}

func TestEscDismissesTooltip(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "@a")

	if _, open := f.engine.Autocomplete().Active(); !open {
		t.Fatal("mention tooltip did not open")
	}
	f.update(t, tea.KeyMsg{Type: tea.KeyEsc})
	if _, open := f.engine.Autocomplete().Active(); open {
		t.Error("tooltip still open after esc")
	}
}

func TestEnterSendsMessage(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "ship it")
	f.update(t, tea.KeyMsg{Type: tea.KeyEnter})

	req, ok := f.disp.LastSent()
	if !ok {
		t.Fatal("nothing dispatched")
	}
	if req.Text.Text != "ship it" {
		t.Errorf("sent %q, want %q", req.Text.Text, "ship it")
	}
}

func TestVoiceKeyStagesRecordingForSend(t *testing.T) {
	f := newFixture(t)

	f.update(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !f.engine.Recorder().IsActive() {
		t.Fatal("first C-r should start recording")
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	if f.engine.Recorder().IsActive() {
		t.Fatal("second C-r should stop recording")
	}
	sess := f.engine.Session()
	if len(sess.Attachments) != 1 || sess.Attachments[0].Voice == nil {
		t.Fatalf("staged attachments = %+v, want one voice note", sess.Attachments)
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyEnter})
	req, ok := f.disp.LastSent()
	if !ok {
		t.Fatal("nothing dispatched")
	}
	if len(req.Attachments) != 1 || req.Attachments[0].Voice == nil {
		t.Fatal("dispatched send must carry the staged voice note")
	}
}

func TestViewOnceKeyMarksRecording(t *testing.T) {
	f := newFixture(t)

	f.update(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	f.update(t, tea.KeyMsg{Type: tea.KeyCtrlT})
	if !f.engine.Recorder().ViewOnce() {
		t.Fatal("C-t should toggle view-once while recording")
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyCtrlR})
	sess := f.engine.Session()
	if len(sess.Attachments) != 1 || sess.Attachments[0].TTLSeconds != model.OneTimeMediaTTLSeconds {
		t.Fatalf("staged attachments = %+v, want one view-once voice note", sess.Attachments)
	}
}

func TestMarkdownShortcutsReachDispatch(t *testing.T) {
	f := newFixture(t)
	f.typeText(t, "ship **now**")
	f.update(t, tea.KeyMsg{Type: tea.KeyEnter})

	req, ok := f.disp.LastSent()
	if !ok {
		t.Fatal("nothing dispatched")
	}
	if req.Text.Text != "ship now" {
		t.Errorf("sent %q, want %q", req.Text.Text, "ship now")
	}
	if len(req.Text.Entities) != 1 || req.Text.Entities[0].Type != model.EntityBold {
		t.Fatalf("entities = %+v, want one bold", req.Text.Entities)
	}
}

func TestNoticeSetAndExpire(t *testing.T) {
	f := newFixture(t)
	f.update(t, NoticeMsg{Key: "ErrorSendFailed"})
	if f.m.notice == "" {
		t.Fatal("notice not set")
	}
	f.update(t, noticeExpireMsg{})
	if f.m.notice != "" {
		t.Errorf("notice = %q after expiry, want empty", f.m.notice)
	}
}

func TestDialogOverlayDismiss(t *testing.T) {
	f := newFixture(t)
	f.update(t, DialogMsg{Dialog: store.Dialog{MessageKey: "SlowModeHint", Params: map[string]string{
		"SECONDS_REMAINING": "12",
		"TIME":              "0:12",
	}}})
	if f.m.dialog == nil {
		t.Fatal("dialog not set")
	}

	view := f.m.View()
	if !strings.Contains(view, "0:12") {
		t.Errorf("dialog overlay missing rendered time, view: %q", view)
	}

	f.update(t, tea.KeyMsg{Type: tea.KeyEnter})
	if f.m.dialog != nil {
		t.Error("dialog still open after enter")
	}
}

func TestViewShowsChatTitle(t *testing.T) {
	f := newFixture(t)
	if view := f.m.View(); !strings.Contains(view, "Ops Channel") {
		t.Error("view missing chat title")
	}
}

func TestFormatNotice(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		params map[string]string
		want   string
	}{
		{
			name:   "length overflow with plural",
			key:    "ErrorMessageTooLong",
			params: map[string]string{"EXTRA_CHARS_COUNT": "3", "PLURAL_S": "s"},
			want:   "Message is 3 characters too long",
		},
		{
			name: "restricted media kind",
			key:  "ErrorSendRestricted_photo",
			want: "Sending photo is not allowed in this chat",
		},
		{
			name: "unknown key falls back to itself",
			key:  "SomethingNovel",
			want: "SomethingNovel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatNotice(tt.key, tt.params); got != tt.want {
				t.Errorf("formatNotice(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestWrapRow(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 3, 0},
		{3, 3, 0},
		{-1, 3, 2},
		{5, 3, 2},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := wrapRow(tt.i, tt.n); got != tt.want {
			t.Errorf("wrapRow(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
