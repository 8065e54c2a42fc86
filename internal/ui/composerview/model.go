// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composerview provides the Bubble Tea front-end for the
// composition engine.
package composerview

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/courier-tui/internal/composer"
	"github.com/jeranaias/courier-tui/internal/composer/autocomplete"
	"github.com/jeranaias/courier-tui/internal/config"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/store"
	"github.com/jeranaias/courier-tui/internal/textparse"
	"github.com/jeranaias/courier-tui/internal/ui/styles"
)

const (
	noticeTTL   = 4 * time.Second
	recInterval = 500 * time.Millisecond
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the view to the engine and its data sources. Theme,
// Engine, Config, Reader and Notifier are required; the Notifier must be
// the one registered with the engine.
type Options struct {
	Theme    *styles.Theme
	Engine   *composer.Composer
	Config   *config.Config
	Reader   store.Reader
	Notifier *Notifier

	// Outbox, when set, lists dispatched sends for the outbox pane.
	Outbox func() []model.SendRequest

	// EditTarget, when set, resolves Ctrl+E to the message to edit.
	EditTarget func() (string, bool)

	// PickFiles, when set, supplies files for Ctrl+O.
	PickFiles func() ([]composer.FileInput, error)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the composer view.
type Model struct {
	theme    *styles.Theme
	cfg      *config.Config
	engine   *composer.Composer
	reader   store.Reader
	notifier *Notifier

	outbox     func() []model.SendRequest
	editTarget func() (string, bool)
	pickFiles  func() ([]composer.FileInput, error)

	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	keyMap   KeyMap

	// selected is the highlighted tooltip row; reset on every text change.
	selected int

	notice        string
	dialog        *store.Dialog
	deleteConfirm *DeleteConfirmMsg

	recStart time.Time
	quitting bool
}

// New creates the composer view and registers the focus handlers that
// route engine-driven input rewrites back to the program goroutine.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message..."
	ti.Focus()

	vp := viewport.New(80, 10)

	opts.Engine.SetFocusHandlers(
		func() { opts.Notifier.Push(FocusMsg{}) },
		func() { opts.Notifier.Push(BlurMsg{}) },
	)

	m := Model{
		theme:      opts.Theme,
		cfg:        opts.Config,
		engine:     opts.Engine,
		reader:     opts.Reader,
		notifier:   opts.Notifier,
		outbox:     opts.Outbox,
		editTarget: opts.EditTarget,
		pickFiles:  opts.PickFiles,
		input:      ti,
		viewport:   vp,
		keyMap:     DefaultKeyMap(),
	}

	// The engine may already hold a restored draft for the active chat.
	m.syncFromEngine()
	m.refreshOutbox()
	return m
}

// Init starts the cursor blink and the engine event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.notifier.Wait())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case NoticeMsg:
		m.notice = formatNotice(msg.Key, msg.Params)
		return m, tea.Batch(m.notifier.Wait(), expireNoticeCmd())

	case DialogMsg:
		d := msg.Dialog
		m.dialog = &d
		return m, m.notifier.Wait()

	case LimitModalMsg:
		m.dialog = &store.Dialog{
			MessageKey: "ErrorFileTooLarge",
			Params:     map[string]string{"LIMIT": msg.Limit},
			IsError:    true,
		}
		return m, m.notifier.Wait()

	case StarsModalMsg:
		m.dialog = &store.Dialog{
			MessageKey: "StarsTopupNeeded",
			Params:     map[string]string{"STARS_COUNT": formatStars(msg.Required)},
		}
		return m, m.notifier.Wait()

	case DeleteConfirmMsg:
		confirm := msg
		m.deleteConfirm = &confirm
		return m, m.notifier.Wait()

	case FocusMsg:
		m.syncFromEngine()
		m.input.Focus()
		return m, tea.Batch(m.notifier.Wait(), textinput.Blink)

	case BlurMsg:
		m.input.Blur()
		return m, m.notifier.Wait()

	case noticeExpireMsg:
		m.notice = ""
		return m, nil

	case recTickMsg:
		if m.engine.Recorder().IsActive() {
			return m, recTickCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header + tooltip area + tray + input + counter + notice + status bar
	const reservedHeight = 12
	vpHeight := m.height - reservedHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight

	inputWidth := m.width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}

	m.refreshOutbox()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works.
	if key.Matches(msg, m.keyMap.Quit) {
		m.quitting = true
		m.engine.Close()
		return m, tea.Quit
	}

	// Overlays swallow keys until dismissed.
	if m.deleteConfirm != nil {
		return m.handleDeleteConfirmKey(msg)
	}
	if m.dialog != nil {
		if m.dialog.MessageKey == "ConfirmPaidMessage" {
			return m.handlePaymentDialogKey(msg)
		}
		switch msg.String() {
		case "enter", "esc":
			m.dialog = nil
		}
		return m, nil
	}

	set, tooltipOpen := m.engine.Autocomplete().Active()

	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		return m.handleCancel(set, tooltipOpen)

	case key.Matches(msg, m.keyMap.Accept):
		if tooltipOpen {
			return m.acceptCandidate(set)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Send):
		if tooltipOpen && len(set.Candidates) > 0 {
			return m.acceptCandidate(set)
		}
		m.engine.Send(composer.SendOptions{})
		m.syncFromEngine()
		m.refreshOutbox()
		return m, nil

	case key.Matches(msg, m.keyMap.NextRow):
		if tooltipOpen {
			m.selected = wrapRow(m.selected+1, len(set.Candidates))
			return m, nil
		}
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevRow):
		if tooltipOpen {
			m.selected = wrapRow(m.selected-1, len(set.Candidates))
			return m, nil
		}
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Voice):
		return m.toggleVoice()

	case key.Matches(msg, m.keyMap.ViewOnce):
		if rec := m.engine.Recorder(); rec.IsActive() {
			rec.SetViewOnce(!rec.ViewOnce())
		}
		return m, nil

	case key.Matches(msg, m.keyMap.EditLast):
		return m.startEdit()

	case key.Matches(msg, m.keyMap.Paste):
		if err := m.engine.PasteFromClipboard(); err != nil {
			m.notice = "Clipboard unavailable"
			return m, expireNoticeCmd()
		}
		m.syncFromEngine()
		return m, nil

	case key.Matches(msg, m.keyMap.Attach):
		return m.attachFiles()

	case key.Matches(msg, m.keyMap.ClearFiles):
		m.engine.Stager().Clear()
		m.syncFromEngine()
		return m, nil
	}

	// Plain typing flows through the textinput into the engine.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.selected = 0
	m.engine.OnUserInput(m.input.Value(), m.input.Position())
	return m, cmd
}

func (m Model) handleCancel(set autocomplete.CandidateSet, tooltipOpen bool) (tea.Model, tea.Cmd) {
	switch {
	case tooltipOpen:
		m.engine.Autocomplete().Dismiss(set.Kind)
		m.selected = 0
	case m.engine.Recorder().IsActive():
		m.engine.Recorder().Cancel()
	case m.engine.Editing().IsEditing():
		m.engine.Editing().Cancel()
		m.syncFromEngine()
	default:
		m.input.Blur()
		m.engine.Blur()
	}
	return m, nil
}

// handlePaymentDialogKey drives the paid-message confirmation: Enter pays
// once, "a" pays and remembers the approval, Esc abandons the send.
func (m Model) handlePaymentDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.engine.Gate().Confirm(false)
		m.dialog = nil
		m.refreshOutbox()
	case "a", "A":
		m.engine.Gate().Confirm(true)
		m.dialog = nil
		m.refreshOutbox()
	case "esc":
		m.engine.Gate().Dismiss()
		m.dialog = nil
	}
	return m, nil
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		// The engine keeps edit mode open on edit-to-empty; confirming
		// the delete abandons the edit. Actual message deletion is the
		// host application's concern.
		m.engine.Editing().Cancel()
		m.syncFromEngine()
		m.deleteConfirm = nil
	case "n", "N", "esc":
		m.deleteConfirm = nil
	}
	return m, nil
}

// acceptCandidate applies the highlighted tooltip row.
func (m Model) acceptCandidate(set autocomplete.CandidateSet) (tea.Model, tea.Cmd) {
	if len(set.Candidates) == 0 {
		return m, nil
	}
	row := m.selected
	if row >= len(set.Candidates) {
		row = 0
	}
	cand := set.Candidates[row]

	switch set.Kind {
	case autocomplete.KindMention:
		if u, ok := m.reader.User(cand.UserID); ok {
			m.engine.InsertMention(u)
		}
	case autocomplete.KindEmoji, autocomplete.KindCustomEmoji:
		m.engine.InsertEmoji(cand.Value)
	case autocomplete.KindCommand:
		m.engine.InsertCommand(cand.Value, true)
	case autocomplete.KindSticker:
		m.engine.SendSticker(model.Sticker{ID: cand.DocumentID, Emoji: cand.Value}, composer.SendOptions{})
	case autocomplete.KindInlineBot:
		// The inline row is informational; results arrive from the bot.
	}

	m.selected = 0
	m.syncFromEngine()
	m.refreshOutbox()
	return m, nil
}

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	rec := m.engine.Recorder()
	if rec.IsActive() {
		if err := m.engine.StageVoiceNote(); err != nil {
			m.notice = "Recording failed"
			return m, expireNoticeCmd()
		}
		m.syncFromEngine()
		return m, nil
	}
	if err := rec.Start(); err != nil {
		m.notice = "Voice recording unavailable"
		return m, expireNoticeCmd()
	}
	m.recStart = time.Now()
	return m, recTickCmd()
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	if m.editTarget == nil {
		return m, nil
	}
	id, ok := m.editTarget()
	if !ok {
		m.notice = "Nothing to edit"
		return m, expireNoticeCmd()
	}
	m.engine.Editing().Start(id)
	m.syncFromEngine()
	return m, nil
}

func (m Model) attachFiles() (tea.Model, tea.Cmd) {
	if m.pickFiles == nil {
		return m, nil
	}
	files, err := m.pickFiles()
	if err != nil {
		m.notice = "Could not read files"
		return m, expireNoticeCmd()
	}
	if len(files) == 0 {
		return m, nil
	}
	m.engine.Stager().HandleAppendFiles(files, false)
	return m, nil
}

// =============================================================================
// ENGINE SYNC
// =============================================================================

// syncFromEngine reloads the textinput from the session after the engine
// rewrote the input markup.
func (m *Model) syncFromEngine() {
	sess := m.engine.Session()
	if sess == nil {
		return
	}
	plain := textparse.PlainText(sess.HTML.Get())
	m.input.SetValue(plain)
	m.input.SetCursor(sess.Caret)
}

func (m *Model) refreshOutbox() {
	m.viewport.SetContent(m.renderOutbox())
	m.viewport.GotoBottom()
}

// =============================================================================
// COMMANDS AND HELPERS
// =============================================================================

func expireNoticeCmd() tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpireMsg{}
	})
}

func recTickCmd() tea.Cmd {
	return tea.Tick(recInterval, func(t time.Time) tea.Msg {
		return recTickMsg(t)
	})
}

func wrapRow(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
