// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composerview provides the Bubble Tea front-end for the
// composition engine.
package composerview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/courier-tui/internal/store"
)

// =============================================================================
// ENGINE EVENT MESSAGES
// =============================================================================

// NoticeMsg is a transient, non-blocking notification from the engine.
type NoticeMsg struct {
	Key    string
	Params map[string]string
}

// DialogMsg is a blocking dialog request from the engine.
type DialogMsg struct {
	Dialog store.Dialog
}

// LimitModalMsg asks for the oversized-attachment flow.
type LimitModalMsg struct {
	Limit string
}

// StarsModalMsg asks for the star top-up flow.
type StarsModalMsg struct {
	Required int64
}

// DeleteConfirmMsg asks whether an edit-to-empty should delete the message.
type DeleteConfirmMsg struct {
	ChatID    string
	MessageID string
}

// FocusMsg tells the view the engine wants the input focused, after it
// rewrote the text programmatically.
type FocusMsg struct{}

// BlurMsg tells the view the engine wants the input blurred.
type BlurMsg struct{}

// =============================================================================
// INTERNAL TICK MESSAGES
// =============================================================================

// recTickMsg refreshes the recording indicator while a voice note records.
type recTickMsg time.Time

// noticeExpireMsg clears the transient notice line.
type noticeExpireMsg struct{}

// =============================================================================
// NOTIFIER
// =============================================================================

// Notifier adapts the engine's notification callbacks to Bubble Tea
// messages. Engine callbacks run on timer goroutines; pushing onto a
// buffered channel and draining it with Wait keeps all model mutation on
// the program goroutine. A full channel drops the event rather than block
// the engine.
type Notifier struct {
	events chan tea.Msg
}

// NewNotifier creates a notifier with room for a burst of events.
func NewNotifier() *Notifier {
	return &Notifier{events: make(chan tea.Msg, 32)}
}

// Wait returns a command that delivers the next engine event.
func (n *Notifier) Wait() tea.Cmd {
	return func() tea.Msg {
		return <-n.events
	}
}

// Push queues an arbitrary message for the program. The focus handlers
// use it alongside the store.Notifier implementation below.
func (n *Notifier) Push(msg tea.Msg) {
	select {
	case n.events <- msg:
	default:
	}
}

func (n *Notifier) ShowNotification(messageKey string, params map[string]string) {
	n.Push(NoticeMsg{Key: messageKey, Params: params})
}

func (n *Notifier) ShowDialog(d store.Dialog) {
	n.Push(DialogMsg{Dialog: d})
}

func (n *Notifier) OpenLimitReachedModal(limit string) {
	n.Push(LimitModalMsg{Limit: limit})
}

func (n *Notifier) OpenStarsBalanceModal(requiredStars int64) {
	n.Push(StarsModalMsg{Required: requiredStars})
}

func (n *Notifier) RequestDeleteConfirmation(chatID, messageID string) {
	n.Push(DeleteConfirmMsg{ChatID: chatID, MessageID: messageID})
}
