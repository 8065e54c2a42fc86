// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strconv"
	"sync"

	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/store"
)

// =============================================================================
// PAYMENT GATE
// =============================================================================

// ActionKind enumerates the confirmable send operations.
type ActionKind int

const (
	ActionSendText ActionKind = iota
	ActionSendAttachments
	ActionSendSticker
	ActionSendGif
	ActionSendPoll
	ActionSendInline
)

// PendingAction is a confirmable operation held by the gate until the user
// approves the price. Holding a value rather than a closure keeps the
// pending state inspectable and serializable.
type PendingAction struct {
	Kind ActionKind
	Req  model.SendRequest

	// MessagesCount is how many billable messages the action produces.
	MessagesCount int

	// TotalStars is MessagesCount times the chat's per-message price.
	TotalStars int64
}

// PaymentGate wraps every send path in paid chats. At most one action is
// pending: a new confirmable action replaces the previous one, implicitly
// cancelling it.
type PaymentGate struct {
	c *Composer

	mu      sync.Mutex
	pending *PendingAction
	exec    func(PendingAction)
}

func newPaymentGate(c *Composer) *PaymentGate {
	return &PaymentGate{c: c}
}

// Run executes the action immediately in free chats. In paid chats it
// checks the balance, then either executes (auto-approval), short-circuits
// into the top-up flow, or defers the action behind a confirmation dialog.
func (pg *PaymentGate) Run(action PendingAction, exec func(PendingAction)) {
	c := pg.c
	chat, ok := c.reader.Chat(action.Req.ChatID)
	if !ok {
		return
	}

	cost := chat.PaidMessageStars
	if cost <= 0 {
		exec(action)
		return
	}

	if action.MessagesCount <= 0 {
		action.MessagesCount = 1
	}
	action.TotalStars = cost * int64(action.MessagesCount)

	if c.reader.StarBalance() < action.TotalStars {
		c.notifier.OpenStarsBalanceModal(action.TotalStars)
		return
	}

	if c.reader.AutoApprovePayments() {
		action.Req.PaidStars = action.TotalStars
		exec(action)
		return
	}

	pg.mu.Lock()
	pg.pending = &action
	pg.exec = exec
	pg.mu.Unlock()

	c.notifier.ShowDialog(store.Dialog{
		MessageKey: "ConfirmPaidMessage",
		Params: map[string]string{
			"STARS_COUNT":    strconv.FormatInt(action.TotalStars, 10),
			"MESSAGES_COUNT": strconv.Itoa(action.MessagesCount),
		},
	})
}

// Confirm fires the pending action. rememberAutoApprove persists the
// user's choice to skip this dialog for subsequent sends.
func (pg *PaymentGate) Confirm(rememberAutoApprove bool) {
	pg.mu.Lock()
	action := pg.pending
	exec := pg.exec
	pg.pending = nil
	pg.exec = nil
	pg.mu.Unlock()
	if action == nil || exec == nil {
		return
	}

	if rememberAutoApprove {
		pg.c.writer.SetAutoApprovePayments(true)
	}
	action.Req.PaidStars = action.TotalStars
	exec(*action)
}

// Dismiss drops the pending action without executing it.
func (pg *PaymentGate) Dismiss() {
	pg.mu.Lock()
	pg.pending = nil
	pg.exec = nil
	pg.mu.Unlock()
}

// Pending returns a copy of the deferred action, if any.
func (pg *PaymentGate) Pending() (PendingAction, bool) {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	if pg.pending == nil {
		return PendingAction{}, false
	}
	return *pg.pending, true
}

// messagesCount derives how many billable messages a request produces:
// each attachment is one message, a joined forward batch adds its count,
// and anything else (text, sticker, poll, inline result) is one.
func messagesCount(req model.SendRequest, forward *model.ForwardRequest) int {
	n := 0
	if len(req.Attachments) > 0 {
		n += len(req.Attachments)
	} else {
		n++
	}
	if forward != nil {
		n += len(forward.MessageIDs)
	}
	return n
}
