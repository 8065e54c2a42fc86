// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store defines the capability surface between the composition
// engine and the application state it consumes and produces.
//
// The engine never reaches into ambient globals: it takes a Reader/Writer
// pair for shared state, a Dispatcher for outbound actions, and a Notifier
// for user-visible failures. Tests substitute any of them independently.
package store

import (
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// READ SIDE
// =============================================================================

// Reader exposes the application state the engine consumes. Implementations
// must be safe for use from timer callbacks; other tabs and devices may
// mutate the underlying state between any two calls, so callers re-read
// after every suspension point.
type Reader interface {
	// Chat returns chat metadata and capability flags.
	Chat(chatID string) (model.Chat, bool)

	// User returns user metadata.
	User(userID string) (model.User, bool)

	// UserByUsername resolves a username (without '@') to a user.
	UserByUsername(username string) (model.User, bool)

	// Draft returns the persisted draft for a thread.
	Draft(chatID, threadID string) (model.Draft, bool)

	// EditingDraft returns the snapshot of an interrupted edit.
	EditingDraft(chatID, threadID string) (model.FormattedText, bool)

	// Message returns a message by id, for edit-mode loading.
	Message(chatID, messageID string) (model.Message, bool)

	// ChatMembers lists members for mention completion.
	ChatMembers(chatID string) []model.User

	// BotCommands lists the slash commands registered in a chat.
	BotCommands(chatID string) []model.BotCommand

	// QuickReplies lists the user's saved quick reply shortcuts.
	QuickReplies() []model.QuickReply

	// CustomEmoji resolves a custom emoji document id.
	CustomEmoji(documentID string) (model.Sticker, bool)

	// StickersForEmoji lists stickers whose emoji equals the given native
	// emoji, for the sticker suggestion tooltip.
	StickersForEmoji(emoji string) []model.Sticker

	// StarBalance returns the user's star balance for paid-message gating.
	StarBalance() int64

	// AutoApprovePayments reports whether the user opted out of the
	// per-send payment confirmation.
	AutoApprovePayments() bool

	// LastSentAt returns the local timestamp of the last send in a chat.
	LastSentAt(chatID string) (time.Time, bool)

	// ServerNow returns current time adjusted by the server offset.
	ServerNow() time.Time
}

// =============================================================================
// WRITE SIDE
// =============================================================================

// Writer exposes the state mutations the engine produces.
type Writer interface {
	// SaveDraft persists a draft for a thread. The store assigns the
	// revision; the passed draft's Revision field is ignored.
	SaveDraft(chatID, threadID string, d model.Draft)

	// ClearDraft removes a thread's draft. localOnly keeps the reply
	// reference and skips server propagation.
	ClearDraft(chatID, threadID string, localOnly bool)

	// SetEditingDraft snapshots an in-progress edit.
	SetEditingDraft(chatID, threadID string, text model.FormattedText)

	// ClearEditingDraft drops the edit snapshot.
	ClearEditingDraft(chatID, threadID string)

	// SetLastSentAt records a successful send for slow-mode bookkeeping.
	SetLastSentAt(chatID string, t time.Time)

	// SetAutoApprovePayments persists the payment auto-approval choice.
	SetAutoApprovePayments(enabled bool)
}

// DraftObserver delivers remote draft updates. The callback runs on the
// store's goroutine; the returned function unsubscribes.
type DraftObserver interface {
	OnDraftChange(fn func(chatID, threadID string, d model.Draft)) func()
}

// =============================================================================
// OUTBOUND ACTIONS
// =============================================================================

// Dispatcher is the terminal boundary of the send pipeline.
type Dispatcher interface {
	SendMessage(req model.SendRequest) error
	EditMessage(req model.EditRequest) error
	SendInlineBotResult(req model.SendRequest) error
	ForwardMessages(req model.ForwardRequest) error

	// SendTypingAction emits a transient chat action ("typing",
	// "recordAudio", "cancel").
	SendTypingAction(chatID, threadID, action string) error
}

// =============================================================================
// USER-VISIBLE SURFACES
// =============================================================================

// Dialog is a blocking, localized message box request.
type Dialog struct {
	MessageKey string
	Params     map[string]string
	IsError    bool
	IsSlowMode bool
}

// Notifier surfaces validation failures and policy conflicts. All failures
// route through these primitives with a localized message key; there is no
// separate error-code channel.
type Notifier interface {
	ShowNotification(messageKey string, params map[string]string)
	ShowDialog(d Dialog)

	// OpenLimitReachedModal opens the "limit reached" flow for oversized
	// attachments.
	OpenLimitReachedModal(limit string)

	// OpenStarsBalanceModal opens the top-up flow when the balance cannot
	// cover a paid send.
	OpenStarsBalanceModal(requiredStars int64)

	// RequestDeleteConfirmation asks whether an edit-to-empty should delete
	// the message instead.
	RequestDeleteConfirmation(chatID, messageID string)
}
