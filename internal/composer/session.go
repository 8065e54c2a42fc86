// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/signal"
)

// =============================================================================
// SESSION
// =============================================================================

// Mode selects between composing a new message and editing an existing one.
type Mode int

const (
	ModeCompose Mode = iota
	ModeEdit
)

// Session is the per-thread composer state. The HTML signal and the staged
// attachment list are exclusively owned by the session; all other fields
// are guarded by the owning Composer's mutex.
type Session struct {
	ChatID   string
	ThreadID string

	// HTML is the live input as markup. Plain keystrokes produce plain
	// text; formatting, mentions and custom emoji arrive as tags.
	HTML *signal.Signal[string]

	// Caret is a rune index into the plain text of HTML.
	Caret int

	// IsTouched is set by any user keystroke and cleared when the input
	// matches the persisted remote draft. While set, remote draft updates
	// for this thread are ignored.
	IsTouched bool

	Attachments []model.Attachment

	// ShouldForceAsFile is derived when some staged media type is not
	// individually permitted but generic documents are.
	ShouldForceAsFile bool

	// ShouldForceCompression is derived when documents are not permitted
	// at all, so everything must go out as compressed media.
	ShouldForceCompression bool

	// NextText is queued for insertion after the attachment flow closes.
	NextText string

	// ReplyToID is the active reply target; edit mode is tied 1:1 to it.
	ReplyToID string

	// PendingForward joins the next send as a forwarded batch.
	PendingForward *model.ForwardRequest

	// LastCompression and LastGrouped are the user's last-used attachment
	// send preferences, the defaults when a caller does not specify.
	LastCompression bool
	LastGrouped     bool

	// hadRemoteDraft tracks whether the previous thread had a persisted
	// draft, for the restore protocol on thread change.
	hadRemoteDraft bool

	// lastRemoteRevision is the highest draft revision applied to the
	// input, so replayed updates are dropped.
	lastRemoteRevision uint64
}

func newSession(chatID, threadID string) *Session {
	return &Session{
		ChatID:          chatID,
		ThreadID:        threadID,
		HTML:            signal.New(""),
		LastCompression: true,
		LastGrouped:     true,
	}
}

// draftKey scopes debounced saves so a save scheduled on one thread can
// never apply after navigating to another.
func (s *Session) draftKey() string {
	return s.ChatID + "\x00" + s.ThreadID
}
