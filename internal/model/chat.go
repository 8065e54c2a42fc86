// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
package model

// MainThreadID is the thread id of a chat's top-level conversation.
const MainThreadID = "0"

// =============================================================================
// CHAT
// =============================================================================

// Permissions holds the per-chat send capabilities for the current user.
// Attachment gating consults these before anything enters the staged list.
type Permissions struct {
	CanSendPlainText  bool `json:"can_send_plain_text"`
	CanSendPhotos     bool `json:"can_send_photos"`
	CanSendVideos     bool `json:"can_send_videos"`
	CanSendDocuments  bool `json:"can_send_documents"`
	CanSendAudios     bool `json:"can_send_audios"`
	CanSendVoices     bool `json:"can_send_voices"`
	CanSendStickers   bool `json:"can_send_stickers"`
	CanSendPolls      bool `json:"can_send_polls"`
}

// AllPermissions returns a permission set with everything enabled.
func AllPermissions() Permissions {
	return Permissions{
		CanSendPlainText: true,
		CanSendPhotos:    true,
		CanSendVideos:    true,
		CanSendDocuments: true,
		CanSendAudios:    true,
		CanSendVoices:    true,
		CanSendStickers:  true,
		CanSendPolls:     true,
	}
}

// SlowModeOptions describes a chat-level send rate limit.
type SlowModeOptions struct {
	// Seconds is the minimum interval between sends for non-admins.
	Seconds int `json:"seconds"`

	// NextSendDate, when non-zero, is a server-provided unix timestamp before
	// which sending is rejected regardless of local bookkeeping.
	NextSendDate int64 `json:"next_send_date,omitempty"`
}

// Chat is the subset of chat state the composition engine consumes.
type Chat struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IsForum  bool   `json:"is_forum"`

	Permissions Permissions      `json:"permissions"`
	SlowMode    *SlowModeOptions `json:"slow_mode,omitempty"`

	// PaidMessageStars is the per-message price in stars; zero means free.
	PaidMessageStars int64 `json:"paid_message_stars,omitempty"`

	// AdminIDs lists members exempt from slow mode.
	AdminIDs []string `json:"admin_ids,omitempty"`
}

// IsAdmin reports whether the given user is exempt from slow mode.
func (c Chat) IsAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// =============================================================================
// USERS AND BOTS
// =============================================================================

// User is the subset of user state the engine consumes for mentions and
// inline-bot queries.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	IsBot     bool   `json:"is_bot"`
	IsPremium bool   `json:"is_premium"`

	// InlinePlaceholder is the "help" hint shown while an inline bot query
	// is empty. Only meaningful for bots.
	InlinePlaceholder string `json:"inline_placeholder,omitempty"`
}

// FullName returns the displayable name of the user.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// BotCommand is one slash command registered by a bot in a chat.
type BotCommand struct {
	BotID       string `json:"bot_id"`
	Command     string `json:"command"`
	Description string `json:"description"`
}

// QuickReply is a saved message template insertable via a slash-like trigger.
type QuickReply struct {
	ID       string `json:"id"`
	Shortcut string `json:"shortcut"`
}

// InlineBotResult is one result row returned by an inline bot query.
type InlineBotResult struct {
	QueryID string `json:"query_id"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
}

// Sticker is a sticker or custom emoji document.
type Sticker struct {
	ID            string `json:"id"`
	Emoji         string `json:"emoji"`
	SetID         string `json:"set_id,omitempty"`
	IsCustomEmoji bool   `json:"is_custom_emoji"`
}

// PollOption is one answer of a poll draft.
type PollOption struct {
	Text string `json:"text"`
}

// Poll is a poll draft produced by the poll modal.
type Poll struct {
	Question        string       `json:"question"`
	Options         []PollOption `json:"options"`
	IsAnonymous     bool         `json:"is_anonymous"`
	IsQuiz          bool         `json:"is_quiz"`
	CorrectOptionID int          `json:"correct_option_id,omitempty"`
}
