// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
package model

// =============================================================================
// DISPATCH PAYLOADS
// =============================================================================

// SendRequest is the payload handed to the dispatcher for one outgoing
// message or album.
type SendRequest struct {
	ChatID   string `json:"chat_id"`
	ThreadID string `json:"thread_id"`

	Text        FormattedText `json:"text"`
	Attachments []Attachment  `json:"attachments,omitempty"`

	Sticker      *Sticker         `json:"sticker,omitempty"`
	GifID        string           `json:"gif_id,omitempty"`
	Poll         *Poll            `json:"poll,omitempty"`
	InlineResult *InlineBotResult `json:"inline_result,omitempty"`

	ReplyToID string `json:"reply_to_id,omitempty"`

	// ScheduledAt is a future unix timestamp; zero sends immediately.
	// SendWhenOnline uses the reserved far-future sentinel.
	ScheduledAt  int64 `json:"scheduled_at,omitempty"`
	RepeatPeriod int   `json:"repeat_period,omitempty"`

	IsSilent bool   `json:"is_silent,omitempty"`
	EffectID string `json:"effect_id,omitempty"`

	SendCompressed bool `json:"send_compressed,omitempty"`
	SendGrouped    bool `json:"send_grouped,omitempty"`

	// IsInvertedMedia places the link preview above the text; only
	// meaningful when a preview exists and compression and grouping are both
	// enabled.
	IsInvertedMedia bool `json:"is_inverted_media,omitempty"`

	// PaidStars is the total price confirmed through the payment gate.
	PaidStars int64 `json:"paid_stars,omitempty"`
}

// EditRequest is the payload handed to the dispatcher for an in-place edit.
type EditRequest struct {
	ChatID    string        `json:"chat_id"`
	ThreadID  string        `json:"thread_id"`
	MessageID string        `json:"message_id"`
	Text      FormattedText `json:"text"`

	// Attachment, when set, replaces the message's existing media.
	Attachment *Attachment `json:"attachment,omitempty"`

	// NoWebPage suppresses the link preview; set when the edit removed the
	// last link entity from the text.
	NoWebPage bool `json:"no_web_page,omitempty"`
}

// ForwardRequest describes an active forward batch joining a send.
type ForwardRequest struct {
	FromChatID  string   `json:"from_chat_id"`
	ToChatID    string   `json:"to_chat_id"`
	MessageIDs  []string `json:"message_ids"`
	ScheduledAt int64    `json:"scheduled_at,omitempty"`
	IsSilent    bool     `json:"is_silent,omitempty"`
}

// ScheduledWhenOnline is the reserved ScheduledAt sentinel meaning "deliver
// when the peer next comes online".
const ScheduledWhenOnline int64 = 0x7FFFFFFE
