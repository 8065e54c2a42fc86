// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
package model

import "time"

// =============================================================================
// DRAFT
// =============================================================================

// Draft is a persisted snapshot of unsent composer text for one chat thread.
//
// Revision is a store-maintained monotonic counter bumped on every write.
// Last-writer detection between a locally touched composer and a remote
// update compares revisions, never timestamps: clocks across devices are not
// trusted, counters per key are.
type Draft struct {
	Text      FormattedText `json:"text"`
	ReplyToID string        `json:"reply_to_id,omitempty"`
	EffectID  string        `json:"effect_id,omitempty"`

	// IsLocal marks a draft written by this client that has not yet been
	// acknowledged by the server.
	IsLocal bool `json:"is_local,omitempty"`

	Revision  uint64    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether the draft carries no text and no reply reference.
func (d Draft) IsEmpty() bool {
	return d.Text.IsEmpty() && d.ReplyToID == ""
}

// =============================================================================
// MESSAGE
// =============================================================================

// MediaKind classifies message media for replacement-compatibility checks.
type MediaKind string

const (
	MediaNone     MediaKind = ""
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaVoice    MediaKind = "voice"
	MediaDocument MediaKind = "document"
	MediaSticker  MediaKind = "sticker"
)

// Message is the subset of message state the editing reconciler consumes.
type Message struct {
	ID       string        `json:"id"`
	ChatID   string        `json:"chat_id"`
	ThreadID string        `json:"thread_id"`
	Content  FormattedText `json:"content"`

	Media MediaKind `json:"media,omitempty"`

	// GroupedID is non-empty when the message belongs to an album; media in
	// grouped messages cannot be replaced while editing.
	GroupedID string `json:"grouped_id,omitempty"`

	Date int64 `json:"date"`
}

// HasMedia reports whether the message carries any media.
func (m Message) HasMedia() bool {
	return m.Media != MediaNone
}
