// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
package model

import "strings"

// =============================================================================
// ATTACHMENT
// =============================================================================

// QuickMeta holds the dimensions and duration produced by a successful
// client-side preview or transcode. An attachment without QuickMeta is always
// sent as a generic file.
type QuickMeta struct {
	Width    int `json:"width,omitempty"`
	Height   int `json:"height,omitempty"`
	Duration int `json:"duration,omitempty"` // seconds, video/audio only
}

// VoiceMeta marks an attachment as a voice note.
type VoiceMeta struct {
	Duration int    `json:"duration"` // seconds
	Waveform []byte `json:"waveform,omitempty"`
}

// Attachment represents one staged file pending send.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`

	// BlobURL addresses the staged payload (an object URL in the original
	// client; an opaque locator here).
	BlobURL        string `json:"blob_url"`
	PreviewBlobURL string `json:"preview_blob_url,omitempty"`

	Quick *QuickMeta `json:"quick,omitempty"`
	Voice *VoiceMeta `json:"voice,omitempty"`

	IsSpoiler bool `json:"is_spoiler,omitempty"`

	// ShouldSendAsFile forces generic-document delivery even for media types.
	ShouldSendAsFile bool `json:"should_send_as_file,omitempty"`

	// TTLSeconds, when non-zero, makes the attachment view-once/self-deleting.
	TTLSeconds int `json:"ttl_seconds,omitempty"`
}

// OneTimeMediaTTLSeconds is the wire sentinel TTL for view-once media,
// meaning "delete after first open" rather than a real duration.
const OneTimeMediaTTLSeconds = 0x7FFFFFFF

// Kind classifies the attachment for capability gating and media replacement.
// Voice notes classify as MediaVoice regardless of mime type; attachments
// without quick metadata classify as documents.
func (a Attachment) Kind() MediaKind {
	if a.Voice != nil {
		return MediaVoice
	}
	if a.Quick == nil {
		return MediaDocument
	}
	switch {
	case strings.HasPrefix(a.MimeType, "image/"):
		return MediaPhoto
	case strings.HasPrefix(a.MimeType, "video/"):
		return MediaVideo
	case strings.HasPrefix(a.MimeType, "audio/"):
		return MediaAudio
	default:
		return MediaDocument
	}
}
