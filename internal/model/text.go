// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
package model

import (
	"sort"
	"strings"
	"unicode/utf16"
)

// =============================================================================
// ENTITY TYPES
// =============================================================================

// EntityType identifies one kind of rich-text annotation.
type EntityType string

const (
	EntityBold        EntityType = "bold"
	EntityItalic      EntityType = "italic"
	EntityUnderline   EntityType = "underline"
	EntityStrike      EntityType = "strike"
	EntitySpoiler     EntityType = "spoiler"
	EntityCode        EntityType = "code"
	EntityPre         EntityType = "pre"
	EntityURL         EntityType = "url"       // bare link, text is the URL
	EntityTextURL     EntityType = "text_url"  // link with custom text
	EntityMention     EntityType = "mention"   // @username literal
	EntityMentionName EntityType = "mention_name" // mention bound to a user id
	EntityCustomEmoji EntityType = "custom_emoji"
)

// MessageEntity annotates a half-open range [Offset, Offset+Length) of the
// text, measured in UTF-16 code units.
type MessageEntity struct {
	Type   EntityType `json:"type"`
	Offset int        `json:"offset"`
	Length int        `json:"length"`

	// Type-specific payload
	URL        string `json:"url,omitempty"`         // EntityTextURL
	UserID     string `json:"user_id,omitempty"`     // EntityMentionName
	DocumentID string `json:"document_id,omitempty"` // EntityCustomEmoji
	Language   string `json:"language,omitempty"`    // EntityPre
}

// =============================================================================
// FORMATTED TEXT
// =============================================================================

// FormattedText is plain text plus entity annotations. The zero value is the
// empty text.
type FormattedText struct {
	Text     string          `json:"text"`
	Entities []MessageEntity `json:"entities,omitempty"`
}

// IsEmpty reports whether the text contains nothing but whitespace.
func (t FormattedText) IsEmpty() bool {
	return strings.TrimSpace(t.Text) == ""
}

// HasLinks reports whether the entity set contains any URL-bearing entity.
// Used by the editing reconciler to detect link removal between revisions.
func (t FormattedText) HasLinks() bool {
	for _, e := range t.Entities {
		if e.Type == EntityURL || e.Type == EntityTextURL {
			return true
		}
	}
	return false
}

// CustomEmojiIDs returns the distinct custom emoji document ids referenced by
// the entity set, in first-appearance order.
func (t FormattedText) CustomEmojiIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, e := range t.Entities {
		if e.Type == EntityCustomEmoji && !seen[e.DocumentID] {
			seen[e.DocumentID] = true
			ids = append(ids, e.DocumentID)
		}
	}
	return ids
}

// SortEntities orders entities by offset, then by descending length so that
// enclosing entities come before enclosed ones.
func (t *FormattedText) SortEntities() {
	sort.SliceStable(t.Entities, func(i, j int) bool {
		a, b := t.Entities[i], t.Entities[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Length > b.Length
	})
}

// TextLength returns the length of s in UTF-16 code units. Message and
// caption limits are defined in these units, not runes or bytes.
func TextLength(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}
