// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autocomplete implements the composer's tooltip detectors.
package autocomplete

import (
	"strings"
	"unicode"
)

// =============================================================================
// TRIGGER PARSERS
// =============================================================================
//
// All positions are rune indices into the plain text. Parsers are pure: the
// same text and caret always produce the same trigger, so they can run on
// every tick without bookkeeping.

// isShortcodeRune reports whether r may appear inside an :emoji: token.
func isShortcodeRune(r rune) bool {
	return r == '_' || r == '+' || r == '-' ||
		unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isWordRune reports whether r may appear inside an @mention or /command
// token.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isBoundaryRune reports whether r may legally precede a trigger sigil.
func isBoundaryRune(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("([{\"'‘“", r)
}

// clampCaret bounds caret to [0, len(runes)].
func clampCaret(runes []rune, caret int) int {
	if caret < 0 {
		return 0
	}
	if caret > len(runes) {
		return len(runes)
	}
	return caret
}

// -----------------------------------------------------------------------------
// EMOJI
// -----------------------------------------------------------------------------

// EmojiTrigger is an in-progress ":name" token ending at the caret.
type EmojiTrigger struct {
	// Query is the token between the colons, without them.
	Query string

	// Start and End are the rune range covering the whole token including
	// the leading (and for complete tokens, trailing) colon.
	Start, End int

	// Complete marks a closed ":name:" token, which auto-inserts the first
	// match instead of opening a candidate list.
	Complete bool
}

// ParseEmojiTrigger finds a shortcode token immediately before the caret.
func ParseEmojiTrigger(text string, caret int) (EmojiTrigger, bool) {
	runes := []rune(text)
	caret = clampCaret(runes, caret)

	i := caret - 1
	if i < 0 {
		return EmojiTrigger{}, false
	}

	complete := false
	if runes[i] == ':' {
		complete = true
		i--
	}

	j := i
	for j >= 0 && isShortcodeRune(runes[j]) {
		j--
	}
	if j < 0 || runes[j] != ':' {
		return EmojiTrigger{}, false
	}
	if j > 0 && !isBoundaryRune(runes[j-1]) {
		return EmojiTrigger{}, false
	}

	query := string(runes[j+1 : i+1])
	if query == "" {
		return EmojiTrigger{}, false
	}

	return EmojiTrigger{
		Query:    query,
		Start:    j,
		End:      caret,
		Complete: complete,
	}, true
}

// -----------------------------------------------------------------------------
// MENTION
// -----------------------------------------------------------------------------

// MentionTrigger is a bare "@token" with the caret immediately after it.
type MentionTrigger struct {
	// Query is the partial username, possibly empty right after the '@'.
	Query string

	// Start is the rune index of the '@'.
	Start, End int
}

// ParseMentionTrigger requires the caret to sit immediately after a bare
// @token with no intervening whitespace.
func ParseMentionTrigger(text string, caret int) (MentionTrigger, bool) {
	runes := []rune(text)
	caret = clampCaret(runes, caret)

	j := caret - 1
	for j >= 0 && isWordRune(runes[j]) {
		j--
	}
	if j < 0 || runes[j] != '@' {
		return MentionTrigger{}, false
	}
	if j > 0 && !isBoundaryRune(runes[j-1]) {
		return MentionTrigger{}, false
	}

	return MentionTrigger{
		Query: string(runes[j+1 : caret]),
		Start: j,
		End:   caret,
	}, true
}

// -----------------------------------------------------------------------------
// INLINE BOT
// -----------------------------------------------------------------------------

// InlineBotTrigger is a message of the form "@botusername query...".
type InlineBotTrigger struct {
	Username string

	// Query is everything after the first space following the username.
	Query string

	// SuppressHelp is set when a double newline immediately follows the
	// username, which hides the bot's help placeholder.
	SuppressHelp bool
}

// ParseInlineBotTrigger requires the message to start with @username
// followed by at least one whitespace character.
func ParseInlineBotTrigger(text string) (InlineBotTrigger, bool) {
	if !strings.HasPrefix(text, "@") {
		return InlineBotTrigger{}, false
	}
	rest := text[1:]

	end := strings.IndexFunc(rest, func(r rune) bool { return !isWordRune(r) })
	if end <= 0 {
		return InlineBotTrigger{}, false
	}
	username := rest[:end]
	after := rest[end:]

	r := []rune(after)[0]
	if !unicode.IsSpace(r) {
		return InlineBotTrigger{}, false
	}

	return InlineBotTrigger{
		Username:     username,
		Query:        strings.TrimLeft(after, " \n\t"),
		SuppressHelp: strings.HasPrefix(after, "\n\n"),
	}, true
}

// -----------------------------------------------------------------------------
// COMMAND
// -----------------------------------------------------------------------------

// CommandTrigger is a "/command" prefix under the caret at message start.
type CommandTrigger struct {
	// Query is the partial command without the slash.
	Query string
}

// ParseCommandTrigger matches while the caret is still inside the first
// token of a message starting with '/'.
func ParseCommandTrigger(text string, caret int) (CommandTrigger, bool) {
	if !strings.HasPrefix(text, "/") {
		return CommandTrigger{}, false
	}
	runes := []rune(text)
	caret = clampCaret(runes, caret)

	for i := 1; i < caret; i++ {
		if !isWordRune(runes[i]) {
			return CommandTrigger{}, false
		}
	}
	// Anything after the caret means the token is already committed.
	if caret < len(runes) {
		return CommandTrigger{}, false
	}

	return CommandTrigger{Query: string(runes[1:caret])}, true
}

// -----------------------------------------------------------------------------
// STICKER
// -----------------------------------------------------------------------------

// ParseStickerTrigger reports whether the whole trimmed text is a single
// emoji, returning it. Sticker suggestions open only for exact single-emoji
// input.
func ParseStickerTrigger(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	runes := []rune(trimmed)
	// An emoji cluster is short; anything containing word runes or spaces
	// is ordinary text.
	if len(runes) > 7 {
		return "", false
	}
	for _, r := range runes {
		if isWordRune(r) || unicode.IsSpace(r) || unicode.IsPunct(r) {
			return "", false
		}
		if r < 0x2000 {
			return "", false
		}
	}
	return trimmed, true
}
