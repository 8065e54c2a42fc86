// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/courier-tui/internal/composer/autocomplete"
	"github.com/jeranaias/courier-tui/internal/emoji"
	"github.com/jeranaias/courier-tui/internal/model"
)

// nbsp follows inserted mentions so the next keystroke does not extend the
// mention token.
const nbsp = " "

func (c *Composer) emojiIndex() *emoji.Index {
	return emoji.DefaultIndex()
}

// =============================================================================
// INSERTION
// =============================================================================

// insertAtCaret splices plain text into the input at the caret position.
func (c *Composer) insertAtCaret(text string) {
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return
	}
	caret := sess.Caret
	c.mu.Unlock()

	updated, newCaret := replacePlainRange(sess.HTML.Get(), caret, caret, text)
	c.setInput(sess, updated, newCaret)
}

// applyAutoInsert replaces a completed shortcode token with its native
// emoji. Registered as the coordinator's auto-insert handler.
func (c *Composer) applyAutoInsert(ai autocomplete.AutoInsert) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	updated, newCaret := replacePlainRange(sess.HTML.Get(), ai.Start, ai.End, ai.Native)
	c.setInput(sess, updated, newCaret)
}

// InsertMention completes the active mention trigger. Users with a public
// username get the literal; others get a name node bound to their id. A
// non-breaking space follows either form and the input refocuses.
func (c *Composer) InsertMention(user model.User) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	set := c.ac.Set(autocomplete.KindMention)
	start, end := set.TriggerStart, set.TriggerEnd
	if !set.IsOpen {
		c.mu.Lock()
		start, end = sess.Caret, sess.Caret
		c.mu.Unlock()
	}

	var markup string
	if user.Username != "" {
		markup = "@" + user.Username + nbsp
	} else {
		markup = fmt.Sprintf(`<span data-user-id="%s">%s</span>%s`,
			html.EscapeString(user.ID), html.EscapeString(user.FullName()), nbsp)
	}

	updated, newCaret := replacePlainRange(sess.HTML.Get(), start, end, markup)
	c.setInput(sess, updated, newCaret)
	c.focusInput()
}

// InsertEmoji inserts a picked native emoji at the caret, replacing the
// emoji trigger token when one is open.
func (c *Composer) InsertEmoji(native string) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	set := c.ac.Set(autocomplete.KindEmoji)
	start, end := set.TriggerStart, set.TriggerEnd
	if !set.IsOpen {
		c.mu.Lock()
		start, end = sess.Caret, sess.Caret
		c.mu.Unlock()
	}

	updated, newCaret := replacePlainRange(sess.HTML.Get(), start, end, native)
	c.setInput(sess, updated, newCaret)
}

// InsertCommand replaces the input with the completed slash command and
// sends it immediately when the command tooltip is open.
func (c *Composer) InsertCommand(command string, sendNow bool) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	c.setInput(sess, "/"+command, len([]rune(command))+1)
	if sendNow {
		c.Send(SendOptions{})
	}
}

// setInput writes a programmatic text change and refreshes the detectors.
// Programmatic changes count as user edits for draft purposes.
func (c *Composer) setInput(sess *Session, htmlText string, caret int) {
	c.mu.Lock()
	sess.Caret = caret
	sess.IsTouched = true
	c.mu.Unlock()

	sess.HTML.Set(htmlText)
	c.feedAutocomplete(sess)
}

// =============================================================================
// PLAIN-RANGE SPLICING
// =============================================================================

// replacePlainRange replaces the rune range [start, end) of the markup's
// plain-text projection with repl, returning the new markup and the caret
// rune position after the inserted text. Tags are zero width, character
// references count as one rune, and an img tag contributes its alt text.
// Markup inside the replaced range is dropped with it.
func replacePlainRange(markup string, start, end int, repl string) (string, int) {
	if end < start {
		start, end = end, start
	}

	cutStart, cutEnd := -1, -1
	plain := 0
	runes := []rune(markup)

	for i := 0; i < len(runes); {
		if plain == start && cutStart < 0 {
			cutStart = i
		}
		if plain == end && cutEnd < 0 {
			cutEnd = i
			break
		}

		switch runes[i] {
		case '<':
			stop := indexRune(runes, i, '>')
			if stop < 0 {
				plain++
				i++
				continue
			}
			tag := string(runes[i : stop+1])
			if alt := imgAlt(tag); alt != "" {
				plain += len([]rune(alt))
			} else if isLineBreakTag(tag) {
				plain++
			}
			i = stop + 1
		case '&':
			stop := indexRune(runes, i, ';')
			if stop < 0 || stop-i > 10 {
				plain++
				i++
				continue
			}
			plain++
			i = stop + 1
		default:
			plain++
			i++
		}
	}
	if cutStart < 0 {
		cutStart = len(runes)
	}
	if cutEnd < 0 {
		cutEnd = len(runes)
	}

	out := string(runes[:cutStart]) + repl + string(runes[cutEnd:])
	caret := start + plainLength(repl)
	return out, caret
}

// plainLength is the rune length of markup's plain projection.
func plainLength(markup string) int {
	n := 0
	runes := []rune(markup)
	for i := 0; i < len(runes); {
		switch runes[i] {
		case '<':
			stop := indexRune(runes, i, '>')
			if stop < 0 {
				n++
				i++
				continue
			}
			tag := string(runes[i : stop+1])
			if alt := imgAlt(tag); alt != "" {
				n += len([]rune(alt))
			} else if isLineBreakTag(tag) {
				n++
			}
			i = stop + 1
		case '&':
			stop := indexRune(runes, i, ';')
			if stop < 0 || stop-i > 10 {
				n++
				i++
				continue
			}
			n++
			i = stop + 1
		default:
			n++
			i++
		}
	}
	return n
}

func indexRune(runes []rune, from int, r rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func isLineBreakTag(tag string) bool {
	t := strings.ToLower(tag)
	return strings.HasPrefix(t, "<br")
}

// imgAlt extracts the alt attribute of an img tag, empty otherwise.
func imgAlt(tag string) string {
	t := strings.ToLower(tag)
	if !strings.HasPrefix(t, "<img") {
		return ""
	}
	idx := strings.Index(t, `alt="`)
	if idx < 0 {
		return ""
	}
	rest := tag[idx+len(`alt="`):]
	quote := strings.IndexByte(rest, '"')
	if quote < 0 {
		return ""
	}
	return rest[:quote]
}
