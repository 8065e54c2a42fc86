// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textparse converts between the composer's live HTML and the
// entity-annotated FormattedText records persisted as drafts.
package textparse

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// HTML -> FORMATTED TEXT
// =============================================================================

// openEntity tracks an entity whose start tag has been seen but whose end
// tag has not.
type openEntity struct {
	entity model.MessageEntity
	tag    atom.Atom
}

// ParseHTML converts input HTML into FormattedText. Unknown tags contribute
// their text content without annotations. Offsets are UTF-16 code units.
func ParseHTML(input string) model.FormattedText {
	tz := html.NewTokenizer(strings.NewReader(input))

	var sb strings.Builder
	var entities []model.MessageEntity
	var open []openEntity
	offset := 0 // UTF-16 units written so far

	appendText := func(s string) {
		sb.WriteString(s)
		offset += model.TextLength(s)
	}

	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := tz.Token()

		switch tt {
		case html.TextToken:
			appendText(tok.Data)

		case html.SelfClosingTagToken, html.StartTagToken:
			switch tok.DataAtom {
			case atom.Br:
				appendText("\n")
				continue
			case atom.Img:
				if att, ok := customEmojiAttrs(tok); ok {
					start := offset
					appendText(att.alt)
					entities = append(entities, model.MessageEntity{
						Type:       model.EntityCustomEmoji,
						Offset:     start,
						Length:     offset - start,
						DocumentID: att.documentID,
					})
				}
				continue
			}
			if tt == html.SelfClosingTagToken {
				continue
			}
			if e, ok := entityForStartTag(tok); ok {
				e.Offset = offset
				open = append(open, openEntity{entity: e, tag: tok.DataAtom})
			}

		case html.EndTagToken:
			// New block starts a line; only emitted by external HTML, our
			// renderer uses <br>.
			if tok.DataAtom == atom.Div || tok.DataAtom == atom.P {
				appendText("\n")
				continue
			}
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].tag != tok.DataAtom {
					continue
				}
				e := open[i].entity
				e.Length = offset - e.Offset
				if e.Length > 0 {
					if e.Type == model.EntityTextURL {
						e = normalizeLink(e, sb.String())
					}
					entities = append(entities, e)
				}
				open = append(open[:i], open[i+1:]...)
				break
			}
		}
	}

	text := model.FormattedText{Text: sb.String(), Entities: entities}
	text.Text = strings.TrimRight(text.Text, "\n")
	text.SortEntities()
	return text
}

type emojiAttrs struct {
	documentID string
	alt        string
}

// customEmojiAttrs extracts the document id and alt text of a custom emoji
// image node.
func customEmojiAttrs(tok html.Token) (emojiAttrs, bool) {
	var att emojiAttrs
	isCustom := false
	for _, a := range tok.Attr {
		switch a.Key {
		case "class":
			isCustom = strings.Contains(a.Val, "custom-emoji")
		case "data-document-id":
			att.documentID = a.Val
		case "alt":
			att.alt = a.Val
		}
	}
	if !isCustom || att.documentID == "" || att.alt == "" {
		return emojiAttrs{}, false
	}
	return att, true
}

// entityForStartTag maps a start tag to the entity it opens.
func entityForStartTag(tok html.Token) (model.MessageEntity, bool) {
	switch tok.DataAtom {
	case atom.B, atom.Strong:
		return model.MessageEntity{Type: model.EntityBold}, true
	case atom.I, atom.Em:
		return model.MessageEntity{Type: model.EntityItalic}, true
	case atom.U, atom.Ins:
		return model.MessageEntity{Type: model.EntityUnderline}, true
	case atom.S, atom.Del, atom.Strike:
		return model.MessageEntity{Type: model.EntityStrike}, true
	case atom.Code:
		return model.MessageEntity{Type: model.EntityCode}, true
	case atom.Pre:
		return model.MessageEntity{Type: model.EntityPre}, true
	case atom.A:
		for _, a := range tok.Attr {
			if a.Key == "href" && a.Val != "" {
				return model.MessageEntity{Type: model.EntityTextURL, URL: a.Val}, true
			}
		}
		return model.MessageEntity{}, false
	case atom.Span:
		for _, a := range tok.Attr {
			if a.Key == "class" && strings.Contains(a.Val, "spoiler") {
				return model.MessageEntity{Type: model.EntitySpoiler}, true
			}
			if a.Key == "data-user-id" && a.Val != "" {
				return model.MessageEntity{Type: model.EntityMentionName, UserID: a.Val}, true
			}
		}
		return model.MessageEntity{}, false
	default:
		return model.MessageEntity{}, false
	}
}

// normalizeLink downgrades a text_url whose label equals its target to a
// bare url entity, matching how other clients serialize them.
func normalizeLink(e model.MessageEntity, full string) model.MessageEntity {
	units := utf16.Encode([]rune(full))
	if e.Offset+e.Length > len(units) {
		return e
	}
	label := string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
	if label == e.URL {
		return model.MessageEntity{Type: model.EntityURL, Offset: e.Offset, Length: e.Length}
	}
	return e
}

// =============================================================================
// FORMATTED TEXT -> HTML
// =============================================================================

// tagsFor returns the open and close markup for an entity.
func tagsFor(e model.MessageEntity, label string) (string, string) {
	switch e.Type {
	case model.EntityBold:
		return "<b>", "</b>"
	case model.EntityItalic:
		return "<i>", "</i>"
	case model.EntityUnderline:
		return "<u>", "</u>"
	case model.EntityStrike:
		return "<s>", "</s>"
	case model.EntitySpoiler:
		return `<span class="spoiler">`, "</span>"
	case model.EntityCode:
		return "<code>", "</code>"
	case model.EntityPre:
		return "<pre>", "</pre>"
	case model.EntityTextURL:
		return `<a href="` + html.EscapeString(e.URL) + `">`, "</a>"
	case model.EntityURL:
		return `<a href="` + html.EscapeString(label) + `">`, "</a>"
	case model.EntityMentionName:
		return `<span class="mention" data-user-id="` + html.EscapeString(e.UserID) + `">`, "</span>"
	default:
		return "", ""
	}
}

// RenderHTML converts FormattedText back into input HTML. It is the inverse
// of ParseHTML for every entity kind the composer produces.
func RenderHTML(t model.FormattedText) string {
	if t.Text == "" {
		return ""
	}

	units := utf16.Encode([]rune(t.Text))

	// Entity boundaries as events keyed by UTF-16 position.
	type boundary struct {
		at      int
		entity  model.MessageEntity
		isClose bool
	}
	var bounds []boundary
	sorted := t
	sorted.SortEntities()
	for _, e := range sorted.Entities {
		if e.Offset < 0 || e.Offset+e.Length > len(units) || e.Length <= 0 {
			continue
		}
		bounds = append(bounds, boundary{at: e.Offset, entity: e})
		bounds = append(bounds, boundary{at: e.Offset + e.Length, entity: e, isClose: true})
	}

	var sb strings.Builder
	var stack []model.MessageEntity

	writeText := func(from, to int) {
		if from >= to {
			return
		}
		chunk := string(utf16.Decode(units[from:to]))
		chunk = html.EscapeString(chunk)
		chunk = strings.ReplaceAll(chunk, "\n", "<br>")
		sb.WriteString(chunk)
	}

	labelOf := func(e model.MessageEntity) string {
		return string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
	}

	pos := 0
	for {
		// Close entities ending here, innermost first.
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.Offset+top.Length != pos {
				break
			}
			_, closeTag := tagsFor(top, labelOf(top))
			sb.WriteString(closeTag)
			stack = stack[:len(stack)-1]
		}

		if pos >= len(units) {
			break
		}

		// Open entities starting here, outermost first. A custom emoji is a
		// leaf: it consumes its whole range and restarts the scan.
		skipped := false
		for _, b := range bounds {
			if b.isClose || b.at != pos {
				continue
			}
			if b.entity.Type == model.EntityCustomEmoji {
				sb.WriteString(`<img class="custom-emoji" data-document-id="` +
					html.EscapeString(b.entity.DocumentID) + `" alt="` +
					html.EscapeString(labelOf(b.entity)) + `">`)
				pos = b.entity.Offset + b.entity.Length
				skipped = true
				break
			}
			openTag, _ := tagsFor(b.entity, labelOf(b.entity))
			sb.WriteString(openTag)
			stack = append(stack, b.entity)
		}
		if skipped {
			continue
		}

		// Advance to the next boundary: an open, a close, or end of text.
		next := len(units)
		for _, b := range bounds {
			if b.at > pos && b.at < next {
				next = b.at
			}
		}
		writeText(pos, next)
		pos = next
	}

	return sb.String()
}

// PlainText strips all markup from input HTML.
func PlainText(input string) string {
	return ParseHTML(input).Text
}
