// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textparse converts between the composer's live HTML and the
// entity-annotated FormattedText records persisted as drafts.
package textparse

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	gtext "github.com/yuin/goldmark/text"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// MARKDOWN COMPOSE SHORTCUTS
// =============================================================================

var (
	mdOnce sync.Once
	md     parser.Parser
)

func mdParser() parser.Parser {
	mdOnce.Do(func() {
		md = goldmark.New().Parser()
	})
	return md
}

// ParseComposeText converts the live input HTML into the FormattedText
// that gets dispatched: entity extraction first, then the markdown compose
// shortcuts over plain input. Input that already carries explicit entities
// skips the shortcut pass so shortcut offsets never collide with them.
func ParseComposeText(input string) model.FormattedText {
	text := ParseHTML(input)
	if len(text.Entities) > 0 {
		return text
	}
	return ParseMarkdown(text.Text)
}

// ParseMarkdown converts compose shortcuts (**bold**, *italic*, `code`,
// fenced blocks, [text](url)) into FormattedText. Markup the composer does
// not support passes through as literal text.
func ParseMarkdown(src string) model.FormattedText {
	source := []byte(src)
	doc := mdParser().Parse(gtext.NewReader(source))

	var sb strings.Builder
	var entities []model.MessageEntity
	offset := 0

	appendText := func(s string) {
		sb.WriteString(s)
		offset += model.TextLength(s)
	}

	var walk func(n ast.Node)
	walkChildren := func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}

	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Text:
			appendText(string(v.Segment.Value(source)))
			if v.SoftLineBreak() || v.HardLineBreak() {
				appendText("\n")
			}

		case *ast.String:
			appendText(string(v.Value))

		case *ast.Emphasis:
			start := offset
			walkChildren(n)
			kind := model.EntityItalic
			if v.Level >= 2 {
				kind = model.EntityBold
			}
			entities = appendEntity(entities, model.MessageEntity{
				Type: kind, Offset: start, Length: offset - start,
			})

		case *ast.CodeSpan:
			start := offset
			walkChildren(n)
			entities = appendEntity(entities, model.MessageEntity{
				Type: model.EntityCode, Offset: start, Length: offset - start,
			})

		case *ast.Link:
			start := offset
			walkChildren(n)
			entities = appendEntity(entities, model.MessageEntity{
				Type: model.EntityTextURL, Offset: start, Length: offset - start,
				URL: string(v.Destination),
			})

		case *ast.AutoLink:
			start := offset
			appendText(string(v.URL(source)))
			entities = appendEntity(entities, model.MessageEntity{
				Type: model.EntityURL, Offset: start, Length: offset - start,
			})

		case *ast.FencedCodeBlock:
			if sb.Len() > 0 {
				appendText("\n")
			}
			start := offset
			lines := v.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				appendText(string(seg.Value(source)))
			}
			lang := ""
			if v.Info != nil {
				lang = string(v.Language(source))
			}
			entities = appendEntity(entities, model.MessageEntity{
				Type: model.EntityPre, Offset: start, Length: offset - start,
				Language: lang,
			})

		case *ast.Paragraph:
			if sb.Len() > 0 {
				appendText("\n")
			}
			walkChildren(n)

		default:
			walkChildren(n)
		}
	}

	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c)
	}

	out := model.FormattedText{
		Text:     strings.TrimRight(sb.String(), "\n"),
		Entities: entities,
	}
	// Trailing-newline trimming may shorten the text under a block entity.
	limit := model.TextLength(out.Text)
	for i := range out.Entities {
		if end := out.Entities[i].Offset + out.Entities[i].Length; end > limit {
			out.Entities[i].Length = limit - out.Entities[i].Offset
		}
	}
	out.SortEntities()
	return out
}

// appendEntity drops zero-length entities.
func appendEntity(entities []model.MessageEntity, e model.MessageEntity) []model.MessageEntity {
	if e.Length <= 0 {
		return entities
	}
	return append(entities, e)
}
