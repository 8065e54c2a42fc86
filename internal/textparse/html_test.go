// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textparse converts between the composer's live HTML and the
// entity-annotated FormattedText records persisted as drafts.
package textparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseHTML_PlainText(t *testing.T) {
	got := ParseHTML("hello world")
	require.Equal(t, "hello world", got.Text)
	require.Empty(t, got.Entities)
}

func TestParseHTML_Bold(t *testing.T) {
	got := ParseHTML("say <b>hello</b> there")
	require.Equal(t, "say hello there", got.Text)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityBold, got.Entities[0].Type)
	require.Equal(t, 4, got.Entities[0].Offset)
	require.Equal(t, 5, got.Entities[0].Length)
}

func TestParseHTML_NestedEntities(t *testing.T) {
	got := ParseHTML("<b>bold <i>both</i></b>")
	require.Equal(t, "bold both", got.Text)
	require.Len(t, got.Entities, 2)
	// Sorted: enclosing bold first.
	require.Equal(t, model.EntityBold, got.Entities[0].Type)
	require.Equal(t, model.EntityItalic, got.Entities[1].Type)
	require.Equal(t, 5, got.Entities[1].Offset)
	require.Equal(t, 4, got.Entities[1].Length)
}

func TestParseHTML_Link(t *testing.T) {
	got := ParseHTML(`see <a href="https://example.org">docs</a>`)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityTextURL, got.Entities[0].Type)
	require.Equal(t, "https://example.org", got.Entities[0].URL)
}

func TestParseHTML_BareLinkBecomesURLEntity(t *testing.T) {
	got := ParseHTML(`<a href="https://example.org">https://example.org</a>`)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityURL, got.Entities[0].Type)
	require.Empty(t, got.Entities[0].URL)
}

func TestParseHTML_CustomEmoji(t *testing.T) {
	got := ParseHTML(`hi <img class="custom-emoji" data-document-id="doc42" alt="😄"> there`)
	require.Equal(t, "hi 😄 there", got.Text)
	require.Len(t, got.Entities, 1)
	e := got.Entities[0]
	require.Equal(t, model.EntityCustomEmoji, e.Type)
	require.Equal(t, "doc42", e.DocumentID)
	require.Equal(t, 3, e.Offset)
	require.Equal(t, 2, e.Length) // surrogate pair
}

func TestParseHTML_LineBreaks(t *testing.T) {
	got := ParseHTML("one<br>two")
	require.Equal(t, "one\ntwo", got.Text)
}

func TestParseHTML_MentionName(t *testing.T) {
	got := ParseHTML(`<span class="mention" data-user-id="u7">Ann</span>`)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityMentionName, got.Entities[0].Type)
	require.Equal(t, "u7", got.Entities[0].UserID)
}

func TestParseHTML_SurrogateOffsets(t *testing.T) {
	// The emoji before the bold span occupies two UTF-16 units.
	got := ParseHTML("😄 <b>x</b>")
	require.Len(t, got.Entities, 1)
	require.Equal(t, 3, got.Entities[0].Offset)
}

// =============================================================================
// ROUND-TRIP TESTS
// =============================================================================

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"plain", "hello world"},
		{"bold", "say <b>hello</b> there"},
		{"italic", "<i>soft</i>"},
		{"underline strike", "<u>under</u> and <s>gone</s>"},
		{"nested", "<b>bold <i>both</i></b>"},
		{"code", "run <code>go test</code> now"},
		{"link", `see <a href="https://example.org">docs</a>`},
		{"spoiler", `a <span class="spoiler">secret</span>`},
		{"mention name", `<span class="mention" data-user-id="u7">Ann</span> hi`},
		{"custom emoji", `hey <img class="custom-emoji" data-document-id="doc42" alt="😄">`},
		{"newline", "one<br>two"},
		{"unicode around bold", "日本 <b>語</b> ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseHTML(tt.html)
			rendered := RenderHTML(parsed)
			reparsed := ParseHTML(rendered)
			require.Equal(t, parsed.Text, reparsed.Text)
			require.ElementsMatch(t, parsed.Entities, reparsed.Entities)
		})
	}
}

func TestRenderHTML_EscapesText(t *testing.T) {
	out := RenderHTML(model.FormattedText{Text: "a < b & c"})
	require.NotContains(t, out, "a < b")
	require.Equal(t, "a < b & c", ParseHTML(out).Text)
}

// =============================================================================
// SANITIZE TESTS
// =============================================================================

func TestSanitizePastedHTML(t *testing.T) {
	in := `<script>alert(1)</script><b onclick="x()">keep</b><video src="v"></video>`
	out := SanitizePastedHTML(in)
	require.NotContains(t, out, "script")
	require.NotContains(t, out, "onclick")
	require.NotContains(t, out, "video")
	require.Contains(t, out, "<b>keep</b>")
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestParseMarkdown(t *testing.T) {
	got := ParseMarkdown("some **bold** and *italic* and `code`")
	require.Equal(t, "some bold and italic and code", got.Text)
	require.Len(t, got.Entities, 3)

	kinds := map[model.EntityType]bool{}
	for _, e := range got.Entities {
		kinds[e.Type] = true
	}
	require.True(t, kinds[model.EntityBold])
	require.True(t, kinds[model.EntityItalic])
	require.True(t, kinds[model.EntityCode])
}

func TestParseComposeText_AppliesShortcuts(t *testing.T) {
	got := ParseComposeText("ship **now**")
	require.Equal(t, "ship now", got.Text)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityBold, got.Entities[0].Type)
}

func TestParseComposeText_ExplicitEntitiesSkipShortcuts(t *testing.T) {
	got := ParseComposeText("<b>done</b> **literal**")
	require.Equal(t, "done **literal**", got.Text)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityBold, got.Entities[0].Type)
	require.Equal(t, 0, got.Entities[0].Offset)
}

func TestParseMarkdown_Link(t *testing.T) {
	got := ParseMarkdown("see [docs](https://example.org)")
	require.Equal(t, "see docs", got.Text)
	require.Len(t, got.Entities, 1)
	require.Equal(t, model.EntityTextURL, got.Entities[0].Type)
	require.Equal(t, "https://example.org", got.Entities[0].URL)
}

func TestParseMarkdown_FencedBlock(t *testing.T) {
	got := ParseMarkdown("intro\n\n```go\nfmt.Println(1)\n```")
	require.Contains(t, got.Text, "fmt.Println(1)")
	var pre *model.MessageEntity
	for i := range got.Entities {
		if got.Entities[i].Type == model.EntityPre {
			pre = &got.Entities[i]
		}
	}
	require.NotNil(t, pre)
	require.Equal(t, "go", pre.Language)
	require.LessOrEqual(t, pre.Offset+pre.Length, model.TextLength(got.Text))
}
