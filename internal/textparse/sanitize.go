// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textparse converts between the composer's live HTML and the
// entity-annotated FormattedText records persisted as drafts.
package textparse

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// =============================================================================
// PASTE SANITIZATION
// =============================================================================

var (
	pasteOnce   sync.Once
	pastePolicy *bluemonday.Policy
)

// pastePolicyInstance builds the allowlist once. Pasted content may come
// from arbitrary applications; only the markup the composer itself produces
// survives, everything else degrades to plain text.
func pastePolicyInstance() *bluemonday.Policy {
	pasteOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "del", "strike", "code", "pre", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.AllowAttrs("class", "data-user-id").OnElements("span")
		p.AllowAttrs("class", "data-document-id", "alt").OnElements("img")
		pastePolicy = p
	})
	return pastePolicy
}

// SanitizePastedHTML reduces clipboard HTML to the subset of markup the
// composer understands.
func SanitizePastedHTML(input string) string {
	return pastePolicyInstance().Sanitize(input)
}
