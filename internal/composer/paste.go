// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/courier-tui/internal/textparse"
)

// =============================================================================
// CLIPBOARD PASTE
// =============================================================================

// PasteContent is what arrives from the clipboard: markup or plain text,
// plus any files.
type PasteContent struct {
	HTML  string
	Text  string
	Files []FileInput
}

// HandlePaste applies pasted content. Markup is sanitized before it enters
// the input. When files ride along, the text is queued as NextText and
// inserted after the attachment flow closes instead of immediately.
func (c *Composer) HandlePaste(content PasteContent) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	insert := content.Text
	if content.HTML != "" {
		insert = textparse.SanitizePastedHTML(content.HTML)
	}

	if len(content.Files) > 0 {
		c.mu.Lock()
		sess.NextText = insert
		c.mu.Unlock()
		c.stager.HandleAppendFiles(content.Files, false)
		return
	}

	if insert != "" {
		c.insertAtCaret(insert)
	}
}

// PasteFromClipboard reads the system clipboard and pastes it. Content
// containing markup is routed through the sanitizer.
func (c *Composer) PasteFromClipboard() error {
	raw, err := clipboard.ReadAll()
	if err != nil {
		return err
	}

	content := PasteContent{Text: raw}
	if strings.ContainsAny(raw, "<>") && strings.Contains(raw, "</") {
		content = PasteContent{HTML: raw}
	}
	c.HandlePaste(content)
	return nil
}
