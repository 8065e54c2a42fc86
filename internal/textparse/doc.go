// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textparse converts between the composer's live HTML and the
// entity-annotated FormattedText records persisted as drafts.
//
// # Key Functions
//
//   - ParseHTML: input HTML -> FormattedText with UTF-16 entity offsets
//   - RenderHTML: FormattedText -> input HTML (ParseHTML's inverse)
//   - SanitizePastedHTML: strict allowlist for clipboard content
//   - ParseMarkdown: **bold** / `code` / [text](url) compose shortcuts
//
// Round-trip stability matters: a draft saved through ParseHTML and loaded
// back through RenderHTML must reproduce the same rendered input, which is
// how the synchronizer decides whether the composer is dirty.
package textparse
