// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autocomplete implements the composer's tooltip detectors.
//
// Six detectors (emoji, custom emoji, mention, inline bot, command,
// sticker) share one shape: a pure trigger parser inspects the live text
// and caret, a candidate builder resolves the trigger against reference
// data, and a per-detector dismissal watermark keeps an Escape-dismissed
// tooltip closed until the text changes again.
//
// Detectors are mutually independent: every one recomputes from scratch on
// each throttled text tick regardless of which tooltip the view shows, so
// the outcome is identical whether the text changed by keystroke, paste or
// programmatic insertion.
package autocomplete
