// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the courier TUI.

The package is organized in two layers:

  - colors.go defines the adaptive color palette. Every color is a
    lipgloss.AdaptiveColor so light and dark terminals each get a readable
    variant without runtime switching.

  - theme.go composes the palette into a Theme of ready-to-use lipgloss
    styles, grouped by surface: header, outbox, input area, tooltip popup,
    attachment tray, status bar and dialogs.

A Theme is created once at startup with NewTheme, which probes the
terminal's color profile through termenv, and is then shared by all views.
Views never construct ad hoc colors; anything user-visible goes through the
palette so the whole interface shifts together.
*/
package styles
