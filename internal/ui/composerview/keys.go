// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composerview provides the Bubble Tea front-end for the
// composition engine.
//
// This file defines keyboard bindings for the composer interface.
package composerview

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the composer interface.
type KeyMap struct {
	Send       key.Binding
	Accept     key.Binding
	NextRow    key.Binding
	PrevRow    key.Binding
	Cancel     key.Binding
	Voice      key.Binding
	ViewOnce   key.Binding
	EditLast   key.Binding
	Paste      key.Binding
	Attach     key.Binding
	ClearFiles key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings for the composer.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "accept suggestion"),
		),
		NextRow: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("down", "next suggestion"),
		),
		PrevRow: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("up", "previous suggestion"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss/cancel"),
		),
		Voice: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "voice note"),
		),
		ViewOnce: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "view once"),
		),
		EditLast: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "edit last message"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("C-v", "paste"),
		),
		Attach: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "attach files"),
		),
		ClearFiles: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "clear attachments"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Voice, k.EditLast, k.Attach, k.Quit}
}
