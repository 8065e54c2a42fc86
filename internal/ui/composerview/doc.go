// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package composerview provides the Bubble Tea front-end for the composition
engine.

The view owns a textinput bound to the engine's input markup: every
keystroke is forwarded through Composer.OnUserInput, and every
engine-driven rewrite (draft restore, tooltip insertion, post-send reset)
flows back through the focus handler so the widget and the engine never
disagree about the text.

The engine reports validation failures, dialogs and modal requests through
a channel-backed Notifier. Update consumes the channel with a re-armed
wait command, the standard Bubble Tea pattern for external event sources,
so engine callbacks never touch the model from another goroutine.

Layout, top to bottom: header with chat title and mode badges, outbox
viewport, tooltip popup, attachment tray, input line with character
counter, transient notice line and the shortcut status bar. Blocking
dialogs render as a centered overlay.
*/
package composerview
