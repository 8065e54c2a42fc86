// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer implements the message composition engine: the live
// input session, draft synchronization, attachment staging, edit
// reconciliation, the payment gate, the send pipeline and the voice
// recorder.
//
// The engine is headless. It owns the live text signal and the staged
// attachment list exclusively; everything else is reached through the
// store capability interfaces, so any front-end (and any test) can drive
// it by injecting its own Reader, Writer, Dispatcher and Notifier.
package composer
