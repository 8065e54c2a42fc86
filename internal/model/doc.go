// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the composition engine.
//
// This package defines the core domain types used throughout the application
// for representing formatted text, drafts, chats, attachments and the
// request payloads handed to the outbound dispatcher.
//
// # Key Types
//
//   - FormattedText: plain text plus a sorted list of MessageEntity ranges
//   - Draft: persisted snapshot of unsent composer text for a chat thread
//   - Chat: capability flags, slow-mode options and paid-message pricing
//   - Attachment: one staged file or voice note, ready for the send pipeline
//   - SendRequest / EditRequest: payloads produced by the send pipeline
//
// All entity offsets are measured in UTF-16 code units, matching the draft
// records exchanged with other clients.
package model
