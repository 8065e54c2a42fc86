// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the courier application.
//
// This package contains common helper functions used throughout the
// application for string manipulation, timer scheduling, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation (CJK aware)
//
// Timers:
//   - Debouncer: coalesces call bursts into one deferred, key-scoped call
//   - Throttler: rate-limits calls with a guaranteed trailing invocation
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Debounce draft saves per chat thread
//	d := util.NewDebouncer(500 * time.Millisecond)
//	d.Schedule(chatID+"/"+threadID, save)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
