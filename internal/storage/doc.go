// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for courier.
//
// This package keeps drafts in a local sqlite database so unsent composer
// text survives restarts. The composition engine never talks to it
// directly; the application syncs it with the in-memory store on startup
// and on every draft write.
//
// # Key Types
//
//   - DraftStore: sqlite-backed draft persistence keyed by (chat, thread)
//
// # Usage
//
//	ds, err := storage.OpenDraftStore(path)
//	err = ds.Put("chat1", "0", draft)
//	draft, ok, err := ds.Get("chat1", "0")
//
// # Storage Location
//
// The default database lives at ~/.courier/drafts.db.
package storage
