// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for courier.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// SCHEMA
// =============================================================================

// schema is applied on every open; CREATE IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	chat_id    TEXT NOT NULL,
	thread_id  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	revision   INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (chat_id, thread_id)
);
`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore persists drafts in a local sqlite database.
type DraftStore struct {
	db *sql.DB
}

// DefaultPath returns ~/.courier/drafts.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".courier", "drafts.db"), nil
}

// OpenDraftStore opens (creating if necessary) the draft database at path.
func OpenDraftStore(path string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DraftStore{db: db}, nil
}

// Close releases the database handle.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Put inserts or replaces the draft for a thread.
func (s *DraftStore) Put(chatID, threadID string, d model.Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO drafts (chat_id, thread_id, payload, revision, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (chat_id, thread_id) DO UPDATE SET
			payload = excluded.payload,
			revision = excluded.revision,
			updated_at = excluded.updated_at`,
		chatID, threadID, string(payload), d.Revision, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// Get returns the draft for a thread if one exists.
func (s *DraftStore) Get(chatID, threadID string) (model.Draft, bool, error) {
	var payload string
	err := s.db.QueryRow(
		"SELECT payload FROM drafts WHERE chat_id = ? AND thread_id = ?",
		chatID, threadID).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.Draft{}, false, nil
	}
	if err != nil {
		return model.Draft{}, false, fmt.Errorf("failed to load draft: %w", err)
	}

	var d model.Draft
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return model.Draft{}, false, fmt.Errorf("failed to decode draft: %w", err)
	}
	return d, true, nil
}

// Delete removes the draft for a thread. Missing rows are not an error.
func (s *DraftStore) Delete(chatID, threadID string) error {
	_, err := s.db.Exec(
		"DELETE FROM drafts WHERE chat_id = ? AND thread_id = ?", chatID, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// StoredDraft pairs a draft with its thread key, for startup restore.
type StoredDraft struct {
	ChatID   string
	ThreadID string
	Draft    model.Draft
}

// All returns every stored draft, most recently updated first.
func (s *DraftStore) All() ([]StoredDraft, error) {
	rows, err := s.db.Query(
		"SELECT chat_id, thread_id, payload FROM drafts ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var out []StoredDraft
	for rows.Next() {
		var sd StoredDraft
		var payload string
		if err := rows.Scan(&sd.ChatID, &sd.ThreadID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan draft row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &sd.Draft); err != nil {
			return nil, fmt.Errorf("failed to decode draft: %w", err)
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}
