// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft persistence for courier.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/courier-tui/internal/model"
)

func openTestStore(t *testing.T) *DraftStore {
	t.Helper()
	ds, err := OpenDraftStore(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	return ds
}

// =============================================================================
// PUT / GET TESTS
// =============================================================================

func TestDraftStore_PutGetRoundTrip(t *testing.T) {
	ds := openTestStore(t)

	in := model.Draft{
		Text: model.FormattedText{
			Text: "draft with style",
			Entities: []model.MessageEntity{
				{Type: model.EntityBold, Offset: 11, Length: 5},
			},
		},
		ReplyToID: "m9",
		Revision:  7,
	}
	require.NoError(t, ds.Put("chat1", "0", in))

	out, ok, err := ds.Get("chat1", "0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in.Text, out.Text)
	require.Equal(t, "m9", out.ReplyToID)
	require.Equal(t, uint64(7), out.Revision)
}

func TestDraftStore_GetMissing(t *testing.T) {
	ds := openTestStore(t)

	_, ok, err := ds.Get("nope", "0")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDraftStore_PutReplaces(t *testing.T) {
	ds := openTestStore(t)

	require.NoError(t, ds.Put("c", "0", model.Draft{Text: model.FormattedText{Text: "first"}}))
	require.NoError(t, ds.Put("c", "0", model.Draft{Text: model.FormattedText{Text: "second"}}))

	out, ok, err := ds.Get("c", "0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", out.Text.Text)
}

func TestDraftStore_ThreadsAreIndependent(t *testing.T) {
	ds := openTestStore(t)

	require.NoError(t, ds.Put("c", "0", model.Draft{Text: model.FormattedText{Text: "main"}}))
	require.NoError(t, ds.Put("c", "42", model.Draft{Text: model.FormattedText{Text: "topic"}}))

	main, _, err := ds.Get("c", "0")
	require.NoError(t, err)
	topic, _, err := ds.Get("c", "42")
	require.NoError(t, err)
	require.Equal(t, "main", main.Text.Text)
	require.Equal(t, "topic", topic.Text.Text)
}

// =============================================================================
// DELETE / LIST TESTS
// =============================================================================

func TestDraftStore_Delete(t *testing.T) {
	ds := openTestStore(t)

	require.NoError(t, ds.Put("c", "0", model.Draft{Text: model.FormattedText{Text: "x"}}))
	require.NoError(t, ds.Delete("c", "0"))

	_, ok, err := ds.Get("c", "0")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing row is not an error.
	require.NoError(t, ds.Delete("c", "0"))
}

func TestDraftStore_All(t *testing.T) {
	ds := openTestStore(t)

	require.NoError(t, ds.Put("a", "0", model.Draft{Text: model.FormattedText{Text: "one"}}))
	require.NoError(t, ds.Put("b", "0", model.Draft{Text: model.FormattedText{Text: "two"}}))

	all, err := ds.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
}
