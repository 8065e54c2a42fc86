// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"log"
	"sync"

	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/textparse"
	"github.com/jeranaias/courier-tui/internal/util"
)

// =============================================================================
// DRAFT SYNCHRONIZER
// =============================================================================

// DraftSynchronizer persists the live input as a draft, debounced per
// thread, and reconciles remote draft updates against local edits.
//
// The race rule: while the session is touched, a remote update for the
// same thread is ignored. Local edits win until the user navigates away
// or sends. Stale-revision replays are dropped the same way.
type DraftSynchronizer struct {
	c   *Composer
	deb *util.Debouncer

	mu       sync.Mutex
	skipNext bool
}

func newDraftSynchronizer(c *Composer) *DraftSynchronizer {
	return &DraftSynchronizer{
		c:   c,
		deb: util.NewDebouncer(c.cfg.DraftDebounce()),
	}
}

// onTextChange schedules a debounced save for the current thread. The
// callback captures the thread key and no-ops if the composer has since
// moved elsewhere.
func (ds *DraftSynchronizer) onTextChange(string) {
	ds.mu.Lock()
	if ds.skipNext {
		ds.skipNext = false
		ds.mu.Unlock()
		return
	}
	ds.mu.Unlock()

	c := ds.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return
	}
	key := sess.draftKey()
	c.mu.Unlock()

	if c.editing.IsEditing() {
		// Edit-mode content must never be persisted as a draft.
		return
	}

	ds.deb.Schedule(key, func() {
		ds.save(key)
	})
}

// suppressNext drops the next signal change, for programmatic clears that
// already handled the draft themselves.
func (ds *DraftSynchronizer) suppressNext() {
	ds.mu.Lock()
	ds.skipNext = true
	ds.mu.Unlock()
}

// save persists the current input for the thread identified by key.
func (ds *DraftSynchronizer) save(key string) {
	c := ds.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.draftKey() != key {
		// Scoped-key rule: a save scheduled on one thread never applies
		// after navigating to another.
		c.mu.Unlock()
		return
	}
	chatID, threadID, replyToID := sess.ChatID, sess.ThreadID, sess.ReplyToID
	c.mu.Unlock()

	if c.editing.IsEditing() {
		return
	}

	text := textparse.ParseHTML(sess.HTML.Get())
	if text.IsEmpty() {
		// Empty text clears the draft but keeps the reply reference.
		c.writer.ClearDraft(chatID, threadID, true)
		return
	}

	effectID := ""
	if prev, ok := c.reader.Draft(chatID, threadID); ok {
		effectID = prev.EffectID
	}
	c.writer.SaveDraft(chatID, threadID, model.Draft{
		Text:      text,
		ReplyToID: replyToID,
		EffectID:  effectID,
		IsLocal:   true,
		UpdatedAt: c.now(),
	})
}

// Flush saves immediately if the session is touched and not editing. Runs
// on thread change, input blur and shutdown.
func (ds *DraftSynchronizer) Flush() {
	c := ds.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil || !sess.IsTouched {
		c.mu.Unlock()
		ds.deb.Cancel()
		return
	}
	key := sess.draftKey()
	c.mu.Unlock()

	ds.deb.Cancel()
	if c.editing.IsEditing() {
		return
	}
	ds.save(key)
}

// FreezeForTick suppresses scheduling until the next scheduler tick, so a
// teardown flush is not immediately followed by a debounced double-write.
func (ds *DraftSynchronizer) FreezeForTick() {
	ds.deb.Freeze()
	ds.c.sched.NextTick(ds.deb.Unfreeze)
}

// Stop cancels any pending save permanently.
func (ds *DraftSynchronizer) Stop() {
	ds.deb.Cancel()
}

// Restore loads the persisted draft for a freshly opened thread.
// prevHadDraft preserves the rule that moving from a thread with a draft
// to one without clears the input.
func (ds *DraftSynchronizer) Restore(chatID, threadID string, prevHadDraft bool) {
	c := ds.c
	d, ok := c.reader.Draft(chatID, threadID)

	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.ChatID != chatID || sess.ThreadID != threadID {
		c.mu.Unlock()
		return
	}
	sess.hadRemoteDraft = ok
	if ok {
		sess.lastRemoteRevision = d.Revision
		sess.ReplyToID = d.ReplyToID
	}
	c.mu.Unlock()

	if !ok {
		if prevHadDraft {
			ds.suppressNext()
			sess.HTML.Set("")
		}
		return
	}
	if c.editing.IsEditing() {
		return
	}

	ds.resolveCustomEmoji(d.Text)
	ds.suppressNext()
	sess.HTML.Set(textparse.RenderHTML(d.Text))
}

// OnRemoteDraft applies a draft update pushed by another device or tab.
func (ds *DraftSynchronizer) OnRemoteDraft(chatID, threadID string, d model.Draft) {
	c := ds.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil || sess.ChatID != chatID || sess.ThreadID != threadID {
		c.mu.Unlock()
		return
	}
	if d.Revision <= sess.lastRemoteRevision {
		c.mu.Unlock()
		return
	}
	sess.lastRemoteRevision = d.Revision
	sess.hadRemoteDraft = !d.IsEmpty()
	touched := sess.IsTouched
	c.mu.Unlock()

	rendered := textparse.RenderHTML(d.Text)
	if rendered == sess.HTML.Get() {
		// The remote draft caught up with what is on screen; the session
		// is clean again.
		c.mu.Lock()
		sess.IsTouched = false
		c.mu.Unlock()
		return
	}
	if touched {
		// Dirty-wins rule.
		return
	}
	if c.editing.IsEditing() {
		return
	}

	ds.resolveCustomEmoji(d.Text)
	ds.suppressNext()
	sess.HTML.Set(rendered)
}

// resolveCustomEmoji warms the custom emoji referenced by a draft so the
// view can render them without a per-glyph lookup miss.
func (ds *DraftSynchronizer) resolveCustomEmoji(text model.FormattedText) {
	for _, id := range text.CustomEmojiIDs() {
		if _, ok := ds.c.reader.CustomEmoji(id); !ok {
			log.Printf("composer: unresolved custom emoji %s in draft", id)
		}
	}
}
