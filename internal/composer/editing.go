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
// EDITING RECONCILER
// =============================================================================

// EditingReconciler drives the edit-message state machine. It is Idle or
// Editing one message; edit context is tied 1:1 to the reply target, so a
// reply change while editing abandons the edit.
type EditingReconciler struct {
	c *Composer

	mu                 sync.Mutex
	messageID          string
	message            model.Message
	shouldForceShow    bool
	priorHTML          string
	priorWasSet        bool
	originalHadLink    bool
	noWebPage          bool
	replacement        *model.Attachment
	replyTargetAtStart string

	linkCheck *util.Debouncer
}

func newEditingReconciler(c *Composer) *EditingReconciler {
	return &EditingReconciler{
		c:         c,
		linkCheck: util.NewDebouncer(c.cfg.DraftDebounce()),
	}
}

// IsEditing reports whether an edit is in progress.
func (er *EditingReconciler) IsEditing() bool {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.messageID != ""
}

// MessageID returns the edited message id while editing.
func (er *EditingReconciler) MessageID() (string, bool) {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.messageID, er.messageID != ""
}

// Message returns the message under edit.
func (er *EditingReconciler) Message() (model.Message, bool) {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.message, er.messageID != ""
}

// ShouldForceShowEditing keeps the send affordance in "save" mode even
// after the user clears the text mid-edit.
func (er *EditingReconciler) ShouldForceShowEditing() bool {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.shouldForceShow
}

// NoWebPage reports whether the edit removed the last link, which
// suppresses the message's link preview on save.
func (er *EditingReconciler) NoWebPage() bool {
	er.mu.Lock()
	defer er.mu.Unlock()
	return er.noWebPage
}

// setReplacement stores the media replacement staged for this edit.
func (er *EditingReconciler) setReplacement(att model.Attachment) {
	er.mu.Lock()
	defer er.mu.Unlock()
	if er.messageID == "" {
		return
	}
	er.replacement = &att
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Start enters edit mode for a message: snapshots the current draft input,
// loads either a pending editing draft or the message content, and focuses
// the input.
func (er *EditingReconciler) Start(messageID string) {
	c := er.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return
	}
	chatID, threadID := sess.ChatID, sess.ThreadID
	replyAtStart := sess.ReplyToID
	c.mu.Unlock()

	msg, ok := c.reader.Message(chatID, messageID)
	if !ok {
		log.Printf("composer: edit requested for unknown message %s", messageID)
		return
	}

	er.mu.Lock()
	if er.messageID != "" && er.messageID != messageID {
		er.mu.Unlock()
		er.Cancel()
		er.mu.Lock()
	}
	er.messageID = messageID
	er.message = msg
	er.shouldForceShow = true
	er.priorHTML = sess.HTML.Get()
	er.priorWasSet = true
	er.originalHadLink = msg.Content.HasLinks()
	er.noWebPage = false
	er.replacement = nil
	er.replyTargetAtStart = replyAtStart
	er.mu.Unlock()

	// A previously interrupted edit resumes from its snapshot.
	content := msg.Content
	if snap, ok := c.reader.EditingDraft(chatID, threadID); ok && !snap.IsEmpty() {
		content = snap
	}

	c.drafts.suppressNext()
	sess.HTML.Set(textparse.RenderHTML(content))
	c.focusInput()
}

// onReplyTargetChange abandons the edit when the reply target moves.
func (er *EditingReconciler) onReplyTargetChange(newTarget string) {
	er.mu.Lock()
	editing := er.messageID != ""
	changed := newTarget != er.replyTargetAtStart
	er.mu.Unlock()
	if !editing || !changed {
		return
	}

	// Edit context is tied to the reply target; clear rather than restore.
	c := er.c
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	er.reset()
	if sess != nil {
		c.writer.ClearEditingDraft(sess.ChatID, sess.ThreadID)
		c.drafts.suppressNext()
		sess.HTML.Set("")
	}
}

// Complete finishes the edit: refuses an edit that would empty a
// media-less message (asking for delete confirmation instead), otherwise
// dispatches the edit and restores the draft that preceded it.
func (er *EditingReconciler) Complete() {
	c := er.c
	er.mu.Lock()
	messageID := er.messageID
	msg := er.message
	replacement := er.replacement
	noWebPage := er.noWebPage
	er.mu.Unlock()
	if messageID == "" {
		return
	}

	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return
	}
	chatID, threadID := sess.ChatID, sess.ThreadID
	c.mu.Unlock()

	text := textparse.ParseComposeText(sess.HTML.Get())
	if text.IsEmpty() && !msg.HasMedia() && replacement == nil {
		// An edit cannot silently become an empty message.
		c.notifier.RequestDeleteConfirmation(chatID, messageID)
		return
	}

	if overflow := model.TextLength(text.Text) - c.cfg.Limits.MaxMessageLength; overflow > 0 {
		c.notifier.ShowDialog(messageTooLongDialog(overflow))
		return
	}

	if err := c.dispatcher.EditMessage(model.EditRequest{
		ChatID:     chatID,
		ThreadID:   threadID,
		MessageID:  messageID,
		Text:       text,
		Attachment: replacement,
		NoWebPage:  noWebPage,
	}); err != nil {
		log.Printf("composer: edit dispatch: %v", err)
		c.notifier.ShowNotification("ErrorEditFailed", nil)
		return
	}

	c.writer.ClearEditingDraft(chatID, threadID)
	er.restorePrior(sess)
}

// Cancel discards the edit and restores the prior draft.
func (er *EditingReconciler) Cancel() {
	c := er.c
	er.mu.Lock()
	editing := er.messageID != ""
	er.mu.Unlock()
	if !editing {
		return
	}

	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess != nil {
		c.writer.ClearEditingDraft(sess.ChatID, sess.ThreadID)
		er.restorePrior(sess)
	} else {
		er.reset()
	}
}

// Snapshot persists the in-progress edit so backgrounding does not lose
// it. Independent of the draft synchronizer, which is disabled in edit
// mode.
func (er *EditingReconciler) Snapshot() {
	c := er.c
	er.mu.Lock()
	editing := er.messageID != ""
	er.mu.Unlock()
	if !editing {
		return
	}

	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}
	c.writer.SetEditingDraft(sess.ChatID, sess.ThreadID, textparse.ParseHTML(sess.HTML.Get()))
}

// restorePrior exits edit mode and puts back what the input held before.
func (er *EditingReconciler) restorePrior(sess *Session) {
	er.mu.Lock()
	prior := er.priorHTML
	hadPrior := er.priorWasSet
	er.mu.Unlock()

	er.reset()
	if hadPrior {
		er.c.drafts.suppressNext()
		sess.HTML.Set(prior)
	}
}

func (er *EditingReconciler) reset() {
	er.linkCheck.Cancel()
	er.mu.Lock()
	er.messageID = ""
	er.message = model.Message{}
	er.shouldForceShow = false
	er.priorHTML = ""
	er.priorWasSet = false
	er.originalHadLink = false
	er.noWebPage = false
	er.replacement = nil
	er.replyTargetAtStart = ""
	er.mu.Unlock()
}

// onTextChange recomputes link removal continuously while editing. The
// check is debounced so entity parsing does not run per keystroke.
func (er *EditingReconciler) onTextChange(html string) {
	er.mu.Lock()
	editing := er.messageID != ""
	hadLink := er.originalHadLink
	er.mu.Unlock()
	if !editing || !hadLink {
		return
	}

	er.linkCheck.Schedule("link", func() {
		text := textparse.ParseHTML(html)
		er.mu.Lock()
		if er.messageID != "" {
			er.noWebPage = !text.HasLinks()
		}
		er.mu.Unlock()
	})
}
