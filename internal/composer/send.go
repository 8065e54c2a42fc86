// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/store"
	"github.com/jeranaias/courier-tui/internal/textparse"
)

// =============================================================================
// SEND OPTIONS
// =============================================================================

// SendOptions parameterizes one send. Scheduling, "send silently" and
// "send when online" are options on the same pipeline, not separate paths.
type SendOptions struct {
	// ScheduledAt is a future unix timestamp; zero sends now and
	// model.ScheduledWhenOnline defers until the peer comes online.
	ScheduledAt  int64
	RepeatPeriod int
	IsSilent     bool
	EffectID     string

	// SendCompressed and SendGrouped default to the session's last-used
	// preference when nil.
	SendCompressed *bool
	SendGrouped    *bool

	IsInvertedMedia bool
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Send is the terminal operation of the composer. Preconditions run in
// order and any failure aborts with no partial side effects.
func (c *Composer) Send(opts SendOptions) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	chat, ok := c.reader.Chat(sess.ChatID)
	if !ok {
		return
	}

	// Edit mode routes to the reconciler; everything below is compose-only.
	if c.editing.IsEditing() {
		c.editing.Complete()
		return
	}

	// An active recording finalizes into an attachment first, making voice
	// notes indistinguishable from other staged files from here on.
	if c.recorder.IsActive() {
		att, err := c.recorder.StopAndStage()
		if err != nil {
			log.Printf("composer: voice finalize: %v", err)
			c.notifier.ShowNotification("ErrorVoiceRecording", nil)
			return
		}
		c.mu.Lock()
		sess.Attachments = append(sess.Attachments, att)
		c.mu.Unlock()
	}

	c.mu.Lock()
	hasAttachments := len(sess.Attachments) > 0
	forward := sess.PendingForward
	c.mu.Unlock()

	if hasAttachments {
		c.sendAttachments(sess, chat, opts)
		return
	}

	text := textparse.ParseComposeText(sess.HTML.Get())
	if text.IsEmpty() && forward == nil {
		return
	}

	if overflow := model.TextLength(text.Text) - c.cfg.Limits.MaxMessageLength; overflow > 0 {
		c.notifier.ShowDialog(messageTooLongDialog(overflow))
		return
	}

	if !c.checkSlowMode(chat) {
		return
	}

	req := c.buildRequest(sess, text, nil, opts)
	action := PendingAction{
		Kind:          ActionSendText,
		Req:           req,
		MessagesCount: messagesCount(req, forward),
	}
	c.gate.Run(action, func(a PendingAction) {
		c.dispatchSend(sess, a.Req, forward)
	})
}

// sendAttachments mirrors the text path with the caption limit and the
// compression and grouping flags.
func (c *Composer) sendAttachments(sess *Session, chat model.Chat, opts SendOptions) {
	text := textparse.ParseComposeText(sess.HTML.Get())
	if overflow := model.TextLength(text.Text) - c.cfg.Limits.MaxCaptionLength; overflow > 0 {
		c.notifier.ShowDialog(captionTooLongDialog(overflow))
		return
	}

	if !c.checkSlowMode(chat) {
		return
	}

	c.mu.Lock()
	attachments := append([]model.Attachment(nil), sess.Attachments...)
	forceAsFile := sess.ShouldForceAsFile
	forceCompression := sess.ShouldForceCompression
	forward := sess.PendingForward
	c.mu.Unlock()

	if forceAsFile {
		for i := range attachments {
			attachments[i].ShouldSendAsFile = true
		}
	}

	req := c.buildRequest(sess, text, attachments, opts)
	req.SendCompressed = forceCompression || derefBool(opts.SendCompressed, sess.LastCompression)
	req.SendGrouped = derefBool(opts.SendGrouped, sess.LastGrouped)
	req.IsInvertedMedia = opts.IsInvertedMedia && text.HasLinks() && req.SendCompressed && req.SendGrouped

	c.mu.Lock()
	sess.LastCompression = req.SendCompressed
	sess.LastGrouped = req.SendGrouped
	c.mu.Unlock()

	action := PendingAction{
		Kind:          ActionSendAttachments,
		Req:           req,
		MessagesCount: messagesCount(req, forward),
	}
	c.gate.Run(action, func(a PendingAction) {
		c.dispatchSend(sess, a.Req, forward)
	})
}

// SendSticker sends a single sticker through the same gate and pipeline.
func (c *Composer) SendSticker(st model.Sticker, opts SendOptions) {
	c.sendPayload(ActionSendSticker, opts, func(req *model.SendRequest) {
		req.Sticker = &st
	})
}

// SendGif sends a saved gif by document id.
func (c *Composer) SendGif(gifID string, opts SendOptions) {
	c.sendPayload(ActionSendGif, opts, func(req *model.SendRequest) {
		req.GifID = gifID
	})
}

// SendPoll sends a poll built by the poll modal.
func (c *Composer) SendPoll(p model.Poll, opts SendOptions) {
	c.sendPayload(ActionSendPoll, opts, func(req *model.SendRequest) {
		req.Poll = &p
	})
}

// SendInlineResult sends one inline bot result.
func (c *Composer) SendInlineResult(r model.InlineBotResult, opts SendOptions) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}
	chat, ok := c.reader.Chat(sess.ChatID)
	if !ok || !c.checkSlowMode(chat) {
		return
	}

	req := c.buildRequest(sess, model.FormattedText{}, nil, opts)
	req.InlineResult = &r
	action := PendingAction{Kind: ActionSendInline, Req: req, MessagesCount: 1}
	c.gate.Run(action, func(a PendingAction) {
		if err := c.dispatcher.SendInlineBotResult(a.Req); err != nil {
			log.Printf("composer: inline result dispatch: %v", err)
			c.notifier.ShowNotification("ErrorSendFailed", nil)
			return
		}
		c.postSend(sess)
	})
}

// sendPayload is the shared path for textless single-payload sends. They
// still count as one message for slow mode and payment.
func (c *Composer) sendPayload(kind ActionKind, opts SendOptions, fill func(*model.SendRequest)) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}
	chat, ok := c.reader.Chat(sess.ChatID)
	if !ok || !c.checkSlowMode(chat) {
		return
	}

	req := c.buildRequest(sess, model.FormattedText{}, nil, opts)
	fill(&req)
	action := PendingAction{Kind: kind, Req: req, MessagesCount: 1}
	c.gate.Run(action, func(a PendingAction) {
		c.dispatchSend(sess, a.Req, nil)
	})
}

// =============================================================================
// PIPELINE INTERNALS
// =============================================================================

// buildRequest assembles the dispatch payload from session state and the
// call's options. The draft's effect id rides along and is consumed by the
// post-send clear.
func (c *Composer) buildRequest(sess *Session, text model.FormattedText, attachments []model.Attachment, opts SendOptions) model.SendRequest {
	c.mu.Lock()
	chatID, threadID, replyToID := sess.ChatID, sess.ThreadID, sess.ReplyToID
	c.mu.Unlock()

	effectID := opts.EffectID
	if effectID == "" {
		if d, ok := c.reader.Draft(chatID, threadID); ok {
			effectID = d.EffectID
		}
	}

	return model.SendRequest{
		ChatID:       chatID,
		ThreadID:     threadID,
		Text:         text,
		Attachments:  attachments,
		ReplyToID:    replyToID,
		ScheduledAt:  opts.ScheduledAt,
		RepeatPeriod: opts.RepeatPeriod,
		IsSilent:     opts.IsSilent,
		EffectID:     effectID,
	}
}

// dispatchSend performs step 7 and 8: dispatch, forward batch, slow-mode
// bookkeeping, draft clear, and the one-tick-deferred reset.
func (c *Composer) dispatchSend(sess *Session, req model.SendRequest, forward *model.ForwardRequest) {
	if !req.Text.IsEmpty() || len(req.Attachments) > 0 || req.Sticker != nil ||
		req.GifID != "" || req.Poll != nil {
		if err := c.dispatcher.SendMessage(req); err != nil {
			log.Printf("composer: send dispatch: %v", err)
			c.notifier.ShowNotification("ErrorSendFailed", nil)
			return
		}
	}
	if forward != nil {
		fwd := *forward
		fwd.ToChatID = req.ChatID
		fwd.ScheduledAt = req.ScheduledAt
		fwd.IsSilent = req.IsSilent
		if err := c.dispatcher.ForwardMessages(fwd); err != nil {
			log.Printf("composer: forward dispatch: %v", err)
			c.notifier.ShowNotification("ErrorSendFailed", nil)
		}
	}
	c.postSend(sess)
}

// postSend records the send for slow mode, clears the draft and defers the
// composer reset one tick so the send animation starts before the input
// clears.
func (c *Composer) postSend(sess *Session) {
	c.mu.Lock()
	chatID, threadID := sess.ChatID, sess.ThreadID
	c.mu.Unlock()

	// Cancel any pending debounced save before the clear, or it could
	// resurrect the draft.
	c.drafts.Stop()
	c.writer.SetLastSentAt(chatID, c.now())
	c.writer.ClearDraft(chatID, threadID, true)

	c.mu.Lock()
	sess.IsTouched = false
	sess.lastRemoteRevision = 0
	sess.hadRemoteDraft = false
	c.mu.Unlock()

	c.sched.NextTick(func() {
		c.resetComposer(sess)
	})
}

// checkSlowMode enforces the chat's send rate limit for non-admins. The
// remaining cooldown is the stricter of the local last-send interval and
// the server-provided next-send date.
func (c *Composer) checkSlowMode(chat model.Chat) bool {
	if chat.SlowMode == nil || chat.SlowMode.Seconds <= 0 || chat.IsAdmin(c.userID) {
		return true
	}

	now := c.now()
	var remaining time.Duration

	if last, ok := c.reader.LastSentAt(chat.ID); ok {
		interval := time.Duration(chat.SlowMode.Seconds) * time.Second
		if d := interval - now.Sub(last); d > remaining {
			remaining = d
		}
	}
	if next := chat.SlowMode.NextSendDate; next > 0 {
		if d := time.Unix(next, 0).Sub(c.reader.ServerNow()); d > remaining {
			remaining = d
		}
	}

	if remaining <= 0 {
		return true
	}

	seconds := int(remaining.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.notifier.ShowDialog(store.Dialog{
		MessageKey: "SlowModeHint",
		Params: map[string]string{
			"SECONDS_REMAINING": strconv.Itoa(seconds),
			"TIME":              formatClock(seconds),
		},
		IsSlowMode: true,
	})
	c.blurInput()
	return false
}

// =============================================================================
// DIALOG WORDING
// =============================================================================

// messageTooLongDialog carries the exact overflow count and its plural.
func messageTooLongDialog(overflow int) store.Dialog {
	return tooLongDialog("ErrorMessageTooLong", overflow)
}

func captionTooLongDialog(overflow int) store.Dialog {
	return tooLongDialog("ErrorCaptionTooLong", overflow)
}

func tooLongDialog(key string, overflow int) store.Dialog {
	plural := "s"
	if overflow == 1 {
		plural = ""
	}
	return store.Dialog{
		MessageKey: key,
		Params: map[string]string{
			"EXTRA_CHARS_COUNT": strconv.Itoa(overflow),
			"PLURAL_S":          plural,
		},
		IsError: true,
	}
}

// formatClock renders seconds as m:ss.
func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func derefBool(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
