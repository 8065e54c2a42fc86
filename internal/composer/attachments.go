// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"strconv"

	// Registered decoders for attachment dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// ATTACHMENT STAGER
// =============================================================================

// FileInput is one file handed to the stager before it becomes an
// Attachment. Data is optional; when present and the mime type is an
// image, the stager probes it for dimensions.
type FileInput struct {
	Filename string
	MimeType string
	Size     int64

	// BlobURL is an opaque locator for the payload.
	BlobURL string

	// Data, when present, allows dimension probing and previews.
	Data []byte

	// Duration is known for pre-decoded audio and video, in seconds.
	Duration int
}

// AttachmentStager builds Attachment records from files and enforces, at a
// single choke point, the chat's capability and size policy. A batch is
// staged in full or not at all.
type AttachmentStager struct {
	c *Composer
}

func newAttachmentStager(c *Composer) *AttachmentStager {
	return &AttachmentStager{c: c}
}

// BuildAttachment converts one file into an Attachment. Image decoding
// failures degrade to a generic document rather than failing the stage.
func (as *AttachmentStager) BuildAttachment(f FileInput, suggestCompression bool) model.Attachment {
	att := model.Attachment{
		ID:       uuid.NewString(),
		Filename: f.Filename,
		MimeType: f.MimeType,
		Size:     f.Size,
		BlobURL:  f.BlobURL,
	}

	switch {
	case isImageMime(f.MimeType) && len(f.Data) > 0:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data))
		if err != nil {
			log.Printf("composer: attachment decode %s: %v", f.Filename, err)
			break
		}
		att.Quick = &model.QuickMeta{Width: cfg.Width, Height: cfg.Height}
	case isVideoMime(f.MimeType) || isAudioMime(f.MimeType):
		att.Quick = &model.QuickMeta{Duration: f.Duration}
	}

	if att.Quick != nil && !suggestCompression {
		att.ShouldSendAsFile = true
	}
	return att
}

// HandleFileSelect replaces the staged batch with the given files.
func (as *AttachmentStager) HandleFileSelect(files []FileInput, suggestCompression bool) {
	batch := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		batch = append(batch, as.BuildAttachment(f, suggestCompression))
	}
	as.SetAttachments(batch)
}

// HandleAppendFiles adds files to the staged batch.
func (as *AttachmentStager) HandleAppendFiles(files []FileInput, isSpoiler bool) {
	c := as.c
	c.mu.Lock()
	var batch []model.Attachment
	if c.sess != nil {
		batch = append(batch, c.sess.Attachments...)
	}
	c.mu.Unlock()

	for _, f := range files {
		att := as.BuildAttachment(f, true)
		att.IsSpoiler = isSpoiler
		batch = append(batch, att)
	}
	as.SetAttachments(batch)
}

// SetAttachments is the single policy choke point. It either commits the
// whole batch, deriving the force flags, or rejects it with a notification
// and stages nothing.
func (as *AttachmentStager) SetAttachments(batch []model.Attachment) {
	c := as.c
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return
	}

	if len(batch) == 0 {
		as.Clear()
		return
	}

	chat, ok := c.reader.Chat(sess.ChatID)
	if !ok {
		return
	}

	if c.editing.IsEditing() {
		as.stageForEdit(chat, batch)
		return
	}

	if len(batch) > c.cfg.Limits.MaxAttachments {
		c.notifier.ShowNotification("ErrorTooManyAttachments", map[string]string{
			"MAX": strconv.Itoa(c.cfg.Limits.MaxAttachments),
		})
		return
	}
	for _, att := range batch {
		if att.Size > c.cfg.Limits.MaxFileSizeBytes {
			c.notifier.OpenLimitReachedModal("uploadMaxFileparts")
			return
		}
	}

	forceAsFile := false
	for _, att := range batch {
		allowed, documentFallback := kindPermitted(chat.Permissions, att.Kind())
		if allowed {
			continue
		}
		if !documentFallback {
			c.notifier.ShowNotification(disallowedKindKey(att.Kind()), nil)
			return
		}
		forceAsFile = true
	}

	c.mu.Lock()
	sess.Attachments = batch
	sess.ShouldForceAsFile = forceAsFile && chat.Permissions.CanSendDocuments
	sess.ShouldForceCompression = !chat.Permissions.CanSendDocuments
	c.mu.Unlock()
}

// stageForEdit replaces an edited message's media with a single new file,
// subject to the media-class and album rules.
func (as *AttachmentStager) stageForEdit(chat model.Chat, batch []model.Attachment) {
	c := as.c
	if len(batch) != 1 {
		c.notifier.ShowNotification("ErrorEditSingleMedia", nil)
		return
	}
	att := batch[0]

	msg, ok := c.editing.Message()
	if !ok {
		return
	}
	if msg.GroupedID != "" {
		// Album media cannot be replaced piecemeal.
		c.notifier.ShowNotification("ErrorEditAlbumMedia", nil)
		return
	}
	if !canReplaceMessageMedia(msg, att) {
		c.notifier.ShowNotification("ErrorEditIncompatibleMedia", nil)
		return
	}
	if allowed, _ := kindPermitted(chat.Permissions, att.Kind()); !allowed {
		c.notifier.ShowNotification(disallowedKindKey(att.Kind()), nil)
		return
	}
	c.editing.setReplacement(att)
}

// Clear resets the staged batch and flushes any text queued for insertion
// after the attachment flow.
func (as *AttachmentStager) Clear() {
	c := as.c
	c.mu.Lock()
	sess := c.sess
	if sess == nil {
		c.mu.Unlock()
		return
	}
	sess.Attachments = nil
	sess.ShouldForceAsFile = false
	sess.ShouldForceCompression = false
	next := sess.NextText
	sess.NextText = ""
	c.mu.Unlock()

	if next != "" {
		c.insertAtCaret(next)
	}
}

// =============================================================================
// POLICY
// =============================================================================

// kindPermitted reports whether the chat allows a media kind directly and,
// when it does not, whether the generic-document capability covers it.
func kindPermitted(p model.Permissions, kind model.MediaKind) (allowed, documentFallback bool) {
	switch kind {
	case model.MediaPhoto:
		return p.CanSendPhotos, p.CanSendDocuments
	case model.MediaVideo:
		return p.CanSendVideos, p.CanSendDocuments
	case model.MediaAudio:
		return p.CanSendAudios, p.CanSendDocuments
	case model.MediaVoice:
		return p.CanSendVoices, false
	case model.MediaSticker:
		return p.CanSendStickers, false
	default:
		return p.CanSendDocuments, false
	}
}

// canReplaceMessageMedia approves a replacement only within the same media
// class. A text-only message accepts any media.
func canReplaceMessageMedia(msg model.Message, att model.Attachment) bool {
	if !msg.HasMedia() {
		return true
	}
	from, to := msg.Media, att.Kind()
	if from == to {
		return true
	}
	// Photos and videos are interchangeable inside the visual class.
	visual := func(k model.MediaKind) bool {
		return k == model.MediaPhoto || k == model.MediaVideo
	}
	return visual(from) && visual(to)
}

func disallowedKindKey(kind model.MediaKind) string {
	return fmt.Sprintf("ErrorSendRestricted_%s", string(kind))
}

func isImageMime(m string) bool { return len(m) > 6 && m[:6] == "image/" }
func isVideoMime(m string) bool { return len(m) > 6 && m[:6] == "video/" }
func isAudioMime(m string) bool { return len(m) > 6 && m[:6] == "audio/" }
