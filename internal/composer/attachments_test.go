// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"testing"

	"github.com/jeranaias/courier-tui/internal/model"
)

func photoFile(name string) FileInput {
	return FileInput{Filename: name, MimeType: "image/jpeg", Size: 1024, BlobURL: "blob://" + name}
}

func docFile(name string) FileInput {
	return FileInput{Filename: name, MimeType: "application/pdf", Size: 2048, BlobURL: "blob://" + name}
}

func stagedCount(f *fixture) int {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return len(f.c.sess.Attachments)
}

func TestStageBatch(t *testing.T) {
	f := newFixture(t)

	f.c.Stager().HandleFileSelect([]FileInput{photoFile("a.jpg"), docFile("b.pdf")}, true)

	if got := stagedCount(f); got != 2 {
		t.Fatalf("staged = %d, want 2", got)
	}
	sess := f.c.Session()
	if sess.ShouldForceAsFile || sess.ShouldForceCompression {
		t.Error("no force flags expected with full permissions")
	}
}

func TestAllOrNoneGating(t *testing.T) {
	tests := []struct {
		name       string
		perms      model.Permissions
		files      []FileInput
		wantStaged int
		wantForce  bool
		wantNotice bool
	}{
		{
			name:       "photo disallowed no document fallback",
			perms:      model.Permissions{CanSendPlainText: true},
			files:      []FileInput{photoFile("a.jpg"), docFile("b.pdf")},
			wantStaged: 0,
			wantNotice: true,
		},
		{
			name: "photo disallowed but documents cover it",
			perms: model.Permissions{
				CanSendPlainText: true,
				CanSendDocuments: true,
			},
			files:      []FileInput{photoFile("a.jpg")},
			wantStaged: 1,
			wantForce:  true,
		},
		{
			name:       "all permitted",
			perms:      model.AllPermissions(),
			files:      []FileInput{photoFile("a.jpg"), photoFile("b.jpg")},
			wantStaged: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.st.PutChat(model.Chat{ID: "chat1", Permissions: tt.perms})

			f.c.Stager().HandleFileSelect(tt.files, true)

			if got := stagedCount(f); got != tt.wantStaged {
				t.Errorf("staged = %d, want %d", got, tt.wantStaged)
			}
			if f.c.Session().ShouldForceAsFile != tt.wantForce {
				t.Errorf("forceAsFile = %v, want %v", f.c.Session().ShouldForceAsFile, tt.wantForce)
			}
			gotNotice := len(f.notif.notifications) > 0
			if gotNotice != tt.wantNotice {
				t.Errorf("notified = %v, want %v", gotNotice, tt.wantNotice)
			}
		})
	}
}

func TestForceCompressionWhenDocumentsForbidden(t *testing.T) {
	f := newFixture(t)
	f.st.PutChat(model.Chat{ID: "chat1", Permissions: model.Permissions{
		CanSendPlainText: true,
		CanSendPhotos:    true,
	}})

	f.c.Stager().HandleFileSelect([]FileInput{photoFile("a.jpg")}, true)

	if got := stagedCount(f); got != 1 {
		t.Fatalf("staged = %d, want 1", got)
	}
	if !f.c.Session().ShouldForceCompression {
		t.Error("compression must be forced when documents are forbidden")
	}
}

func TestOversizedFileOpensLimitModal(t *testing.T) {
	f := newFixture(t)

	big := photoFile("huge.jpg")
	big.Size = f.c.cfg.Limits.MaxFileSizeBytes + 1
	f.c.Stager().HandleFileSelect([]FileInput{photoFile("ok.jpg"), big}, true)

	if got := stagedCount(f); got != 0 {
		t.Errorf("staged = %d, oversized batch must stage nothing", got)
	}
	if len(f.notif.limitModals) != 1 {
		t.Error("limit modal expected")
	}
}

func TestClearFlushesNextText(t *testing.T) {
	f := newFixture(t)

	f.c.HandlePaste(PasteContent{
		Text:  "caption to be",
		Files: []FileInput{photoFile("a.jpg")},
	})
	if got := stagedCount(f); got != 1 {
		t.Fatalf("staged = %d, want 1", got)
	}
	if got := f.c.Session().HTML.Get(); got != "" {
		t.Fatalf("text must be queued, not inserted; input = %q", got)
	}

	f.c.Stager().Clear()
	if got := f.c.Session().HTML.Get(); got != "caption to be" {
		t.Errorf("input = %q, queued text must flush on clear", got)
	}
}

func TestAttachmentSendUsesCaptionLimit(t *testing.T) {
	f := newFixture(t)
	f.c.cfg.Limits.MaxCaptionLength = 5

	f.c.Stager().HandleFileSelect([]FileInput{photoFile("a.jpg")}, true)
	f.typeText(t, "toolong")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 0 {
		t.Fatal("over-caption send must not dispatch")
	}
	d, ok := f.notif.lastDialog()
	if !ok {
		t.Fatal("dialog expected")
	}
	if d.Params["EXTRA_CHARS_COUNT"] != "2" {
		t.Errorf("overflow = %q, want 2", d.Params["EXTRA_CHARS_COUNT"])
	}
}

func TestAttachmentSendCarriesBatch(t *testing.T) {
	f := newFixture(t)

	f.c.Stager().HandleFileSelect([]FileInput{photoFile("a.jpg"), photoFile("b.jpg")}, true)
	f.typeText(t, "caption")
	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
	}
	req := f.disp.Sent[0]
	if len(req.Attachments) != 2 {
		t.Errorf("attachments = %d, want 2", len(req.Attachments))
	}
	if req.Text.Text != "caption" {
		t.Errorf("caption = %q", req.Text.Text)
	}
	if !req.SendCompressed || !req.SendGrouped {
		t.Error("compression and grouping default to the last-used preference")
	}
}
