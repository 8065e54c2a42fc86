// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/courier-tui/internal/composer/autocomplete"
	"github.com/jeranaias/courier-tui/internal/config"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/store"
	"github.com/jeranaias/courier-tui/internal/textparse"
)

// sendActionInterval is the minimum gap between transient chat actions
// ("typing", "recordAudio") emitted while the user composes.
const sendActionInterval = 3 * time.Second

// =============================================================================
// COMPOSER
// =============================================================================

// Options wires a Composer to its environment. Config, Reader, Writer,
// Dispatcher and Notifier are required.
type Options struct {
	Config     *config.Config
	Reader     store.Reader
	Writer     store.Writer
	Dispatcher store.Dispatcher
	Notifier   store.Notifier

	// Drafts, when set, delivers remote draft updates to the synchronizer.
	Drafts store.DraftObserver

	// Scheduler defaults to a frame timer.
	Scheduler Scheduler

	// UserID identifies the composing user, for slow-mode admin exemption
	// and mention self-filtering.
	UserID string

	// Voice supplies the recording resource; nil disables voice notes.
	Voice VoiceSource

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Composer owns one composition session at a time and coordinates the
// draft synchronizer, attachment stager, editing reconciler, payment gate,
// send pipeline and voice recorder around it.
type Composer struct {
	cfg        *config.Config
	reader     store.Reader
	writer     store.Writer
	dispatcher store.Dispatcher
	notifier   store.Notifier
	sched      Scheduler
	userID     string
	now        func() time.Time

	mu          sync.Mutex
	sess        *Session
	unsubSignal func()
	unsubDrafts func()
	closed      bool

	drafts   *DraftSynchronizer
	stager   *AttachmentStager
	editing  *EditingReconciler
	gate     *PaymentGate
	recorder *VoiceRecorder
	ac       *autocomplete.Coordinator

	typing *rate.Limiter

	onFocus func()
	onBlur  func()
}

// New creates a composer positioned on no chat; call SwitchChat before
// composing.
func New(opts Options) (*Composer, error) {
	if opts.Reader == nil || opts.Writer == nil || opts.Dispatcher == nil || opts.Notifier == nil {
		return nil, errors.New("composer: reader, writer, dispatcher and notifier are required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = FrameScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Composer{
		cfg:        opts.Config,
		reader:     opts.Reader,
		writer:     opts.Writer,
		dispatcher: opts.Dispatcher,
		notifier:   opts.Notifier,
		sched:      opts.Scheduler,
		userID:     opts.UserID,
		now:        opts.Now,
		typing:     rate.NewLimiter(rate.Every(sendActionInterval), 1),
	}

	c.drafts = newDraftSynchronizer(c)
	c.stager = newAttachmentStager(c)
	c.editing = newEditingReconciler(c)
	c.gate = newPaymentGate(c)
	c.recorder = newVoiceRecorder(c, opts.Voice)
	c.ac = autocomplete.New(c.autocompleteSource(), c.cfg.AutocompleteThrottle())
	c.ac.SetAutoInsertHandler(c.applyAutoInsert)

	if opts.Drafts != nil {
		c.unsubDrafts = opts.Drafts.OnDraftChange(c.drafts.OnRemoteDraft)
	}
	return c, nil
}

// autocompleteSource binds the detectors to the current session's chat.
func (c *Composer) autocompleteSource() autocomplete.Source {
	currentChat := func() string {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.sess == nil {
			return ""
		}
		return c.sess.ChatID
	}
	return autocomplete.Source{
		EmojiIndex: c.emojiIndex(),
		Members: func() []model.User {
			return c.reader.ChatMembers(currentChat())
		},
		Commands: func() []model.BotCommand {
			return c.reader.BotCommands(currentChat())
		},
		QuickReplies: c.reader.QuickReplies,
		InlineBot: func(username string) (model.User, bool) {
			return c.reader.UserByUsername(username)
		},
		StickersForEmoji: c.reader.StickersForEmoji,
		CustomEmojiForNative: func(native string) []model.Sticker {
			var out []model.Sticker
			for _, st := range c.reader.StickersForEmoji(native) {
				if st.IsCustomEmoji {
					out = append(out, st)
				}
			}
			return out
		},
		MaxResults: c.cfg.Autocomplete.MaxResults,
	}
}

// SetFocusHandlers registers the input focus and blur callbacks used by
// mention insertion and slow-mode rejection.
func (c *Composer) SetFocusHandlers(focus, blur func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFocus = focus
	c.onBlur = blur
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// SwitchChat flushes the current session and opens a new one on the given
// thread, restoring any persisted draft.
func (c *Composer) SwitchChat(chatID, threadID string) {
	if threadID == "" {
		threadID = model.MainThreadID
	}

	c.mu.Lock()
	prev := c.sess
	c.mu.Unlock()

	hadDraft := false
	if prev != nil {
		// Leaving a thread: persist what the user typed, cancel any
		// recording, abandon any edit.
		c.recorder.Cancel()
		c.editing.Cancel()
		c.drafts.Flush()
		hadDraft = prev.hadRemoteDraft

		c.mu.Lock()
		if c.unsubSignal != nil {
			c.unsubSignal()
			c.unsubSignal = nil
		}
		c.mu.Unlock()
	}

	// The freeze window keeps the just-flushed thread's debounced save from
	// double-writing during teardown; it lifts on the next tick.
	c.drafts.FreezeForTick()

	sess := newSession(chatID, threadID)
	c.mu.Lock()
	c.sess = sess
	c.unsubSignal = sess.HTML.Subscribe(c.onHTMLChange)
	c.mu.Unlock()

	c.ac.Reset()
	c.drafts.Restore(chatID, threadID, hadDraft)
}

// Session returns the active session, or nil before the first SwitchChat.
func (c *Composer) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// Autocomplete returns the tooltip coordinator for view binding.
func (c *Composer) Autocomplete() *autocomplete.Coordinator { return c.ac }

// Recorder returns the voice recorder.
func (c *Composer) Recorder() *VoiceRecorder { return c.recorder }

// Stager returns the attachment stager.
func (c *Composer) Stager() *AttachmentStager { return c.stager }

// Editing returns the editing reconciler.
func (c *Composer) Editing() *EditingReconciler { return c.editing }

// Gate returns the payment confirmation gate.
func (c *Composer) Gate() *PaymentGate { return c.gate }

// OnUserInput records a keystroke-driven text change. html is the new
// input markup and caret the rune index into its plain text projection.
func (c *Composer) OnUserInput(html string, caret int) {
	c.mu.Lock()
	sess := c.sess
	if sess == nil || c.closed {
		c.mu.Unlock()
		return
	}
	sess.Caret = caret
	sess.IsTouched = true
	chatID, threadID := sess.ChatID, sess.ThreadID
	c.mu.Unlock()

	sess.HTML.Set(html)
	c.feedAutocomplete(sess)

	if c.typing.Allow() {
		if err := c.dispatcher.SendTypingAction(chatID, threadID, "typing"); err != nil {
			log.Printf("composer: typing action: %v", err)
		}
	}
}

// SetReplyTarget changes the active reply target. Changing it while an
// edit is in progress abandons the edit.
func (c *Composer) SetReplyTarget(messageID string) {
	c.editing.onReplyTargetChange(messageID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		c.sess.ReplyToID = messageID
	}
}

// Blur flushes the draft (or snapshots the edit) when the input loses
// focus or the window goes to background.
func (c *Composer) Blur() {
	if c.editing.IsEditing() {
		c.editing.Snapshot()
		return
	}
	c.drafts.Flush()
}

// Close flushes pending state and releases every timer. The composer must
// not be used afterwards.
func (c *Composer) Close() {
	c.recorder.Cancel()
	if c.editing.IsEditing() {
		c.editing.Snapshot()
	} else {
		c.drafts.Flush()
	}

	c.mu.Lock()
	c.closed = true
	if c.unsubSignal != nil {
		c.unsubSignal()
		c.unsubSignal = nil
	}
	if c.unsubDrafts != nil {
		c.unsubDrafts()
		c.unsubDrafts = nil
	}
	c.mu.Unlock()

	c.drafts.Stop()
	c.ac.Reset()
}

// =============================================================================
// INTERNAL PLUMBING
// =============================================================================

// onHTMLChange runs synchronously on every signal Set, from any writer
// (keystroke, restore, programmatic insertion).
func (c *Composer) onHTMLChange(html string) {
	c.drafts.onTextChange(html)
	c.editing.onTextChange(html)
}

// feedAutocomplete pushes the current plain text state into the detectors.
func (c *Composer) feedAutocomplete(sess *Session) {
	plain := textparse.PlainText(sess.HTML.Get())
	c.mu.Lock()
	caret := sess.Caret
	c.mu.Unlock()
	c.ac.OnTextChange(plain, caret, sess.HTML.Generation())
}

// resetComposer clears text, attachments and tooltips after a send. Runs
// one tick after dispatch.
func (c *Composer) resetComposer(sess *Session) {
	c.mu.Lock()
	if c.sess != sess {
		// The user switched threads between dispatch and this tick.
		c.mu.Unlock()
		return
	}
	sess.IsTouched = false
	sess.Attachments = nil
	sess.ShouldForceAsFile = false
	sess.ShouldForceCompression = false
	sess.NextText = ""
	sess.Caret = 0
	sess.PendingForward = nil
	c.mu.Unlock()

	c.drafts.suppressNext()
	sess.HTML.Set("")
	c.ac.Reset()
	c.focusInput()
}

func (c *Composer) focusInput() {
	c.mu.Lock()
	fn := c.onFocus
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Composer) blurInput() {
	c.mu.Lock()
	fn := c.onBlur
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
