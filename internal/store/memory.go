// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store defines the capability surface between the composition
// engine and the application state it consumes and produces.
package store

import (
	"sync"
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// draftKey scopes drafts per chat thread.
type draftKey struct {
	chatID   string
	threadID string
}

// MemoryStore is the reference Reader/Writer implementation. It also
// implements DraftObserver so a composer can watch for drafts pushed from
// other devices (simulated by calling ApplyRemoteDraft).
type MemoryStore struct {
	mu sync.Mutex

	chats    map[string]model.Chat
	users    map[string]model.User
	byUname  map[string]string
	members  map[string][]model.User
	commands map[string][]model.BotCommand
	quick    []model.QuickReply
	custom   map[string]model.Sticker
	stickers []model.Sticker
	messages map[string]model.Message // chatID+"/"+messageID

	drafts        map[draftKey]model.Draft
	editingDrafts map[draftKey]model.FormattedText
	revision      uint64

	starBalance int64
	autoApprove bool
	lastSent    map[string]time.Time
	serverSkew  time.Duration

	draftSubs   map[int]func(string, string, model.Draft)
	nextSubID   int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:         make(map[string]model.Chat),
		users:         make(map[string]model.User),
		byUname:       make(map[string]string),
		members:       make(map[string][]model.User),
		commands:      make(map[string][]model.BotCommand),
		custom:        make(map[string]model.Sticker),
		messages:      make(map[string]model.Message),
		drafts:        make(map[draftKey]model.Draft),
		editingDrafts: make(map[draftKey]model.FormattedText),
		lastSent:      make(map[string]time.Time),
		draftSubs:     make(map[int]func(string, string, model.Draft)),
	}
}

// =============================================================================
// SEEDING
// =============================================================================

// PutChat inserts or replaces a chat.
func (s *MemoryStore) PutChat(c model.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[c.ID] = c
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	if u.Username != "" {
		s.byUname[u.Username] = u.ID
	}
}

// PutMember adds a user to a chat's member list.
func (s *MemoryStore) PutMember(chatID string, u model.User) {
	s.PutUser(u)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[chatID] = append(s.members[chatID], u)
}

// PutBotCommands registers a bot's commands in a chat.
func (s *MemoryStore) PutBotCommands(chatID string, cmds []model.BotCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands[chatID] = append(s.commands[chatID], cmds...)
}

// PutQuickReply registers a quick reply shortcut.
func (s *MemoryStore) PutQuickReply(q model.QuickReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quick = append(s.quick, q)
}

// PutCustomEmoji registers a custom emoji document.
func (s *MemoryStore) PutCustomEmoji(st model.Sticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom[st.ID] = st
}

// PutSticker registers a sticker for emoji suggestions.
func (s *MemoryStore) PutSticker(st model.Sticker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stickers = append(s.stickers, st)
}

// PutMessage inserts or replaces a message.
func (s *MemoryStore) PutMessage(m model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ChatID+"/"+m.ID] = m
}

// SetStarBalance sets the user's star balance.
func (s *MemoryStore) SetStarBalance(stars int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starBalance = stars
}

// SetServerSkew sets the offset applied by ServerNow.
func (s *MemoryStore) SetServerSkew(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverSkew = d
}

// =============================================================================
// READER
// =============================================================================

func (s *MemoryStore) Chat(chatID string) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[chatID]
	return c, ok
}

func (s *MemoryStore) User(userID string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}

func (s *MemoryStore) UserByUsername(username string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUname[username]
	if !ok {
		return model.User{}, false
	}
	u, ok := s.users[id]
	return u, ok
}

func (s *MemoryStore) Draft(chatID, threadID string) (model.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[draftKey{chatID, threadID}]
	return d, ok
}

func (s *MemoryStore) EditingDraft(chatID, threadID string) (model.FormattedText, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.editingDrafts[draftKey{chatID, threadID}]
	return t, ok
}

func (s *MemoryStore) Message(chatID, messageID string) (model.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[chatID+"/"+messageID]
	return m, ok
}

func (s *MemoryStore) ChatMembers(chatID string) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.members[chatID]...)
}

func (s *MemoryStore) BotCommands(chatID string) []model.BotCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.BotCommand(nil), s.commands[chatID]...)
}

func (s *MemoryStore) QuickReplies() []model.QuickReply {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.QuickReply(nil), s.quick...)
}

func (s *MemoryStore) CustomEmoji(documentID string) (model.Sticker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.custom[documentID]
	return st, ok
}

func (s *MemoryStore) StickersForEmoji(emoji string) []model.Sticker {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Sticker
	for _, st := range s.stickers {
		if st.Emoji == emoji {
			out = append(out, st)
		}
	}
	return out
}

func (s *MemoryStore) StarBalance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starBalance
}

func (s *MemoryStore) AutoApprovePayments() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoApprove
}

func (s *MemoryStore) LastSentAt(chatID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastSent[chatID]
	return t, ok
}

func (s *MemoryStore) ServerNow() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Add(s.serverSkew)
}

// =============================================================================
// WRITER
// =============================================================================

func (s *MemoryStore) SaveDraft(chatID, threadID string, d model.Draft) {
	s.mu.Lock()
	s.revision++
	d.Revision = s.revision
	d.UpdatedAt = time.Now()
	d.IsLocal = true
	s.drafts[draftKey{chatID, threadID}] = d
	s.mu.Unlock()
}

func (s *MemoryStore) ClearDraft(chatID, threadID string, localOnly bool) {
	s.mu.Lock()
	key := draftKey{chatID, threadID}
	if localOnly {
		// Keep the reply reference; only the text is discarded.
		if d, ok := s.drafts[key]; ok && d.ReplyToID != "" {
			d.Text = model.FormattedText{}
			s.revision++
			d.Revision = s.revision
			s.drafts[key] = d
			s.mu.Unlock()
			return
		}
	}
	delete(s.drafts, key)
	s.mu.Unlock()
}

func (s *MemoryStore) SetEditingDraft(chatID, threadID string, text model.FormattedText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingDrafts[draftKey{chatID, threadID}] = text
}

func (s *MemoryStore) ClearEditingDraft(chatID, threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.editingDrafts, draftKey{chatID, threadID})
}

func (s *MemoryStore) SetLastSentAt(chatID string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[chatID] = t
}

func (s *MemoryStore) SetAutoApprovePayments(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoApprove = enabled
}

// =============================================================================
// REMOTE DRAFT DELIVERY
// =============================================================================

// ApplyRemoteDraft installs a draft as if pushed from another device and
// notifies observers. The store bumps the revision; IsLocal is cleared.
func (s *MemoryStore) ApplyRemoteDraft(chatID, threadID string, d model.Draft) {
	s.mu.Lock()
	s.revision++
	d.Revision = s.revision
	d.IsLocal = false
	d.UpdatedAt = time.Now()
	s.drafts[draftKey{chatID, threadID}] = d
	subs := make([]func(string, string, model.Draft), 0, len(s.draftSubs))
	for _, fn := range s.draftSubs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(chatID, threadID, d)
	}
}

// OnDraftChange implements DraftObserver.
func (s *MemoryStore) OnDraftChange(fn func(chatID, threadID string, d model.Draft)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.draftSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.draftSubs, id)
		s.mu.Unlock()
	}
}
