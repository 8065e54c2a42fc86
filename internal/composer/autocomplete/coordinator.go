// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autocomplete implements the composer's tooltip detectors.
package autocomplete

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/courier-tui/internal/emoji"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/util"
)

// =============================================================================
// CANDIDATES
// =============================================================================

// Kind identifies one detector.
type Kind int

const (
	KindEmoji Kind = iota
	KindCustomEmoji
	KindSticker
	KindMention
	KindInlineBot
	KindCommand
	kindCount
)

// String returns the detector name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindEmoji:
		return "emoji"
	case KindCustomEmoji:
		return "custom_emoji"
	case KindSticker:
		return "sticker"
	case KindMention:
		return "mention"
	case KindInlineBot:
		return "inline_bot"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Candidate is one row of a tooltip list.
type Candidate struct {
	// Value is what insertion uses: native emoji, username, command, ...
	Value string

	Display     string
	Description string

	// Detector-specific payloads.
	UserID     string
	DocumentID string
	Score      int
}

// CandidateSet is the published state of one detector.
type CandidateSet struct {
	Kind       Kind
	IsOpen     bool
	Candidates []Candidate

	// Trigger range in rune indices, for insertion replacement.
	TriggerStart, TriggerEnd int

	// InlineHelp is the bot placeholder shown while an inline query is
	// empty; cleared by a double newline after the username.
	InlineHelp string
}

// AutoInsert describes a completed ":name:" token resolved to an emoji.
type AutoInsert struct {
	Native     string
	Start, End int
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

// Source supplies the reference data candidates are computed from. All
// funcs must be safe to call on every tick; nil funcs disable the detector
// that needs them.
type Source struct {
	EmojiIndex           *emoji.Index
	Members              func() []model.User
	Commands             func() []model.BotCommand
	QuickReplies         func() []model.QuickReply
	InlineBot            func(username string) (model.User, bool)
	StickersForEmoji     func(emoji string) []model.Sticker
	CustomEmojiForNative func(native string) []model.Sticker

	// MaxResults caps each candidate list; zero uses emoji.MaxResults.
	MaxResults int
}

func (s Source) maxResults() int {
	if s.MaxResults <= 0 {
		return emoji.MaxResults
	}
	return s.MaxResults
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator runs every detector on each throttled text tick and publishes
// one CandidateSet per detector. Dismissals are tracked per detector as the
// text generation at which Escape was pressed: a set stays closed while its
// dismissal watermark equals the current generation, and reopens on the
// next text change.
type Coordinator struct {
	src       Source
	throttler *util.Throttler

	mu          sync.Mutex
	sets        [kindCount]CandidateSet
	dismissedAt [kindCount]uint64
	hasDismiss  [kindCount]bool
	textGen     uint64

	// onAutoInsert fires when a completed shortcode should replace its
	// token instead of opening a list.
	onAutoInsert func(AutoInsert)
}

// New creates a coordinator with the given reference source and detector
// throttle interval.
func New(src Source, throttle time.Duration) *Coordinator {
	c := &Coordinator{
		src:       src,
		throttler: util.NewThrottler(throttle),
	}
	for k := Kind(0); k < kindCount; k++ {
		c.sets[k] = CandidateSet{Kind: k}
	}
	return c
}

// SetAutoInsertHandler registers the shortcode auto-insertion callback.
func (c *Coordinator) SetAutoInsertHandler(fn func(AutoInsert)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAutoInsert = fn
}

// OnTextChange feeds a new text state into the detectors. gen must be the
// text signal's generation so dismissal watermarks expire exactly when the
// text changes. Detection itself is throttled; the generation update is
// synchronous, which guarantees a dismissed tooltip cannot reappear for the
// same unchanged text.
func (c *Coordinator) OnTextChange(text string, caret int, gen uint64) {
	c.mu.Lock()
	c.textGen = gen
	c.mu.Unlock()

	c.throttler.Do(func() {
		c.compute(text, caret, gen)
	})
}

// Dismiss closes one detector until the next text change.
func (c *Coordinator) Dismiss(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissedAt[kind] = c.textGen
	c.hasDismiss[kind] = true
	c.sets[kind].IsOpen = false
}

// Set returns a copy of one detector's published state.
func (c *Coordinator) Set(kind Kind) CandidateSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets[kind]
}

// Active returns the detector that owns keyboard navigation: the first open
// set in priority order. Each detector's state stays independently
// computed; only the view-facing choice is exclusive.
func (c *Coordinator) Active() (CandidateSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := Kind(0); k < kindCount; k++ {
		if c.sets[k].IsOpen {
			return c.sets[k], true
		}
	}
	return CandidateSet{}, false
}

// Reset closes and clears every detector (chat switch, post-send).
func (c *Coordinator) Reset() {
	c.throttler.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := Kind(0); k < kindCount; k++ {
		c.sets[k] = CandidateSet{Kind: k}
		c.hasDismiss[k] = false
	}
}

// =============================================================================
// DETECTION
// =============================================================================

// compute recomputes every detector from scratch. There is no incremental
// diffing: text may have changed by paste or programmatic insertion, and
// the result must not depend on how it changed.
func (c *Coordinator) compute(text string, caret int, gen uint64) {
	results := [kindCount]CandidateSet{}
	var auto *AutoInsert

	results[KindEmoji], auto = c.detectEmoji(text, caret)
	results[KindCustomEmoji] = c.detectCustomEmoji(text, caret)
	results[KindSticker] = c.detectSticker(text)
	results[KindMention] = c.detectMention(text, caret)
	results[KindInlineBot] = c.detectInlineBot(text)
	results[KindCommand] = c.detectCommand(text, caret)

	c.mu.Lock()
	if gen != c.textGen {
		// A newer text state arrived while this pass ran; its own tick will
		// publish. Matching the remote-search pattern: every post-wait
		// continuation re-validates relevance before committing.
		c.mu.Unlock()
		return
	}
	onAuto := c.onAutoInsert
	for k := Kind(0); k < kindCount; k++ {
		set := results[k]
		set.Kind = k
		dismissed := c.hasDismiss[k] && c.dismissedAt[k] == gen
		set.IsOpen = len(set.Candidates) > 0 && !dismissed
		c.sets[k] = set
	}
	c.mu.Unlock()

	if auto != nil && onAuto != nil {
		onAuto(*auto)
	}
}

// detectEmoji resolves the emoji tooltip, or an auto-insertion for a
// completed shortcode.
func (c *Coordinator) detectEmoji(text string, caret int) (CandidateSet, *AutoInsert) {
	if c.src.EmojiIndex == nil {
		return CandidateSet{}, nil
	}
	trig, ok := ParseEmojiTrigger(text, caret)
	if !ok {
		return CandidateSet{}, nil
	}

	if trig.Complete {
		// A closed ":name:" token inserts the first match directly; this is
		// a UX shortcut, not an error path, so a miss simply keeps typing.
		if native, found := c.src.EmojiIndex.First(trig.Query); found {
			return CandidateSet{}, &AutoInsert{Native: native, Start: trig.Start, End: trig.End}
		}
		return CandidateSet{}, nil
	}

	matches := c.src.EmojiIndex.Search(trig.Query, c.src.maxResults())
	set := CandidateSet{TriggerStart: trig.Start, TriggerEnd: trig.End}
	for _, m := range matches {
		set.Candidates = append(set.Candidates, Candidate{
			Value:   m.Native,
			Display: m.Native + " :" + m.Name + ":",
		})
	}
	return set, nil
}

// detectCustomEmoji reuses the emoji trigger and maps matched natives to
// premium custom emoji documents.
func (c *Coordinator) detectCustomEmoji(text string, caret int) CandidateSet {
	if c.src.EmojiIndex == nil || c.src.CustomEmojiForNative == nil {
		return CandidateSet{}
	}
	trig, ok := ParseEmojiTrigger(text, caret)
	if !ok || trig.Complete {
		return CandidateSet{}
	}

	matches := c.src.EmojiIndex.Search(trig.Query, c.src.maxResults())
	set := CandidateSet{TriggerStart: trig.Start, TriggerEnd: trig.End}
	for _, m := range matches {
		for _, st := range c.src.CustomEmojiForNative(m.Native) {
			set.Candidates = append(set.Candidates, Candidate{
				Value:      m.Native,
				Display:    m.Native,
				DocumentID: st.ID,
			})
			if len(set.Candidates) >= c.src.maxResults() {
				return set
			}
		}
	}
	return set
}

// detectSticker suggests stickers when the whole input is a single emoji.
func (c *Coordinator) detectSticker(text string) CandidateSet {
	if c.src.StickersForEmoji == nil {
		return CandidateSet{}
	}
	native, ok := ParseStickerTrigger(text)
	if !ok {
		return CandidateSet{}
	}
	var set CandidateSet
	for _, st := range c.src.StickersForEmoji(native) {
		set.Candidates = append(set.Candidates, Candidate{
			Value:      native,
			Display:    native,
			DocumentID: st.ID,
		})
		if len(set.Candidates) >= c.src.maxResults() {
			break
		}
	}
	return set
}

// detectMention resolves the member mention tooltip.
func (c *Coordinator) detectMention(text string, caret int) CandidateSet {
	if c.src.Members == nil {
		return CandidateSet{}
	}
	trig, ok := ParseMentionTrigger(text, caret)
	if !ok {
		return CandidateSet{}
	}

	q := strings.ToLower(trig.Query)
	set := CandidateSet{TriggerStart: trig.Start, TriggerEnd: trig.End}
	for _, u := range c.src.Members() {
		if q != "" &&
			!strings.HasPrefix(strings.ToLower(u.Username), q) &&
			!strings.HasPrefix(strings.ToLower(u.FirstName), q) {
			continue
		}
		set.Candidates = append(set.Candidates, Candidate{
			Value:   u.Username,
			Display: u.FullName(),
			UserID:  u.ID,
			Score:   matchScore(u.Username, q),
		})
	}
	sort.SliceStable(set.Candidates, func(i, j int) bool {
		return set.Candidates[i].Score > set.Candidates[j].Score
	})
	if len(set.Candidates) > c.src.maxResults() {
		set.Candidates = set.Candidates[:c.src.maxResults()]
	}
	return set
}

// detectInlineBot resolves the inline bot query tooltip.
func (c *Coordinator) detectInlineBot(text string) CandidateSet {
	if c.src.InlineBot == nil {
		return CandidateSet{}
	}
	trig, ok := ParseInlineBotTrigger(text)
	if !ok {
		return CandidateSet{}
	}
	bot, found := c.src.InlineBot(trig.Username)
	if !found || !bot.IsBot {
		return CandidateSet{}
	}

	set := CandidateSet{}
	if !trig.SuppressHelp && trig.Query == "" {
		set.InlineHelp = bot.InlinePlaceholder
	}
	set.Candidates = append(set.Candidates, Candidate{
		Value:       trig.Query,
		Display:     "@" + bot.Username,
		Description: bot.InlinePlaceholder,
		UserID:      bot.ID,
	})
	return set
}

// detectCommand resolves slash commands and quick replies.
func (c *Coordinator) detectCommand(text string, caret int) CandidateSet {
	trig, ok := ParseCommandTrigger(text, caret)
	if !ok {
		return CandidateSet{}
	}
	q := strings.ToLower(trig.Query)

	var set CandidateSet
	if c.src.Commands != nil {
		for _, cmd := range c.src.Commands() {
			if !strings.HasPrefix(strings.ToLower(cmd.Command), q) {
				continue
			}
			set.Candidates = append(set.Candidates, Candidate{
				Value:       cmd.Command,
				Display:     "/" + cmd.Command,
				Description: cmd.Description,
				UserID:      cmd.BotID,
				Score:       matchScore(cmd.Command, q),
			})
		}
	}
	if c.src.QuickReplies != nil {
		for _, qr := range c.src.QuickReplies() {
			if !strings.HasPrefix(strings.ToLower(qr.Shortcut), q) {
				continue
			}
			set.Candidates = append(set.Candidates, Candidate{
				Value:   qr.Shortcut,
				Display: "/" + qr.Shortcut,
				Score:   matchScore(qr.Shortcut, q),
			})
		}
	}
	sort.SliceStable(set.Candidates, func(i, j int) bool {
		return set.Candidates[i].Score > set.Candidates[j].Score
	})
	if len(set.Candidates) > c.src.maxResults() {
		set.Candidates = set.Candidates[:c.src.maxResults()]
	}
	return set
}

// matchScore favors exact matches, then shorter completions.
func matchScore(value, partial string) int {
	value = strings.ToLower(value)
	if value == partial {
		return 100
	}
	score := 50 - (len(value) - len(partial))
	if score < 0 {
		score = 0
	}
	return score
}
