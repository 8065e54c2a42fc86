// courier TUI - A terminal front-end for the message composition engine.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/courier-tui/internal/composer"
	"github.com/jeranaias/courier-tui/internal/config"
	"github.com/jeranaias/courier-tui/internal/dispatch"
	"github.com/jeranaias/courier-tui/internal/model"
	"github.com/jeranaias/courier-tui/internal/storage"
	"github.com/jeranaias/courier-tui/internal/store"
	"github.com/jeranaias/courier-tui/internal/ui/composerview"
	"github.com/jeranaias/courier-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.courier/config.toml)")
	chatID := flag.String("chat", "general", "chat to open")
	threadID := flag.String("thread", "", "forum thread to open")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("courier %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *chatID, *threadID); err != nil {
		fmt.Fprintln(os.Stderr, "courier:", err)
		os.Exit(1)
	}
}

func run(configPath, chatID, threadID string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Keep engine logging out of the alternate screen.
	if logFile, lerr := openLogFile(); lerr == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Drafts survive restarts; everything else is seeded per run.
	draftDB, err := openDraftStore(cfg)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}
	defer draftDB.Close()

	st := store.NewMemoryStore()
	seedDemoState(st)
	if err := loadPersistedDrafts(st, draftDB); err != nil {
		log.Printf("load drafts: %v", err)
	}
	writer := &persistentWriter{mem: st, db: draftDB}

	dispatcher, cleanup, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	notifier := composerview.NewNotifier()

	engine, err := composer.New(composer.Options{
		Config:     cfg,
		Reader:     st,
		Writer:     writer,
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Drafts:     st,
		UserID:     "self",
		Voice:      &composer.SimulatedVoiceSource{},
	})
	if err != nil {
		return fmt.Errorf("create composer: %w", err)
	}
	defer engine.Close()

	engine.SwitchChat(chatID, threadID)

	var outbox func() []model.SendRequest
	if logDisp, ok := dispatcher.(*dispatch.LogDispatcher); ok {
		outbox = logDisp.SentRequests
	}

	view := composerview.New(composerview.Options{
		Theme:    styles.NewTheme(),
		Engine:   engine,
		Config:   cfg,
		Reader:   st,
		Notifier: notifier,
		Outbox:   outbox,
		EditTarget: func() (string, bool) {
			// The demo state carries one editable message per chat.
			if _, ok := st.Message(chatID, "m1"); ok {
				return "m1", true
			}
			return "", false
		},
		PickFiles: pickFilesFromEnv,
	})

	// Reload limits on config edits. The engine reads the shared struct
	// on every operation, so value updates take effect immediately.
	if path, perr := resolveConfigPath(configPath); perr == nil {
		if watcher, werr := config.NewWatcher(path, func(next *config.Config) {
			cfg.Limits = next.Limits
			log.Printf("config reloaded from %s", path)
		}); werr == nil {
			defer watcher.Close()
		}
	}

	program := tea.NewProgram(view, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// =============================================================================
// CONFIGURATION
// =============================================================================

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func resolveConfigPath(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func openLogFile() (*os.File, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "courier.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// =============================================================================
// STORAGE
// =============================================================================

func openDraftStore(cfg *config.Config) (*storage.DraftStore, error) {
	path := cfg.Storage.DraftDBPath
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return storage.OpenDraftStore(path)
}

func loadPersistedDrafts(st *store.MemoryStore, db *storage.DraftStore) error {
	drafts, err := db.All()
	if err != nil {
		return err
	}
	for _, d := range drafts {
		st.SaveDraft(d.ChatID, d.ThreadID, d.Draft)
	}
	return nil
}

// persistentWriter mirrors draft mutations into sqlite so closing the
// terminal never loses typed text. All other writes stay in memory.
type persistentWriter struct {
	mem *store.MemoryStore
	db  *storage.DraftStore
}

func (w *persistentWriter) SaveDraft(chatID, threadID string, d model.Draft) {
	w.mem.SaveDraft(chatID, threadID, d)
	if saved, ok := w.mem.Draft(chatID, threadID); ok {
		if err := w.db.Put(chatID, threadID, saved); err != nil {
			log.Printf("persist draft: %v", err)
		}
	}
}

func (w *persistentWriter) ClearDraft(chatID, threadID string, localOnly bool) {
	w.mem.ClearDraft(chatID, threadID, localOnly)
	if err := w.db.Delete(chatID, threadID); err != nil {
		log.Printf("delete draft: %v", err)
	}
}

func (w *persistentWriter) SetEditingDraft(chatID, threadID string, text model.FormattedText) {
	w.mem.SetEditingDraft(chatID, threadID, text)
}

func (w *persistentWriter) ClearEditingDraft(chatID, threadID string) {
	w.mem.ClearEditingDraft(chatID, threadID)
}

func (w *persistentWriter) SetLastSentAt(chatID string, t time.Time) {
	w.mem.SetLastSentAt(chatID, t)
}

func (w *persistentWriter) SetAutoApprovePayments(enabled bool) {
	w.mem.SetAutoApprovePayments(enabled)
}

// =============================================================================
// DISPATCH
// =============================================================================

func buildDispatcher(cfg *config.Config) (store.Dispatcher, func(), error) {
	if cfg.Dispatch.AMQPURL != "" {
		d, err := dispatch.NewAMQPDispatcher(cfg.Dispatch.AMQPURL, cfg.Dispatch.Exchange)
		if err != nil {
			return nil, nil, fmt.Errorf("connect dispatcher: %w", err)
		}
		return d, func() { d.Close() }, nil
	}
	return dispatch.NewLogDispatcher(), func() {}, nil
}

// =============================================================================
// DEMO STATE
// =============================================================================

// seedDemoState fills the in-memory store with enough chats, members and
// bots to exercise every composer surface without a backend.
func seedDemoState(st *store.MemoryStore) {
	st.PutChat(model.Chat{
		ID:          "general",
		Title:       "General",
		Permissions: model.AllPermissions(),
	})
	st.PutChat(model.Chat{
		ID:          "announcements",
		Title:       "Announcements",
		Permissions: model.AllPermissions(),
		SlowMode:    &model.SlowModeOptions{Seconds: 30},
	})
	st.PutChat(model.Chat{
		ID:               "support",
		Title:            "Priority Support",
		Permissions:      model.AllPermissions(),
		PaidMessageStars: 5,
	})

	st.PutUser(model.User{ID: "self", Username: "me", FirstName: "Me"})
	alice := model.User{ID: "u-alice", Username: "alice", FirstName: "Alice", LastName: "Moreau"}
	bob := model.User{ID: "u-bob", FirstName: "Bob", LastName: "Tanaka"}
	gifBot := model.User{
		ID: "u-gif", Username: "gif", FirstName: "GIF Search", IsBot: true,
		InlinePlaceholder: "Search GIFs",
	}
	st.PutUser(alice)
	st.PutUser(bob)
	st.PutUser(gifBot)

	for _, chat := range []string{"general", "announcements", "support"} {
		st.PutMember(chat, alice)
		st.PutMember(chat, bob)
	}
	st.PutMember("general", gifBot)

	st.PutBotCommands("general", []model.BotCommand{
		{BotID: "u-gif", Command: "start", Description: "Start the bot"},
		{BotID: "u-gif", Command: "help", Description: "Show help"},
	})
	st.PutQuickReply(model.QuickReply{ID: "q1", Shortcut: "standup"})

	st.PutMessage(model.Message{
		ID:     "m1",
		ChatID: "general",
		Content: model.FormattedText{
			Text: "The deploy is scheduled for Friday.",
		},
		Date: time.Now().Add(-time.Hour).Unix(),
	})

	st.SetStarBalance(40)
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

// pickFilesFromEnv stages the files listed in $COURIER_ATTACH, a
// colon-separated path list, as a stand-in for a graphical file picker.
func pickFilesFromEnv() ([]composer.FileInput, error) {
	env := os.Getenv("COURIER_ATTACH")
	if env == "" {
		return nil, nil
	}

	var files []composer.FileInput
	for _, path := range strings.Split(env, ":") {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		files = append(files, composer.FileInput{
			Filename: filepath.Base(path),
			MimeType: mimeType,
			Size:     int64(len(data)),
			BlobURL:  "file://" + path,
			Data:     data,
		})
	}
	return files, nil
}
