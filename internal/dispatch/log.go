// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch provides outbound dispatcher implementations.
package dispatch

import (
	"log"
	"sync"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// LOG DISPATCHER
// =============================================================================

// LogDispatcher records dispatched actions in memory and logs them. It is
// the offline default and doubles as a test spy.
type LogDispatcher struct {
	mu sync.Mutex

	Sent      []model.SendRequest
	Edited    []model.EditRequest
	Inline    []model.SendRequest
	Forwarded []model.ForwardRequest
	Actions   []string

	// Quiet suppresses log output; tests set it.
	Quiet bool
}

// NewLogDispatcher creates an empty log dispatcher.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) SendMessage(req model.SendRequest) error {
	d.mu.Lock()
	d.Sent = append(d.Sent, req)
	d.mu.Unlock()
	if !d.Quiet {
		log.Printf("dispatch: send chat=%s thread=%s len=%d attachments=%d",
			req.ChatID, req.ThreadID, len(req.Text.Text), len(req.Attachments))
	}
	return nil
}

func (d *LogDispatcher) EditMessage(req model.EditRequest) error {
	d.mu.Lock()
	d.Edited = append(d.Edited, req)
	d.mu.Unlock()
	if !d.Quiet {
		log.Printf("dispatch: edit chat=%s message=%s", req.ChatID, req.MessageID)
	}
	return nil
}

func (d *LogDispatcher) SendInlineBotResult(req model.SendRequest) error {
	d.mu.Lock()
	d.Inline = append(d.Inline, req)
	d.mu.Unlock()
	if !d.Quiet {
		log.Printf("dispatch: inline result chat=%s", req.ChatID)
	}
	return nil
}

func (d *LogDispatcher) ForwardMessages(req model.ForwardRequest) error {
	d.mu.Lock()
	d.Forwarded = append(d.Forwarded, req)
	d.mu.Unlock()
	if !d.Quiet {
		log.Printf("dispatch: forward %d messages to chat=%s", len(req.MessageIDs), req.ToChatID)
	}
	return nil
}

func (d *LogDispatcher) SendTypingAction(chatID, threadID, action string) error {
	d.mu.Lock()
	d.Actions = append(d.Actions, action)
	d.mu.Unlock()
	return nil
}

// SentCount returns the number of recorded sends.
func (d *LogDispatcher) SentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Sent)
}

// SentRequests returns a copy of every recorded send, oldest first.
func (d *LogDispatcher) SentRequests() []model.SendRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.SendRequest, len(d.Sent))
	copy(out, d.Sent)
	return out
}

// LastSent returns the most recent send request.
func (d *LogDispatcher) LastSent() (model.SendRequest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Sent) == 0 {
		return model.SendRequest{}, false
	}
	return d.Sent[len(d.Sent)-1], true
}
