// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// courier.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// DEFAULTS TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Limits.MaxMessageLength != 4096 {
		t.Errorf("MaxMessageLength = %d, want 4096", cfg.Limits.MaxMessageLength)
	}
	if cfg.Limits.MaxCaptionLength != 1024 {
		t.Errorf("MaxCaptionLength = %d, want 1024", cfg.Limits.MaxCaptionLength)
	}
	if cfg.Draft.DebounceMs != 500 {
		t.Errorf("Draft.DebounceMs = %d, want 500", cfg.Draft.DebounceMs)
	}
	if cfg.Autocomplete.ThrottleMs != 300 {
		t.Errorf("Autocomplete.ThrottleMs = %d, want 300", cfg.Autocomplete.ThrottleMs)
	}
	if cfg.Autocomplete.MaxResults != 36 {
		t.Errorf("Autocomplete.MaxResults = %d, want 36", cfg.Autocomplete.MaxResults)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if cfg.DraftDebounce() != 500*time.Millisecond {
		t.Errorf("DraftDebounce = %v, want 500ms", cfg.DraftDebounce())
	}
	if cfg.AutocompleteThrottle() != 300*time.Millisecond {
		t.Errorf("AutocompleteThrottle = %v, want 300ms", cfg.AutocompleteThrottle())
	}
	if cfg.VoiceMinDuration() != time.Second {
		t.Errorf("VoiceMinDuration = %v, want 1s", cfg.VoiceMinDuration())
	}
}

// =============================================================================
// LOAD / SAVE TESTS
// =============================================================================

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Limits.MaxMessageLength = 2048
	cfg.Draft.DebounceMs = 750

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Limits.MaxMessageLength != 2048 {
		t.Errorf("MaxMessageLength = %d, want 2048", loaded.Limits.MaxMessageLength)
	}
	if loaded.Draft.DebounceMs != 750 {
		t.Errorf("DebounceMs = %d, want 750", loaded.Draft.DebounceMs)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	partial := "[limits]\nmax_message_length = 100\nmax_caption_length = 50\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Limits.MaxMessageLength != 100 {
		t.Errorf("MaxMessageLength = %d, want 100", cfg.Limits.MaxMessageLength)
	}
	// Untouched sections keep their defaults.
	if cfg.Autocomplete.MaxResults != 36 {
		t.Errorf("MaxResults = %d, want default 36", cfg.Autocomplete.MaxResults)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("COURIER_MAX_MESSAGE_LENGTH", "512")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Limits.MaxMessageLength != 512 {
		t.Errorf("MaxMessageLength = %d, want 512 from env", cfg.Limits.MaxMessageLength)
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero message length", func(c *Config) { c.Limits.MaxMessageLength = 0 }},
		{"caption over message", func(c *Config) { c.Limits.MaxCaptionLength = c.Limits.MaxMessageLength + 1 }},
		{"tiny debounce", func(c *Config) { c.Draft.DebounceMs = 10 }},
		{"amqp without exchange", func(c *Config) {
			c.Dispatch.AMQPURL = "amqp://localhost:5672"
			c.Dispatch.Exchange = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}
