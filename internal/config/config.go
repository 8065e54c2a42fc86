// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// courier.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - $COURIER_CONFIG (explicit path)
//   - ~/.courier/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/courier-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete courier configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Limits       LimitsConfig       `toml:"limits" json:"limits"`
	Draft        DraftConfig        `toml:"draft" json:"draft"`
	Autocomplete AutocompleteConfig `toml:"autocomplete" json:"autocomplete"`
	Voice        VoiceConfig        `toml:"voice" json:"voice"`
	Dispatch     DispatchConfig     `toml:"dispatch" json:"dispatch"`
	Storage      StorageConfig      `toml:"storage" json:"storage"`
}

// LimitsConfig holds message and attachment limits.
type LimitsConfig struct {
	// MaxMessageLength is the text limit in UTF-16 units for plain messages.
	MaxMessageLength int `toml:"max_message_length" json:"max_message_length" validate:"gt=0"`

	// MaxCaptionLength is the text limit for attachment captions.
	MaxCaptionLength int `toml:"max_caption_length" json:"max_caption_length" validate:"gt=0"`

	// MaxAttachments caps one staged batch.
	MaxAttachments int `toml:"max_attachments" json:"max_attachments" validate:"gt=0"`

	// MaxFileSizeBytes caps a single staged file.
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes" json:"max_file_size_bytes" validate:"gt=0"`
}

// DraftConfig holds draft synchronization timing.
type DraftConfig struct {
	// DebounceMs is the delay between the last keystroke and the draft save.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" validate:"gte=50"`
}

// AutocompleteConfig holds tooltip detector timing and sizing.
type AutocompleteConfig struct {
	// ThrottleMs is the minimum interval between detector passes.
	ThrottleMs int `toml:"throttle_ms" json:"throttle_ms" validate:"gte=50"`

	// MaxResults caps each detector's candidate list.
	MaxResults int `toml:"max_results" json:"max_results" validate:"gt=0"`
}

// VoiceConfig holds voice recording parameters.
type VoiceConfig struct {
	// MinDurationMs is the floor below which a recording is padded before it
	// finalizes, so an accidental tap never produces a zero-length clip.
	MinDurationMs int `toml:"min_duration_ms" json:"min_duration_ms" validate:"gte=0"`
}

// DispatchConfig selects the outbound dispatcher.
type DispatchConfig struct {
	// AMQPURL, when set, routes dispatched actions to a RabbitMQ exchange.
	// Empty selects the local logging dispatcher.
	AMQPURL  string `toml:"amqp_url" json:"amqp_url" validate:"omitempty,url"`
	Exchange string `toml:"exchange" json:"exchange"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// DraftDBPath is the sqlite database for draft persistence.
	// Empty defaults to ~/.courier/drafts.db.
	DraftDBPath string `toml:"draft_db_path" json:"draft_db_path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Limits: LimitsConfig{
			MaxMessageLength: 4096,
			MaxCaptionLength: 1024,
			MaxAttachments:   10,
			MaxFileSizeBytes: 2 << 30, // 2 GiB
		},
		Draft: DraftConfig{
			DebounceMs: 500,
		},
		Autocomplete: AutocompleteConfig{
			ThrottleMs: 300,
			MaxResults: 36,
		},
		Voice: VoiceConfig{
			MinDurationMs: 1000,
		},
		Dispatch: DispatchConfig{
			Exchange: "courier.outbox",
		},
		Storage: StorageConfig{},
	}
}

// DraftDebounce returns the draft save delay as a duration.
func (c *Config) DraftDebounce() time.Duration {
	return time.Duration(c.Draft.DebounceMs) * time.Millisecond
}

// AutocompleteThrottle returns the detector throttle as a duration.
func (c *Config) AutocompleteThrottle() time.Duration {
	return time.Duration(c.Autocomplete.ThrottleMs) * time.Millisecond
}

// VoiceMinDuration returns the voice recording floor as a duration.
func (c *Config) VoiceMinDuration() time.Duration {
	return time.Duration(c.Voice.MinDurationMs) * time.Millisecond
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the courier configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".courier"), nil
}

// ConfigPath returns the default TOML config path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default location, falling back to
// built-in defaults when no file exists. Environment overrides apply last.
func Load() (*Config, error) {
	if explicit := os.Getenv("COURIER_CONFIG"); explicit != "" {
		return LoadFromPath(explicit)
	}

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies COURIER_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COURIER_AMQP_URL"); v != "" {
		cfg.Dispatch.AMQPURL = v
	}
	if v := os.Getenv("COURIER_DRAFT_DB"); v != "" {
		cfg.Storage.DraftDBPath = v
	}
	if v := os.Getenv("COURIER_MAX_MESSAGE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxMessageLength = n
		}
	}
	if v := os.Getenv("COURIER_DRAFT_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Draft.DebounceMs = n
		}
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default location atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path atomically.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = validator.New()

// Validate checks the configuration against its struct constraints plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Limits.MaxCaptionLength > c.Limits.MaxMessageLength {
		return fmt.Errorf("invalid config: max_caption_length %d exceeds max_message_length %d",
			c.Limits.MaxCaptionLength, c.Limits.MaxMessageLength)
	}
	if c.Dispatch.AMQPURL != "" && c.Dispatch.Exchange == "" {
		return fmt.Errorf("invalid config: dispatch.exchange required when amqp_url is set")
	}
	return nil
}
