// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/courier-tui/internal/model"
)

// =============================================================================
// VOICE RECORDER
// =============================================================================

// VoiceFilename is the fixed filename voice notes are staged under.
const VoiceFilename = "voice-message.ogg"

// ErrSourceStopped is returned by a VoiceSource whose underlying resource
// already finalized (for example revoked by the platform). Cancellation
// must tolerate it.
var ErrSourceStopped = errors.New("voice source already stopped")

// VoiceResult is the finalized recording handed back by a source.
type VoiceResult struct {
	BlobURL  string
	Duration time.Duration

	// Samples are raw analyser amplitudes in [0, 1].
	Samples []float64
}

// VoiceSource abstracts the recording resource.
type VoiceSource interface {
	Start() error
	Pause() error

	// Stop finalizes the resource and returns the recording. Returns
	// ErrSourceStopped if the resource already finalized.
	Stop() (VoiceResult, error)

	// Level reports the current input amplitude for the volume indicator.
	Level() float64
}

// RecorderState enumerates the recorder lifecycle.
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	RecorderRecording
	RecorderPaused
)

// VoiceRecorder drives a VoiceSource through Idle, Recording and Paused.
// Pause exists only for the schedule flow, where recording freezes while
// the user picks a time. Every exit path routes through the source's Stop.
type VoiceRecorder struct {
	c   *Composer
	src VoiceSource

	mu        sync.Mutex
	state     RecorderState
	startedAt time.Time
	viewOnce  bool
}

func newVoiceRecorder(c *Composer, src VoiceSource) *VoiceRecorder {
	return &VoiceRecorder{c: c, src: src}
}

// State returns the current lifecycle state.
func (vr *VoiceRecorder) State() RecorderState {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	return vr.state
}

// IsActive reports whether a recording is in progress or paused.
func (vr *VoiceRecorder) IsActive() bool {
	return vr.State() != RecorderIdle
}

// Level proxies the source's volume indicator while recording.
func (vr *VoiceRecorder) Level() float64 {
	if vr.src == nil || !vr.IsActive() {
		return 0
	}
	return vr.src.Level()
}

// Start acquires the recording resource and emits the recording chat
// action.
func (vr *VoiceRecorder) Start() error {
	if vr.src == nil {
		return errors.New("voice recording unavailable")
	}

	vr.mu.Lock()
	if vr.state != RecorderIdle {
		vr.mu.Unlock()
		return nil
	}
	vr.mu.Unlock()

	if err := vr.src.Start(); err != nil {
		return err
	}

	vr.mu.Lock()
	vr.state = RecorderRecording
	vr.startedAt = vr.c.now()
	vr.mu.Unlock()

	c := vr.c
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess != nil {
		if err := c.dispatcher.SendTypingAction(sess.ChatID, sess.ThreadID, "recordAudio"); err != nil {
			log.Printf("composer: record action: %v", err)
		}
	}
	return nil
}

// SetViewOnce toggles view-once delivery for the recording in progress.
// The staged voice note then carries the one-time TTL.
func (vr *VoiceRecorder) SetViewOnce(enabled bool) {
	vr.mu.Lock()
	vr.viewOnce = enabled
	vr.mu.Unlock()
}

// ViewOnce reports whether view-once delivery is toggled on.
func (vr *VoiceRecorder) ViewOnce() bool {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	return vr.viewOnce
}

// Pause freezes the recording for the schedule flow.
func (vr *VoiceRecorder) Pause() error {
	vr.mu.Lock()
	if vr.state != RecorderRecording {
		vr.mu.Unlock()
		return nil
	}
	vr.mu.Unlock()

	if err := vr.src.Pause(); err != nil {
		return err
	}
	vr.mu.Lock()
	vr.state = RecorderPaused
	vr.mu.Unlock()
	return nil
}

// StopAndStage finalizes the recording and converts it into a staged-file
// attachment. Recordings shorter than the configured floor report the
// floor duration, so an accidental tap never yields a zero-length clip.
func (vr *VoiceRecorder) StopAndStage() (model.Attachment, error) {
	vr.mu.Lock()
	viewOnce := vr.viewOnce
	vr.mu.Unlock()

	result, err := vr.stop()
	if err != nil {
		return model.Attachment{}, err
	}

	minDur := vr.c.cfg.VoiceMinDuration()
	if result.Duration < minDur {
		result.Duration = minDur
	}

	att := model.Attachment{
		ID:       uuid.NewString(),
		Filename: VoiceFilename,
		MimeType: "audio/ogg",
		BlobURL:  result.BlobURL,
		Voice: &model.VoiceMeta{
			Duration: int(result.Duration.Round(time.Second) / time.Second),
			Waveform: quantizeWaveform(result.Samples),
		},
	}
	if viewOnce {
		att.TTLSeconds = model.OneTimeMediaTTLSeconds
	}
	return att, nil
}

// Cancel stops and discards any active recording. Tolerates the source
// having already auto-stopped.
func (vr *VoiceRecorder) Cancel() {
	if _, err := vr.stop(); err != nil && !errors.Is(err, ErrSourceStopped) {
		log.Printf("composer: voice cancel: %v", err)
	}
}

// StageVoiceNote finalizes the active recording and stages the voice note
// through the attachment policy, alongside any files already staged. No-op
// when nothing is recording.
func (c *Composer) StageVoiceNote() error {
	if !c.recorder.IsActive() {
		return nil
	}

	att, err := c.recorder.StopAndStage()
	if err != nil {
		c.notifier.ShowNotification("ErrorVoiceRecording", nil)
		return err
	}

	c.mu.Lock()
	sess := c.sess
	var batch []model.Attachment
	if sess != nil {
		batch = append(append([]model.Attachment(nil), sess.Attachments...), att)
	}
	c.mu.Unlock()
	if sess == nil {
		return nil
	}

	c.stager.SetAttachments(batch)
	return nil
}

func (vr *VoiceRecorder) stop() (VoiceResult, error) {
	vr.mu.Lock()
	if vr.state == RecorderIdle {
		vr.mu.Unlock()
		return VoiceResult{}, ErrSourceStopped
	}
	vr.state = RecorderIdle
	vr.viewOnce = false
	vr.mu.Unlock()

	return vr.src.Stop()
}

// quantizeWaveform folds analyser samples into 5-bit amplitude buckets,
// the wire representation of a voice-note waveform.
func quantizeWaveform(samples []float64) []byte {
	if len(samples) == 0 {
		return nil
	}
	// Downsample to at most 63 bars.
	const bars = 63
	step := 1
	if len(samples) > bars {
		step = (len(samples) + bars - 1) / bars
	}
	var out []byte
	for i := 0; i < len(samples); i += step {
		sum, n := 0.0, 0
		for j := i; j < i+step && j < len(samples); j++ {
			sum += samples[j]
			n++
		}
		v := sum / float64(n)
		out = append(out, byte(math.Min(31, math.Round(v*31))))
	}
	return out
}

// =============================================================================
// SIMULATED SOURCE
// =============================================================================

// SimulatedVoiceSource is a clock-driven source for the TUI demo and
// tests; it fabricates a plausible waveform instead of touching hardware.
type SimulatedVoiceSource struct {
	Now func() time.Time

	mu        sync.Mutex
	recording bool
	paused    bool
	startedAt time.Time
	elapsed   time.Duration
}

func (s *SimulatedVoiceSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SimulatedVoiceSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return errors.New("already recording")
	}
	s.recording = true
	s.paused = false
	s.elapsed = 0
	s.startedAt = s.now()
	return nil
}

func (s *SimulatedVoiceSource) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || s.paused {
		return nil
	}
	s.elapsed += s.now().Sub(s.startedAt)
	s.paused = true
	return nil
}

func (s *SimulatedVoiceSource) Stop() (VoiceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return VoiceResult{}, ErrSourceStopped
	}
	s.recording = false

	dur := s.elapsed
	if !s.paused {
		dur += s.now().Sub(s.startedAt)
	}

	// One fabricated sample per 100ms, shaped as a soft sine envelope.
	n := int(dur / (100 * time.Millisecond))
	if n < 1 {
		n = 1
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 + 0.5*math.Sin(float64(i)/3)
	}

	return VoiceResult{
		BlobURL:  "sim://voice/" + uuid.NewString(),
		Duration: dur,
		Samples:  samples,
	}, nil
}

func (s *SimulatedVoiceSource) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || s.paused {
		return 0
	}
	return 0.5 + 0.5*math.Sin(float64(s.now().UnixMilli())/200)
}
