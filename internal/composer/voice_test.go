// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"testing"
	"time"

	"github.com/jeranaias/courier-tui/internal/model"
)

func TestVoiceStopAndStage(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.c.Recorder().State() != RecorderRecording {
		t.Fatal("should be recording")
	}
	f.clock.Advance(5 * time.Second)

	att, err := f.c.Recorder().StopAndStage()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if att.Filename != VoiceFilename {
		t.Errorf("filename = %q", att.Filename)
	}
	if att.Kind() != model.MediaVoice {
		t.Errorf("kind = %q, want voice", att.Kind())
	}
	if att.Voice.Duration != 5 {
		t.Errorf("duration = %d, want 5", att.Voice.Duration)
	}
	if len(att.Voice.Waveform) == 0 {
		t.Error("waveform expected")
	}
	for _, b := range att.Voice.Waveform {
		if b > 31 {
			t.Fatalf("waveform sample %d exceeds 5 bits", b)
		}
	}
}

func TestVoiceMinimumDurationFloor(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// An accidental tap: 200ms against a 1s floor.
	f.clock.Advance(200 * time.Millisecond)

	att, err := f.c.Recorder().StopAndStage()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if att.Voice.Duration != 1 {
		t.Errorf("duration = %d, floor must apply", att.Voice.Duration)
	}
}

func TestVoiceSendStagesRecording(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := actionCount(f.disp, "recordAudio"); got != 1 {
		t.Errorf("record actions = %d, want 1", got)
	}
	f.clock.Advance(3 * time.Second)

	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
	}
	req := f.disp.Sent[0]
	if len(req.Attachments) != 1 || req.Attachments[0].Voice == nil {
		t.Fatal("voice note must ride as an attachment")
	}
	if f.c.Recorder().IsActive() {
		t.Error("recorder must be idle after send")
	}
}

func TestStageVoiceNoteAddsToSession(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(3 * time.Second)

	if err := f.c.StageVoiceNote(); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if f.c.Recorder().IsActive() {
		t.Error("recorder must be idle after staging")
	}

	sess := f.c.Session()
	if len(sess.Attachments) != 1 {
		t.Fatalf("staged = %d, want 1", len(sess.Attachments))
	}
	if sess.Attachments[0].Filename != VoiceFilename || sess.Attachments[0].Voice == nil {
		t.Fatalf("staged attachment = %+v, want a voice note", sess.Attachments[0])
	}

	f.c.Send(SendOptions{})
	if len(f.disp.Sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
	}
	if len(f.disp.Sent[0].Attachments) != 1 || f.disp.Sent[0].Attachments[0].Voice == nil {
		t.Fatal("staged voice note must ride the send")
	}
}

func TestStageVoiceNoteIdleNoop(t *testing.T) {
	f := newFixture(t)

	if err := f.c.StageVoiceNote(); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if got := len(f.c.Session().Attachments); got != 0 {
		t.Errorf("staged = %d, want 0", got)
	}
}

func TestVoiceViewOnceSetsTTL(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.c.Recorder().SetViewOnce(true)
	f.clock.Advance(3 * time.Second)

	f.c.Send(SendOptions{})

	if len(f.disp.Sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(f.disp.Sent))
	}
	att := f.disp.Sent[0].Attachments[0]
	if att.TTLSeconds != model.OneTimeMediaTTLSeconds {
		t.Errorf("ttl = %d, want one-time sentinel", att.TTLSeconds)
	}

	// The toggle is per recording and resets with it.
	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	f.clock.Advance(2 * time.Second)
	att, err := f.c.Recorder().StopAndStage()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if att.TTLSeconds != 0 {
		t.Errorf("ttl after fresh recording = %d, want 0", att.TTLSeconds)
	}
}

func TestVoiceCancelDiscards(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.c.Recorder().Cancel()

	if f.c.Recorder().IsActive() {
		t.Error("cancel must return to idle")
	}
	f.c.Send(SendOptions{})
	if len(f.disp.Sent) != 0 {
		t.Error("cancelled recording must not send")
	}
}

func TestVoiceCancelToleratesStoppedSource(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// The resource finalizes behind the recorder's back.
	if _, err := f.voice.Stop(); err != nil {
		t.Fatalf("external stop: %v", err)
	}

	f.c.Recorder().Cancel() // must not panic or surface an error
	if f.c.Recorder().IsActive() {
		t.Error("recorder must settle idle")
	}
}

func TestVoicePauseForScheduleFlow(t *testing.T) {
	f := newFixture(t)

	if err := f.c.Recorder().Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.clock.Advance(2 * time.Second)
	if err := f.c.Recorder().Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// Time passing while paused must not extend the clip.
	f.clock.Advance(30 * time.Second)

	att, err := f.c.Recorder().StopAndStage()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if att.Voice.Duration != 2 {
		t.Errorf("duration = %d, want 2", att.Voice.Duration)
	}
}

func TestQuantizeWaveform(t *testing.T) {
	samples := make([]float64, 200)
	for i := range samples {
		samples[i] = 1.0
	}
	wave := quantizeWaveform(samples)

	if len(wave) == 0 || len(wave) > 63 {
		t.Fatalf("bars = %d, want 1..63", len(wave))
	}
	for _, b := range wave {
		if b != 31 {
			t.Errorf("full-scale sample quantized to %d, want 31", b)
		}
	}
	if quantizeWaveform(nil) != nil {
		t.Error("no samples, no waveform")
	}
}
