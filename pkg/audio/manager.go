// Package audio provides playback of synthesized narration clips.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"recallgo/pkg/model"
)

// Service defines the interface for narration playback control.
type Service interface {
	// Play starts playback of a decoded clip, hard-stopping whatever is
	// currently sounding first. onComplete is called when playback finishes
	// naturally (not when stopped).
	Play(clip *model.AudioClip, onComplete func()) error
	// Stop stops current playback immediately.
	Stop()
	// Shutdown stops playback and releases the audio device.
	Shutdown()

	// IsPlaying returns true if a clip is currently sounding.
	IsPlaying() bool
	// IsBusy returns true if a clip is loaded.
	IsBusy() bool
	// SetMuted sets the mute flag. The flag is checked at trigger time
	// only; a clip already sounding keeps playing.
	SetMuted(muted bool)
	// Muted returns the current mute flag.
	Muted() bool
	// SetVolume sets playback volume (0.0 to 1.0).
	SetVolume(vol float64)
	// Volume returns current volume level.
	Volume() float64
	// SetTone selects the cut-pack tone coloring for subsequent clips.
	SetTone(category string)
	// Position returns the current playback position in the live clip.
	Position() time.Duration
	// Duration returns the total duration of the live clip.
	Duration() time.Duration
}

// Manager implements the Service interface using gopxl/beep.
type Manager struct {
	mu                 sync.RWMutex
	ctrl               *beep.Ctrl
	volume             float64
	muted              bool
	tone               string
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	volStreamer        *effects.Volume
	track              *clipStreamer
	trackRate          beep.SampleRate
}

// New creates a new Manager instance.
func New() *Manager {
	return &Manager{
		volume: 1.0,
	}
}

// Play starts playback of a decoded clip.
func (m *Manager) Play(clip *model.AudioClip, onComplete func()) error {
	if clip == nil || len(clip.Samples) == 0 {
		return fmt.Errorf("empty audio clip")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Hard stop: whatever is sounding ends before the new clip starts.
	m.stopLocked()

	if err := m.ensureSpeakerInitialized(); err != nil {
		return err
	}

	track := newClipStreamer(clip)
	resampled := beep.Resample(3, beep.SampleRate(clip.SampleRate), m.currentSampleRate, track)

	var finalStreamer beep.Streamer = resampled
	if band, ok := toneByCategory[m.tone]; ok {
		finalStreamer = NewToneFilter(resampled, float64(m.currentSampleRate), band.low, band.high)
		slog.Debug("Audio: tone filter applied", "category", m.tone, "low", band.low, "high", band.high)
	}

	volStreamer := &effects.Volume{
		Streamer: finalStreamer,
		Base:     2,
		Volume:   volumeToPower(m.volume),
		Silent:   m.muted || m.volume <= 0.01,
	}

	m.volStreamer = volStreamer
	m.track = track
	// Track position is counted in source samples, not device samples.
	m.trackRate = beep.SampleRate(clip.SampleRate)

	m.ctrl = &beep.Ctrl{Streamer: volStreamer}

	speaker.Play(beep.Seq(m.ctrl, beep.Callback(func() {
		// Hand off to a goroutine so the speaker thread is never blocked.
		go func() {
			m.mu.Lock()
			m.ctrl = nil
			m.track = nil
			m.volStreamer = nil
			m.mu.Unlock()

			if onComplete != nil {
				onComplete()
			}
		}()
	})))

	slog.Debug("Playing clip", "duration", clip.Duration(), "tone", m.tone)
	return nil
}

// Stop stops current playback.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.ctrl != nil {
		speaker.Clear()
		m.ctrl = nil
		m.track = nil
		m.volStreamer = nil
	}
}

func (m *Manager) ensureSpeakerInitialized() error {
	const targetSampleRate = 48000
	if !m.speakerInitialized {
		err := speaker.Init(beep.SampleRate(targetSampleRate), beep.SampleRate(targetSampleRate).N(time.Second/10))
		if err != nil {
			slog.Error("Failed to initialize speaker", "error", err)
			return err
		}
		m.speakerInitialized = true
		m.currentSampleRate = beep.SampleRate(targetSampleRate)
	}
	return nil
}

// Shutdown stops playback and releases the audio device.
func (m *Manager) Shutdown() {
	m.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.speakerInitialized {
		speaker.Close()
		m.speakerInitialized = false
	}
}

// IsPlaying returns true if a clip is currently sounding.
func (m *Manager) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// IsBusy returns true if a clip is loaded.
func (m *Manager) IsBusy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctrl != nil
}

// SetMuted sets the mute flag. Mute is evaluated at trigger time only;
// the live clip, if any, keeps sounding.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted returns the current mute flag.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// SetVolume sets playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if vol < 0 {
		vol = 0
	} else if vol > 1 {
		vol = 1
	}
	m.volume = vol

	// Update live streamer if playing
	if m.volStreamer != nil {
		speaker.Lock()
		m.volStreamer.Volume = volumeToPower(vol)
		m.volStreamer.Silent = m.muted || vol <= 0.01
		speaker.Unlock()
	}
}

// Volume returns current volume level.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetTone selects the cut-pack tone coloring for subsequent clips.
// The live clip is not re-filtered.
func (m *Manager) SetTone(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tone = category
}

// Position returns the current playback position in the live clip.
func (m *Manager) Position() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.track == nil || m.trackRate == 0 {
		return 0
	}
	return m.trackRate.D(m.track.Position())
}

// Duration returns the total duration of the live clip.
func (m *Manager) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.track == nil || m.trackRate == 0 {
		return 0
	}
	return m.trackRate.D(m.track.Len())
}

func volumeToPower(vol float64) float64 {
	// Beep's effects.Volume adds to the exponent (Base 2), so unity gain is 0
	// and each -1 halves the power. Near-zero input is handled by Silent.
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}
