// Package player hosts the scroll-driven playback state machine for a
// generated story. The SPA reports raw scroll telemetry; the player maps
// it to beat activations and keeps at most one clip sounding.
package player

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"recallgo/pkg/audio"
	"recallgo/pkg/model"
)

// Status is a point-in-time snapshot of the player state.
type Status struct {
	ActiveBeat     int     `json:"active_beat"`
	ScrollProgress float64 `json:"scroll_progress"`
	Muted          bool    `json:"muted"`
	Finale         bool    `json:"finale"`
	Exited         bool    `json:"exited"`
}

// Session drives one story playback from start to exit. Terminal after
// Exit; a new playback needs a new Session.
type Session struct {
	mu      sync.Mutex
	story   *model.RecallStory
	audio   audio.Service
	active  int
	scroll  float64
	finale  bool
	started bool
	exited  bool
	onExit  func()
}

// NewSession prepares playback of a story. onExit is called once when the
// session terminates; it may be nil.
func NewSession(story *model.RecallStory, svc audio.Service, onExit func()) (*Session, error) {
	if story == nil || len(story.Beats) == 0 {
		return nil, fmt.Errorf("player: story has no beats")
	}
	if svc == nil {
		return nil, fmt.Errorf("player: no audio service")
	}
	return &Session{story: story, audio: svc, onExit: onExit}, nil
}

// Start activates beat 0 and plays its narration. Muting gates the audio
// start but not the activation.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exited {
		return fmt.Errorf("player: session already exited")
	}
	if s.started {
		return fmt.Errorf("player: session already started")
	}
	s.started = true
	s.active = 0
	s.playActiveLocked()
	slog.Info("Player: started", "title", s.story.Title, "beats", len(s.story.Beats))
	return nil
}

// HandleScroll folds one scroll telemetry frame into the state machine.
// Beat transitions hard-stop the sounding clip before the next one starts.
// Scrolling past the last beat enters the finale: progress keeps updating
// but the active beat and audio stay untouched.
func (s *Session) HandleScroll(scrollTop, scrollHeight, clientHeight, viewportHeight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.exited {
		return
	}

	s.scroll = scrollProgress(scrollTop, scrollHeight, clientHeight)

	if viewportHeight <= 0 {
		return
	}
	candidate := int(math.Round(scrollTop / viewportHeight))
	s.finale = candidate >= len(s.story.Beats)
	if candidate == s.active || candidate < 0 || candidate >= len(s.story.Beats) {
		return
	}

	s.active = candidate
	s.audio.Stop()
	s.playActiveLocked()
}

// playActiveLocked starts the active beat's clip. Mute and a missing clip
// are checked here, at trigger time only.
func (s *Session) playActiveLocked() {
	clip := s.story.Beats[s.active].Audio
	if clip == nil || s.audio.Muted() {
		return
	}
	if err := s.audio.Play(clip, nil); err != nil {
		slog.Warn("Player: could not start beat audio", "beat", s.active, "error", err)
	}
}

// SetMuted toggles the mute flag. Running audio is unaffected; the flag
// gates the next activation.
func (s *Session) SetMuted(muted bool) {
	s.audio.SetMuted(muted)
}

// Muted returns the current mute flag.
func (s *Session) Muted() bool {
	return s.audio.Muted()
}

// Exit stops playback and releases the audio device. The session is
// terminal afterwards; further frames are ignored.
func (s *Session) Exit() {
	s.mu.Lock()
	if s.exited {
		s.mu.Unlock()
		return
	}
	s.exited = true
	onExit := s.onExit
	s.mu.Unlock()

	s.audio.Stop()
	s.audio.Shutdown()
	slog.Info("Player: exited", "title", s.story.Title)
	if onExit != nil {
		onExit()
	}
}

// Status returns a snapshot for the status endpoint and websocket pushes.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ActiveBeat:     s.active,
		ScrollProgress: s.scroll,
		Muted:          s.audio.Muted(),
		Finale:         s.finale,
		Exited:         s.exited,
	}
}

// Story returns the story under playback.
func (s *Session) Story() *model.RecallStory {
	return s.story
}

// scrollProgress maps raw scroll geometry to [0,1]. A page that cannot
// scroll reports 0.
func scrollProgress(scrollTop, scrollHeight, clientHeight float64) float64 {
	span := scrollHeight - clientHeight
	if span <= 0 {
		return 0
	}
	p := scrollTop / span
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
