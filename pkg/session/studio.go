// Package session coordinates the transient studio working set: the media
// library, the itinerary, premiere assembly and the player lifecycle.
// Nothing here survives a restart; the event log is the only durable trace.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"recallgo/pkg/audio"
	"recallgo/pkg/itinerary"
	"recallgo/pkg/library"
	"recallgo/pkg/logging"
	"recallgo/pkg/model"
	"recallgo/pkg/player"
	"recallgo/pkg/premiere"
)

var (
	// ErrBusy means an assembly is already running.
	ErrBusy = errors.New("session: premiere assembly in progress")
	// ErrNoStory means playback was requested before a premiere exists.
	ErrNoStory = errors.New("session: no story has been assembled")
	// ErrPlayerActive means a player session is already running.
	ErrPlayerActive = errors.New("session: player already active")
)

// Assembler is the premiere pipeline the studio drives.
type Assembler interface {
	Assemble(ctx context.Context, cfg model.StudioConfig, media []model.MediaItem, itinerary []model.LocationPoint, progress premiere.ProgressFunc) (*model.RecallStory, error)
}

// Notice is pushed to subscribers on every observable state change.
type Notice struct {
	Kind    string `json:"kind"` // "progress", "premiere", "player"
	Message string `json:"message,omitempty"`
}

// Status is the studio snapshot served to the SPA.
type Status struct {
	Assembling   bool   `json:"assembling"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	HasStory     bool   `json:"has_story"`
	StoryTitle   string `json:"story_title,omitempty"`
	BeatCount    int    `json:"beat_count"`
	PlayerActive bool   `json:"player_active"`
	MediaCount   int    `json:"media_count"`
	Waypoints    int    `json:"waypoints"`
}

// Studio owns one user's working set and the assembly/playback lifecycle.
type Studio struct {
	library   *library.Library
	itinerary *itinerary.Manager
	assembler Assembler
	audio     audio.Service

	mu         sync.RWMutex
	assembling bool
	message    string
	lastErr    error
	story      *model.RecallStory
	storyCfg   model.StudioConfig
	player     *player.Session
	events     []model.StudioEvent

	subMu  sync.Mutex
	subs   map[int]chan Notice
	nextID int

	cancel context.CancelFunc
}

// NewStudio wires the studio around its collaborators.
func NewStudio(lib *library.Library, itin *itinerary.Manager, asm Assembler, svc audio.Service) *Studio {
	return &Studio{
		library:   lib,
		itinerary: itin,
		assembler: asm,
		audio:     svc,
		subs:      make(map[int]chan Notice),
	}
}

// Library returns the media working set.
func (s *Studio) Library() *library.Library { return s.library }

// Itinerary returns the route manager.
func (s *Studio) Itinerary() *itinerary.Manager { return s.itinerary }

// StartPremiere kicks off an asynchronous assembly of the current working
// set. Returns ErrBusy while a previous assembly is still running. A new
// premiere replaces the previous story and tears down an active player.
func (s *Studio) StartPremiere(cfg model.StudioConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.assembling {
		s.mu.Unlock()
		return ErrBusy
	}
	active := s.player
	s.assembling = true
	s.message = "Queued"
	s.lastErr = nil
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	// The exit hook re-enters the studio lock, so the old player is torn
	// down outside of it.
	if active != nil {
		active.Exit()
	}

	media := s.library.List()
	points := s.itinerary.List()

	s.AddEvent("premiere", cfg.Title, "assembly started")

	go func() {
		defer cancel()
		story, err := s.assembler.Assemble(ctx, cfg, media, points, func(msg string) {
			s.mu.Lock()
			s.message = msg
			s.mu.Unlock()
			s.notify(Notice{Kind: "progress", Message: msg})
		})

		s.mu.Lock()
		s.assembling = false
		s.cancel = nil
		if err != nil {
			s.lastErr = err
			s.message = ""
			s.mu.Unlock()
			slog.Error("Session: premiere assembly failed", "title", cfg.Title, "error", err)
			s.AddEvent("premiere", cfg.Title, "assembly failed: "+err.Error())
			s.notify(Notice{Kind: "premiere", Message: "failed"})
			return
		}
		s.story = story
		s.storyCfg = cfg
		s.message = "Premiere ready"
		s.mu.Unlock()

		slog.Info("Session: premiere ready", "title", story.Title, "beats", len(story.Beats))
		s.AddEvent("premiere", story.Title, "assembly complete")
		s.notify(Notice{Kind: "premiere", Message: "ready"})
	}()

	return nil
}

// Story returns the current premiere, or nil if none has been assembled.
func (s *Studio) Story() *model.RecallStory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.story
}

// StartPlayer begins playback of the assembled premiere.
func (s *Studio) StartPlayer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assembling {
		return ErrBusy
	}
	if s.story == nil {
		return ErrNoStory
	}
	if s.player != nil {
		return ErrPlayerActive
	}

	pack := model.CutPackByID(s.storyCfg.Pack)
	s.audio.SetTone(pack.Category)

	p, err := s.NewPlayerSession(s.story)
	if err != nil {
		return err
	}
	if err := p.Start(); err != nil {
		return err
	}
	s.player = p
	title := s.story.Title

	s.notify(Notice{Kind: "player", Message: "started"})

	event := model.StudioEvent{Type: "playback", Title: title, Summary: "playback started", Timestamp: time.Now()}
	s.events = append(s.events, event)
	logging.LogEvent(&event)
	return nil
}

// NewPlayerSession builds a player for the story with the studio's exit
// hook attached.
func (s *Studio) NewPlayerSession(story *model.RecallStory) (*player.Session, error) {
	return player.NewSession(story, s.audio, func() {
		s.mu.Lock()
		s.player = nil
		s.mu.Unlock()
		s.notify(Notice{Kind: "player", Message: "exited"})
	})
}

// Player returns the active player session, or nil.
func (s *Studio) Player() *player.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player
}

// ExitPlayer terminates an active player session. Safe to call when none
// is running.
func (s *Studio) ExitPlayer() {
	s.mu.RLock()
	p := s.player
	s.mu.RUnlock()
	if p != nil {
		p.Exit()
	}
}

// Status returns the studio snapshot.
func (s *Studio) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Assembling:   s.assembling,
		Message:      s.message,
		HasStory:     s.story != nil,
		PlayerActive: s.player != nil,
		MediaCount:   s.library.Count(),
		Waypoints:    s.itinerary.Len(),
	}
	if s.lastErr != nil {
		st.Error = s.lastErr.Error()
	}
	if s.story != nil {
		st.StoryTitle = s.story.Title
		st.BeatCount = len(s.story.Beats)
	}
	return st
}

// AddEvent appends a studio event to the in-memory history and the
// durable event log.
func (s *Studio) AddEvent(eventType, title, summary string) {
	event := model.StudioEvent{
		Type:      eventType,
		Title:     title,
		Summary:   summary,
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	logging.LogEvent(&event)
}

// Events returns a copy of the session event history.
func (s *Studio) Events() []model.StudioEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StudioEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Subscribe registers a notice channel for websocket pushes. The returned
// function unsubscribes; the channel is buffered and never blocks the
// studio, dropping notices a slow reader misses.
func (s *Studio) Subscribe() (<-chan Notice, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Notice, 16)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *Studio) notify(n Notice) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Close cancels any running assembly and tears down the player.
func (s *Studio) Close() {
	s.mu.Lock()
	cancel := s.cancel
	p := s.player
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if p != nil {
		p.Exit()
	}
}
