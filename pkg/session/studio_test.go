package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"recallgo/pkg/itinerary"
	"recallgo/pkg/library"
	"recallgo/pkg/model"
	"recallgo/pkg/premiere"
)

// mockAssembler produces a canned story, optionally blocking until
// released so busy semantics can be observed.
type mockAssembler struct {
	story   *model.RecallStory
	err     error
	release chan struct{} // nil means return immediately
	calls   int
}

func (m *mockAssembler) Assemble(ctx context.Context, cfg model.StudioConfig, media []model.MediaItem, itin []model.LocationPoint, progress premiere.ProgressFunc) (*model.RecallStory, error) {
	m.calls++
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if progress != nil {
		progress("Mastering beat 1/4")
	}
	return m.story, nil
}

type mockAudio struct {
	tone     string
	muted    bool
	shutdown bool
}

func (m *mockAudio) Play(clip *model.AudioClip, onComplete func()) error { return nil }
func (m *mockAudio) Stop()                                               {}
func (m *mockAudio) Shutdown()                                           { m.shutdown = true }
func (m *mockAudio) IsPlaying() bool                                     { return false }
func (m *mockAudio) IsBusy() bool                                        { return false }
func (m *mockAudio) SetMuted(muted bool)                                 { m.muted = muted }
func (m *mockAudio) Muted() bool                                         { return m.muted }
func (m *mockAudio) SetVolume(vol float64)                               {}
func (m *mockAudio) Volume() float64                                     { return 1.0 }
func (m *mockAudio) SetTone(category string)                             { m.tone = category }
func (m *mockAudio) Position() time.Duration                             { return 0 }
func (m *mockAudio) Duration() time.Duration                             { return 0 }

func storyOf(beats int) *model.RecallStory {
	s := &model.RecallStory{Title: "Assembled Trip"}
	for i := 0; i < beats; i++ {
		s.Beats = append(s.Beats, model.StoryBeat{
			Index: i,
			Text:  "narration",
			Audio: &model.AudioClip{Samples: make([]float64, 100), SampleRate: 24000},
		})
	}
	return s
}

func testConfig() model.StudioConfig {
	return model.StudioConfig{
		Title:  "Two Weeks in Italy",
		Pack:   "golden-hour",
		Arc:    model.ArcChronicle,
		Pace:   model.PaceBalanced,
		Focus:  []model.FocusTag{model.FocusPlaces},
		Ending: model.EndingSoftFade,
	}
}

func newStudio(asm Assembler, svc *mockAudio) *Studio {
	return NewStudio(library.New(), itinerary.New(nil, nil, 0), asm, svc)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestStartPremiere(t *testing.T) {
	asm := &mockAssembler{story: storyOf(4)}
	s := newStudio(asm, &mockAudio{})

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	waitFor(t, func() bool { return s.Story() != nil })

	st := s.Status()
	if st.Assembling || !st.HasStory || st.StoryTitle != "Assembled Trip" || st.BeatCount != 4 {
		t.Errorf("Status() = %+v", st)
	}

	// Progress and completion notices arrive in order
	var kinds []string
	for len(kinds) < 2 {
		select {
		case n := <-ch:
			kinds = append(kinds, n.Kind)
		case <-time.After(2 * time.Second):
			t.Fatalf("notices = %v", kinds)
		}
	}
	if kinds[0] != "progress" || kinds[1] != "premiere" {
		t.Errorf("notice kinds = %v", kinds)
	}
}

func TestStartPremiere_Busy(t *testing.T) {
	asm := &mockAssembler{story: storyOf(4), release: make(chan struct{})}
	s := newStudio(asm, &mockAudio{})

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	if err := s.StartPremiere(testConfig()); !errors.Is(err, ErrBusy) {
		t.Errorf("second StartPremiere() error = %v, want ErrBusy", err)
	}

	close(asm.release)
	waitFor(t, func() bool { return !s.Status().Assembling })

	// A third run is allowed once the first finished
	asm.release = nil
	if err := s.StartPremiere(testConfig()); err != nil {
		t.Errorf("StartPremiere() after completion error = %v", err)
	}
}

func TestStartPremiere_InvalidConfig(t *testing.T) {
	asm := &mockAssembler{story: storyOf(4)}
	s := newStudio(asm, &mockAudio{})

	cfg := testConfig()
	cfg.Title = ""
	if err := s.StartPremiere(cfg); err == nil {
		t.Fatal("expected validation error")
	}
	if asm.calls != 0 {
		t.Error("assembler must not run for invalid config")
	}
}

func TestStartPremiere_FailureKeepsNoStory(t *testing.T) {
	asm := &mockAssembler{err: errors.New("synthesis failed")}
	s := newStudio(asm, &mockAudio{})

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	waitFor(t, func() bool { return s.Status().Error != "" })

	st := s.Status()
	if st.HasStory || st.Assembling {
		t.Errorf("Status() = %+v", st)
	}
	if s.Story() != nil {
		t.Error("failed assembly must not leave a story")
	}
}

func TestStartPlayer(t *testing.T) {
	audio := &mockAudio{}
	asm := &mockAssembler{story: storyOf(4)}
	s := newStudio(asm, audio)

	if err := s.StartPlayer(); !errors.Is(err, ErrNoStory) {
		t.Errorf("StartPlayer() without story error = %v, want ErrNoStory", err)
	}

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	waitFor(t, func() bool { return s.Story() != nil })

	if err := s.StartPlayer(); err != nil {
		t.Fatalf("StartPlayer() error = %v", err)
	}
	if audio.tone != "warm" {
		t.Errorf("tone = %q, want the golden-hour category", audio.tone)
	}
	if err := s.StartPlayer(); !errors.Is(err, ErrPlayerActive) {
		t.Errorf("second StartPlayer() error = %v, want ErrPlayerActive", err)
	}

	s.ExitPlayer()
	waitFor(t, func() bool { return s.Player() == nil })
	if !s.Status().HasStory {
		t.Error("exiting the player must not discard the story")
	}
}

func TestNewPremiereTearsDownPlayer(t *testing.T) {
	audio := &mockAudio{}
	asm := &mockAssembler{story: storyOf(4)}
	s := newStudio(asm, audio)

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	waitFor(t, func() bool { return s.Story() != nil })
	if err := s.StartPlayer(); err != nil {
		t.Fatalf("StartPlayer() error = %v", err)
	}

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("second StartPremiere() error = %v", err)
	}
	waitFor(t, func() bool { return !s.Status().Assembling })
	if s.Player() != nil {
		t.Error("new premiere must tear down the active player")
	}
}

func TestEvents(t *testing.T) {
	s := newStudio(&mockAssembler{story: storyOf(4)}, &mockAudio{})

	s.AddEvent("import", "beach.jpg", "uploaded")
	s.AddEvent("itinerary", "Rome", "added waypoint")

	events := s.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != "import" || events[1].Title != "Rome" {
		t.Errorf("events = %+v", events)
	}
	if events[0].Timestamp.IsZero() {
		t.Error("events must be timestamped")
	}

	// Returned slice is a copy
	events[0].Title = "mutated"
	if s.Events()[0].Title == "mutated" {
		t.Error("Events() must return a copy")
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s := newStudio(&mockAssembler{story: storyOf(4)}, &mockAudio{})

	ch, unsubscribe := s.Subscribe()
	s.notify(Notice{Kind: "progress", Message: "one"})
	if n := <-ch; n.Message != "one" {
		t.Errorf("notice = %+v", n)
	}

	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("channel must be closed after unsubscribe")
	}
	unsubscribe() // idempotent

	// Notifying with no subscribers must not panic or block
	s.notify(Notice{Kind: "progress", Message: "two"})
}

func TestClose_CancelsAssembly(t *testing.T) {
	asm := &mockAssembler{story: storyOf(4), release: make(chan struct{})}
	s := newStudio(asm, &mockAudio{})

	if err := s.StartPremiere(testConfig()); err != nil {
		t.Fatalf("StartPremiere() error = %v", err)
	}
	s.Close()
	waitFor(t, func() bool { return !s.Status().Assembling })

	if s.Status().Error == "" {
		t.Error("cancelled assembly must surface its error")
	}
}
