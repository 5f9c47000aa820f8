package model

import (
	"testing"
	"time"
)

func TestAudioClipDuration(t *testing.T) {
	c := &AudioClip{Samples: make([]float64, 24000), SampleRate: 24000}
	if c.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", c.Duration())
	}

	var nilClip *AudioClip
	if nilClip.Duration() != 0 {
		t.Error("nil clip should have zero duration")
	}
}

func TestCutPackByID(t *testing.T) {
	if p := CutPackByID("neon-noir"); p.Category != "noir" {
		t.Errorf("expected noir category, got %q", p.Category)
	}
	// Unknown IDs fall back to the first pack
	if p := CutPackByID("does-not-exist"); p.ID != CutPacks[0].ID {
		t.Errorf("expected fallback to %q, got %q", CutPacks[0].ID, p.ID)
	}
}

func TestStudioConfigValidate(t *testing.T) {
	valid := StudioConfig{
		Title:  "Nights in Lisbon",
		Pack:   "neon-noir",
		Arc:    ArcChronicle,
		Pace:   PaceBalanced,
		Focus:  []FocusTag{FocusFood, FocusPlaces},
		Ending: EndingSoftFade,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	noTitle := valid
	noTitle.Title = ""
	if err := noTitle.Validate(); err == nil {
		t.Error("empty title accepted")
	}

	noFocus := valid
	noFocus.Focus = nil
	if err := noFocus.Validate(); err == nil {
		t.Error("empty focus accepted")
	}

	badPace := valid
	badPace.Pace = "frantic"
	if err := badPace.Validate(); err == nil {
		t.Error("unknown pace accepted")
	}
}
