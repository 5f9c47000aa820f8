package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type storyData struct {
	Title         string
	PackID        string
	Arc           string
	Pace          string
	Ending        string
	Focus         []string
	MediaCount    int
	BeatCount     int
	Waypoints     string
	MediaManifest string
}

func TestRenderStory(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	data := storyData{
		Title:         "Two Weeks in Kansai",
		PackID:        "neon-noir",
		Arc:           "crescendo",
		Pace:          "balanced",
		Ending:        "soft-fade",
		Focus:         []string{"food", "places"},
		MediaCount:    6,
		BeatCount:     6,
		Waypoints:     "0. Osaka (34.69, 135.50)\n1. Kyoto (35.01, 135.77)",
		MediaManifest: "m-1: image/jpeg\nm-2: video/mp4",
	}

	out, err := m.Render("story.tmpl", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"Two Weeks in Kansai",
		"Neon Noir", // pack fragment pulled in
		"crescendo",
		"Osaka",
		"m-2: video/mp4",
		"location_name",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered story prompt missing %q", want)
		}
	}
	if !strings.Contains(out, "food") || !strings.Contains(out, "places") {
		t.Error("rendered story prompt missing focus tags")
	}
}

func TestRenderUnknownPackIsSilent(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	out, err := m.Render("story.tmpl", storyData{Title: "T", PackID: "no-such-pack", BeatCount: 4})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "\"T\"") {
		t.Error("rendered prompt missing title")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	custom := "CUSTOM ITINERARY PROMPT {{.Text}}"
	if err := os.WriteFile(filepath.Join(dir, "itinerary.tmpl"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	out, err := m.Render("itinerary.tmpl", struct{ Text string }{Text: "Rome then Venice"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "CUSTOM ITINERARY PROMPT Rome then Venice" {
		t.Errorf("override not applied, got %q", out)
	}
}

func TestFocusFunc(t *testing.T) {
	if got := focusFunc(nil); got != "" {
		t.Errorf("focusFunc(nil) = %q, want empty", got)
	}

	got := focusFunc([]string{"people", "food", "motion"})
	for _, tag := range []string{"people", "food", "motion"} {
		if !strings.Contains(got, tag) {
			t.Errorf("focusFunc() = %q missing %q", got, tag)
		}
	}
}

func TestMaybeFunc(t *testing.T) {
	if got := maybeFunc(0, "never"); got != "" {
		t.Errorf("maybe(0) = %q, want empty", got)
	}
	if got := maybeFunc(100, "always"); got != "always" {
		t.Errorf("maybe(100) = %q, want \"always\"", got)
	}
}

func TestPickFunc(t *testing.T) {
	options := "a|||b|||c"
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		got := pickFunc(options)
		if got != "a" && got != "b" && got != "c" {
			t.Fatalf("pick returned unexpected option %q", got)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("pick never varied across 100 rolls")
	}

	if got := pickFunc("single"); got != "single" {
		t.Errorf("pick(single) = %q", got)
	}
}
