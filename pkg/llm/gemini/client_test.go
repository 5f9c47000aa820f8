package gemini

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recallgo/pkg/config"
)

func TestHealthCheck_NoKey(t *testing.T) {
	c := NewClient(config.LLMConfig{Model: "gemini-2.5-flash-lite"}, nil, "", nil)

	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() expected error without API key")
	}
}

func TestHasProfile(t *testing.T) {
	c := NewClient(config.LLMConfig{
		Model: "gemini-2.5-flash-lite",
		Profiles: map[string]string{
			"story": "gemini-2.5-flash",
			"empty": "",
		},
	}, nil, "", nil)

	if !c.HasProfile("story") {
		t.Error("HasProfile(story) = false, want true")
	}
	if c.HasProfile("empty") {
		t.Error("HasProfile(empty) = true, want false")
	}
	if c.HasProfile("unknown") {
		t.Error("HasProfile(unknown) = true, want false")
	}
}

func TestResolveModel(t *testing.T) {
	c := &Client{
		modelName: "gemini-2.5-flash-lite",
		profiles: map[string]string{
			"story": "gemini-2.5-flash",
		},
	}

	tests := []struct {
		intent string
		want   string
	}{
		{"story", "gemini-2.5-flash"},
		{"itinerary", "gemini-2.5-flash-lite"}, // Falls back to default
		{"", "gemini-2.5-flash-lite"},
	}

	for _, tt := range tests {
		got, cfg := c.resolveModel(tt.intent)
		if got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.intent, got, tt.want)
		}
		if cfg == nil {
			t.Errorf("resolveModel(%q) returned nil config", tt.intent)
		}
	}
}

func TestResolveModel_StoryTemperature(t *testing.T) {
	c := &Client{modelName: "gemini-2.5-flash"}
	c.SetTemperature(1.0, 0.2)

	_, cfg := c.resolveModel("story")
	if cfg.Temperature == nil {
		t.Fatal("expected temperature to be set for story intent")
	}
	if *cfg.Temperature < 0.8 || *cfg.Temperature > 1.2 {
		t.Errorf("temperature %v outside [0.8, 1.2]", *cfg.Temperature)
	}

	// Other intents stay at model default
	_, cfg = c.resolveModel("itinerary")
	if cfg.Temperature != nil {
		t.Error("expected no temperature override for itinerary intent")
	}
}

func TestSampleTemperature(t *testing.T) {
	// Zero jitter returns base unchanged
	if got := sampleTemperature(0.7, 0); got != 0.7 {
		t.Errorf("sampleTemperature(0.7, 0) = %v, want 0.7", got)
	}

	// Samples stay inside the clamp window and above the floor
	for i := 0; i < 1000; i++ {
		got := sampleTemperature(0.5, 0.3)
		if got < 0.2 || got > 0.8 {
			t.Fatalf("sampleTemperature(0.5, 0.3) = %v outside [0.2, 0.8]", got)
		}
	}
	for i := 0; i < 1000; i++ {
		if got := sampleTemperature(0.1, 0.5); got < 0.1 {
			t.Fatalf("sampleTemperature(0.1, 0.5) = %v below floor", got)
		}
	}
}

func TestLogPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm", "gemini.log")
	c := &Client{logPath: path}

	c.logPrompt("story", "PROMPT BODY", "RESPONSE BODY")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "PROMPT: story") {
		t.Error("log missing intent name")
	}
	if !strings.Contains(content, "PROMPT BODY") || !strings.Contains(content, "RESPONSE BODY") {
		t.Error("log missing prompt or response body")
	}
}

func TestLogPrompt_Disabled(t *testing.T) {
	c := &Client{logPath: ""}
	// Must not panic or create files
	c.logPrompt("story", "prompt", "response")
}
