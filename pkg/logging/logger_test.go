package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recallgo/pkg/config"
	"recallgo/pkg/model"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")
	requestLog := filepath.Join(tempDir, "requests.log")
	eventLog := filepath.Join(tempDir, "events.log")

	cfg := &config.LogConfig{
		Server: config.LogSettings{
			Path:  serverLog,
			Level: "DEBUG",
		},
		Requests: config.LogSettings{
			Path:  requestLog,
			Level: "INFO",
		},
		Events: config.LogSettings{
			Path: eventLog,
		},
	}

	cleanup, err := Init(cfg, nil)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(serverLog); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}
	if _, err := os.Stat(requestLog); os.IsNotExist(err) {
		t.Error("Request log file not created")
	}
	if RequestLogger == nil {
		t.Error("RequestLogger was not initialized")
	}
}

func TestLogEvent(t *testing.T) {
	tempDir := t.TempDir()
	eventLog := filepath.Join(tempDir, "events.log")
	SetEventLogPath(eventLog)
	defer SetEventLogPath("")

	LogEvent(&model.StudioEvent{
		Type:    "premiere",
		Title:   "Nights in Lisbon",
		Summary: "5 beats mastered",
	})

	data, err := os.ReadFile(eventLog)
	if err != nil {
		t.Fatalf("event log not written: %v", err)
	}
	if !strings.Contains(string(data), "[premiere] Nights in Lisbon - 5 beats mastered") {
		t.Errorf("unexpected event line: %s", data)
	}

	if !strings.Contains(GlobalEventCapture.GetLastLine(), "Nights in Lisbon") {
		t.Error("event not captured for GUI status line")
	}
}
