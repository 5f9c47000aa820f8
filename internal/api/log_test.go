package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-12T06:50:46.074+01:00 level=INFO msg="Session: premiere ready" beats="4 " title=Italy pack=neon-noir longparam=thisiswaytooLongtobedisplayed`
	expected := "06:50:46 Session: premiere ready (beats=4, pack=neon-noir, title=Italy)"

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}
