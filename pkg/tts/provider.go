package tts

import (
	"context"

	"recallgo/pkg/model"
)

const (
	// MinAudioSize is the minimum size of a synthesized audio payload (1KB).
	// Payloads smaller than this are likely failed synthesis attempts.
	MinAudioSize = 1024
)

// Provider defines the interface for Text-To-Speech engines.
type Provider interface {
	// Synthesize generates speech from text and decodes it into a playable
	// mono clip. voiceID selects the narration voice.
	Synthesize(ctx context.Context, text, voiceID string) (*model.AudioClip, error)

	// Voices returns the list of available narration voices.
	Voices(ctx context.Context) ([]Voice, error)
}

// Voice represents an available TTS voice.
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Style  string `json:"style"`
}

// FatalError represents a TTS error that cannot be retried with the same
// request. Examples: rate limits (429), server errors (5xx), auth failures
// (401/403).
type FatalError struct {
	StatusCode int
	Message    string
}

func (e *FatalError) Error() string {
	return e.Message
}

// NewFatalError creates a new FatalError with the given status code and message.
func NewFatalError(statusCode int, message string) *FatalError {
	return &FatalError{StatusCode: statusCode, Message: message}
}

// IsFatalError checks if an error is a TTS fatal error.
func IsFatalError(err error) bool {
	_, ok := err.(*FatalError)
	return ok
}
