package llm

import (
	"context"
)

// MediaPart is an inline media attachment for multimodal prompts.
type MediaPart struct {
	MIME string
	Data []byte
}

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a prompt and returns the text response.
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, name, prompt string, target any) error

	// GenerateJSONWithMedia sends a prompt plus inline media parts and unmarshals
	// the response into the target struct.
	GenerateJSONWithMedia(ctx context.Context, name, prompt string, media []MediaPart, target any) error

	// TranscribeSpeech converts a recorded voice memo into plain text.
	TranscribeSpeech(ctx context.Context, audio []byte, mimeType string) (string, error)

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error

	// HasProfile checks if the provider has a specific profile configured.
	HasProfile(name string) bool
}
