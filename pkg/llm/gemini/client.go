package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/genai"

	"recallgo/pkg/config"
	"recallgo/pkg/llm"
	"recallgo/pkg/tracker"
)

// Client implements llm.Provider for Google Gemini.
type Client struct {
	genaiClient *genai.Client
	apiKey      string
	modelName   string
	profiles    map[string]string // Map intent -> modelName
	tracker     *tracker.Tracker
	logPath     string

	// Temperature settings for story generation (base + jitter with bell curve)
	temperatureBase   float32
	temperatureJitter float32

	mu sync.RWMutex
}

// NewClient wraps the shared genai client for text and structured
// generation. The client is constructed once at startup and injected;
// a nil client leaves the provider unconfigured.
func NewClient(cfg config.LLMConfig, client *genai.Client, logPath string, t *tracker.Tracker) *Client {
	c := &Client{tracker: t, logPath: logPath, genaiClient: client}
	c.Configure(cfg)
	return c
}

// Configure updates the client with new settings.
func (c *Client) Configure(cfg config.LLMConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apiKey = cfg.Key
	c.modelName = cfg.Model
	c.profiles = cfg.Profiles

	if c.modelName == "" {
		c.modelName = "gemini-2.5-flash-lite"
	}

	if c.genaiClient == nil {
		return
	}

	// Validate model availability
	if err := c.validateModel(context.Background()); err != nil {
		slog.Warn("Gemini model validation failed (proceeding anyway)", "error", err)
		// We do NOT return error here, to allow startup even if API is flaky/rate-limited.
		// If the key/model is truly invalid, actual generation calls will fail later.
	}
}

// Close cleans up resources.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.genaiClient = nil
}

// SetTemperature configures temperature settings for story prompts.
// Uses base + jitter with bell curve (normal distribution).
func (c *Client) SetTemperature(base, jitter float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.temperatureBase = base
	c.temperatureJitter = jitter
}

// HealthCheck verifies that the provider is configured and reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.apiKey == "" {
		return fmt.Errorf("gemini API key not configured")
	}
	if c.genaiClient == nil {
		return fmt.Errorf("gemini client not initialized")
	}
	return nil
}

// HasProfile checks if the provider has a specific profile configured.
func (c *Client) HasProfile(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	model, ok := c.profiles[name]
	return ok && model != ""
}

// GenerateText sends a prompt and returns the text response.
func (c *Client) GenerateText(ctx context.Context, name, prompt string) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	modelName, config := c.resolveModel(name)

	resp, err := client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), config)
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("ERROR: %v", err))
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return "", fmt.Errorf("generate text error: %w", err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("TEXT_PARSE_ERROR: %v", err))
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return "", err
	}

	c.logPrompt(name, prompt, text)
	if c.tracker != nil {
		c.tracker.TrackAPISuccess("gemini")
	}
	return text, nil
}

// GenerateJSON sends a prompt and unmarshals the response into the target struct.
func (c *Client) GenerateJSON(ctx context.Context, name, prompt string, target any) error {
	return c.GenerateJSONWithMedia(ctx, name, prompt, nil, target)
}

// GenerateJSONWithMedia sends a prompt plus inline media parts and unmarshals
// the response into the target struct.
func (c *Client) GenerateJSONWithMedia(ctx context.Context, name, prompt string, media []llm.MediaPart, target any) error {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("gemini client not configured")
	}

	modelName, config := c.resolveModel(name)
	config.ResponseMIMEType = "application/json"

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, m := range media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIME))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("ERROR: %v", err))
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return fmt.Errorf("generate json error: %w", err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		c.logPrompt(name, prompt, fmt.Sprintf("TEXT_PARSE_ERROR: %v", err))
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return err
	}

	// Sanitize Markdown JSON blocks if present
	cleaned := llm.CleanJSONBlock(text)
	c.logPrompt(name, prompt, cleaned)

	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return fmt.Errorf("failed to unmarshal JSON response: %w. Response: %s", err, cleaned)
	}

	if c.tracker != nil {
		c.tracker.TrackAPISuccess("gemini")
	}
	return nil
}

// TranscribeSpeech converts a recorded voice memo into plain text.
func (c *Client) TranscribeSpeech(ctx context.Context, audio []byte, mimeType string) (string, error) {
	c.mu.RLock()
	client := c.genaiClient
	c.mu.RUnlock()

	if client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	modelName, config := c.resolveModel("transcribe")

	const instruction = "Transcribe this voice memo verbatim. Return only the spoken text, no commentary."
	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromBytes(audio, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		c.logPrompt("transcribe", instruction, fmt.Sprintf("ERROR: %v", err))
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return "", fmt.Errorf("transcribe error: %w", err)
	}

	text, err := getResponseText(resp)
	if err != nil {
		if c.tracker != nil {
			c.tracker.TrackAPIFailure("gemini")
		}
		return "", err
	}

	c.logPrompt("transcribe", instruction, text)
	if c.tracker != nil {
		c.tracker.TrackAPISuccess("gemini")
	}
	return strings.TrimSpace(text), nil
}

func (c *Client) logPrompt(name, prompt, response string) {
	if c.logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return
	}

	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	wrappedResponse := llm.WordWrap(response, 80)
	truncatedPrompt := llm.TruncateLines(prompt, 200)
	entry := fmt.Sprintf("[%s] PROMPT: %s\nPROMPT_TEXT:\n%s\n\nRESPONSE:\n%s\n%s\n",
		timestamp, name, truncatedPrompt, wrappedResponse, strings.Repeat("-", 80))

	_, _ = f.WriteString(entry)
}

func getResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

// validateModel checks if the configured model is available for the API key.
func (c *Client) validateModel(ctx context.Context) error {
	// Ensure model name has 'models/' prefix
	name := c.modelName
	if !strings.HasPrefix(name, "models/") {
		name = "models/" + name
	}

	// Try to get the specific model (1 API call)
	_, err := c.genaiClient.Models.Get(ctx, name, nil)
	if err == nil {
		slog.Debug("Gemini model validation success", "model", c.modelName)
		return nil
	}

	slog.Warn("Gemini model validation failed, fetching available models...", "model", c.modelName, "error", err)

	// Fetch available models for recovery
	iter, listErr := c.genaiClient.Models.List(ctx, nil)
	if listErr != nil {
		slog.Warn("Failed to list models for recovery", "error", listErr)
		return nil // Proceed anyway
	}

	var availableModels []string
	for {
		resp, nextErr := iter.Next(ctx)
		if nextErr == iterator.Done {
			break
		}
		if nextErr != nil {
			break
		}
		if strings.Contains(strings.ToLower(resp.Name), "gemini") {
			availableModels = append(availableModels, resp.Name)
		}
	}

	slog.Error("Configured model not found", "configured", c.modelName)
	slog.Error("Available 'gemini' models for this key:")
	for _, m := range availableModels {
		slog.Error("- " + m)
	}

	return nil // Proceed anyway (lazy validation on generation)
}
