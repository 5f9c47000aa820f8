package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request   RequestConfig   `yaml:"request"`
	LLM       LLMConfig       `yaml:"llm"`
	TTS       TTSConfig       `yaml:"tts"`
	Video     VideoConfig     `yaml:"video"`
	Studio    StudioDefaults  `yaml:"studio"`
	Itinerary ItineraryConfig `yaml:"itinerary"`
	Log       LogConfig       `yaml:"log"`
	History   HistoryConfig   `yaml:"history"`
	DB        DBConfig        `yaml:"db"`
	Server    ServerConfig    `yaml:"server"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LLMConfig holds settings for the Large Language Model provider.
type LLMConfig struct {
	Provider string            `yaml:"provider"` // "gemini", "mock"
	Model    string            `yaml:"model"`
	Key      string            `yaml:"key"`
	Profiles map[string]string `yaml:"profiles"` // Map of intent -> model
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Model      string `yaml:"model"`       // Gemini TTS model
	SampleRate int    `yaml:"sample_rate"` // PCM rate of synthesized audio
	Voice      string `yaml:"voice"`       // Override; empty = pick by cut pack category
}

// VideoConfig holds settings for generated media assets.
type VideoConfig struct {
	Model        string   `yaml:"model"`       // Veo model for establishing shots
	ImageModel   string   `yaml:"image_model"` // Imagen model for cover stills
	PollInterval Duration `yaml:"poll_interval"`
	MaxAttempts  int      `yaml:"max_attempts"`
}

// StudioDefaults holds the pre-selected knobs for a new premiere.
type StudioDefaults struct {
	Pack   string `yaml:"pack"`
	Arc    string `yaml:"arc"`
	Pace   string `yaml:"pace"`
	Ending string `yaml:"ending"`
	// MediaCap bounds how many media items are inlined into the story
	// generation request.
	MediaCap int `yaml:"media_cap"`
}

// ItineraryConfig holds waypoint extraction settings.
type ItineraryConfig struct {
	// DedupeRadius collapses extracted waypoints closer than this.
	DedupeRadius Distance `yaml:"dedupe_radius"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Events   LogSettings `yaml:"events"`
}

// HistoryConfig holds prompt/response history log settings.
type HistoryConfig struct {
	LLM HistorySettings `yaml:"llm"`
	TTS HistorySettings `yaml:"tts"`
}

// HistorySettings holds settings for a history log.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 5,
			Timeout: Duration(300 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash-lite",
			Key:      "",
			Profiles: map[string]string{
				"story":      "gemini-2.5-flash",
				"itinerary":  "gemini-2.5-flash-lite",
				"transcribe": "gemini-2.5-flash-lite",
			},
		},
		TTS: TTSConfig{
			Model:      "gemini-2.5-flash-preview-tts",
			SampleRate: 24000,
		},
		Video: VideoConfig{
			Model:        "veo-3.0-generate-001",
			ImageModel:   "imagen-4.0-generate-001",
			PollInterval: Duration(5 * time.Second),
			MaxAttempts:  60,
		},
		Studio: StudioDefaults{
			Pack:     "golden-hour",
			Arc:      "chronicle",
			Pace:     "balanced",
			Ending:   "soft-fade",
			MediaCap: 15,
		},
		Itinerary: ItineraryConfig{
			DedupeRadius: Distance(150),
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
			Events: LogSettings{
				Path:  "./logs/events.log",
				Level: "INFO",
			},
		},
		History: HistoryConfig{
			LLM: HistorySettings{Enabled: true, Path: "./logs/gemini.log"},
			TTS: HistorySettings{Enabled: true, Path: "./logs/tts.log"},
		},
		DB: DBConfig{
			Path: "./data/recall.db",
		},
		Server: ServerConfig{
			Address: "localhost:1931",
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		applyEnvFallback(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	applyEnvFallback(cfg)
	return cfg, nil
}

// applyEnvFallback fills secrets from the environment when the file left
// them empty. Never saved back to disk.
func applyEnvFallback(cfg *Config) {
	if cfg.LLM.Key == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.LLM.Key = key
		}
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# RecallGo Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	// Inject comments for enum fields.
	rePace := regexp.MustCompile(`(?m)^(\s+)pace:`)
	data = rePace.ReplaceAll(data, []byte("${1}# Options: slow-burn, balanced, hypercut\n${1}pace:"))

	rePack := regexp.MustCompile(`(?m)^(\s+)pack:`)
	data = rePack.ReplaceAll(data, []byte("${1}# Options: neon-noir, golden-hour, field-notes, super-eight, wanderlust\n${1}pack:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
