package gemini

import (
	"context"
	"testing"

	"google.golang.org/genai"

	"recallgo/pkg/config"
)

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider(config.TTSConfig{}, nil, nil)
	if p.modelName != "gemini-2.5-flash-preview-tts" {
		t.Errorf("modelName = %q", p.modelName)
	}
	if p.sampleRate != 24000 {
		t.Errorf("sampleRate = %d", p.sampleRate)
	}
}

func TestNewProvider_SharedClient(t *testing.T) {
	shared := &genai.Client{}
	p := NewProvider(config.TTSConfig{}, shared, nil)
	if p.genaiClient != shared {
		t.Error("expected the injected client to be kept")
	}
}

func TestSynthesize_NotConfigured(t *testing.T) {
	p := NewProvider(config.TTSConfig{}, nil, nil)
	if _, err := p.Synthesize(context.Background(), "hello", "kore"); err == nil {
		t.Error("expected error without a configured client")
	}
}

func TestVoices(t *testing.T) {
	p := NewProvider(config.TTSConfig{}, nil, nil)
	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices() error = %v", err)
	}
	if len(voices) == 0 {
		t.Fatal("expected at least one voice")
	}
}

func TestExtractAudioData(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "ignored"},
						{InlineData: &genai.Blob{MIMEType: "audio/L16", Data: []byte{1, 2, 3, 4}}},
					},
				},
			},
		},
	}

	data, err := extractAudioData(resp)
	if err != nil {
		t.Fatalf("extractAudioData() error = %v", err)
	}
	if len(data) != 4 {
		t.Errorf("data length = %d", len(data))
	}
}

func TestExtractAudioData_NoAudio(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "only text"}}}},
		},
	}
	if _, err := extractAudioData(resp); err == nil {
		t.Error("expected error when no audio part present")
	}

	if _, err := extractAudioData(&genai.GenerateContentResponse{}); err == nil {
		t.Error("expected error for empty response")
	}
}
