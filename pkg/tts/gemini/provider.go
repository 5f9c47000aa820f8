package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"recallgo/pkg/config"
	"recallgo/pkg/model"
	"recallgo/pkg/tracker"
	"recallgo/pkg/tts"
)

// Provider implements tts.Provider using Gemini native speech generation.
type Provider struct {
	genaiClient *genai.Client
	modelName   string
	sampleRate  int
	tracker     *tracker.Tracker
}

// NewProvider creates a new Gemini TTS provider around the shared genai
// client. A nil client leaves synthesis unconfigured; Synthesize reports it.
func NewProvider(cfg config.TTSConfig, client *genai.Client, t *tracker.Tracker) *Provider {
	p := &Provider{
		genaiClient: client,
		modelName:   cfg.Model,
		sampleRate:  cfg.SampleRate,
		tracker:     t,
	}
	if p.modelName == "" {
		p.modelName = "gemini-2.5-flash-preview-tts"
	}
	if p.sampleRate <= 0 {
		p.sampleRate = 24000
	}
	return p
}

// Synthesize generates speech from text and decodes the returned mono PCM
// into a playable clip.
func (p *Provider) Synthesize(ctx context.Context, text, voiceID string) (*model.AudioClip, error) {
	if p.genaiClient == nil {
		return nil, fmt.Errorf("gemini tts not configured")
	}

	voice := tts.GetVoiceByID(voiceID)
	script := tts.StripSpeakerLabels(text)

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice.Name},
			},
		},
	}

	resp, err := p.genaiClient.Models.GenerateContent(ctx, p.modelName, genai.Text(script), cfg)
	if err != nil {
		tts.Log("GEMINI", script, 0, err)
		if p.tracker != nil {
			p.tracker.TrackAPIFailure("gemini-tts")
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, tts.NewFatalError(apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("speech generation failed: %w", err)
	}

	data, err := extractAudioData(resp)
	if err != nil {
		tts.Log("GEMINI", script, 200, err)
		if p.tracker != nil {
			p.tracker.TrackAPIFailure("gemini-tts")
		}
		return nil, err
	}

	clip, err := tts.DecodePCM16(data, p.sampleRate)
	if err != nil {
		tts.Log("GEMINI", script, 200, err)
		if p.tracker != nil {
			p.tracker.TrackAPIFailure("gemini-tts")
		}
		return nil, err
	}

	tts.Log("GEMINI", script, 200, nil)
	if p.tracker != nil {
		p.tracker.TrackAPISuccess("gemini-tts")
	}
	return clip, nil
}

// Voices returns the narration voices available for synthesis.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	return tts.GeminiVoices, nil
}

func extractAudioData(resp *genai.GenerateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("response contained no audio part")
}
