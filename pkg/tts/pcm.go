package tts

import (
	"encoding/binary"
	"fmt"
	"regexp"

	"recallgo/pkg/model"
)

var speakerLabelRegex = regexp.MustCompile(`(?m)^[A-Za-z]+(\s*\([^)]+\))?:\s*`)

// StripSpeakerLabels removes speaker labels like "Narrator:" or "Aria (female):"
// that models occasionally prepend to narration text.
func StripSpeakerLabels(script string) string {
	return speakerLabelRegex.ReplaceAllString(script, "")
}

// DecodePCM16 decodes little-endian signed 16-bit mono PCM into a playable clip.
func DecodePCM16(data []byte, sampleRate int) (*model.AudioClip, error) {
	if len(data) < MinAudioSize {
		return nil, fmt.Errorf("audio payload too small: %d bytes", len(data))
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	// Drop a trailing odd byte rather than failing the whole clip.
	n := len(data) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float64(s) / 32768.0
	}

	return &model.AudioClip{Samples: samples, SampleRate: sampleRate}, nil
}
