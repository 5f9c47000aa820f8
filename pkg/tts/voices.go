package tts

// GeminiVoices contains the Gemini 2.5 TTS voice profiles the studio narrates with.
var GeminiVoices = []Voice{
	{ID: "aoede", Name: "Aoede", Gender: "Female", Style: "Professional, capable, clear, experienced, composed"},
	{ID: "zephyr", Name: "Zephyr", Gender: "Female", Style: "Energetic, bright, youthful, fast-paced, spirited"},
	{ID: "kore", Name: "Kore", Gender: "Female", Style: "Calm, soothing, gentle, relaxed, soft"},
	{ID: "algenib", Name: "Algenib", Gender: "Female", Style: "Warm, friendly, confident, engaging, approachable"},
	{ID: "charon", Name: "Charon", Gender: "Male", Style: "Deep, trustworthy, conversational, smooth, steady"},
	{ID: "fenrir", Name: "Fenrir", Gender: "Male", Style: "Resonant, intense, strong, gravelly, dramatic"},
	{ID: "puck", Name: "Puck", Gender: "Male", Style: "Playful, mischievous, energetic, animated, humorous"},
	{ID: "umbriel", Name: "Umbriel", Gender: "Male", Style: "Authoritative, narrator-like, wise, grounded, engaging"},
}

// voiceByCategory maps a cut pack's narration category to its voice.
// The table is static: the same pack always narrates with the same voice.
var voiceByCategory = map[string]string{
	"noir":        "charon",
	"warm":        "algenib",
	"documentary": "aoede",
	"retro":       "puck",
	"epic":        "umbriel",
}

// VoiceForCategory returns the narration voice for a cut pack category.
// Unknown categories fall back to the first voice in the table.
func VoiceForCategory(category string) Voice {
	if id, ok := voiceByCategory[category]; ok {
		return GetVoiceByID(id)
	}
	return GeminiVoices[0]
}

// GetVoiceByID returns a voice profile by ID, or the first voice if not found.
func GetVoiceByID(id string) Voice {
	for _, v := range GeminiVoices {
		if v.ID == id {
			return v
		}
	}
	return GeminiVoices[0]
}
