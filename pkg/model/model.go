package model

import (
	"time"
)

// Provenance identifies where a media item came from.
type Provenance string

const (
	ProvenanceUpload    Provenance = "upload"
	ProvenanceCloud     Provenance = "cloud"
	ProvenanceGenerated Provenance = "generated"
)

// MediaItem represents a single imported or generated visual fragment.
// Items are immutable after creation; the library removes them by ID
// but never mutates them in place.
type MediaItem struct {
	ID        string     `json:"id"` // UUID
	URI       string     `json:"uri"`
	MimeType  string     `json:"mime_type"`
	CreatedAt time.Time  `json:"created_at"`
	Source    Provenance `json:"source"`

	// Data holds the raw encoded payload for freshly imported or generated
	// items that are not externally hosted yet. Empty for cloud items.
	Data []byte `json:"-"`
}

// IsVideo reports whether the item is a video fragment.
func (m *MediaItem) IsVideo() bool {
	return len(m.MimeType) >= 6 && m.MimeType[:6] == "video/"
}

// LocationPoint represents a named waypoint of the trip route.
type LocationPoint struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description,omitempty"`
}

// AudioClip holds a decoded, playable narration clip.
// Samples are mono PCM at SampleRate.
type AudioClip struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// Duration returns the clip length.
func (c *AudioClip) Duration() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// StoryBeat is one narrative unit of the generated story.
type StoryBeat struct {
	Index    int            `json:"index"` // 0-based, dense
	Text     string         `json:"text"`
	MediaID  string         `json:"media_id,omitempty"`
	Location *LocationPoint `json:"location,omitempty"`

	// Audio is filled exactly once after speech synthesis completes for
	// this beat. Never replaced or cleared while a player session holds
	// the story.
	Audio *AudioClip `json:"-"`
}

// RecallStory is the complete generated narrative ("premiere").
// Beats are ordered by index, dense from 0.
type RecallStory struct {
	Title string      `json:"title"`
	Beats []StoryBeat `json:"beats"`
}

// StudioEvent is a line in the studio event log (import, generation,
// assembly, playback milestones).
type StudioEvent struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
