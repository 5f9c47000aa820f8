// Package premiere assembles a narrated story from the session's media,
// itinerary and style configuration.
package premiere

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"recallgo/pkg/llm"
	"recallgo/pkg/llm/imageutil"
	"recallgo/pkg/llm/prompts"
	"recallgo/pkg/model"
	"recallgo/pkg/tts"
)

const (
	// mediaInlineCap bounds how many media items are inlined into the
	// story prompt, to bound payload size.
	mediaInlineCap = 15

	minBeats = 4
	maxBeats = 10
)

// ProgressFunc receives human-readable assembly progress.
type ProgressFunc func(message string)

// Assembler turns a studio configuration into a fully synthesized story.
type Assembler struct {
	provider      llm.Provider
	speech        tts.Provider
	prompts       *prompts.Manager
	voiceOverride string
}

// New creates a new Assembler. voiceOverride forces a narration voice;
// empty means the cut pack picks it.
func New(provider llm.Provider, speech tts.Provider, pm *prompts.Manager, voiceOverride string) *Assembler {
	return &Assembler{
		provider:      provider,
		speech:        speech,
		prompts:       pm,
		voiceOverride: voiceOverride,
	}
}

// BeatCount returns the number of beats requested for a given media count.
func BeatCount(mediaCount int) int {
	n := mediaCount
	if n > maxBeats {
		n = maxBeats
	}
	if n < minBeats {
		n = minBeats
	}
	return n
}

// rawBeat is the schema the story prompt asks the model for.
type rawBeat struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	LocationName string `json:"location_name"`
	MediaID      string `json:"media_id"`
}

type rawStory struct {
	Title string    `json:"title"`
	Beats []rawBeat `json:"beats"`
}

// Assemble runs the full pipeline: structured story generation, location
// resolution, then strictly sequential per-beat speech synthesis. Any
// failure aborts the whole assembly; no partial story is ever returned.
func (a *Assembler) Assemble(ctx context.Context, cfg model.StudioConfig, media []model.MediaItem, itinerary []model.LocationPoint, progress ProgressFunc) (*model.RecallStory, error) {
	if progress == nil {
		progress = func(string) {}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid studio config: %w", err)
	}

	progress("Writing the script")

	raw, err := a.generateStory(ctx, cfg, media, itinerary)
	if err != nil {
		return nil, err
	}

	beats, err := a.resolveBeats(raw.Beats, media, itinerary)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = cfg.Title
	}

	// Sequential on purpose: beats become audio-ready in presentation
	// order, and progress is incrementally correct.
	voice := a.pickVoice(cfg)
	for i := range beats {
		clip, err := a.speech.Synthesize(ctx, beats[i].Text, voice)
		if err != nil {
			return nil, fmt.Errorf("synthesizing beat %d: %w", i, err)
		}
		beats[i].Audio = clip
		progress(fmt.Sprintf("Mastering beat %d/%d", i+1, len(beats)))
	}

	return &model.RecallStory{Title: title, Beats: beats}, nil
}

// generateStory requests the structured narrative, inlining at most the
// first 15 media items.
func (a *Assembler) generateStory(ctx context.Context, cfg model.StudioConfig, media []model.MediaItem, itinerary []model.LocationPoint) (*rawStory, error) {
	inline := media
	if len(inline) > mediaInlineCap {
		inline = inline[:mediaInlineCap]
	}

	parts, manifest := buildMediaParts(inline)

	pack := model.CutPackByID(cfg.Pack)
	focus := make([]string, len(cfg.Focus))
	for i, f := range cfg.Focus {
		focus[i] = string(f)
	}
	data := struct {
		Title         string
		PackID        string
		Arc           string
		Pace          string
		Ending        string
		Focus         []string
		MediaCount    int
		BeatCount     int
		Waypoints     string
		MediaManifest string
	}{
		Title:         cfg.Title,
		PackID:        pack.ID,
		Arc:           string(cfg.Arc),
		Pace:          string(cfg.Pace),
		Ending:        string(cfg.Ending),
		Focus:         focus,
		MediaCount:    len(inline),
		BeatCount:     BeatCount(len(media)),
		Waypoints:     formatWaypoints(itinerary),
		MediaManifest: manifest,
	}

	prompt, err := a.prompts.Render("story.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("rendering story prompt: %w", err)
	}

	var raw rawStory
	if err := a.provider.GenerateJSONWithMedia(ctx, "story", prompt, parts, &raw); err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}
	return &raw, nil
}

// resolveBeats validates the raw beats and resolves their locations.
func (a *Assembler) resolveBeats(raw []rawBeat, media []model.MediaItem, itinerary []model.LocationPoint) ([]model.StoryBeat, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("story contained no beats")
	}
	// The count is a target for the model, not a hard contract; a dense
	// story with a different length is kept.
	if expected := BeatCount(len(media)); len(raw) != expected {
		slog.Warn("Premiere: beat count differs from target", "got", len(raw), "want", expected)
	}

	sorted := make([]rawBeat, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	known := make(map[string]bool, len(media))
	for _, m := range media {
		known[m.ID] = true
	}

	beats := make([]model.StoryBeat, 0, len(sorted))
	for i, rb := range sorted {
		if rb.Index != i {
			return nil, fmt.Errorf("beat indices not contiguous: got %d at position %d", rb.Index, i)
		}
		text := strings.TrimSpace(rb.Text)
		if text == "" {
			return nil, fmt.Errorf("beat %d has no narration text", i)
		}

		mediaID := rb.MediaID
		if mediaID != "" && !known[mediaID] {
			slog.Warn("Premiere: beat references unknown media, dropping reference", "beat", i, "media_id", mediaID)
			mediaID = ""
		}

		beats = append(beats, model.StoryBeat{
			Index:    i,
			Text:     text,
			MediaID:  mediaID,
			Location: ResolveLocation(rb.LocationName, i, itinerary),
		})
	}
	return beats, nil
}

// ResolveLocation maps a free-text location name to an itinerary point.
// A case-insensitive substring match wins; otherwise the resolution cycles
// through the itinerary by beat index, so every beat gets some location
// whenever any waypoints exist. Empty itinerary resolves to nil.
func ResolveLocation(locationName string, index int, itinerary []model.LocationPoint) *model.LocationPoint {
	if len(itinerary) == 0 {
		return nil
	}

	if name := strings.ToLower(strings.TrimSpace(locationName)); name != "" {
		for i := range itinerary {
			candidate := strings.ToLower(itinerary[i].Name)
			if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
				p := itinerary[i]
				return &p
			}
		}
	}

	p := itinerary[index%len(itinerary)]
	return &p
}

func (a *Assembler) pickVoice(cfg model.StudioConfig) string {
	if a.voiceOverride != "" {
		return a.voiceOverride
	}
	pack := model.CutPackByID(cfg.Pack)
	return tts.VoiceForCategory(pack.Category).ID
}

// buildMediaParts prepares inline prompt attachments and the id-labeled
// manifest the prompt refers to. Images are downscaled before inlining;
// videos and cloud-hosted items appear in the manifest only.
func buildMediaParts(media []model.MediaItem) ([]llm.MediaPart, string) {
	var parts []llm.MediaPart
	var manifest strings.Builder

	for _, m := range media {
		kind := "image"
		if m.IsVideo() {
			kind = "video"
		}
		fmt.Fprintf(&manifest, "%s: %s (%s, %s)\n", m.ID, m.MimeType, kind, m.Source)

		if m.IsVideo() || len(m.Data) == 0 {
			continue
		}
		data, mime, err := imageutil.PrepareForLLM(m.Data)
		if err != nil {
			slog.Warn("Premiere: could not prepare image for prompt", "id", m.ID, "error", err)
			continue
		}
		parts = append(parts, llm.MediaPart{MIME: mime, Data: data})
	}

	return parts, strings.TrimRight(manifest.String(), "\n")
}

func formatWaypoints(itinerary []model.LocationPoint) string {
	if len(itinerary) == 0 {
		return "(no route provided)"
	}
	var sb strings.Builder
	for i, p := range itinerary {
		fmt.Fprintf(&sb, "%d. %s (%.4f, %.4f)", i, p.Name, p.Lat, p.Lon)
		if p.Description != "" {
			sb.WriteString(" - " + p.Description)
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}
