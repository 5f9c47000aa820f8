package model

import "fmt"

// CutPack is a named visual/narrative style preset selected by the user.
type CutPack struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"` // keys the narration voice lookup
	Promise  string `json:"promise"`  // descriptive promise shown in the UI and fed to the prompt
}

// CutPacks is the fixed set of selectable style presets.
var CutPacks = []CutPack{
	{ID: "neon-noir", Name: "Neon Noir", Category: "noir", Promise: "Rain-slick streets, hard shadows, a narrator who has seen too much."},
	{ID: "golden-hour", Name: "Golden Hour", Category: "warm", Promise: "Everything bathed in honey light, gentle and nostalgic."},
	{ID: "field-notes", Name: "Field Notes", Category: "documentary", Promise: "Crisp, observational, a naturalist's notebook come alive."},
	{ID: "super-eight", Name: "Super Eight", Category: "retro", Promise: "Grainy home-movie warmth, jump cuts and handwritten titles."},
	{ID: "wanderlust", Name: "Wanderlust", Category: "epic", Promise: "Sweeping vistas, swelling pace, the trip as a hero's journey."},
}

// CutPackByID returns the cut pack with the given id, or the first pack
// when the id is unknown.
func CutPackByID(id string) CutPack {
	for _, p := range CutPacks {
		if p.ID == id {
			return p
		}
	}
	return CutPacks[0]
}

// Pace controls the rhythm of the narration.
type Pace string

const (
	PaceSlowBurn Pace = "slow-burn"
	PaceBalanced Pace = "balanced"
	PaceHypercut Pace = "hypercut"
)

// FocusTag marks what the narrative should dwell on.
type FocusTag string

const (
	FocusPeople  FocusTag = "people"
	FocusPlaces  FocusTag = "places"
	FocusFood    FocusTag = "food"
	FocusMotion  FocusTag = "motion"
	FocusDetails FocusTag = "details"
	FocusVistas  FocusTag = "vistas"
)

var validFocusTags = map[FocusTag]bool{
	FocusPeople: true, FocusPlaces: true, FocusFood: true,
	FocusMotion: true, FocusDetails: true, FocusVistas: true,
}

// ArcShape selects the structural arc of the story.
type ArcShape string

const (
	ArcChronicle  ArcShape = "chronicle"  // day by day, in order
	ArcCrescendo  ArcShape = "crescendo"  // builds to a single peak moment
	ArcPostcards  ArcShape = "postcards"  // loosely connected vignettes
	ArcHomecoming ArcShape = "homecoming" // frames the trip from the return
)

// EndingStyle selects how the finale lands.
type EndingStyle string

const (
	EndingSoftFade EndingStyle = "soft-fade"
	EndingFullSend EndingStyle = "full-send"
	EndingOpenRoad EndingStyle = "open-road"
)

// StudioConfig bundles everything the user dialed in before generation.
type StudioConfig struct {
	Title  string      `json:"title"`
	Pack   string      `json:"pack"` // CutPack ID
	Arc    ArcShape    `json:"arc"`
	Pace   Pace        `json:"pace"`
	Focus  []FocusTag  `json:"focus"`
	Ending EndingStyle `json:"ending"`
}

// Validate checks the user-facing constraints before any collaborator call.
func (c *StudioConfig) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if len(c.Focus) == 0 {
		return fmt.Errorf("at least one focus tag is required")
	}
	for _, f := range c.Focus {
		if !validFocusTags[f] {
			return fmt.Errorf("unknown focus tag %q", f)
		}
	}
	switch c.Pace {
	case PaceSlowBurn, PaceBalanced, PaceHypercut:
	default:
		return fmt.Errorf("unknown pace %q", c.Pace)
	}
	return nil
}
