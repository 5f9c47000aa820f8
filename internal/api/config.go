package api

import (
	"encoding/json"
	"net/http"

	"recallgo/pkg/audio"
	"recallgo/pkg/config"
	"recallgo/pkg/model"
	"recallgo/pkg/tts"
)

// ConfigHandler exposes the knobs the SPA renders in the studio form.
type ConfigHandler struct {
	cfg   *config.Config
	audio audio.Service
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(cfg *config.Config, svc audio.Service) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, audio: svc}
}

// ConfigResponse is the studio configuration payload: fixed option sets
// plus the current defaults and audio state.
type ConfigResponse struct {
	Packs    []model.CutPack `json:"packs"`
	Arcs     []string        `json:"arcs"`
	Paces    []string        `json:"paces"`
	Focus    []string        `json:"focus"`
	Endings  []string        `json:"endings"`
	Voices   []tts.Voice     `json:"voices"`
	Defaults ConfigDefaults  `json:"defaults"`
	Volume   float64         `json:"volume"`
	Muted    bool            `json:"muted"`
	LLMModel string          `json:"llm_model"`
	TTSVoice string          `json:"tts_voice"` // override; empty = pack decides
}

// ConfigDefaults mirrors the pre-selected studio knobs.
type ConfigDefaults struct {
	Pack   string `json:"pack"`
	Arc    string `json:"arc"`
	Pace   string `json:"pace"`
	Ending string `json:"ending"`
}

// ConfigRequest carries updatable settings. Pointers distinguish absent
// fields from zero values.
type ConfigRequest struct {
	Volume *float64 `json:"volume,omitempty"`
	Muted  *bool    `json:"muted,omitempty"`
}

// HandleConfig is a unified handler for the config methods, so CORS
// preflight lands in one place.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut, http.MethodPost:
		h.handleSet(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	resp := ConfigResponse{
		Packs: model.CutPacks,
		Arcs: []string{
			string(model.ArcChronicle), string(model.ArcCrescendo),
			string(model.ArcPostcards), string(model.ArcHomecoming),
		},
		Paces: []string{
			string(model.PaceSlowBurn), string(model.PaceBalanced), string(model.PaceHypercut),
		},
		Focus: []string{
			string(model.FocusPeople), string(model.FocusPlaces), string(model.FocusFood),
			string(model.FocusMotion), string(model.FocusDetails), string(model.FocusVistas),
		},
		Endings: []string{
			string(model.EndingSoftFade), string(model.EndingFullSend), string(model.EndingOpenRoad),
		},
		Voices: tts.GeminiVoices,
		Defaults: ConfigDefaults{
			Pack:   h.cfg.Studio.Pack,
			Arc:    h.cfg.Studio.Arc,
			Pace:   h.cfg.Studio.Pace,
			Ending: h.cfg.Studio.Ending,
		},
		Volume:   h.audio.Volume(),
		Muted:    h.audio.Muted(),
		LLMModel: h.cfg.LLM.Model,
		TTSVoice: h.cfg.TTS.Voice,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConfigHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Volume != nil {
		vol := *req.Volume
		if vol < 0 || vol > 1 {
			http.Error(w, "volume must be within [0,1]", http.StatusBadRequest)
			return
		}
		h.audio.SetVolume(vol)
	}
	if req.Muted != nil {
		h.audio.SetMuted(*req.Muted)
	}

	h.handleGet(w, r)
}
