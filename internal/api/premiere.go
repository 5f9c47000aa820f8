package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"recallgo/pkg/model"
	"recallgo/pkg/session"
)

// PremiereHandler handles story assembly endpoints.
type PremiereHandler struct {
	studio *session.Studio
}

// NewPremiereHandler creates a new PremiereHandler.
func NewPremiereHandler(studio *session.Studio) *PremiereHandler {
	return &PremiereHandler{studio: studio}
}

// HandleAssemble starts an asynchronous premiere assembly.
// POST /api/premiere
func (h *PremiereHandler) HandleAssemble(w http.ResponseWriter, r *http.Request) {
	var cfg model.StudioConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.studio.StartPremiere(cfg); err != nil {
		if errors.Is(err, session.ErrBusy) {
			http.Error(w, "assembly already in progress", http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "assembling"})
}

// HandleStatus reports the studio snapshot the SPA polls between
// websocket pushes.
// GET /api/premiere/status
func (h *PremiereHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.studio.Status())
}

// HandleStory returns the assembled story without audio payloads.
// GET /api/premiere/story
func (h *PremiereHandler) HandleStory(w http.ResponseWriter, r *http.Request) {
	story := h.studio.Story()
	if story == nil {
		http.Error(w, "no story assembled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, story)
}
