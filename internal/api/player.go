package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"recallgo/pkg/apisession"
	"recallgo/pkg/session"
)

// scrollState is the per-client frame memory used to drop no-op frames
// from browsers that re-send identical scroll positions.
type scrollState struct {
	lastTop float64
	seen    bool
}

// PlayerHandler handles the playback endpoints.
type PlayerHandler struct {
	studio  *session.Studio
	clients *apisession.Store[scrollState]
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(studio *session.Studio) *PlayerHandler {
	return &PlayerHandler{
		studio:  studio,
		clients: apisession.New(10*time.Minute, func() *scrollState { return &scrollState{} }),
	}
}

// HandleStart begins playback of the assembled premiere.
// POST /api/player/start
func (h *PlayerHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if err := h.studio.StartPlayer(); err != nil {
		switch {
		case errors.Is(err, session.ErrNoStory):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrPlayerActive):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, h.studio.Player().Status())
}

// ScrollFrame is one raw scroll telemetry sample from the SPA.
type ScrollFrame struct {
	SessionID      string  `json:"session_id,omitempty"`
	ScrollTop      float64 `json:"scroll_top"`
	ScrollHeight   float64 `json:"scroll_height"`
	ClientHeight   float64 `json:"client_height"`
	ViewportHeight float64 `json:"viewport_height"`
}

// HandleScroll folds a telemetry frame into the player state machine.
// POST /api/player/scroll
func (h *PlayerHandler) HandleScroll(w http.ResponseWriter, r *http.Request) {
	var frame ScrollFrame
	if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := h.studio.Player()
	if p == nil {
		http.Error(w, "no active player", http.StatusNotFound)
		return
	}

	// Browsers re-fire scroll events without movement; drop exact repeats
	// per client so the state machine only sees real frames.
	if frame.SessionID != "" {
		st := h.clients.Get(frame.SessionID)
		if st.seen && st.lastTop == frame.ScrollTop {
			writeJSON(w, http.StatusOK, p.Status())
			return
		}
		st.lastTop = frame.ScrollTop
		st.seen = true
	}

	p.HandleScroll(frame.ScrollTop, frame.ScrollHeight, frame.ClientHeight, frame.ViewportHeight)
	writeJSON(w, http.StatusOK, p.Status())
}

// MuteRequest toggles narration audio for upcoming beats.
type MuteRequest struct {
	Muted bool `json:"muted"`
}

// HandleMute sets the mute flag. Running audio is left alone; the flag
// applies from the next beat activation.
// POST /api/player/mute
func (h *PlayerHandler) HandleMute(w http.ResponseWriter, r *http.Request) {
	var req MuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := h.studio.Player()
	if p == nil {
		http.Error(w, "no active player", http.StatusNotFound)
		return
	}
	p.SetMuted(req.Muted)
	writeJSON(w, http.StatusOK, p.Status())
}

// HandleExit terminates the player session.
// POST /api/player/exit
func (h *PlayerHandler) HandleExit(w http.ResponseWriter, r *http.Request) {
	h.studio.ExitPlayer()
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus reports the player state.
// GET /api/player/status
func (h *PlayerHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	p := h.studio.Player()
	if p == nil {
		http.Error(w, "no active player", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p.Status())
}
