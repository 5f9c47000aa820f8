package api

import (
	"net/http"

	"recallgo/pkg/model"
	"recallgo/pkg/session"
)

// EventsHandler serves the studio event history.
type EventsHandler struct {
	studio *session.Studio
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(studio *session.Studio) *EventsHandler {
	return &EventsHandler{studio: studio}
}

// HandleEvents returns the session's studio events as JSON.
// GET /api/events
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events := h.studio.Events()
	if events == nil {
		events = []model.StudioEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
