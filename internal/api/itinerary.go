package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"recallgo/pkg/model"
	"recallgo/pkg/session"
)

// ItineraryHandler handles the route endpoints.
type ItineraryHandler struct {
	studio *session.Studio
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(studio *session.Studio) *ItineraryHandler {
	return &ItineraryHandler{studio: studio}
}

// ItineraryResponse carries the waypoints plus derived route geometry.
type ItineraryResponse struct {
	Points        []model.LocationPoint `json:"points"`
	LegDistances  []float64             `json:"leg_distances_m"`
	TotalDistance float64               `json:"total_distance_m"`
}

// ExtractRequest carries pasted trip notes, plain text or rich HTML.
type ExtractRequest struct {
	Text string `json:"text"`
}

// HandleExtract parses free text into waypoints, replacing the itinerary.
// POST /api/itinerary/extract
func (h *ItineraryHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	points, err := h.studio.Itinerary().Extract(r.Context(), req.Text)
	if err != nil {
		slog.Error("Itinerary extraction failed", "error", err)
		http.Error(w, "extraction failed", http.StatusBadGateway)
		return
	}

	h.studio.AddEvent("itinerary", "extraction", strconv.Itoa(len(points))+" waypoints")
	h.writeItinerary(w)
}

// HandleAdd appends a manual waypoint.
// POST /api/itinerary
func (h *ItineraryHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var p model.LocationPoint
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.studio.Itinerary().Add(p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.studio.AddEvent("itinerary", p.Name, "added waypoint")
	h.writeItinerary(w)
}

// HandleRemove removes the waypoint at the given position.
// DELETE /api/itinerary/{index}
func (h *ItineraryHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if err := h.studio.Itinerary().RemoveAt(index); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeItinerary(w)
}

// HandleList returns the itinerary with leg distances.
// GET /api/itinerary
func (h *ItineraryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeItinerary(w)
}

func (h *ItineraryHandler) writeItinerary(w http.ResponseWriter) {
	itin := h.studio.Itinerary()
	points := itin.List()
	if points == nil {
		points = []model.LocationPoint{}
	}
	legs := itin.LegDistances()
	if legs == nil {
		legs = []float64{}
	}
	writeJSON(w, http.StatusOK, ItineraryResponse{
		Points:        points,
		LegDistances:  legs,
		TotalDistance: itin.TotalDistance(),
	})
}
