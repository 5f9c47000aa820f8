// Package itinerary manages the ordered waypoint list for a session.
package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	h3 "github.com/uber/h3-go/v4"

	"recallgo/pkg/config"
	"recallgo/pkg/llm"
	"recallgo/pkg/llm/prompts"
	"recallgo/pkg/model"
)

// Manager holds the session's waypoints. Waypoints come from LLM extraction
// of free text or from manual edits; both paths go through the same
// validation and dedupe.
type Manager struct {
	mu        sync.RWMutex
	points    []model.LocationPoint
	provider  llm.Provider
	prompts   *prompts.Manager
	dedupeRes int
}

// New creates a new itinerary manager. dedupeRadius controls how close two
// waypoints may be before they collapse into one.
func New(provider llm.Provider, pm *prompts.Manager, dedupeRadius config.Distance) *Manager {
	return &Manager{
		provider:  provider,
		prompts:   pm,
		dedupeRes: resolutionForRadius(float64(dedupeRadius)),
	}
}

// extractResponse is the schema the extraction prompt asks for.
type extractResponse struct {
	Points []model.LocationPoint `json:"points"`
}

// Extract parses free text into waypoints and replaces the current itinerary
// with the result. Pasted rich text is stripped to plain text first.
func (m *Manager) Extract(ctx context.Context, text string) ([]model.LocationPoint, error) {
	clean := StripHTML(text)
	if clean == "" {
		return nil, fmt.Errorf("empty itinerary text")
	}

	prompt, err := m.prompts.Render("itinerary.tmpl", struct{ Text string }{Text: clean})
	if err != nil {
		return nil, fmt.Errorf("rendering itinerary prompt: %w", err)
	}

	var resp extractResponse
	if err := m.provider.GenerateJSON(ctx, "itinerary", prompt, &resp); err != nil {
		return nil, fmt.Errorf("itinerary extraction failed: %w", err)
	}

	points := m.sanitize(resp.Points)
	slog.Info("Itinerary extracted", "raw", len(resp.Points), "kept", len(points))

	m.mu.Lock()
	m.points = points
	m.mu.Unlock()

	return m.List(), nil
}

// sanitize drops invalid waypoints and collapses near-duplicates by H3 cell.
func (m *Manager) sanitize(points []model.LocationPoint) []model.LocationPoint {
	seen := make(map[h3.Cell]bool)
	out := make([]model.LocationPoint, 0, len(points))
	for _, p := range points {
		if p.Name == "" {
			continue
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			slog.Warn("Itinerary: dropping waypoint with bad coordinates", "name", p.Name, "lat", p.Lat, "lon", p.Lon)
			continue
		}
		cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), m.dedupeRes)
		if err != nil {
			continue
		}
		if seen[cell] {
			slog.Debug("Itinerary: collapsing duplicate waypoint", "name", p.Name)
			continue
		}
		seen[cell] = true
		out = append(out, p)
	}
	return out
}

// Add appends a waypoint manually.
func (m *Manager) Add(p model.LocationPoint) error {
	if p.Name == "" {
		return fmt.Errorf("waypoint name required")
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("waypoint coordinates out of range")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, p)
	return nil
}

// RemoveAt deletes the waypoint at the given index.
func (m *Manager) RemoveAt(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.points) {
		return fmt.Errorf("waypoint index %d out of range", index)
	}
	m.points = append(m.points[:index], m.points[index+1:]...)
	return nil
}

// List returns the waypoints in travel order.
func (m *Manager) List() []model.LocationPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.LocationPoint, len(m.points))
	copy(out, m.points)
	return out
}

// Len returns the number of waypoints.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

// Clear removes all waypoints.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = nil
}

// LegDistances returns the distance in meters of each leg between
// consecutive waypoints.
func (m *Manager) LegDistances() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.points) < 2 {
		return nil
	}
	legs := make([]float64, 0, len(m.points)-1)
	for i := 1; i < len(m.points); i++ {
		a := orb.Point{m.points[i-1].Lon, m.points[i-1].Lat}
		b := orb.Point{m.points[i].Lon, m.points[i].Lat}
		legs = append(legs, geo.Distance(a, b))
	}
	return legs
}

// TotalDistance returns the route length in meters.
func (m *Manager) TotalDistance() float64 {
	var total float64
	for _, leg := range m.LegDistances() {
		total += leg
	}
	return total
}

// resolutionForRadius picks the H3 resolution whose cells are roughly the
// size of the dedupe radius.
func resolutionForRadius(meters float64) int {
	switch {
	case meters >= 1200:
		return 7
	case meters >= 450:
		return 8
	case meters >= 160:
		return 9
	case meters >= 60:
		return 10
	default:
		return 11
	}
}
