package api

import (
	"net/http"
	"runtime"
	"time"

	"recallgo/pkg/session"
	"recallgo/pkg/tracker"
)

// StatsHandler serves usage counters and process diagnostics for the
// stats view.
type StatsHandler struct {
	tracker *tracker.Tracker
	studio  *session.Studio
	started time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(t *tracker.Tracker, studio *session.Studio) *StatsHandler {
	return &StatsHandler{
		tracker: t,
		studio:  studio,
		started: time.Now(),
	}
}

// ProviderStatsDTO is the wire shape of one provider's counters.
type ProviderStatsDTO struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	APISuccess  int64 `json:"api_success"`
	APIFailures int64 `json:"api_errors"`
	HitRate     int64 `json:"hit_rate"`
}

// StudioStats summarizes the working set.
type StudioStats struct {
	MediaCount int `json:"media_count"`
	Waypoints  int `json:"waypoints"`
	Events     int `json:"events"`
}

// ProcessStats holds server process diagnostics.
type ProcessStats struct {
	UptimeSec  int64  `json:"uptime_sec"`
	MemoryMB   uint64 `json:"memory_mb"`
	Goroutines int    `json:"goroutines"`
}

// StatsResponse is the full stats payload.
type StatsResponse struct {
	Process   ProcessStats                `json:"process"`
	Studio    StudioStats                 `json:"studio"`
	Providers map[string]ProviderStatsDTO `json:"providers"`
}

// ServeHTTP handles GET /api/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := h.studio.Status()
	resp := StatsResponse{
		Process: ProcessStats{
			UptimeSec:  int64(time.Since(h.started).Seconds()),
			MemoryMB:   mem.Alloc / 1024 / 1024,
			Goroutines: runtime.NumGoroutine(),
		},
		Studio: StudioStats{
			MediaCount: status.MediaCount,
			Waypoints:  status.Waypoints,
			Events:     len(h.studio.Events()),
		},
		Providers: make(map[string]ProviderStatsDTO),
	}

	for provider, stats := range h.tracker.Snapshot() {
		totalCache := stats.CacheHits + stats.CacheMisses
		hitRate := int64(0)
		if totalCache > 0 {
			hitRate = (stats.CacheHits * 100) / totalCache
		}
		resp.Providers[provider] = ProviderStatsDTO{
			CacheHits:   stats.CacheHits,
			CacheMisses: stats.CacheMisses,
			APISuccess:  stats.APISuccess,
			APIFailures: stats.APIFailures,
			HitRate:     hitRate,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
