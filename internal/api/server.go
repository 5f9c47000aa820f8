package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"recallgo/internal/ui"
	"recallgo/pkg/version"
)

// NewServer wires the HTTP surface: studio endpoints, the websocket
// bridge and the embedded SPA.
func NewServer(addr string, cfgH *ConfigHandler, statsH *StatsHandler, mediaH *MediaHandler, transcribeH *TranscribeHandler, itinH *ItineraryHandler, premiereH *PremiereHandler, playerH *PlayerHandler, eventsH *EventsHandler, wsH *WSHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)
	mux.HandleFunc("/api/config", cfgH.HandleConfig)
	mux.Handle("GET /api/stats", statsH)
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("GET /api/events", eventsH.HandleEvents)

	mux.HandleFunc("POST /api/media", mediaH.HandleImport)
	mux.HandleFunc("GET /api/media", mediaH.HandleList)
	mux.HandleFunc("GET /api/media/{id}/content", mediaH.HandleContent)
	mux.HandleFunc("DELETE /api/media/{id}", mediaH.HandleRemove)
	mux.HandleFunc("POST /api/media/generate-image", mediaH.HandleGenerateImage)
	mux.HandleFunc("POST /api/media/generate-video", mediaH.HandleGenerateVideo)

	mux.HandleFunc("POST /api/transcribe", transcribeH.Handle)

	mux.HandleFunc("POST /api/itinerary/extract", itinH.HandleExtract)
	mux.HandleFunc("POST /api/itinerary", itinH.HandleAdd)
	mux.HandleFunc("GET /api/itinerary", itinH.HandleList)
	mux.HandleFunc("DELETE /api/itinerary/{index}", itinH.HandleRemove)

	mux.HandleFunc("POST /api/premiere", premiereH.HandleAssemble)
	mux.HandleFunc("GET /api/premiere/status", premiereH.HandleStatus)
	mux.HandleFunc("GET /api/premiere/story", premiereH.HandleStory)

	mux.HandleFunc("POST /api/player/start", playerH.HandleStart)
	mux.HandleFunc("POST /api/player/scroll", playerH.HandleScroll)
	mux.HandleFunc("POST /api/player/mute", playerH.HandleMute)
	mux.HandleFunc("POST /api/player/exit", playerH.HandleExit)
	mux.HandleFunc("GET /api/player/status", playerH.HandleStatus)

	mux.HandleFunc("GET /ws", wsH.Handle)

	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow the response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// Static frontend serving (SPA), from the embedded dist tree
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}
	spaFS := &spaFileSystem{root: http.FS(distFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
