package api

import (
	"io"
	"log/slog"
	"net/http"

	"recallgo/pkg/llm"
)

// maxTranscribeSize bounds a voice note upload.
const maxTranscribeSize = 32 << 20 // 32 MiB

// TranscribeHandler turns recorded voice notes into text for the studio
// form fields.
type TranscribeHandler struct {
	provider llm.Provider
}

// NewTranscribeHandler creates a new TranscribeHandler.
func NewTranscribeHandler(provider llm.Provider) *TranscribeHandler {
	return &TranscribeHandler{provider: provider}
}

// Handle accepts raw audio (Content-Type carries the codec) and returns
// the recognized text. Silence comes back as an empty string, not an
// error.
// POST /api/transcribe
func (h *TranscribeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxTranscribeSize)

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		http.Error(w, "missing Content-Type", http.StatusBadRequest)
		return
	}

	audio, err := io.ReadAll(r.Body)
	if err != nil || len(audio) == 0 {
		http.Error(w, "unreadable audio body", http.StatusBadRequest)
		return
	}

	text, err := h.provider.TranscribeSpeech(r.Context(), audio, mimeType)
	if err != nil {
		slog.Error("Transcription failed", "error", err)
		http.Error(w, "transcription failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
