package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"recallgo/pkg/genmedia"
	"recallgo/pkg/model"
	"recallgo/pkg/session"
)

// maxUploadSize bounds a single media import request.
const maxUploadSize = 256 << 20 // 256 MiB

// MediaHandler handles the media library endpoints.
type MediaHandler struct {
	studio    *session.Studio
	generator *genmedia.Generator
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(studio *session.Studio, gen *genmedia.Generator) *MediaHandler {
	return &MediaHandler{studio: studio, generator: gen}
}

// mediaView is the wire shape of a media item; payload bytes are served
// separately via the content endpoint.
type mediaView struct {
	ID        string `json:"id"`
	URI       string `json:"uri"`
	MimeType  string `json:"mime_type"`
	CreatedAt string `json:"created_at"`
	Source    string `json:"source"`
}

func toView(m model.MediaItem) mediaView {
	return mediaView{
		ID:        m.ID,
		URI:       m.URI,
		MimeType:  m.MimeType,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Source:    string(m.Source),
	}
}

// HandleImport ingests uploaded media. Multipart forms may carry several
// files; a raw body is taken as a single file with its Content-Type.
// POST /api/media
func (h *MediaHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var created []mediaView
	contentType := r.Header.Get("Content-Type")

	if mt, _, _ := mime.ParseMediaType(contentType); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		for _, files := range r.MultipartForm.File {
			for _, fh := range files {
				f, err := fh.Open()
				if err != nil {
					http.Error(w, "unreadable upload", http.StatusBadRequest)
					return
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					http.Error(w, "unreadable upload", http.StatusBadRequest)
					return
				}
				item, err := h.studio.Library().Add(data, fh.Header.Get("Content-Type"), model.ProvenanceUpload)
				if err != nil {
					http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
					return
				}
				h.studio.AddEvent("import", fh.Filename, item.MimeType)
				created = append(created, toView(item))
			}
		}
	} else {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unreadable upload", http.StatusBadRequest)
			return
		}
		item, err := h.studio.Library().Add(data, contentType, model.ProvenanceUpload)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		h.studio.AddEvent("import", item.ID, item.MimeType)
		created = append(created, toView(item))
	}

	if len(created) == 0 {
		http.Error(w, "no media in request", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleList returns the working set.
// GET /api/media
func (h *MediaHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items := h.studio.Library().List()
	views := make([]mediaView, 0, len(items))
	for _, m := range items {
		views = append(views, toView(m))
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleContent serves a media item's raw payload for SPA previews.
// GET /api/media/{id}/content
func (h *MediaHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	item, ok := h.studio.Library().Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "media not found", http.StatusNotFound)
		return
	}
	if len(item.Data) == 0 {
		// Cloud items carry no local payload; the SPA follows the URI.
		http.Redirect(w, r, item.URI, http.StatusTemporaryRedirect)
		return
	}
	w.Header().Set("Content-Type", item.MimeType)
	if _, err := w.Write(item.Data); err != nil {
		slog.Error("Failed to write media payload", "id", item.ID, "error", err)
	}
}

// HandleRemove deletes an item from the working set.
// DELETE /api/media/{id}
func (h *MediaHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.studio.Library().Remove(id); err != nil {
		http.Error(w, "media not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// generateRequest is shared by the image and video generation endpoints.
type generateRequest struct {
	Prompt string `json:"prompt"`
	Aspect string `json:"aspect,omitempty"`
}

// HandleGenerateImage creates a still via the image model and adds it to
// the library.
// POST /api/media/generate-image
func (h *MediaHandler) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	h.handleGenerate(w, r, h.generator.GenerateImage)
}

// HandleGenerateVideo creates a clip via the video model and adds it to
// the library. Polling runs inside the request; the SPA shows a spinner.
// POST /api/media/generate-video
func (h *MediaHandler) HandleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	h.handleGenerate(w, r, h.generator.GenerateVideo)
}

func (h *MediaHandler) handleGenerate(w http.ResponseWriter, r *http.Request, generate func(ctx context.Context, prompt, aspect string) (*model.MediaItem, error)) {
	if h.generator == nil {
		http.Error(w, "media generation not configured", http.StatusServiceUnavailable)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "prompt must not be empty", http.StatusBadRequest)
		return
	}

	item, err := generate(r.Context(), req.Prompt, req.Aspect)
	if err != nil {
		slog.Error("Media generation failed", "error", err)
		http.Error(w, "generation failed", http.StatusBadGateway)
		return
	}

	added, err := h.studio.Library().Add(item.Data, item.MimeType, model.ProvenanceGenerated)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.studio.AddEvent("generate", added.ID, req.Prompt)
	writeJSON(w, http.StatusCreated, toView(added))
}
