// Package library manages the session's media working set.
package library

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"recallgo/pkg/model"
)

// Library holds the imported and generated media items for one session.
// Items are immutable; the library only adds and removes whole items.
type Library struct {
	mu    sync.RWMutex
	items []model.MediaItem
}

// New creates an empty library.
func New() *Library {
	return &Library{}
}

// Add imports a raw payload as a new media item. The MIME type is sniffed
// from the payload when the declared type is missing or generic.
func (l *Library) Add(data []byte, declaredMIME string, source model.Provenance) (model.MediaItem, error) {
	if len(data) == 0 {
		return model.MediaItem{}, fmt.Errorf("empty media payload")
	}

	mime := declaredMIME
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "video/") {
		return model.MediaItem{}, fmt.Errorf("unsupported media type %q", mime)
	}

	item := model.MediaItem{
		ID:        uuid.NewString(),
		MimeType:  mime,
		CreatedAt: time.Now(),
		Source:    source,
		Data:      data,
	}
	item.URI = "media://" + item.ID

	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()

	return item, nil
}

// AddRemote registers an externally hosted item (cloud import) by URI,
// without a local payload.
func (l *Library) AddRemote(uri, mime string) (model.MediaItem, error) {
	if uri == "" {
		return model.MediaItem{}, fmt.Errorf("empty media URI")
	}
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "video/") {
		return model.MediaItem{}, fmt.Errorf("unsupported media type %q", mime)
	}

	item := model.MediaItem{
		ID:        uuid.NewString(),
		URI:       uri,
		MimeType:  mime,
		CreatedAt: time.Now(),
		Source:    model.ProvenanceCloud,
	}

	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()

	return item, nil
}

// Get returns the item with the given ID.
func (l *Library) Get(id string) (model.MediaItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.MediaItem{}, false
}

// Remove deletes the item with the given ID.
func (l *Library) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("media item %s not found", id)
}

// List returns the items in import order.
func (l *Library) List() []model.MediaItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.MediaItem, len(l.items))
	copy(out, l.items)
	return out
}

// Count returns the number of items.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Clear removes all items.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}
