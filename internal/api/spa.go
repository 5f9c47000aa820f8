package api

import (
	"net/http"
	"os"
)

// spaFileSystem implements http.FileSystem and cleanly handles SPA routing
// by falling back to index.html for non-existent files.
type spaFileSystem struct {
	root http.FileSystem
}

// Open opens the named file. Missing files fall back to index.html so
// client-side routes survive a full page reload.
func (s *spaFileSystem) Open(name string) (http.File, error) {
	f, err := s.root.Open(name)
	if os.IsNotExist(err) {
		return s.root.Open("index.html")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
