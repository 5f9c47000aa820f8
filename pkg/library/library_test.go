package library

import (
	"testing"

	"recallgo/pkg/model"
)

// pngHeader is enough of a PNG signature for MIME sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestAdd_SniffsMIME(t *testing.T) {
	l := New()

	item, err := l.Add(pngHeader, "", model.ProvenanceUpload)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if item.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", item.MimeType)
	}
	if item.ID == "" {
		t.Error("expected a generated ID")
	}
	if item.URI != "media://"+item.ID {
		t.Errorf("URI = %q", item.URI)
	}
	if item.Source != model.ProvenanceUpload {
		t.Errorf("Source = %q", item.Source)
	}
}

func TestAdd_DeclaredMIMEWins(t *testing.T) {
	l := New()

	item, err := l.Add([]byte("fake video bytes"), "video/mp4", model.ProvenanceUpload)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if item.MimeType != "video/mp4" {
		t.Errorf("MimeType = %q, want video/mp4", item.MimeType)
	}
	if !item.IsVideo() {
		t.Error("IsVideo() = false for video/mp4")
	}
}

func TestAdd_RejectsNonMedia(t *testing.T) {
	l := New()

	if _, err := l.Add([]byte("plain text content here"), "", model.ProvenanceUpload); err == nil {
		t.Error("expected error for non-media payload")
	}
	if _, err := l.Add(nil, "image/png", model.ProvenanceUpload); err == nil {
		t.Error("expected error for empty payload")
	}
	if l.Count() != 0 {
		t.Errorf("Count() = %d after rejected adds", l.Count())
	}
}

func TestAddRemote(t *testing.T) {
	l := New()

	item, err := l.AddRemote("https://example.com/trip/1.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("AddRemote() error = %v", err)
	}
	if item.Source != model.ProvenanceCloud {
		t.Errorf("Source = %q, want cloud", item.Source)
	}
	if len(item.Data) != 0 {
		t.Error("remote item should carry no payload")
	}

	if _, err := l.AddRemote("", "image/jpeg"); err == nil {
		t.Error("expected error for empty URI")
	}
}

func TestRemove(t *testing.T) {
	l := New()
	a, _ := l.Add(pngHeader, "image/png", model.ProvenanceUpload)
	b, _ := l.Add(pngHeader, "image/png", model.ProvenanceUpload)

	if err := l.Remove(a.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if l.Count() != 1 {
		t.Errorf("Count() = %d, want 1", l.Count())
	}
	if _, ok := l.Get(a.ID); ok {
		t.Error("removed item still present")
	}
	if _, ok := l.Get(b.ID); !ok {
		t.Error("remaining item missing")
	}

	if err := l.Remove("nonexistent"); err == nil {
		t.Error("expected error removing unknown ID")
	}
}

func TestList_PreservesOrderAndCopies(t *testing.T) {
	l := New()
	a, _ := l.Add(pngHeader, "image/png", model.ProvenanceUpload)
	b, _ := l.Add(pngHeader, "image/png", model.ProvenanceUpload)

	items := l.List()
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != b.ID {
		t.Fatal("List() order does not match import order")
	}

	// Mutating the returned slice must not affect the library
	items[0] = model.MediaItem{}
	if got, _ := l.Get(a.ID); got.ID != a.ID {
		t.Error("library state mutated through List() result")
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.Add(pngHeader, "image/png", model.ProvenanceUpload)
	l.Clear()
	if l.Count() != 0 {
		t.Errorf("Count() = %d after Clear", l.Count())
	}
}
