package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPrepareForLLM_Scales4K(t *testing.T) {
	data, mime, err := PrepareForLLM(encodeTestPNG(t, 3840, 2160))
	if err != nil {
		t.Fatalf("PrepareForLLM failed: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", mime)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JPEG data")
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode output JPEG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() > maxWidth || b.Dy() > maxHeight {
		t.Errorf("output too large: %dx%d", b.Dx(), b.Dy())
	}
}

func TestPrepareForLLM_SmallImageNoUpscale(t *testing.T) {
	data, _, err := PrepareForLLM(encodeTestPNG(t, 320, 240))
	if err != nil {
		t.Fatalf("PrepareForLLM failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode output JPEG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("small image was resized: %dx%d", b.Dx(), b.Dy())
	}
}

func TestPrepareForLLM_InvalidInput(t *testing.T) {
	if _, _, err := PrepareForLLM([]byte("not an image")); err == nil {
		t.Error("expected error for invalid image data")
	}
}
