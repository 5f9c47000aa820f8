package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"golang.org/x/image/draw"
)

const (
	maxWidth    = 1280
	maxHeight   = 1280
	jpegQuality = 85
)

// PrepareForLLM decodes an uploaded image, scales it to fit within
// 1280x1280, and returns JPEG bytes suitable for inlining into a prompt.
// The stored original is not modified.
func PrepareForLLM(data []byte) (out []byte, mimeType string, err error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := scaleToFit(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
	}

	return buf.Bytes(), "image/jpeg", nil
}

// scaleToFit scales the image to fit within maxWidth x maxHeight, preserving aspect ratio.
// Does not upscale.
func scaleToFit(img image.Image) image.Image {
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()

	if w <= maxWidth && h <= maxHeight {
		return img
	}

	ratio := float64(maxWidth) / float64(w)
	if rh := float64(maxHeight) / float64(h); rh < ratio {
		ratio = rh
	}

	newW := int(float64(w) * ratio)
	newH := int(float64(h) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
