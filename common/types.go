// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// FrameEvent is the payload of the engine's enter-frame signal.
type FrameEvent struct {
	// Frame is the zero-based index of the frame being entered.
	Frame uint64
	// DeltaTime is the time elapsed since the previous frame, in seconds.
	DeltaTime float32
}

// Image is decoded RGBA pixel data ready for a texture upload.
type Image struct {
	// Pixels holds 4 bytes per pixel in row-major order.
	Pixels []byte
	// Width is the image width in pixels.
	Width uint32
	// Height is the image height in pixels.
	Height uint32
}

// DecodeImage decodes a PNG or JPEG stream to RGBA pixels.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - Image: the decoded pixels
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return Image{Pixels: rgba.Pix, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}, nil
}

// LoadImage decodes the PNG or JPEG file at path.
//
// Parameters:
//   - path: the image file
//
// Returns:
//   - Image: the decoded pixels
//   - error: error if the file cannot be read or decoded
func LoadImage(path string) (Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	img, err := DecodeImage(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
