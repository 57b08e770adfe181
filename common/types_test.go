package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeChecker(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage(bytes.NewReader(encodeChecker(t)))
	require.NoError(t, err)

	assert.Equal(t, uint32(2), img.Width)
	assert.Equal(t, uint32(2), img.Height)
	require.Len(t, img.Pixels, 16)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, img.Pixels[12:16])

	_, err = DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checker.png")
	require.NoError(t, os.WriteFile(path, encodeChecker(t), 0o644))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), img.Width)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorContains(t, err, "missing.png")
}
