package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digests-app-cache/core/interfaces"
)

func newColorService() *ThumbnailColorService {
	return NewThumbnailColorService(interfaces.Dependencies{Logger: nopLogger{}})
}

// solidPNG renders a uniform-color PNG for extraction tests.
func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractColor_SolidRed(t *testing.T) {
	s := newColorService()

	got, err := s.ExtractColor(solidPNG(t, color.RGBA{R: 200, G: 30, B: 30, A: 255}))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Greater(t, got.R, got.G, "red channel should dominate")
	assert.Greater(t, got.R, got.B, "red channel should dominate")
}

func TestExtractColor_EmptyData(t *testing.T) {
	s := newColorService()

	got, err := s.ExtractColor(nil)

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestExtractColor_UndecodableData(t *testing.T) {
	s := newColorService()

	got, err := s.ExtractColor([]byte("<svg>not a raster image</svg>"))

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestDefaultColor(t *testing.T) {
	s := newColorService()

	got := s.DefaultColor()

	require.NotNil(t, got)
	assert.EqualValues(t, 128, got.R)
	assert.EqualValues(t, 128, got.G)
	assert.EqualValues(t, 128, got.B)
}
