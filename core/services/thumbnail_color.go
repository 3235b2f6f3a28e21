// ABOUTME: Thumbnail color extraction service for extracting prominent colors from cached images
// ABOUTME: Uses K-means clustering to find the most prominent color in thumbnail bytes

package services

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp" // WebP support

	"digests-app-cache/core/domain"
	"digests-app-cache/core/interfaces"
)

const defaultColorValue = 128

// ThumbnailColorService extracts the prominent color from cached
// thumbnail bytes so the UI can tint placeholders while images load.
type ThumbnailColorService struct {
	deps interfaces.Dependencies
}

// NewThumbnailColorService creates a new thumbnail color service
func NewThumbnailColorService(deps interfaces.Dependencies) *ThumbnailColorService {
	return &ThumbnailColorService{deps: deps}
}

// DefaultColor returns the neutral gray used when extraction fails.
func (s *ThumbnailColorService) DefaultColor() *domain.RGBColor {
	return &domain.RGBColor{R: defaultColorValue, G: defaultColorValue, B: defaultColorValue}
}

// ExtractColor extracts the prominent color from raw image bytes.
// SVG and undecodable data return an error; callers typically fall back
// to DefaultColor.
func (s *ThumbnailColorService) ExtractColor(data []byte) (color *domain.RGBColor, err error) {
	// The clustering library can panic on degenerate images.
	defer func() {
		if rec := recover(); rec != nil {
			s.deps.Logger.Debug("Recovered from panic in color extraction", map[string]interface{}{
				"panic": fmt.Sprintf("%v", rec),
			})
			color = nil
			err = fmt.Errorf("panic recovered: %v", rec)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("no image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has empty bounds")
	}

	imgNRGBA := image.NewNRGBA(bounds)
	draw.Draw(imgNRGBA, bounds, img, bounds.Min, draw.Src)

	colors, err := prominentcolor.KmeansWithAll(
		prominentcolor.DefaultK,
		imgNRGBA,
		prominentcolor.ArgumentDefault,
		prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks(),
	)

	// Masked extraction fails on images that are entirely background;
	// retry without masks before giving up.
	if err != nil || len(colors) == 0 {
		colors, err = prominentcolor.KmeansWithAll(
			prominentcolor.DefaultK,
			imgNRGBA,
			prominentcolor.ArgumentDefault,
			prominentcolor.DefaultSize,
			nil,
		)
		if err != nil || len(colors) == 0 {
			return nil, fmt.Errorf("no colors extracted from image")
		}
	}

	return &domain.RGBColor{
		R: uint8(colors[0].Color.R),
		G: uint8(colors[0].Color.G),
		B: uint8(colors[0].Color.B),
	}, nil
}
