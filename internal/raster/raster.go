// Package raster converts SVG documents into static PNG or JPEG images.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"neoncrush/internal/render"
	"neoncrush/internal/services"
)

const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// Options selects the output encoding. Quality is 0-1 and only affects JPEG.
// Zero Width or Height keeps the document's natural size (800x600 when the
// document declares none).
type Options struct {
	Format  string
	Quality float64
	Width   int
	Height  int
}

// Rasterize renders the first frame of svg and encodes it. It returns the
// encoded bytes and their media type.
func Rasterize(ctx context.Context, renderer render.Renderer, svg []byte, opts Options) ([]byte, string, error) {
	format, mediaType, err := resolveFormat(opts.Format)
	if err != nil {
		return nil, "", err
	}

	session, err := renderer.Open(ctx, svg)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "raster", "open svg", "Source could not be rendered", err)
	}
	defer session.Close()

	width, height := render.SizeOrDefault(session)
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	frame, err := session.Capture(ctx, 0, width, height)
	if err != nil {
		return nil, "", services.Wrap(services.ErrExternalTool, "raster", "capture", "Rendering failed", err)
	}

	var buf bytes.Buffer
	encodeOpts := []imaging.EncodeOption{}
	if format == imaging.JPEG {
		encodeOpts = append(encodeOpts, imaging.JPEGQuality(JPEGQuality(opts.Quality)))
	}
	if err := imaging.Encode(&buf, frame, format, encodeOpts...); err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", mediaType, err)
	}
	return buf.Bytes(), mediaType, nil
}

// JPEGQuality maps a 0-1 quality to the 1-100 JPEG scale. Non-positive
// values use the encoder default of 92.
func JPEGQuality(quality float64) int {
	if quality <= 0 || math.IsNaN(quality) {
		return 92
	}
	return max(1, min(100, int(math.Round(quality*100))))
}

func resolveFormat(value string) (imaging.Format, string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "png", MediaTypePNG:
		return imaging.PNG, MediaTypePNG, nil
	case "jpg", "jpeg", MediaTypeJPEG:
		return imaging.JPEG, MediaTypeJPEG, nil
	}
	return 0, "", services.Wrap(services.ErrValidation, "raster", "resolve format",
		fmt.Sprintf("Unsupported raster format %q", value), nil)
}
