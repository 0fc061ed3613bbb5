package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"neoncrush/internal/logging"
	"neoncrush/internal/services"
)

// Static rasterizes SVG vector content without a browser. It has no notion of
// time, so every capture of a session produces the same frame.
type Static struct {
	logger *slog.Logger
}

// NewStatic constructs the browserless renderer.
func NewStatic(logger *slog.Logger) *Static {
	return &Static{logger: logging.NewComponentLogger(logger, "render-static")}
}

// Name identifies the engine in logs and history.
func (s *Static) Name() string { return "static" }

// Open parses the document. Unsupported elements are skipped rather than
// failing the whole document.
func (s *Static) Open(ctx context.Context, svg []byte) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "parse svg", "Document is not a readable SVG", err)
	}
	width, height := NaturalSize(svg)
	if width <= 0 && height <= 0 {
		width, height = int(icon.ViewBox.W+0.5), int(icon.ViewBox.H+0.5)
	}
	logging.WithContext(ctx, s.logger).Debug("svg opened",
		logging.Int("width", width),
		logging.Int("height", height),
	)
	return &staticSession{icon: icon, width: width, height: height}, nil
}

type staticSession struct {
	mu     sync.Mutex
	icon   *oksvg.SvgIcon
	width  int
	height int
}

func (s *staticSession) Size() (int, int) { return s.width, s.height }

// Capture draws the document over a white background so transparent regions
// stay light after palette quantization.
func (s *staticSession) Capture(ctx context.Context, _ float64, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture %dx%d: %w", width, height, ErrInvalidSize)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.icon == nil {
		return nil, fmt.Errorf("capture: session closed")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	s.icon.SetTarget(0, 0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	s.icon.Draw(raster, 1.0)
	return img, nil
}

func (s *staticSession) Close() error {
	s.mu.Lock()
	s.icon = nil
	s.mu.Unlock()
	return nil
}
