package raster_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"neoncrush/internal/raster"
	"neoncrush/internal/render"
	"neoncrush/internal/services"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="30" height="20"><rect width="30" height="20" fill="#0000ff"/></svg>`

func TestRasterizePNG(t *testing.T) {
	data, mediaType, err := raster.Rasterize(context.Background(), render.NewStatic(nil), []byte(square), raster.Options{})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if mediaType != raster.MediaTypePNG {
		t.Fatalf("unexpected media type %q", mediaType)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 30, 20) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestRasterizeJPEGWithSize(t *testing.T) {
	data, mediaType, err := raster.Rasterize(context.Background(), render.NewStatic(nil), []byte(square), raster.Options{
		Format:  "image/jpeg",
		Quality: 0.5,
		Width:   60,
		Height:  40,
	})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if mediaType != raster.MediaTypeJPEG {
		t.Fatalf("unexpected media type %q", mediaType)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 40 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}

func TestRasterizeDefaultsCanvas(t *testing.T) {
	data, _, err := raster.Rasterize(context.Background(), render.NewStatic(nil), []byte(`<svg xmlns="http://www.w3.org/2000/svg"><circle r="5"/></svg>`), raster.Options{Format: "png"})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("expected 800x600 default canvas, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRasterizeRejectsUnknownFormat(t *testing.T) {
	_, _, err := raster.Rasterize(context.Background(), render.NewStatic(nil), []byte(square), raster.Options{Format: "image/webp"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJPEGQuality(t *testing.T) {
	cases := map[float64]int{0: 92, -1: 92, 0.005: 1, 0.5: 50, 0.92: 92, 1: 100, 3: 100}
	for in, want := range cases {
		if got := raster.JPEGQuality(in); got != want {
			t.Errorf("JPEGQuality(%v) = %d, want %d", in, got, want)
		}
	}
}
