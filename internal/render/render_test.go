package render_test

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"neoncrush/internal/config"
	"neoncrush/internal/deps"
	"neoncrush/internal/logging"
	"neoncrush/internal/render"
	"neoncrush/internal/services"
)

const redSquare = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20" viewBox="0 0 40 20"><rect x="0" y="0" width="20" height="20" fill="#ff0000"/></svg>`

func TestNaturalSize(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		wantW int
		wantH int
	}{
		{"explicit pixels", `<svg width="120" height="80"/>`, 120, 80},
		{"px suffix", `<svg width="120px" height="80.4px"/>`, 120, 80},
		{"inches", `<svg width="1in" height="0.5in"/>`, 96, 48},
		{"viewBox only", `<svg viewBox="0 0 300 150"/>`, 300, 150},
		{"viewBox commas", `<svg viewBox="0,0,64,32"/>`, 64, 32},
		{"percent uses viewBox", `<svg width="100%" height="100%" viewBox="0 0 50 25"/>`, 50, 25},
		{"width keeps aspect", `<svg width="200" viewBox="0 0 100 50"/>`, 200, 100},
		{"height keeps aspect", `<svg height="100" viewBox="0 0 100 50"/>`, 200, 100},
		{"unknown", `<svg/>`, 0, 0},
		{"xml declaration", `<?xml version="1.0"?><!-- c --><svg width="10" height="12"/>`, 10, 12},
		{"not xml", `hello`, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := render.NaturalSize([]byte(tc.doc))
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("NaturalSize = %dx%d, want %dx%d", w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestStaticCaptureDrawsContent(t *testing.T) {
	ctx := context.Background()
	session, err := render.NewStatic(logging.NewNop()).Open(ctx, []byte(redSquare))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	if w, h := session.Size(); w != 40 || h != 20 {
		t.Fatalf("Size = %dx%d, want 40x20", w, h)
	}

	frame, err := session.Capture(ctx, 0, 80, 40)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if b := frame.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Fatalf("unexpected bounds %v", b)
	}
	r, g, b, _ := frame.At(10, 20).RGBA()
	if r>>8 < 200 || g>>8 > 50 || b>>8 > 50 {
		t.Fatalf("expected red inside the rect, got %v", frame.At(10, 20))
	}
	if got := color.RGBAModel.Convert(frame.At(70, 20)).(color.RGBA); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Fatalf("expected white background, got %v", got)
	}
}

func TestStaticCaptureRejectsBadSize(t *testing.T) {
	ctx := context.Background()
	session, err := render.NewStatic(nil).Open(ctx, []byte(redSquare))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()
	if _, err := session.Capture(ctx, 0, 0, 10); !errors.Is(err, render.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestStaticCaptureHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	session, err := render.NewStatic(nil).Open(ctx, []byte(redSquare))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cancel()
	if _, err := session.Capture(ctx, 0, 10, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSizeOrDefault(t *testing.T) {
	session, err := render.NewStatic(nil).Open(context.Background(), []byte(`<svg xmlns="http://www.w3.org/2000/svg"><circle r="3"/></svg>`))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if w, h := render.SizeOrDefault(session); w != render.DefaultWidth || h != render.DefaultHeight {
		t.Fatalf("SizeOrDefault = %dx%d", w, h)
	}
}

func TestSelectStatic(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendStatic
	r, err := render.Select(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if r.Name() != "static" {
		t.Fatalf("expected static renderer, got %s", r.Name())
	}
}

func TestSelectAutoFallsBackWithoutChrome(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.Default()
	cfg.Renderer.ChromePath = "missing-browser"
	r, err := render.Select(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if r.Name() != "static" {
		t.Fatalf("expected static fallback, got %s", r.Name())
	}
}

func TestSelectChromeRequiresBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendChrome
	cfg.Renderer.ChromePath = "missing-browser"
	_, err := render.Select(context.Background(), &cfg, nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestChromeScrubsSMILTimeline(t *testing.T) {
	status := deps.CheckChrome("chromium")
	if !status.Available {
		t.Skip("chrome not installed")
	}
	doc := `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
<rect width="20" height="20" fill="#000000">
<set attributeName="fill" to="#ffffff" begin="1s" dur="1s"/>
</rect></svg>`
	ctx := context.Background()
	session, err := render.NewChrome(render.ChromeOptions{ExecPath: status.Path}).Open(ctx, []byte(doc))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer session.Close()

	before, err := session.Capture(ctx, 500, 20, 20)
	if err != nil {
		t.Fatalf("Capture before: %v", err)
	}
	during, err := session.Capture(ctx, 1500, 20, 20)
	if err != nil {
		t.Fatalf("Capture during: %v", err)
	}
	r0, _, _, _ := before.At(10, 10).RGBA()
	r1, _, _, _ := during.At(10, 10).RGBA()
	if r0>>8 > 30 || r1>>8 < 220 {
		t.Fatalf("expected black then white, got %d then %d", r0>>8, r1>>8)
	}
}
