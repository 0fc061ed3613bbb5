package gifcodec

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func gradientFrame(w, h, shift int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8((x + shift) * 255 / w), G: uint8(y * 255 / h), B: uint8(shift * 40), A: 255})
		}
	}
	return img
}

func TestPaletteSize(t *testing.T) {
	cases := map[int]int{-5: 256, 1: 256, 2: 248, 10: 184, 30: 24, 99: 24}
	for quality, want := range cases {
		if got := PaletteSize(quality); got != want {
			t.Errorf("PaletteSize(%d) = %d, want %d", quality, got, want)
		}
	}
}

func TestSampleScale(t *testing.T) {
	if SampleScale(1) != 1 {
		t.Fatalf("SampleScale(1) = %v", SampleScale(1))
	}
	if got := SampleScale(4); got != 0.5 {
		t.Fatalf("SampleScale(4) = %v, want 0.5", got)
	}
	if SampleScale(30) >= SampleScale(10) {
		t.Fatal("sample scale should shrink as quality grows")
	}
}

func TestDelayCentis(t *testing.T) {
	cases := map[int]int{10: 10, 15: 7, 30: 3, 60: 2, 100: 2, 0: 2}
	for fps, want := range cases {
		if got := DelayCentis(fps); got != want {
			t.Errorf("DelayCentis(%d) = %d, want %d", fps, got, want)
		}
	}
}

func TestEncodeProducesOrderedAnimation(t *testing.T) {
	frames := []image.Image{gradientFrame(32, 16, 0), gradientFrame(32, 16, 1), gradientFrame(32, 16, 2), gradientFrame(32, 16, 3)}
	var calls []int
	data, err := Encode(context.Background(), frames, Options{Quality: 10, DelayCentis: 7, Workers: 2}, func(done, total int) {
		if total != len(frames) {
			t.Errorf("unexpected total %d", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(decoded.Image))
	}
	for i, delay := range decoded.Delay {
		if delay != 7 {
			t.Fatalf("frame %d delay = %d, want 7", i, delay)
		}
	}
	if decoded.LoopCount != 0 {
		t.Fatalf("expected infinite loop, got %d", decoded.LoopCount)
	}
	if decoded.Config.Width != 32 || decoded.Config.Height != 16 {
		t.Fatalf("unexpected size %dx%d", decoded.Config.Width, decoded.Config.Height)
	}
	if len(calls) != len(frames) {
		t.Fatalf("expected %d progress calls, got %v", len(frames), calls)
	}
	for i, done := range calls {
		if done != i+1 {
			t.Fatalf("progress not monotonic: %v", calls)
		}
	}
}

func TestHigherQualityValueShrinksOutput(t *testing.T) {
	frames := make([]image.Image, 0, 6)
	for i := 0; i < 6; i++ {
		frames = append(frames, gradientFrame(96, 96, i))
	}
	best, err := Encode(context.Background(), frames, Options{Quality: 1, DelayCentis: 10}, nil)
	if err != nil {
		t.Fatalf("Encode best: %v", err)
	}
	smallest, err := Encode(context.Background(), frames, Options{Quality: 30, DelayCentis: 10}, nil)
	if err != nil {
		t.Fatalf("Encode smallest: %v", err)
	}
	if len(smallest) >= len(best) {
		t.Fatalf("expected quality 30 (%d bytes) to be smaller than quality 1 (%d bytes)", len(smallest), len(best))
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(context.Background(), nil, Options{}, nil); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Encode(ctx, []image.Image{gradientFrame(4, 4, 0)}, Options{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := Encode(context.Background(), []image.Image{nil}, Options{}, nil); err == nil {
		t.Fatal("expected error for nil frame")
	}
}
