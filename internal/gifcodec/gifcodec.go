package gifcodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"math"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/sync/errgroup"
)

const (
	// MinQuality is the best encoder quality.
	MinQuality = 1
	// MaxQuality is the most aggressive encoder quality.
	MaxQuality = 30
	// MediaType is the MIME type of the encoded output.
	MediaType = "image/gif"

	minPaletteSize  = 16
	maxPaletteSize  = 256
	ditherThreshold = 10
	// Browsers clamp frame delays below 20ms to 100ms.
	minDelayCentis = 2
)

// ErrNoFrames is returned when Encode is called without frames.
var ErrNoFrames = errors.New("no frames to encode")

// Options controls a single encode.
type Options struct {
	Quality     int
	DelayCentis int
	// Workers bounds concurrent palette builds. Zero uses GOMAXPROCS.
	Workers int
	// Loop is the GIF loop count; 0 loops forever.
	Loop int
}

// ProgressFunc receives the number of frames quantized so far. Calls are
// serialized and done never decreases.
type ProgressFunc func(done, total int)

// DelayCentis converts a frame rate to a GIF frame delay.
func DelayCentis(fps int) int {
	if fps <= 0 {
		return minDelayCentis
	}
	delay := int(math.Round(100 / float64(fps)))
	if delay < minDelayCentis {
		return minDelayCentis
	}
	return delay
}

// PaletteSize returns the number of colors used at the given quality.
func PaletteSize(quality int) int {
	quality = clampQuality(quality)
	size := maxPaletteSize - (quality-1)*8
	if size < minPaletteSize {
		return minPaletteSize
	}
	return size
}

// SampleScale returns the linear downsampling factor applied to a frame
// before its palette is built.
func SampleScale(quality int) float64 {
	return 1 / math.Sqrt(float64(clampQuality(quality)))
}

func clampQuality(quality int) int {
	if quality < MinQuality {
		return MinQuality
	}
	if quality > MaxQuality {
		return MaxQuality
	}
	return quality
}

// Encode quantizes frames concurrently and writes them in order as an
// animated GIF. The context is checked before every frame.
func Encode(ctx context.Context, frames []image.Image, opts Options, onProgress ProgressFunc) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	quality := clampQuality(opts.Quality)
	delay := opts.DelayCentis
	if delay < minDelayCentis {
		delay = minDelayCentis
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	paletted := make([]*image.Paletted, len(frames))
	var (
		mu   sync.Mutex
		done int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, frame := range frames {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			if frame == nil {
				return fmt.Errorf("frame %d is nil", i)
			}
			paletted[i] = quantizeFrame(frame, quality)
			if onProgress != nil {
				mu.Lock()
				done++
				onProgress(done, len(frames))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	anim := &gif.GIF{
		Image:     paletted,
		Delay:     make([]int, len(paletted)),
		LoopCount: opts.Loop,
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("write gif: %w", err)
	}
	return buf.Bytes(), nil
}

func quantizeFrame(frame image.Image, quality int) *image.Paletted {
	bounds := frame.Bounds()
	sample := frame
	if quality > MinQuality {
		scale := SampleScale(quality)
		w := max(1, int(math.Round(float64(bounds.Dx())*scale)))
		h := max(1, int(math.Round(float64(bounds.Dy())*scale)))
		sample = imaging.Resize(frame, w, h, imaging.Box)
	}

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, PaletteSize(quality)), sample)
	if len(palette) == 0 {
		palette = color.Palette{color.Black, color.White}
	}

	dst := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette)
	if quality <= ditherThreshold {
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), frame, bounds.Min)
	} else {
		draw.Draw(dst, dst.Bounds(), frame, bounds.Min, draw.Src)
	}
	return dst
}
