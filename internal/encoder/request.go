package encoder

import (
	"errors"
	"fmt"
	"math"

	"neoncrush/internal/services"
)

const (
	// BytesPerMB converts encoded sizes to the megabytes used by targets.
	BytesPerMB = 1024 * 1024
	// LongAnimationSeconds is the duration above which the fps guard applies.
	LongAnimationSeconds = 10
	// MaxLongAnimationFPS is the frame rate long animations are clamped to.
	MaxLongAnimationFPS = 15
)

// ErrInvalidRequest tags requests that cannot be encoded.
var ErrInvalidRequest = errors.New("invalid encode request")

// Request describes one encode. Quality is on the user scale: 1 (worst) to
// 100 (best).
type Request struct {
	Source          []byte
	DurationSeconds int
	FPS             int
	TargetSizeMB    float64
	Quality         int
}

// Validate reports the first unusable field.
func (r Request) Validate() error {
	var problem string
	switch {
	case len(r.Source) == 0:
		problem = "source is empty"
	case r.DurationSeconds <= 0:
		problem = fmt.Sprintf("duration must be positive (got %d)", r.DurationSeconds)
	case r.FPS <= 0:
		problem = fmt.Sprintf("fps must be positive (got %d)", r.FPS)
	case r.TargetSizeMB <= 0 || math.IsNaN(r.TargetSizeMB):
		problem = fmt.Sprintf("target size must be positive (got %g)", r.TargetSizeMB)
	case r.Quality < 1 || r.Quality > 100:
		problem = fmt.Sprintf("quality must be between 1 and 100 (got %d)", r.Quality)
	default:
		return nil
	}
	return services.Wrap(services.ErrValidation, "encode", "validate request", problem, ErrInvalidRequest)
}

// EffectiveFPS applies the long-animation guard: animations longer than 10
// seconds are capped at 15 fps to bound the frame buffer.
func EffectiveFPS(durationSeconds, fps int) int {
	if durationSeconds > LongAnimationSeconds && fps > MaxLongAnimationFPS {
		return MaxLongAnimationFPS
	}
	return fps
}

// MapQuality converts the user quality scale (1-100, higher is better) to
// the encoder scale (1-30, lower is better).
func MapQuality(userQuality int) int {
	mapped := int(math.Round(1 + float64(100-userQuality)*0.29))
	return max(1, min(30, mapped))
}

// MaxDimension returns the largest allowed starting width or height for an
// animation of the given length.
func MaxDimension(durationSeconds int) int {
	switch {
	case durationSeconds > 20:
		return 500
	case durationSeconds > 10:
		return 600
	default:
		return 800
	}
}

// InitialScale returns the starting scale factor for a source of the given
// natural size.
func InitialScale(width, height, durationSeconds int) float64 {
	largest := max(width, height)
	limit := MaxDimension(durationSeconds)
	if largest > limit {
		return float64(limit) / float64(largest)
	}
	return 1.0
}

// scaledSize rounds natural dimensions by scale, never below one pixel.
func scaledSize(width, height int, scale float64) (int, int) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	return max(1, w), max(1, h)
}
