package pipeline

import (
	"fmt"

	"neoncrush/internal/animation"
	"neoncrush/internal/config"
	"neoncrush/internal/raster"
	"neoncrush/internal/services"
)

// Settings is the user-confirmed conversion request.
type Settings struct {
	Action animation.Action

	// GIF settings.
	DurationSeconds int
	FPS             int
	TargetSizeMB    float64
	GIFQuality      int

	// Raster settings. RasterQuality is 0-1 and only affects JPEG.
	RasterFormat  string
	RasterQuality float64
}

// DefaultSettings builds the pre-filled settings for a recommendation. The
// detected duration wins over the configured fallback.
func DefaultSettings(cfg *config.Config, rec animation.Recommendation) Settings {
	duration := rec.DurationSeconds
	if duration <= 0 {
		duration = cfg.GIF.DurationSeconds
	}
	return Settings{
		Action:          rec.Action,
		DurationSeconds: duration,
		FPS:             cfg.GIF.FPS,
		TargetSizeMB:    cfg.GIF.TargetSizeMB,
		GIFQuality:      cfg.GIF.Quality,
		RasterFormat:    cfg.Raster.Format,
		RasterQuality:   cfg.Raster.Quality,
	}
}

// Validate checks the fields the selected action uses.
func (s Settings) Validate() error {
	switch s.Action {
	case animation.ActionMinify:
		return nil
	case animation.ActionRaster:
		switch s.RasterFormat {
		case "", raster.MediaTypePNG, raster.MediaTypeJPEG:
		default:
			return invalid(fmt.Sprintf("raster format %q is not supported", s.RasterFormat))
		}
		if s.RasterQuality < 0 || s.RasterQuality > 1 {
			return invalid("raster quality must be between 0 and 1")
		}
		return nil
	case animation.ActionGIF:
		if s.DurationSeconds <= 0 {
			return invalid("duration must be positive")
		}
		if s.FPS <= 0 {
			return invalid("fps must be positive")
		}
		if s.TargetSizeMB <= 0 {
			return invalid("target size must be positive")
		}
		if s.GIFQuality < 1 || s.GIFQuality > 100 {
			return invalid("gif quality must be between 1 and 100")
		}
		return nil
	}
	return invalid(fmt.Sprintf("unknown action %q", s.Action))
}

func invalid(message string) error {
	return services.Wrap(services.ErrValidation, "pipeline", "validate settings", message, nil)
}
