package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGIF(); err != nil {
		return err
	}
	if err := c.validateRaster(); err != nil {
		return err
	}
	if err := c.validateRenderer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGIF() error {
	if err := ensurePositiveMap(map[string]int{
		"gif.fps":              c.GIF.FPS,
		"gif.duration_seconds": c.GIF.DurationSeconds,
		"gif.max_attempts":     c.GIF.MaxAttempts,
		"gif.quality_step":     c.GIF.QualityStep,
	}); err != nil {
		return err
	}
	if c.GIF.TargetSizeMB <= 0 {
		return errors.New("gif.target_size_mb must be positive")
	}
	if c.GIF.Quality < 1 || c.GIF.Quality > 100 {
		return errors.New("gif.quality must be between 1 and 100")
	}
	if c.GIF.ScaleRatio <= 0 || c.GIF.ScaleRatio >= 1 {
		return errors.New("gif.scale_ratio must be greater than 0 and less than 1")
	}
	return nil
}

func (c *Config) validateRaster() error {
	switch c.Raster.Format {
	case "image/png", "image/jpeg":
	default:
		return fmt.Errorf("raster.format %q is not supported (use image/png or image/jpeg)", c.Raster.Format)
	}
	if c.Raster.Quality <= 0 || c.Raster.Quality > 1 {
		return errors.New("raster.quality must be greater than 0 and at most 1")
	}
	return nil
}

func (c *Config) validateRenderer() error {
	switch c.Renderer.Backend {
	case BackendAuto, BackendChrome, BackendStatic:
	default:
		return fmt.Errorf("renderer.backend %q is not supported (use auto, chrome, or static)", c.Renderer.Backend)
	}
	if c.Renderer.Backend == BackendChrome && c.Renderer.ChromePath == "" {
		return errors.New("renderer.chrome_path must be set when renderer.backend is chrome")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
