package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGIF()
	c.normalizeRaster()
	c.normalizeRenderer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGIF() {
	if c.GIF.MaxAttempts == 0 {
		c.GIF.MaxAttempts = defaultMaxAttempts
	}
	if c.GIF.ScaleRatio == 0 {
		c.GIF.ScaleRatio = defaultScaleRatio
	}
	if c.GIF.QualityStep == 0 {
		c.GIF.QualityStep = defaultQualityStep
	}
	if c.GIF.Workers < 0 {
		c.GIF.Workers = 0
	}
}

func (c *Config) normalizeRaster() {
	format := strings.ToLower(strings.TrimSpace(c.Raster.Format))
	switch format {
	case "", "png", "image/png":
		c.Raster.Format = "image/png"
	case "jpg", "jpeg", "image/jpg", "image/jpeg":
		c.Raster.Format = "image/jpeg"
	default:
		c.Raster.Format = format
	}
}

func (c *Config) normalizeRenderer() {
	c.Renderer.Backend = strings.ToLower(strings.TrimSpace(c.Renderer.Backend))
	if c.Renderer.Backend == "" {
		c.Renderer.Backend = defaultRendererBackend
	}
	c.Renderer.ChromePath = strings.TrimSpace(c.Renderer.ChromePath)
	if value, ok := os.LookupEnv("NEONCRUSH_CHROME_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Renderer.ChromePath = strings.TrimSpace(value)
	} else if c.Renderer.ChromePath == "" {
		if value, ok := os.LookupEnv("CHROME_PATH"); ok && strings.TrimSpace(value) != "" {
			c.Renderer.ChromePath = strings.TrimSpace(value)
		} else {
			c.Renderer.ChromePath = defaultChromePath
		}
	}
	if c.Renderer.SettleMillis < 0 {
		c.Renderer.SettleMillis = 0
	}
	if c.Renderer.TimeoutSeconds <= 0 {
		c.Renderer.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
