package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// GIF contains defaults and tuning for the adaptive GIF encoder.
type GIF struct {
	FPS             int     `toml:"fps"`
	DurationSeconds int     `toml:"duration_seconds"`
	TargetSizeMB    float64 `toml:"target_size_mb"`
	Quality         int     `toml:"quality"`
	// MaxAttempts bounds the retry loop. Default: 3
	MaxAttempts int `toml:"max_attempts"`
	// ScaleRatio multiplies the scale factor after an oversized attempt. Default: 0.75
	ScaleRatio float64 `toml:"scale_ratio"`
	// QualityStep is added to the encoder quality after an oversized attempt. Default: 5
	QualityStep int `toml:"quality_step"`
	// Workers limits concurrent palette quantization. 0 uses GOMAXPROCS.
	Workers int `toml:"workers"`
}

// Raster contains defaults for static PNG/JPEG conversion.
type Raster struct {
	Format  string  `toml:"format"`
	Quality float64 `toml:"quality"`
}

// Renderer selects and configures the SVG rendering engine.
type Renderer struct {
	Backend        string `toml:"backend"`
	ChromePath     string `toml:"chrome_path"`
	SettleMillis   int    `toml:"settle_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// History controls the local run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for neoncrush.
//
// Configuration sections by subsystem:
//   - Paths: output, log, and state directories
//   - GIF: animated GIF defaults and retry-loop tuning
//   - Raster: PNG/JPEG conversion defaults
//   - Renderer: SVG rendering backend selection
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	GIF      GIF      `toml:"gif"`
	Raster   Raster   `toml:"raster"`
	Renderer Renderer `toml:"renderer"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/neoncrush/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("neoncrush.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. The output
// directory is created lazily when the first result is written.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir, c.LockDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockDir returns the directory holding per-source encode locks.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StateDir, "locks")
}

// HistoryPath returns the SQLite database path for run history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// SettleDelay returns the renderer settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Renderer.SettleMillis) * time.Millisecond
}

// RenderTimeout returns the per-session renderer timeout.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Renderer.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Tuning holds the adaptive encoder's retry-loop constants.
type Tuning struct {
	MaxAttempts int
	ScaleRatio  float64
	QualityStep int
	Workers     int
}

// DefaultTuning returns the encoder tuning derived from Default().
func DefaultTuning() Tuning {
	cfg := Default()
	return cfg.Tuning()
}

// Tuning returns the encoder retry-loop constants from the [gif] section.
func (c *Config) Tuning() Tuning {
	return Tuning{
		MaxAttempts: c.GIF.MaxAttempts,
		ScaleRatio:  c.GIF.ScaleRatio,
		QualityStep: c.GIF.QualityStep,
		Workers:     c.GIF.Workers,
	}
}
