package config

const (
	defaultOutputDir       = "."
	defaultLogDir          = "~/.local/share/neoncrush/logs"
	defaultStateDir        = "~/.local/share/neoncrush"
	defaultGIFFPS          = 15
	defaultGIFDuration     = 3
	defaultGIFTargetSizeMB = 5.0
	defaultGIFQuality      = 80
	defaultMaxAttempts     = 3
	defaultScaleRatio      = 0.75
	defaultQualityStep     = 5
	defaultRasterFormat    = "image/png"
	defaultRasterQuality   = 0.92
	defaultRendererBackend = BackendAuto
	defaultChromePath      = "chromium"
	defaultSettleMillis    = 20
	defaultRenderTimeout   = 120
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Renderer backend names accepted by renderer.backend.
const (
	BackendAuto   = "auto"
	BackendChrome = "chrome"
	BackendStatic = "static"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		GIF: GIF{
			FPS:             defaultGIFFPS,
			DurationSeconds: defaultGIFDuration,
			TargetSizeMB:    defaultGIFTargetSizeMB,
			Quality:         defaultGIFQuality,
			MaxAttempts:     defaultMaxAttempts,
			ScaleRatio:      defaultScaleRatio,
			QualityStep:     defaultQualityStep,
		},
		Raster: Raster{
			Format:  defaultRasterFormat,
			Quality: defaultRasterQuality,
		},
		Renderer: Renderer{
			Backend:        defaultRendererBackend,
			ChromePath:     defaultChromePath,
			SettleMillis:   defaultSettleMillis,
			TimeoutSeconds: defaultRenderTimeout,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
