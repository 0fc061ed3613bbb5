package render

import (
	"context"
	"fmt"
	"log/slog"

	"neoncrush/internal/config"
	"neoncrush/internal/deps"
	"neoncrush/internal/logging"
	"neoncrush/internal/services"
)

// Select returns the renderer named by renderer.backend. The auto backend
// uses Chrome when a browser binary is installed and falls back to Static,
// which cannot sample animation, otherwise.
func Select(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Renderer, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "render"))

	switch cfg.Renderer.Backend {
	case config.BackendStatic:
		return NewStatic(logger), nil
	case config.BackendChrome, config.BackendAuto:
	default:
		return nil, services.Wrap(services.ErrConfiguration, "render", "select backend",
			fmt.Sprintf("Unknown renderer backend %q", cfg.Renderer.Backend), nil)
	}

	status := deps.CheckChrome(cfg.Renderer.ChromePath)
	if status.Available {
		log.Info("renderer selected", logging.Args(
			append(logging.DecisionAttrs("renderer_backend", "chrome", "browser binary found"),
				logging.String("chrome_path", status.Path))...,
		)...)
		return NewChrome(ChromeOptions{
			ExecPath:    status.Path,
			SettleDelay: cfg.SettleDelay(),
			Timeout:     cfg.RenderTimeout(),
			Logger:      logger,
		}), nil
	}

	if cfg.Renderer.Backend == config.BackendChrome {
		return nil, services.Wrap(services.ErrExternalTool, "render", "select backend",
			fmt.Sprintf("Chrome is required but %s", status.Detail), nil)
	}

	logging.WarnWithContext(log, "chrome not found; using static renderer", "renderer_fallback",
		logging.String("chrome_path", cfg.Renderer.ChromePath),
		logging.String(logging.FieldImpact, "animated SVGs will encode as repeated still frames"),
		logging.String(logging.FieldErrorHint, "install chromium or set renderer.chrome_path"),
	)
	return NewStatic(logger), nil
}
