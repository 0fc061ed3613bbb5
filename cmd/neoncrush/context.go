package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"neoncrush/internal/config"
	"neoncrush/internal/history"
	"neoncrush/internal/logging"
	"neoncrush/internal/pipeline"
	"neoncrush/internal/render"
	"neoncrush/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// prompt is replaced in tests.
	prompt prompter
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds a logger whose console output follows the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfigWriter(cfg, cmd.ErrOrStderr())
}

// runContext tags the command context with a fresh request id and stage.
func runContext(cmd *cobra.Command, stage string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return services.WithStage(ctx, stage)
}

// pipelineFor wires renderer selection, the encoder, and history for one run.
// The returned cleanup closes the history store.
func (c *commandContext) pipelineFor(ctx context.Context, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	renderer, err := render.Select(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	cleanup := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, logger), "history unavailable", "history_open_failed",
				logging.String(logging.FieldImpact, "run will not be recorded"),
				logging.Error(err),
			)
		} else {
			opts = append(opts, pipeline.WithHistory(store))
			cleanup = func() { _ = store.Close() }
		}
	}
	return pipeline.New(cfg, renderer, opts...), cleanup, nil
}

func (c *commandContext) promptFor(cmd *cobra.Command) prompter {
	if c.prompt != nil {
		return c.prompt
	}
	return newTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
