package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"neoncrush/internal/animation"
	"neoncrush/internal/config"
	"neoncrush/internal/encoder"
	"neoncrush/internal/fileutil"
	"neoncrush/internal/gifcodec"
	"neoncrush/internal/history"
	"neoncrush/internal/logging"
	"neoncrush/internal/raster"
	"neoncrush/internal/render"
	"neoncrush/internal/services"
	"neoncrush/internal/svgmin"
	"neoncrush/internal/textutil"
)

// MediaTypeSVG is the only media type the pipeline accepts.
const MediaTypeSVG = "image/svg+xml"

var (
	// ErrSkipped reports that the user dismissed the settings prompt.
	ErrSkipped = errors.New("conversion skipped")
	// ErrUnsupportedMedia reports a non-SVG source.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// Source is one input document.
type Source struct {
	Name      string
	MediaType string
	Data      []byte
}

// Output is a finished conversion.
type Output struct {
	Data         []byte
	MediaType    string
	FileName     string
	OriginalSize int64
	Attempts     int
	WithinBudget bool
	Encode       *encoder.Result
}

// Size returns the output length in bytes.
func (o *Output) Size() int64 {
	if o == nil {
		return 0
	}
	return int64(len(o.Data))
}

// Savings returns the size change relative to the source.
func (o *Output) Savings() float64 {
	if o == nil {
		return 0
	}
	return SavingsPercent(o.OriginalSize, o.Size())
}

// Pipeline dispatches conversions for one configuration.
type Pipeline struct {
	cfg      *config.Config
	renderer render.Renderer
	encoder  *encoder.Encoder
	history  *history.Store
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logging.NewComponentLogger(logger, "pipeline")
		}
	}
}

// WithHistory records every processed source in store.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.history = store
	}
}

// WithEncoder replaces the encoder built from the configuration.
func WithEncoder(enc *encoder.Encoder) Option {
	return func(p *Pipeline) {
		if enc != nil {
			p.encoder = enc
		}
	}
}

// New constructs a Pipeline around renderer.
func New(cfg *config.Config, renderer render.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		renderer: renderer,
		logger:   logging.NewComponentLogger(nil, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.encoder == nil {
		p.encoder = encoder.New(renderer, encoder.WithLogger(p.logger), encoder.WithTuning(cfg.Tuning()))
	}
	return p
}

// Process converts src with settings. A nil settings value skips the source
// without invoking any converter and returns ErrSkipped.
func (p *Pipeline) Process(ctx context.Context, src Source, settings *Settings, progress encoder.Progress) (*Output, error) {
	ctx = services.WithSource(ctx, src.Name)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now().UTC()

	run := &history.Run{
		Source:       src.Name,
		SourceDigest: fileutil.Digest(src.Data),
		OriginalSize: int64(len(src.Data)),
		Renderer:     p.renderer.Name(),
		StartedAt:    started,
	}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		run.RequestID = id
	}

	if settings == nil {
		logger.Info("conversion skipped",
			logging.String(logging.FieldEventType, "conversion_skipped"),
			logging.String(logging.FieldDecisionType, "user_prompt"),
		)
		run.Status = history.StatusSkipped
		p.record(ctx, logger, run)
		return nil, ErrSkipped
	}
	run.Action = string(settings.Action)
	run.DurationSeconds = settings.DurationSeconds
	run.FPS = settings.FPS

	out, err := p.process(ctx, src, *settings, run.SourceDigest, progress)
	if err != nil {
		run.Status = history.Status(services.FailureStatus(err))
		run.Error = err.Error()
		p.record(ctx, logger, run)
		p.logFailure(logger, run, err)
		return nil, err
	}

	run.Status = history.StatusCompleted
	run.OutputSize = out.Size()
	run.Attempts = out.Attempts
	run.WithinBudget = out.WithinBudget
	if out.Encode != nil {
		run.FPS = out.Encode.EffectiveFPS
	}
	p.record(ctx, logger, run)

	logger.Info("conversion complete",
		logging.String(logging.FieldEventType, "conversion_complete"),
		logging.String("action", string(settings.Action)),
		logging.String("output", out.FileName),
		logging.Int64("original_bytes", out.OriginalSize),
		logging.Int64("output_bytes", out.Size()),
		logging.Float64("savings_percent", out.Savings()),
	)
	return out, nil
}

func (p *Pipeline) process(ctx context.Context, src Source, settings Settings, digest string, progress encoder.Progress) (*Output, error) {
	if src.MediaType != MediaTypeSVG {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "check media type",
			fmt.Sprintf("%s is %s", src.Name, displayMediaType(src.MediaType)), ErrUnsupportedMedia)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	lock, err := fileutil.LockSource(p.cfg.LockDir(), digest)
	if err != nil {
		if errors.Is(err, fileutil.ErrSourceBusy) {
			return nil, services.Wrap(services.ErrValidation, "pipeline", "lock source",
				"Another conversion of this source is in progress", err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "lock source", "Unable to create source lock", err)
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			p.logger.Debug("release source lock failed", logging.Error(releaseErr))
		}
	}()

	out := &Output{OriginalSize: int64(len(src.Data))}
	switch settings.Action {
	case animation.ActionMinify:
		out.Data = svgmin.Minify(src.Data)
		out.MediaType = MediaTypeSVG
	case animation.ActionRaster:
		data, mediaType, err := raster.Rasterize(ctx, p.renderer, src.Data, raster.Options{
			Format:  settings.RasterFormat,
			Quality: settings.RasterQuality,
		})
		if err != nil {
			return nil, err
		}
		out.Data = data
		out.MediaType = mediaType
	case animation.ActionGIF:
		result, err := p.encoder.Encode(ctx, encoder.Request{
			Source:          src.Data,
			DurationSeconds: settings.DurationSeconds,
			FPS:             settings.FPS,
			TargetSizeMB:    settings.TargetSizeMB,
			Quality:         settings.GIFQuality,
		}, progress)
		if err != nil {
			return nil, classifyEncodeError(err)
		}
		out.Data = result.Data
		out.MediaType = result.MediaType
		out.Attempts = len(result.Attempts)
		out.WithinBudget = result.WithinBudget
		out.Encode = result
	}
	if settings.Action != animation.ActionGIF {
		out.Attempts = 1
		out.WithinBudget = true
	}
	out.FileName = textutil.OptimizedName(src.Name, Extension(out.MediaType))
	return out, nil
}

func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, run *history.Run) {
	if p.history == nil {
		return
	}
	run.FinishedAt = time.Now().UTC()
	if err := p.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
			logging.String(logging.FieldImpact, "run will not appear in history"),
			logging.Error(err),
		)
	}
}

// logFailure reports a conversion that did not produce output. Rejections and
// cancellations come from the caller and stay at info.
func (p *Pipeline) logFailure(logger *slog.Logger, run *history.Run, err error) {
	attrs := []logging.Attr{
		logging.String("action", run.Action),
		logging.String("status", string(run.Status)),
		logging.Error(err),
	}
	if run.Status != history.StatusFailed {
		logger.Info("conversion stopped", logging.Args(append(attrs,
			logging.String(logging.FieldEventType, "conversion_"+string(run.Status)))...)...)
		return
	}
	logging.ErrorWithContext(logger, "conversion failed", "conversion_failed", append(attrs,
		logging.String(logging.FieldErrorHint, "run neoncrush doctor to check the renderer backend"))...)
}

func classifyEncodeError(err error) error {
	switch {
	case errors.Is(err, encoder.ErrCanceled):
		return err
	case errors.Is(err, encoder.ErrInvalidRequest):
		return err
	case errors.Is(err, encoder.ErrSourceUnreadable):
		return services.Wrap(services.ErrValidation, "encoder", "open source", "Source could not be read", err)
	default:
		return services.Wrap(services.ErrExternalTool, "encoder", "render", "Frame rendering failed", err)
	}
}

// Extension maps an output media type to its file extension.
func Extension(mediaType string) string {
	switch mediaType {
	case gifcodec.MediaType:
		return "gif"
	case raster.MediaTypePNG:
		return "png"
	case raster.MediaTypeJPEG:
		return "jpg"
	default:
		return "svg"
	}
}

// SavingsPercent returns how much smaller output is than original, in
// percent. A negative value means the conversion grew.
func SavingsPercent(original, output int64) float64 {
	if original <= 0 {
		return 0
	}
	return float64(original-output) / float64(original) * 100
}

func displayMediaType(value string) string {
	if value == "" {
		return "of unknown type"
	}
	return value
}
