package encoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"neoncrush/internal/config"
	"neoncrush/internal/gifcodec"
	"neoncrush/internal/logging"
	"neoncrush/internal/render"
)

// Attempt records one pass of the retry loop.
type Attempt struct {
	Index   int
	Width   int
	Height  int
	Scale   float64
	Quality int
	Frames  int
	Size    int64
	Elapsed time.Duration
}

// SizeMB returns the encoded size in megabytes.
func (a Attempt) SizeMB() float64 {
	return float64(a.Size) / BytesPerMB
}

// Result is the accepted encode. WithinBudget is false when the last attempt
// still exceeded the target size.
type Result struct {
	Data            []byte
	Size            int64
	MediaType       string
	WithinBudget    bool
	Attempts        []Attempt
	EffectiveFPS    int
	DurationSeconds int
	Width           int
	Height          int
}

// Encoder runs the adaptive retry loop against a renderer. An Encoder holds
// no per-request state and may serve concurrent Encode calls for different
// sources.
type Encoder struct {
	renderer render.Renderer
	logger   *slog.Logger
	tuning   config.Tuning
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger used for attempt and decision logs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encoder) {
		if logger != nil {
			e.logger = logging.NewComponentLogger(logger, "encoder")
		}
	}
}

// WithTuning overrides the retry-loop constants. Zero fields keep defaults.
func WithTuning(t config.Tuning) Option {
	return func(e *Encoder) {
		if t.MaxAttempts > 0 {
			e.tuning.MaxAttempts = t.MaxAttempts
		}
		if t.ScaleRatio > 0 && t.ScaleRatio < 1 {
			e.tuning.ScaleRatio = t.ScaleRatio
		}
		if t.QualityStep > 0 {
			e.tuning.QualityStep = t.QualityStep
		}
		if t.Workers > 0 {
			e.tuning.Workers = t.Workers
		}
	}
}

// New constructs an Encoder that captures frames through renderer.
func New(renderer render.Renderer, opts ...Option) *Encoder {
	e := &Encoder{
		renderer: renderer,
		logger:   logging.NewComponentLogger(nil, "encoder"),
		tuning:   config.DefaultTuning(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode converts req.Source into an animated GIF no larger than
// req.TargetSizeMB when possible. progress may be nil.
func (e *Encoder) Encode(ctx context.Context, req Request, progress Progress) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = nopProgress{}
	}
	logger := logging.WithContext(ctx, e.logger)
	maxAttempts := e.tuning.MaxAttempts

	fps := EffectiveFPS(req.DurationSeconds, req.FPS)
	if fps != req.FPS {
		logger.Info("frame rate reduced for long animation", logging.Args(
			append(logging.DecisionAttrs("fps_guard", "clamped", fmt.Sprintf("duration %ds exceeds %ds", req.DurationSeconds, LongAnimationSeconds)),
				logging.Int("requested_fps", req.FPS),
				logging.Int("effective_fps", fps))...,
		)...)
		progress.OnProgress(Update{Message: fmt.Sprintf("Optimizing: reducing FPS to %d for stability", fps)})
	}
	quality := MapQuality(req.Quality)

	if err := ctx.Err(); err != nil {
		return nil, &EncodingFailure{Kind: Canceled, Err: err}
	}
	session, err := e.renderer.Open(ctx, req.Source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &EncodingFailure{Kind: Canceled, Err: ctx.Err()}
		}
		return nil, &EncodingFailure{Kind: SourceUnreadable, Err: err}
	}
	naturalW, naturalH := render.SizeOrDefault(session)
	scale := InitialScale(naturalW, naturalH, req.DurationSeconds)
	if scale < 1 {
		logger.Info("starting resolution capped", logging.Args(
			append(logging.DecisionAttrs("resolution_guard", "scaled", fmt.Sprintf("max dimension %dpx for %ds", MaxDimension(req.DurationSeconds), req.DurationSeconds)),
				logging.Int("natural_width", naturalW),
				logging.Int("natural_height", naturalH),
				logging.Float64("scale", scale))...,
		)...)
	}

	targetBytes := req.TargetSizeMB * BytesPerMB
	attempts := make([]Attempt, 0, maxAttempts)
	for index := 1; index <= maxAttempts; index++ {
		if err := ctx.Err(); err != nil {
			closeSession(session)
			return nil, &EncodingFailure{Kind: Canceled, Attempt: index, Err: err}
		}
		if session == nil {
			if session, err = e.renderer.Open(ctx, req.Source); err != nil {
				if ctx.Err() != nil {
					return nil, &EncodingFailure{Kind: Canceled, Attempt: index, Err: ctx.Err()}
				}
				return nil, &EncodingFailure{Kind: RenderFailed, Attempt: index, Err: err}
			}
		}

		width, height := scaledSize(naturalW, naturalH, scale)
		progress.OnProgress(Update{Attempt: index, MaxAttempts: maxAttempts, Message: "Generating GIF..."})
		started := time.Now()
		data, frames, err := e.renderAttempt(ctx, session, attemptState{
			index:   index,
			max:     maxAttempts,
			scale:   scale,
			quality: quality,
			width:   width,
			height:  height,
			fps:     fps,
			seconds: req.DurationSeconds,
		}, progress)
		closeSession(session)
		session = nil
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil, &EncodingFailure{Kind: Canceled, Attempt: index, Err: err}
			}
			return nil, &EncodingFailure{Kind: RenderFailed, Attempt: index, Err: err}
		}

		attempt := Attempt{
			Index:   index,
			Width:   width,
			Height:  height,
			Scale:   scale,
			Quality: quality,
			Frames:  frames,
			Size:    int64(len(data)),
			Elapsed: time.Since(started),
		}
		attempts = append(attempts, attempt)
		within := float64(attempt.Size) <= targetBytes
		logger.Info("gif attempt complete",
			logging.Int(logging.FieldAttempt, index),
			logging.Int("width", width),
			logging.Int("height", height),
			logging.Int("encoder_quality", quality),
			logging.Float64("size_mb", roundMB(attempt.SizeMB())),
			logging.Float64("target_mb", req.TargetSizeMB),
			logging.Bool("within_budget", within),
			logging.Duration("elapsed", attempt.Elapsed),
		)

		if within || index == maxAttempts {
			if !within {
				logging.WarnWithContext(logger, "gif exceeds target size after final attempt", "size_budget_missed",
					logging.Float64("size_mb", roundMB(attempt.SizeMB())),
					logging.Float64("target_mb", req.TargetSizeMB),
					logging.String(logging.FieldImpact, "output is larger than requested"),
					logging.String(logging.FieldErrorHint, "lower fps, duration, or quality"),
				)
			}
			return &Result{
				Data:            data,
				Size:            attempt.Size,
				MediaType:       gifcodec.MediaType,
				WithinBudget:    within,
				Attempts:        attempts,
				EffectiveFPS:    fps,
				DurationSeconds: req.DurationSeconds,
				Width:           width,
				Height:          height,
			}, nil
		}

		scale *= e.tuning.ScaleRatio
		quality = min(gifcodec.MaxQuality, quality+e.tuning.QualityStep)
	}
	// Unreachable: the final attempt always returns.
	return nil, &EncodingFailure{Kind: RenderFailed, Attempt: maxAttempts}
}

// attemptState holds the parameters of one pass of the retry loop.
type attemptState struct {
	index   int
	max     int
	scale   float64
	quality int
	width   int
	height  int
	fps     int
	seconds int
}

// renderAttempt captures every frame at the attempt's size and encodes them.
// Frames are dropped as soon as the GIF is written.
func (e *Encoder) renderAttempt(ctx context.Context, session render.Session, state attemptState, progress Progress) ([]byte, int, error) {
	totalFrames := state.seconds * state.fps
	frames := make([]image.Image, 0, totalFrames)
	for i := 0; i < totalFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		at := float64(i) / float64(state.fps) * 1000
		frame, err := session.Capture(ctx, at, state.width, state.height)
		if err != nil {
			return nil, 0, fmt.Errorf("capture frame %d/%d: %w", i+1, totalFrames, err)
		}
		frames = append(frames, frame)
		captured := i + 1
		if captured%5 == 0 || captured == totalFrames {
			progress.OnProgress(Update{
				Attempt:     state.index,
				MaxAttempts: state.max,
				Phase:       PhaseCapture,
				Fraction:    float64(captured) / float64(totalFrames),
				Frame:       captured,
				TotalFrames: totalFrames,
			})
		}
	}

	data, err := gifcodec.Encode(ctx, frames, gifcodec.Options{
		Quality:     state.quality,
		DelayCentis: gifcodec.DelayCentis(state.fps),
		Workers:     e.tuning.Workers,
	}, func(done, total int) {
		progress.OnProgress(Update{
			Attempt:     state.index,
			MaxAttempts: state.max,
			Phase:       PhaseEncode,
			Fraction:    float64(done) / float64(total),
			Frame:       done,
			TotalFrames: total,
		})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encode gif: %w", err)
	}
	return data, totalFrames, nil
}

func closeSession(session render.Session) {
	if session != nil {
		_ = session.Close()
	}
}

func roundMB(value float64) float64 {
	return float64(int(value*100+0.5)) / 100
}
