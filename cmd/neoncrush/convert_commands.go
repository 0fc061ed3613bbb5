package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"neoncrush/internal/animation"
	"neoncrush/internal/config"
	"neoncrush/internal/encoder"
	"neoncrush/internal/logging"
	"neoncrush/internal/pipeline"
	"neoncrush/internal/raster"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var (
		duration int
		fps      int
		maxSize  float64
		quality  int
		outFlag  string
	)

	cmd := &cobra.Command{
		Use:   "encode <svg>",
		Short: "Encode an SVG animation as a GIF within a size budget",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return firstError(
				nonNegative("duration", duration),
				nonNegative("fps", fps),
				nonNegative("max-size", maxSize),
				nonNegative("quality", quality),
			)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			settings := pipeline.DefaultSettings(cfg, animation.Recommend(animation.Detect(src.Data)))
			settings.Action = animation.ActionGIF
			if duration > 0 {
				settings.DurationSeconds = duration
			}
			if fps > 0 {
				settings.FPS = fps
			}
			if maxSize > 0 {
				settings.TargetSizeMB = maxSize
			}
			if quality > 0 {
				settings.GIFQuality = quality
			}
			return runConversion(cmd, ctx, src, settings, outFlag)
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Seconds to capture (default: detected, then gif.duration_seconds)")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frames per second (default: gif.fps)")
	cmd.Flags().Float64Var(&maxSize, "max-size", 0, "Target size in MB (default: gif.target_size_mb)")
	cmd.Flags().IntVarP(&quality, "quality", "q", 0, "Quality 1-100 (default: gif.quality)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file or directory (default: paths.output_dir)")
	return cmd
}

func newRasterizeCommand(ctx *commandContext) *cobra.Command {
	var (
		format  string
		quality float64
		outFlag string
	)

	cmd := &cobra.Command{
		Use:   "rasterize <svg>",
		Short: "Convert an SVG into a PNG or JPEG image",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return nonNegative("quality", quality)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			settings := pipeline.Settings{
				Action:        animation.ActionRaster,
				RasterFormat:  cfg.Raster.Format,
				RasterQuality: cfg.Raster.Quality,
			}
			if strings.TrimSpace(format) != "" {
				mediaType, err := rasterMediaType(format)
				if err != nil {
					return err
				}
				settings.RasterFormat = mediaType
			}
			if quality > 0 {
				settings.RasterQuality = quality
			}
			return runConversion(cmd, ctx, src, settings, outFlag)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: png or jpeg (default: raster.format)")
	cmd.Flags().Float64VarP(&quality, "quality", "q", 0, "JPEG quality 0-1 (default: raster.quality)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file or directory (default: paths.output_dir)")
	return cmd
}

func newMinifyCommand(ctx *commandContext) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "minify <svg>",
		Short: "Strip comments and whitespace from an SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			return runConversion(cmd, ctx, src, pipeline.Settings{Action: animation.ActionMinify}, outFlag)
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file or directory (default: paths.output_dir)")
	return cmd
}

// nonNegative rejects a numeric flag set below zero. Zero keeps its meaning
// of "use the configured default".
func nonNegative[T int | float64](flag string, value T) error {
	if value < 0 {
		return fmt.Errorf("--%s must not be negative (got %v)", flag, value)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// runConversion pushes one source through the pipeline, writes the result,
// and prints a summary.
func runConversion(cmd *cobra.Command, ctx *commandContext, src pipeline.Source, settings pipeline.Settings, outFlag string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	out, err := convert(cmd, ctx, src, &settings)
	if err != nil {
		return err
	}
	return reportOutput(cmd, cfg, out, settings, outFlag)
}

// convert runs the pipeline with progress reporting. A nil settings value
// is passed through so the pipeline records the skip.
func convert(cmd *cobra.Command, ctx *commandContext, src pipeline.Source, settings *pipeline.Settings) (*pipeline.Output, error) {
	baseLogger, err := ctx.logger(cmd)
	if err != nil {
		return nil, err
	}
	stage := "convert"
	if settings != nil {
		stage = string(settings.Action)
	}
	runCtx := runContext(cmd, stage)
	logger := logging.NewComponentLogger(baseLogger, "cli")

	p, cleanup, err := ctx.pipelineFor(runCtx, baseLogger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var reporter progressReporter
	if settings != nil && settings.Action == animation.ActionGIF {
		reporter = newProgressReporter(cmd.ErrOrStderr(), logging.WithContext(runCtx, logger))
	}
	var progress encoder.Progress
	if reporter != nil {
		progress = reporter
	}
	out, err := p.Process(runCtx, src, settings, progress)
	if reporter != nil {
		reporter.Stop()
	}
	return out, err
}

func reportOutput(cmd *cobra.Command, cfg *config.Config, out *pipeline.Output, settings pipeline.Settings, outFlag string) error {
	target, err := writeOutput(cfg, outFlag, out)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if out.Encode != nil {
		fmt.Fprintln(w, renderAttemptsTable(out.Encode.Attempts))
		printBudget(w, out.Encode, settings.TargetSizeMB)
	}
	fmt.Fprintf(w, "Wrote %s (%s -> %s, %s)\n",
		target,
		formatBytes(out.OriginalSize),
		formatBytes(out.Size()),
		formatSavings(out.Savings()),
	)
	return nil
}

func printBudget(w io.Writer, result *encoder.Result, targetMB float64) {
	if result.WithinBudget {
		fmt.Fprintf(w, "Within %.2f MB target after %d attempt(s) at %d fps\n", targetMB, len(result.Attempts), result.EffectiveFPS)
		return
	}
	fmt.Fprintf(w, "Warning: %.2f MB target not reached after %d attempts; kept the smallest result\n", targetMB, len(result.Attempts))
}

func renderAttemptsTable(attempts []encoder.Attempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.Index),
			fmt.Sprintf("%dx%d", a.Width, a.Height),
			fmt.Sprintf("%.3f", a.Scale),
			fmt.Sprintf("%d", a.Quality),
			fmt.Sprintf("%d", a.Frames),
			formatBytes(a.Size),
			a.Elapsed.Round(10 * time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"Attempt", "Size", "Scale", "Quality", "Frames", "Output", "Time"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func rasterMediaType(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "png", raster.MediaTypePNG:
		return raster.MediaTypePNG, nil
	case "jpg", "jpeg", raster.MediaTypeJPEG:
		return raster.MediaTypeJPEG, nil
	}
	return "", fmt.Errorf("unsupported format %q (use png or jpeg)", format)
}
