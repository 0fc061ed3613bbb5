package main

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"neoncrush/internal/animation"
	"neoncrush/internal/encoder"
)

var (
	printer   = message.NewPrinter(language.English)
	titleCase = cases.Title(language.English)
)

// formatBytes renders a byte count with grouping, switching to MB above 1 MB.
func formatBytes(n int64) string {
	if n >= encoder.BytesPerMB {
		return printer.Sprintf("%.2f MB", float64(n)/encoder.BytesPerMB)
	}
	return printer.Sprintf("%d bytes", n)
}

// formatSavings describes the size change, e.g. "62% smaller".
func formatSavings(percent float64) string {
	switch {
	case percent > 0:
		return fmt.Sprintf("%.0f%% smaller", percent)
	case percent < 0:
		return fmt.Sprintf("%.0f%% larger", math.Abs(percent))
	default:
		return "same size"
	}
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "static"
	}
	return fmt.Sprintf("%ds", seconds)
}

func actionLabel(action animation.Action) string {
	switch action {
	case animation.ActionGIF:
		return "GIF"
	case animation.ActionRaster:
		return "Raster image"
	default:
		return titleCase.String(string(action))
	}
}
