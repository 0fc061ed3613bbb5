package encoder

import (
	"fmt"
	"math"
)

// Phase identifies which half of an attempt is running.
type Phase string

const (
	PhaseCapture Phase = "capture"
	PhaseEncode  Phase = "encode"
)

// Update is a progress notification for one attempt. Fraction covers the
// current phase only, from 0 to 1.
type Update struct {
	Attempt     int
	MaxAttempts int
	Phase       Phase
	Fraction    float64
	Frame       int
	TotalFrames int
	// Message carries one-off notices such as guard decisions.
	Message string
}

// Overall maps the update onto the whole attempt: capture spans 0 to 0.5 and
// encode spans 0.5 to 1.
func (u Update) Overall() float64 {
	fraction := math.Max(0, math.Min(1, u.Fraction))
	if u.Phase == PhaseEncode {
		return 0.5 + fraction/2
	}
	return fraction / 2
}

// Progress observes encoder progress. Implementations are called from the
// goroutine running Encode and from palette workers, never concurrently.
type Progress interface {
	OnProgress(Update)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(Update)

// OnProgress calls f.
func (f ProgressFunc) OnProgress(u Update) {
	if f != nil {
		f(u)
	}
}

// FormatUpdate renders an update as a human-readable status line.
func FormatUpdate(u Update) string {
	prefix := fmt.Sprintf("Attempt %d/%d: ", u.Attempt, u.MaxAttempts)
	if u.Attempt == 0 {
		prefix = ""
	}
	if u.Message != "" {
		return prefix + u.Message
	}
	total := int(math.Round(u.Overall() * 100))
	switch u.Phase {
	case PhaseEncode:
		return fmt.Sprintf("%sEncoding %d%% (Total %d%%)", prefix, int(math.Round(u.Fraction*100)), total)
	default:
		return fmt.Sprintf("%sCapturing %d/%d (%d%%)", prefix, u.Frame, u.TotalFrames, total)
	}
}

type nopProgress struct{}

func (nopProgress) OnProgress(Update) {}
