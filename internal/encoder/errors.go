package encoder

import (
	"errors"
	"fmt"
)

// FailureKind classifies an EncodingFailure.
type FailureKind string

const (
	SourceUnreadable FailureKind = "source_unreadable"
	RenderFailed     FailureKind = "render_failed"
	Canceled         FailureKind = "canceled"
)

// Sentinels for errors.Is matching against EncodingFailure kinds.
var (
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrRenderFailed     = errors.New("render failed")
	ErrCanceled         = errors.New("encode canceled")
)

// EncodingFailure reports why Encode could not produce a result. Attempt is
// zero when the failure happened before the retry loop.
type EncodingFailure struct {
	Kind    FailureKind
	Attempt int
	Err     error
}

func (e *EncodingFailure) Error() string {
	var where string
	if e.Attempt > 0 {
		where = fmt.Sprintf(" (attempt %d)", e.Attempt)
	}
	if e.Err == nil {
		return fmt.Sprintf("encode failed: %s%s", e.Kind, where)
	}
	return fmt.Sprintf("encode failed: %s%s: %v", e.Kind, where, e.Err)
}

func (e *EncodingFailure) Unwrap() error { return e.Err }

// Is matches the sentinel for the failure kind.
func (e *EncodingFailure) Is(target error) bool {
	switch e.Kind {
	case SourceUnreadable:
		return target == ErrSourceUnreadable
	case RenderFailed:
		return target == ErrRenderFailed
	case Canceled:
		return target == ErrCanceled
	}
	return false
}
