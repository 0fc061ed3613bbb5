package render

import (
	"context"
	"errors"
	"image"
)

const (
	// DefaultWidth is used when a document declares no usable size.
	DefaultWidth = 800
	// DefaultHeight is used when a document declares no usable size.
	DefaultHeight = 600
)

// ErrInvalidSize is returned when a capture is requested at a non-positive size.
var ErrInvalidSize = errors.New("render size must be positive")

// Renderer opens SVG documents for frame capture.
type Renderer interface {
	Open(ctx context.Context, svg []byte) (Session, error)
	Name() string
}

// Session renders a single document. It is not safe for concurrent use.
type Session interface {
	// Size reports the natural size of the document in pixels, or zeros when
	// the document declares none.
	Size() (width, height int)
	// Capture rasterizes the document at the given timeline position
	// (milliseconds from the start) into a width x height image.
	Capture(ctx context.Context, atMillis float64, width, height int) (image.Image, error)
	Close() error
}

// SizeOrDefault returns the session size, falling back to 800x600 for either
// missing dimension.
func SizeOrDefault(s Session) (int, int) {
	w, h := s.Size()
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}
