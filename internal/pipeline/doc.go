// Package pipeline turns one SVG source plus user-confirmed settings into an
// optimized output file.
//
// It is the collaborator that sits between the recommendation shown to the
// user and the conversion packages: a nil Settings means the user dismissed
// the confirmation and nothing runs. Otherwise the pipeline takes a per-source
// lock, dispatches to svgmin, raster, or the adaptive GIF encoder, names the
// output, and records the run in history when a store is attached.
package pipeline
