// Package encoder implements the adaptive, size-bounded animated GIF encoder.
//
// Encode renders the full frame sequence of an SVG at a chosen resolution and
// palette quality, then retries with a smaller scale and a coarser quality
// while the output exceeds the target size, up to a bounded number of
// attempts. Before the first attempt two guards run: long animations are
// capped at 15 fps, and the starting resolution is capped by a
// duration-tiered maximum dimension.
//
// Overshooting the size target after the last attempt is not an error; the
// best result is returned with WithinBudget set to false. Render failures are
// fatal and reported immediately as *EncodingFailure.
package encoder
