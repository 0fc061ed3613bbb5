// Package render turns SVG documents into raster frames.
//
// A Renderer opens a Session per document; the encoder opens one session per
// attempt and closes it before the next. Two engines are provided: Static
// rasterizes the vector content with oksvg and ignores time, and Chrome loads
// the document into a headless browser and scrubs its SMIL and CSS animation
// timelines to the requested instant before taking a screenshot. Select picks
// one based on configuration and what is installed.
package render
