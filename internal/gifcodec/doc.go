// Package gifcodec encodes captured frames into an animated GIF.
//
// Each frame gets its own median-cut palette. The encoder quality (1 best, 30
// smallest) controls how aggressively frames are reduced: higher values shrink
// the palette and build it from a downsampled copy of the frame, and values
// above 10 also drop dithering, which keeps LZW runs long.
package gifcodec
