// Package main hosts the neoncrush CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into calls on the
// internal packages: animation detection, the adaptive GIF encoder, static
// rasterization, minification, run history, and configuration scaffolding.
// It centralizes configuration resolution, renderer selection, and structured
// logging setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
