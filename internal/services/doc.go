// Package services defines shared utilities consumed by the conversion
// pipeline, the encoder, and the renderer integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, pipeline stages, and source
//     names for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run statuses (failed vs rejected).
//
// Use these helpers when wiring new pipeline steps so operational behaviour
// (error handling, observability) stays uniform across the CLI and library
// callers.
package services
