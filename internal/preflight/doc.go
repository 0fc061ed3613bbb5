// Package preflight provides readiness checks for the rendering engine and
// the filesystem paths neoncrush writes to.
//
// These checks run in two contexts:
//   - The CLI "neoncrush doctor" command runs RunAll and renders every result.
//   - Conversion commands call CheckRenderer before opening a browser so a
//     missing binary fails fast with a hint instead of a chromedp launch error.
//
// History checks are gated by history.enabled; disabled features are skipped.
package preflight
