// Package svgmin shrinks SVG markup with conservative text rewrites.
package svgmin

import "regexp"

var (
	commentPattern   = regexp.MustCompile(`<!--[\s\S]*?-->`)
	interTagSpace    = regexp.MustCompile(`>\s+<`)
	whitespaceRun    = regexp.MustCompile(`\s{2,}`)
	lineBreakPattern = regexp.MustCompile(`[\r\n]`)
)

// Minify removes comments and redundant whitespace. Whitespace between tags
// is dropped entirely, other runs collapse to one space, and remaining line
// breaks are removed. Text content inside <text> elements loses its
// inter-tag whitespace too.
func Minify(svg []byte) []byte {
	out := commentPattern.ReplaceAll(svg, nil)
	out = interTagSpace.ReplaceAll(out, []byte("><"))
	out = whitespaceRun.ReplaceAll(out, []byte(" "))
	out = lineBreakPattern.ReplaceAll(out, nil)
	return out
}
