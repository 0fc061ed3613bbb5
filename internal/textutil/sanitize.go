package textutil

import (
	"path/filepath"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// BaseName strips the directory and final extension from a path and
// sanitizes the remainder. Empty results become "image".
func BaseName(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	if base == "." || base == string(filepath.Separator) {
		return "image"
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = SanitizeFileName(base)
	if base == "" {
		return "image"
	}
	return base
}

// OptimizedName returns "<base>_optimized.<ext>" for a source path.
func OptimizedName(sourcePath, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return BaseName(sourcePath) + "_optimized." + ext
}
