package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// StaticSVG is a small document with no animation.
const StaticSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="30" viewBox="0 0 40 30">
  <rect width="40" height="30" fill="#ff00aa"/>
  <circle cx="20" cy="15" r="10" fill="#00ccff"/>
</svg>`

// AnimatedSVG animates a circle for two seconds.
const AnimatedSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="30">
  <rect width="40" height="30" fill="#101010"/>
  <circle cx="20" cy="15" r="5" fill="#39ff14">
    <animate attributeName="r" from="5" to="12" dur="2s" repeatCount="1"/>
  </circle>
</svg>`

// WriteSVG writes doc to name inside a fresh temp directory and returns the path.
func WriteSVG(t testing.TB, name, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
