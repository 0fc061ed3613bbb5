// Package animation inspects SVG documents and estimates how long their
// animation runs.
//
// Detection reads SMIL timing primitives (animate, animateTransform,
// animateMotion, set) and CSS animation declarations found in <style>
// elements and style attributes. The estimate is the latest end time of any
// primitive rounded up to whole seconds; zero means the document is static.
// Detect never fails: malformed input is reported as static so callers can
// always fall back to their configured default duration.
package animation
