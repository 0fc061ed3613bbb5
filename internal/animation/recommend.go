package animation

import "fmt"

// Action is a conversion the user can pick for an SVG.
type Action string

const (
	ActionMinify Action = "minify"
	ActionRaster Action = "raster"
	ActionGIF    Action = "gif"
)

// Recommendation is the pre-selected conversion for a detection result.
type Recommendation struct {
	Action          Action
	DurationSeconds int
	Reason          string
	Alternatives    []Action
}

// Recommend suggests a GIF for animated documents and a raster image (or
// minification) for static ones.
func Recommend(result Result) Recommendation {
	if result.Animated() {
		return Recommendation{
			Action:          ActionGIF,
			DurationSeconds: result.TotalSeconds,
			Reason:          fmt.Sprintf("animation detected (%ds)", result.TotalSeconds),
			Alternatives:    []Action{ActionRaster, ActionMinify},
		}
	}
	return Recommendation{
		Action:       ActionRaster,
		Reason:       "static image",
		Alternatives: []Action{ActionMinify},
	}
}

// ParseAction validates a user-supplied action name.
func ParseAction(value string) (Action, error) {
	switch Action(value) {
	case ActionMinify, ActionRaster, ActionGIF:
		return Action(value), nil
	case "png", "jpeg", "jpg", "rasterize":
		return ActionRaster, nil
	}
	return "", fmt.Errorf("unknown action %q (use minify, raster, or gif)", value)
}
