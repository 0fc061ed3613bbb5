package deps

import "strings"

// chromeFallbacks are tried in order when the configured browser is missing.
var chromeFallbacks = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"headless-shell",
	"chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// CheckChrome reports the headless browser used for animated rendering. The
// configured command wins when present; otherwise well-known browser names
// are probed so a default install works without configuration.
func CheckChrome(configured string) Status {
	req := Requirement{
		Name:        "Chrome",
		Command:     strings.TrimSpace(configured),
		Description: "Samples SMIL and CSS animation frames",
		Optional:    true,
	}
	status := checkBinary(req)
	if status.Available {
		return status
	}
	for _, candidate := range chromeFallbacks {
		if candidate == req.Command {
			continue
		}
		req.Command = candidate
		if probe := checkBinary(req); probe.Available {
			return probe
		}
	}
	return status
}
