package animation

import (
	"regexp"
	"strings"
)

var (
	// The colon must follow the property name, so animation-duration and
	// friends never match the shorthand. A value ends at ';' or at the '}'
	// closing its rule.
	shorthandPattern = regexp.MustCompile(`(?i)animation\s*:\s*([^;}]+)`)
	durationPattern  = regexp.MustCompile(`(?i)animation-duration\s*:\s*([^;}]+)`)
	delayPattern     = regexp.MustCompile(`(?i)animation-delay\s*:\s*([^;}]+)`)
	timeTokenPattern = regexp.MustCompile(`(?i)-?[\d.]+(?:ms|s)`)
)

// cssTimings extracts animation timings from a stylesheet or a style
// attribute value. Every shorthand declaration is read; longhand duration and
// delay lists are paired by position within each declaration.
func cssTimings(css string) []Timing {
	if !strings.Contains(strings.ToLower(css), "animation") {
		return nil
	}
	var timings []Timing
	for _, match := range shorthandPattern.FindAllStringSubmatch(css, -1) {
		for _, segment := range strings.Split(match[1], ",") {
			tokens := timeTokenPattern.FindAllString(segment, -1)
			if len(tokens) == 0 {
				continue
			}
			timing := Timing{Element: "style", Duration: ParseTime(tokens[0])}
			if len(tokens) > 1 {
				timing.Begin = ParseTime(tokens[1])
			}
			timings = append(timings, timing)
		}
	}

	durations := durationPattern.FindAllStringSubmatch(css, -1)
	delays := delayPattern.FindAllStringSubmatch(css, -1)
	for i, match := range durations {
		var delayList []string
		if i < len(delays) {
			delayList = strings.Split(delays[i][1], ",")
		}
		for j, value := range strings.Split(match[1], ",") {
			timing := Timing{Element: "style", Duration: ParseTime(value)}
			if j < len(delayList) {
				timing.Begin = ParseTime(delayList[j])
			}
			timings = append(timings, timing)
		}
	}
	return timings
}
