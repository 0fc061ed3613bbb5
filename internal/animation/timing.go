package animation

import (
	"math"
	"strconv"
	"strings"
)

// RepeatKind distinguishes how a SMIL primitive repeats.
type RepeatKind int

const (
	// RepeatAbsent means no repeatCount attribute (or a non-numeric one).
	RepeatAbsent RepeatKind = iota
	// RepeatIndefinite means repeatCount="indefinite".
	RepeatIndefinite
	// RepeatFinite means a numeric repeat count.
	RepeatFinite
)

// RepeatCount is the parsed repeatCount attribute.
type RepeatCount struct {
	Kind  RepeatKind
	Count float64
}

func (r RepeatCount) String() string {
	switch r.Kind {
	case RepeatIndefinite:
		return "indefinite"
	case RepeatFinite:
		return strconv.FormatFloat(r.Count, 'f', -1, 64)
	default:
		return "-"
	}
}

// Timing is one discovered animation primitive. Begin and Duration are in
// seconds. Element names the SMIL tag, or "style" for CSS declarations.
type Timing struct {
	Element  string
	Begin    float64
	Duration float64
	Repeat   RepeatCount
}

// End returns the time the primitive stops contributing motion. Indefinite
// and absent repeats count a single iteration.
func (t Timing) End() float64 {
	if t.Duration <= 0 {
		return 0
	}
	if t.Repeat.Kind == RepeatFinite {
		return t.Begin + t.Duration*t.Repeat.Count
	}
	return t.Begin + t.Duration
}

// Result is the detector output. TotalSeconds is ceiling-rounded; zero means
// static.
type Result struct {
	TotalSeconds int
}

// Animated reports whether any animation was detected.
func (r Result) Animated() bool {
	return r.TotalSeconds > 0
}

// ParseTime converts a clock value such as "1.5s", "500ms", or "2" into
// seconds. Units are case-insensitive. Empty or unparseable values yield 0.
func ParseTime(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	var seconds float64
	switch {
	case strings.HasSuffix(strings.ToLower(value), "ms"):
		seconds = leadingFloat(value) / 1000
	default:
		seconds = leadingFloat(value)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return seconds
}

func parseRepeatCount(value string, present bool) RepeatCount {
	value = strings.TrimSpace(value)
	if !present || value == "" {
		return RepeatCount{Kind: RepeatAbsent}
	}
	if value == "indefinite" {
		return RepeatCount{Kind: RepeatIndefinite}
	}
	if _, ok := floatPrefix(value); !ok {
		return RepeatCount{Kind: RepeatAbsent}
	}
	return RepeatCount{Kind: RepeatFinite, Count: leadingFloat(value)}
}

// leadingFloat parses the longest numeric prefix of value, ignoring any
// trailing unit. It returns 0 when no number is present.
func leadingFloat(value string) float64 {
	prefix, ok := floatPrefix(value)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func floatPrefix(value string) (string, bool) {
	value = strings.TrimLeft(value, " \t\r\n")
	i := 0
	if i < len(value) && (value[i] == '+' || value[i] == '-') {
		i++
	}
	digits := 0
	for i < len(value) && isDigit(value[i]) {
		i++
		digits++
	}
	if i < len(value) && value[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(value) && isDigit(value[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return "", false
	}
	if i < len(value) && (value[i] == 'e' || value[i] == 'E') {
		j := i + 1
		if j < len(value) && (value[j] == '+' || value[j] == '-') {
			j++
		}
		exp := 0
		for j < len(value) && isDigit(value[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return value[:i], true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
