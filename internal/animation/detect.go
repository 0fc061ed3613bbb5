package animation

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"neoncrush/internal/logging"
)

// smilElements are the SMIL timing primitives, matched by local name.
var smilElements = map[string]struct{}{
	"animate":          {},
	"animateTransform": {},
	"animateMotion":    {},
	"set":              {},
}

// entityPattern matches general entities with a literal value in an internal
// DTD subset. Parameter and external entities are left undeclared.
var entityPattern = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][\w.:-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

var (
	// ErrNoRootElement is returned by Timings when the document holds no element.
	ErrNoRootElement = errors.New("svg document has no root element")
	// ErrMultipleRoots is returned by Timings when elements follow the root.
	ErrMultipleRoots = errors.New("svg document has more than one root element")
)

// Detect estimates the total animation duration of an SVG document. It never
// fails: documents that are not well-formed XML are reported as static.
func Detect(doc []byte) (result Result) {
	defer func() {
		if recover() != nil {
			result = Result{}
		}
	}()

	timings, err := Timings(doc)
	if err != nil {
		return Result{}
	}
	return resultFrom(timings)
}

// DetectReader reads an SVG document and runs Detect on it. Read failures are
// reported as static and logged at debug level.
func DetectReader(ctx context.Context, r io.Reader, logger *slog.Logger) Result {
	data, err := io.ReadAll(r)
	if err != nil {
		logging.WithContext(ctx, logger).Debug("svg read failed; treating as static", logging.Error(err))
		return Result{}
	}
	return Detect(data)
}

func resultFrom(timings []Timing) Result {
	var longest float64
	for _, timing := range timings {
		if end := timing.End(); end > longest {
			longest = end
		}
	}
	if longest <= 0 || math.IsNaN(longest) || math.IsInf(longest, 0) {
		return Result{}
	}
	return Result{TotalSeconds: int(math.Ceil(longest))}
}

// Timings lists every animation primitive found in the document, including
// those with a non-positive duration. Unlike Detect it reports parse errors.
func Timings(doc []byte) ([]Timing, error) {
	decoder := xml.NewDecoder(bytes.NewReader(doc))
	decoder.CharsetReader = charsetReader
	decoder.Entity = make(map[string]string)

	var (
		timings    []Timing
		sawRoot    bool
		depth      int
		styleDepth int
		styleText  strings.Builder
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				return nil, ErrMultipleRoots
			}
			sawRoot = true
			depth++
			if styleDepth > 0 {
				styleDepth++
			}
			if tok.Name.Local == "style" && styleDepth == 0 {
				styleDepth = 1
				styleText.Reset()
			}
			if _, ok := smilElements[tok.Name.Local]; ok {
				timings = append(timings, smilTiming(tok))
			}
			if value, ok := attr(tok, "style"); ok {
				timings = append(timings, cssTimings(value)...)
			}
		case xml.EndElement:
			depth--
			if styleDepth > 0 {
				styleDepth--
				if styleDepth == 0 {
					timings = append(timings, cssTimings(styleText.String())...)
				}
			}
		case xml.CharData:
			if styleDepth > 0 {
				styleText.Write(tok)
			}
		case xml.Directive:
			declareEntities(decoder.Entity, tok)
		}
	}
	if !sawRoot {
		return nil, ErrNoRootElement
	}
	return timings, nil
}

// declareEntities records the internal subset entities of a DOCTYPE so the
// decoder can expand references such as xmlns="&ns_svg;". The first
// declaration of a name wins.
func declareEntities(entities map[string]string, directive xml.Directive) {
	for _, match := range entityPattern.FindAllSubmatch(directive, -1) {
		name := string(match[1])
		if _, ok := entities[name]; ok {
			continue
		}
		value := match[2]
		if value == nil {
			value = match[3]
		}
		entities[name] = string(value)
	}
}

func smilTiming(el xml.StartElement) Timing {
	timing := Timing{Element: el.Name.Local}
	dur, _ := attr(el, "dur")
	timing.Duration = ParseTime(dur)
	if begin, ok := attr(el, "begin"); ok && strings.ContainsAny(begin, "0123456789") {
		first, _, _ := strings.Cut(begin, ";")
		timing.Begin = ParseTime(first)
	}
	repeat, present := attr(el, "repeatCount")
	timing.Repeat = parseRepeatCount(repeat, present)
	return timing
}

func attr(el xml.StartElement, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
