package render

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// NaturalSize reads the root element's width, height, and viewBox. Absolute
// lengths win; a missing or relative length falls back to the viewBox
// dimension, keeping the viewBox aspect ratio when only one length is known.
// Zeros mean the size is unknown.
func NaturalSize(svg []byte) (width, height int) {
	root, ok := rootElement(svg)
	if !ok {
		return 0, 0
	}
	var w, h, vbW, vbH float64
	for _, a := range root.Attr {
		if a.Name.Space != "" {
			continue
		}
		switch a.Name.Local {
		case "width":
			w = parseLength(a.Value)
		case "height":
			h = parseLength(a.Value)
		case "viewBox":
			vbW, vbH = parseViewBox(a.Value)
		}
	}
	switch {
	case w > 0 && h > 0:
	case w > 0 && vbW > 0 && vbH > 0:
		h = w * vbH / vbW
	case h > 0 && vbW > 0 && vbH > 0:
		w = h * vbW / vbH
	case w <= 0 && h <= 0:
		w, h = vbW, vbH
	}
	return int(math.Round(w)), int(math.Round(h))
}

func rootElement(svg []byte) (xml.StartElement, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(svg))
	decoder.Strict = false
	for {
		token, err := decoder.Token()
		if err != nil {
			return xml.StartElement{}, false
		}
		if start, ok := token.(xml.StartElement); ok {
			return start, true
		}
	}
}

var lengthUnits = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
}

// parseLength converts an absolute SVG length to CSS pixels. Percentages and
// font-relative units return 0.
func parseLength(value string) float64 {
	value = strings.TrimSpace(value)
	end := len(value)
	for end > 0 && (value[end-1] >= 'a' && value[end-1] <= 'z' || value[end-1] == '%') {
		end--
	}
	factor, ok := lengthUnits[value[end:]]
	if !ok {
		return 0
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(value[:end]), 64)
	if err != nil || number <= 0 {
		return 0
	}
	return number * factor
}

func parseViewBox(value string) (float64, float64) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if len(fields) != 4 {
		return 0, 0
	}
	w, errW := strconv.ParseFloat(fields[2], 64)
	h, errH := strconv.ParseFloat(fields[3], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}
