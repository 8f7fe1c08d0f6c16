package metar

import (
	"regexp"
	"strings"
)

var fieldRegex = regexp.MustCompile(`\S+`)

// Tokens is the output of Tokenize: the decodable body fields plus the
// verbatim text of the trend and remarks sections.
type Tokens struct {
	ReportType string
	Fields     []string
	Trend      string
	Remarks    string
}

// Tokenize splits a raw METAR into whitespace-delimited fields. A leading
// METAR/SPECI token is dropped and recorded as the report type. Everything
// after RMK is kept verbatim as remarks, and a TEMPO/BECMG trend group ends
// the body in the same way.
func Tokenize(raw string) (Tokens, error) {
	var t Tokens

	spans := fieldRegex.FindAllStringIndex(raw, -1)
	if len(spans) == 0 {
		return t, ErrEmptyInput
	}

	start := 0
	if first := raw[spans[0][0]:spans[0][1]]; reportTypes[first] {
		t.ReportType = first
		start = 1
	}

	end := len(spans)
	for i := start; i < len(spans); i++ {
		part := raw[spans[i][0]:spans[i][1]]

		if part == remarksMarker {
			t.Remarks = strings.TrimSpace(raw[spans[i][1]:])
			if end == len(spans) {
				end = i
			}
			break
		}

		if trendMarkers[part] && end == len(spans) {
			end = i
			// keep scanning: a trend may itself be followed by RMK
		}
	}

	if end < len(spans) && trendMarkers[raw[spans[end][0]:spans[end][1]]] {
		trendEnd := len(raw)
		if idx := indexOfField(raw, spans[end:], remarksMarker); idx >= 0 {
			trendEnd = idx
		}
		t.Trend = strings.TrimSpace(raw[spans[end][0]:trendEnd])
	}

	for _, span := range spans[start:end] {
		t.Fields = append(t.Fields, raw[span[0]:span[1]])
	}

	if len(t.Fields) == 0 && t.Remarks == "" && t.Trend == "" {
		return t, ErrEmptyInput
	}

	return t, nil
}

// indexOfField returns the byte offset of the first span whose text is field.
func indexOfField(raw string, spans [][]int, field string) int {
	for _, span := range spans {
		if raw[span[0]:span[1]] == field {
			return span[0]
		}
	}
	return -1
}
