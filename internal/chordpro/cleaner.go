package chordpro

import (
	"regexp"
	"strings"
)

// measureRegex matches bar notation lines such as "[| D / / / |]"
var measureRegex = regexp.MustCompile(`^\[\|.*\|\]$`)

// IsMeasureMarker reports whether the whole trimmed line is a measure marker.
func IsMeasureMarker(line string) bool {
	return measureRegex.MatchString(strings.TrimSpace(line))
}

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims the result.
func NormalizeWhitespace(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// normalizePhrase lowercases a section phrase, turns hyphens into spaces and
// collapses whitespace: "Pre-Chorus " -> "pre chorus".
func normalizePhrase(phrase string) string {
	phrase = strings.ReplaceAll(strings.ToLower(phrase), "-", " ")
	return NormalizeWhitespace(phrase)
}
