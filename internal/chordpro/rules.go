package chordpro

import "strings"

type lineKind int

const (
	lineContent lineKind = iota
	lineBlank
	lineHeader
	lineMeasure
	lineMetadata
)

// lineRule pairs a predicate over a trimmed line with the kind it yields.
type lineRule struct {
	kind  lineKind
	match func(trimmed string) bool
}

// classify returns the kind of the first matching rule, or lineContent.
func classify(rules []lineRule, trimmed string) lineKind {
	for _, r := range rules {
		if r.match(trimmed) {
			return r.kind
		}
	}
	return lineContent
}

func isBlank(trimmed string) bool {
	return trimmed == ""
}

// sectionKeywords start a Mode A header line.
var sectionKeywords = []string{"chorus", "verse", "bridge", "intro", "interlude", "tag", "outro"}

func isSectionHeader(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	for _, kw := range sectionKeywords {
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	return false
}

// Header detection runs before the blank and measure checks, so a header
// line is never treated as content.
var sectionRules = []lineRule{
	{kind: lineHeader, match: isSectionHeader},
	{kind: lineBlank, match: isBlank},
	{kind: lineMeasure, match: IsMeasureMarker},
}

// isMetadata reports directive lines like "{title: ...}". Only the exact
// lowercase "{comment:" prefix is exempt.
func isMetadata(trimmed string) bool {
	return strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "{comment:")
}

func isCommentHeader(trimmed string) bool {
	return commentRegex.MatchString(trimmed)
}

var verseRules = []lineRule{
	{kind: lineBlank, match: isBlank},
	{kind: lineMetadata, match: isMetadata},
	{kind: lineHeader, match: isCommentHeader},
}
