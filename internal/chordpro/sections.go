package chordpro

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sukalov/openlp-chords/internal/utils"
)

var firstNumberRegex = regexp.MustCompile(`\d+`)

// ParseSections splits ChordPro-like text into labelled sections. Header
// lines ("Verse 1", "CHORUS", "Intro") switch the current label and are not
// kept. Lines before the first header are collected under UnknownSection.
// Blank lines and measure markers are dropped and all other lines are
// whitespace-normalized.
func ParseSections(text string) *Sections {
	out := &Sections{Lines: make(map[string][]string)}
	label := UnknownSection

	for _, line := range utils.SplitLines(text) {
		trimmed := strings.TrimSpace(line)

		switch classify(sectionRules, trimmed) {
		case lineHeader:
			label = sectionLabel(line)
		case lineBlank, lineMeasure:
		default:
			if _, seen := out.Lines[label]; !seen {
				out.Order = append(out.Order, label)
			}
			out.Lines[label] = append(out.Lines[label], NormalizeWhitespace(trimmed))
		}
	}

	return out
}

// sectionLabel builds "Verse:2" from "verse 2 (softly)". The number is the
// first digit run anywhere on the line, not just after the keyword.
func sectionLabel(line string) string {
	label := capitalize(strings.Fields(line)[0])
	if num := firstNumberRegex.FindString(line); num != "" {
		label += ":" + num
	}
	return label
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
