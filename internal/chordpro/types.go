package chordpro

import (
	"errors"
	"fmt"
	"strings"
)

// VerseType is the single-letter verse code used by OpenLP lyrics documents
type VerseType string

const (
	VerseTypeVerse     VerseType = "v"
	VerseTypeChorus    VerseType = "c"
	VerseTypePreChorus VerseType = "p"
	VerseTypeBridge    VerseType = "b"
	VerseTypeIntro     VerseType = "i"
	VerseTypeEnding    VerseType = "e"
	VerseTypeTag       VerseType = "t"
	VerseTypeOther     VerseType = "x"
)

// verseTypes maps lowercased section keywords to verse codes.
var verseTypes = map[string]VerseType{
	"verse":        VerseTypeVerse,
	"chorus":       VerseTypeChorus,
	"pre chorus":   VerseTypePreChorus,
	"bridge":       VerseTypeBridge,
	"interlude":    VerseTypeIntro,
	"intro":        VerseTypeIntro,
	"instrumental": VerseTypeIntro,
	"ending":       VerseTypeEnding,
	"tag":          VerseTypeTag,
}

// LookupVerseType resolves a section phrase such as "Verse", "pre-chorus" or
// "chorus a" to its verse code. The whole phrase is tried first, then its
// first word. Unknown phrases map to VerseTypeOther.
// Deliberately not a first-word-only lookup: "Pre-Chorus" gives p, where
// the first word "pre" alone would give x.
func LookupVerseType(phrase string) VerseType {
	phrase = normalizePhrase(phrase)
	if vt, ok := verseTypes[phrase]; ok {
		return vt
	}
	words := strings.Fields(phrase)
	if len(words) > 0 {
		if vt, ok := verseTypes[words[0]]; ok {
			return vt
		}
	}
	return VerseTypeOther
}

// UnknownSection is the Mode A label for lines that precede any header.
const UnknownSection = "unknown"

// Sections is the flat result of ParseSections.
type Sections struct {
	// Order lists labels in first-seen order.
	Order []string            `json:"order"`
	Lines map[string][]string `json:"lines"`
}

// LineCount returns the total number of lines across all sections.
func (s *Sections) LineCount() int {
	total := 0
	for _, lines := range s.Lines {
		total += len(lines)
	}
	return total
}

// Options controls verse parsing
type Options struct {
	// Strict rejects duplicate tags and malformed comment headers instead of
	// overwriting or dropping them.
	Strict bool
}

var (
	// ErrInvalidInput is the sentinel behind every ParseError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateTag is returned in strict mode when a tag is flushed twice.
	ErrDuplicateTag = errors.New("duplicate section tag")
	// ErrMalformedHeader is returned in strict mode for comment headers
	// without a recognizable section name.
	ErrMalformedHeader = errors.New("malformed section header")
)

// ParseError reports where verse parsing failed.
type ParseError struct {
	Line int    // 1-based source line
	Text string // offending line, trimmed
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("chordpro: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{e.Err, ErrInvalidInput}
}
