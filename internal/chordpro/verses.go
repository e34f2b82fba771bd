package chordpro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sukalov/openlp-chords/internal/logger"
	"github.com/sukalov/openlp-chords/internal/utils"
)

var (
	// commentRegex matches section headings like {comment: Verse 1}
	commentRegex = regexp.MustCompile(`(?i)^\{comment:\s*(.*?)\s*\}`)
	// sectionNameRegex splits "verse 2" into its phrase and optional number
	sectionNameRegex = regexp.MustCompile(`^([a-z\- ]+)\s*(\d*)`)
)

// verseScan is the accumulator threaded through a ParseVerses pass.
type verseScan struct {
	opts   Options
	tag    string
	lines  []string
	verses map[string]string
}

// ParseVerses groups ChordPro text into OpenLP verse tags ("v1", "c2", ...)
// using {comment: ...} headers. Other directives are skipped and content
// lines are kept verbatim apart from trimming. A repeated tag overwrites the
// earlier section, and a comment header without a section name drops the
// lines up to the next valid header.
func ParseVerses(text string) map[string]string {
	verses, _ := ParseVersesWithOptions(text, Options{})
	return verses
}

// ParseVersesWithOptions is ParseVerses with explicit options. An error is
// only returned in strict mode.
func ParseVersesWithOptions(text string, opts Options) (map[string]string, error) {
	s := &verseScan{opts: opts, verses: make(map[string]string)}

	for i, line := range utils.SplitLines(text) {
		trimmed := strings.TrimSpace(line)

		switch classify(verseRules, trimmed) {
		case lineBlank, lineMetadata:
		case lineHeader:
			if err := s.flush(i + 1); err != nil {
				return nil, err
			}
			if err := s.startSection(i+1, trimmed); err != nil {
				return nil, err
			}
		default:
			s.lines = append(s.lines, trimmed)
		}
	}

	if err := s.flush(0); err != nil {
		return nil, err
	}
	return s.verses, nil
}

func (s *verseScan) flush(lineNo int) error {
	defer func() {
		s.tag = ""
		s.lines = nil
	}()

	if s.tag == "" || len(s.lines) == 0 {
		return nil
	}
	if _, exists := s.verses[s.tag]; exists {
		if s.opts.Strict {
			return &ParseError{Line: lineNo, Text: s.tag, Err: ErrDuplicateTag}
		}
		logger.Debug("overwriting repeated section", "tag", s.tag)
	}
	s.verses[s.tag] = strings.TrimSpace(strings.Join(s.lines, "\n"))
	return nil
}

func (s *verseScan) startSection(lineNo int, header string) error {
	name := strings.ToLower(commentRegex.FindStringSubmatch(header)[1])

	tag, ok := s.deriveTag(name)
	if !ok {
		if s.opts.Strict {
			return &ParseError{Line: lineNo, Text: header, Err: ErrMalformedHeader}
		}
		logger.Debug("ignoring unrecognized section header", "line", lineNo, "header", header)
		return nil
	}

	s.tag = tag
	return nil
}

// deriveTag turns a lowercased section name into a tag. Without an explicit
// number the suffix continues from the tags of the same type already stored.
func (s *verseScan) deriveTag(name string) (string, bool) {
	m := sectionNameRegex.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	phrase, num := normalizePhrase(m[1]), m[2]
	if phrase == "" {
		return "", false
	}

	code := string(LookupVerseType(phrase))
	if num == "" {
		num = strconv.Itoa(s.countTags(code) + 1)
	}
	return fmt.Sprintf("%s%s", code, num), true
}

func (s *verseScan) countTags(code string) int {
	n := 0
	for tag := range s.verses {
		if strings.HasPrefix(tag, code) {
			n++
		}
	}
	return n
}
