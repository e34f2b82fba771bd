package lyrics

import (
	"errors"
	"fmt"
)

// Declaration is prepended to every serialized lyrics document.
const Declaration = `<?xml version='1.0' encoding='UTF-8'?>`

var (
	// ErrNoLyrics means the document has no <lyrics> element.
	ErrNoLyrics = errors.New("no <lyrics> element found")
	// ErrNoVerses means the document has no <verse> elements to merge into.
	ErrNoVerses = errors.New("no <verse> elements found")
	// ErrInvalidInput is the sentinel behind ParseError.
	ErrInvalidInput = errors.New("invalid input")
)

// ParseError wraps XML that could not be parsed.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse lyrics XML: %s", e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Err, ErrInvalidInput}
	}
	return []error{ErrInvalidInput}
}

// TagReport describes how one tag's lines were spread over its verses.
type TagReport struct {
	Tag    string `json:"tag"`
	Verses int    `json:"verses"`
	Lines  int    `json:"lines"`
}

// MergeResult summarizes a merge.
type MergeResult struct {
	// Injected lists tags that received text, in document order.
	Injected []TagReport `json:"injected"`
	// Skipped lists document tags with no parsed section.
	Skipped []string `json:"skipped"`
	// Unused lists parsed tags with no matching verse, sorted.
	Unused []string `json:"unused"`
}

// Changed reports whether any verse received text.
func (r *MergeResult) Changed() bool {
	return len(r.Injected) > 0
}
