package lyrics

import (
	"sort"
	"strings"

	"github.com/sukalov/openlp-chords/internal/logger"
	"github.com/sukalov/openlp-chords/internal/utils"
)

// Merge writes the parsed sections into the document's verses. Verses are
// grouped by tag; each group's lines are split evenly in document order and
// the last verse of a group takes any remainder. Verses whose tag has no
// section keep their text.
func Merge(doc *Document, sections map[string]string) (*MergeResult, error) {
	verses := doc.Verses()
	if len(verses) == 0 {
		return nil, ErrNoVerses
	}

	var order []string
	groups := make(map[string][]*Verse)
	for _, v := range verses {
		tag := v.Tag()
		if _, seen := groups[tag]; !seen {
			order = append(order, tag)
		}
		groups[tag] = append(groups[tag], v)
	}

	result := &MergeResult{}
	for _, tag := range order {
		group := groups[tag]
		text, ok := sections[tag]
		if !ok {
			logger.Debug("no matching chordpro section, skipping", "tag", tag)
			result.Skipped = append(result.Skipped, tag)
			continue
		}

		lines := utils.SplitLines(text)
		for i, part := range DistributeLines(lines, len(group)) {
			group[i].SetText(strings.Join(part, "\n"))
		}

		logger.Debug("injected chords", "tag", tag, "verses", len(group), "lines", len(lines))
		result.Injected = append(result.Injected, TagReport{Tag: tag, Verses: len(group), Lines: len(lines)})
	}

	for tag := range sections {
		if _, ok := groups[tag]; !ok {
			result.Unused = append(result.Unused, tag)
		}
	}
	sort.Strings(result.Unused)

	return result, nil
}

// DistributeLines divides lines over n verses. Every verse gets
// max(1, len(lines)/n) lines and the last one also gets the remainder.
// Verses past the end of lines get an empty slice.
func DistributeLines(lines []string, n int) [][]string {
	if n <= 0 {
		return nil
	}

	per := max(1, len(lines)/n)
	parts := make([][]string, n)
	for i := range parts {
		start := min(i*per, len(lines))
		end := min((i+1)*per, len(lines))
		if i == n-1 {
			end = len(lines)
		}
		parts[i] = lines[start:end]
	}
	return parts
}

// InjectChords parses song XML, merges sections into it and returns the
// serialized document.
func InjectChords(xmlText string, sections map[string]string) (string, *MergeResult, error) {
	doc, err := ParseDocument(xmlText)
	if err != nil {
		return "", nil, err
	}

	result, err := Merge(doc, sections)
	if err != nil {
		return "", nil, err
	}

	return doc.String(), result, nil
}
