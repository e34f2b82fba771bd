package chordpro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSections(t *testing.T) {
	text := `Amazing Grace
Verse 1
[G]Amazing   grace how [C]sweet the [G]sound

[| G / / / |]
That saved a wretch like me
CHORUS
  [D]My chains are   gone
Verse 2
'Twas grace that taught`

	got := ParseSections(text)

	assert.Equal(t, []string{"unknown", "Verse:1", "Chorus", "Verse:2"}, got.Order)
	assert.Equal(t, []string{"Amazing Grace"}, got.Lines["unknown"])
	assert.Equal(t, []string{
		"[G]Amazing grace how [C]sweet the [G]sound",
		"That saved a wretch like me",
	}, got.Lines["Verse:1"])
	assert.Equal(t, []string{"[D]My chains are gone"}, got.Lines["Chorus"])
	assert.Equal(t, []string{"'Twas grace that taught"}, got.Lines["Verse:2"])
}

func TestParseSectionsHeaderNumberAnywhere(t *testing.T) {
	got := ParseSections("Intro (x2)\n[G] [C]\nbridge\nla la")

	assert.Equal(t, []string{"Intro:2", "Bridge"}, got.Order)
	assert.Equal(t, []string{"[G] [C]"}, got.Lines["Intro:2"])
}

func TestParseSectionsHeaderWithoutContent(t *testing.T) {
	got := ParseSections("Verse 1\n\nChorus\nline")

	assert.Equal(t, []string{"Chorus"}, got.Order)
	assert.NotContains(t, got.Lines, "Verse:1")
}

func TestParseSectionsMeasureMarkers(t *testing.T) {
	tests := []struct {
		name string
		line string
		kept []string
	}{
		{"exact", "[| D / / / |]", nil},
		{"surrounded by whitespace", "   [| D / / / |]\t", nil},
		{"trailing text", "[| D / / / |] extra", []string{"[| D / / / |] extra"}},
		{"inner spacing collapsed", "[|  D  |]  extra", []string{"[| D |] extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSections("Verse\n" + tt.line)
			assert.Equal(t, tt.kept, got.Lines["Verse"])
		})
	}
}

func TestParseSectionsLineCount(t *testing.T) {
	text := "pre\nVerse 1\na\n\n[| A |]\nb  c\nChorus\nd\n   \ne\nTag\nf"

	got := ParseSections(text)

	// pre, a, "b c", d, e, f
	require.Equal(t, 6, got.LineCount())
}

func TestNormalizeWhitespaceIdempotent(t *testing.T) {
	lines := []string{
		"  [G]Amazing \t grace  ",
		"plain",
		"",
		"a  b",
	}

	for _, line := range lines {
		once := NormalizeWhitespace(line)
		assert.Equal(t, once, NormalizeWhitespace(once), line)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Chorus", capitalize("CHORUS"))
	assert.Equal(t, "Verse1:", capitalize("verse1:"))
	assert.Equal(t, "Tag", capitalize("tag"))
}
