package lyrics

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	lyricsExpr = xpath.MustCompile("//lyrics")
	versesExpr = xpath.MustCompile("//verse")
)

// Document is a parsed OpenLP song XML document.
type Document struct {
	root   *xmlquery.Node
	lyrics *xmlquery.Node
}

// Verse is one <verse> element.
type Verse struct {
	node *xmlquery.Node
}

// ParseDocument parses song XML and locates its <lyrics> element.
func ParseDocument(text string) (*Document, error) {
	root, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}

	lyrics := xmlquery.QuerySelector(root, lyricsExpr)
	if lyrics == nil {
		return nil, ErrNoLyrics
	}

	return &Document{root: root, lyrics: lyrics}, nil
}

// Verses returns every <verse> element in document order.
func (d *Document) Verses() []*Verse {
	nodes := xmlquery.QuerySelectorAll(d.root, versesExpr)
	verses := make([]*Verse, len(nodes))
	for i, n := range nodes {
		verses[i] = &Verse{node: n}
	}
	return verses
}

// LyricsXML returns the serialized child elements of <lyrics>.
func (d *Document) LyricsXML() string {
	var b strings.Builder
	for child := d.lyrics.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			b.WriteString(child.OutputXML(true))
		}
	}
	return b.String()
}

// String serializes the root element behind Declaration. Anything outside
// the root element, including the original declaration, is not kept.
func (d *Document) String() string {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return Declaration + n.OutputXML(true)
		}
	}
	return Declaration
}

// Tag is the lowercased type attribute followed by the lowercased label,
// e.g. type="C" label="1" gives "c1".
func (v *Verse) Tag() string {
	return strings.ToLower(v.node.SelectAttr("type")) + strings.ToLower(v.node.SelectAttr("label"))
}

// Text returns the verse's text content.
func (v *Verse) Text() string {
	return v.node.InnerText()
}

// SetText replaces the text that precedes the verse's first child node.
// Child elements and any text after them are left alone. Verses stored as
// CDATA stay CDATA unless text contains a CDATA terminator.
func (v *Verse) SetText(text string) {
	cdata := false
	for child := v.node.FirstChild; child != nil; {
		if child.Type != xmlquery.TextNode && child.Type != xmlquery.CharDataNode {
			break
		}
		if child.Type == xmlquery.CharDataNode {
			cdata = true
		}
		next := child.NextSibling
		xmlquery.RemoveFromTree(child)
		child = next
	}

	nodeType := xmlquery.TextNode
	if cdata && !strings.Contains(text, "]]>") {
		nodeType = xmlquery.CharDataNode
	}
	node := &xmlquery.Node{Type: nodeType, Data: text}

	first := v.node.FirstChild
	if first == nil {
		xmlquery.AddChild(v.node, node)
		return
	}
	node.Parent = v.node
	node.NextSibling = first
	first.PrevSibling = node
	v.node.FirstChild = node
}

// ExtractLyricsXML returns the inner XML of the first <lyrics> element.
func ExtractLyricsXML(text string) (string, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return "", err
	}
	return doc.LyricsXML(), nil
}
