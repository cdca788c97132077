package ingest

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/text/unicode/norm"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

var (
	osisVerseExpr = xpath.MustCompile(`//*[local-name()='verse'][@osisID]`)
	osisTextExpr  = xpath.MustCompile(`//*[local-name()='osisText']`)
	osisTitleExpr = xpath.MustCompile(`//*[local-name()='work']/*[local-name()='title']`)
)

// ParseOSIS builds a tree from an OSIS XML document. Both container verses
// (<verse osisID="Gen.1.1">text</verse>) and sibling milestones
// (<verse sID=".." osisID="Gen.1.1"/>text<verse eID=".."/>) are read; notes are
// skipped. Books resolve through reg.ByOSIS, and an unknown book id fails the
// whole parse like an unknown abbreviation in the line format.
//
// Tree metadata not set through opts is taken from the osisText header.
func ParseOSIS(r io.Reader, reg *canon.Registry, opts ...Option) (*bible.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read OSIS document")
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errors.ParseError{Format: "OSIS", Message: "malformed XML", Err: err}
	}

	o := newOptions(opts)
	fillOSISHeader(doc, o)
	o.fillDefaults()

	b := newBuilder()
	for _, n := range xmlquery.QuerySelectorAll(doc, osisVerseExpr) {
		osisID := strings.Fields(n.SelectAttr("osisID"))
		if len(osisID) == 0 {
			continue
		}
		bookID, chapter, verse, ok := splitOSISID(osisID[0])
		if !ok {
			logging.Warn("osis_verse_skipped", "osis_id", osisID[0])
			continue
		}
		meta, ok := reg.ByOSIS(bookID)
		if !ok {
			return nil, &errors.UnknownAbbreviationError{Abbreviation: bookID, Line: osisID[0]}
		}

		var sb strings.Builder
		if n.FirstChild == nil && n.SelectAttr("sID") != "" {
			collectMilestone(n, &sb)
		} else {
			collectText(n, &sb)
		}

		text := strings.Join(strings.Fields(norm.NFC.String(sb.String())), " ")
		b.startVerse(meta, chapter, verse, text)
	}

	return b.build(o, SourceHash(data)), nil
}

func fillOSISHeader(doc *xmlquery.Node, o *options) {
	osisText := xmlquery.QuerySelector(doc, osisTextExpr)
	if osisText == nil {
		return
	}
	work := attrLocal(osisText, "osisIDWork")
	lang := attrLocal(osisText, "lang")

	if o.language == "" {
		o.language = lang
	}
	if o.id == "" && work != "" {
		o.id = "osis:" + o.language + ":" + work
	}
	if o.name == "" {
		if title := xmlquery.QuerySelector(doc, osisTitleExpr); title != nil {
			o.name = strings.TrimSpace(title.InnerText())
		}
		if o.name == "" {
			o.name = work
		}
	}
}

// splitOSISID splits "Gen.1.1" into its parts. Ids that are not
// book.chapter.verse with positive numbers are rejected.
func splitOSISID(id string) (book string, chapter, verse int, ok bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return "", 0, 0, false
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter < 1 {
		return "", 0, 0, false
	}
	verse, err = strconv.Atoi(parts[2])
	if err != nil || verse < 1 {
		return "", 0, 0, false
	}
	return parts[0], chapter, verse, true
}

func collectText(n *xmlquery.Node, sb *strings.Builder) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		sb.WriteString(n.Data)
	case xmlquery.ElementNode:
		if n.Data == "note" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectText(c, sb)
		}
		sb.WriteByte(' ')
	}
}

// collectMilestone gathers the text that follows a verse start milestone in
// document order, climbing out of enclosing paragraphs and line groups, up to
// the next verse element. The walk never leaves the enclosing chapter or div.
func collectMilestone(start *xmlquery.Node, sb *strings.Builder) {
	for n := start; n != nil && !isContainer(n); n = n.Parent {
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if collectUntilVerse(sib, sb) {
				return
			}
		}
		sb.WriteByte(' ')
	}
}

// collectUntilVerse is collectText that stops at the first verse element and
// reports whether it did.
func collectUntilVerse(n *xmlquery.Node, sb *strings.Builder) bool {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		sb.WriteString(n.Data)
	case xmlquery.ElementNode:
		switch {
		case n.Data == "verse", isContainer(n):
			return true
		case n.Data == "note":
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if collectUntilVerse(c, sb) {
				return true
			}
		}
		sb.WriteByte(' ')
	}
	return false
}

func isContainer(n *xmlquery.Node) bool {
	return isElement(n, "chapter") || isElement(n, "div") || isElement(n, "osisText")
}

func isElement(n *xmlquery.Node, local string) bool {
	return n.Type == xmlquery.ElementNode && n.Data == local
}

// attrLocal matches an attribute by local name, ignoring its namespace prefix.
func attrLocal(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
