// Package passage parses human-written scripture references such as
// "창1:1-5", "요한복음 3:16" or "Genesis 1:1–2:3; 시23" into range descriptors.
//
// Parsing never fails loudly: input that yields no usable reference produces an
// empty result, and a sub-reference with an unknown book or bad numbers is
// dropped without affecting its neighbours.
package passage

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/text/unicode/norm"

	"github.com/irron2004/bible2ppt/core/canon"
)

// Range is a normalized passage. A nil EndChapter means "through the last
// chapter of the book"; a nil EndVerse means "through the last verse of the
// end chapter". Open ends are resolved against the text, never filled in here.
type Range struct {
	Book         canon.BookKey `json:"book"`
	StartChapter int           `json:"start_chapter"`
	StartVerse   int           `json:"start_verse"`
	EndChapter   *int          `json:"end_chapter,omitempty"`
	EndVerse     *int          `json:"end_verse,omitempty"`
}

// Separator splits independent sub-references.
const Separator = ";"

// passageGrammar is one sub-reference: book, start point and optional range.
// Examples: "창1", "창1:1", "창1:1-5", "창1:1-2:3", "창1-3", "창1:1-"
//
//nolint:govet // participle grammar tags are not standard struct tags
type passageGrammar struct {
	Book  string     `@Ident`
	Start *pointPart `@@`
	Range *rangePart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangePart struct {
	Dash string     `@Dash`
	End  *pointPart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type pointPart struct {
	Chapter int  `@Int`
	Verse   *int `( ":" @Int )?`
}

// passageLexer tokenizes a sub-reference. A book token is any run that is not
// a digit, whitespace, colon, separator or dash, so Hangul names lex as one Ident.
var passageLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `:`},
	{Name: "Dash", Pattern: `[-–—~]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Ident", Pattern: `[^0-9\s:;\-–—~]+`},
})

var passageParser = participle.MustBuild[passageGrammar](
	participle.Lexer(passageLexer),
	participle.Elide("Whitespace"),
)

// Parser resolves book tokens against a registry.
type Parser struct {
	reg *canon.Registry
}

// NewParser returns a parser using reg for book lookup.
func NewParser(reg *canon.Registry) *Parser {
	return &Parser{reg: reg}
}

var defaultParser = NewParser(canon.Default())

// Parse parses text with the default registry.
func Parse(text string) []Range {
	return defaultParser.Parse(text)
}

// Parse splits text on Separator and parses each part independently, keeping
// input order. Parts that do not parse are skipped.
func (p *Parser) Parse(text string) []Range {
	text = norm.NFC.String(text)

	var out []Range
	for _, part := range strings.Split(text, Separator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if r, ok := p.parseOne(part); ok {
			out = append(out, r)
		}
	}
	return out
}

func (p *Parser) parseOne(s string) (Range, bool) {
	parsed, err := passageParser.ParseString("", s)
	if err != nil {
		return Range{}, false
	}

	book, ok := p.reg.Lookup(parsed.Book)
	if !ok {
		return Range{}, false
	}

	r := Range{
		Book:         book.Key,
		StartChapter: parsed.Start.Chapter,
		StartVerse:   1,
	}
	chapterOnly := parsed.Start.Verse == nil
	if !chapterOnly {
		r.StartVerse = *parsed.Start.Verse
	}

	switch {
	case parsed.Range == nil && chapterOnly:
		// "창1": the whole chapter.
		r.EndChapter = intPtr(r.StartChapter)
	case parsed.Range == nil:
		// "창1:1": a single verse.
		r.EndChapter = intPtr(r.StartChapter)
		r.EndVerse = intPtr(r.StartVerse)
	case parsed.Range.End == nil:
		// "창1:1-" or "창1-": open through the end of the book.
	case parsed.Range.End.Verse != nil:
		// "창1:1-2:3" or "창1-2:3".
		r.EndChapter = intPtr(parsed.Range.End.Chapter)
		r.EndVerse = intPtr(*parsed.Range.End.Verse)
	case chapterOnly:
		// "창1-3": whole chapters.
		r.EndChapter = intPtr(parsed.Range.End.Chapter)
	default:
		// "창1:1-5": verses within the start chapter.
		r.EndChapter = intPtr(r.StartChapter)
		r.EndVerse = intPtr(parsed.Range.End.Chapter)
	}

	return r, r.valid()
}

// valid rejects zero numbers and ends that precede the start.
func (r Range) valid() bool {
	if r.StartChapter < 1 || r.StartVerse < 1 {
		return false
	}
	if r.EndChapter == nil {
		return true
	}
	if *r.EndChapter < r.StartChapter {
		return false
	}
	if r.EndVerse == nil {
		return true
	}
	if *r.EndVerse < 1 {
		return false
	}
	return *r.EndChapter > r.StartChapter || *r.EndVerse >= r.StartVerse
}

// String renders the range for logs, e.g. "Genesis 1:1-2:3" or "Psalms 23:1-".
func (r Range) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.Book))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(r.StartChapter))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(r.StartVerse))

	switch {
	case r.EndChapter == nil:
		sb.WriteByte('-')
	case r.EndVerse == nil:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(*r.EndChapter))
		sb.WriteString(":end")
	case *r.EndChapter == r.StartChapter && *r.EndVerse == r.StartVerse:
	case *r.EndChapter == r.StartChapter:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(*r.EndVerse))
	default:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(*r.EndChapter))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(*r.EndVerse))
	}
	return sb.String()
}

func intPtr(n int) *int {
	return &n
}
