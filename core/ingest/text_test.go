package ingest

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	bperrors "github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

func mustParse(t *testing.T, input string, opts ...Option) *bible.Tree {
	t.Helper()
	tree, err := Parse(strings.NewReader(input), canon.Default(), opts...)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func verseText(t *testing.T, tree *bible.Tree, key canon.BookKey, chapter, verse int) string {
	t.Helper()
	b, ok := tree.Book(key)
	if !ok {
		t.Fatalf("book %s missing", key)
	}
	c, ok := b.Chapter(chapter)
	if !ok {
		t.Fatalf("%s %d missing", key, chapter)
	}
	v, ok := c.Verse(verse)
	if !ok {
		t.Fatalf("%s %d:%d missing", key, chapter, verse)
	}
	return v.Text
}

func TestParseContinuationLine(t *testing.T) {
	tree := mustParse(t, "창1:1 태초에 하나님이 천지를 창조하시니라\n계속되는 본문\n")

	got := verseText(t, tree, canon.Genesis, 1, 1)
	want := "태초에 하나님이 천지를 창조하시니라 계속되는 본문"
	if got != want {
		t.Errorf("Genesis 1:1 = %q, want %q", got, want)
	}
}

func TestParseContinuationOrderAndTrim(t *testing.T) {
	input := strings.Join([]string{
		"창1:2   땅이 혼돈하고  ",
		"   공허하며   ",
		"",
		"\t흑암이 깊음 위에 있고",
		"   ",
		"하나님의 영은 수면 위에 운행하시니라",
	}, "\n")
	tree := mustParse(t, input)

	got := verseText(t, tree, canon.Genesis, 1, 2)
	want := "땅이 혼돈하고 공허하며 흑암이 깊음 위에 있고 하나님의 영은 수면 위에 운행하시니라"
	if got != want {
		t.Errorf("Genesis 1:2 = %q, want %q", got, want)
	}
}

func TestParseEmptyInlineText(t *testing.T) {
	tree := mustParse(t, "창1:1\n태초에\n")
	if got := verseText(t, tree, canon.Genesis, 1, 1); got != "태초에" {
		t.Errorf("Genesis 1:1 = %q, want %q", got, "태초에")
	}
}

func TestParseNoSpaceAfterMarker(t *testing.T) {
	tree := mustParse(t, "요3:16하나님이 세상을 이처럼 사랑하사\n")
	if got := verseText(t, tree, canon.John, 3, 16); got != "하나님이 세상을 이처럼 사랑하사" {
		t.Errorf("John 3:16 = %q", got)
	}
}

func TestParseCanonicalOrder(t *testing.T) {
	input := strings.Join([]string{
		"계1:1 요한계시록",
		"출2:1 출애굽 둘",
		"창2:1 창세 둘",
		"출1:2 출애굽 하나 둘",
		"창1:3 창세 셋",
		"출1:1 출애굽 하나",
		"창1:1 창세 하나",
	}, "\n")
	tree := mustParse(t, input)

	wantBooks := []canon.BookKey{canon.Genesis, canon.Exodus, canon.Revelation}
	if len(tree.Books) != len(wantBooks) {
		t.Fatalf("len(Books) = %d, want %d", len(tree.Books), len(wantBooks))
	}
	for i, key := range wantBooks {
		if tree.Books[i].Meta.Key != key {
			t.Errorf("Books[%d] = %s, want %s", i, tree.Books[i].Meta.Key, key)
		}
	}

	gen := tree.Books[0]
	if gen.Chapters[0].Number != 1 || gen.Chapters[1].Number != 2 {
		t.Errorf("Genesis chapters = %d,%d, want 1,2", gen.Chapters[0].Number, gen.Chapters[1].Number)
	}
	if v := gen.Chapters[0].Verses; v[0].Number != 1 || v[1].Number != 3 {
		t.Errorf("Genesis 1 verses = %d,%d, want 1,3", v[0].Number, v[1].Number)
	}

	exo := tree.Books[1]
	if got := exo.Chapters[0].Verses[1].Text; got != "출애굽 하나 둘" {
		t.Errorf("Exodus 1:2 = %q", got)
	}
}

// captureLogs routes the package logger to a buffer at debug level for the
// duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.Init(&buf, slog.LevelDebug, logging.FormatJSON)
	t.Cleanup(func() { logging.Init(os.Stderr, slog.LevelInfo, logging.FormatText) })
	return &buf
}

func TestParseTextBeforeFirstMarkerDiscarded(t *testing.T) {
	logs := captureLogs(t)
	tree := mustParse(t, "개역개정판\n\n머리말\n창1:1 태초에\n")
	if got := verseText(t, tree, canon.Genesis, 1, 1); got != "태초에" {
		t.Errorf("Genesis 1:1 = %q, want %q", got, "태초에")
	}
	if got := tree.VerseCount(); got != 1 {
		t.Errorf("VerseCount() = %d, want 1", got)
	}

	out := logs.String()
	if got := strings.Count(out, `"msg":"ingest_line_dropped"`); got != 2 {
		t.Errorf("dropped line events = %d, want 2 in %q", got, out)
	}
	for _, want := range []string{`"line_number":1`, `"line_number":3`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %q", want, out)
		}
	}
}

func TestParseLastWriteWins(t *testing.T) {
	tree := mustParse(t, "창1:1 첫번째\n이어짐\n창1:1 두번째\n")
	if got := verseText(t, tree, canon.Genesis, 1, 1); got != "두번째" {
		t.Errorf("Genesis 1:1 = %q, want %q", got, "두번째")
	}
}

func TestParseMalformedNumbersAreContinuation(t *testing.T) {
	input := strings.Join([]string{
		"창1:1 태초에",
		"창99999999999999999999999:1 넘침",
		"창0:1 영장",
		"요한 3:16 띄어쓰기",
		"시간은 3:00 이다",
	}, "\n")
	tree := mustParse(t, input)

	want := "태초에 창99999999999999999999999:1 넘침 창0:1 영장 요한 3:16 띄어쓰기 시간은 3:00 이다"
	if got := verseText(t, tree, canon.Genesis, 1, 1); got != want {
		t.Errorf("Genesis 1:1 = %q, want %q", got, want)
	}
}

func TestParseUnknownAbbreviation(t *testing.T) {
	input := "창1:1 태초에\n\n없는3:2 본문\n창1:2 땅이\n"
	tree, err := Parse(strings.NewReader(input), canon.Default())
	if tree != nil {
		t.Error("Parse() returned a tree alongside an error")
	}

	var unknown *bperrors.UnknownAbbreviationError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownAbbreviationError", err)
	}
	if unknown.Abbreviation != "없는" {
		t.Errorf("Abbreviation = %q, want %q", unknown.Abbreviation, "없는")
	}
	if unknown.LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", unknown.LineNumber)
	}
	if unknown.Line != "없는3:2 본문" {
		t.Errorf("Line = %q", unknown.Line)
	}
}

func TestParseDisplayNameIsNotAnAbbreviation(t *testing.T) {
	_, err := Parse(strings.NewReader("창세기1:1 태초에\n"), canon.Default())
	if !errors.Is(err, bperrors.ErrInvalidInput) {
		t.Errorf("error = %v, want UnknownAbbreviationError", err)
	}
}

func TestParseMetadata(t *testing.T) {
	input := "창1:1 태초에\n"

	tree := mustParse(t, input)
	if tree.ID != DefaultID || tree.Name != DefaultName || tree.LanguageCode != DefaultLanguage {
		t.Errorf("defaults = %q/%q/%q", tree.ID, tree.Name, tree.LanguageCode)
	}
	if tree.SourceHash != SourceHash([]byte(input)) {
		t.Errorf("SourceHash = %q, want hash of input", tree.SourceHash)
	}
	if len(tree.SourceHash) != 64 {
		t.Errorf("len(SourceHash) = %d, want 64", len(tree.SourceHash))
	}

	custom := mustParse(t, input, WithID("x:1"), WithName("테스트"), WithLanguage("en"))
	if custom.ID != "x:1" || custom.Name != "테스트" || custom.LanguageCode != "en" {
		t.Errorf("custom = %q/%q/%q", custom.ID, custom.Name, custom.LanguageCode)
	}
}

func TestParseByteOrderMark(t *testing.T) {
	tree := mustParse(t, "\ufeff창1:1 태초에\n")
	if got := verseText(t, tree, canon.Genesis, 1, 1); got != "태초에" {
		t.Errorf("Genesis 1:1 = %q", got)
	}
}

func TestParseDecomposedHangul(t *testing.T) {
	// "창" written as conjoining jamo (NFD).
	tree := mustParse(t, "\u110e\u1161\u11bc1:1 태초에\n")
	if _, ok := tree.Book(canon.Genesis); !ok {
		t.Error("decomposed abbreviation did not resolve to Genesis")
	}
}

func TestParseEmptyInput(t *testing.T) {
	tree := mustParse(t, "\n  \n")
	if len(tree.Books) != 0 {
		t.Errorf("len(Books) = %d, want 0", len(tree.Books))
	}
}

func TestParseReadError(t *testing.T) {
	_, err := Parse(iotest.ErrReader(errors.New("boom")), canon.Default())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want read failure", err)
	}
}

func TestParseMarker(t *testing.T) {
	tests := []struct {
		line string
		want marker
		ok   bool
	}{
		{"창1:1 태초에", marker{"창", 1, 1, "태초에"}, true},
		{"삼상17:45 다윗이", marker{"삼상", 17, 45, "다윗이"}, true},
		{"요일4:8", marker{"요일", 4, 8, ""}, true},
		{"1:1 태초에", marker{}, false},
		{"창1 태초에", marker{}, false},
		{"창1:a 태초에", marker{}, false},
		{"창 1:1 태초에", marker{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseMarker(tt.line)
			if ok != tt.ok {
				t.Fatalf("parseMarker(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("parseMarker(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseSharedRegistryUnchanged(t *testing.T) {
	before := canon.Default().Canonical()
	mustParse(t, "창1:1 태초에\n")
	after := canon.Default().Canonical()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("registry entry %d changed", i)
		}
	}
}
