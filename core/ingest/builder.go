package ingest

import (
	"maps"
	"slices"
	"strings"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
)

// builder is the mutable cursor used during a single parse. It is converted
// into an immutable bible.Tree by build and then discarded.
type builder struct {
	books   map[canon.BookKey]*bookBuilder
	current *verseBuilder
}

type bookBuilder struct {
	meta     canon.Book
	chapters map[int]*chapterBuilder
}

type chapterBuilder struct {
	number int
	verses map[int]*verseBuilder
}

type verseBuilder struct {
	number int
	text   strings.Builder
}

func newBuilder() *builder {
	return &builder{books: make(map[canon.BookKey]*bookBuilder)}
}

// startVerse records a verse marker. A verse already present at the same
// position is replaced. The new verse becomes the current verse.
func (b *builder) startVerse(meta canon.Book, chapter, verse int, text string) {
	bb, ok := b.books[meta.Key]
	if !ok {
		bb = &bookBuilder{meta: meta, chapters: make(map[int]*chapterBuilder)}
		b.books[meta.Key] = bb
	}

	cb, ok := bb.chapters[chapter]
	if !ok {
		cb = &chapterBuilder{number: chapter, verses: make(map[int]*verseBuilder)}
		bb.chapters[chapter] = cb
	}

	vb := &verseBuilder{number: verse}
	vb.text.Grow(len(text) + 32)
	vb.text.WriteString(text)
	cb.verses[verse] = vb
	b.current = vb
}

// appendText adds a continuation line to the current verse. It reports false
// when there is no current verse and the text was dropped.
func (b *builder) appendText(text string) bool {
	if b.current == nil {
		return false
	}
	b.current.append(text)
	return true
}

func (v *verseBuilder) append(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if v.text.Len() > 0 {
		v.text.WriteByte(' ')
	}
	v.text.WriteString(text)
}

func (b *builder) build(o *options, sourceHash string) *bible.Tree {
	books := slices.SortedFunc(maps.Values(b.books), func(x, y *bookBuilder) int {
		return x.meta.Order - y.meta.Order
	})

	tree := &bible.Tree{
		ID:           o.id,
		Name:         o.name,
		LanguageCode: o.language,
		SourceHash:   sourceHash,
		Books:        make([]bible.Book, 0, len(books)),
	}

	for _, bb := range books {
		book := bible.Book{Meta: bb.meta, Chapters: make([]bible.Chapter, 0, len(bb.chapters))}
		for _, n := range slices.Sorted(maps.Keys(bb.chapters)) {
			cb := bb.chapters[n]
			chapter := bible.Chapter{Number: n, Verses: make([]bible.Verse, 0, len(cb.verses))}
			for _, vn := range slices.Sorted(maps.Keys(cb.verses)) {
				chapter.Verses = append(chapter.Verses, bible.Verse{
					Number: vn,
					Text:   cb.verses[vn].text.String(),
				})
			}
			book.Chapters = append(book.Chapters, chapter)
		}
		tree.Books = append(tree.Books, book)
	}

	return tree
}
