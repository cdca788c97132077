// Package bible defines the immutable book/chapter/verse tree produced by
// ingestion.
//
// A Tree is built once and shared by all readers; nothing in this package
// mutates a tree after construction, and callers must not either. Children do
// not point back at their parents: when an identifier needs the owning book or
// chapter, the parent is passed explicitly (see BookID and ChapterID).
package bible

import (
	"slices"
	"strconv"

	"github.com/irron2004/bible2ppt/core/canon"
)

// Verse is a single numbered verse.
type Verse struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Chapter holds verses sorted ascending by number, unique.
type Chapter struct {
	Number int     `json:"number"`
	Verses []Verse `json:"verses"`
}

// Book holds chapters sorted ascending by number, unique.
type Book struct {
	Meta     canon.Book `json:"meta"`
	Chapters []Chapter  `json:"chapters"`
}

// Tree is a complete ingested bible. Books are sorted by canonical order.
type Tree struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LanguageCode string `json:"language_code"`

	// SourceHash is the BLAKE3 hash of the raw source bytes.
	SourceHash string `json:"source_hash,omitempty"`

	Books []Book `json:"books"`
}

// Book returns the book for key.
func (t *Tree) Book(key canon.BookKey) (*Book, bool) {
	for i := range t.Books {
		if t.Books[i].Meta.Key == key {
			return &t.Books[i], true
		}
	}
	return nil, false
}

// VerseCount returns the total number of verses in the tree.
func (t *Tree) VerseCount() int {
	n := 0
	for _, b := range t.Books {
		for _, c := range b.Chapters {
			n += len(c.Verses)
		}
	}
	return n
}

// Chapter returns chapter n.
func (b *Book) Chapter(n int) (*Chapter, bool) {
	i, ok := slices.BinarySearchFunc(b.Chapters, n, func(c Chapter, n int) int {
		return compareNumber(c.Number, n)
	})
	if !ok {
		return nil, false
	}
	return &b.Chapters[i], true
}

// ChapterSpan returns the chapters numbered lo through hi inclusive. The result
// shares storage with the book and must not be modified.
func (b *Book) ChapterSpan(lo, hi int) []Chapter {
	if lo > hi {
		return nil
	}
	start, _ := slices.BinarySearchFunc(b.Chapters, lo, func(c Chapter, n int) int {
		return compareNumber(c.Number, n)
	})
	end := start
	for end < len(b.Chapters) && b.Chapters[end].Number <= hi {
		end++
	}
	return b.Chapters[start:end]
}

// Verse returns verse n.
func (c *Chapter) Verse(n int) (*Verse, bool) {
	i, ok := slices.BinarySearchFunc(c.Verses, n, compareVerse)
	if !ok {
		return nil, false
	}
	return &c.Verses[i], true
}

// Span returns the verses numbered lo through hi inclusive. The result shares
// storage with the chapter and must not be modified.
func (c *Chapter) Span(lo, hi int) []Verse {
	if lo > hi {
		return nil
	}
	start, _ := slices.BinarySearchFunc(c.Verses, lo, compareVerse)
	end := start
	for end < len(c.Verses) && c.Verses[end].Number <= hi {
		end++
	}
	return c.Verses[start:end]
}

func compareVerse(v Verse, n int) int {
	return compareNumber(v.Number, n)
}

func compareNumber(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// BookID formats the stable identifier of b within t, e.g. "offline:ko:gaejong:Genesis".
func BookID(t *Tree, b *Book) string {
	return t.ID + ":" + string(b.Meta.Key)
}

// ChapterID formats the stable identifier of c within b, e.g. "offline:ko:gaejong:Genesis:1".
func ChapterID(t *Tree, b *Book, c *Chapter) string {
	return BookID(t, b) + ":" + strconv.Itoa(c.Number)
}
