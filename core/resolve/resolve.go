// Package resolve expands passage ranges into concrete, ordered verses.
//
// Resolution runs against a Source: an in-memory bible.Tree (TreeSource) or any
// keyed store that can answer the same questions. A range whose book the
// source lacks contributes no verses; this is not an error.
package resolve

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/core/passage"
	"github.com/irron2004/bible2ppt/internal/logging"
)

// Verse is a fully addressed verse.
type Verse struct {
	BookKey      canon.BookKey `json:"book_key"`
	BookName     string        `json:"book_name"`
	Abbreviation string        `json:"book_abbreviation"`
	Chapter      int           `json:"chapter"`
	Verse        int           `json:"verse"`
	Text         string        `json:"text"`
}

// Source is anything ranges can be resolved against.
type Source interface {
	// Book returns the metadata for key. ok is false when the source does not
	// contain the book.
	Book(ctx context.Context, key canon.BookKey) (meta canon.Book, ok bool, err error)

	// Chapters returns the numbers of the chapters of key that exist between
	// lo and hi inclusive, ascending.
	Chapters(ctx context.Context, key canon.BookKey, lo, hi int) ([]int, error)

	// Verses returns the verses of one chapter numbered lo through hi,
	// ascending. A missing chapter yields no verses and no error.
	Verses(ctx context.Context, key canon.BookKey, chapter, lo, hi int) ([]bible.Verse, error)
}

// Resolve expands r against src. Only chapters the source holds are visited.
// The end chapter defaults to the book's last chapter; on the first chapter
// verses start at r.StartVerse, elsewhere at 1; on the last chapter verses
// stop at r.EndVerse when it is set.
func Resolve(ctx context.Context, src Source, r passage.Range) ([]Verse, error) {
	meta, ok, err := src.Book(ctx, r.Book)
	if err != nil {
		return nil, err
	}
	if !ok {
		logging.DebugContext(ctx, "range_book_missing", "range", r.String())
		return nil, nil
	}

	endChapter := math.MaxInt
	if r.EndChapter != nil {
		endChapter = *r.EndChapter
	}
	chapters, err := src.Chapters(ctx, r.Book, r.StartChapter, endChapter)
	if err != nil {
		return nil, err
	}
	if r.EndChapter == nil && len(chapters) > 0 {
		endChapter = chapters[len(chapters)-1]
	}

	var out []Verse
	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lo := 1
		if ch == r.StartChapter {
			lo = r.StartVerse
		}
		hi := math.MaxInt
		if ch == endChapter && r.EndVerse != nil {
			hi = *r.EndVerse
		}

		verses, err := src.Verses(ctx, r.Book, ch, lo, hi)
		if err != nil {
			return nil, err
		}
		for _, v := range verses {
			out = append(out, Verse{
				BookKey:      meta.Key,
				BookName:     meta.Name,
				Abbreviation: meta.Abbreviation,
				Chapter:      ch,
				Verse:        v.Number,
				Text:         v.Text,
			})
		}
	}
	return out, nil
}

// Tree resolves r against an in-memory tree. It cannot fail.
func Tree(tree *bible.Tree, r passage.Range) []Verse {
	out, _ := Resolve(context.Background(), TreeSource(tree), r)
	return out
}

// All resolves every range and concatenates the results in input order; the
// result is not re-sorted. Up to workers ranges are resolved at once. An
// empty result returns errors.ErrNoVersesMatched.
func All(ctx context.Context, src Source, ranges []passage.Range, workers int) ([]Verse, error) {
	slots := make([][]Verse, len(ranges))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, r := range ranges {
		g.Go(func() error {
			verses, err := Resolve(ctx, src, r)
			if err != nil {
				return err
			}
			slots[i] = verses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Verse
	for _, s := range slots {
		out = append(out, s...)
	}
	if len(out) == 0 {
		return nil, errors.ErrNoVersesMatched
	}
	return out, nil
}

// TreeSource adapts a tree to Source.
func TreeSource(tree *bible.Tree) Source {
	return treeSource{tree: tree}
}

type treeSource struct {
	tree *bible.Tree
}

func (s treeSource) Book(_ context.Context, key canon.BookKey) (canon.Book, bool, error) {
	b, ok := s.tree.Book(key)
	if !ok {
		return canon.Book{}, false, nil
	}
	return b.Meta, true, nil
}

func (s treeSource) Chapters(_ context.Context, key canon.BookKey, lo, hi int) ([]int, error) {
	b, ok := s.tree.Book(key)
	if !ok {
		return nil, nil
	}
	span := b.ChapterSpan(lo, hi)
	numbers := make([]int, len(span))
	for i, c := range span {
		numbers[i] = c.Number
	}
	return numbers, nil
}

func (s treeSource) Verses(_ context.Context, key canon.BookKey, chapter, lo, hi int) ([]bible.Verse, error) {
	b, ok := s.tree.Book(key)
	if !ok {
		return nil, nil
	}
	c, ok := b.Chapter(chapter)
	if !ok {
		return nil, nil
	}
	return c.Span(lo, hi), nil
}
