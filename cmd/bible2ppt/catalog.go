package main

import (
	"context"
	"math"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/resolve"
	"github.com/irron2004/bible2ppt/internal/store"
)

// catalog answers listing queries from either the in-memory tree or the store.
type catalog interface {
	Bibles(ctx context.Context) ([]store.BibleInfo, error)
	Books(ctx context.Context) ([]store.BookInfo, error)
	Chapters(ctx context.Context, key canon.BookKey) ([]store.ChapterInfo, error)
	Verses(ctx context.Context, key canon.BookKey, chapter int) ([]bible.Verse, error)
	Source() resolve.Source
	Close() error
}

// SourceFlags select where a command reads from.
type SourceFlags struct {
	Store   bool   `help:"Read from the SQLite store instead of the bible text"`
	BibleID string `name:"bible-id" help:"Stored bible to read with --store" default:"${default_bible_id}"`
}

func (f SourceFlags) open(ctx context.Context, app *App) (catalog, error) {
	if f.Store {
		s, err := app.OpenStore(ctx)
		if err != nil {
			return nil, err
		}
		return storeCatalog{store: s, bibleID: f.BibleID}, nil
	}
	tree, err := app.Tree()
	if err != nil {
		return nil, err
	}
	return treeCatalog{tree: tree}, nil
}

type treeCatalog struct {
	tree *bible.Tree
}

func (c treeCatalog) Bibles(context.Context) ([]store.BibleInfo, error) {
	return []store.BibleInfo{{
		ID:           c.tree.ID,
		Name:         c.tree.Name,
		LanguageCode: c.tree.LanguageCode,
		SourceHash:   c.tree.SourceHash,
	}}, nil
}

func (c treeCatalog) Books(context.Context) ([]store.BookInfo, error) {
	out := make([]store.BookInfo, len(c.tree.Books))
	for i := range c.tree.Books {
		b := &c.tree.Books[i]
		out[i] = store.BookInfo{
			Book:         b.Meta,
			ID:           bible.BookID(c.tree, b),
			ChapterCount: len(b.Chapters),
		}
	}
	return out, nil
}

func (c treeCatalog) Chapters(_ context.Context, key canon.BookKey) ([]store.ChapterInfo, error) {
	b, ok := c.tree.Book(key)
	if !ok {
		return nil, nil
	}
	out := make([]store.ChapterInfo, len(b.Chapters))
	for i := range b.Chapters {
		out[i] = store.ChapterInfo{ID: bible.ChapterID(c.tree, b, &b.Chapters[i]), Number: b.Chapters[i].Number}
	}
	return out, nil
}

func (c treeCatalog) Verses(_ context.Context, key canon.BookKey, chapter int) ([]bible.Verse, error) {
	b, ok := c.tree.Book(key)
	if !ok {
		return nil, nil
	}
	ch, ok := b.Chapter(chapter)
	if !ok {
		return nil, nil
	}
	return ch.Verses, nil
}

func (c treeCatalog) Source() resolve.Source { return resolve.TreeSource(c.tree) }
func (c treeCatalog) Close() error           { return nil }

type storeCatalog struct {
	store   *store.Store
	bibleID string
}

func (c storeCatalog) Bibles(ctx context.Context) ([]store.BibleInfo, error) {
	return c.store.Bibles(ctx)
}

func (c storeCatalog) Books(ctx context.Context) ([]store.BookInfo, error) {
	return c.store.Books(ctx, c.bibleID)
}

func (c storeCatalog) Chapters(ctx context.Context, key canon.BookKey) ([]store.ChapterInfo, error) {
	return c.store.Chapters(ctx, c.bibleID, key)
}

func (c storeCatalog) Verses(ctx context.Context, key canon.BookKey, chapter int) ([]bible.Verse, error) {
	return c.store.Verses(ctx, c.bibleID, key, chapter, 1, math.MaxInt)
}

func (c storeCatalog) Source() resolve.Source { return c.store.Source(c.bibleID) }
func (c storeCatalog) Close() error           { return c.store.Close() }
