package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/core/passage"
	"github.com/irron2004/bible2ppt/core/resolve"
	"github.com/irron2004/bible2ppt/internal/logging"
	"github.com/irron2004/bible2ppt/internal/store"
)

// lookupBook accepts an abbreviation, display name or book key.
func lookupBook(token string) (canon.Book, error) {
	b, ok := canon.Default().Lookup(token)
	if !ok {
		return canon.Book{}, errors.NewNotFound("book", token)
	}
	return b, nil
}

func writeJSON(app *App, v any) error {
	enc := json.NewEncoder(app.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// BiblesCmd lists bibles.
type BiblesCmd struct {
	SourceFlags `embed:""`
	JSON        bool `name:"json" help:"Print JSON"`
}

func (c *BiblesCmd) Run(app *App) error {
	ctx := context.Background()
	cat, err := c.open(ctx, app)
	if err != nil {
		return err
	}
	defer cat.Close()

	bibles, err := cat.Bibles(ctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(app, bibles)
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	for _, b := range bibles {
		seeded := "-"
		if !b.SeededAt.IsZero() {
			seeded = humanize.Time(b.SeededAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.LanguageCode, seeded)
	}
	return w.Flush()
}

// BooksCmd lists books in canonical order.
type BooksCmd struct {
	SourceFlags `embed:""`
	JSON        bool `name:"json" help:"Print JSON"`
}

func (c *BooksCmd) Run(app *App) error {
	ctx := context.Background()
	cat, err := c.open(ctx, app)
	if err != nil {
		return err
	}
	defer cat.Close()

	books, err := cat.Books(ctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(app, books)
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", b.Key, b.Name, b.Abbreviation, b.ChapterCount)
	}
	return w.Flush()
}

// ChaptersCmd lists the chapters of a book.
type ChaptersCmd struct {
	SourceFlags `embed:""`
	Book        string `arg:"" help:"Book abbreviation, name or key"`
	JSON        bool   `name:"json" help:"Print JSON"`
}

func (c *ChaptersCmd) Run(app *App) error {
	book, err := lookupBook(c.Book)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cat, err := c.open(ctx, app)
	if err != nil {
		return err
	}
	defer cat.Close()

	chapters, err := cat.Chapters(ctx, book.Key)
	if err != nil {
		return err
	}
	if len(chapters) == 0 {
		return errors.NewNotFound("book", book.Name)
	}
	if c.JSON {
		return writeJSON(app, chapters)
	}
	for _, ch := range chapters {
		fmt.Fprintf(app.Out, "%d\t%s\n", ch.Number, ch.ID)
	}
	return nil
}

// VersesCmd prints one chapter.
type VersesCmd struct {
	SourceFlags `embed:""`
	Book        string `arg:"" help:"Book abbreviation, name or key"`
	Chapter     int    `arg:"" help:"Chapter number"`
	JSON        bool   `name:"json" help:"Print JSON"`
}

func (c *VersesCmd) Run(app *App) error {
	book, err := lookupBook(c.Book)
	if err != nil {
		return err
	}

	ctx := context.Background()
	cat, err := c.open(ctx, app)
	if err != nil {
		return err
	}
	defer cat.Close()

	verses, err := cat.Verses(ctx, book.Key, c.Chapter)
	if err != nil {
		return err
	}
	if len(verses) == 0 {
		return errors.NewNotFound("chapter", fmt.Sprintf("%s %d", book.Name, c.Chapter))
	}
	if c.JSON {
		return writeJSON(app, verses)
	}
	for _, v := range verses {
		fmt.Fprintf(app.Out, "%d\t%s\n", v.Number, v.Text)
	}
	return nil
}

// PassageCmd parses and resolves a reference.
type PassageCmd struct {
	SourceFlags `embed:""`
	Reference   string `arg:"" help:"Reference, e.g. \"창1:1-3; 요3:16\""`
	JSON        bool   `name:"json" help:"Print JSON"`
}

func (c *PassageCmd) Run(app *App) error {
	ranges := passage.Parse(c.Reference)
	if len(ranges) == 0 {
		return &exitError{code: 2, err: errors.ErrReferenceUnparsable}
	}

	ctx := context.Background()
	cat, err := c.open(ctx, app)
	if err != nil {
		return err
	}
	defer cat.Close()

	verses, err := resolve.All(ctx, cat.Source(), ranges, app.Config.ResolveWorkers)
	if errors.Is(err, errors.ErrNoVersesMatched) {
		return &exitError{code: 3, err: err}
	}
	if err != nil {
		return err
	}
	logging.PassageResolved(ctx, c.Reference, len(ranges), len(verses))

	if c.JSON {
		return writeJSON(app, verses)
	}
	for _, v := range verses {
		fmt.Fprintf(app.Out, "%s %d:%d %s\n", v.BookName, v.Chapter, v.Verse, v.Text)
	}
	return nil
}

// SeedCmd writes the bible text into the SQLite store.
type SeedCmd struct{}

func (c *SeedCmd) Run(app *App) error {
	tree, err := app.Tree()
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := app.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	start := time.Now()
	res, err := s.Seed(ctx, tree)
	if err != nil {
		return err
	}

	if res.Skipped {
		fmt.Fprintf(app.Out, "%s is up to date in %s (run %s)\n", res.BibleID, s.Path(), res.RunID)
		return nil
	}

	size := ""
	if info, err := os.Stat(app.provider.Path()); err == nil {
		size = " from " + humanize.Bytes(uint64(info.Size()))
	}
	fmt.Fprintf(app.Out, "seeded %s%s: %d books, %s chapters, %s verses in %s (run %s)\n",
		res.BibleID, size, res.Books,
		humanize.Comma(int64(res.Chapters)), humanize.Comma(int64(res.Verses)),
		time.Since(start).Round(time.Millisecond), res.RunID)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	fmt.Fprintf(app.Out, "bible2ppt %s (sqlite: %s, %s)\n", version, store.DriverName(), store.DriverType())
	return nil
}
