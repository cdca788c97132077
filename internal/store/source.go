package store

import (
	"context"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/core/resolve"
)

// Source returns a resolve.Source reading the stored bible bibleID.
func (s *Store) Source(bibleID string) resolve.Source {
	return storeSource{store: s, bibleID: bibleID}
}

type storeSource struct {
	store   *Store
	bibleID string
}

func (s storeSource) Book(ctx context.Context, key canon.BookKey) (canon.Book, bool, error) {
	b, ok, err := s.store.Book(ctx, s.bibleID, key)
	if err != nil || !ok {
		return canon.Book{}, false, err
	}
	return b.Book, true, nil
}

func (s storeSource) Chapters(ctx context.Context, key canon.BookKey, lo, hi int) ([]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT number FROM chapters
		WHERE bible_id = ? AND book_key = ? AND number BETWEEN ? AND ?
		ORDER BY number`, s.bibleID, string(key), lo, hi)
	if err != nil {
		return nil, errors.Wrapf(err, "query chapters of %s", key)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, errors.Wrap(err, "scan chapter number")
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s storeSource) Verses(ctx context.Context, key canon.BookKey, chapter, lo, hi int) ([]bible.Verse, error) {
	return s.store.Verses(ctx, s.bibleID, key, chapter, lo, hi)
}
