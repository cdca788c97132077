// Package store keeps ingested bibles in SQLite and answers passage queries
// from them.
//
// The default build uses the pure Go modernc.org/sqlite driver. Building with
// -tags cgo_sqlite (and CGO_ENABLED=1) switches to mattn/go-sqlite3.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS bibles (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	language_code TEXT NOT NULL,
	source_hash TEXT NOT NULL,
	seeded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	bible_id TEXT NOT NULL REFERENCES bibles(id) ON DELETE CASCADE,
	book_key TEXT NOT NULL,
	name TEXT NOT NULL,
	abbreviation TEXT NOT NULL,
	osis TEXT NOT NULL,
	book_order INTEGER NOT NULL,
	chapter_count INTEGER NOT NULL,
	UNIQUE (bible_id, book_key)
);
CREATE TABLE IF NOT EXISTS chapters (
	id TEXT PRIMARY KEY,
	bible_id TEXT NOT NULL REFERENCES bibles(id) ON DELETE CASCADE,
	book_key TEXT NOT NULL,
	number INTEGER NOT NULL,
	UNIQUE (bible_id, book_key, number)
);
CREATE TABLE IF NOT EXISTS verses (
	bible_id TEXT NOT NULL REFERENCES bibles(id) ON DELETE CASCADE,
	book_key TEXT NOT NULL,
	chapter INTEGER NOT NULL,
	number INTEGER NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (bible_id, book_key, chapter, number)
);
CREATE TABLE IF NOT EXISTS seed_runs (
	id TEXT PRIMARY KEY,
	bible_id TEXT NOT NULL,
	source_hash TEXT NOT NULL,
	skipped INTEGER NOT NULL,
	verses INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
`

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed bible store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// BibleInfo describes a stored bible.
type BibleInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LanguageCode string    `json:"language_code"`
	SourceHash   string    `json:"source_hash"`
	SeededAt     time.Time `json:"seeded_at"`
}

// BookInfo is a stored book with its online id and chapter count.
type BookInfo struct {
	canon.Book
	ID           string `json:"id"`
	ChapterCount int    `json:"chapter_count"`
}

// ChapterInfo is a stored chapter.
type ChapterInfo struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// Open opens (creating if needed) the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, errors.NewIO("open database", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create schema", path, err)
	}
	logging.Info("store_opened", "path", path, "driver", DriverType())
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Bibles lists stored bibles ordered by id.
func (s *Store) Bibles(ctx context.Context) ([]BibleInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, language_code, source_hash, seeded_at FROM bibles ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "query bibles")
	}
	defer rows.Close()

	var out []BibleInfo
	for rows.Next() {
		var b BibleInfo
		var seededAt string
		if err := rows.Scan(&b.ID, &b.Name, &b.LanguageCode, &b.SourceHash, &seededAt); err != nil {
			return nil, errors.Wrap(err, "scan bible")
		}
		if b.SeededAt, err = time.Parse(timeLayout, seededAt); err != nil {
			return nil, errors.Wrapf(err, "bible %s: bad seeded_at %q", b.ID, seededAt)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Books lists the books of a bible in canonical order.
func (s *Store) Books(ctx context.Context, bibleID string) ([]BookInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, book_key, name, abbreviation, osis, book_order, chapter_count
		FROM books WHERE bible_id = ? ORDER BY book_order`, bibleID)
	if err != nil {
		return nil, errors.Wrap(err, "query books")
	}
	defer rows.Close()

	var out []BookInfo
	for rows.Next() {
		var b BookInfo
		if err := rows.Scan(&b.ID, &b.Key, &b.Name, &b.Abbreviation, &b.OSIS, &b.Order, &b.ChapterCount); err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Book returns one book of a bible. ok is false when it is not stored.
func (s *Store) Book(ctx context.Context, bibleID string, key canon.BookKey) (BookInfo, bool, error) {
	var b BookInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, book_key, name, abbreviation, osis, book_order, chapter_count
		FROM books WHERE bible_id = ? AND book_key = ?`, bibleID, string(key)).
		Scan(&b.ID, &b.Key, &b.Name, &b.Abbreviation, &b.OSIS, &b.Order, &b.ChapterCount)
	if err == sql.ErrNoRows {
		return BookInfo{}, false, nil
	}
	if err != nil {
		return BookInfo{}, false, errors.Wrapf(err, "query book %s", key)
	}
	return b, true, nil
}

// Chapters lists the chapters of a book in ascending order.
func (s *Store) Chapters(ctx context.Context, bibleID string, key canon.BookKey) ([]ChapterInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number FROM chapters
		WHERE bible_id = ? AND book_key = ? ORDER BY number`, bibleID, string(key))
	if err != nil {
		return nil, errors.Wrap(err, "query chapters")
	}
	defer rows.Close()

	var out []ChapterInfo
	for rows.Next() {
		var c ChapterInfo
		if err := rows.Scan(&c.ID, &c.Number); err != nil {
			return nil, errors.Wrap(err, "scan chapter")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Verses returns the verses of one chapter numbered lo through hi, ascending.
func (s *Store) Verses(ctx context.Context, bibleID string, key canon.BookKey, chapter, lo, hi int) ([]bible.Verse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, text FROM verses
		WHERE bible_id = ? AND book_key = ? AND chapter = ? AND number BETWEEN ? AND ?
		ORDER BY number`, bibleID, string(key), chapter, lo, hi)
	if err != nil {
		return nil, errors.Wrap(err, "query verses")
	}
	defer rows.Close()

	var out []bible.Verse
	for rows.Next() {
		var v bible.Verse
		if err := rows.Scan(&v.Number, &v.Text); err != nil {
			return nil, errors.Wrap(err, "scan verse")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
