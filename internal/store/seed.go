package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

// SeedResult reports what a Seed call did.
type SeedResult struct {
	RunID    string `json:"run_id"`
	BibleID  string `json:"bible_id"`
	Skipped  bool   `json:"skipped"`
	Books    int    `json:"books"`
	Chapters int    `json:"chapters"`
	Verses   int    `json:"verses"`
}

// SeedRun is a recorded Seed call.
type SeedRun struct {
	ID         string    `json:"id"`
	BibleID    string    `json:"bible_id"`
	SourceHash string    `json:"source_hash"`
	Skipped    bool      `json:"skipped"`
	Verses     int       `json:"verses"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Seed writes tree into the store. When a bible with the same id and source
// hash is already stored nothing is written; otherwise any stored copy is
// replaced. Either way the run is recorded in seed_runs. All writes happen in
// one transaction.
func (s *Store) Seed(ctx context.Context, tree *bible.Tree) (*SeedResult, error) {
	started := time.Now().UTC()
	res := &SeedResult{RunID: uuid.NewString(), BibleID: tree.ID}
	ctx = logging.WithRunID(ctx, res.RunID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin seed")
	}
	defer tx.Rollback()

	var storedHash string
	err = tx.QueryRowContext(ctx, `SELECT source_hash FROM bibles WHERE id = ?`, tree.ID).Scan(&storedHash)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, errors.Wrapf(err, "query bible %s", tree.ID)
	case tree.SourceHash != "" && storedHash == tree.SourceHash:
		res.Skipped = true
	default:
		logging.InfoContext(ctx, "seed_replacing", "bible_id", tree.ID,
			"stored_hash", storedHash, "source_hash", tree.SourceHash)
	}

	if !res.Skipped {
		if err := deleteBible(ctx, tx, tree.ID); err != nil {
			return nil, err
		}
		if err := insertTree(ctx, tx, tree, started, res); err != nil {
			return nil, err
		}
	}

	finished := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO seed_runs (id, bible_id, source_hash, skipped, verses, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, tree.ID, tree.SourceHash, res.Skipped, res.Verses,
		started.Format(timeLayout), finished.Format(timeLayout)); err != nil {
		return nil, errors.Wrap(err, "record seed run")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit seed")
	}

	logging.SeedComplete(ctx, tree.ID, res.Skipped, res.Verses, finished.Sub(started),
		"books", res.Books, "chapters", res.Chapters)
	return res, nil
}

func deleteBible(ctx context.Context, tx *sql.Tx, id string) error {
	for _, table := range []string{"verses", "chapters", "books"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE bible_id = ?`, id); err != nil {
			return errors.Wrapf(err, "clear %s of %s", table, id)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bibles WHERE id = ?`, id); err != nil {
		return errors.Wrapf(err, "clear bible %s", id)
	}
	return nil
}

func insertTree(ctx context.Context, tx *sql.Tx, tree *bible.Tree, seededAt time.Time, res *SeedResult) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bibles (id, name, language_code, source_hash, seeded_at)
		VALUES (?, ?, ?, ?, ?)`,
		tree.ID, tree.Name, tree.LanguageCode, tree.SourceHash, seededAt.Format(timeLayout)); err != nil {
		return errors.Wrapf(err, "insert bible %s", tree.ID)
	}

	bookStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, bible_id, book_key, name, abbreviation, osis, book_order, chapter_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare books")
	}
	defer bookStmt.Close()

	chapterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (id, bible_id, book_key, number) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare chapters")
	}
	defer chapterStmt.Close()

	verseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO verses (bible_id, book_key, chapter, number, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare verses")
	}
	defer verseStmt.Close()

	for i := range tree.Books {
		b := &tree.Books[i]
		key := string(b.Meta.Key)
		if _, err := bookStmt.ExecContext(ctx, bible.BookID(tree, b), tree.ID, key,
			b.Meta.Name, b.Meta.Abbreviation, b.Meta.OSIS, b.Meta.Order, len(b.Chapters)); err != nil {
			return errors.Wrapf(err, "insert book %s", key)
		}
		res.Books++

		for j := range b.Chapters {
			c := &b.Chapters[j]
			if _, err := chapterStmt.ExecContext(ctx, bible.ChapterID(tree, b, c), tree.ID, key, c.Number); err != nil {
				return errors.Wrapf(err, "insert chapter %s %d", key, c.Number)
			}
			res.Chapters++

			for _, v := range c.Verses {
				if _, err := verseStmt.ExecContext(ctx, tree.ID, key, c.Number, v.Number, v.Text); err != nil {
					return errors.Wrapf(err, "insert verse %s %d:%d", key, c.Number, v.Number)
				}
				res.Verses++
			}
		}
	}
	return nil
}

// SeedRuns lists the recorded seed runs of a bible, newest first.
func (s *Store) SeedRuns(ctx context.Context, bibleID string) ([]SeedRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bible_id, source_hash, skipped, verses, started_at, finished_at
		FROM seed_runs WHERE bible_id = ? ORDER BY started_at DESC, rowid DESC`, bibleID)
	if err != nil {
		return nil, errors.Wrap(err, "query seed runs")
	}
	defer rows.Close()

	var out []SeedRun
	for rows.Next() {
		var r SeedRun
		var started, finished string
		if err := rows.Scan(&r.ID, &r.BibleID, &r.SourceHash, &r.Skipped, &r.Verses, &started, &finished); err != nil {
			return nil, errors.Wrap(err, "scan seed run")
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, errors.Wrapf(err, "seed run %s: bad started_at", r.ID)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, errors.Wrapf(err, "seed run %s: bad finished_at", r.ID)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
