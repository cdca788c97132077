// Package ingest turns raw scripture dumps into bible.Tree values.
//
// The line format is
//
//	<abbreviation><chapter>:<verse> <text>
//	<continuation text>
//
// where a line that is not a verse marker extends the most recent verse.
// Blank lines are ignored. A verse marker naming an abbreviation the registry
// does not know aborts the whole parse.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/text/unicode/norm"

	"github.com/irron2004/bible2ppt/core/bible"
	"github.com/irron2004/bible2ppt/core/canon"
	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

// verseLine matches a verse marker line. The abbreviation is the run of
// non-digit, non-space characters directly before the chapter number.
var verseLine = regexp.MustCompile(`^([^\d\s]+?)(\d+):(\d+)\s*(.*)$`)

const maxLineSize = 1 << 20

// marker is a parsed verse marker line.
type marker struct {
	abbr    string
	chapter int
	verse   int
	text    string
}

// parseMarker reports whether line is a verse marker. Numbers that do not fit
// in an int or are zero make the line a continuation line.
func parseMarker(line string) (marker, bool) {
	m := verseLine.FindStringSubmatch(line)
	if m == nil {
		return marker{}, false
	}
	chapter, err := strconv.Atoi(m[2])
	if err != nil || chapter < 1 {
		return marker{}, false
	}
	verse, err := strconv.Atoi(m[3])
	if err != nil || verse < 1 {
		return marker{}, false
	}
	return marker{abbr: m[1], chapter: chapter, verse: verse, text: strings.TrimSpace(m[4])}, true
}

// Parse reads a line-oriented dump and builds a tree. Abbreviations are
// resolved with reg.ByAbbreviation. The first unknown abbreviation returns an
// *errors.UnknownAbbreviationError and no tree.
func Parse(r io.Reader, reg *canon.Registry, opts ...Option) (*bible.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read bible text")
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	o := newOptions(opts)
	o.fillDefaults()

	b := newBuilder()

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if line == "" {
			continue
		}

		m, ok := parseMarker(line)
		if !ok {
			if !b.appendText(line) {
				logging.Debug("ingest_line_dropped", "line_number", lineNumber)
			}
			continue
		}

		meta, ok := reg.ByAbbreviation(m.abbr)
		if !ok {
			return nil, &errors.UnknownAbbreviationError{
				Abbreviation: m.abbr,
				Line:         line,
				LineNumber:   lineNumber,
			}
		}
		b.startVerse(meta, m.chapter, m.verse, m.text)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan bible text at line %d", lineNumber+1)
	}

	return b.build(o, SourceHash(data)), nil
}

// SourceHash returns the hex BLAKE3 digest recorded as Tree.SourceHash.
func SourceHash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}
