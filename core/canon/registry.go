// Package canon holds the fixed catalogue of scripture books: stable keys,
// display names, abbreviations and canonical order.
//
// A Registry is built once and never mutated. Lookups are exact and
// case-sensitive; there is no prefix or fuzzy matching.
package canon

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/irron2004/bible2ppt/core/errors"
)

// Entry is one row of a naming table.
type Entry struct {
	Key          BookKey
	Name         string
	Abbreviation string
	OSIS         string
}

// Book is the registry metadata for one book.
type Book struct {
	Key          BookKey `json:"key"`
	Name         string  `json:"name"`
	Abbreviation string  `json:"abbreviation"`
	OSIS         string  `json:"osis,omitempty"`

	// Order is the 1-based canonical position. It is the only sort key for books.
	Order int `json:"order"`
}

// Registry is an immutable, ordered book catalogue with exact-match indexes.
type Registry struct {
	books    []Book
	byAbbrev map[string]int
	byName   map[string]int
	byKey    map[BookKey]int
	byOSIS   map[string]int
}

// New builds a registry from entries, assigning Order in table order.
// Two entries sharing an abbreviation or a key is an error.
func New(entries []Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, errors.NewValidation("entries", "registry needs at least one book")
	}

	r := &Registry{
		books:    make([]Book, 0, len(entries)),
		byAbbrev: make(map[string]int, len(entries)),
		byName:   make(map[string]int, len(entries)),
		byKey:    make(map[BookKey]int, len(entries)),
		byOSIS:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		b := Book{
			Key:          e.Key,
			Name:         norm.NFC.String(e.Name),
			Abbreviation: norm.NFC.String(e.Abbreviation),
			OSIS:         e.OSIS,
			Order:        i + 1,
		}
		if b.Abbreviation == "" {
			return nil, errors.NewValidation("abbreviation", fmt.Sprintf("empty abbreviation for %s", e.Key))
		}
		if prev, ok := r.byAbbrev[b.Abbreviation]; ok {
			return nil, &errors.DuplicateAbbreviationError{
				Abbreviation: b.Abbreviation,
				First:        string(r.books[prev].Key),
				Second:       string(b.Key),
			}
		}
		if _, ok := r.byKey[b.Key]; ok {
			return nil, &errors.ValidationError{Field: "key", Value: string(b.Key), Message: "duplicate book key " + string(b.Key)}
		}

		r.books = append(r.books, b)
		r.byAbbrev[b.Abbreviation] = i
		r.byKey[b.Key] = i
		if b.Name != "" {
			if _, ok := r.byName[b.Name]; !ok {
				r.byName[b.Name] = i
			}
		}
		if b.OSIS != "" {
			r.byOSIS[b.OSIS] = i
		}
	}

	return r, nil
}

// MustNew is like New but panics on error. It is intended for package-level
// tables where a bad table means the process cannot start.
func MustNew(entries []Entry) *Registry {
	r, err := New(entries)
	if err != nil {
		panic(fmt.Sprintf("canon: %v", err))
	}
	return r
}

var defaultRegistry = MustNew(koreanTable)

// Default returns the built-in 개역개정 registry.
func Default() *Registry {
	return defaultRegistry
}

// Lookup resolves a book token. Abbreviations are tried first, then display
// names, then book keys.
func (r *Registry) Lookup(token string) (Book, bool) {
	if b, ok := r.ByAbbreviation(token); ok {
		return b, true
	}
	if i, ok := r.byName[token]; ok {
		return r.books[i], true
	}
	return r.ByKey(BookKey(token))
}

// ByAbbreviation resolves an abbreviation only.
func (r *Registry) ByAbbreviation(abbr string) (Book, bool) {
	i, ok := r.byAbbrev[abbr]
	if !ok {
		return Book{}, false
	}
	return r.books[i], true
}

// ByKey returns the metadata for key.
func (r *Registry) ByKey(key BookKey) (Book, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Book{}, false
	}
	return r.books[i], true
}

// ByOSIS resolves an OSIS book id such as "Gen" or "1John".
func (r *Registry) ByOSIS(id string) (Book, bool) {
	i, ok := r.byOSIS[id]
	if !ok {
		return Book{}, false
	}
	return r.books[i], true
}

// Canonical returns all books in canonical order. The slice is a copy.
func (r *Registry) Canonical() []Book {
	out := make([]Book, len(r.books))
	copy(out, r.books)
	return out
}

// Len returns the number of books.
func (r *Registry) Len() int {
	return len(r.books)
}
