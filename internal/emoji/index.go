// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package emoji provides the keyword index behind the emoji tooltip.
//
// The index is built once per process from the built-in keyword table plus
// any language packs merged in at construction, and queried on every
// autocomplete tick. Lookups fold case and normalization form so that
// composed and decomposed input match the same keys.
package emoji

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxResults is the hard cap on candidates returned by one search.
const MaxResults = 36

// =============================================================================
// INDEX
// =============================================================================

// Match is one search result.
type Match struct {
	Native string

	// Name is the emoji's canonical shortcode name, regardless of which
	// keyword matched the query.
	Name string

	// Exact marks a match whose full keyword equals the query.
	Exact bool
}

// Index maps folded keyword prefixes to emoji. Safe for concurrent reads
// after construction.
type Index struct {
	byKeyword map[string][]string // folded keyword -> natives, table order
	byName    map[string]string   // folded shortcode name -> native
	nameOf    map[string]string   // native -> canonical shortcode name
	keywords  []string            // sorted folded keywords for prefix scans
}

var (
	defaultOnce  sync.Once
	defaultIndex *Index
)

// DefaultIndex returns the process-wide index over the built-in table,
// building it on first use.
func DefaultIndex() *Index {
	defaultOnce.Do(func() {
		defaultIndex = NewIndex(builtinEntries)
	})
	return defaultIndex
}

// NewIndex builds an index from the given entries.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		byKeyword: make(map[string][]string),
		byName:    make(map[string]string),
		nameOf:    make(map[string]string),
	}
	for _, e := range entries {
		idx.byName[fold(e.Name)] = e.Native
		if _, ok := idx.nameOf[e.Native]; !ok {
			idx.nameOf[e.Native] = e.Name
		}
		for _, kw := range e.Keywords {
			k := fold(kw)
			idx.byKeyword[k] = append(idx.byKeyword[k], e.Native)
		}
	}
	idx.keywords = make([]string, 0, len(idx.byKeyword))
	for k := range idx.byKeyword {
		idx.keywords = append(idx.keywords, k)
	}
	sort.Strings(idx.keywords)
	return idx
}

// fold lowercases and NFKC-normalizes a keyword or query.
func fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// =============================================================================
// SEARCH
// =============================================================================

// QueryAllowed implements the minimum-length rule: a query must be at least
// two characters, except a single non-uppercase character is allowed
// (single-letter disambiguation used by non-Latin alphabets, caseless
// scripts included). A lone uppercase letter stays rejected so smiley
// fragments like ":D" never open the tooltip.
func QueryAllowed(query string) bool {
	n := utf8.RuneCountInString(query)
	if n >= 2 {
		return true
	}
	if n != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(query)
	return unicode.ToLower(r) == r
}

// Search returns up to max emoji whose keywords start with the query.
// Exact keyword matches rank before prefix matches; within a rank, table
// order is preserved. max <= 0 uses MaxResults.
func (idx *Index) Search(query string, max int) []Match {
	if max <= 0 || max > MaxResults {
		max = MaxResults
	}
	// The length rule applies to the raw query: folding would turn a single
	// uppercase letter into an allowed lowercase one.
	if !QueryAllowed(query) {
		return nil
	}
	q := fold(query)

	var exact, prefix []Match
	seen := make(map[string]bool)

	// Binary search into the sorted keyword list, then scan the prefix run.
	start := sort.SearchStrings(idx.keywords, q)
	for i := start; i < len(idx.keywords); i++ {
		kw := idx.keywords[i]
		if !strings.HasPrefix(kw, q) {
			break
		}
		for _, native := range idx.byKeyword[kw] {
			if seen[native] {
				continue
			}
			seen[native] = true
			m := Match{Native: native, Name: idx.nameOf[native], Exact: kw == q}
			if m.Exact {
				exact = append(exact, m)
			} else {
				prefix = append(prefix, m)
			}
		}
	}

	out := append(exact, prefix...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// ByName resolves a complete shortcode name to its native emoji.
func (idx *Index) ByName(name string) (string, bool) {
	native, ok := idx.byName[fold(name)]
	return native, ok
}

// First returns the top search result for a completed shortcode, falling
// back to prefix search when the name is not an exact shortcode. Used by the
// auto-insert path for ":name:" tokens.
func (idx *Index) First(name string) (string, bool) {
	if native, ok := idx.ByName(name); ok {
		return native, true
	}
	matches := idx.Search(name, 1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Native, true
}
