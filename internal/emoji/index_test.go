// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package emoji provides the keyword index behind the emoji tooltip.
package emoji

import "testing"

// =============================================================================
// QUERY RULE TESTS
// =============================================================================

func TestQueryAllowed(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"sm", true},
		{"smile", true},
		{"s", true},  // single lowercase letter allowed
		{"S", false}, // single uppercase rejected, keeps ":D" closed
		{"", false},
		{"あ", true}, // caseless scripts count as lowercase
		{"ש", true},
		{"ら", true},
		{"я", true},
		{"Я", false},
		{"あい", true},
	}

	for _, tt := range tests {
		if got := QueryAllowed(tt.query); got != tt.want {
			t.Errorf("QueryAllowed(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestSearch_PrefixMatch(t *testing.T) {
	idx := DefaultIndex()

	matches := idx.Search("smi", 0)
	if len(matches) == 0 {
		t.Fatal("expected matches for 'smi'")
	}
	for _, m := range matches {
		if m.Native == "" {
			t.Error("match with empty native emoji")
		}
	}
}

func TestSearch_ExactRanksFirst(t *testing.T) {
	idx := DefaultIndex()

	matches := idx.Search("smile", 0)
	if len(matches) == 0 {
		t.Fatal("expected matches for 'smile'")
	}
	if !matches[0].Exact || matches[0].Native != "😄" {
		t.Errorf("first match = %+v, want exact 😄", matches[0])
	}
}

func TestSearch_KeywordHitReportsCanonicalName(t *testing.T) {
	idx := DefaultIndex()

	// "happy" is a keyword of several smileys but a canonical name of none;
	// the match must still carry each emoji's own shortcode.
	matches := idx.Search("happy", 0)
	if len(matches) == 0 {
		t.Fatal("expected matches for 'happy'")
	}
	for _, m := range matches {
		if m.Name == "happy" {
			t.Errorf("match %q reports matched keyword, want canonical name", m.Native)
		}
		if _, ok := idx.ByName(m.Name); !ok {
			t.Errorf("match %q name %q is not a resolvable shortcode", m.Native, m.Name)
		}
	}
}

func TestSearch_CapsResults(t *testing.T) {
	idx := DefaultIndex()

	matches := idx.Search("s", 3)
	if len(matches) > 3 {
		t.Errorf("got %d matches, want <= 3", len(matches))
	}
}

func TestSearch_ShortQueryRejected(t *testing.T) {
	idx := DefaultIndex()
	if got := idx.Search("S", 0); got != nil {
		t.Errorf("Search(S) = %v, want nil", got)
	}
}

func TestSearch_CaseFolded(t *testing.T) {
	idx := DefaultIndex()
	if len(idx.Search("SMILE", 0)) == 0 {
		t.Error("uppercase query should fold and match")
	}
}

// =============================================================================
// SHORTCODE TESTS
// =============================================================================

func TestByName(t *testing.T) {
	idx := DefaultIndex()

	native, ok := idx.ByName("smile")
	if !ok || native != "😄" {
		t.Errorf("ByName(smile) = %q/%v, want 😄/true", native, ok)
	}

	if _, ok := idx.ByName("definitely_not_an_emoji"); ok {
		t.Error("ByName should miss for unknown name")
	}
}

func TestFirst_FallsBackToPrefix(t *testing.T) {
	idx := DefaultIndex()

	// "thumbsu" is not a full shortcode but prefixes "thumbsup".
	native, ok := idx.First("thumbsu")
	if !ok || native != "👍" {
		t.Errorf("First(thumbsu) = %q/%v, want 👍/true", native, ok)
	}
}
