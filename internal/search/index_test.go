package search

import (
	"testing"
)

func catalog() []Entry {
	return []Entry{
		{ID: "t1", Display: "Billie Jean"},
		{ID: "t2", Display: "Beat It"},
		{ID: "t3", Display: "Beyoncé – Halo"},
		{ID: "t4", Display: "The Beatles - Help!"},
		{ID: "t5", Display: "Bohemian Rhapsody"},
		{ID: "t6", Display: "Hello"},
		{ID: "dup", Display: "billie  jean"}, // same normalized text as t1
		{ID: "t1", Display: "Duplicate Id"},  // same id as t1
		{ID: "empty", Display: "!!!"},        // normalizes to nothing
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Beyoncé", "beyonce"},
		{"  The  Beatles - Help!  ", "the beatles help"},
		{"AC/DC", "ac dc"},
		{"!!!", ""},
		{"Déjà Vu", "deja vu"},
	}
	for _, tt := range tests {
		if got := normalize(tt.in); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildDeduplicates(t *testing.T) {
	idx := Build(catalog())
	// 9 raw entries: one dup id, one dup normalized text, one empty.
	if got := len(idx.items); got != 6 {
		t.Fatalf("items = %d, want 6", got)
	}
}

func TestSearchShortQueriesReturnEmpty(t *testing.T) {
	idx := Build(catalog())
	for _, q := range []string{"", "a", "!", " é "} {
		if got := idx.Search(q, DefaultLimit); len(got) != 0 {
			t.Errorf("Search(%q) = %v, want empty", q, got)
		}
	}
}

func TestSearchEveryTokenMustMatch(t *testing.T) {
	idx := Build(catalog())

	results := idx.Search("billie jean", 10)
	if len(results) != 1 || results[0].ID != "t1" {
		t.Fatalf("Search(billie jean) = %v, want just t1", results)
	}

	if got := idx.Search("billie zebra", 10); len(got) != 0 {
		t.Fatalf("query with an unmatched token must return nothing, got %v", got)
	}
}

func TestSearchDiacriticInsensitive(t *testing.T) {
	idx := Build(catalog())

	results := idx.Search("beyonce", 10)
	if len(results) != 1 || results[0].ID != "t3" {
		t.Fatalf("Search(beyonce) = %v, want t3", results)
	}
}

func TestSearchRanking(t *testing.T) {
	idx := Build([]Entry{
		{ID: "sub", Display: "Rubber Soul"},     // "ub" only inside a token
		{ID: "tokpre", Display: "The Ubiquity"}, // token starts with query
		{ID: "pre", Display: "Ubiquitous Love"}, // full text starts with query
	})

	// "Rubber Soul" is not registered under the "ub" prefix key, so the
	// candidate pool excludes it once that key exists.
	results := idx.Search("ub", 10)
	if len(results) != 2 {
		t.Fatalf("results = %v, want 2 entries", results)
	}
	wantOrder := []string{"pre", "tokpre"}
	for i, want := range wantOrder {
		if results[i].ID != want {
			t.Fatalf("rank order = %v, want ids %v", results, wantOrder)
		}
	}
}

func TestSearchMultiTokenRanksLast(t *testing.T) {
	idx := Build([]Entry{
		{ID: "multi", Display: "Absolute Cdplayer"},
		{ID: "pre", Display: "Ab Cd"},
	})

	// Both qualify for "ab cd"; only "Ab Cd" matches it as a prefix of
	// the full normalized text.
	results := idx.Search("ab cd", 10)
	if len(results) != 2 || results[0].ID != "pre" || results[1].ID != "multi" {
		t.Fatalf("Search(ab cd) = %v, want [pre multi]", results)
	}
}

func TestSearchLimit(t *testing.T) {
	entries := []Entry{
		{ID: "a", Display: "Song Alpha"},
		{ID: "b", Display: "Song Beta"},
		{ID: "c", Display: "Song Gamma"},
	}
	idx := Build(entries)

	if got := idx.Search("song", 2); len(got) != 2 {
		t.Fatalf("limit 2 returned %d results", len(got))
	}
}

func TestSearchCountsRunesNotBytes(t *testing.T) {
	idx := Build([]Entry{
		{ID: "ru", Display: "Кино"},
		{ID: "jp", Display: "東京事変"},
	})

	// Two-rune (four-byte) queries must hit the rune-based prefix keys.
	results := idx.Search("ки", 10)
	if len(results) != 1 || results[0].ID != "ru" {
		t.Fatalf("Search(ки) = %v, want ru", results)
	}
	results = idx.Search("東京", 10)
	if len(results) != 1 || results[0].ID != "jp" {
		t.Fatalf("Search(東京) = %v, want jp", results)
	}

	// A single two-byte rune is still one character, below the minimum.
	if got := idx.Search("к", 10); len(got) != 0 {
		t.Fatalf("Search(к) = %v, want empty", got)
	}
}

func TestSearchFallsBackWithoutPrefixKey(t *testing.T) {
	// "xy" is registered under no prefix key, but "oxygen" contains it,
	// so the full-list fallback must still find it.
	idx := Build([]Entry{{ID: "o", Display: "Oxygene Part IV"}})

	results := idx.Search("xy", 10)
	if len(results) != 1 || results[0].ID != "o" {
		t.Fatalf("Search(xy) = %v, want the fallback match", results)
	}
}
