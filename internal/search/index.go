// Package search provides the typo-tolerant autocomplete index players
// use to resolve free-typed guesses into canonical track and artist ids.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultLimit caps suggestion lists.
	DefaultLimit = 8

	// MinQueryChars is the shortest normalized query worth answering.
	MinQueryChars = 2
)

// Entry is a raw catalog row: a canonical id plus its display string.
type Entry struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

type item struct {
	Entry
	norm   string
	tokens []string
}

// Index is a built, immutable autocomplete structure. Safe for
// concurrent reads.
type Index struct {
	items    []item
	prefixes map[string][]int // 2- and 3-rune token prefixes -> item indices
}

// stripMarks removes combining marks after NFD decomposition, so
// "Beyoncé" and "Beyonce" normalize identically.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// normalize lowercases, folds diacritics, maps every non-alphanumeric
// rune to a space and collapses runs of whitespace.
func normalize(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range strings.ToLower(folded) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Build normalizes and indexes catalog entries. Entries are
// deduplicated by id and by normalized display (first occurrence wins);
// entries whose normalized text is empty are dropped. Indexing order
// follows input order, so builds are deterministic.
func Build(entries []Entry) *Index {
	idx := &Index{prefixes: make(map[string][]int)}

	seenID := make(map[string]bool, len(entries))
	seenNorm := make(map[string]bool, len(entries))

	for _, e := range entries {
		n := normalize(e.Display)
		if n == "" || seenID[e.ID] || seenNorm[n] {
			continue
		}
		seenID[e.ID] = true
		seenNorm[n] = true

		pos := len(idx.items)
		idx.items = append(idx.items, item{Entry: e, norm: n, tokens: strings.Fields(n)})

		registered := make(map[string]bool, 4)
		for _, tok := range idx.items[pos].tokens {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			keys := []string{runePrefix(tok, 2)}
			if utf8.RuneCountInString(tok) >= 3 {
				keys = append(keys, runePrefix(tok, 3))
			}
			for _, key := range keys {
				if !registered[key] {
					registered[key] = true
					idx.prefixes[key] = append(idx.prefixes[key], pos)
				}
			}
		}
	}

	return idx
}

// Result is one ranked suggestion.
type Result struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// Search returns up to limit suggestions for the query, best first.
// Ranking: full-text prefix match, then token prefix, then token
// substring, then anything where every query token still appears
// somewhere in the text. Ties sort in locale-aware display order.
func (idx *Index) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := normalize(query)
	if utf8.RuneCountInString(q) < MinQueryChars {
		return nil
	}
	qTokens := strings.Fields(q)
	if len(qTokens) == 0 {
		return nil
	}

	candidates := idx.candidatesFor(qTokens[0])

	type ranked struct {
		item *item
		rank int
	}
	var matches []ranked
	for _, pos := range candidates {
		it := &idx.items[pos]
		if !containsAllTokens(it.norm, qTokens) {
			continue
		}
		matches = append(matches, ranked{item: it, rank: rankMatch(it, q)})
	}

	coll := collate.New(language.Und, collate.Loose)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return coll.CompareString(matches[i].item.Display, matches[j].item.Display) < 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{ID: m.item.ID, Display: m.item.Display}
	}
	return results
}

// candidatesFor narrows the pool via the first token's prefix key,
// preferring the 3-char key, then the 2-char key, then every item.
func (idx *Index) candidatesFor(token string) []int {
	n := utf8.RuneCountInString(token)
	if n >= 3 {
		if pool, ok := idx.prefixes[runePrefix(token, 3)]; ok {
			return pool
		}
	}
	if n >= 2 {
		if pool, ok := idx.prefixes[runePrefix(token, 2)]; ok {
			return pool
		}
	}
	all := make([]int, len(idx.items))
	for i := range idx.items {
		all[i] = i
	}
	return all
}

// runePrefix returns the first n runes of s. Prefix keys are counted in
// runes, not bytes, so multi-byte scripts index the same way as ASCII.
func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func containsAllTokens(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

func rankMatch(it *item, q string) int {
	if strings.HasPrefix(it.norm, q) {
		return 0
	}
	for _, tok := range it.tokens {
		if strings.HasPrefix(tok, q) {
			return 1
		}
	}
	for _, tok := range it.tokens {
		if strings.Contains(tok, q) {
			return 2
		}
	}
	return 3
}
