package components

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// RankWorlds orders worlds by how well they match query. An empty query
// keeps every world in its original order; otherwise non-matches are dropped.
func RankWorlds(query string, worlds []string) []fuzzy.Match {
	if query == "" {
		matches := make([]fuzzy.Match, len(worlds))
		for i, w := range worlds {
			matches[i] = fuzzy.Match{Str: w, Index: i}
		}
		return matches
	}
	lower := make([]string, len(worlds))
	for i, w := range worlds {
		lower[i] = strings.ToLower(w)
	}
	matches := fuzzy.Find(strings.ToLower(query), lower)
	for i := range matches {
		matches[i].Str = worlds[matches[i].Index]
	}
	return matches
}

// highlightMatch renders str with the matched rune positions emphasized
func highlightMatch(m fuzzy.Match, render func(string) string) string {
	if len(m.MatchedIndexes) == 0 {
		return m.Str
	}
	matched := make(map[int]bool, len(m.MatchedIndexes))
	for _, idx := range m.MatchedIndexes {
		matched[idx] = true
	}
	var out string
	for i, r := range m.Str {
		if matched[i] {
			out += render(string(r))
		} else {
			out += string(r)
		}
	}
	return out
}
