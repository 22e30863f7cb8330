package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func names(t *testing.T, query string, worlds []string) []string {
	t.Helper()
	var out []string
	for _, m := range RankWorlds(query, worlds) {
		out = append(out, m.Str)
	}
	return out
}

func TestRankWorlds_EmptyQueryKeepsOrder(t *testing.T) {
	worlds := []string{"Survival", "Creative", "Hardcore"}
	require.Equal(t, worlds, names(t, "", worlds))
}

func TestRankWorlds_FiltersAndRanks(t *testing.T) {
	worlds := []string{"Creative", "Survival", "Survival Island", "Hardcore"}

	got := names(t, "surv", worlds)
	require.Equal(t, "Survival", got[0])
	require.Contains(t, got, "Survival Island")
	require.NotContains(t, got, "Creative")
	require.NotContains(t, got, "Hardcore")
}

func TestRankWorlds_NoMatch(t *testing.T) {
	require.Empty(t, names(t, "zzz", []string{"Survival"}))
}

func TestHighlightMatch(t *testing.T) {
	m := RankWorlds("sv", []string{"Survival"})[0]
	got := highlightMatch(m, strings.ToUpper)
	require.Equal(t, "SurVival", got)
}
