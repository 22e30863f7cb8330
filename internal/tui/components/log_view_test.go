package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("[12:00:00] line %d", i)
	}
	return lines
}

func TestLogView_FollowsNewestLine(t *testing.T) {
	l := NewLogView()
	l.SetSize(40, 5)
	l.SetLines(numberedLines(20))

	require.True(t, l.Following())
	require.Contains(t, l.View(), "line 19")
	require.NotContains(t, l.View(), "line 14")
}

func TestLogView_ScrollingUpStopsFollowing(t *testing.T) {
	l := NewLogView()
	l.SetSize(40, 5)
	l.SetLines(numberedLines(20))
	l.SetFocused(true)

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.False(t, l.Following())

	l.SetLines(numberedLines(21))
	require.NotContains(t, l.View(), "line 20")

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	require.True(t, l.Following())
	require.Contains(t, l.View(), "line 20")
}

func TestLogView_IgnoresKeysWhenUnfocused(t *testing.T) {
	l := NewLogView()
	l.SetSize(40, 5)
	l.SetLines(numberedLines(20))

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	require.True(t, l.Following())
}

func TestLogView_EmptyPlaceholder(t *testing.T) {
	l := NewLogView()
	l.SetSize(40, 5)
	require.Contains(t, l.View(), "No log lines yet")
}

func TestLogView_ScrollWorksUnfocused(t *testing.T) {
	l := NewLogView()
	l.SetSize(40, 5)
	l.SetLines(numberedLines(20))

	l, _ = l.Scroll(tea.KeyMsg{Type: tea.KeyHome})
	require.False(t, l.Following())
	require.Contains(t, l.View(), "line 0")
}
