package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, f SettingsForm, text string) SettingsForm {
	t.Helper()
	for _, r := range text {
		var ev FormEvent
		f, _, ev = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		require.Nil(t, ev.Commit, "typing must not commit")
	}
	return f
}

func press(f SettingsForm, k tea.KeyType) (SettingsForm, FormEvent) {
	f, _, ev := f.Update(tea.KeyMsg{Type: k})
	return f, ev
}

func TestSettingsForm_CommitsOnBlurOnly(t *testing.T) {
	f := NewSettingsForm()
	f.Activate()

	f = typeText(t, f, "/opt/launcher")
	f, ev := press(f, tea.KeyTab)
	require.Equal(t, &FieldCommit{Field: FieldLauncher, Value: "/opt/launcher"}, ev.Commit)
	require.Equal(t, FieldSaveDirectory, f.Focused())

	// Leaving an unchanged field does not commit again.
	f, ev = press(f, tea.KeyShiftTab)
	require.Nil(t, ev.Commit)
	f, ev = press(f, tea.KeyTab)
	require.Nil(t, ev.Commit)

	f = typeText(t, f, "saves")
	f, ev = press(f, tea.KeyEnter)
	require.Equal(t, &FieldCommit{Field: FieldSaveDirectory, Value: "saves"}, ev.Commit)
	require.True(t, ev.Submit)
	require.Equal(t, domain.Settings{LauncherPath: "/opt/launcher", SaveDirectory: "saves"}, f.Values())
}

func TestSettingsForm_SetValuesKeepsFieldBeingEdited(t *testing.T) {
	f := NewSettingsForm()
	f.Activate()
	f = typeText(t, f, "/my/launcher")

	f.SetValues(domain.Settings{LauncherPath: "/loaded", SaveDirectory: "saves", WorldName: "Survival"})

	require.Equal(t, domain.Settings{LauncherPath: "/my/launcher", SaveDirectory: "saves", WorldName: "Survival"}, f.Values())
	require.Equal(t, []FieldCommit{{Field: FieldLauncher, Value: "/my/launcher"}}, f.CommitAll())
}

func TestSettingsForm_WorldSuggestions(t *testing.T) {
	f := NewSettingsForm()
	f.SetWorlds([]string{"Creative", "Survival", "Skyblock"})
	require.Equal(t, []string{"Creative", "Survival", "Skyblock"}, f.Suggestions())

	f.Activate()
	f, _ = press(f, tea.KeyTab)
	f, _ = press(f, tea.KeyTab)
	require.Equal(t, FieldWorld, f.Focused())

	f = typeText(t, f, "sky")
	require.Equal(t, []string{"Skyblock"}, f.Suggestions())

	f, ev := press(f, tea.KeyRight)
	require.Nil(t, ev.Commit)
	require.Equal(t, "Skyblock", f.Values().WorldName)

	f, ev = press(f, tea.KeyTab)
	require.Equal(t, &FieldCommit{Field: FieldWorld, Value: "Skyblock"}, ev.Commit)
}

func TestSettingsForm_DeactivateCommits(t *testing.T) {
	f := NewSettingsForm()
	f.Activate()
	f = typeText(t, f, "x")

	require.Equal(t, &FieldCommit{Field: FieldLauncher, Value: "x"}, f.Deactivate())
	require.False(t, f.Active())
	require.Nil(t, f.Deactivate())
}

func TestSettingsForm_InactiveIgnoresKeys(t *testing.T) {
	f := NewSettingsForm()
	f, _, ev := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	require.Equal(t, FormEvent{}, ev)
	require.Empty(t, f.Values().LauncherPath)
}
