package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Field identifies one input of the settings form
type Field int

const (
	FieldLauncher Field = iota
	FieldSaveDirectory
	FieldWorld
	fieldCount
)

var fieldLabels = [fieldCount]string{
	FieldLauncher:      "Launcher path",
	FieldSaveDirectory: "Save directory",
	FieldWorld:         "World",
}

var fieldPlaceholders = [fieldCount]string{
	FieldLauncher:      "/Applications/Minecraft.app",
	FieldSaveDirectory: "Library/Application Support/minecraft/saves",
	FieldWorld:         "Pick a world...",
}

// maxSuggestions bounds the world list shown under the form
const maxSuggestions = 5

// FieldCommit is a settled field value, produced when focus leaves a field
type FieldCommit struct {
	Field Field
	Value string
}

// FormEvent reports what an update did to the form
type FormEvent struct {
	Commit *FieldCommit
	Submit bool // user asked to save
}

// SettingsForm edits the three settings fields. Values are handed out only
// when a field loses focus or the form is submitted, never per keystroke.
type SettingsForm struct {
	inputs    [fieldCount]textinput.Model
	committed [fieldCount]string
	focus     Field
	active    bool

	worlds      []string
	suggestions []fuzzy.Match
}

// NewSettingsForm creates an empty form
func NewSettingsForm() SettingsForm {
	var f SettingsForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 512
		ti.Width = 48
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		f.inputs[i] = ti
	}
	return f
}

// Activate focuses the current field
func (f *SettingsForm) Activate() tea.Cmd {
	f.active = true
	return f.inputs[f.focus].Focus()
}

// Deactivate blurs the form, committing the focused field
func (f *SettingsForm) Deactivate() *FieldCommit {
	f.active = false
	f.inputs[f.focus].Blur()
	return f.commit(f.focus)
}

// Active reports whether the form has keyboard focus
func (f SettingsForm) Active() bool {
	return f.active
}

// Focused returns the field with the cursor
func (f SettingsForm) Focused() Field {
	return f.focus
}

// SetValues replaces field contents, leaving the field being edited alone
func (f *SettingsForm) SetValues(s domain.Settings) {
	values := [fieldCount]string{s.LauncherPath, s.SaveDirectory, s.WorldName}
	for i, v := range values {
		if f.active && Field(i) == f.focus && f.inputs[i].Value() != f.committed[i] {
			continue
		}
		f.inputs[i].SetValue(v)
		f.committed[i] = v
	}
	f.refreshSuggestions()
}

// Values returns the current contents of every field
func (f SettingsForm) Values() domain.Settings {
	return domain.Settings{
		LauncherPath:  f.inputs[FieldLauncher].Value(),
		SaveDirectory: f.inputs[FieldSaveDirectory].Value(),
		WorldName:     f.inputs[FieldWorld].Value(),
	}
}

// SetWorlds sets the candidate worlds for the current save directory
func (f *SettingsForm) SetWorlds(worlds []string) {
	f.worlds = worlds
	f.refreshSuggestions()
}

// Suggestions returns the ranked world names for the typed world
func (f SettingsForm) Suggestions() []string {
	out := make([]string, len(f.suggestions))
	for i, m := range f.suggestions {
		out[i] = m.Str
	}
	return out
}

func (f *SettingsForm) refreshSuggestions() {
	query := strings.TrimSpace(f.inputs[FieldWorld].Value())
	matches := RankWorlds(query, f.worlds)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	f.suggestions = matches
}

// commit returns the field's value if it changed since the last commit
func (f *SettingsForm) commit(field Field) *FieldCommit {
	v := f.inputs[field].Value()
	if v == f.committed[field] {
		return nil
	}
	f.committed[field] = v
	return &FieldCommit{Field: field, Value: v}
}

// CommitAll settles every field, in field order
func (f *SettingsForm) CommitAll() []FieldCommit {
	var commits []FieldCommit
	for i := Field(0); i < fieldCount; i++ {
		if c := f.commit(i); c != nil {
			commits = append(commits, *c)
		}
	}
	return commits
}

func (f *SettingsForm) move(delta int) (*FieldCommit, tea.Cmd) {
	c := f.commit(f.focus)
	f.inputs[f.focus].Blur()
	f.focus = Field((int(f.focus) + delta + int(fieldCount)) % int(fieldCount))
	return c, f.inputs[f.focus].Focus()
}

// Update handles input events
func (f SettingsForm) Update(msg tea.Msg) (SettingsForm, tea.Cmd, FormEvent) {
	if !f.active {
		return f, nil, FormEvent{}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, FormKeys.Next):
			c, cmd := f.move(1)
			return f, cmd, FormEvent{Commit: c}
		case key.Matches(keyMsg, FormKeys.Prev):
			c, cmd := f.move(-1)
			return f, cmd, FormEvent{Commit: c}
		case key.Matches(keyMsg, FormKeys.Submit):
			return f, nil, FormEvent{Commit: f.commit(f.focus), Submit: true}
		case key.Matches(keyMsg, FormKeys.Accept):
			// Accept the top suggestion once the cursor is at the end
			in := &f.inputs[FieldWorld]
			if f.focus == FieldWorld && in.Position() == len([]rune(in.Value())) && len(f.suggestions) > 0 {
				in.SetValue(f.suggestions[0].Str)
				in.CursorEnd()
				f.refreshSuggestions()
				return f, nil, FormEvent{}
			}
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.focus == FieldWorld {
		f.refreshSuggestions()
	}
	return f, cmd, FormEvent{}
}

// View renders the form
func (f SettingsForm) View(width int) string {
	var rows []string
	for i := Field(0); i < fieldCount; i++ {
		label := styles.LabelStyle.Render(fieldLabels[i])
		if f.active && i == f.focus {
			label = styles.FocusedLabelStyle.Render("› " + fieldLabels[i])
		}
		in := f.inputs[i]
		in.Width = max(width-lipgloss.Width(label)-2, 10)
		rows = append(rows, label+in.View())
	}

	if len(f.suggestions) > 0 {
		names := make([]string, len(f.suggestions))
		for i, m := range f.suggestions {
			names[i] = highlightMatch(m, func(r string) string { return styles.MatchHighlightStyle.Render(r) })
		}
		rows = append(rows, styles.SuggestionStyle.Render("worlds: "+strings.Join(names, "  ")))
	} else if strings.TrimSpace(f.inputs[FieldSaveDirectory].Value()) != "" {
		rows = append(rows, styles.SuggestionStyle.Render("no worlds found in this directory"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
