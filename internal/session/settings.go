package session

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
)

// Load reads the persisted settings.
func (s *Session) Load() tea.Cmd {
	backend, ctx := s.backend, s.ctx
	return func() tea.Msg {
		settings, err := backend.GetUserData(ctx)
		return SettingsLoadedMsg{Settings: settings, Err: err}
	}
}

func (s *Session) applySettingsLoaded(msg SettingsLoadedMsg) tea.Cmd {
	s.loaded = true
	if msg.Err != nil {
		s.loadErr = &domain.StoreError{Err: msg.Err}
		s.logger.Warn("loading settings failed", "error", msg.Err)
		return nil
	}
	s.loadErr = nil
	if msg.Settings == nil || !msg.Settings.IsComplete() {
		s.logger.Debug("no settings saved yet")
		return nil
	}
	loaded := msg.Settings.Normalized()
	s.settings = &loaded
	return s.replaceForm(loaded, true)
}

// Save persists settings. An incomplete value is rejected here without a
// backend call and without touching the session.
func (s *Session) Save(settings domain.Settings) (tea.Cmd, error) {
	settings = settings.Normalized()
	if err := settings.Validate(); err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	if s.saving {
		return nil, &domain.StoreError{Err: domain.ErrSaveInFlight}
	}
	s.saving = true

	backend, ctx := s.backend, s.ctx
	return func() tea.Msg {
		return SettingsSavedMsg{Settings: settings, Err: backend.SaveUserData(ctx, settings)}
	}, nil
}

// SaveForm submits the current form values.
func (s *Session) SaveForm() (tea.Cmd, error) {
	return s.Save(s.form)
}

func (s *Session) applySettingsSaved(msg SettingsSavedMsg) tea.Cmd {
	s.saving = false
	if msg.Err != nil {
		s.storeErr = &domain.StoreError{Err: msg.Err}
		s.logger.Warn("saving settings failed", "error", msg.Err)
		return nil
	}
	saved := msg.Settings
	s.settings = &saved
	s.storeErr = nil
	s.logger.Info("settings saved", "world", saved.WorldName)

	cmds := []tea.Cmd{s.replaceForm(saved, false)}
	// The backend checks persisted settings, so a run made before this save
	// looked at a different world, or at none.
	if last, ok := s.guard.Last(); ok && last == saved.Target() && s.guardBasis != last {
		cmds = append(cmds, s.runGuard(last))
	}
	return tea.Batch(cmds...)
}

// replaceForm installs values into the form, refreshing the world list when
// forced or when the save directory changed, and feeds the guard.
func (s *Session) replaceForm(values domain.Settings, forceWorlds bool) tea.Cmd {
	dirChanged := values.SaveDirectory != s.form.SaveDirectory
	s.form = values

	var cmds []tea.Cmd
	if forceWorlds || dirChanged {
		cmds = append(cmds, s.refreshWorlds())
	}
	cmds = append(cmds, s.observeTarget())
	return tea.Batch(cmds...)
}

// SetLauncherPath updates the launcher field. It never affects the guard.
func (s *Session) SetLauncherPath(value string) {
	s.form.LauncherPath = value
}

// SetSaveDirectory updates the save directory field with a settled value,
// refreshing candidate worlds and re-evaluating the guard.
func (s *Session) SetSaveDirectory(value string) tea.Cmd {
	if value == s.form.SaveDirectory {
		return nil
	}
	s.form.SaveDirectory = value
	return tea.Batch(s.refreshWorlds(), s.observeTarget())
}

// SetWorldName updates the world field with a settled value and re-evaluates the guard.
func (s *Session) SetWorldName(value string) tea.Cmd {
	if value == s.form.WorldName {
		return nil
	}
	s.form.WorldName = value
	return s.observeTarget()
}

func (s *Session) refreshWorlds() tea.Cmd {
	dir := strings.TrimSpace(s.form.SaveDirectory)
	if dir == "" {
		s.worlds = nil
		return nil
	}
	backend, ctx, logger := s.backend, s.ctx, s.logger
	return func() tea.Msg {
		worlds, err := backend.GetWorlds(ctx, dir)
		if err != nil {
			// The path is usually still being typed.
			logger.Debug("listing worlds failed", "dir", dir, "error", err)
			worlds = nil
		}
		return WorldsListedMsg{SaveDirectory: dir, Worlds: worlds}
	}
}

func (s *Session) applyWorldsListed(msg WorldsListedMsg) {
	if msg.SaveDirectory != strings.TrimSpace(s.form.SaveDirectory) {
		return
	}
	s.worlds = append([]string(nil), msg.Worlds...)
}

// observeTarget feeds the current pair to the guard and returns the check
// command when it fires.
func (s *Session) observeTarget() tea.Cmd {
	target := s.form.Target()
	if !s.guard.Observe(target) {
		return nil
	}
	return s.runGuard(target)
}

// runGuard issues the pre-sync check for target. Only the latest run's result
// is applied.
func (s *Session) runGuard(target domain.SyncTarget) tea.Cmd {
	s.guardSeq++
	s.guardInFlight++
	s.guardBasis = domain.SyncTarget{}
	if s.settings != nil {
		s.guardBasis = s.settings.Target()
	}
	s.logger.Debug("running pre-sync check", "dir", target.SaveDirectory, "world", target.WorldName)

	backend, ctx, seq := s.backend, s.ctx, s.guardSeq
	return func() tea.Msg {
		return GuardCheckedMsg{Target: target, Err: backend.PushIfAhead(ctx), seq: seq}
	}
}

func (s *Session) applyGuardChecked(msg GuardCheckedMsg) {
	if s.guardInFlight > 0 {
		s.guardInFlight--
	}
	if msg.seq != s.guardSeq {
		s.logger.Debug("discarding superseded pre-sync result", "world", msg.Target.WorldName, "error", msg.Err)
		return
	}
	if msg.Err != nil {
		// Best effort: the user may continue on a possibly stale local copy.
		s.guardErr = &domain.GuardError{Err: msg.Err}
		s.logger.Warn("pre-sync check failed", "world", msg.Target.WorldName, "error", msg.Err)
		s.note(fmt.Sprintf("Error checking world sync status: %v ❌", msg.Err))
		return
	}
	s.guardErr = nil
}

// Settings returns the last loaded or saved settings, or nil when none exist.
func (s *Session) Settings() *domain.Settings {
	if s.settings == nil {
		return nil
	}
	dup := *s.settings
	return &dup
}

// Form returns the in-progress form values.
func (s *Session) Form() domain.Settings { return s.form }

// Worlds returns the candidate worlds for the current save directory.
func (s *Session) Worlds() []string { return append([]string(nil), s.worlds...) }

// Loaded reports whether the initial settings load has completed.
func (s *Session) Loaded() bool { return s.loaded }

// LoadErr returns the error from the last settings load.
func (s *Session) LoadErr() error { return s.loadErr }

// StoreErr returns the error from the last rejected save, for inline display.
func (s *Session) StoreErr() error { return s.storeErr }

// Saving reports whether a save is awaiting the backend.
func (s *Session) Saving() bool { return s.saving }

// GuardErr returns the last pre-sync check failure.
func (s *Session) GuardErr() error { return s.guardErr }

// GuardPending reports whether a pre-sync check is awaiting the backend.
func (s *Session) GuardPending() bool { return s.guardInFlight > 0 }
