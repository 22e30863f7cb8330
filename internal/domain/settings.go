package domain

import (
	"path/filepath"
	"strings"
)

// Settings holds the three user-supplied values needed to locate and sync a
// world. A persisted Settings value always has all three fields set.
type Settings struct {
	LauncherPath  string `json:"minecraftLauncher"`
	SaveDirectory string `json:"minecraftDirectory"`
	WorldName     string `json:"worldName"`
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (s Settings) Normalized() Settings {
	return Settings{
		LauncherPath:  strings.TrimSpace(s.LauncherPath),
		SaveDirectory: strings.TrimSpace(s.SaveDirectory),
		WorldName:     strings.TrimSpace(s.WorldName),
	}
}

// IsComplete reports whether all three fields are non-empty.
func (s Settings) IsComplete() bool {
	n := s.Normalized()
	return n.LauncherPath != "" && n.SaveDirectory != "" && n.WorldName != ""
}

// Validate returns ErrIncompleteSettings when any field is empty.
func (s Settings) Validate() error {
	if !s.IsComplete() {
		return ErrIncompleteSettings
	}
	return nil
}

// WorldPath joins the save directory and world name.
func (s Settings) WorldPath() string {
	return filepath.Join(s.SaveDirectory, s.WorldName)
}

// SyncTarget is the (save directory, world name) pair the pre-sync guard watches.
type SyncTarget struct {
	SaveDirectory string
	WorldName     string
}

// Target returns the guard-relevant part of s.
func (s Settings) Target() SyncTarget {
	n := s.Normalized()
	return SyncTarget{SaveDirectory: n.SaveDirectory, WorldName: n.WorldName}
}

// IsComplete reports whether both values are non-empty.
func (t SyncTarget) IsComplete() bool {
	return t.SaveDirectory != "" && t.WorldName != ""
}
