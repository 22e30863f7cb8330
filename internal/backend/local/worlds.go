package local

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// listWorlds returns the sorted names of directories under dir. A missing or
// unreadable directory yields an empty list.
func listWorlds(fsys afero.Fs, dir string) []string {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return []string{}
	}
	worlds := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			worlds = append(worlds, entry.Name())
		}
	}
	sort.Strings(worlds)
	return worlds
}

// latestModTime returns the newest modification time of any regular file
// below root.
func latestModTime(fsys afero.Fs, root string) (time.Time, error) {
	var latest time.Time
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return latest.UTC(), nil
}

// resolvePath anchors a relative save directory at home.
func resolvePath(home, dir string) string {
	if filepath.IsAbs(dir) || home == "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(home, dir)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
