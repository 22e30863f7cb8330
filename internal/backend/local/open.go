package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/minevcs/minevcs/internal/adapter"
	"github.com/minevcs/minevcs/internal/drive"
	"github.com/minevcs/minevcs/internal/store"
	"github.com/spf13/afero"
)

// Open builds a Backend from configuration: the settings database and OAuth
// token under the storage directory, Drive for the remote index. The returned
// closer releases the database.
func Open(cfg *adapter.Config, logger *slog.Logger) (*Backend, io.Closer, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, nil, err
	}
	creds, err := cfg.CredentialsFile()
	if err != nil {
		return nil, nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	settings, err := store.NewSettingsStore(dir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	fs := afero.NewOsFs()
	backend := New(Options{
		Settings: settings,
		Auth:     drive.NewAuthenticator(fs, creds, filepath.Join(dir, drive.TokenFile), logger),
		Index:    driveIndex,
		Fs:       fs,
		Home:     home,
		Logger:   logger,
	})
	return backend, settings, nil
}

func driveIndex(ctx context.Context, client *http.Client) (RemoteIndex, error) {
	return drive.NewIndex(ctx, client)
}
