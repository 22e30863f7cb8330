package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/minevcs/minevcs/internal/adapter"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestOpen_WiresStoreAndAuth(t *testing.T) {
	dir := t.TempDir()
	cfg := adapter.DefaultConfig()
	cfg.Storage.Dir = dir
	cfg.Drive.CredentialsFile = filepath.Join(dir, "missing-credentials.json")

	b, closer, err := Open(cfg, adapter.NullLogger())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := b.CheckAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = b.GoogleAuth(ctx)
	require.ErrorIs(t, err, domain.ErrNotConfigured)

	want := domain.Settings{LauncherPath: "/opt/mc", SaveDirectory: dir, WorldName: "Survival"}
	require.NoError(t, b.SaveUserData(ctx, want))
	require.NoError(t, closer.Close())

	b, closer, err = Open(cfg, adapter.NullLogger())
	require.NoError(t, err)
	defer closer.Close()

	got, err := b.GetUserData(ctx)
	require.NoError(t, err)
	require.Equal(t, &want, got)
	require.FileExists(t, filepath.Join(dir, "minevcs.db"))
}
