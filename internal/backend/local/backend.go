// Package local implements the backend in-process: settings in BoltDB, Drive
// authorization through OAuth, world listing and the pre-sync staleness check
// on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/minevcs/minevcs/internal/domain"
	"github.com/spf13/afero"
)

// SettingsRepo persists the settings record
type SettingsRepo interface {
	Get() (*domain.Settings, error)
	Put(settings domain.Settings) error
}

// Authorizer runs the OAuth flow and holds the token
type Authorizer interface {
	HasToken() (bool, error)
	AuthCodeURL() (string, error)
	Exchange(ctx context.Context, code string) error
	Client(ctx context.Context) (*http.Client, error)
}

// RemoteIndex reports when a world was last uploaded
type RemoteIndex interface {
	LatestUpload(ctx context.Context, world string) (time.Time, error)
}

// IndexFactory builds a RemoteIndex on an authorized client
type IndexFactory func(ctx context.Context, client *http.Client) (RemoteIndex, error)

// Pusher uploads a world that is ahead of its remote copy
type Pusher interface {
	Push(ctx context.Context, settings domain.Settings, worldPath string) error
}

// Options configures a Backend
type Options struct {
	Settings SettingsRepo
	Auth     Authorizer
	Index    IndexFactory
	Pusher   Pusher // nil when no sync engine is attached
	Emitter  *Emitter
	Fs       afero.Fs
	Home     string // relative save directories are resolved here
	Logger   *slog.Logger
}

// Backend serves every backend call in-process
type Backend struct {
	settings SettingsRepo
	auth     Authorizer
	index    IndexFactory
	pusher   Pusher
	emitter  *Emitter
	fs       afero.Fs
	home     string
	logger   *slog.Logger

	mu           sync.Mutex
	redeemedCode string // last code exchanged successfully
}

var _ domain.Backend = (*Backend)(nil)

// New creates a Backend
func New(opts Options) *Backend {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Emitter == nil {
		opts.Emitter = NewEmitter(opts.Logger)
	}
	return &Backend{
		settings: opts.Settings,
		auth:     opts.Auth,
		index:    opts.Index,
		pusher:   opts.Pusher,
		emitter:  opts.Emitter,
		fs:       opts.Fs,
		home:     opts.Home,
		logger:   opts.Logger,
	}
}

// Emitter returns the log stream this backend publishes to
func (b *Backend) Emitter() *Emitter {
	return b.emitter
}

// CheckAuthenticated reports whether a Drive token is stored
func (b *Backend) CheckAuthenticated(ctx context.Context) (bool, error) {
	ok, err := b.auth.HasToken()
	if err != nil {
		b.logger.Warn("checking token failed", "error", err)
		return false, nil
	}
	return ok, nil
}

// GoogleAuth returns the Drive consent URL
func (b *Backend) GoogleAuth(ctx context.Context) (string, error) {
	url, err := b.auth.AuthCodeURL()
	if err != nil {
		b.emitter.Emitf("Could not start authorization: %v ❌", err)
		return "", err
	}
	return url, nil
}

// UserAuthCode exchanges code for a token. Repeating a code that already
// succeeded is a no-op while the token is present.
func (b *Backend) UserAuthCode(ctx context.Context, code string) error {
	if code == "" {
		return domain.ErrEmptyCode
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if code == b.redeemedCode {
		if ok, _ := b.auth.HasToken(); ok {
			return nil
		}
	}

	if err := b.auth.Exchange(ctx, code); err != nil {
		b.emitter.Emitf("Error verifying code: %v ❌", err)
		return err
	}
	b.redeemedCode = code
	b.emitter.Emit("Authenticated with Google Drive ✅")
	return nil
}

// GetUserData returns the stored settings or nil on first run
func (b *Backend) GetUserData(ctx context.Context) (*domain.Settings, error) {
	settings, err := b.settings.Get()
	if err != nil {
		b.emitter.Emit("Config file is corrupted, please create a new one ❌")
		return nil, err
	}
	if settings == nil {
		b.emitter.Emit("Config file not created yet, create a new one first ❌")
	}
	return settings, nil
}

// SaveUserData stores all three fields or none
func (b *Backend) SaveUserData(ctx context.Context, settings domain.Settings) error {
	b.emitter.Emit("Saving user data locally...")
	if err := b.settings.Put(settings); err != nil {
		b.emitter.Emitf("Error saving user data: %v ❌", err)
		return err
	}
	b.emitter.Emit("User data saved successfully ✅")
	return nil
}

// GetWorlds lists world directories under saveDirectory
func (b *Backend) GetWorlds(ctx context.Context, saveDirectory string) ([]string, error) {
	if saveDirectory == "" {
		return []string{}, nil
	}
	return listWorlds(b.fs, resolvePath(b.home, saveDirectory)), nil
}

// PushIfAhead compares the newest file in the configured world with the
// last upload and hands the world to the Pusher when local is newer.
func (b *Backend) PushIfAhead(ctx context.Context) error {
	settings, err := b.settings.Get()
	if err != nil {
		return err
	}
	if settings == nil {
		return domain.ErrNotConfigured
	}

	worldPath := resolvePath(b.home, settings.WorldPath())
	ahead, err := b.localIsAhead(ctx, settings.WorldName, worldPath)
	if err != nil {
		b.emitter.Emitf("Error checking world sync status: %v ❌", err)
		return err
	}
	if !ahead {
		b.logger.Info("local world is in sync with last upload", "world", settings.WorldName)
		return nil
	}

	b.emitter.Emit("Local world is ahead of last uploaded world, pushing updated world to Drive ⏳")
	if b.pusher == nil {
		b.emitter.Emit("Error uploading world: no sync engine attached ❌")
		return domain.ErrSyncEngineUnavailable
	}
	if err := b.pusher.Push(ctx, *settings, worldPath); err != nil {
		b.emitter.Emitf("Error uploading world: %v ❌", err)
		return err
	}
	b.emitter.Emit("World uploaded successfully ✅")
	return nil
}

func (b *Backend) localIsAhead(ctx context.Context, world, worldPath string) (bool, error) {
	client, err := b.auth.Client(ctx)
	if err != nil {
		return false, err
	}

	latest, err := latestModTime(b.fs, worldPath)
	if err != nil {
		if isNotExist(err) {
			return false, fmt.Errorf("world folder %s not found", worldPath)
		}
		return false, fmt.Errorf("failed to walk through world folder: %w", err)
	}

	index, err := b.index(ctx, client)
	if err != nil {
		return false, err
	}
	uploaded, err := index.LatestUpload(ctx, world)
	if errors.Is(err, domain.ErrNoRemoteCopy) {
		// Never uploaded, so local is ahead
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return latest.After(uploaded), nil
}

// SubscribeLogs opens a stream of status lines, starting with the backlog
func (b *Backend) SubscribeLogs(ctx context.Context) (domain.Subscription, error) {
	return b.emitter.Subscribe(), nil
}
