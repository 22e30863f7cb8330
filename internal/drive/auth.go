// Package drive talks to Google Drive: it runs the OAuth authorization flow,
// keeps the user's token on disk and reads upload metadata for worlds.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/minevcs/minevcs/internal/domain"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
)

// TokenFile is the token file name inside the storage directory
const TokenFile = "token.json"

// authState is the fixed state parameter; codes are pasted, not redirected.
const authState = "state-token"

// Authenticator owns the OAuth client configuration and the stored token.
type Authenticator struct {
	fs              afero.Fs
	credentialsFile string
	tokenPath       string
	logger          *slog.Logger

	mu     sync.Mutex
	config *oauth2.Config // parsed lazily from credentialsFile
}

// NewAuthenticator creates an Authenticator reading client credentials from
// credentialsFile and keeping the token at tokenPath.
func NewAuthenticator(fs afero.Fs, credentialsFile, tokenPath string, logger *slog.Logger) *Authenticator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		fs:              fs,
		credentialsFile: credentialsFile,
		tokenPath:       tokenPath,
		logger:          logger,
	}
}

func (a *Authenticator) oauthConfig() (*oauth2.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.config != nil {
		return a.config, nil
	}

	data, err := afero.ReadFile(a.fs, a.credentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no OAuth client credentials at %s", domain.ErrNotConfigured, a.credentialsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	a.config = cfg
	return cfg, nil
}

// HasToken reports whether a token file is stored. It does not validate the token.
func (a *Authenticator) HasToken() (bool, error) {
	_, err := a.fs.Stat(a.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AuthCodeURL returns the consent page URL. Offline access with a forced
// consent prompt makes Google return a refresh token every time.
func (a *Authenticator) AuthCodeURL() (string, error) {
	cfg, err := a.oauthConfig()
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(
		authState,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Exchange redeems code and stores the resulting token.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	cfg, err := a.oauthConfig()
	if err != nil {
		return err
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to verify code: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		return err
	}
	a.logger.Info("saved drive token", "path", a.tokenPath)
	return nil
}

// Client returns an HTTP client authorized with the stored token. Refreshed
// tokens are written back to disk.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := a.loadToken()
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}

	src := &persistingSource{
		base:   cfg.TokenSource(ctx, tok),
		last:   tok.AccessToken,
		save:   a.saveToken,
		logger: a.logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	f, err := a.fs.Open(a.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("token file is corrupted: %w", err)
	}
	return tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	if err := a.fs.MkdirAll(filepath.Dir(a.tokenPath), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	f, err := a.fs.OpenFile(a.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

// persistingSource writes the token back whenever the access token changes
type persistingSource struct {
	base   oauth2.TokenSource
	save   func(*oauth2.Token) error
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.save(tok); err != nil {
			p.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}
	return tok, nil
}
