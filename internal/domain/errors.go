package domain

import "errors"

// Sentinel errors for local validation. These never reach a backend.
var (
	// ErrEmptyCode indicates an authorization code was blank
	ErrEmptyCode = errors.New("authorization code is empty")

	// ErrIncompleteSettings indicates one of the three settings fields is blank
	ErrIncompleteSettings = errors.New("launcher path, save directory and world name are all required")

	// ErrRedeemInFlight indicates a code redemption is already waiting on the backend
	ErrRedeemInFlight = errors.New("authorization code is already being verified")

	// ErrSaveInFlight indicates a settings save is already waiting on the backend
	ErrSaveInFlight = errors.New("settings are already being saved")

	// ErrNoAuthURL indicates the backend returned an empty authorization URL
	ErrNoAuthURL = errors.New("backend returned no authorization URL")
)

// Sentinel errors reported by backends.
var (
	// ErrNotConfigured indicates no settings have been saved yet
	ErrNotConfigured = errors.New("settings have not been saved yet")

	// ErrNotAuthenticated indicates no usable credential is stored
	ErrNotAuthenticated = errors.New("not authenticated with Google Drive")

	// ErrNoRemoteCopy indicates the world has never been uploaded
	ErrNoRemoteCopy = errors.New("no uploaded copy of the world exists")

	// ErrSyncEngineUnavailable indicates no uploader is wired to push a newer local copy
	ErrSyncEngineUnavailable = errors.New("sync engine is not available")
)

// AuthError reports a failed authorization step. The user may retry.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "authorization failed: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// StoreError reports a failed settings load or a rejected save. The form keeps its values.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "settings store: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// GuardError reports that the pre-sync check could not confirm the local copy
// is current. It never blocks the user.
type GuardError struct {
	Err error
}

func (e *GuardError) Error() string { return "pre-sync check failed: " + e.Err.Error() }
func (e *GuardError) Unwrap() error { return e.Err }
