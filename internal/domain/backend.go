package domain

import "context"

// Backend is the call contract the session coordinator consumes. It is
// implemented in-process by the local backend and over HTTP by the remote client.
type Backend interface {
	// CheckAuthenticated reports whether a usable credential is stored.
	CheckAuthenticated(ctx context.Context) (bool, error)

	// GoogleAuth returns the URL the user opens to authorize Drive access.
	GoogleAuth(ctx context.Context) (string, error)

	// UserAuthCode redeems an authorization code. Safe to retry.
	UserAuthCode(ctx context.Context, code string) error

	// GetUserData returns the persisted settings, or nil when none exist yet.
	GetUserData(ctx context.Context) (*Settings, error)

	// SaveUserData persists all three settings fields or none.
	SaveUserData(ctx context.Context, settings Settings) error

	// GetWorlds lists world names under saveDirectory. A bad path yields an empty list.
	GetWorlds(ctx context.Context, saveDirectory string) ([]string, error)

	// PushIfAhead uploads the local world when it is newer than the uploaded copy.
	PushIfAhead(ctx context.Context) error

	// SubscribeLogs opens the backend's push stream of status lines.
	SubscribeLogs(ctx context.Context) (Subscription, error)
}

// Subscription is a live registration on the backend's log stream. Close must
// be called when the listener goes away; it closes Lines and is safe to call
// more than once.
type Subscription interface {
	// Lines yields status lines in arrival order and is closed when the stream ends.
	Lines() <-chan string
	Close() error
}
