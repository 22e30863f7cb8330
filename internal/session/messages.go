package session

import "github.com/minevcs/minevcs/internal/domain"

// Result messages produced by backend commands. Session.Update applies them.

// AuthCheckedMsg carries the startup credential check
type AuthCheckedMsg struct {
	Authenticated bool
	Err           error
}

// AuthURLMsg carries the authorization URL after it was handed to the opener
type AuthURLMsg struct {
	URL     string
	Err     error
	OpenErr error // browser could not be launched; URL is still usable
}

// CodeRedeemedMsg signals the backend answered a code redemption
type CodeRedeemedMsg struct {
	Err error
}

// SettingsLoadedMsg carries persisted settings; nil Settings means none saved yet
type SettingsLoadedMsg struct {
	Settings *domain.Settings
	Err      error
}

// SettingsSavedMsg signals a save attempt finished
type SettingsSavedMsg struct {
	Settings domain.Settings
	Err      error
}

// WorldsListedMsg carries candidate worlds for a save directory
type WorldsListedMsg struct {
	SaveDirectory string
	Worlds        []string
}

// GuardCheckedMsg signals the pre-sync check finished for a target
type GuardCheckedMsg struct {
	Target domain.SyncTarget
	Err    error
	seq    int
}

// LogSubscribedMsg carries a freshly opened log stream
type LogSubscribedMsg struct {
	Sub domain.Subscription
	Err error
}

// LogLineMsg is one line pushed by the backend
type LogLineMsg struct {
	Line string
	sub  domain.Subscription
}

// LogStreamClosedMsg signals the backend ended the log stream
type LogStreamClosedMsg struct {
	sub domain.Subscription
}
