package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/minevcs/minevcs/internal/domain"
)

var errRejected = errors.New("rejected")

// fakeBackend records every call and answers from canned values.
type fakeBackend struct {
	mu sync.Mutex

	authenticated bool
	authErr       error
	authURL       string
	acceptedCodes map[string]bool

	stored   *domain.Settings
	loadErr  error
	saveErr  error
	worlds   map[string][]string
	pushErr  error
	logLines []string

	// checked records the persisted world each PushIfAhead call looked at
	checked []string

	calls map[string]int
	codes []string
	subs  []*fakeSubscription
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		authURL:       "https://accounts.example.com/o/oauth2/auth?state=state-token",
		acceptedCodes: map[string]bool{},
		worlds:        map[string][]string{},
		calls:         map[string]int{},
	}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) CheckAuthenticated(ctx context.Context) (bool, error) {
	f.record("CheckAuthenticated")
	return f.authenticated, f.authErr
}

func (f *fakeBackend) GoogleAuth(ctx context.Context) (string, error) {
	f.record("GoogleAuth")
	return f.authURL, nil
}

func (f *fakeBackend) UserAuthCode(ctx context.Context, code string) error {
	f.record("UserAuthCode")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if !f.acceptedCodes[code] {
		return errRejected
	}
	return nil
}

func (f *fakeBackend) GetUserData(ctx context.Context) (*domain.Settings, error) {
	f.record("GetUserData")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.stored == nil {
		return nil, nil
	}
	dup := *f.stored
	return &dup, nil
}

func (f *fakeBackend) SaveUserData(ctx context.Context, settings domain.Settings) error {
	f.record("SaveUserData")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = &settings
	return nil
}

func (f *fakeBackend) GetWorlds(ctx context.Context, dir string) ([]string, error) {
	f.record("GetWorlds")
	worlds, ok := f.worlds[dir]
	if !ok {
		if strings.HasPrefix(dir, "/bad") {
			return nil, errors.New("no such directory")
		}
		return []string{}, nil
	}
	return worlds, nil
}

// PushIfAhead checks the persisted settings, as real backends do.
func (f *fakeBackend) PushIfAhead(ctx context.Context) error {
	f.record("PushIfAhead")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		f.checked = append(f.checked, "")
	} else {
		f.checked = append(f.checked, f.stored.WorldName)
	}
	return f.pushErr
}

func (f *fakeBackend) checkedWorlds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.checked...)
}

// SubscribeLogs returns a stream preloaded with logLines that ends after them.
func (f *fakeBackend) SubscribeLogs(ctx context.Context) (domain.Subscription, error) {
	f.record("SubscribeLogs")
	sub := newFakeSubscription(len(f.logLines))
	for _, line := range f.logLines {
		sub.lines <- line
	}
	sub.end()

	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
	return sub, nil
}

type fakeSubscription struct {
	lines  chan string
	once   sync.Once
	closes int
}

func newFakeSubscription(buffer int) *fakeSubscription {
	return &fakeSubscription{lines: make(chan string, buffer)}
}

func (s *fakeSubscription) Lines() <-chan string { return s.lines }

func (s *fakeSubscription) Close() error {
	s.closes++
	s.end()
	return nil
}

// end closes the stream from the backend side.
func (s *fakeSubscription) end() {
	s.once.Do(func() { close(s.lines) })
}

type fakeOpener struct {
	urls []string
	err  error
}

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(b *fakeBackend) (*Session, *fakeOpener) {
	opener := &fakeOpener{}
	return New(b, opener, discardLogger(), 0), opener
}
