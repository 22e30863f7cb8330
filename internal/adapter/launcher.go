package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Browser opens authorization URLs in a web browser
type Browser struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	logger  *slog.Logger

	// start launches a process without waiting for it
	start func(name string, args ...string) error
	// lookPath reports whether a command exists in PATH
	lookPath func(name string) (string, error)
}

// launchPath defines a single way to hand a URL to the desktop
type launchPath struct {
	command string
	args    []string // arguments before the URL
}

// defaultOpeners lists, per platform, the handlers tried in order when no
// browser is configured
var defaultOpeners = map[string][]launchPath{
	"darwin":  {{command: "open"}},
	"windows": {{command: "cmd", args: []string{"/c", "start", ""}}},
	"linux": {
		{command: "xdg-open"},
		{command: "wslview"},
		{command: "sensible-browser"},
		{command: "x-www-browser"},
	},
}

// NewBrowser creates a Browser. An empty command uses the system default.
func NewBrowser(cfg BrowserConfig, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		command:  cfg.Command,
		args:     cfg.Args,
		goos:     runtime.GOOS,
		logger:   logger,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches url in the configured browser or the system default
func (b *Browser) Open(url string) error {
	// Tier 1: user configured a specific browser
	if b.command != "" {
		args := append(append([]string{}, b.args...), url)
		b.logger.Info("using configured browser", "command", b.command)
		return b.start(b.command, args...)
	}

	// Tier 2: walk the platform's openers
	for _, lp := range b.candidates() {
		if _, err := b.lookPath(lp.command); err != nil {
			b.logger.Debug("opener not available", "command", lp.command, "error", err)
			continue
		}
		args := append(append([]string{}, lp.args...), url)
		if err := b.start(lp.command, args...); err != nil {
			b.logger.Debug("opener failed", "command", lp.command, "error", err)
			continue
		}
		b.logger.Info("opened authorization URL", "command", lp.command)
		return nil
	}

	return fmt.Errorf("no browser opener found for %s", b.goos)
}

func (b *Browser) candidates() []launchPath {
	if paths, ok := defaultOpeners[b.goos]; ok {
		return paths
	}
	// Other Unix-like systems
	return defaultOpeners["linux"]
}
