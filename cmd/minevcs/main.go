package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/adapter"
	"github.com/minevcs/minevcs/internal/backend/local"
	"github.com/minevcs/minevcs/internal/backend/remote"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/session"
	"github.com/minevcs/minevcs/internal/tui"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		configPath  string
		login       bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&login, "login", false, "authorize Google Drive from the terminal and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("minevcs %s\n", Version)
		return
	}

	if err := run(configPath, login); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, login bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logFile, err := adapter.SetupLogger(cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting minevcs", "version", Version, "backend", cfg.Backend.Mode)

	backend, closer, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	browser := adapter.NewBrowser(cfg.Browser, logger)
	sess := session.New(backend, browser, logger, cfg.UI.LogHistory)
	defer sess.Close()

	if login {
		return runLoginFlow(sess, backend, logger)
	}

	p := tea.NewProgram(
		tui.NewModel(sess),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// openBackend serves backend calls in-process or through a minevcsd daemon
func openBackend(cfg *adapter.Config, logger *slog.Logger) (domain.Backend, io.Closer, error) {
	switch cfg.Backend.Mode {
	case adapter.BackendModeRemote:
		client, err := remote.NewClient(cfg.Backend.URL, cfg.Backend.Token)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create backend client: %w", err)
		}
		return client, closerFunc(func() error { return nil }), nil
	default:
		backend, closer, err := local.Open(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local backend: %w", err)
		}
		return backend, closer, nil
	}
}

// runLoginFlow authorizes Drive without the TUI: it opens the consent page,
// reads the code from the terminal and redeems it
func runLoginFlow(sess *session.Session, backend domain.Backend, logger *slog.Logger) error {
	// Backend status lines go straight to stdout
	stop, err := session.Subscribe(context.Background(), backend, func(line string) {
		fmt.Println(line)
	})
	if err != nil {
		logger.Warn("log subscription failed", "error", err)
	} else {
		defer stop()
	}

	sess.Run(sess.CheckAuthenticated())
	if sess.Authenticated() {
		fmt.Println("✓ Google Drive is already authorized.")
		return nil
	}

	sess.Run(sess.BeginAuthorization())
	if !sess.AuthFlowPending() {
		return fmt.Errorf("could not start authorization: %w", sess.AuthErr())
	}

	fmt.Println()
	fmt.Println("Open this link in a browser and approve access:")
	fmt.Println()
	fmt.Println("  " + sess.AuthURL())
	fmt.Println()
	if q, err := qrcode.New(sess.AuthURL(), qrcode.Medium); err == nil {
		fmt.Println(q.ToSmallString(false))
	}

	for attempt := 0; attempt < 3; attempt++ {
		code, err := readCode("Paste the authorization code: ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}

		cmd, err := sess.RedeemCode(code)
		if err != nil {
			fmt.Printf("✗ %v\n", err)
			continue
		}
		sess.Run(cmd)

		if sess.Authenticated() {
			fmt.Println()
			fmt.Println("✓ Google Drive authorized!")
			return nil
		}
		fmt.Printf("✗ %v\n", sess.AuthErr())
	}
	return errors.New("authorization failed")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var stdin = bufio.NewReader(os.Stdin)

// readCode prompts for the code, hiding input on a terminal
func readCode(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return strings.TrimSpace(string(b)), err
	}
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
