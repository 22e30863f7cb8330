package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// BackendMode selects where backend calls are served
type BackendMode string

const (
	BackendModeLocal  BackendMode = "local"
	BackendModeRemote BackendMode = "remote"
)

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Drive   DriveConfig   `mapstructure:"drive"`
	Browser BrowserConfig `mapstructure:"browser"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	path string // file the configuration was read from, if any
}

// BackendConfig tells the client how to reach its backend
type BackendConfig struct {
	Mode  BackendMode `mapstructure:"mode"`  // "local" or "remote"
	URL   string      `mapstructure:"url"`   // minevcsd base URL, remote only
	Token string      `mapstructure:"token"` // bearer token, remote only
}

// ServerConfig holds minevcsd listener configuration
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
	Token  string `mapstructure:"token"` // empty disables bearer auth
}

// StorageConfig locates the settings database and OAuth token
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// DriveConfig locates the Google OAuth client credentials
type DriveConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

// BrowserConfig overrides the system browser used for authorization
type BrowserConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	LogHistory int `mapstructure:"log_history"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Mode: BackendModeLocal,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:7878",
		},
		Storage: StorageConfig{
			Dir: "~/.minevcs",
		},
		Drive: DriveConfig{
			CredentialsFile: "~/.minevcs/credentials.json",
		},
		UI: UIConfig{
			LogHistory: 200,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "minevcs", "minevcs.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "minevcs", "minevcs.log")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "minevcs")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "minevcs")
	}
}

// LoadConfig loads configuration from file and environment. An explicit path
// must exist; otherwise config.yaml is looked up in the default directory and
// the working directory, and a missing file means defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns an instance with environment overrides bound for every
// known key, e.g. MINEVCS_BACKEND_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MINEVCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

var configKeys = []string{
	"backend.mode", "backend.url", "backend.token",
	"server.listen", "server.token",
	"storage.dir",
	"drive.credentials_file",
	"browser.command", "browser.args",
	"ui.log_history",
	"logging.file", "logging.level",
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendModeLocal:
	case BackendModeRemote:
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown backend.mode %q", c.Backend.Mode)
	}
	if c.UI.LogHistory < 0 {
		return fmt.Errorf("ui.log_history must not be negative")
	}
	return nil
}

// Path returns the config file that was read, or "" when running on defaults
func (c *Config) Path() string {
	return c.path
}

// SaveConfig writes cfg as YAML to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("backend.mode", string(cfg.Backend.Mode))
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.token", cfg.Backend.Token)

	v.Set("server.listen", cfg.Server.Listen)
	v.Set("server.token", cfg.Server.Token)

	v.Set("storage.dir", cfg.Storage.Dir)
	v.Set("drive.credentials_file", cfg.Drive.CredentialsFile)

	v.Set("browser.command", cfg.Browser.Command)
	v.Set("browser.args", cfg.Browser.Args)

	v.Set("ui.log_history", cfg.UI.LogHistory)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// StorageDir returns the storage directory with ~ expanded
func (c *Config) StorageDir() (string, error) {
	return ExpandHome(c.Storage.Dir)
}

// CredentialsFile returns the OAuth client credentials path with ~ expanded
func (c *Config) CredentialsFile() (string, error) {
	return ExpandHome(c.Drive.CredentialsFile)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
