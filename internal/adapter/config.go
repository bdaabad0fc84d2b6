package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Paging  PagingConfig  `mapstructure:"paging"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	Session SessionConfig `mapstructure:"session"`
}

// ServerConfig holds media service configuration
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // per request
}

// PagingConfig tunes collection loading
type PagingConfig struct {
	PageSize int `mapstructure:"page_size"`

	// SettleDelay is the minimum time a first load stays pending so the
	// spinner is visible
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	DefaultView string `mapstructure:"default_view"` // "media" or "albums"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"` // "-" logs to stderr
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// SessionConfig locates the credential jar
type SessionConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps credentials in memory only
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Timeout: 30 * time.Second,
		},
		Paging: PagingConfig{
			PageSize:    30,
			SettleDelay: 100 * time.Millisecond,
		},
		UI: UIConfig{
			Theme:       "default",
			DefaultView: "media",
		},
		Logging: LoggingConfig{
			File:   defaultDataPath("mediabox.log"),
			Level:  "INFO",
			Format: "json",
		},
		Session: SessionConfig{
			Dir: defaultDataPath("session"),
		},
	}
}

// defaultDataPath returns a path under the per-user data directory
func defaultDataPath(name string) string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "mediabox", name)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mediabox", name)
	}
}

// DefaultConfigPath returns the default config file path for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mediabox", "config.yaml")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mediabox", "config.yaml")
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEDIABOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so environment overrides are seen by Unmarshal.
	d := DefaultConfig()
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("paging.page_size", d.Paging.PageSize)
	v.SetDefault("paging.settle_delay", d.Paging.SettleDelay)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.default_view", d.UI.DefaultView)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("session.dir", d.Session.Dir)
	return v
}

// LoadConfig loads configuration from path and the environment. An empty
// path means DefaultConfigPath. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("paging.page_size must be positive, got %d", c.Paging.PageSize)
	}
	if c.Paging.SettleDelay < 0 {
		return fmt.Errorf("paging.settle_delay must not be negative")
	}
	switch c.UI.DefaultView {
	case "media", "albums":
	default:
		return fmt.Errorf("ui.default_view must be media or albums, got %q", c.UI.DefaultView)
	}
	return nil
}

// IsConfigured returns true once a server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// SaveConfig writes cfg to path, or DefaultConfigPath when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("paging.page_size", cfg.Paging.PageSize)
	v.Set("paging.settle_delay", cfg.Paging.SettleDelay.String())
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.default_view", cfg.UI.DefaultView)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.format", cfg.Logging.Format)
	v.Set("session.dir", cfg.Session.Dir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
