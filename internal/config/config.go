package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "vidcrawl"

	// DefaultConcurrency is the number of sites crawled at the same
	// time. Crawling one site at a time keeps the load on each site
	// bounded by its own rate limit; raise it via --concurrency when
	// crawling many independent sites.
	DefaultConcurrency = 1

	// DefaultDatabaseFile is the SQLite database file name used when
	// no --db flag is given. The file lives in the XDG data directory.
	DefaultDatabaseFile = "vidcrawl.db"
)

// Config holds the runtime options for a vidcrawl invocation.
// It is populated from CLI flags and passed through the application
// via dependency injection rather than global state.
type Config struct {
	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for vidcrawl.yaml in the current directory and
	// then in the XDG config directory.
	ConfigFilePath string

	// DatabaseDSN selects the video store. A postgres:// or
	// postgresql:// URL opens a PostgreSQL pool; anything else is
	// treated as a SQLite file path. Empty means the default SQLite
	// file under the XDG data directory.
	DatabaseDSN string

	// Sites is the list of site names to crawl. Each name must have an
	// entry in the configuration file.
	Sites []string

	// StartURL overrides the configured entry point listing page.
	// Only meaningful when a single site is crawled.
	StartURL string

	// Concurrency is the number of sites crawled concurrently.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// File holds the parsed configuration file. Populated by
	// LoadConfigFile before crawling begins.
	File *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
	}
}

// Validate checks if the configuration is valid. It returns the first
// problem found; fixing one error often changes the rest.
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return ErrNoSites
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// XDGDataDir returns the XDG data directory for vidcrawl.
// On Linux: ~/.local/share/vidcrawl
// On macOS: ~/Library/Application Support/vidcrawl
// On Windows: %LOCALAPPDATA%\vidcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for vidcrawl.
// On Linux: ~/.config/vidcrawl
// On macOS: ~/Library/Application Support/vidcrawl
// On Windows: %APPDATA%\vidcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for vidcrawl.
// On Linux: ~/.cache/vidcrawl
// On macOS: ~/Library/Caches/vidcrawl
// On Windows: %LOCALAPPDATA%\vidcrawl\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DefaultDatabasePath returns the SQLite database path used when no
// DSN is configured.
func DefaultDatabasePath() string {
	return filepath.Join(XDGDataDir(), DefaultDatabaseFile)
}
