// Package config handles loading the timecards config.toml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/nissyi-gh/timecards/internal/store"
)

// DataDirEnv relocates every default data path when set.
const DataDirEnv = "TIMECARDS_DATA_DIR"

// Config represents the config.toml file.
type Config struct {
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
	Display Display `toml:"display"`
}

// Storage selects where todos and streak data are persisted.
type Storage struct {
	// Backend is "sqlite" (default) or "json".
	Backend string `toml:"backend"`
	// Path is the database file for sqlite or the directory for json.
	Path string `toml:"path"`
}

// Log configures the log file.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Display contains presentation settings.
type Display struct {
	// Timezone is an IANA zone name used to decide calendar days.
	// Empty means the local zone.
	Timezone string `toml:"timezone"`
}

// DefaultPath returns the config file location under the XDG config dir.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "timecards", "config.toml")
}

// Load reads the config at path, or DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg.withDefaults()
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg.withDefaults()
}

func (c *Config) withDefaults() (*Config, error) {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = store.BackendSQLite
	}
	switch c.Storage.Backend {
	case store.BackendSQLite, store.BackendJSON:
	default:
		return nil, fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if _, err := c.Location(); err != nil {
		return nil, err
	}
	return c, nil
}

// StoragePath returns the configured storage location. An empty result
// lets the backend pick its XDG default.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		return ""
	}
	if c.Storage.Backend == store.BackendJSON {
		return dir
	}
	return filepath.Join(dir, "timecards.db")
}

// LogPath returns the log file location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File), nil
	}
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return filepath.Join(dir, "timecards.log"), nil
	}
	path, err := xdg.StateFile(filepath.Join("timecards", "timecards.log"))
	if err != nil {
		return "", fmt.Errorf("determine log path: %w", err)
	}
	return path, nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
