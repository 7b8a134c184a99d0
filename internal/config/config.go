// Package config loads the optional YAML configuration from the data
// directory. A missing file means defaults; a malformed one is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backend names for the persistence layer.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config is everything tunable about a local install.
type Config struct {
	// DataDir holds the database, image storage, and this file.
	// Default ~/.knowpoint.
	DataDir string `yaml:"dataDir"`
	// Backend selects the key-value store: "badger" or "sqlite".
	Backend string `yaml:"backend"`
	// Intervals overrides the memory-curve table (days by review count).
	Intervals []int `yaml:"intervals"`
	// Verbose turns on development logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file exists.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("config: cannot determine home directory: %w", err)
	}
	return Config{
		DataDir: filepath.Join(home, ".knowpoint"),
		Backend: BackendBadger,
	}, nil
}

// Load reads <dataDir>/config.yaml on top of the defaults. An explicit
// non-empty dataDir overrides the default location before reading.
func Load(dataDir string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	raw, err := os.ReadFile(filepath.Join(cfg.DataDir, "config.yaml"))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	switch cfg.Backend {
	case "", BackendBadger:
		cfg.Backend = BackendBadger
	case BackendSQLite:
	default:
		return Config{}, fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

// ImageDir is where managed image copies live.
func (c Config) ImageDir() string {
	return filepath.Join(c.DataDir, "images")
}

// StorePath is the backend's on-disk location.
func (c Config) StorePath() string {
	if c.Backend == BackendSQLite {
		return filepath.Join(c.DataDir, "points.db")
	}
	return filepath.Join(c.DataDir, "points.badger")
}
