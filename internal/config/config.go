// Package config loads the YAML configuration shared by the desktop app, the
// web server and the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Web     Web     `yaml:"web"`
	Window  Window  `yaml:"window"`
}

// Storage selects where the task collection is persisted.
// Path is the database file for sqlite and the directory for file.
type Storage struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Key     string `yaml:"key"`
}

type Log struct {
	Level string `yaml:"level"`
	// Path of the log file; "-" logs to stderr.
	Path string `yaml:"path"`
}

type Web struct {
	Addr string `yaml:"addr"`
}

type Window struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir := dataDir()
	return &Config{
		Storage: Storage{
			Backend: BackendSQLite,
			Path:    filepath.Join(dir, "tasks.db"),
			Key:     "tasks",
		},
		Log: Log{
			Level: "info",
			Path:  filepath.Join(dir, "logs", "mktodo.log"),
		},
		Web:    Web{Addr: ":8080"},
		Window: Window{Width: 980, Height: 720},
	}
}

// Load reads the config file at path, or at the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("config: negative window size")
	}
	return nil
}

// applyDefaults fills in any value left empty in the file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendFile:
			c.Storage.Path = filepath.Dir(d.Storage.Path)
		default:
			c.Storage.Path = d.Storage.Path
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Path == "" {
		c.Log.Path = d.Log.Path
	}
	if c.Web.Addr == "" {
		c.Web.Addr = d.Web.Addr
	}
	if c.Window.Width == 0 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height == 0 {
		c.Window.Height = d.Window.Height
	}
}

// Path returns the config file location. MKTODO_CONFIG wins, then
// $XDG_CONFIG_HOME/mktodo/config.yaml, then ~/.config/mktodo/config.yaml.
func Path() (string, error) {
	if p := os.Getenv("MKTODO_CONFIG"); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "mktodo", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "mktodo", "config.yaml"), nil
}

// dataDir is ~/.mktodo, or a relative .mktodo when the home dir is unknown.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mktodo"
	}
	return filepath.Join(home, ".mktodo")
}
