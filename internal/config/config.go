package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "ticktodo"
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "todo.db"
	DefaultBackend        = "sqlite"
	DefaultTick           = 200 * time.Millisecond
)

// Keymap holds the single-rune commands available while viewing the list.
type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	AddDated   string `toml:"add_dated"`
	Complete   string `toml:"complete"`
	Uncomplete string `toml:"uncomplete"`
}

type Config struct {
	DataPath string   `toml:"data_path"`
	Backend  string   `toml:"backend"`
	Tick     Duration `toml:"tick"`
	Autosave bool     `toml:"autosave"`
	LogFile  string   `toml:"log_file"`
	LogLevel string   `toml:"log_level"`
	Keys     Keymap   `toml:"keys"`
}

// Duration is a time.Duration written as a Go duration string ("200ms").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// ResolveConfigPath returns the default config location under the user's
// config directory, falling back to the working directory.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func defaultDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDataName
	}
	return filepath.Join(dir, AppName, DefaultDataName)
}

// LoadOrCreate reads the config at path. A missing file is created with the
// defaults; fields absent from an existing file keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath()
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.Tick.Duration == 0 {
		cfg.Tick.Duration = DefaultTick
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DataPath: defaultDataPath(),
		Backend:  DefaultBackend,
		Tick:     Duration{DefaultTick},
		Autosave: true,
		LogLevel: "info",
		Keys: Keymap{
			Quit:       "q",
			Add:        "n",
			AddDated:   "d",
			Complete:   "c",
			Uncomplete: "u",
		},
	}
}

// Validate checks the values that cannot be repaired with a default.
func (c Config) Validate() error {
	switch c.Backend {
	case "sqlite", "json":
	default:
		return fmt.Errorf("backend %q: want sqlite or json", c.Backend)
	}
	if c.Tick.Duration <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick.Duration)
	}
	seen := map[string]string{}
	for name, k := range map[string]string{
		"quit":       c.Keys.Quit,
		"add":        c.Keys.Add,
		"add_dated":  c.Keys.AddDated,
		"complete":   c.Keys.Complete,
		"uncomplete": c.Keys.Uncomplete,
	} {
		if utf8.RuneCountInString(k) != 1 {
			return fmt.Errorf("keys.%s must be a single character, got %q", name, k)
		}
		if other, ok := seen[k]; ok {
			return fmt.Errorf("keys.%s and keys.%s are both bound to %q", name, other, k)
		}
		seen[k] = name
	}
	return nil
}
