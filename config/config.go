package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. EDITCORE_UNDO_LIMIT.
const EnvPrefix = "EDITCORE"

type Config struct {
	KillRingSize  int    `mapstructure:"kill_ring_size" json:"kill_ring_size"`
	UndoLimit     int    `mapstructure:"undo_limit" json:"undo_limit"`
	WordChars     string `mapstructure:"word_chars" json:"word_chars"`
	ClipboardSync bool   `mapstructure:"clipboard_sync" json:"clipboard_sync"`
	LogLevel      string `mapstructure:"log_level" json:"log_level"`
	StateDir      string `mapstructure:"state_dir" json:"state_dir"`
}

func Default() *Config {
	return &Config{
		KillRingSize: 60,
		UndoLimit:    1000,
		WordChars:    "_",
		LogLevel:     "info",
		StateDir:     defaultStateDir(),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "editcore")
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "editcore", "settings.json")
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StatePath is where session state is saved, or "" when there is no
// state directory.
func (c *Config) StatePath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, "state.json")
}

func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads path over the defaults and applies EDITCORE_* environment
// overrides. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := newViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.KillRingSize <= 0 {
		cfg.KillRingSize = Default().KillRingSize
	}
	if cfg.UndoLimit <= 0 {
		cfg.UndoLimit = Default().UndoLimit
	}
	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigType("json")
	v.Set("kill_ring_size", c.KillRingSize)
	v.Set("undo_limit", c.UndoLimit)
	v.Set("word_chars", c.WordChars)
	v.Set("clipboard_sync", c.ClipboardSync)
	v.Set("log_level", c.LogLevel)
	v.Set("state_dir", c.StateDir)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("kill_ring_size", d.KillRingSize)
	v.SetDefault("undo_limit", d.UndoLimit)
	v.SetDefault("word_chars", d.WordChars)
	v.SetDefault("clipboard_sync", d.ClipboardSync)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("state_dir", d.StateDir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
	}
	return v
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}
