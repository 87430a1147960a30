// Package config loads bm-launcher settings from TOML and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nikbrunner/bm-launcher/internal/search"
	"github.com/nikbrunner/bm-launcher/internal/session"
	"github.com/nikbrunner/bm-launcher/internal/source"
)

// Environment variables that override the config file.
const (
	EnvSource     = "BM_LAUNCHER_SOURCE"
	EnvPath       = "BM_LAUNCHER_PATH"
	EnvKeyword    = "BM_LAUNCHER_KEYWORD"
	EnvMaxResults = "BM_LAUNCHER_MAX_RESULTS"
	EnvLogLevel   = "BM_LAUNCHER_LOG_LEVEL"
)

var ErrInvalid = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Keyword    string       `toml:"keyword"`
	MaxResults int          `toml:"max_results"`
	CacheSize  int          `toml:"cache_size"` // 0 disables the ranking cache
	Source     SourceConfig `toml:"source"`
	Opener     OpenerConfig `toml:"opener"`
	Log        LogConfig    `toml:"log"`
}

// SourceConfig selects the bookmark store.
type SourceConfig struct {
	Kind string `toml:"kind"`
	Path string `toml:"path"` // empty = the browser's default location
}

// OpenerConfig overrides the URL handler command.
type OpenerConfig struct {
	Command string `toml:"command"` // empty = OS default
}

// LogConfig configures diagnostics. Logs never go to stdout.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty = stderr
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Keyword:    "cb",
		MaxResults: session.DefaultMaxResults,
		CacheSize:  search.DefaultCacheSize,
		Source:     SourceConfig{Kind: string(source.Chrome)},
		Log:        LogConfig{Level: "info"},
	}
}

// DefaultPath returns the default config path: ~/.config/bm-launcher/config.toml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bm-launcher", "config.toml"), nil
}

// Load reads config from the TOML file at path. Keys missing from the file
// keep their default values. A missing file yields the defaults, which are
// also written to path when possible.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: defaults stand even if they cannot be written
			_ = Save(path, &cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

// Save writes cfg as TOML to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyEnv loads the given dotenv files (".env" when none are named; a
// missing file is ignored) and then overrides fields from BM_LAUNCHER_*
// variables. Variables already set in the process win over dotenv values.
func (c *Config) ApplyEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}

	if v, ok := os.LookupEnv(EnvSource); ok {
		c.Source.Kind = v
	}
	if v, ok := os.LookupEnv(EnvPath); ok {
		c.Source.Path = v
	}
	if v, ok := os.LookupEnv(EnvKeyword); ok {
		c.Keyword = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvMaxResults); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, EnvMaxResults, v, err)
		}
		c.MaxResults = n
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("%w: max_results must be at least 1, got %d", ErrInvalid, c.MaxResults)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalid, c.CacheSize)
	}
	if strings.ContainsAny(c.Keyword, " \t") {
		return fmt.Errorf("%w: keyword %q must be a single word", ErrInvalid, c.Keyword)
	}
	if _, err := source.ParseKind(c.Source.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// SourceKind returns the validated source kind.
func (c *Config) SourceKind() (source.Kind, error) {
	return source.ParseKind(c.Source.Kind)
}

// LogLevel parses the configured log level (debug, info, warn, error).
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return level, nil
}
