package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/chat-session/internal/kv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Modes select which conversation family a store holds
const (
	ModeChat       = "chat"
	ModeCalculator = "calculator"
)

// EnvPrefix prefixes every environment override, e.g. CHAT_SESSION_STORAGE_BACKEND
const EnvPrefix = "CHAT_SESSION"

var (
	modePrefixes = map[string]string{
		ModeChat:       "chat",
		ModeCalculator: "calculator",
	}

	modeLegacyKeys = map[string]string{
		ModeChat:       LegacyChatHistoryKey,
		ModeCalculator: LegacyCalculatorHistoryKey,
	}
)

// Config holds the chat-session configuration
type Config struct {
	Storage        StorageConfig `mapstructure:"storage" yaml:"storage"`
	Mode           string        `mapstructure:"mode" yaml:"mode"`
	Prefix         string        `mapstructure:"prefix" yaml:"prefix,omitempty"` // overrides the mode's prefix
	Limits         LimitsConfig  `mapstructure:"limits" yaml:"limits"`
	DefaultTitle   string        `mapstructure:"default_title" yaml:"default_title"`
	TransientTexts []string      `mapstructure:"transient_texts" yaml:"transient_texts"`
}

// StorageConfig selects and locates the key/value backend
type StorageConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`
	Path       string `mapstructure:"path" yaml:"path,omitempty"`
	QuotaBytes int    `mapstructure:"quota_bytes" yaml:"quota_bytes"` // memory backend only, 0 is unlimited
}

// LimitsConfig holds the retention limits
type LimitsConfig struct {
	MaxSessions int `mapstructure:"max_sessions" yaml:"max_sessions"`
	MaxMessages int `mapstructure:"max_messages" yaml:"max_messages"`
	TitleLength int `mapstructure:"title_length" yaml:"title_length"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Mode: ModeChat,
		Limits: LimitsConfig{
			MaxSessions: DefaultMaxSessions,
			MaxMessages: DefaultMaxMessages,
			TitleLength: DefaultTitleLength,
		},
		DefaultTitle:   DefaultTitle,
		TransientTexts: []string{"Thinking..."},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.quota_bytes", cfg.Storage.QuotaBytes)
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("prefix", cfg.Prefix)
	v.SetDefault("limits.max_sessions", cfg.Limits.MaxSessions)
	v.SetDefault("limits.max_messages", cfg.Limits.MaxMessages)
	v.SetDefault("limits.title_length", cfg.Limits.TitleLength)
	v.SetDefault("default_title", cfg.DefaultTitle)
	v.SetDefault("transient_texts", cfg.TransientTexts)
}

// LoadConfig loads configuration from configPath, falling back to the
// default config file location when configPath is empty. A missing default
// config file yields the defaults; a missing explicit one is an error.
// Environment variables prefixed with CHAT_SESSION_ override both.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		paths, err := DetectStoragePaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ConfigPath
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		LogDebug("Loaded config from %s", configPath)
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want sqlite, file or memory)", c.Storage.Backend)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes: must not be negative")
	}
	if c.Prefix == "" {
		if _, ok := modePrefixes[c.Mode]; !ok {
			return fmt.Errorf("mode: unknown mode %q (want chat or calculator)", c.Mode)
		}
	}
	if strings.ContainsAny(c.Prefix, " \t\n") {
		return fmt.Errorf("prefix: must not contain whitespace")
	}
	if c.Limits.MaxSessions < 1 {
		return fmt.Errorf("limits.max_sessions: must be at least 1")
	}
	if c.Limits.MaxMessages < 1 {
		return fmt.Errorf("limits.max_messages: must be at least 1")
	}
	if c.Limits.TitleLength < 1 {
		return fmt.Errorf("limits.title_length: must be at least 1")
	}
	return nil
}

// ResolvePrefix returns the key prefix: the explicit prefix if set, else the
// prefix of the configured mode
func (c *Config) ResolvePrefix() string {
	if c.Prefix != "" {
		return c.Prefix
	}
	if prefix, ok := modePrefixes[c.Mode]; ok {
		return prefix
	}
	return c.Mode
}

// LegacyKey returns the pre-session history key of the configured mode
func (c *Config) LegacyKey() string {
	return modeLegacyKeys[c.Mode]
}

// StoreOptions converts the configuration into Store options
func (c *Config) StoreOptions() []Option {
	return []Option{
		WithMaxSessions(c.Limits.MaxSessions),
		WithMaxMessages(c.Limits.MaxMessages),
		WithTitleLength(c.Limits.TitleLength),
		WithDefaultTitle(c.DefaultTitle),
		WithTransientTexts(c.TransientTexts...),
	}
}

// OpenBackend opens the configured key/value backend. The returned close
// function releases it.
func (c *Config) OpenBackend(paths StoragePaths) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Storage.Backend {
	case BackendMemory:
		return kv.NewMemory(c.Storage.QuotaBytes), noop, nil
	case BackendFile:
		path := c.storagePath(paths)
		store, err := kv.OpenFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file store %s: %w", path, err)
		}
		LogDebug("Using file store at %s", path)
		return store, noop, nil
	case BackendSQLite:
		path := c.storagePath(paths)
		store, err := kv.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database %s: %w", path, err)
		}
		LogDebug("Using SQLite store at %s", path)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}

func (c *Config) storagePath(paths StoragePaths) string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return paths.PathFor(c.Storage.Backend)
}
