package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the config file.
const EnvPrefix = "SITEHOOK_"

// Defaults applied to unset keys.
const (
	DefaultPython   = "python3"
	DefaultPreset   = "debug"
	DefaultScope    = "site"
	DefaultLogLevel = "info"
)

// Keys lists the settable config keys.
var Keys = []string{"python", "preset", "scope", "log_level"}

type Config struct {
	Python   string `koanf:"python" yaml:"python,omitempty"`
	Preset   string `koanf:"preset" yaml:"preset,omitempty" validate:"omitempty,oneof=debug release"`
	Scope    string `koanf:"scope" yaml:"scope,omitempty" validate:"omitempty,oneof=site user"`
	LogLevel string `koanf:"log_level" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "sitehook", "config.yaml")
}

// Load reads the config file (if present), applies SITEHOOK_* environment
// overrides and validates the result. Unset keys are left empty; use
// WithDefaults to fill them.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Environment variables override file config (SITEHOOK_PYTHON, SITEHOOK_LOG_LEVEL, ...)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// WithDefaults returns a copy of c with unset keys filled in.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Python == "" {
		out.Python = DefaultPython
	}
	if out.Preset == "" {
		out.Preset = DefaultPreset
	}
	if out.Scope == "" {
		out.Scope = DefaultScope
	}
	if out.LogLevel == "" {
		out.LogLevel = DefaultLogLevel
	}
	return &out
}

func Get(path, key string) (string, error) {
	cfg, err := Load(path)
	if err != nil {
		return "", err
	}
	cfg = cfg.WithDefaults()
	switch key {
	case "python":
		return cfg.Python, nil
	case "preset":
		return cfg.Preset, nil
	case "scope":
		return cfg.Scope, nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return "", unknownKey(key)
	}
}

func Set(path, key, value string) error {
	if path == "" {
		path = DefaultPath()
	}
	cfg, err := loadFile(path)
	if err != nil {
		return err
	}
	switch key {
	case "python":
		cfg.Python = value
	case "preset":
		cfg.Preset = value
	case "scope":
		cfg.Scope = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return unknownKey(key)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Save(path, cfg)
}

func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := goyaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadFile reads only the config file, so Set does not persist environment overrides.
func loadFile(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := goyaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func unknownKey(key string) error {
	return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys, ", "))
}
