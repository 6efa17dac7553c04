// Package config loads client configuration from defaults, YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// DefaultFile is read from the working directory by Load.
const DefaultFile = "config.yaml"

// DefaultBaseURL is used when neither a file nor API_BASEURL sets one.
const DefaultBaseURL = "http://192.168.1.56:10000/"

// envKeys lists the keys the environment may override. Other variables are
// ignored, even when they share a section prefix such as API_.
var envKeys = map[string]struct{}{
	"app.name":                   {},
	"app.env":                    {},
	"api.baseurl":                {},
	"api.timeout":                {},
	"retry.maxattempts":          {},
	"retry.initialdelay":         {},
	"credentials.backend":        {},
	"credentials.file.dir":       {},
	"credentials.redis.host":     {},
	"credentials.redis.port":     {},
	"credentials.redis.password": {},
	"credentials.redis.database": {},
	"credentials.redis.prefix":   {},
	"log.level":                  {},
	"log.pretty":                 {},
}

// Load loads configuration from DefaultFile. See LoadFile.
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. path, then its environment-specific sibling (config.<env>.yaml)
// 3. Default values (lowest priority)
//
// Missing files are skipped.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := loadOptionalFile(k, path); err != nil {
			return nil, err
		}
	}

	// Env is resolved before the env-specific file so APP_ENV can pick it.
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	if env := k.String("app.env"); env != "" && path != "" {
		ext := filepath.Ext(path)
		envFile := strings.TrimSuffix(path, ext) + "." + env + ext
		if err := loadOptionalFile(k, envFile); err != nil {
			return nil, err
		}
		// Environment keeps the highest priority.
		if err := loadEnv(k); err != nil {
			return nil, err
		}
	}

	return finish(k)
}

// LoadFromBytes loads YAML content layered over the defaults. Environment
// variables are not consulted.
func LoadFromBytes(content []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	err := k.Load(file.Provider(path), yaml.Parser())
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func loadEnv(k *koanf.Koanf) error {
	if err := k.Load(envprovider.Provider("", ".", envKey), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// envKey converts UPPER_CASE to lower.case for koanf and drops variables
// that do not name a known key. Returning "" makes the provider skip it.
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(s), "_", ".")
	if _, ok := envKeys[key]; !ok {
		return ""
	}
	return key
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name": "gentsshop",
		"app.env":  EnvDevelopment,

		"api.baseurl": DefaultBaseURL,
		"api.timeout": "10s",

		"retry.maxattempts":  3,
		"retry.initialdelay": "1s",

		"credentials.backend":      BackendMemory,
		"credentials.file.dir":     ".gentsshop",
		"credentials.redis.host":   "localhost",
		"credentials.redis.port":   6379,
		"credentials.redis.prefix": "gentsshop:",

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// String returns a raw configuration value by dotted key. Useful for keys
// not modeled by Config.
func (c *Config) String(key string) string {
	if c == nil || c.k == nil {
		return ""
	}
	return c.k.String(key)
}

// Exists reports whether key was set by any source.
func (c *Config) Exists(key string) bool {
	if c == nil || c.k == nil {
		return false
	}
	return c.k.Exists(key)
}
