package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the client configuration. The embedded koanf instance
// keeps access to keys that are not modeled by the struct.
type Config struct {
	App         AppConfig         `koanf:"app" json:"app" yaml:"app" mapstructure:"app"`
	API         APIConfig         `koanf:"api" json:"api" yaml:"api" mapstructure:"api"`
	Retry       RetryConfig       `koanf:"retry" json:"retry" yaml:"retry" mapstructure:"retry"`
	Credentials CredentialsConfig `koanf:"credentials" json:"credentials" yaml:"credentials" mapstructure:"credentials"`
	Log         LogConfig         `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`

	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name string `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Env  string `koanf:"env" json:"env" yaml:"env" mapstructure:"env"`
}

// APIConfig describes the remote commerce backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:10000/
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" mapstructure:"baseurl"`
	// Timeout bounds each request attempt. Default: 10s.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Headers are sent with every request.
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
}

// RetryConfig holds the backoff policy applied to idempotent reads.
type RetryConfig struct {
	MaxAttempts  int           `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" mapstructure:"maxattempts"`
	InitialDelay time.Duration `koanf:"initialdelay" json:"initialdelay" yaml:"initialdelay" mapstructure:"initialdelay"`
}

// CredentialsConfig selects where the auth token and cached profile live.
type CredentialsConfig struct {
	Backend string                 `koanf:"backend" json:"backend" yaml:"backend" mapstructure:"backend"`
	File    FileCredentialsConfig  `koanf:"file" json:"file" yaml:"file" mapstructure:"file"`
	Redis   RedisCredentialsConfig `koanf:"redis" json:"redis" yaml:"redis" mapstructure:"redis"`
}

// FileCredentialsConfig holds settings for the file backend.
type FileCredentialsConfig struct {
	Dir string `koanf:"dir" json:"dir" yaml:"dir" mapstructure:"dir"`
}

// RedisCredentialsConfig holds settings for the redis backend.
type RedisCredentialsConfig struct {
	Host     string `koanf:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `koanf:"port" json:"port" yaml:"port" mapstructure:"port"`
	Password string `koanf:"password" json:"-" yaml:"-" mapstructure:"password"`
	Database int    `koanf:"database" json:"database" yaml:"database" mapstructure:"database"`
	Prefix   string `koanf:"prefix" json:"prefix" yaml:"prefix" mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" mapstructure:"level"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
}

// Credential backend names
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)
