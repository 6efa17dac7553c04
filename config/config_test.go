package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, "gentsshop", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Env)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, BackendMemory, cfg.Credentials.Backend)
	assert.Equal(t, 6379, cfg.Credentials.Redis.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadFromBytesOverrides(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
api:
  baseurl: https://shop.example.com/
  timeout: 3s
  headers:
    X-Client: cli
retry:
  maxattempts: 5
  initialdelay: 250ms
credentials:
  backend: redis
  redis:
    host: cache.internal
    database: 2
log:
  level: debug
  pretty: true
`))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "cli", cfg.API.Headers["X-Client"])
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, BackendRedis, cfg.Credentials.Backend)
	assert.Equal(t, "cache.internal", cfg.Credentials.Redis.Host)
	assert.Equal(t, 2, cfg.Credentials.Redis.Database)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	assert.True(t, cfg.Exists("credentials.redis.host"))
	assert.Equal(t, "cache.internal", cfg.String("credentials.redis.host"))
	assert.False(t, cfg.Exists("does.not.exist"))
}

func TestLoadFromBytesMalformed(t *testing.T) {
	_, err := LoadFromBytes([]byte("api: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadFromBytesValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{name: "relative_base_url", yaml: "api:\n  baseurl: /api\n", field: "api.baseurl"},
		{name: "zero_timeout", yaml: "api:\n  timeout: 0s\n", field: "api.timeout"},
		{name: "zero_attempts", yaml: "retry:\n  maxattempts: 0\n", field: "retry.maxattempts"},
		{name: "unknown_backend", yaml: "credentials:\n  backend: etcd\n", field: "credentials.backend"},
		{name: "file_without_dir", yaml: "credentials:\n  backend: file\n  file:\n    dir: \"\"\n", field: "credentials.file.dir"},
		{name: "redis_bad_port", yaml: "credentials:\n  backend: redis\n  redis:\n    port: 70000\n", field: "credentials.redis.port"},
		{name: "bad_log_level", yaml: "log:\n  level: chatty\n", field: "log.level"},
		{name: "bad_env", yaml: "app:\n  env: qa\n", field: "app.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  env: staging\napi:\n  baseurl: http://base.local/\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte("api:\n  timeout: 20s\n"), 0o600))

	t.Setenv("API_BASEURL", "http://env.local:10000/")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, EnvStaging, cfg.App.Env)
	assert.Equal(t, "http://env.local:10000/", cfg.API.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileMissingIsSkipped(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gentsshop", cfg.App.Name)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.baseurl", envKey("API_BASEURL"))
	assert.Equal(t, "credentials.redis.host", envKey("CREDENTIALS_REDIS_HOST"))
	assert.Empty(t, envKey("HOME"))
	assert.Empty(t, envKey("APIKEY"))
	assert.Empty(t, envKey("API_TIMEOUT_MS"))
	assert.Empty(t, envKey("API_FOO_BAR"))
	assert.Empty(t, envKey("LOG_LEVEL_OVERRIDE"))
}

func TestLoadFileIgnoresUnrelatedPrefixedEnv(t *testing.T) {
	t.Setenv("API_TIMEOUT_MS", "900000")
	t.Setenv("API_FOO_BAR", "x")
	t.Setenv("LOG_FORMAT_STYLE", "plain")
	t.Setenv("RETRY_MAXATTEMPTS", "5")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.False(t, cfg.Exists("api.foo.bar"))
}

func TestConfigErrorFormatting(t *testing.T) {
	err := NewMissingFieldError("api.baseurl", "API_BASEURL", "api.baseurl")
	assert.Equal(t, "config_missing: api.baseurl required set API_BASEURL env var or add api.baseurl to config.yaml", err.Error())

	inv := NewInvalidFieldError("credentials.backend", "unknown backend", []string{"memory", "file"})
	assert.Equal(t, "config_invalid: credentials.backend unknown backend must be one of: memory, file", inv.Error())

	withDetails := &ConfigError{Category: "invalid", Field: "x", Details: []string{"a", "b"}}
	assert.Equal(t, "config_invalid: x a; b", withDetails.Error())
}

func TestNilConfigAccessors(t *testing.T) {
	var cfg *Config
	assert.Empty(t, cfg.String("api.baseurl"))
	assert.False(t, cfg.Exists("api.baseurl"))
}
