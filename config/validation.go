package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	validEnvs      = []string{EnvDevelopment, EnvStaging, EnvProduction}
	validBackends  = []string{BackendMemory, BackendFile, BackendRedis}
	validLogLevels = []string{"trace", "debug", "info", "warn", "error", "disabled"}
)

// Validate checks every section and returns the first *ConfigError found.
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return err
	}
	if err := validateAPI(&cfg.API); err != nil {
		return err
	}
	if err := validateRetry(&cfg.Retry); err != nil {
		return err
	}
	if err := validateCredentials(&cfg.Credentials); err != nil {
		return err
	}
	return validateLog(&cfg.Log)
}

func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return NewMissingFieldError("app.name", "APP_NAME", "app.name")
	}
	if !slices.Contains(validEnvs, cfg.Env) {
		return NewInvalidFieldError("app.env", fmt.Sprintf("unknown environment %q", cfg.Env), validEnvs)
	}
	return nil
}

func validateAPI(cfg *APIConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return NewMissingFieldError("api.baseurl", "API_BASEURL", "api.baseurl")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return NewInvalidFieldError("api.baseurl", fmt.Sprintf("%q is not an absolute http(s) url", cfg.BaseURL), nil)
	}
	if cfg.Timeout <= 0 {
		return NewInvalidFieldError("api.timeout", "must be positive", nil)
	}
	return nil
}

func validateRetry(cfg *RetryConfig) error {
	if cfg.MaxAttempts < 1 {
		return NewInvalidFieldError("retry.maxattempts", fmt.Sprintf("must be at least 1, got %d", cfg.MaxAttempts), nil)
	}
	if cfg.InitialDelay < 0 {
		return NewInvalidFieldError("retry.initialdelay", "must not be negative", nil)
	}
	return nil
}

func validateCredentials(cfg *CredentialsConfig) error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendFile:
		if strings.TrimSpace(cfg.File.Dir) == "" {
			return NewMissingFieldError("credentials.file.dir", "CREDENTIALS_FILE_DIR", "credentials.file.dir")
		}
		return nil
	case BackendRedis:
		if cfg.Redis.Host == "" {
			return NewMissingFieldError("credentials.redis.host", "CREDENTIALS_REDIS_HOST", "credentials.redis.host")
		}
		if cfg.Redis.Port <= 0 || cfg.Redis.Port > 65535 {
			return NewInvalidFieldError("credentials.redis.port", fmt.Sprintf("invalid port %d (must be 1-65535)", cfg.Redis.Port), nil)
		}
		if cfg.Redis.Database < 0 {
			return NewInvalidFieldError("credentials.redis.database", "must not be negative", nil)
		}
		return nil
	default:
		return NewInvalidFieldError("credentials.backend", fmt.Sprintf("unknown backend %q", cfg.Backend), validBackends)
	}
}

func validateLog(cfg *LogConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(cfg.Level)) {
		return NewInvalidFieldError("log.level", fmt.Sprintf("unknown level %q", cfg.Level), validLogLevels)
	}
	return nil
}
