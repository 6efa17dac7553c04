package config

import (
	"fmt"
	"strings"
)

// Error categories reported by Validate.
const (
	CategoryMissing = "missing"
	CategoryInvalid = "invalid"
)

// ConfigError names the offending key and says how to fix it, e.g.
// "config_missing: api.baseurl required set API_BASEURL env var or add
// api.baseurl to config.yaml".
//
//nolint:revive // config.ConfigError reads better at call sites than config.Error
type ConfigError struct {
	Category string
	Field    string // dotted key, such as "credentials.redis.host"
	Message  string
	Action   string
	Details  []string
}

func (e *ConfigError) Error() string {
	pieces := make([]string, 0, 5)
	if e.Category != "" {
		pieces = append(pieces, "config_"+e.Category+":")
	}
	for _, p := range []string{e.Field, e.Message, e.Action, strings.Join(e.Details, "; ")} {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return strings.Join(pieces, " ")
}

// NewMissingFieldError reports a required key that no source set.
func NewMissingFieldError(field, envVar, yamlPath string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to config.yaml", envVar, yamlPath),
	}
}

// NewInvalidFieldError reports a key whose value cannot be used. options,
// when given, lists the accepted values.
func NewInvalidFieldError(field, message string, options []string) *ConfigError {
	e := &ConfigError{Category: CategoryInvalid, Field: field, Message: message}
	if len(options) > 0 {
		e.Action = "must be one of: " + strings.Join(options, ", ")
	}
	return e
}
