// Package config holds the runtime configuration for the CLI, merged from
// (highest priority first) command-line flags, environment variables, and
// the YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/phamducminh/relay-cli/internal/constants"
	"github.com/phamducminh/relay-cli/internal/provider"
)

// Environment variable names
const (
	// Provider/model selection
	EnvProvider = "RELAY_PROVIDER"
	EnvModel    = "RELAY_MODEL"

	// Logging
	EnvLogLevel = "RELAY_LOG_LEVEL"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultSystemMessage = constants.DefaultSystemMessage
	DefaultMaxTokens     = constants.DefaultMaxTokens
)

// Errors
var (
	ErrNoAvailableKeys = errors.New("all API keys exhausted")
)

// RotatableErrorCodes are HTTP status codes that should trigger key rotation.
var RotatableErrorCodes = []int{401, 403, 429}

// KeyRotator manages a pool of API keys with rotation support. A credential
// environment variable may hold several comma-separated keys; the rotator
// advances to the next one when the current key is rejected.
type KeyRotator struct {
	keys       []string
	currentIdx int
}

// NewKeyRotator creates a KeyRotator from an environment variable value
// holding comma-separated keys.
func NewKeyRotator(envVar string) *KeyRotator {
	return NewKeyRotatorFromValue(os.Getenv(envVar))
}

// NewKeyRotatorFromValue creates a KeyRotator from a raw comma-separated
// value, trimming whitespace and dropping empty entries.
func NewKeyRotatorFromValue(value string) *KeyRotator {
	var keys []string
	for _, key := range strings.Split(value, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return &KeyRotator{keys: keys}
}

// HasKeys returns true if there are any keys configured
func (kr *KeyRotator) HasKeys() bool {
	return len(kr.keys) > 0
}

// KeyCount returns the total number of keys
func (kr *KeyRotator) KeyCount() int {
	return len(kr.keys)
}

// CurrentKey returns the current active API key, or "" when none remain.
func (kr *KeyRotator) CurrentKey() string {
	if kr.currentIdx >= len(kr.keys) {
		return ""
	}
	return kr.keys[kr.currentIdx]
}

// Rotate moves to the next available API key
func (kr *KeyRotator) Rotate() (string, error) {
	if kr.currentIdx+1 >= len(kr.keys) {
		return "", ErrNoAvailableKeys
	}
	kr.currentIdx++
	return kr.keys[kr.currentIdx], nil
}

// ShouldRotateKey checks if the status code indicates we should try another key
func ShouldRotateKey(statusCode int) bool {
	for _, code := range RotatableErrorCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// Config holds the application configuration
type Config struct {
	// Provider/model overrides. Empty means "let the fallback selector
	// choose" and "use the provider's default model" respectively.
	Provider string
	Model    string

	MaxTokens int

	// Per-task overrides from the config file, consulted by commands
	// before they invoke the fallback selector.
	TaskOverrides map[string]TaskConfig

	// Flags
	Stream      bool
	Render      bool
	Usage       bool
	Verbose     bool
	Interactive bool

	// StreamSet records that a stream flag was given explicitly, so the
	// config file's defaults.stream no longer applies.
	StreamSet bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		MaxTokens:     DefaultMaxTokens,
		Stream:        true,
		TaskOverrides: make(map[string]TaskConfig),
	}
}

// Validate merges the config file and environment into the Config and
// checks that any explicit provider override names a known provider.
func (c *Config) Validate() error {
	// Config file first (lowest priority). Load errors are ignored so a
	// malformed optional file never blocks the CLI; env vars and flags
	// still apply.
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}

	if c.Provider == "" {
		c.Provider = os.Getenv(EnvProvider)
	}
	if c.Model == "" {
		c.Model = os.Getenv(EnvModel)
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}

	if c.Provider != "" {
		if _, err := provider.Parse(c.Provider); err != nil {
			return fmt.Errorf("invalid provider %q: valid providers are %s",
				c.Provider, strings.Join(providerNames(), ", "))
		}
	}
	return nil
}

// TaskOverride returns the configured provider/model override for a task,
// if any. The zero TaskConfig means "no override".
func (c *Config) TaskOverride(task string) TaskConfig {
	return c.TaskOverrides[task]
}

// KeysFor builds a key rotator for a provider's credential.
func (c *Config) KeysFor(p provider.Provider) (*KeyRotator, error) {
	envKey, err := provider.EnvKey(p)
	if err != nil {
		return nil, err
	}
	return NewKeyRotator(envKey), nil
}

func providerNames() []string {
	all := provider.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = string(p)
	}
	return names
}
