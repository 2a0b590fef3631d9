package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// Provider/model defaults
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`

	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Per-task provider/model overrides, keyed by task name
	// ("ask", "web-search", "repo-analysis", ...).
	Tasks map[string]TaskConfig `yaml:"tasks,omitempty"`

	// Default flags
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// TaskConfig overrides provider and/or model for a single task category.
type TaskConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// DefaultsConfig holds default flag values. Stream is a pointer because
// streaming defaults to on: the file needs to distinguish "turn it off"
// from "not mentioned".
type DefaultsConfig struct {
	Stream *bool `yaml:"stream,omitempty"`
	Render bool  `yaml:"render,omitempty"`
	Usage  bool  `yaml:"usage,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", ".relay", ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "relay", ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "relay", ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from the first config file
// found on the search path. A missing file is not an error.
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}
	return &FileConfig{}, nil
}

func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config.
// File config has lower priority than environment variables and CLI flags.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.Provider == "" && fc.Provider != "" {
		c.Provider = fc.Provider
	}
	if c.Model == "" && fc.Model != "" {
		c.Model = fc.Model
	}
	if c.MaxTokens <= 0 && fc.MaxTokens > 0 {
		c.MaxTokens = fc.MaxTokens
	}

	if len(fc.Tasks) > 0 {
		if c.TaskOverrides == nil {
			c.TaskOverrides = make(map[string]TaskConfig)
		}
		for task, tc := range fc.Tasks {
			if _, set := c.TaskOverrides[task]; !set {
				c.TaskOverrides[task] = tc
			}
		}
	}

	if fc.Defaults != nil {
		// An explicit --stream/--no-stream flag wins over the file.
		if fc.Defaults.Stream != nil && !c.StreamSet {
			c.Stream = *fc.Defaults.Stream
		}
		// The remaining booleans can't distinguish "unset" from "false",
		// so file defaults only ever turn them on.
		if fc.Defaults.Render && !c.Render {
			c.Render = true
		}
		if fc.Defaults.Usage && !c.Usage {
			c.Usage = true
		}
	}
}
