package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
)

// DefaultEncoding is the encoding used when none is configured
const DefaultEncoding = "utf8"

// Config contains the file-gateway configuration
type Config struct {
	Files FilesConfig `yaml:"files"`
}

// FilesConfig contains the file-related configuration surface
type FilesConfig struct {
	// Encoding is the default text encoding for reading and writing files
	Encoding string `yaml:"encoding"`

	// WatcherExclude maps glob patterns to an enabled flag; enabled patterns
	// are excluded from file watching
	WatcherExclude map[string]bool `yaml:"watcherExclude"`

	// VerboseLogging enables debug-level logging
	VerboseLogging bool `yaml:"verboseLogging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Files.Encoding == "" {
		config.Files.Encoding = DefaultEncoding
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	for pattern := range config.Files.WatcherExclude {
		if pattern == "" {
			return fmt.Errorf("empty watcher exclude pattern")
		}
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return filepath.Join(common.SettingsHome(), "config.yaml")
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			Encoding: DefaultEncoding,
			WatcherExclude: map[string]bool{
				"**/.git/**":         true,
				"**/node_modules/**": true,
				"**/.hg/store/**":    true,
			},
			VerboseLogging: false,
		},
	}
}

// WatcherExcludePatterns returns the enabled watcher-exclude pattern keys in
// a stable order
func (c *Config) WatcherExcludePatterns() []string {
	patterns := make([]string, 0, len(c.Files.WatcherExclude))
	for pattern, enabled := range c.Files.WatcherExclude {
		if enabled {
			patterns = append(patterns, pattern)
		}
	}
	sort.Strings(patterns)
	return patterns
}

// FileConfiguration converts the config into the façade's consumption shape
func (c *Config) FileConfiguration() types.FileConfiguration {
	encoding := c.Files.Encoding
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return types.FileConfiguration{
		Encoding:       encoding,
		WatcherExclude: c.WatcherExcludePatterns(),
		VerboseLogging: c.Files.VerboseLogging,
	}
}
