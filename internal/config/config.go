package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/tscombine/internal/fileutil"
)

// FileName is the config file looked up in the scan root when --config is not given.
const FileName = ".tscombine.yaml"

// DefaultOutput is the output file name used when none is configured.
const DefaultOutput = "combined.ts"

// Config represents tscombine configuration options
type Config struct {
	// Output is the output file name, resolved against the working directory
	Output string `yaml:"output"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Extensions is the list of file name suffixes to collect
	Extensions []string `yaml:"extensions"`

	// SkipDirs is the list of directory names pruned from traversal
	SkipDirs []string `yaml:"skip_dirs"`
}

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Output:     DefaultOutput,
		LogLevel:   "info",
		Extensions: fileutil.DefaultSuffixes(),
		SkipDirs:   fileutil.DefaultExcludeDirs(),
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers distinguish an absent key from an explicit empty value.
	type yamlConfig struct {
		Output     *string  `yaml:"output"`
		LogLevel   *string  `yaml:"log_level"`
		Extensions []string `yaml:"extensions"`
		SkipDirs   []string `yaml:"skip_dirs"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Output != nil {
		cfg.Output = *yamlCfg.Output
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*yamlCfg.LogLevel))
	}
	if _, exists := rawMap["extensions"]; exists {
		cfg.Extensions = yamlCfg.Extensions
	}
	if _, exists := rawMap["skip_dirs"]; exists {
		cfg.SkipDirs = yamlCfg.SkipDirs
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .tscombine.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(output *string, logLevel *string) {
	if output != nil {
		c.Output = *output
	}
	if logLevel != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*logLevel))
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output cannot be empty")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one suffix")
	}
	for _, ext := range c.Extensions {
		if ext == "" {
			return fmt.Errorf("extensions cannot contain an empty suffix")
		}
	}

	for _, dir := range c.SkipDirs {
		if dir == "" || dir == "." || dir == ".." {
			return fmt.Errorf("invalid skip_dirs entry %q", dir)
		}
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("skip_dirs entry %q must be a directory name, not a path", dir)
		}
	}

	return nil
}
