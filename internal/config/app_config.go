// Package config loads rcpack settings from TOML files and writes default ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/rcpack/internal/utils"
)

const (
	configurationTypeTOML = "toml"

	workingDirectoryErrorFormat        = "determine working directory: %w"
	resolveConfigurationErrorFormat    = "resolve configuration path %s: %w"
	statConfigurationErrorFormat       = "stat configuration %s: %w"
	configurationIsDirectoryFormat     = "configuration path %s is a directory"
	parseConfigurationErrorFormat      = "failed to parse %s as TOML: %w"
	decodeConfigurationErrorFormat     = "decode configuration from %s: %w"
	explicitConfigurationMissingFormat = "configuration file %s does not exist: %w"
)

// ErrConfigurationMissing reports an explicitly requested file that does not exist.
var ErrConfigurationMissing = errors.New("configuration file missing")

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// SkipGlobal disables the per-user configuration file.
	SkipGlobal bool
}

// ApplicationConfiguration holds every recognized key. Unset values stay nil
// or empty so that later sources can be layered on top.
type ApplicationConfiguration struct {
	Path         string   `mapstructure:"path" toml:"path,omitempty"`
	Output       string   `mapstructure:"output" toml:"output,omitempty"`
	Format       string   `mapstructure:"format" toml:"format"`
	Recent       *bool    `mapstructure:"recent" toml:"recent"`
	Include      []string `mapstructure:"include" toml:"include"`
	Exclude      []string `mapstructure:"exclude" toml:"exclude"`
	MaxFileBytes *int     `mapstructure:"max_file_bytes" toml:"max_file_bytes"`
	Tokens       *bool    `mapstructure:"tokens" toml:"tokens"`
	Model        string   `mapstructure:"model" toml:"model"`
	Copy         *bool    `mapstructure:"copy" toml:"copy"`
	Verbose      *bool    `mapstructure:"verbose" toml:"verbose"`
}

// LoadApplicationConfiguration loads the global file and then the local (or
// explicit) file, the latter taking precedence. Missing files are ignored;
// malformed files are errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if !options.SkipGlobal {
		if globalPath, err := GlobalConfigurationPath(); err == nil {
			globalConfig, loadErr := loadConfigurationFromPath(globalPath)
			if loadErr != nil {
				return ApplicationConfiguration{}, loadErr
			}
			merged = merged.Merge(globalConfig)
		}
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, fmt.Errorf(explicitConfigurationMissingFormat, localPath, ErrConfigurationMissing)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Include = utils.DeduplicatePatterns(merged.Include)
	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)

	return merged, nil
}

// GlobalConfigurationPath returns the per-user configuration file location.
func GlobalConfigurationPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if homeDirectory == "" {
		return "", errors.New("empty home directory")
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(resolveConfigurationErrorFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(statConfigurationErrorFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(configurationIsDirectoryFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	// An explicit --config path may lack a .toml extension for viper to infer from.
	reader.SetConfigType(configurationTypeTOML)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(parseConfigurationErrorFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(decodeConfigurationErrorFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Path != "" {
		result.Path = override.Path
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Recent != nil {
		result.Recent = cloneBool(override.Recent)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.MaxFileBytes != nil {
		result.MaxFileBytes = cloneInt(override.MaxFileBytes)
	}
	if override.Tokens != nil {
		result.Tokens = cloneBool(override.Tokens)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.Verbose != nil {
		result.Verbose = cloneBool(override.Verbose)
	}
	return result
}

// BoolValue dereferences value or returns fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// IntValue dereferences value or returns fallback when it is unset.
func IntValue(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
