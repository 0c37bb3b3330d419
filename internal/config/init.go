package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/temirov/rcpack/internal/content"
	"github.com/temirov/rcpack/internal/tokenizer"
	"github.com/temirov/rcpack/internal/types"
	"github.com/temirov/rcpack/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// Defaults returns the built-in configuration every other source is layered on.
func Defaults() ApplicationConfiguration {
	recent := false
	maxFileBytes := content.DefaultMaxFileBytes
	tokens := false
	copyToClipboard := false
	verbose := false
	return ApplicationConfiguration{
		Format:       types.FormatMarkdown,
		Recent:       &recent,
		Include:      []string{},
		Exclude:      []string{},
		MaxFileBytes: &maxFileBytes,
		Tokens:       &tokens,
		Model:        tokenizer.DefaultModel,
		Copy:         &copyToClipboard,
		Verbose:      &verbose,
	}
}

// RenderDefaults serializes the built-in configuration as TOML.
func RenderDefaults() ([]byte, error) {
	encoded, err := toml.Marshal(Defaults())
	if err != nil {
		return nil, fmt.Errorf("encode default configuration: %w", err)
	}
	return encoded, nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		globalPath, err := GlobalConfigurationPath()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Dir(globalPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = globalPath
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	encoded, err := RenderDefaults()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(destinationPath, encoded, 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
