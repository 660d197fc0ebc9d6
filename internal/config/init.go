package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/snapshot/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationTemplateHeader = "# snapshot configuration. Lists replace the built-in defaults; an empty list clears them.\n"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

type templateTokens struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

type templateDocument struct {
	Output          string         `yaml:"output"`
	ExcludeDirs     []string       `yaml:"exclude_dirs"`
	ExcludeFiles    []string       `yaml:"exclude_files"`
	MaxFileSize     int64          `yaml:"max_file_size"`
	CaseInsensitive bool           `yaml:"case_insensitive"`
	UseGitignore    bool           `yaml:"use_gitignore"`
	Workers         int            `yaml:"workers"`
	Clipboard       bool           `yaml:"clipboard"`
	Tokens          templateTokens `yaml:"tokens"`
}

// DefaultConfigurationTemplate renders the built-in defaults as YAML.
func DefaultConfigurationTemplate() ([]byte, error) {
	settings := Defaults().Resolve()
	document := templateDocument{
		Output:          settings.OutputFileName,
		ExcludeDirs:     settings.Exclusions.ExcludedDirectories,
		ExcludeFiles:    settings.Exclusions.ExcludedFilePatterns,
		MaxFileSize:     settings.Exclusions.MaxFileSizeBytes,
		CaseInsensitive: settings.Exclusions.CaseInsensitive,
		UseGitignore:    settings.UseGitignore,
		Workers:         settings.Workers,
		Clipboard:       settings.Clipboard,
		Tokens:          templateTokens{Enabled: settings.TokensEnabled, Model: settings.TokenModel},
	}
	encoded, marshalErr := yaml.Marshal(document)
	if marshalErr != nil {
		return nil, fmt.Errorf("render configuration template: %w", marshalErr)
	}
	return append([]byte(configurationTemplateHeader), encoded...), nil
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
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			homeDirectory = resolvedHome
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
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

	template, templateErr := DefaultConfigurationTemplate()
	if templateErr != nil {
		return "", templateErr
	}
	if err := os.WriteFile(destinationPath, template, 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
