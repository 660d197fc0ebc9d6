// Package config loads snapshot configuration from global and local YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	excludeDirsKey  = "exclude_dirs"
	excludeFilesKey = "exclude_files"
)

// ErrConfigurationNotFound is returned when an explicitly requested file is missing.
var ErrConfigurationNotFound = errors.New("configuration file not found")

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
	// WithoutDefaultExclusions starts from empty directory and file lists so only
	// configured or flagged exclusions apply.
	WithoutDefaultExclusions bool
}

// ApplicationConfiguration is one configuration layer. Unset fields fall through
// to lower layers when merged.
type ApplicationConfiguration struct {
	Output          string             `mapstructure:"output"`
	ExcludeDirs     []string           `mapstructure:"exclude_dirs"`
	ExcludeFiles    []string           `mapstructure:"exclude_files"`
	MaxFileSize     *int64             `mapstructure:"max_file_size"`
	CaseInsensitive *bool              `mapstructure:"case_insensitive"`
	UseGitignore    *bool              `mapstructure:"use_gitignore"`
	Workers         *int               `mapstructure:"workers"`
	Clipboard       *bool              `mapstructure:"clipboard"`
	Tokens          TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// Settings is a fully resolved configuration consumed by the create command.
type Settings struct {
	OutputFileName string
	Exclusions     types.ExclusionConfig
	UseGitignore   bool
	Workers        int
	Clipboard      bool
	TokensEnabled  bool
	TokenModel     string
}

// LoadApplicationConfiguration layers defaults, the global file and the local file.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := Defaults()
	if options.WithoutDefaultExclusions {
		merged.ExcludeDirs = []string{}
		merged.ExcludeFiles = []string{}
	}

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, required := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, required)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.ExcludeDirs = utils.DeduplicatePatterns(merged.ExcludeDirs)
	merged.ExcludeFiles = utils.DeduplicatePatterns(merged.ExcludeFiles)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), false
}

func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			if required {
				return ApplicationConfiguration{}, fmt.Errorf("%w: %s", ErrConfigurationNotFound, path)
			}
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	config.ExcludeDirs = presentList(reader, excludeDirsKey, config.ExcludeDirs)
	config.ExcludeFiles = presentList(reader, excludeFilesKey, config.ExcludeFiles)
	return config, nil
}

// presentList keeps nil for absent keys and a non-nil slice for keys that are
// present, so that an explicit empty list replaces the lower layer.
func presentList(reader *viper.Viper, key string, values []string) []string {
	if !reader.IsSet(key) {
		return nil
	}
	if values == nil {
		return []string{}
	}
	return values
}

// Merge overlays override onto the receiver returning the combined configuration.
// A non-nil list in override replaces the list of the receiver, even when empty.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.ExcludeDirs != nil {
		result.ExcludeDirs = utils.DeduplicatePatterns(override.ExcludeDirs)
	}
	if override.ExcludeFiles != nil {
		result.ExcludeFiles = utils.DeduplicatePatterns(override.ExcludeFiles)
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.CaseInsensitive != nil {
		result.CaseInsensitive = cloneBool(override.CaseInsensitive)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Resolve converts the layered configuration into concrete settings.
func (config ApplicationConfiguration) Resolve() Settings {
	settings := Settings{
		OutputFileName: config.Output,
		Exclusions: types.ExclusionConfig{
			ExcludedDirectories:  append([]string{}, config.ExcludeDirs...),
			ExcludedFilePatterns: append([]string{}, config.ExcludeFiles...),
			MaxFileSizeBytes:     valueOrInt64(config.MaxFileSize, DefaultMaxFileSizeBytes),
			CaseInsensitive:      valueOrBool(config.CaseInsensitive, true),
		},
		UseGitignore:  valueOrBool(config.UseGitignore, false),
		Workers:       valueOrInt(config.Workers, DefaultWorkers),
		Clipboard:     valueOrBool(config.Clipboard, false),
		TokensEnabled: valueOrBool(config.Tokens.Enabled, false),
		TokenModel:    config.Tokens.Model,
	}
	if settings.OutputFileName == "" {
		settings.OutputFileName = DefaultOutputFileName
	}
	if settings.Workers < 1 {
		settings.Workers = DefaultWorkers
	}
	return settings
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

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func valueOrBool(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func valueOrInt(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func valueOrInt64(value *int64, fallback int64) int64 {
	if value == nil {
		return fallback
	}
	return *value
}
