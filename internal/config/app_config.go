package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/sanity/internal/templates"
	"github.com/temirov/sanity/internal/utils"
)

const (
	// MatchGlob interprets wildcard patterns with glob semantics.
	MatchGlob = "glob"
	// MatchExact compares every exclusion pattern by string equality.
	MatchExact = "exact"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults read from configuration files.
// Unset keys keep their zero value so callers can tell them apart from explicit values.
type ApplicationConfiguration struct {
	Output       string                  `mapstructure:"output"`
	Mode         string                  `mapstructure:"mode"`
	Format       string                  `mapstructure:"format"`
	Match        string                  `mapstructure:"match"`
	ExcludeDirs  []string                `mapstructure:"exclude_dirs"`
	ExcludeFiles []string                `mapstructure:"exclude_files"`
	Templates    []TemplateConfiguration `mapstructure:"templates"`
	Color        *bool                   `mapstructure:"color"`
	Clipboard    *bool                   `mapstructure:"clipboard"`
	Tokens       TokenConfiguration      `mapstructure:"tokens"`
}

// TemplateConfiguration declares a user-defined exclusion template. Templates are a list
// because viper folds map keys to lower case and template names are case sensitive.
type TemplateConfiguration struct {
	Name         string   `mapstructure:"name"`
	ExcludeDirs  []string `mapstructure:"exclude_dirs"`
	ExcludeFiles []string `mapstructure:"exclude_files"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		if options.ExplicitFilePath != "" {
			if _, statErr := os.Stat(localPath); statErr != nil {
				return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
			}
		}
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	if validateErr := merged.validate(); validateErr != nil {
		return ApplicationConfiguration{}, validateErr
	}
	merged.ExcludeDirs = utils.DeduplicatePatterns(merged.ExcludeDirs)
	merged.ExcludeFiles = utils.DeduplicatePatterns(merged.ExcludeFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
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
	return config, nil
}

func (config ApplicationConfiguration) validate() error {
	switch strings.ToLower(config.Match) {
	case "", MatchGlob, MatchExact:
	default:
		return fmt.Errorf("unsupported match mode %q (expected %s or %s)", config.Match, MatchGlob, MatchExact)
	}
	for _, template := range config.Templates {
		if strings.TrimSpace(template.Name) == "" {
			return fmt.Errorf("template entry without a name")
		}
	}
	return nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Lists are replaced, templates are merged by name.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Match != "" {
		result.Match = override.Match
	}
	if len(override.ExcludeDirs) > 0 {
		result.ExcludeDirs = append([]string{}, override.ExcludeDirs...)
	}
	if len(override.ExcludeFiles) > 0 {
		result.ExcludeFiles = append([]string{}, override.ExcludeFiles...)
	}
	result.Templates = mergeTemplates(config.Templates, override.Templates)
	if override.Color != nil {
		result.Color = cloneBool(override.Color)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

// ExactMatch reports whether exclusion patterns are compared verbatim.
func (config ApplicationConfiguration) ExactMatch() bool {
	return strings.EqualFold(config.Match, MatchExact)
}

// UserTemplates converts the configured templates for the template registry.
func (config ApplicationConfiguration) UserTemplates() []templates.Template {
	result := make([]templates.Template, 0, len(config.Templates))
	for _, template := range config.Templates {
		result = append(result, templates.Template{
			Name:         strings.TrimSpace(template.Name),
			ExcludeDirs:  append([]string{}, template.ExcludeDirs...),
			ExcludeFiles: append([]string{}, template.ExcludeFiles...),
		})
	}
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

func mergeTemplates(base []TemplateConfiguration, override []TemplateConfiguration) []TemplateConfiguration {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	result := append([]TemplateConfiguration{}, base...)
	for _, template := range override {
		replaced := false
		for index := range result {
			if result[index].Name == template.Name {
				result[index] = template
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, template)
		}
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
