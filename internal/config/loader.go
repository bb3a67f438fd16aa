package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"distbuild/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/distbuild"
	configFileName = "config.yaml"
)

// osUserHomeDir is a variable so tests can redirect the home directory.
var osUserHomeDir = os.UserHomeDir

// GetUserConfigDir returns ~/.config/distbuild.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath on top of the defaults.
// A missing file is not an error.
func LoadConfig(configPath string) (AppConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return AppConfig{}, fmt.Errorf("error reading %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return AppConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return AppConfig{}, FormatValidationError("config", configFilePath, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// applyDefaults fills fields an explicit config.yaml left empty.
func applyDefaults(c *AppConfig) {
	d := GetDefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.Identifiers.SourcesMarker == "" {
		c.Identifiers.SourcesMarker = d.Identifiers.SourcesMarker
	}
	if c.Identifiers.ArchiveSuffix == "" {
		c.Identifiers.ArchiveSuffix = d.Identifiers.ArchiveSuffix
	}
	if c.Jobs.NameMaxLength == 0 {
		c.Jobs.NameMaxLength = d.Jobs.NameMaxLength
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = d.Watch.Debounce
	}
}

// Validate checks the enumerated settings.
func (c AppConfig) Validate() error {
	var errs ValidationErrors
	if err := ValidateOneOf("logLevel", c.LogLevel, []string{"debug", "info", "warn", "warning", "error"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateOneOf("logFormat", c.LogFormat, []string{"text", "json"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateOneOf("output", c.Output, []string{"table", "json", "yaml"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateToken("identifiers.sourcesMarker", c.Identifiers.SourcesMarker); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateToken("identifiers.archiveSuffix", c.Identifiers.ArchiveSuffix); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if c.Jobs.NameMaxLength < 16 {
		errs.Add("jobs.nameMaxLength", "must be at least 16", c.Jobs.NameMaxLength)
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
