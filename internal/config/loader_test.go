package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultOnly(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_Override(t *testing.T) {
	dir := t.TempDir()
	content := `logLevel: debug
output: yaml
identifiers:
  sourcesMarker: sources
jobs:
  nameMaxLength: 64
watch:
  debounce: 2s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset fields keep their defaults")
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, "sources", cfg.Identifiers.SourcesMarker)
	assert.Equal(t, DefaultArchiveSuffix, cfg.Identifiers.ArchiveSuffix)
	assert.Equal(t, 64, cfg.Jobs.NameMaxLength)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("logLevel: [oops"), 0644))

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config")
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	content := "output: xml\nidentifiers:\n  sourcesMarker: src.tar\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"output", "identifiers.sourcesMarker"}, verrs.Fields())
}

func TestGetUserConfigDir(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()

	osUserHomeDir = func() (string, error) { return "/home/builder", nil }
	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/builder", ".config/distbuild"), dir)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetUserConfigDir()
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"x86_64", false},
		{"el7", false},
		{"", true},
		{"el-7", true},
		{"el.7", true},
		{"el 7", true},
	}

	for _, tc := range tests {
		err := ValidateToken("arch", tc.value)
		if tc.wantErr {
			assert.Error(t, err, tc.value)
		} else {
			assert.NoError(t, err, tc.value)
		}
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"1.0", false},
		{"2024.10.1", false},
		{"7", false},
		{"", true},
		{"1.0-rc1", true},
		{"1 0", true},
	}

	for _, tc := range tests {
		err := ValidateVersion("version", tc.value)
		if tc.wantErr {
			assert.Error(t, err, tc.value)
		} else {
			assert.NoError(t, err, tc.value)
		}
	}
}

func TestValidateEntityName(t *testing.T) {
	assert.NoError(t, ValidateEntityName("java-beta", "package"))
	assert.Error(t, ValidateEntityName("", "package"))
	assert.Error(t, ValidateEntityName("has space", "package"))
	assert.Error(t, ValidateEntityName("a/b", "package"))
}
