package config

import "time"

const (
	// DefaultSourcesMarker marks source archives in identifiers.
	DefaultSourcesMarker = "src"

	// DefaultArchiveSuffix is appended to generated archive identifiers.
	DefaultArchiveSuffix = "tar"

	// DefaultNameMaxLength keeps job names below common path component limits.
	DefaultNameMaxLength = 128

	// DefaultWatchDebounce groups bursts of file writes into one regeneration.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// GetDefaultConfig returns the configuration used when config.yaml is absent
// or leaves fields empty.
func GetDefaultConfig() AppConfig {
	return AppConfig{
		LogLevel:  "info",
		LogFormat: "text",
		Output:    "table",
		Identifiers: IdentifierConfig{
			SourcesMarker: DefaultSourcesMarker,
			ArchiveSuffix: DefaultArchiveSuffix,
		},
		Jobs: JobConfig{
			NameMaxLength: DefaultNameMaxLength,
		},
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
		},
	}
}
