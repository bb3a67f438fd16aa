package config

import "time"

// AppConfig is the top-level structure of config.yaml.
type AppConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
	// LogFormat is text or json.
	LogFormat string `yaml:"logFormat,omitempty"`
	// Output is the default CLI output format (table, json, yaml).
	Output string `yaml:"output,omitempty"`

	Identifiers IdentifierConfig `yaml:"identifiers,omitempty"`
	Jobs        JobConfig        `yaml:"jobs,omitempty"`
	Watch       WatchConfig      `yaml:"watch,omitempty"`
}

// IdentifierConfig holds the archive identifier grammar settings.
type IdentifierConfig struct {
	// SourcesMarker is the platform token of source archives.
	SourcesMarker string `yaml:"sourcesMarker,omitempty"`
	// ArchiveSuffix is the suffix used when printing archive identifiers.
	ArchiveSuffix string `yaml:"archiveSuffix,omitempty"`
}

// JobConfig holds job naming settings.
type JobConfig struct {
	// NameMaxLength is the longest job name used verbatim as a file name;
	// longer names are replaced by their hash.
	NameMaxLength int `yaml:"nameMaxLength,omitempty"`
}

// WatchConfig configures `generate --watch`.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Entity kinds understood by Storage. Each kind is a subdirectory of the
// configuration directory.
const (
	KindPlatforms = "platforms"
	KindTasks     = "tasks"
	KindVariants  = "variants"
	KindProducts  = "products"
	KindProviders = "providers"
	KindPackages  = "packages"
	KindProjects  = "projects"
	KindTemplates = "templates"
)

// Kinds lists every entity kind in load order.
var Kinds = []string{
	KindPlatforms,
	KindTasks,
	KindVariants,
	KindProducts,
	KindProviders,
	KindPackages,
	KindProjects,
	KindTemplates,
}
