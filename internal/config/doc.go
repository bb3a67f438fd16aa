// Package config provides configuration management for distbuild.
//
// Configuration is loaded from a single directory. The default is
// ~/.config/distbuild; every command accepts --config-path to point somewhere
// else.
//
// # Configuration Directory
//
//	config.yaml        application settings (see AppConfig)
//	platforms/         one YAML document per Platform
//	tasks/             one YAML document per Task
//	variants/          one YAML document per VariantCategory
//	products/          known products
//	providers/         known build providers (machine groups)
//	packages/          known package names
//	projects/          Project definitions, including their configuration tree
//	templates/         job description templates used by the renderer
//
// # Entity Storage
//
// Storage is the keyed object store the engine reads its reference data
// from. It offers Save/Load/Delete/List per entity kind plus LoadAll and
// Contains, which is the read-only surface the catalog uses to build a
// consistent snapshot.
//
//	storage := config.NewStorageWithPath("/srv/distbuild")
//	docs, err := storage.LoadAll(config.KindPlatforms)
//	if storage.Contains(config.KindProjects, "core") { ... }
//
// # Errors
//
// Decoding problems surface as ConfigurationError values collected in a
// ConfigurationErrorCollection; semantic problems as ValidationErrors with a
// field path per entry.
package config
