package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"distbuild/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Document is one stored entity: its key within the kind and the raw YAML.
type Document struct {
	Name     string
	FilePath string
	Data     []byte
}

// DocumentStore is the read-only view of a keyed entity store.
type DocumentStore interface {
	LoadAll(kind string) ([]Document, error)
	Contains(kind string, name string) bool
}

// Storage provides keyed YAML storage for configuration entities using a
// single configuration directory.
type Storage struct {
	mu         sync.RWMutex
	configPath string // Optional custom config path - when set, uses this path; otherwise uses default ~/.config/distbuild
}

// NewStorage creates a new Storage instance using the default configuration directory
func NewStorage() *Storage {
	return &Storage{}
}

// NewStorageWithPath creates a new Storage instance with a custom config path
func NewStorageWithPath(configPath string) *Storage {
	return &Storage{
		configPath: configPath,
	}
}

// Path returns the configuration directory the storage reads from.
func (ds *Storage) Path() (string, error) {
	return ds.getConfigDir()
}

// Save stores data for the given entity kind and name
func (ds *Storage) Save(kind string, name string, data []byte) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	targetDir, err := ds.resolveEntityDir(kind)
	if err != nil {
		return fmt.Errorf("failed to resolve directory for kind %s: %w", kind, err)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	filePath := filepath.Join(targetDir, ds.sanitizeFilename(name)+".yaml")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logging.Info("Storage", "Saved %s/%s to %s", kind, name, filePath)
	return nil
}

// SaveYAML marshals v and stores it under kind/name.
func (ds *Storage) SaveYAML(kind, name string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", kind, name, err)
	}
	return ds.Save(kind, name, data)
}

// Load retrieves data for the given entity kind and name
func (ds *Storage) Load(kind string, name string) ([]byte, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	filePath, err := ds.findFile(kind, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	logging.Debug("Storage", "Loaded %s/%s from %s", kind, name, filePath)
	return data, nil
}

// Delete removes the file for the given entity kind and name
func (ds *Storage) Delete(kind string, name string) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	filePath, err := ds.findFile(kind, name)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Info("Storage", "Deleted %s/%s from %s", kind, name, filePath)
	return nil
}

// List returns all available names for the given entity kind, sorted.
func (ds *Storage) List(kind string) ([]string, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	files, err := ds.listFiles(kind)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, filePath := range files {
		names = append(names, nameFromPath(filePath))
	}
	return names, nil
}

// LoadAll reads every document of the given kind, sorted by name. A kind
// without a directory yields no documents.
func (ds *Storage) LoadAll(kind string) ([]Document, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	files, err := ds.listFiles(kind)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, filePath := range files {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
		docs = append(docs, Document{
			Name:     nameFromPath(filePath),
			FilePath: filePath,
			Data:     data,
		})
	}

	logging.Debug("Storage", "Loaded %d %s documents", len(docs), kind)
	return docs, nil
}

// Contains reports whether an entity with the given name exists.
func (ds *Storage) Contains(kind string, name string) bool {
	if kind == "" || name == "" {
		return false
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	_, err := ds.findFile(kind, name)
	return err == nil
}

// LoadAndParseYAML decodes every document of kind into T and runs validator
// on it. Documents that fail to decode or validate are reported in the
// returned collection and skipped; the error return is reserved for failures
// to read the store itself.
func LoadAndParseYAML[T any](ds DocumentStore, kind string, validator func(T) error) ([]T, *ConfigurationErrorCollection, error) {
	docs, err := ds.LoadAll(kind)
	if err != nil {
		return nil, nil, err
	}

	collection := NewConfigurationErrorCollection()
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := yaml.Unmarshal(doc.Data, &item); err != nil {
			collection.AddError(kind, doc.Name, doc.FilePath, ErrorTypeParse, err.Error())
			continue
		}
		if validator != nil {
			if err := validator(item); err != nil {
				collection.AddError(kind, doc.Name, doc.FilePath, ErrorTypeValidation, err.Error())
				continue
			}
		}
		items = append(items, item)
	}

	return items, collection, nil
}

// getConfigDir returns the configuration directory to use
func (ds *Storage) getConfigDir() (string, error) {
	if ds.configPath != "" {
		return ds.configPath, nil
	}

	return GetUserConfigDir()
}

// resolveEntityDir determines the directory holding one kind
func (ds *Storage) resolveEntityDir(kind string) (string, error) {
	configDir, err := ds.getConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, kind), nil
}

// findFile locates the .yaml or .yml file for kind/name.
func (ds *Storage) findFile(kind, name string) (string, error) {
	dir, err := ds.resolveEntityDir(kind)
	if err != nil {
		return "", fmt.Errorf("failed to get configuration directory: %w", err)
	}

	base := ds.sanitizeFilename(name)
	for _, ext := range []string{".yaml", ".yml"} {
		filePath := filepath.Join(dir, base+ext)
		if _, err := os.Stat(filePath); err == nil {
			return filePath, nil
		}
	}
	return "", fmt.Errorf("entity %s/%s not found", kind, name)
}

// listFiles returns the sorted .yaml/.yml paths of one kind.
func (ds *Storage) listFiles(kind string) ([]string, error) {
	dir, err := ds.resolveEntityDir(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration directory: %w", err)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s files: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func nameFromPath(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sanitizeFilename ensures the filename is safe for filesystem operations
func (ds *Storage) sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
	)
	sanitized := replacer.Replace(name)

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "unnamed"
	}

	return sanitized
}
