package config

import (
	"fmt"
	"strings"
)

// Error types used in ConfigurationError.ErrorType.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError describes one entity document that could not be used.
type ConfigurationError struct {
	Kind      string `json:"kind"`      // entity kind (platforms, tasks, ...)
	Name      string `json:"name"`      // document name within the kind
	FilePath  string `json:"filePath"`  // full path of the document, if file backed
	ErrorType string `json:"errorType"` // io, parse or validation
	Message   string `json:"message"`
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ce.Kind, ce.Name, ce.Message)
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec *ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Count returns the number of errors in the collection
func (cec *ConfigurationErrorCollection) Count() int {
	return len(cec.Errors)
}

// Add adds a new error to the collection
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// AddError adds an error built from its parts.
func (cec *ConfigurationErrorCollection) AddError(kind, name, filePath, errorType, message string) {
	cec.Add(ConfigurationError{
		Kind:      kind,
		Name:      name,
		FilePath:  filePath,
		ErrorType: errorType,
		Message:   message,
	})
}

// Merge appends every error of other.
func (cec *ConfigurationErrorCollection) Merge(other *ConfigurationErrorCollection) {
	if other == nil {
		return
	}
	cec.Errors = append(cec.Errors, other.Errors...)
}

// GetErrorsByKind returns errors filtered by entity kind
func (cec *ConfigurationErrorCollection) GetErrorsByKind(kind string) []ConfigurationError {
	var filtered []ConfigurationError
	for _, err := range cec.Errors {
		if err.Kind == kind {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

// GetSummary returns a summary of all errors grouped by kind
func (cec *ConfigurationErrorCollection) GetSummary() string {
	if len(cec.Errors) == 0 {
		return "No configuration errors"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Configuration Error Summary (%d total errors):", len(cec.Errors)))

	for _, kind := range Kinds {
		errs := cec.GetErrorsByKind(kind)
		if len(errs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %d errors", kind, len(errs)))
		for _, err := range errs {
			parts = append(parts, fmt.Sprintf("  - %s: %s", err.Name, err.Message))
		}
	}

	return strings.Join(parts, "\n")
}

// NewConfigurationErrorCollection creates a new empty error collection
func NewConfigurationErrorCollection() *ConfigurationErrorCollection {
	return &ConfigurationErrorCollection{
		Errors: make([]ConfigurationError, 0),
	}
}
