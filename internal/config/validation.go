package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Fields returns the field paths of all errors, in insertion order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Field)
	}
	return fields
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateMaxLength checks if a string doesn't exceed maximum length
func ValidateMaxLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("must not exceed %d characters", maxLength),
		}
	}
	return nil
}

// ValidateEntityName validates that an entity name can be used as a store key
// and as a job name field.
func ValidateEntityName(name, entityType string) error {
	if err := ValidateRequired("id", name, entityType); err != nil {
		return err
	}

	if err := ValidateMaxLength("id", name, 100); err != nil {
		return err
	}

	if strings.ContainsAny(name, " \t\n/\\") {
		return ValidationError{
			Field:   "id",
			Value:   name,
			Message: "cannot contain whitespace or path separators",
		}
	}

	return nil
}

// ValidateToken checks that value can appear as a single token of an
// identifier: non-empty and free of the '.' and '-' delimiters.
func ValidateToken(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Value: value, Message: "must not be empty"}
	}
	if strings.ContainsAny(value, ".- \t\n/") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must not contain '.', '-', whitespace or '/'",
		}
	}
	return nil
}

// ValidateVersion checks that value can be the version of an identifier:
// non-empty and free of the '-' separator. Unlike tokens, versions may
// contain '.'.
func ValidateVersion(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Value: value, Message: "must not be empty"}
	}
	if strings.ContainsAny(value, "- \t\n/") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must not contain '-', whitespace or '/'",
		}
	}
	return nil
}

// FormatValidationError creates a consistent validation error message
func FormatValidationError(entityType, entityName string, err error) error {
	if err == nil {
		return nil
	}

	if entityName != "" {
		return fmt.Errorf("validation failed for %s '%s': %w", entityType, entityName, err)
	}
	return fmt.Errorf("validation failed for %s: %w", entityType, err)
}
