// Package formatting renders command results as tables, JSON or YAML.
package formatting

import (
	"fmt"
	"io"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// Formats lists the accepted output formats.
var Formats = []string{string(FormatTable), string(FormatJSON), string(FormatYAML)}

// ParseFormat validates an output format name.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case FormatTable, FormatJSON, FormatYAML:
		return OutputFormat(name), nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: table, json, yaml)", name)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
	// MaxCellWidth shortens longer table cells in the middle; 0 keeps them whole.
	MaxCellWidth int
}

// Table is the tabular view of a result.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Formatter writes one result. Table formatters print the table view,
// data formatters serialise data.
type Formatter interface {
	Format(w io.Writer, view Table, data interface{}) error
	SetOptions(options Options)
	GetOptions() Options
}

// New creates the formatter for options.Format.
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}
