package formatting

import (
	"encoding/json"
	"io"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// Format writes data as indented JSON; view is ignored.
func (f *JSONFormatter) Format(w io.Writer, _ Table, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
