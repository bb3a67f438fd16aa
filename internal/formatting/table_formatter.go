package formatting

import (
	"fmt"
	"io"

	pkgstrings "distbuild/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// Format renders view; data is ignored.
func (f *TableFormatter) Format(w io.Writer, view Table, _ interface{}) error {
	if len(view.Rows) == 0 {
		message := view.Empty
		if message == "" {
			message = "No items found"
		}
		_, err := fmt.Fprint(w, f.formatEmptyMessage("📋", message))
		return err
	}

	t := f.createTable(w)
	if view.Title != "" && !f.options.Quiet {
		t.SetTitle(view.Title)
	}

	headers := make(table.Row, 0, len(view.Headers))
	for _, h := range view.Headers {
		headers = append(headers, f.colorize(text.FgHiCyan, h))
	}
	t.AppendHeader(headers)

	for _, row := range view.Rows {
		r := make(table.Row, 0, len(row))
		for _, cell := range row {
			if f.options.MaxCellWidth > 0 {
				cell = pkgstrings.TruncateMiddle(cell, f.options.MaxCellWidth)
			}
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	t.Render()

	if !f.options.Quiet {
		_, err := fmt.Fprintf(w, "\n%s %s %s\n",
			f.colorize(text.FgHiBlue, "Total:"),
			f.colorize(text.FgHiWhite, fmt.Sprint(len(view.Rows))),
			f.colorize(text.FgHiBlue, "items"))
		return err
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", f.colorize(text.FgYellow, icon), f.colorize(text.FgYellow, message))
}

func (f *TableFormatter) colorize(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}
