package formatting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestParseFormat(t *testing.T) {
	for _, name := range Formats {
		format, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(name), format)
	}
	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestFormatters(t *testing.T) {
	view := Table{
		Title:   "Jobs",
		Headers: []string{"NAME", "COUNT"},
		Rows:    [][]string{{"compile", "2"}, {"unit", "3"}},
	}
	data := []item{{"compile", 2}, {"unit", 3}}

	tests := []struct {
		format   OutputFormat
		contains []string
	}{
		{FormatTable, []string{"Jobs", "NAME", "compile", "unit", "Total: 2 items"}},
		{FormatJSON, []string{"[\n  {\n    \"name\": \"compile\",\n    \"count\": 2\n  },"}},
		{FormatYAML, []string{"- name: compile\n  count: 2\n", "- name: unit\n"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			f := New(Options{Format: tt.format})
			require.NoError(t, f.Format(&buf, view, data))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{})
	require.NoError(t, f.Format(&buf, Table{Empty: "No jobs"}, nil))
	assert.Equal(t, "📋 No jobs\n", buf.String())
}

func TestTableFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(Options{})
	f.SetOptions(Options{Quiet: true})
	assert.True(t, f.GetOptions().Quiet)

	require.NoError(t, f.Format(&buf, Table{Title: "Jobs", Headers: []string{"NAME"}, Rows: [][]string{{"compile"}}}, nil))
	assert.False(t, strings.Contains(buf.String(), "Total"))
	assert.False(t, strings.Contains(buf.String(), "Jobs"))
}

func TestTableFormatter_MaxCellWidth(t *testing.T) {
	name := "unit-core-engine-el7.vm-on-asan-el7.docker-full"
	view := Table{Headers: []string{"NAME"}, Rows: [][]string{{name}, {"pull"}}}

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{MaxCellWidth: 20}).Format(&buf, view, nil))
	assert.Contains(t, buf.String(), "unit-core...ker-full")
	assert.NotContains(t, buf.String(), name)
	assert.Contains(t, buf.String(), "pull")

	buf.Reset()
	require.NoError(t, NewTableFormatter(Options{}).Format(&buf, view, nil))
	assert.Contains(t, buf.String(), name)
}
