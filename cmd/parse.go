package cmd

import (
	"fmt"
	"strings"

	"distbuild/internal/formatting"
	"distbuild/internal/nvr"

	"github.com/spf13/cobra"
)

var (
	parseOutputFormat string
	parseQuiet        bool
)

func newParseCmd() *cobra.Command {
	formats := make([]string, 0, len(nvr.Formats))
	for _, f := range nvr.Formats {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "parse FORMAT IDENTIFIER",
		Short: "Parse a build or archive identifier",
		Long: fmt.Sprintf(`Parse splits IDENTIFIER into its fields.

Formats: %s.

The build and archive formats resolve package, project and variant names
against the configured reference data; the legacy formats split on
separators only. An identifier that does not parse exits with code 3.`, strings.Join(formats, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: formats,
		RunE:      runParse,
	}
	cmd.Flags().StringVarP(&parseOutputFormat, "output", "o", "", "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "Suppress titles and totals")
	return cmd
}

// parsedField is the serialised form of one identifier field.
type parsedField struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func runParse(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(parseOutputFormat, parseQuiet)
	if err != nil {
		return err
	}
	format, err := nvr.ParseFormat(args[0])
	if err != nil {
		return err
	}

	var dict nvr.Dictionaries
	if format == nvr.FormatBuild || format == nvr.FormatArchive {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		dict = nvr.NewDictionaries(cat.Reference, appConfig.Identifiers.SourcesMarker)
	}

	record, err := nvr.Parse(format, args[1], dict)
	if err != nil {
		return err
	}

	view := formatting.Table{Title: record.String(), Headers: []string{"FIELD", "VALUE"}}
	var fields []parsedField
	for _, f := range record.Fields() {
		view.Rows = append(view.Rows, []string{f.Name, f.Value})
		fields = append(fields, parsedField{Name: f.Name, Value: f.Value})
	}
	return formatter.Format(cmd.OutOrStdout(), view, fields)
}
