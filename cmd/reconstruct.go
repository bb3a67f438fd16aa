package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"distbuild/internal/formatting"
	"distbuild/internal/job"
	"distbuild/internal/model"
	"distbuild/internal/reconstruct"

	"github.com/spf13/cobra"
)

var (
	reconstructFile         string
	reconstructOutputFormat string
	reconstructQuiet        bool
)

func newReconstructCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconstruct -f JOBS.yaml",
		Short: "Rebuild a project configuration from its jobs",
		Long: `Reconstruct reads a job set file and rebuilds the project configuration
the jobs were generated from. The yaml output is a project document.

Jobs whose shared project settings disagree, or that do not fit into one
configuration tree, are reported and the command exits with code 2.`,
		Args: cobra.NoArgs,
		RunE: runReconstruct,
	}
	cmd.Flags().StringVarP(&reconstructFile, "file", "f", "", "Job set file (- for stdin)")
	cmd.Flags().StringVarP(&reconstructOutputFormat, "output", "o", "yaml", "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&reconstructQuiet, "quiet", "q", false, "Suppress titles and totals")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runReconstruct(cmd *cobra.Command, _ []string) error {
	formatter, err := newFormatter(reconstructOutputFormat, reconstructQuiet)
	if err != nil {
		return err
	}

	jobs, err := readJobs(cmd, reconstructFile)
	if err != nil {
		return err
	}
	project, diagnostic := reconstruct.Reconstruct(jobs)
	if diagnostic != "" {
		return &DiagnosticError{Diagnostic: diagnostic}
	}

	view := formatting.Table{
		Title:   fmt.Sprintf("Configuration of %s (%s, %s)", project.ID, project.Product, project.Kind),
		Headers: []string{"PLATFORM", "TASK", "VALUES"},
		Empty:   fmt.Sprintf("Project %s has no configuration", project.ID),
	}
	view.Rows = treeRows(project.Config, 0)
	return formatter.Format(cmd.OutOrStdout(), view, project)
}

func readJobs(cmd *cobra.Command, path string) ([]job.Job, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	return job.UnmarshalJobs(data)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// treeRows flattens a configuration tree, indenting nested levels.
func treeRows(nodes []*model.PlatformNode, depth int) [][]string {
	indent := strings.Repeat("  ", depth)
	var rows [][]string
	for _, pn := range nodes {
		for _, tn := range pn.Tasks {
			for _, vn := range tn.Variants {
				values := vn.Values.Key()
				if values == "" {
					values = "(defaults)"
				}
				rows = append(rows, []string{indent + pn.Platform + "." + pn.Provider, tn.Task, values})
				rows = append(rows, treeRows(vn.Nested, depth+1)...)
			}
		}
	}
	return rows
}
