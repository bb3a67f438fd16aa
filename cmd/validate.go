package cmd

import (
	"fmt"

	"distbuild/internal/config"
	"distbuild/internal/formatting"
	"distbuild/internal/model"

	"github.com/spf13/cobra"
)

var (
	validateOutputFormat string
	validateQuiet        bool
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [PROJECT...]",
		Short: "Check the stored configuration",
		Long: `Validate checks every stored document and the configuration trees of
the given projects, or of all projects when none are named. Each valid tree
is also generated to find configurations that name the same job twice.

Any problem makes the command exit with code 2.`,
		RunE: runValidate,
	}
	cmd.Flags().StringVarP(&validateOutputFormat, "output", "o", "", "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&validateQuiet, "quiet", "q", false, "Suppress titles and totals")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(validateOutputFormat, validateQuiet)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	var projects []*model.Project
	for _, id := range args {
		p, ok := cat.Project(id)
		if !ok {
			return fmt.Errorf("project %q not found", id)
		}
		projects = append(projects, p)
	}

	checked := len(projects)
	if checked == 0 {
		checked = len(cat.Projects)
	}

	problems := config.NewConfigurationErrorCollection()
	problems.Merge(cat.Problems)
	problems.Merge(cat.ValidateProjects(projects...))

	view := formatting.Table{
		Title:   "Configuration problems",
		Headers: []string{"KIND", "NAME", "TYPE", "MESSAGE"},
		Empty:   fmt.Sprintf("Configuration is valid (%d projects checked)", checked),
	}
	for _, e := range problems.Errors {
		view.Rows = append(view.Rows, []string{e.Kind, e.Name, e.ErrorType, e.Message})
	}
	if err := formatter.Format(cmd.OutOrStdout(), view, problems.Errors); err != nil {
		return err
	}
	if problems.HasErrors() {
		return problems
	}
	return nil
}
