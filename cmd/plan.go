package cmd

import (
	"fmt"

	"distbuild/internal/formatting"
	"distbuild/internal/generator"
	"distbuild/internal/job"
	"distbuild/internal/plan"
	"distbuild/internal/reconstruct"
	"distbuild/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	planFile         string
	planOutputFormat string
	planQuiet        bool
	planDrift        bool
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan PROJECT -f EXISTING.yaml",
		Short: "Compare generated jobs with existing jobs",
		Long: `Plan generates the jobs of PROJECT and compares them with the existing
jobs listed in EXISTING.yaml, a job set file whose records may be marked
archived. Every job is listed as create, revive, archive or keep.

With --drift the existing active jobs are also read back into a project
configuration and diffed against the stored one.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}
	cmd.Flags().StringVarP(&planFile, "file", "f", "", "Existing jobs file (- for stdin)")
	cmd.Flags().StringVarP(&planOutputFormat, "output", "o", "", "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&planQuiet, "quiet", "q", false, "Suppress titles and totals")
	cmd.Flags().BoolVar(&planDrift, "drift", false, "Show how the existing jobs' configuration differs from the stored one")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(planOutputFormat, planQuiet)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}
	project, ok := cat.Project(args[0])
	if !ok {
		return fmt.Errorf("project %q not found", args[0])
	}
	if err := project.Validate(cat.Reference); err != nil {
		return err
	}

	data, err := readInput(cmd, planFile)
	if err != nil {
		return err
	}
	existing, err := job.UnmarshalInventory(data)
	if err != nil {
		return err
	}

	desired, err := generator.Generate(project, cat.Reference)
	if err != nil {
		return err
	}
	p, err := plan.Compute(desired, existing)
	if err != nil {
		return err
	}

	view := formatting.Table{
		Title:   fmt.Sprintf("Plan %s: %s", p.ID, p.Summary()),
		Headers: []string{"ACTION", "NAME", "KIND", "DESCRIPTION"},
		Empty:   fmt.Sprintf("Project %s has no jobs", project.ID),
	}
	for _, s := range p.Steps {
		view.Rows = append(view.Rows, []string{string(s.Action), s.Name, s.Kind.String(), s.Description})
	}
	if err := formatter.Format(cmd.OutOrStdout(), view, p); err != nil {
		return err
	}
	if !planDrift {
		return nil
	}

	var active []job.Job
	for _, e := range existing {
		if !e.Archived {
			active = append(active, e.Job)
		}
	}
	current, diagnostic := reconstruct.Reconstruct(active)
	if diagnostic != "" {
		logging.Warn("Plan", "Existing jobs cannot be read back into a configuration")
		return &DiagnosticError{Diagnostic: diagnostic}
	}
	report, err := plan.Drift(project, current)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.Empty() {
		fmt.Fprintln(out, "No configuration drift")
		return nil
	}
	fmt.Fprintln(out, "Configuration drift (- stored, + existing jobs):")
	if formatter.GetOptions().Color {
		fmt.Fprintln(out, report.Pretty())
		return nil
	}
	fmt.Fprint(out, report.String())
	return nil
}
