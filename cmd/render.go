package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"distbuild/internal/generator"
	"distbuild/internal/job"
	"distbuild/internal/render"
	"distbuild/pkg/logging"

	"github.com/spf13/cobra"
)

var renderDir string

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render PROJECT [JOB]",
		Short: "Render job descriptions from templates",
		Long: `Render generates the jobs of PROJECT and renders each with its task's
template from the templates store. Pull jobs use the "pull" template. Jobs
without a template are skipped.

With --dir every description is written to its own file, named after the
job or, for long names, after the job's hash.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runRender,
	}
	cmd.Flags().StringVarP(&renderDir, "dir", "d", "", "Write one file per job into this directory")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
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
	set, err := generator.Generate(project, cat.Reference)
	if err != nil {
		return err
	}
	renderer, err := render.New(cat.Reference, cat.Templates)
	if err != nil {
		return err
	}

	var outputs []render.Output
	if len(args) == 2 {
		j, ok := set.Get(args[1])
		if !ok {
			return fmt.Errorf("project %s has no job %q", project.ID, args[1])
		}
		out, err := renderer.Render(j)
		if err != nil {
			return err
		}
		outputs = append(outputs, out)
	} else {
		outputs, err = renderer.RenderAll(set.Jobs())
		if err != nil {
			return err
		}
	}

	if renderDir == "" {
		w := cmd.OutOrStdout()
		for i, out := range outputs {
			if i > 0 {
				fmt.Fprintln(w, "---")
			}
			fmt.Fprint(w, out.Text)
		}
		return nil
	}

	if err := os.MkdirAll(renderDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", renderDir, err)
	}
	for _, out := range outputs {
		j, _ := set.Get(out.Name)
		path := filepath.Join(renderDir, job.ShortName(j, appConfig.Jobs.NameMaxLength)+".txt")
		if err := os.WriteFile(path, []byte(out.Text), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logging.Debug("Render", "Wrote %s", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d jobs into %s\n", len(outputs), renderDir)
	return nil
}
