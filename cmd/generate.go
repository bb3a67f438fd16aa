package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"distbuild/internal/formatting"
	"distbuild/internal/generator"
	"distbuild/internal/job"
	"distbuild/internal/watch"
	"distbuild/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	generateOutputFormat string
	generateQuiet        bool
	generateWatch        bool
	generatePackage      string
	generateVersion      string
	generateChangeSet    string
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate PROJECT",
		Short: "Generate the jobs of a project",
		Long: `Generate expands the configuration tree of PROJECT into its pull, build
and test jobs.

With --package, --package-version and --changeset every build and test job
is listed with the archive identifier it produces.

The yaml output is a job set file that 'distbuild reconstruct' reads back.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	cmd.Flags().StringVarP(&generateOutputFormat, "output", "o", "", "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress titles and totals")
	cmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever the configuration changes")
	cmd.Flags().StringVar(&generatePackage, "package", "", "Package name for archive identifiers")
	cmd.Flags().StringVar(&generateVersion, "package-version", "", "Package version for archive identifiers")
	cmd.Flags().StringVar(&generateChangeSet, "changeset", "", "Change set for archive identifiers")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(generateOutputFormat, generateQuiet)
	if err != nil {
		return err
	}
	if generatePackage != "" && (generateVersion == "" || generateChangeSet == "") {
		return fmt.Errorf("--package requires --package-version and --changeset")
	}

	ctx := cmd.Context()
	if err := generateOnce(ctx, cmd.OutOrStdout(), formatter, args[0]); err != nil {
		return err
	}
	if !generateWatch {
		return nil
	}

	changes := make(chan watch.Change, 1)
	detector := watch.NewDetector(rootConfigPath, appConfig.Watch.Debounce)
	if err := detector.Start(ctx, changes); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootConfigPath, err)
	}
	defer detector.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-changes:
			logging.Info("Generate", "Configuration changed (%s), regenerating %s", strings.Join(change.Kinds(), ", "), args[0])
			if err := generateOnce(ctx, cmd.OutOrStdout(), formatter, args[0]); err != nil {
				// keep watching; the next change may fix it
				logging.Error("Generate", err, "Failed to generate %s", args[0])
			}
		}
	}
}

// generateOnce loads the catalog, generates the project and writes the jobs.
func generateOnce(ctx context.Context, w io.Writer, formatter formatting.Formatter, projectID string) error {
	cat, err := loadCatalog(ctx)
	if err != nil {
		return err
	}
	project, ok := cat.Project(projectID)
	if !ok {
		return fmt.Errorf("project %q not found", projectID)
	}
	if err := project.Validate(cat.Reference); err != nil {
		return err
	}

	set, err := generator.Generate(project, cat.Reference)
	if err != nil {
		return err
	}
	jobs := set.Jobs()

	withArchives := generatePackage != ""
	headers := []string{"NAME", "KIND", "PLATFORM", "VARIANTS", "PARENT"}
	if withArchives {
		headers = append(headers, "ARCHIVE")
	}
	view := formatting.Table{
		Title:   fmt.Sprintf("Jobs of %s", projectID),
		Headers: headers,
		Empty:   fmt.Sprintf("Project %s has no jobs", projectID),
	}
	for _, j := range jobs {
		row, err := jobRow(j, withArchives)
		if err != nil {
			return err
		}
		view.Rows = append(view.Rows, row)
	}
	return formatter.Format(w, view, job.Records(jobs))
}

func jobRow(j job.Job, withArchive bool) ([]string, error) {
	var platform, variants, parent string
	job.Switch(j,
		func(p *job.Pull) struct{} {
			variants = strings.Join(p.Combinations, " ")
			return struct{}{}
		},
		func(b *job.Build) struct{} {
			platform, variants = b.PlatformName(), b.CombinationString()
			return struct{}{}
		},
		func(t *job.Test) struct{} {
			platform, variants = t.PlatformName(), t.CombinationString()
			if !t.Parent.IsZero() {
				parent = (&job.Build{Common: t.Common, Target: t.Parent}).Name()
			}
			return struct{}{}
		},
	)
	row := []string{j.Name(), j.Kind().String(), platform, variants, parent}
	if !withArchive {
		return row, nil
	}

	archive := ""
	if _, ok := job.ArchiveTarget(j); ok {
		id, err := job.ArchiveIdentifier(j, generatePackage, generateVersion, generateChangeSet, appConfig.Identifiers.ArchiveSuffix)
		if err != nil {
			return nil, err
		}
		archive = id
	}
	return append(row, archive), nil
}
