package reconstruct

import (
	"fmt"
	"sort"
	"strings"

	"distbuild/internal/job"
)

type diagnostics struct {
	lines []string
}

func (d *diagnostics) addf(format string, args ...interface{}) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *diagnostics) failed() bool {
	return len(d.lines) > 0
}

func (d *diagnostics) String() string {
	return strings.Join(d.lines, "\n")
}

type field struct {
	name  string
	value func(job.Common) string
}

var consistencyFields = []field{
	{"project id", func(c job.Common) string { return c.Project }},
	{"product", func(c job.Common) string { return c.Product }},
	{"source-control version", func(c job.Common) string { return c.SCMVersion }},
	{"repository", func(c job.Common) string { return c.Repository }},
	{"build providers", func(c job.Common) string { return formatSet(c.BuildProviders) }},
	{"project variables", func(c job.Common) string { return formatVariables(c.Variables) }},
	{"script root", func(c job.Common) string { return c.ScriptRoot }},
}

// compare adds one line per project-level field on which j disagrees with
// the reference job.
func (d *diagnostics) compare(reference, j job.Job) {
	want, got := reference.Shared(), j.Shared()
	for _, f := range consistencyFields {
		if a, b := f.value(want), f.value(got); a != b {
			d.addf("job %s: %s %s differ from %s in job %s", j.Name(), f.name, b, a, reference.Name())
		}
	}
}

// checkCombinations verifies the pull job lists exactly the build
// combinations of the build jobs.
func (d *diagnostics) checkCombinations(p *job.Pull, builds []*job.Build) {
	seen := make(map[string]bool)
	var fromBuilds []string
	for _, b := range builds {
		c := b.CombinationString()
		if !seen[c] {
			seen[c] = true
			fromBuilds = append(fromBuilds, c)
		}
	}
	if got, want := formatSet(p.Combinations), formatSet(fromBuilds); got != want {
		d.addf("job %s: build combinations %s differ from %s of the build jobs", p.Name(), got, want)
	}
}

func formatSet(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return "[" + strings.Join(sorted, " ") + "]"
}

func formatVariables(vars map[string]string) string {
	pairs := make([]string, 0, len(vars))
	for k, v := range vars {
		pairs = append(pairs, k+"="+v)
	}
	return formatSet(pairs)
}
