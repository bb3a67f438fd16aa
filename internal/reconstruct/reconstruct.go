// Package reconstruct rebuilds a project configuration from its jobs. It is
// the inverse of the generator and reports problems as a human-readable
// diagnostic rather than typed errors.
package reconstruct

import (
	"fmt"
	"sort"

	"distbuild/internal/job"
	"distbuild/internal/model"
	"distbuild/pkg/logging"
)

// Reconstruct returns the project whose generation yields jobs. On failure
// the project is nil and the diagnostic lists every problem found, one per
// line. A set of Test jobs without Pull or Build jobs reconstructs a
// test-only project.
func Reconstruct(jobs []job.Job) (*model.Project, string) {
	var (
		pulls  []*job.Pull
		builds []*job.Build
		tests  []*job.Test
	)
	for _, j := range sortedByName(jobs) {
		job.Switch(j,
			func(p *job.Pull) struct{} { pulls = append(pulls, p); return struct{}{} },
			func(b *job.Build) struct{} { builds = append(builds, b); return struct{}{} },
			func(t *job.Test) struct{} { tests = append(tests, t); return struct{}{} },
		)
	}

	pureTests := len(pulls) == 0 && len(builds) == 0 && len(tests) > 0
	if !pureTests {
		switch {
		case len(jobs) == 0:
			return nil, "no jobs"
		case len(pulls) != 1:
			return nil, fmt.Sprintf("expected exactly one pull job, found %d", len(pulls))
		case len(builds)+len(tests) == 0:
			return nil, "no build or test jobs"
		}
	}

	taskJobs := make([]job.Job, 0, len(builds)+len(tests))
	for _, b := range builds {
		taskJobs = append(taskJobs, b)
	}
	for _, t := range tests {
		taskJobs = append(taskJobs, t)
	}
	taskJobs = sortedByName(taskJobs)
	reference := taskJobs[0]

	var d diagnostics
	for _, j := range taskJobs[1:] {
		d.compare(reference, j)
	}
	for _, p := range pulls {
		d.compare(reference, p)
		d.checkCombinations(p, builds)
	}
	if d.failed() {
		return nil, d.String()
	}

	project := assemble(reference.Shared())
	if len(builds) == 0 && allTestOnly(tests) {
		project.Kind = model.ProjectKindTest
	}

	for _, b := range builds {
		pn := project.PlatformNode(b.Platform, b.Provider)
		tn := pn.TaskNode(b.Task)
		if _, added := tn.AddVariant(b.ExplicitCombination()); !added {
			d.addf("duplicate build job %s", b.Name())
		}
	}
	for _, t := range tests {
		siblings, ok := d.testSiblings(project, t)
		if !ok {
			continue
		}
		pn := model.PlatformNodeIn(siblings, t.Platform, t.Provider)
		tn := pn.TaskNode(t.Task)
		if _, added := tn.AddVariant(t.ExplicitCombination()); !added {
			d.addf("duplicate test job %s", t.Name())
		}
	}
	if d.failed() {
		return nil, d.String()
	}

	project.Sort()
	logging.Debug("Reconstruct", "Reconstructed project %s from %d jobs (%d build, %d test)", project.ID, len(jobs), len(builds), len(tests))
	return project, ""
}

func sortedByName(jobs []job.Job) []job.Job {
	out := append([]job.Job(nil), jobs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out
}

func allTestOnly(tests []*job.Test) bool {
	for _, t := range tests {
		if !t.Parent.IsZero() {
			return false
		}
	}
	return true
}

func assemble(c job.Common) *model.Project {
	p := &model.Project{
		ID:             c.Project,
		Product:        c.Product,
		Kind:           model.ProjectKindBuild,
		Repository:     model.Repository{URL: c.Repository, Version: c.SCMVersion},
		BuildProviders: append([]string(nil), c.BuildProviders...),
		ScriptRoot:     c.ScriptRoot,
	}
	if len(c.Variables) > 0 {
		p.Variables = make(map[string]string, len(c.Variables))
		for k, v := range c.Variables {
			p.Variables[k] = v
		}
	}
	return p
}

// testSiblings returns the sibling list the test job's platform node
// belongs to: the project root for test-only projects, otherwise the nested
// list of the build variant the job's parent points to.
func (d *diagnostics) testSiblings(project *model.Project, t *job.Test) (*[]*model.PlatformNode, bool) {
	if project.Kind == model.ProjectKindTest {
		return &project.Config, true
	}
	parent := t.Parent
	if parent.IsZero() {
		d.addf("test job %s has no build parent in a build project", t.Name())
		return nil, false
	}
	pn := model.FindPlatformNode(project.Config, parent.Platform, parent.Provider)
	if pn == nil {
		d.addf("test job %s: build platform %s not found", t.Name(), parent.PlatformName())
		return nil, false
	}
	tn := pn.FindTask(parent.Task)
	if tn == nil {
		d.addf("test job %s: build task %s not found on %s", t.Name(), parent.Task, parent.PlatformName())
		return nil, false
	}
	vn := tn.FindVariant(parent.ExplicitCombination())
	if vn == nil {
		d.addf("test job %s: build variants %s not found for task %s on %s", t.Name(), parent.CombinationString(), parent.Task, parent.PlatformName())
		return nil, false
	}
	return &vn.Nested, true
}
