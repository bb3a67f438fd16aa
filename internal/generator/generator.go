// Package generator expands a project configuration tree into its jobs.
package generator

import (
	"errors"
	"fmt"
	"sort"

	"distbuild/internal/job"
	"distbuild/internal/model"
	"distbuild/pkg/logging"
)

type level int

const (
	levelBuild level = iota
	levelTest
)

func (l level) taskKind() model.TaskKind {
	if l == levelTest {
		return model.TaskKindTest
	}
	return model.TaskKindBuild
}

// frame is the walk position of one tree level. It is passed by value: a
// child level gets a new frame and the parent's is unchanged when the child
// returns.
type frame struct {
	level level
	// parent is the build target of the enclosing build variant; zero at
	// the build level and in test-only projects.
	parent job.Target
}

// descend enters the nested configuration below a variant of target.
func (f frame) descend(target job.Target) (frame, error) {
	if f.level != levelBuild {
		return frame{}, errors.New("nested configuration below a test variant")
	}
	return frame{level: levelTest, parent: target}, nil
}

type generator struct {
	ref          *model.ReferenceData
	project      *model.Project
	common       job.Common
	jobs         *job.Set
	combinations map[string]bool
}

// Generate returns the jobs of project: a Build job per build variant, a
// Test job per test variant and one Pull job. Reference data is only read.
func Generate(project *model.Project, ref *model.ReferenceData) (*job.Set, error) {
	g := &generator{
		ref:          ref,
		project:      project,
		jobs:         job.NewSet(),
		combinations: make(map[string]bool),
	}
	if !ref.HasProduct(project.Product) {
		return nil, g.fail(UnknownProduct, project.Product, "", "")
	}
	for _, provider := range project.BuildProviders {
		if !ref.HasProvider(provider) {
			return nil, g.fail(UnknownBuildProvider, provider, "buildProviders", "")
		}
	}
	g.common = commonOf(project)

	root := frame{level: levelBuild}
	if project.Kind == model.ProjectKindTest {
		root = frame{level: levelTest}
	}
	if err := g.platforms(root, "config", project.Config); err != nil {
		return nil, err
	}

	combinations := make([]string, 0, len(g.combinations))
	for c := range g.combinations {
		combinations = append(combinations, c)
	}
	sort.Strings(combinations)
	if err := g.add(&job.Pull{Common: g.common, Combinations: combinations}, ""); err != nil {
		return nil, err
	}

	logging.Debug("Generator", "Generated %d jobs for project %s", g.jobs.Len(), project.ID)
	return g.jobs, nil
}

func commonOf(p *model.Project) job.Common {
	providers := append([]string(nil), p.BuildProviders...)
	sort.Strings(providers)
	var variables map[string]string
	if len(p.Variables) > 0 {
		variables = make(map[string]string, len(p.Variables))
		for k, v := range p.Variables {
			variables[k] = v
		}
	}
	return job.Common{
		Project:        p.ID,
		Product:        p.Product,
		Repository:     p.Repository.URL,
		SCMVersion:     p.Repository.Version,
		BuildProviders: providers,
		Variables:      variables,
		ScriptRoot:     p.ScriptRoot,
	}
}

func (g *generator) platforms(f frame, path string, nodes []*model.PlatformNode) error {
	for i, pn := range nodes {
		nodePath := fmt.Sprintf("%s[%d]", path, i)
		platform, ok := g.ref.Platform(pn.Platform)
		if !ok {
			return g.fail(UnknownPlatform, pn.Platform, nodePath, "")
		}
		if !platform.HasProvider(pn.Provider) {
			return g.fail(UnknownBuildProvider, pn.Provider, nodePath, "not a provider of platform "+platform.ID)
		}
		for j, tn := range pn.Tasks {
			if err := g.task(f, fmt.Sprintf("%s.tasks[%d]", nodePath, j), platform, pn.Provider, tn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *generator) task(f frame, path string, platform *model.Platform, provider string, tn *model.TaskNode) error {
	task, ok := g.ref.Task(tn.Task)
	if !ok {
		return g.fail(UnknownTask, tn.Task, path, "")
	}
	if task.Kind != f.level.taskKind() {
		return g.fail(WrongTaskKind, tn.Task, path, fmt.Sprintf("%s task where a %s task is required", task.Kind, f.level.taskKind()))
	}
	if !task.Allows(g.project.Product, platform.ID) {
		return g.fail(TaskNotAllowed, tn.Task, path, fmt.Sprintf("product %s on platform %s", g.project.Product, platform.ID))
	}

	categories := g.ref.Categories(task.Kind)
	for i, vn := range tn.Variants {
		variantPath := fmt.Sprintf("%s.variants[%d]", path, i)
		choices, err := model.Resolve(vn.Values, categories)
		if err != nil {
			return g.variantError(err, variantPath)
		}
		target := job.Target{
			Platform:       platform.ID,
			Provider:       provider,
			PlatformString: platform.String(),
			Task:           task.ID,
			Variants:       choices,
		}
		if err := g.variant(f, variantPath, target, vn); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) variant(f frame, path string, target job.Target, vn *model.VariantNode) error {
	switch f.level {
	case levelBuild:
		if err := g.add(&job.Build{Common: g.common, Target: target}, path); err != nil {
			return err
		}
		g.combinations[target.CombinationString()] = true
	case levelTest:
		if err := g.add(&job.Test{Common: g.common, Parent: f.parent, Target: target}, path); err != nil {
			return err
		}
	}

	if len(vn.Nested) == 0 {
		return nil
	}
	child, err := f.descend(target)
	if err != nil {
		return g.fail(SettingPlatformError, target.PlatformName(), path+".nested", err.Error())
	}
	return g.platforms(child, path+".nested", vn.Nested)
}

func (g *generator) add(j job.Job, path string) error {
	if !g.jobs.Add(j) {
		return g.fail(DuplicateJob, j.Name(), path, "another configuration node produces the same job")
	}
	return nil
}

func (g *generator) variantError(err error, path string) error {
	var ve *model.VariantError
	if !errors.As(err, &ve) {
		return err
	}
	if ve.UnknownCategory {
		return g.fail(UnknownVariantCategory, ve.Category, path, "")
	}
	return g.fail(UnknownVariant, ve.Value, path, "category "+ve.Category)
}

func (g *generator) fail(kind ErrorKind, subject, path, detail string) *ManagementError {
	return &ManagementError{
		Kind:    kind,
		Project: g.project.ID,
		Subject: subject,
		Path:    path,
		Detail:  detail,
	}
}
