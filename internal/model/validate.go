package model

import (
	"errors"
	"fmt"

	"distbuild/internal/config"
)

// Validate checks the project against reference data before it is stored
// or expanded into jobs. All problems are collected; the returned error
// wraps config.ValidationErrors whose field paths point into the tree, e.g.
// "config[0].tasks[1].variants[2]".
func (p *Project) Validate(ref *ReferenceData) error {
	var errs config.ValidationErrors
	if err := config.ValidateEntityName(p.ID, "project"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	} else if err := config.ValidateToken("id", p.ID); err != nil {
		// Project IDs end build and archive identifiers.
		errs = append(errs, err.(config.ValidationError))
	}
	if !ref.HasProduct(p.Product) {
		errs.Add("product", "unknown product", p.Product)
	}
	if p.Kind != ProjectKindBuild && p.Kind != ProjectKindTest {
		errs.Add("kind", "must be BUILD or TEST", p.Kind)
	}
	seen := make(map[string]bool)
	for i, provider := range p.BuildProviders {
		field := fmt.Sprintf("buildProviders[%d]", i)
		if !ref.HasProvider(provider) {
			errs.Add(field, "unknown build provider", provider)
		}
		if seen[provider] {
			errs.Add(field, "duplicate build provider", provider)
		}
		seen[provider] = true
	}

	v := &treeValidator{ref: ref, product: p.Product, errs: &errs}
	if p.Kind == ProjectKindTest {
		v.platforms("config", p.Config, TaskKindTest, false)
	} else {
		v.platforms("config", p.Config, TaskKindBuild, true)
	}

	if errs.HasErrors() {
		return config.FormatValidationError("project", p.ID, errs)
	}
	return nil
}

// ValidationErrorsOf extracts the field errors from an error returned by
// Validate.
func ValidationErrorsOf(err error) config.ValidationErrors {
	var errs config.ValidationErrors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}

type treeValidator struct {
	ref     *ReferenceData
	product string
	errs    *config.ValidationErrors
}

// platforms validates one level of the tree. usage is the task kind the
// level requires; nestable tells whether variant nodes may carry a nested
// test configuration.
func (v *treeValidator) platforms(path string, nodes []*PlatformNode, usage TaskKind, nestable bool) {
	seen := make(map[[2]string]bool)
	for i, pn := range nodes {
		field := fmt.Sprintf("%s[%d]", path, i)
		key := [2]string{pn.Platform, pn.Provider}
		if seen[key] {
			v.errs.Add(field, "duplicate platform node", pn.Platform+"."+pn.Provider)
		}
		seen[key] = true

		platform, ok := v.ref.Platform(pn.Platform)
		if !ok {
			v.errs.Add(field+".platform", "unknown platform", pn.Platform)
		} else if !platform.HasProvider(pn.Provider) {
			v.errs.Add(field+".provider", "provider not offered by platform", pn.Provider)
		}
		v.tasks(field, pn, usage, nestable)
	}
}

func (v *treeValidator) tasks(path string, pn *PlatformNode, usage TaskKind, nestable bool) {
	seen := make(map[string]bool)
	// Test job names leave out the build task, so tests nested below
	// different tasks of one platform node may collide.
	testOwners := make(map[testName]string)
	for i, tn := range pn.Tasks {
		field := fmt.Sprintf("%s.tasks[%d]", path, i)
		if seen[tn.Task] {
			v.errs.Add(field, "duplicate task node", tn.Task)
		}
		seen[tn.Task] = true

		task, ok := v.ref.Task(tn.Task)
		switch {
		case !ok:
			v.errs.Add(field+".task", "unknown task", tn.Task)
		case task.Kind != usage:
			v.errs.Add(field+".task", fmt.Sprintf("%s task used where a %s task is required", task.Kind, usage), tn.Task)
		case !task.Allows(v.product, pn.Platform):
			v.errs.Add(field+".task", "task not allowed for product and platform", tn.Task)
		}
		v.variants(field, tn, usage, nestable, testOwners)
	}
}

// testName holds what tells two test jobs of one build platform node apart.
type testName struct {
	build    string
	platform string
	provider string
	task     string
	test     string
}

func (v *treeValidator) variants(path string, tn *TaskNode, usage TaskKind, nestable bool, testOwners map[testName]string) {
	categories := v.ref.Categories(usage)
	seen := make(map[string]int)
	for i, vn := range tn.Variants {
		field := fmt.Sprintf("%s.variants[%d]", path, i)
		choices, err := Resolve(vn.Values, categories)
		var key string
		if err != nil {
			v.errs.Add(field+".values", err.Error(), vn.Values.Key())
		} else {
			// Combinations differing only by spelled-out defaults produce the
			// same job.
			key = CombinationOf(choices).Key()
			if first, dup := seen[key]; dup {
				v.errs.Add(field, fmt.Sprintf("duplicate variant combination, same as variants[%d]", first), key)
			} else {
				seen[key] = i
			}
		}

		if len(vn.Nested) == 0 {
			continue
		}
		if !nestable {
			v.errs.Add(field+".nested", "nested configuration is only allowed below build variants")
			continue
		}
		v.platforms(field+".nested", vn.Nested, TaskKindTest, false)
		if err == nil {
			v.testNames(field+".nested", key, tn.Task, vn.Nested, testOwners)
		}
	}
}

// testNames reports nested tests that produce the name of a test nested
// below another build task with the same build combination.
func (v *treeValidator) testNames(path, buildKey, buildTask string, nested []*PlatformNode, owners map[testName]string) {
	categories := v.ref.Categories(TaskKindTest)
	for i, pn := range nested {
		for j, tn := range pn.Tasks {
			for k, vn := range tn.Variants {
				choices, err := Resolve(vn.Values, categories)
				if err != nil {
					continue
				}
				name := testName{buildKey, pn.Platform, pn.Provider, tn.Task, CombinationOf(choices).Key()}
				owner, taken := owners[name]
				if !taken {
					owners[name] = buildTask
					continue
				}
				if owner != buildTask {
					field := fmt.Sprintf("%s[%d].tasks[%d].variants[%d]", path, i, j, k)
					v.errs.Add(field, fmt.Sprintf("test job name already produced below build task %s", owner), tn.Task)
				}
			}
		}
	}
}
