package model

import (
	"sort"
)

// ReferenceData is the immutable snapshot of reference entities one
// generate, reconstruct or parse call works against.
type ReferenceData struct {
	platforms       map[string]*Platform
	tasks           map[string]*Task
	buildCategories []*VariantCategory
	testCategories  []*VariantCategory
	products        map[string]bool
	providers       map[string]bool
	packages        []string
	projects        []string
}

// Snapshot is the input of NewReferenceData.
type Snapshot struct {
	Platforms  []*Platform
	Tasks      []*Task
	Categories []*VariantCategory
	Products   []string
	Providers  []string
	Packages   []string
	Projects   []string
}

// NewReferenceData indexes a snapshot. Categories are split by usage and
// sorted by declared order; the caller must not modify the inputs
// afterwards.
func NewReferenceData(s Snapshot) *ReferenceData {
	ref := &ReferenceData{
		platforms: make(map[string]*Platform, len(s.Platforms)),
		tasks:     make(map[string]*Task, len(s.Tasks)),
		products:  toSet(s.Products),
		providers: toSet(s.Providers),
		packages:  sortedCopy(s.Packages),
		projects:  sortedCopy(s.Projects),
	}
	for _, p := range s.Platforms {
		ref.platforms[p.ID] = p
		for _, provider := range p.Providers {
			ref.providers[provider] = true
		}
	}
	for _, t := range s.Tasks {
		ref.tasks[t.ID] = t
	}
	for _, c := range s.Categories {
		switch c.Usage {
		case TaskKindBuild:
			ref.buildCategories = append(ref.buildCategories, c)
		case TaskKindTest:
			ref.testCategories = append(ref.testCategories, c)
		}
	}
	SortCategories(ref.buildCategories)
	SortCategories(ref.testCategories)
	return ref
}

// Platform returns the platform with the given ID.
func (r *ReferenceData) Platform(id string) (*Platform, bool) {
	p, ok := r.platforms[id]
	return p, ok
}

// Platforms returns all platforms sorted by ID.
func (r *ReferenceData) Platforms() []*Platform {
	out := make([]*Platform, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, p)
	}
	SortPlatforms(out)
	return out
}

// Task returns the task with the given ID.
func (r *ReferenceData) Task(id string) (*Task, bool) {
	t, ok := r.tasks[id]
	return t, ok
}

// Tasks returns all tasks sorted by ID.
func (r *ReferenceData) Tasks() []*Task {
	out := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	SortTasks(out)
	return out
}

// Categories returns the categories of one usage in declared order.
func (r *ReferenceData) Categories(usage TaskKind) []*VariantCategory {
	if usage == TaskKindTest {
		return r.testCategories
	}
	return r.buildCategories
}

// HasProduct reports whether product is known.
func (r *ReferenceData) HasProduct(product string) bool {
	return r.products[product]
}

// HasProvider reports whether provider is a known machine group, either
// listed explicitly or offered by some platform.
func (r *ReferenceData) HasProvider(provider string) bool {
	return r.providers[provider]
}

// Packages returns the known package names, sorted.
func (r *ReferenceData) Packages() []string {
	return r.packages
}

// Projects returns the known project IDs, sorted.
func (r *ReferenceData) Projects() []string {
	return r.projects
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
