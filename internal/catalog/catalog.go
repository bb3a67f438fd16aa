// Package catalog loads reference data, projects and job templates from the
// entity store into one consistent snapshot.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"distbuild/internal/config"
	"distbuild/internal/generator"
	"distbuild/internal/model"
	"distbuild/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Named is the document shape of products, providers and packages.
type Named struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label,omitempty"`
}

// Validate checks the ID.
func (n Named) Validate() error {
	return config.ValidateEntityName(n.ID, "entity")
}

// Template is a job description template.
type Template struct {
	ID   string `yaml:"id"`
	Body string `yaml:"body"`
}

// Validate checks the template has an ID and a body.
func (t Template) Validate() error {
	var errs config.ValidationErrors
	if err := config.ValidateEntityName(t.ID, "template"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateRequired("body", t.Body, "template"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Catalog is the snapshot one command works against. Projects are
// normalised: their combinations leave out default values.
type Catalog struct {
	Reference *model.ReferenceData
	// Projects sorted by ID.
	Projects  []*model.Project
	Templates map[string]string
	// Problems lists documents that were skipped because they failed to
	// decode or validate.
	Problems *config.ConfigurationErrorCollection
}

// Project returns the project with the given ID.
func (c *Catalog) Project(id string) (*model.Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ValidateProjects checks the given projects, or all projects when none
// are given, against the reference data. Every field problem is reported
// on its own. Valid trees are also generated, which catches
// configurations that name the same job twice.
func (c *Catalog) ValidateProjects(projects ...*model.Project) *config.ConfigurationErrorCollection {
	if len(projects) == 0 {
		projects = c.Projects
	}
	problems := config.NewConfigurationErrorCollection()
	for _, p := range projects {
		if err := p.Validate(c.Reference); err != nil {
			errs := model.ValidationErrorsOf(err)
			if len(errs) == 0 {
				problems.AddError(config.KindProjects, p.ID, "", config.ErrorTypeValidation, err.Error())
			}
			for _, ve := range errs {
				problems.AddError(config.KindProjects, p.ID, "", config.ErrorTypeValidation, ve.Error())
			}
			continue
		}
		if _, err := generator.Generate(p, c.Reference); err != nil {
			problems.AddError(config.KindProjects, p.ID, "", config.ErrorTypeValidation, err.Error())
		}
	}
	return problems
}

type loaded struct {
	platforms  []*model.Platform
	tasks      []*model.Task
	categories []*model.VariantCategory
	products   []Named
	providers  []Named
	packages   []Named
	projects   []*model.Project
	templates  []Template
	problems   map[string]*config.ConfigurationErrorCollection
}

// Load reads every entity kind concurrently. Store read failures abort the
// load; invalid documents are skipped and reported in Problems.
func Load(ctx context.Context, store config.DocumentStore) (*Catalog, error) {
	l := &loaded{problems: make(map[string]*config.ConfigurationErrorCollection, len(config.Kinds))}
	for _, kind := range config.Kinds {
		l.problems[kind] = config.NewConfigurationErrorCollection()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		l.platforms, err = load(ctx, store, config.KindPlatforms, (*model.Platform).Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.tasks, err = load(ctx, store, config.KindTasks, (*model.Task).Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.categories, err = load(ctx, store, config.KindVariants, (*model.VariantCategory).Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.products, err = load(ctx, store, config.KindProducts, Named.Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.providers, err = load(ctx, store, config.KindProviders, Named.Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.packages, err = load(ctx, store, config.KindPackages, Named.Validate, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.projects, err = load(ctx, store, config.KindProjects, validateProjectID, l.problems)
		return err
	})
	g.Go(func() (err error) {
		l.templates, err = load(ctx, store, config.KindTemplates, Template.Validate, l.problems)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	problems := config.NewConfigurationErrorCollection()
	for _, kind := range config.Kinds {
		problems.Merge(l.problems[kind])
	}

	c := l.catalog()
	c.Problems = problems
	logging.Debug("Catalog", "Loaded %d platforms, %d tasks, %d categories, %d projects (%d problems)",
		len(l.platforms), len(l.tasks), len(l.categories), len(l.projects), problems.Count())
	return c, nil
}

// load decodes one kind. Each call writes its own problems entry, which
// was created before the goroutines started.
func load[T any](ctx context.Context, store config.DocumentStore, kind string, validator func(T) error, problems map[string]*config.ConfigurationErrorCollection) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, collection, err := config.LoadAndParseYAML(store, kind, validator)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}
	problems[kind].Merge(collection)
	return items, nil
}

// validateProjectID checks that the ID is a store key and one identifier
// token, since project IDs end build and archive identifiers.
func validateProjectID(p *model.Project) error {
	if err := config.ValidateEntityName(p.ID, "project"); err != nil {
		return err
	}
	return config.ValidateToken("id", p.ID)
}

func (l *loaded) catalog() *Catalog {
	sort.Slice(l.projects, func(i, j int) bool { return l.projects[i].ID < l.projects[j].ID })

	projectIDs := make([]string, 0, len(l.projects))
	for _, p := range l.projects {
		projectIDs = append(projectIDs, p.ID)
	}

	templates := make(map[string]string, len(l.templates))
	for _, t := range l.templates {
		templates[t.ID] = t.Body
	}

	ref := model.NewReferenceData(model.Snapshot{
		Platforms:  l.platforms,
		Tasks:      l.tasks,
		Categories: l.categories,
		Products:   ids(l.products),
		Providers:  ids(l.providers),
		Packages:   ids(l.packages),
		Projects:   projectIDs,
	})
	for _, p := range l.projects {
		p.Normalize(ref)
	}
	return &Catalog{Reference: ref, Projects: l.projects, Templates: templates}
}

func ids(named []Named) []string {
	out := make([]string, 0, len(named))
	for _, n := range named {
		out = append(out, n.ID)
	}
	return out
}
