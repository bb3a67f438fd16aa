package fixture

import (
	"distbuild/internal/config"
)

// Templates are the fixture job description templates.
var Templates = map[string]string{
	"build": `# {{ .Job.Name }}
kind: {{ .Job.Kind }}
script: {{ .ScriptRoot }}/{{ .Task.Script }}
platform: {{ .Target.Platform | upper }}
variants: {{ .Target.CombinationString | default "none" }}
`,
	"test": `# {{ .Job.Name }}
after: {{ .ParentName }}
machine: {{ .Task.Machine | default "any" }}
`,
}

// WriteStore saves the fixture reference data, both fixture projects and
// the fixture templates under dir and returns the store.
func WriteStore(dir string) (*config.Storage, error) {
	store := config.NewStorageWithPath(dir)
	save := func(kind, name string, v interface{}) error {
		return store.SaveYAML(kind, name, v)
	}

	for _, p := range Platforms() {
		if err := save(config.KindPlatforms, p.ID, p); err != nil {
			return nil, err
		}
	}
	for _, t := range Tasks() {
		if err := save(config.KindTasks, t.ID, t); err != nil {
			return nil, err
		}
	}
	for _, c := range Categories() {
		if err := save(config.KindVariants, c.ID, c); err != nil {
			return nil, err
		}
	}
	snapshot := Snapshot()
	named := map[string][]string{
		config.KindProducts:  snapshot.Products,
		config.KindProviders: snapshot.Providers,
		config.KindPackages:  snapshot.Packages,
	}
	for kind, ids := range named {
		for _, id := range ids {
			if err := save(kind, id, map[string]string{"id": id}); err != nil {
				return nil, err
			}
		}
	}
	// "proj" is referenced by identifiers only.
	if err := save(config.KindProjects, "proj", map[string]string{"id": "proj", "product": "core"}); err != nil {
		return nil, err
	}
	if err := save(config.KindProjects, "engine", BuildProject()); err != nil {
		return nil, err
	}
	if err := save(config.KindProjects, "bench", TestProject()); err != nil {
		return nil, err
	}
	for id, body := range Templates {
		if err := save(config.KindTemplates, id, map[string]string{"id": id, "body": body}); err != nil {
			return nil, err
		}
	}
	return store, nil
}
