// Package render turns generated jobs into text job descriptions using Go
// templates extended with the sprig function library.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"text/template"

	"distbuild/internal/job"
	"distbuild/internal/model"
	"distbuild/pkg/logging"

	"github.com/Masterminds/sprig/v3"
)

// PullTemplate is the template name used for pull jobs.
const PullTemplate = "pull"

// MissingTemplateError reports a job whose template is not defined.
type MissingTemplateError struct {
	Job      string
	Template string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("job %s: template %q is not defined", e.Job, e.Template)
}

// Data is what a template sees as dot.
type Data struct {
	Job    job.Job
	Common job.Common
	// Task is nil for pull jobs.
	Task   *model.Task
	Target job.Target
	// Parent and ParentName are set for test jobs of build projects.
	Parent     job.Target
	ParentName string
	ScriptRoot string
	// Combinations is set for pull jobs.
	Combinations []string
}

// Output is one rendered job.
type Output struct {
	Name     string `json:"name" yaml:"name"`
	Template string `json:"template" yaml:"template"`
	Text     string `json:"text" yaml:"text"`
}

// Renderer holds parsed templates.
type Renderer struct {
	ref       *model.ReferenceData
	templates map[string]*template.Template
}

// New parses every template body. Template names are the map keys.
func New(ref *model.ReferenceData, bodies map[string]string) (*Renderer, error) {
	r := &Renderer{ref: ref, templates: make(map[string]*template.Template, len(bodies))}
	for name, body := range bodies {
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// TemplateFor returns the template name of j: PullTemplate for pull jobs,
// otherwise the task's template, falling back to "build" or "test".
func (r *Renderer) TemplateFor(j job.Job) string {
	return job.Switch(j,
		func(*job.Pull) string { return PullTemplate },
		func(b *job.Build) string { return r.taskTemplate(b.Task, "build") },
		func(t *job.Test) string { return r.taskTemplate(t.Task, "test") },
	)
}

func (r *Renderer) taskTemplate(taskID, fallback string) string {
	if task, ok := r.ref.Task(taskID); ok && task.Template != "" {
		return task.Template
	}
	return fallback
}

// Render renders one job.
func (r *Renderer) Render(j job.Job) (Output, error) {
	name := r.TemplateFor(j)
	tmpl, ok := r.templates[name]
	if !ok {
		return Output{}, &MissingTemplateError{Job: j.Name(), Template: name}
	}

	data, err := r.data(j)
	if err != nil {
		return Output{}, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Output{}, fmt.Errorf("job %s: failed to render template %s: %w", j.Name(), name, err)
	}
	return Output{Name: j.Name(), Template: name, Text: buf.String()}, nil
}

// RenderAll renders jobs sorted by name. Jobs without a template are
// skipped; any other failure aborts.
func (r *Renderer) RenderAll(jobs []job.Job) ([]Output, error) {
	sorted := append([]job.Job(nil), jobs...)
	sort.Slice(sorted, func(i, k int) bool { return sorted[i].Name() < sorted[k].Name() })

	outputs := make([]Output, 0, len(sorted))
	for _, j := range sorted {
		out, err := r.Render(j)
		var missing *MissingTemplateError
		if errors.As(err, &missing) {
			logging.Debug("Render", "Skipping %s: %v", j.Name(), err)
			continue
		}
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (r *Renderer) data(j job.Job) (Data, error) {
	d := Data{Job: j, Common: j.Shared(), ScriptRoot: j.Shared().ScriptRoot}
	var taskID string
	job.Switch(j,
		func(p *job.Pull) struct{} {
			d.Combinations = p.Combinations
			return struct{}{}
		},
		func(b *job.Build) struct{} {
			d.Target, taskID = b.Target, b.Task
			return struct{}{}
		},
		func(t *job.Test) struct{} {
			d.Target, taskID = t.Target, t.Task
			if !t.Parent.IsZero() {
				d.Parent = t.Parent
				d.ParentName = (&job.Build{Common: t.Common, Target: t.Parent}).Name()
			}
			return struct{}{}
		},
	)
	if taskID != "" {
		task, ok := r.ref.Task(taskID)
		if !ok {
			return Data{}, fmt.Errorf("job %s: unknown task %s", j.Name(), taskID)
		}
		d.Task = task
	}
	return d, nil
}
