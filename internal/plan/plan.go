// Package plan compares the jobs generated for a project with the jobs that
// already exist in the CI system and lists the changes needed to converge.
package plan

import (
	"fmt"
	"sort"
	"time"

	"distbuild/internal/dependency"
	"distbuild/internal/job"
	"distbuild/pkg/logging"

	"github.com/google/uuid"
)

// Action is what a plan step does to one job.
type Action string

const (
	// ActionCreate adds a job that does not exist yet.
	ActionCreate Action = "create"
	// ActionRevive re-enables an archived job that is generated again.
	ActionRevive Action = "revive"
	// ActionKeep leaves an existing job alone.
	ActionKeep Action = "keep"
	// ActionArchive disables a job that is no longer generated.
	ActionArchive Action = "archive"
)

// Actions lists every action.
var Actions = []Action{ActionCreate, ActionRevive, ActionArchive, ActionKeep}

// Step is one job and what happens to it.
type Step struct {
	Action      Action   `json:"action" yaml:"action"`
	Name        string   `json:"name" yaml:"name"`
	Kind        job.Kind `json:"kind" yaml:"kind"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Job         job.Job  `json:"-" yaml:"-"`
}

// Plan is an ordered list of steps. Creates and revives come in dependency
// order, archives in reverse dependency order, keeps by name.
type Plan struct {
	ID        string    `json:"id" yaml:"id"`
	Project   string    `json:"project,omitempty" yaml:"project,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Steps     []Step    `json:"steps" yaml:"steps"`
}

// Count returns the number of steps with the given action.
func (p *Plan) Count(action Action) int {
	n := 0
	for _, s := range p.Steps {
		if s.Action == action {
			n++
		}
	}
	return n
}

// HasChanges reports whether any step is not a keep.
func (p *Plan) HasChanges() bool {
	return p.Count(ActionKeep) != len(p.Steps)
}

// Summary is a one-line count of the steps per action.
func (p *Plan) Summary() string {
	return fmt.Sprintf("%d to create, %d to revive, %d to archive, %d unchanged",
		p.Count(ActionCreate), p.Count(ActionRevive), p.Count(ActionArchive), p.Count(ActionKeep))
}

// Compute plans the transition from existing to desired. Existing entries
// are matched by job name; when a name appears twice the first entry wins.
// Archived jobs that are not desired produce no step.
func Compute(desired *job.Set, existing []job.Entry) (*Plan, error) {
	current := make(map[string]job.Entry, len(existing))
	for _, e := range existing {
		name := e.Job.Name()
		if _, dup := current[name]; dup {
			logging.Warn("Plan", "Ignoring duplicate existing job %s", name)
			continue
		}
		current[name] = e
	}

	p := &Plan{ID: uuid.New().String(), CreatedAt: time.Now().UTC()}
	if jobs := desired.OfKind(job.KindPull); len(jobs) > 0 {
		p.Project = jobs[0].Shared().Project
	}

	desiredGraph := dependency.FromJobs(desired.Jobs())
	order, err := desiredGraph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to order generated jobs: %w", err)
	}

	var keeps []Step
	for _, id := range order {
		j, _ := desired.Get(string(id))
		step := newStep(j, desiredGraph.Get(id))
		e, exists := current[j.Name()]
		switch {
		case !exists:
			step.Action = ActionCreate
		case e.Archived:
			step.Action = ActionRevive
		default:
			step.Action = ActionKeep
			keeps = append(keeps, step)
			continue
		}
		p.Steps = append(p.Steps, step)
	}

	var obsolete []job.Job
	for name, e := range current {
		if _, ok := desired.Get(name); !ok && !e.Archived {
			obsolete = append(obsolete, e.Job)
		}
	}
	obsoleteGraph := dependency.FromJobs(obsolete)
	archiveOrder, err := obsoleteGraph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to order obsolete jobs: %w", err)
	}
	for i := len(archiveOrder) - 1; i >= 0; i-- {
		id := archiveOrder[i]
		step := newStep(current[string(id)].Job, obsoleteGraph.Get(id))
		step.Action = ActionArchive
		p.Steps = append(p.Steps, step)
	}

	sort.Slice(keeps, func(i, j int) bool { return keeps[i].Name < keeps[j].Name })
	p.Steps = append(p.Steps, keeps...)

	logging.Debug("Plan", "Plan %s for %s: %s", p.ID, p.Project, p.Summary())
	return p, nil
}

func newStep(j job.Job, node *dependency.Node) Step {
	s := Step{Name: j.Name(), Kind: j.Kind(), Job: j}
	if node != nil {
		s.Description = node.FriendlyName
	}
	return s
}
