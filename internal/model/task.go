package model

import (
	"fmt"
	"sort"
	"strings"

	"distbuild/internal/config"

	"gopkg.in/yaml.v3"
)

// TaskKind separates build tasks from test tasks. Build sorts before test.
type TaskKind int

const (
	TaskKindBuild TaskKind = iota
	TaskKindTest
)

// String makes TaskKind satisfy the fmt.Stringer interface.
func (k TaskKind) String() string {
	switch k {
	case TaskKindBuild:
		return "BUILD"
	case TaskKindTest:
		return "TEST"
	default:
		return fmt.Sprintf("TaskKind(%d)", int(k))
	}
}

// ParseTaskKind accepts "BUILD" or "TEST" in any case.
func ParseTaskKind(s string) (TaskKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUILD":
		return TaskKindBuild, nil
	case "TEST":
		return TaskKindTest, nil
	default:
		return 0, fmt.Errorf("unknown kind %q, expected BUILD or TEST", s)
	}
}

// MarshalYAML writes the kind as its name.
func (k TaskKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads the kind from its name.
func (k *TaskKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTaskKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Limitation is an allow/deny list. Deny wins; an empty allow list allows
// everything that is not denied.
type Limitation struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

// Permits reports whether value passes the limitation.
func (l Limitation) Permits(value string) bool {
	for _, denied := range l.Deny {
		if denied == value {
			return false
		}
	}
	if len(l.Allow) == 0 {
		return true
	}
	for _, allowed := range l.Allow {
		if allowed == value {
			return true
		}
	}
	return false
}

// Task is a script run by a job, either building or testing.
type Task struct {
	ID     string   `yaml:"id"`
	Script string   `yaml:"script"`
	Kind   TaskKind `yaml:"kind"`
	// Poll is the SCM poll schedule in cron syntax.
	Poll string `yaml:"poll,omitempty"`
	// Machine is the preferred machine label within a provider.
	Machine     string     `yaml:"machine,omitempty"`
	Products    Limitation `yaml:"products,omitempty"`
	Platforms   Limitation `yaml:"platforms,omitempty"`
	Files       []string   `yaml:"files,omitempty"`
	Subpackages Limitation `yaml:"subpackages,omitempty"`
	// Template names the job description template used by the renderer.
	Template string `yaml:"template,omitempty"`
}

// Allows reports whether the task may run for product on platform.
func (t *Task) Allows(product, platform string) bool {
	return t.Products.Permits(product) && t.Platforms.Permits(platform)
}

// Validate checks the task definition.
func (t *Task) Validate() error {
	var errs config.ValidationErrors
	if err := config.ValidateEntityName(t.ID, "task"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if err := config.ValidateRequired("script", t.Script, "task"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if t.Kind != TaskKindBuild && t.Kind != TaskKindTest {
		errs.Add("kind", "must be BUILD or TEST", t.Kind)
	}
	if errs.HasErrors() {
		return config.FormatValidationError("task", t.ID, errs)
	}
	return nil
}

// SortTasks orders tasks by ID.
func SortTasks(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
}
