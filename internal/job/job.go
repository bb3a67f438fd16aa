// Package job defines the pipeline jobs generated from a project
// configuration: one Pull job per project, one Build job per build variant
// and one Test job per test variant.
package job

import (
	"fmt"

	"distbuild/internal/model"
	pkgstrings "distbuild/pkg/strings"

	"gopkg.in/yaml.v3"
)

// Kind tags the job variants.
type Kind int

const (
	KindPull Kind = iota
	KindBuild
	KindTest
)

func (k Kind) String() string {
	switch k {
	case KindPull:
		return "pull"
	case KindBuild:
		return "build"
	case KindTest:
		return "test"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind reads a kind from its name.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindPull, KindBuild, KindTest} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown job kind %q", s)
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NameSeparator joins the fields of a job name.
const NameSeparator = '-'

// Job is the closed union of Pull, Build and Test. Use Switch to dispatch on
// the concrete type.
type Job interface {
	// Name is the job identity: equal names mean equal jobs.
	Name() string
	Kind() Kind
	// Shared returns the project-level fields every job carries.
	Shared() Common
	isJob()
}

// Common holds the project-level fields copied into every job.
type Common struct {
	Project        string            `json:"project" yaml:"project"`
	Product        string            `json:"product" yaml:"product"`
	Repository     string            `json:"repository,omitempty" yaml:"repository,omitempty"`
	SCMVersion     string            `json:"scmVersion,omitempty" yaml:"scmVersion,omitempty"`
	BuildProviders []string          `json:"buildProviders,omitempty" yaml:"buildProviders,omitempty"`
	Variables      map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	ScriptRoot     string            `json:"scriptRoot,omitempty" yaml:"scriptRoot,omitempty"`
}

// Target is the platform, provider, task and resolved variant
// combination a Build or Test job runs.
type Target struct {
	Platform string `json:"platform" yaml:"platform"`
	Provider string `json:"provider" yaml:"provider"`
	// PlatformString is the "os.arch" form used in archive identifiers.
	PlatformString string `json:"platformString,omitempty" yaml:"platformString,omitempty"`
	Task           string `json:"task" yaml:"task"`
	// Variants holds one choice per applicable category, in declared order.
	Variants []model.Choice `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// IsZero reports an unset target, the build side of a test-only job.
func (t Target) IsZero() bool {
	return t.Platform == "" && t.Provider == "" && t.Task == "" && len(t.Variants) == 0
}

// PlatformName is the platform field of job names, "<platform>.<provider>".
func (t Target) PlatformName() string {
	if t.Platform == "" && t.Provider == "" {
		return ""
	}
	return t.Platform + "." + t.Provider
}

// CombinationString joins every variant value with the name separator.
func (t Target) CombinationString() string {
	return model.CombinationString(t.Variants)
}

// Combination returns every chosen value, defaults included.
func (t Target) Combination() model.Combination {
	return model.CombinationOf(t.Variants)
}

// ExplicitCombination returns the values that differ from their category
// default: the form configuration trees store.
func (t Target) ExplicitCombination() model.Combination {
	return model.ExplicitCombinationOf(t.Variants)
}

func (t Target) nameFields() []string {
	return append([]string{t.PlatformName()}, model.ChoiceValues(t.Variants)...)
}

// Pull fetches the project sources; there is one per project.
type Pull struct {
	Common
	// Combinations are the distinct build combination strings of the
	// project, sorted.
	Combinations []string
}

func (p *Pull) Name() string {
	return pkgstrings.JoinFields(NameSeparator, "pull", p.Product, p.Project)
}

func (p *Pull) Kind() Kind     { return KindPull }
func (p *Pull) Shared() Common { return p.Common }
func (p *Pull) isJob()         {}

// Build runs a build task for one build variant.
type Build struct {
	Common
	Target
}

func (b *Build) Name() string {
	fields := append([]string{b.Task, b.Product, b.Project}, b.nameFields()...)
	return pkgstrings.JoinFields(NameSeparator, fields...)
}

func (b *Build) Kind() Kind     { return KindBuild }
func (b *Build) Shared() Common { return b.Common }
func (b *Build) isJob()         {}

// Test runs a test task against one build variant. Parent is the build
// side: platform, provider, task and build combination. It is zero for
// test-only projects.
type Test struct {
	Common
	Parent Target
	Target
}

// Name leaves the parent task out: the parent is identified by platform
// and build values.
func (t *Test) Name() string {
	fields := []string{t.Task, t.Product, t.Project}
	fields = append(fields, t.Parent.nameFields()...)
	fields = append(fields, t.nameFields()...)
	return pkgstrings.JoinFields(NameSeparator, fields...)
}

func (t *Test) Kind() Kind     { return KindTest }
func (t *Test) Shared() Common { return t.Common }
func (t *Test) isJob()         {}

// Switch calls the function matching the concrete type of j.
func Switch[R any](j Job, pull func(*Pull) R, build func(*Build) R, test func(*Test) R) R {
	switch v := j.(type) {
	case *Pull:
		return pull(v)
	case *Build:
		return build(v)
	case *Test:
		return test(v)
	default:
		panic(fmt.Sprintf("job: unexpected job type %T", j))
	}
}
