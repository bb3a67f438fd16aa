package model

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectKind tells whether a project builds (and optionally tests its
// builds) or only runs tests.
type ProjectKind int

const (
	ProjectKindBuild ProjectKind = iota
	ProjectKindTest
)

// String makes ProjectKind satisfy the fmt.Stringer interface.
func (k ProjectKind) String() string {
	switch k {
	case ProjectKindBuild:
		return "BUILD"
	case ProjectKindTest:
		return "TEST"
	default:
		return fmt.Sprintf("ProjectKind(%d)", int(k))
	}
}

// MarshalYAML writes the kind as its name.
func (k ProjectKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads the kind from its name.
func (k *ProjectKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUILD":
		*k = ProjectKindBuild
	case "TEST":
		*k = ProjectKindTest
	default:
		return fmt.Errorf("unknown project kind %q, expected BUILD or TEST", s)
	}
	return nil
}

// RepoState is the state of the project's repository clone. The cloning
// worker owns the transitions; the engine only reads the value.
type RepoState string

const (
	RepoNotCloned  RepoState = "NOT_CLONED"
	RepoCloning    RepoState = "CLONING"
	RepoCloned     RepoState = "CLONED"
	RepoCloneError RepoState = "CLONE_ERROR"
)

// Repository locates the project sources.
type Repository struct {
	URL string `yaml:"url,omitempty"`
	// Version is the source-control version (branch, tag or revision).
	Version string `yaml:"version,omitempty"`
}

// Project is one configured product component and its configuration tree.
type Project struct {
	ID             string            `yaml:"id"`
	Product        string            `yaml:"product"`
	Kind           ProjectKind       `yaml:"kind"`
	Repository     Repository        `yaml:"repository,omitempty"`
	BuildProviders []string          `yaml:"buildProviders,omitempty"`
	Variables      map[string]string `yaml:"variables,omitempty"`
	ScriptRoot     string            `yaml:"scriptRoot,omitempty"`
	RepoState      RepoState         `yaml:"repoState,omitempty"`
	Config         []*PlatformNode   `yaml:"config,omitempty"`
}

// PlatformNode finds or creates a top-level platform node.
func (p *Project) PlatformNode(platform, provider string) *PlatformNode {
	return PlatformNodeIn(&p.Config, platform, provider)
}

// Sort orders every level of the tree: platform nodes by (platform,
// provider), tasks by ID, variants by their canonical key.
func (p *Project) Sort() {
	sort.Strings(p.BuildProviders)
	sortPlatformNodes(p.Config)
}

func sortPlatformNodes(nodes []*PlatformNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Platform != nodes[j].Platform {
			return nodes[i].Platform < nodes[j].Platform
		}
		return nodes[i].Provider < nodes[j].Provider
	})
	for _, pn := range nodes {
		sort.Slice(pn.Tasks, func(i, j int) bool {
			return pn.Tasks[i].Task < pn.Tasks[j].Task
		})
		for _, tn := range pn.Tasks {
			sort.Slice(tn.Variants, func(i, j int) bool {
				return tn.Variants[i].Values.Key() < tn.Variants[j].Values.Key()
			})
			for _, vn := range tn.Variants {
				sortPlatformNodes(vn.Nested)
			}
		}
	}
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	c.BuildProviders = append([]string(nil), p.BuildProviders...)
	if p.Variables != nil {
		c.Variables = make(map[string]string, len(p.Variables))
		for k, v := range p.Variables {
			c.Variables[k] = v
		}
	}
	c.Config = clonePlatformNodes(p.Config)
	return &c
}

func clonePlatformNodes(nodes []*PlatformNode) []*PlatformNode {
	if nodes == nil {
		return nil
	}
	out := make([]*PlatformNode, 0, len(nodes))
	for _, pn := range nodes {
		cp := &PlatformNode{Platform: pn.Platform, Provider: pn.Provider}
		for _, tn := range pn.Tasks {
			ct := &TaskNode{Task: tn.Task}
			for _, vn := range tn.Variants {
				ct.Variants = append(ct.Variants, &VariantNode{
					Values: vn.Values.Clone(),
					Nested: clonePlatformNodes(vn.Nested),
				})
			}
			cp.Tasks = append(cp.Tasks, ct)
		}
		out = append(out, cp)
	}
	return out
}

// Normalize rewrites every combination to the stored form, which leaves out
// values equal to their category default. Combinations that do not resolve
// are kept as they are for Validate to report.
func (p *Project) Normalize(ref *ReferenceData) {
	if p.Kind == ProjectKindTest {
		normalizePlatformNodes(p.Config, ref, TaskKindTest)
		return
	}
	normalizePlatformNodes(p.Config, ref, TaskKindBuild)
}

func normalizePlatformNodes(nodes []*PlatformNode, ref *ReferenceData, usage TaskKind) {
	categories := ref.Categories(usage)
	for _, pn := range nodes {
		for _, tn := range pn.Tasks {
			for _, vn := range tn.Variants {
				if choices, err := Resolve(vn.Values, categories); err == nil {
					vn.Values = ExplicitCombinationOf(choices)
				}
				normalizePlatformNodes(vn.Nested, ref, TaskKindTest)
			}
		}
	}
}

// Equivalent is Equal on normalised copies of both projects: a combination
// spelling out default values matches one that leaves them out.
func (p *Project) Equivalent(other *Project, ref *ReferenceData) bool {
	if p == nil || other == nil {
		return p == other
	}
	a, b := p.Clone(), other.Clone()
	a.Normalize(ref)
	b.Normalize(ref)
	return a.Equal(b)
}

// Equal reports whether both projects describe the same job
// set: equal scalar fields, equal build provider and variable sets, and
// configuration trees equal as sets of nodes. RepoState is runtime state and
// is ignored.
func (p *Project) Equal(other *Project) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.ID != other.ID || p.Product != other.Product || p.Kind != other.Kind ||
		p.Repository != other.Repository || p.ScriptRoot != other.ScriptRoot {
		return false
	}
	if !sameStringSet(p.BuildProviders, other.BuildProviders) {
		return false
	}
	if len(p.Variables) != len(other.Variables) {
		return false
	}
	for k, v := range p.Variables {
		if ov, ok := other.Variables[k]; !ok || ov != v {
			return false
		}
	}
	return samePlatformNodes(p.Config, other.Config)
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// samePlatformNodes compares sibling sets. Siblings are unique, so equal
// length plus every node of a having an equal partner in b is set equality.
func samePlatformNodes(a, b []*PlatformNode) bool {
	if len(a) != len(b) {
		return false
	}
	for _, an := range a {
		bn := FindPlatformNode(b, an.Platform, an.Provider)
		if bn == nil || !sameTaskNodes(an.Tasks, bn.Tasks) {
			return false
		}
	}
	return true
}

func sameTaskNodes(a, b []*TaskNode) bool {
	if len(a) != len(b) {
		return false
	}
	for _, an := range a {
		bn := Find(b, matchTask(an.Task))
		if bn == nil || !sameVariantNodes(an.Variants, bn.Variants) {
			return false
		}
	}
	return true
}

func sameVariantNodes(a, b []*VariantNode) bool {
	if len(a) != len(b) {
		return false
	}
	for _, an := range a {
		bn := Find(b, matchVariant(an.Values))
		if bn == nil || !samePlatformNodes(an.Nested, bn.Nested) {
			return false
		}
	}
	return true
}
