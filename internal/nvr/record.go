package nvr

import (
	"strings"

	"distbuild/internal/model"
)

const (
	// Separator splits package, version and release.
	Separator = "-"
	// Delimiter splits the release into tokens.
	Delimiter = "."
)

// Field is one named part of a parsed identifier, for display.
type Field struct {
	Name  string
	Value string
}

// Record is any parsed identifier.
type Record interface {
	// String re-emits the identifier.
	String() string
	Fields() []Field
}

// Build is a parsed build identifier.
type Build struct {
	Package   string `json:"package" yaml:"package"`
	Version   string `json:"version" yaml:"version"`
	ChangeSet string `json:"changeSet" yaml:"changeSet"`
	// Garbage holds free-form tokens between change-set and project,
	// preserved verbatim.
	Garbage []string `json:"garbage,omitempty" yaml:"garbage,omitempty"`
	Project string   `json:"project" yaml:"project"`
}

// Release is changeset[.garbage...].project.
func (b Build) Release() string {
	tokens := make([]string, 0, len(b.Garbage)+2)
	tokens = append(tokens, b.ChangeSet)
	tokens = append(tokens, b.Garbage...)
	tokens = append(tokens, b.Project)
	return strings.Join(tokens, Delimiter)
}

func (b Build) String() string {
	return b.Package + Separator + b.Version + Separator + b.Release()
}

func (b Build) Fields() []Field {
	return []Field{
		{"package", b.Package},
		{"version", b.Version},
		{"changeset", b.ChangeSet},
		{"garbage", strings.Join(b.Garbage, Delimiter)},
		{"project", b.Project},
		{"release", b.Release()},
	}
}

// Variant is one (category, value) pair of an archive.
type Variant struct {
	Category string `json:"category" yaml:"category"`
	Value    string `json:"value" yaml:"value"`
	// Explicit is set when the value appears as a token; default values are
	// filled in without one.
	Explicit bool `json:"explicit,omitempty" yaml:"explicit,omitempty"`
}

// Archive is a parsed archive identifier.
type Archive struct {
	Build `yaml:",inline"`
	// Variants lists every build category in declared order. Source archives
	// have none.
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
	// Platform is "os.arch", or the sources marker for source archives.
	Platform string `json:"platform" yaml:"platform"`
	Suffix   string `json:"suffix" yaml:"suffix"`
	Sources  bool   `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Combination returns the variant values keyed by category.
func (a Archive) Combination() model.Combination {
	c := make(model.Combination, len(a.Variants))
	for _, v := range a.Variants {
		c[v.Category] = v.Value
	}
	return c
}

func (a Archive) String() string {
	var sb strings.Builder
	sb.WriteString(a.Build.String())
	for _, v := range a.Variants {
		if v.Explicit {
			sb.WriteString(Delimiter + v.Value)
		}
	}
	sb.WriteString(Delimiter + a.Platform)
	sb.WriteString(Delimiter + a.Suffix)
	return sb.String()
}

func (a Archive) Fields() []Field {
	fields := a.Build.Fields()
	for _, v := range a.Variants {
		value := v.Value
		if !v.Explicit {
			value += " (default)"
		}
		fields = append(fields, Field{"variant " + v.Category, value})
	}
	return append(fields,
		Field{"platform", a.Platform},
		Field{"suffix", a.Suffix},
	)
}
