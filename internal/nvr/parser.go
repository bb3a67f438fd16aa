package nvr

import (
	"strings"

	"distbuild/internal/model"
	"distbuild/pkg/logging"
)

// DefaultSourcesMarker is the platform token of source archives.
const DefaultSourcesMarker = "src"

// Dictionaries are the reference values one parse call resolves against.
type Dictionaries struct {
	Packages []string
	Projects []string
	// Categories are the build variant categories in declared order.
	Categories    []*model.VariantCategory
	SourcesMarker string
}

// NewDictionaries takes the dictionaries from a reference snapshot. An
// empty marker selects DefaultSourcesMarker.
func NewDictionaries(ref *model.ReferenceData, sourcesMarker string) Dictionaries {
	if sourcesMarker == "" {
		sourcesMarker = DefaultSourcesMarker
	}
	return Dictionaries{
		Packages:      ref.Packages(),
		Projects:      ref.Projects(),
		Categories:    ref.Categories(model.TaskKindBuild),
		SourcesMarker: sourcesMarker,
	}
}

func (d Dictionaries) hasProject(id string) bool {
	for _, p := range d.Projects {
		if p == id {
			return true
		}
	}
	return false
}

func (d Dictionaries) marker() string {
	if d.SourcesMarker == "" {
		return DefaultSourcesMarker
	}
	return d.SourcesMarker
}

// CutPackage selects the longest known package name that prefixes id and is
// followed by the separator, and returns it with the text after the
// separator.
func CutPackage(id string, packages []string) (name, rest string, err error) {
	for _, candidate := range packages {
		if candidate == "" || len(candidate) <= len(name) {
			continue
		}
		if strings.HasPrefix(id, candidate+Separator) {
			name = candidate
		}
	}
	if name == "" {
		return "", "", newError(UnknownPackageName, id, "")
	}
	return name, id[len(name)+len(Separator):], nil
}

// ParseBuild parses package-version-changeset[.garbage...].project.
func ParseBuild(id string, dict Dictionaries) (Build, error) {
	b, tokens, err := cutRelease(id, dict)
	if err != nil {
		return Build{}, err
	}
	if err := cutBuildTail(&b, id, tokens, dict); err != nil {
		return Build{}, err
	}
	return b, nil
}

// ParseArchive parses an archive identifier. Variant tokens are matched
// against the build categories from the last declared one backwards; a
// category whose value is absent takes its default.
func ParseArchive(id string, dict Dictionaries) (Archive, error) {
	b, tokens, err := cutRelease(id, dict)
	if err != nil {
		return Archive{}, err
	}

	n := len(tokens)
	marker := dict.marker()
	var a Archive

	if n >= 2 && tokens[n-2] == marker {
		if n < 4 {
			return Archive{}, newError(MissingChangeSetOrProject, id, tokens[0])
		}
		a.Suffix = tokens[n-1]
		a.Platform = marker
		a.Sources = true
		tokens = tokens[:n-2]
	} else {
		// changeset, project, os, arch, suffix
		if n < 5 {
			return Archive{}, newError(MissingChangeSetOrProject, id, tokens[0])
		}
		a.Suffix = tokens[n-1]
		a.Platform = tokens[n-3] + Delimiter + tokens[n-2]
		tokens = tokens[:n-3]

		a.Variants = make([]Variant, len(dict.Categories))
		for i := len(dict.Categories) - 1; i >= 0; i-- {
			category := dict.Categories[i]
			last := tokens[len(tokens)-1]
			if !category.Has(last) {
				a.Variants[i] = Variant{Category: category.ID, Value: category.Default}
				continue
			}
			if len(tokens)-1 < 2 {
				return Archive{}, newError(MissingChangeSetOrProject, id, last)
			}
			a.Variants[i] = Variant{Category: category.ID, Value: last, Explicit: true}
			tokens = tokens[:len(tokens)-1]
		}
	}

	if err := cutBuildTail(&b, id, tokens, dict); err != nil {
		return Archive{}, err
	}
	a.Build = b
	logging.Debug("NVR", "Parsed archive %s: project=%s platform=%s variants=%d", id, b.Project, a.Platform, len(a.Variants))
	return a, nil
}

// cutRelease performs the package and version cuts and splits the release
// into tokens. The returned Build has Package, Version and ChangeSet set.
func cutRelease(id string, dict Dictionaries) (Build, []string, error) {
	pkg, rest, err := CutPackage(id, dict.Packages)
	if err != nil {
		return Build{}, nil, err
	}
	parts := strings.Split(rest, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Build{}, nil, newError(MalformedNVR, id, rest)
	}
	tokens := strings.Split(parts[1], Delimiter)
	if len(tokens) < 2 {
		return Build{}, nil, newError(MissingChangeSetOrProject, id, parts[1])
	}
	return Build{Package: pkg, Version: parts[0], ChangeSet: tokens[0]}, tokens, nil
}

// cutBuildTail takes the project from the last token and keeps the tokens
// between change-set and project as garbage. tokens[0] is the change-set.
func cutBuildTail(b *Build, id string, tokens []string, dict Dictionaries) error {
	if len(tokens) < 2 {
		return newError(MissingChangeSetOrProject, id, strings.Join(tokens, Delimiter))
	}
	project := tokens[len(tokens)-1]
	if !dict.hasProject(project) {
		return newError(UnknownProjectName, id, project)
	}
	b.Project = project
	if garbage := tokens[1 : len(tokens)-1]; len(garbage) > 0 {
		b.Garbage = append([]string(nil), garbage...)
	}
	return nil
}
