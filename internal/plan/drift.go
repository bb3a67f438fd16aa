package plan

import (
	"fmt"
	"sort"
	"strings"

	"distbuild/internal/model"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

// DriftReport is the line diff between a stored project and the project
// reconstructed from existing jobs.
type DriftReport struct {
	Diffs []diffmatchpatch.Diff
}

// Empty reports whether both projects render identically.
func (r *DriftReport) Empty() bool {
	for _, d := range r.Diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}
	return true
}

// String renders the diff with "-" for lines only in the stored project
// and "+" for lines only in the reconstructed one.
func (r *DriftReport) String() string {
	var b strings.Builder
	for _, d := range r.Diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
		}
	}
	return b.String()
}

// Pretty renders the diff with terminal colours.
func (r *DriftReport) Pretty() string {
	return diffmatchpatch.New().DiffPrettyText(r.Diffs)
}

// Drift diffs the canonical YAML of both projects. The repository clone
// state is not part of the comparison because jobs do not carry it.
func Drift(current, reconstructed *model.Project) (*DriftReport, error) {
	a, err := canonical(current)
	if err != nil {
		return nil, fmt.Errorf("failed to render stored project: %w", err)
	}
	b, err := canonical(reconstructed)
	if err != nil {
		return nil, fmt.Errorf("failed to render reconstructed project: %w", err)
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	return &DriftReport{Diffs: diffs}, nil
}

// canonical renders a sorted copy of p.
func canonical(p *model.Project) (string, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", err
	}
	var clone model.Project
	if err := yaml.Unmarshal(data, &clone); err != nil {
		return "", err
	}
	clone.RepoState = ""
	sort.Strings(clone.BuildProviders)
	clone.Sort()

	data, err = yaml.Marshal(&clone)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
