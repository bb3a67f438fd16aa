package job

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the serialised form of a job, used for job set files and for
// json/yaml output.
type Record struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Archived bool   `json:"archived,omitempty" yaml:"archived,omitempty"`
	Common   `yaml:",inline"`
	// Combinations is set on pull jobs.
	Combinations []string `json:"combinations,omitempty" yaml:"combinations,omitempty"`
	// Target is set on build and test jobs; Parent on test jobs.
	Target *Target `json:"target,omitempty" yaml:"target,omitempty"`
	Parent *Target `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Entry is a job in an existing job inventory. Archived jobs are disabled
// in the CI system but still present.
type Entry struct {
	Job      Job
	Archived bool
}

// NewRecord converts a job.
func NewRecord(j Job, archived bool) Record {
	r := Record{Kind: j.Kind(), Name: j.Name(), Archived: archived, Common: j.Shared()}
	Switch(j,
		func(p *Pull) struct{} {
			r.Combinations = p.Combinations
			return struct{}{}
		},
		func(b *Build) struct{} {
			target := b.Target
			r.Target = &target
			return struct{}{}
		},
		func(t *Test) struct{} {
			target, parent := t.Target, t.Parent
			r.Target = &target
			if !parent.IsZero() {
				r.Parent = &parent
			}
			return struct{}{}
		},
	)
	return r
}

// Job converts the record back. A recorded name must match the name
// computed from the fields.
func (r Record) Job() (Job, error) {
	var j Job
	switch r.Kind {
	case KindPull:
		j = &Pull{Common: r.Common, Combinations: r.Combinations}
	case KindBuild:
		if r.Target == nil {
			return nil, fmt.Errorf("build job %q has no target", r.Name)
		}
		j = &Build{Common: r.Common, Target: *r.Target}
	case KindTest:
		if r.Target == nil {
			return nil, fmt.Errorf("test job %q has no target", r.Name)
		}
		t := &Test{Common: r.Common, Target: *r.Target}
		if r.Parent != nil {
			t.Parent = *r.Parent
		}
		j = t
	default:
		return nil, fmt.Errorf("job %q has unknown kind %s", r.Name, r.Kind)
	}
	if r.Name != "" && r.Name != j.Name() {
		return nil, fmt.Errorf("job %q does not match its fields, which name it %q", r.Name, j.Name())
	}
	return j, nil
}

// Records converts jobs to records.
func Records(jobs []Job) []Record {
	records := make([]Record, 0, len(jobs))
	for _, j := range jobs {
		records = append(records, NewRecord(j, false))
	}
	return records
}

// MarshalJobs writes jobs as a YAML list of records.
func MarshalJobs(jobs []Job) ([]byte, error) {
	return yaml.Marshal(Records(jobs))
}

// UnmarshalJobs reads a YAML list of records, ignoring archived flags.
func UnmarshalJobs(data []byte) ([]Job, error) {
	entries, err := UnmarshalInventory(data)
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, e.Job)
	}
	return jobs, nil
}

// MarshalInventory writes entries as a YAML list of records.
func MarshalInventory(entries []Entry) ([]byte, error) {
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, NewRecord(e.Job, e.Archived))
	}
	return yaml.Marshal(records)
}

// UnmarshalInventory reads a YAML list of records.
func UnmarshalInventory(data []byte) ([]Entry, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse job records: %w", err)
	}
	entries := make([]Entry, 0, len(records))
	for i, r := range records {
		j, err := r.Job()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entries = append(entries, Entry{Job: j, Archived: r.Archived})
	}
	return entries, nil
}
