package job

import "sort"

// Set holds jobs keyed by name.
type Set struct {
	jobs map[string]Job
}

// NewSet returns a set holding jobs. Later jobs with an already present
// name are dropped.
func NewSet(jobs ...Job) *Set {
	s := &Set{jobs: make(map[string]Job, len(jobs))}
	for _, j := range jobs {
		s.Add(j)
	}
	return s
}

// Add inserts j and reports whether its name was new.
func (s *Set) Add(j Job) bool {
	name := j.Name()
	if _, exists := s.jobs[name]; exists {
		return false
	}
	s.jobs[name] = j
	return true
}

// Get returns the job with the given name.
func (s *Set) Get(name string) (Job, bool) {
	j, ok := s.jobs[name]
	return j, ok
}

// Len returns the number of jobs.
func (s *Set) Len() int {
	return len(s.jobs)
}

// Names returns the job names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Jobs returns the jobs sorted by name.
func (s *Set) Jobs() []Job {
	names := s.Names()
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		jobs = append(jobs, s.jobs[name])
	}
	return jobs
}

// OfKind returns the jobs of one kind, sorted by name.
func (s *Set) OfKind(kind Kind) []Job {
	var out []Job
	for _, j := range s.Jobs() {
		if j.Kind() == kind {
			out = append(out, j)
		}
	}
	return out
}
