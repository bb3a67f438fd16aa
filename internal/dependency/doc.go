// Package dependency provides a small directed acyclic graph of pipeline
// jobs.
//
// The graph answers the ordering questions the change planner asks: which
// jobs must exist before a job can be created, and which jobs are affected
// when one is archived.
//
// # Job Hierarchy
//
// Every project has one pull job at the root:
//
//	Pull (fetches the sources, no dependencies)
//	    ↓
//	Build (one per build variant, depends on the pull job)
//	    ↓
//	Test (one per test variant, depends on the build it tests)
//
// Test jobs of test-only projects have no build and depend on the pull job
// directly.
//
// # Usage Example
//
//	graph := dependency.FromJobs(jobs.Jobs())
//
//	// Creation order: pull, builds, tests
//	order, err := graph.TopologicalSort()
//
//	// Jobs testing a build
//	tests := graph.Dependents("compile-core-engine-el7.vm-on-asan")
//
// # Thread Safety
//
// Graph is not safe for concurrent writes; callers build it once and then
// only read it.
package dependency
