package dependency

import (
	"fmt"
	"sort"
	"strings"

	"distbuild/internal/job"
)

// NodeID is the unique identifier for a node, the job name.
type NodeID string

// NodeKind categorises nodes.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindPull
	KindBuild
	KindTest
)

func (k NodeKind) String() string {
	switch k {
	case KindPull:
		return "pull"
	case KindBuild:
		return "build"
	case KindTest:
		return "test"
	default:
		return "unknown"
	}
}

// Node is a job together with the jobs it needs.
type Node struct {
	ID           NodeID
	FriendlyName string
	Kind         NodeKind
	DependsOn    []NodeID
}

// Graph answers dependency queries over a fixed set of nodes.
type Graph struct {
	nodes map[NodeID]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// AddNode adds (or replaces) a node in the graph.
func (g *Graph) AddNode(n Node) {
	if g.nodes == nil {
		g.nodes = make(map[NodeID]*Node)
	}
	// Copy to avoid external mutations
	copied := n
	copied.DependsOn = append([]NodeID(nil), n.DependsOn...)
	g.nodes[n.ID] = &copied
}

// Get returns a pointer to the stored node or nil if it does not exist.
func (g *Graph) Get(id NodeID) *Node {
	return g.nodes[id]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Dependencies returns a slice of immediate dependency IDs for the given node.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	if n, ok := g.nodes[id]; ok {
		depsCopy := make([]NodeID, len(n.DependsOn))
		copy(depsCopy, n.DependsOn)
		return depsCopy
	}
	return nil
}

// Dependents returns the IDs of nodes with a direct dependency on id, sorted.
func (g *Graph) Dependents(id NodeID) []NodeID {
	var res []NodeID
	for _, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == id {
				res = append(res, n.ID)
				break
			}
		}
	}
	sortIDs(res)
	return res
}

// TopologicalSort orders nodes so that every node follows its dependencies.
// Ties are broken by kind, then ID, so the order is stable. Dependencies on
// nodes outside the graph are ignored.
func (g *Graph) TopologicalSort() ([]NodeID, error) {
	pending := make(map[NodeID]int, len(g.nodes))
	for id, n := range g.nodes {
		count := 0
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; ok {
				count++
			}
		}
		pending[id] = count
	}

	var ready []NodeID
	for id, count := range pending {
		if count == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		g.sortReady(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, dependent := range g.Dependents(next) {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var cyclic []string
		for id, count := range pending {
			if count > 0 {
				cyclic = append(cyclic, string(id))
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("dependency cycle between %s", strings.Join(cyclic, ", "))
	}
	return order, nil
}

func (g *Graph) sortReady(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool {
		ki, kj := g.nodes[ids[i]].Kind, g.nodes[ids[j]].Kind
		if ki != kj {
			return ki < kj
		}
		return ids[i] < ids[j]
	})
}

func sortIDs(ids []NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// FromJobs builds the graph of a project's jobs. Build jobs depend on the
// pull job; test jobs on the build they test, or on the pull job when they
// have no build.
func FromJobs(jobs []job.Job) *Graph {
	g := New()
	var pulls []NodeID
	for _, j := range jobs {
		if p, ok := j.(*job.Pull); ok {
			pulls = append(pulls, NodeID(p.Name()))
		}
	}

	for _, j := range jobs {
		node := job.Switch(j,
			func(p *job.Pull) Node {
				return Node{ID: NodeID(p.Name()), FriendlyName: "pull " + p.Project, Kind: KindPull}
			},
			func(b *job.Build) Node {
				return Node{
					ID:           NodeID(b.Name()),
					FriendlyName: describe(b.Target),
					Kind:         KindBuild,
					DependsOn:    pulls,
				}
			},
			func(t *job.Test) Node {
				deps := pulls
				if !t.Parent.IsZero() {
					parent := &job.Build{Common: t.Common, Target: t.Parent}
					deps = []NodeID{NodeID(parent.Name())}
				}
				return Node{
					ID:           NodeID(t.Name()),
					FriendlyName: describe(t.Target),
					Kind:         KindTest,
					DependsOn:    deps,
				}
			},
		)
		g.AddNode(node)
	}
	return g
}

func describe(t job.Target) string {
	desc := fmt.Sprintf("%s on %s", t.Task, t.PlatformName())
	if c := t.CombinationString(); c != "" {
		desc += " (" + c + ")"
	}
	return desc
}
