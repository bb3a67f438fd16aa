package model

// Find returns the first sibling satisfying match, or nil.
func Find[T any](siblings []*T, match func(*T) bool) *T {
	for _, node := range siblings {
		if match(node) {
			return node
		}
	}
	return nil
}

// FindOrCreate returns the sibling satisfying match. When there is none it
// calls create, appends the new node to siblings and returns it. Calling it
// twice with the same predicate yields the same node, whatever the order of
// the siblings.
func FindOrCreate[T any](siblings *[]*T, match func(*T) bool, create func() *T) *T {
	if node := Find(*siblings, match); node != nil {
		return node
	}
	node := create()
	*siblings = append(*siblings, node)
	return node
}

// PlatformNode configures one platform on one provider.
type PlatformNode struct {
	Platform string      `yaml:"platform"`
	Provider string      `yaml:"provider"`
	Tasks    []*TaskNode `yaml:"tasks,omitempty"`
}

// TaskNode configures one task on its parent platform.
type TaskNode struct {
	Task     string         `yaml:"task"`
	Variants []*VariantNode `yaml:"variants,omitempty"`
}

// VariantNode is one variant combination of its parent task. For build
// projects, Nested holds the test configuration run against the build.
type VariantNode struct {
	Values Combination     `yaml:"values,omitempty"`
	Nested []*PlatformNode `yaml:"nested,omitempty"`
}

func matchPlatform(platform, provider string) func(*PlatformNode) bool {
	return func(n *PlatformNode) bool {
		return n.Platform == platform && n.Provider == provider
	}
}

func matchTask(task string) func(*TaskNode) bool {
	return func(n *TaskNode) bool {
		return n.Task == task
	}
}

func matchVariant(values Combination) func(*VariantNode) bool {
	return func(n *VariantNode) bool {
		return n.Values.Equal(values)
	}
}

// FindPlatformNode looks up (platform, provider) among siblings.
func FindPlatformNode(siblings []*PlatformNode, platform, provider string) *PlatformNode {
	return Find(siblings, matchPlatform(platform, provider))
}

// PlatformNodeIn finds or creates (platform, provider) among siblings.
func PlatformNodeIn(siblings *[]*PlatformNode, platform, provider string) *PlatformNode {
	return FindOrCreate(siblings, matchPlatform(platform, provider), func() *PlatformNode {
		return &PlatformNode{Platform: platform, Provider: provider}
	})
}

// FindTask looks up a task node.
func (n *PlatformNode) FindTask(task string) *TaskNode {
	return Find(n.Tasks, matchTask(task))
}

// TaskNode finds or creates a task node.
func (n *PlatformNode) TaskNode(task string) *TaskNode {
	return FindOrCreate(&n.Tasks, matchTask(task), func() *TaskNode {
		return &TaskNode{Task: task}
	})
}

// FindVariant looks up a variant node with exactly the given map.
func (n *TaskNode) FindVariant(values Combination) *VariantNode {
	return Find(n.Variants, matchVariant(values))
}

// Variant finds or creates a variant node with exactly the given map.
func (n *TaskNode) Variant(values Combination) *VariantNode {
	return FindOrCreate(&n.Variants, matchVariant(values), func() *VariantNode {
		return &VariantNode{Values: values.Clone()}
	})
}

// AddVariant inserts a new variant node. It returns the existing node and
// false when one with the same map is already present.
func (n *TaskNode) AddVariant(values Combination) (*VariantNode, bool) {
	if existing := n.FindVariant(values); existing != nil {
		return existing, false
	}
	node := &VariantNode{Values: values.Clone()}
	n.Variants = append(n.Variants, node)
	return node, true
}
