package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreate_Idempotent(t *testing.T) {
	var nodes []*PlatformNode

	first := PlatformNodeIn(&nodes, "el7", "vm")
	second := PlatformNodeIn(&nodes, "el7", "vm")
	require.Len(t, nodes, 1)
	assert.Same(t, first, second)

	other := PlatformNodeIn(&nodes, "el7", "docker")
	require.Len(t, nodes, 2)
	assert.NotSame(t, first, other)
}

func TestFindOrCreate_OrderIndependent(t *testing.T) {
	a := []*PlatformNode{{Platform: "el7", Provider: "vm"}, {Platform: "win10", Provider: "vm"}}
	b := []*PlatformNode{{Platform: "win10", Provider: "vm"}, {Platform: "el7", Provider: "vm"}}

	na := PlatformNodeIn(&a, "win10", "vm")
	nb := PlatformNodeIn(&b, "win10", "vm")
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)
	assert.Equal(t, na, nb)
}

func TestFind_Missing(t *testing.T) {
	pn := &PlatformNode{Platform: "el7", Provider: "vm"}
	assert.Nil(t, pn.FindTask("compile"))

	tn := pn.TaskNode("compile")
	assert.Same(t, tn, pn.FindTask("compile"))
	assert.Same(t, tn, pn.TaskNode("compile"))
	assert.Len(t, pn.Tasks, 1)
}

func TestTaskNode_Variants(t *testing.T) {
	tn := &TaskNode{Task: "compile"}

	v1, added := tn.AddVariant(Combination{"debug": "on"})
	require.True(t, added)

	v2, added := tn.AddVariant(Combination{"debug": "on"})
	assert.False(t, added)
	assert.Same(t, v1, v2)

	// Map equality, not subset.
	_, added = tn.AddVariant(Combination{"debug": "on", "sanitizer": "asan"})
	assert.True(t, added)
	assert.Len(t, tn.Variants, 2)

	assert.Same(t, v1, tn.Variant(Combination{"debug": "on"}))
	assert.Nil(t, tn.FindVariant(Combination{}))
	empty := tn.Variant(Combination{})
	assert.NotNil(t, empty)
	assert.Len(t, tn.Variants, 3)
}

func TestTaskNode_AddVariantCopiesValues(t *testing.T) {
	tn := &TaskNode{Task: "compile"}
	values := Combination{"debug": "on"}
	node, _ := tn.AddVariant(values)

	values["debug"] = "off"
	assert.Equal(t, "on", node.Values["debug"])
}
