package ir

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedComponents(components [][]int) [][]int {
	out := make([][]int, len(components))
	for i, c := range components {
		cp := append([]int(nil), c...)
		sort.Ints(cp)
		out[i] = cp
	}
	return out
}

func TestGraphSCCsAcyclic(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	components := sortedComponents(g.SCCs())
	// Dependencies come out before dependents: 2 (a sink) before 1, 1
	// before 0.
	assert.Equal(t, [][]int{{2}, {1}, {0}}, components)
}

func TestGraphSCCsCycle(t *testing.T) {
	g := NewGraph(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(1, 2)
	components := sortedComponents(g.SCCs())
	assert.Equal(t, [][]int{{2}, {0, 1}}, components)
}
