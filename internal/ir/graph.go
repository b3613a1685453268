package ir

// Graph is a directed graph over node indices [0, n), used by closure
// analysis (spec §4.G.1) to find strongly connected components of the
// procedure-reference graph. Grounded on
// original_source/src/ir.rs::closure_graph, which built this same graph
// shape and then called petgraph's condensation/toposort; no repo in
// the pack imports a graph library (checked every go.mod), so Tarjan's
// algorithm is hand-rolled here rather than left to the standard
// library by default — this is the one core component with no library
// home in the pack.
type Graph struct {
	edges [][]int
}

// NewGraph allocates a graph over n nodes with no edges.
func NewGraph(n int) *Graph {
	return &Graph{edges: make([][]int, n)}
}

// AddEdge records an edge from -> to.
func (g *Graph) AddEdge(from, to int) {
	g.edges[from] = append(g.edges[from], to)
}

// SCCs returns the graph's strongly connected components via Tarjan's
// algorithm. A component is only emitted once every component it can
// reach has already been emitted, so the returned order already
// satisfies spec §4.G.1's "reverse topological order": whenever a
// component is visited, the closures of every procedure it points to
// outside itself have already been computed.
func (g *Graph) SCCs() [][]int {
	n := len(g.edges)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	var components [][]int
	counter := 0

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			switch {
			case index[w] == -1:
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			case onStack[w]:
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var component []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			components = append(components, component)
		}
	}

	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return components
}
