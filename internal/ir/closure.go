package ir

// ClosureGraph builds the procedure-reference graph of spec §4.G.1 step
// 1: an edge from P to Q whenever P's body mentions Q's self-name.
// Ported from original_source/src/ir.rs::closure_graph.
func (p *Program[B]) ClosureGraph() *Graph {
	g := NewGraph(len(p.Procedures))
	indexByID := make(map[uint32]int, len(p.Procedures))
	for i := range p.Procedures {
		indexByID[p.Procedures[i].ID()] = i
	}
	for i, proc := range p.Procedures {
		for _, atom := range proc.Body {
			if atom.Kind != AtomReference {
				continue
			}
			if j, ok := indexByID[atom.ID]; ok {
				g.AddEdge(i, j)
			}
		}
	}
	return g
}

// ClosureAnalysis computes every procedure's Closure in place (spec
// §4.G.1). Ported from original_source/src/ir.rs::closure_analysis:
// condense the reference graph into SCCs, then for each component (in
// the order Graph.SCCs already returns, equivalent to reverse
// topological order) union the free variables referenced anywhere in
// the component, substituting in the already-known closure of any
// procedure referenced from outside the component.
func (p *Program[B]) ClosureAnalysis() {
	components := p.ClosureGraph().SCCs()
	for _, component := range components {
		var union []uint32
		contains := func(id uint32) bool {
			for _, u := range union {
				if u == id {
					return true
				}
			}
			return false
		}

		for _, idx := range component {
			proc := &p.Procedures[idx]
			for _, atom := range proc.Body {
				if atom.Kind != AtomReference {
					continue
				}
				id := atom.ID
				if contains(id) || proc.hasArgument(id) {
					continue
				}
				if other, ok := p.ProcedureByID(id); ok {
					for _, item := range other.Closure {
						if !contains(item) {
							union = append(union, item)
						}
					}
				} else {
					union = append(union, id)
				}
			}
		}

		for _, idx := range component {
			proc := &p.Procedures[idx]
			var closure []uint32
			for _, id := range union {
				if !proc.hasArgument(id) {
					closure = append(closure, id)
				}
			}
			proc.Closure = closure
		}
	}
}
