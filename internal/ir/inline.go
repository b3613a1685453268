package ir

// Inline performs the optional inlining pass of spec §4.G.3: whenever a
// procedure's body head is a reference to another known procedure whose
// arity matches the call's actual argument count, that procedure's body
// is substituted in with its parameters mapped to the call's atoms.
// Never required by the spec; skipping this pass is always a
// conforming choice.
//
// Inline should run before ClosureAnalysis: substituted bodies can
// introduce references that were not previously free in the caller, and
// closure sets must be (re)computed against the final body shape.
func (p *Program[B]) Inline() {
	for i := range p.Procedures {
		p.inlineHead(i, map[uint32]bool{p.Procedures[i].ID(): true})
	}
}

// inlineHead repeatedly inlines proc's body head while it is a
// reference to an unvisited procedure of matching arity, guarding
// against cycles via visiting.
func (p *Program[B]) inlineHead(idx int, visiting map[uint32]bool) {
	proc := &p.Procedures[idx]
	if len(proc.Body) == 0 {
		return
	}
	head := proc.Body[0]
	if head.Kind != AtomReference {
		return
	}
	target, ok := p.ProcedureByID(head.ID)
	if !ok || visiting[target.ID()] {
		return
	}
	actuals := proc.Body[1:]
	if len(target.Arguments) != len(actuals)+1 {
		return
	}

	substitution := make(map[uint32]Atom[B], len(target.Arguments)-1)
	for i, arg := range target.Arguments[1:] {
		substitution[arg.ID] = actuals[i]
	}

	body := make([]Atom[B], len(target.Body))
	for i, atom := range target.Body {
		if atom.Kind == AtomReference {
			if replacement, ok := substitution[atom.ID]; ok {
				body[i] = replacement
				continue
			}
		}
		body[i] = atom
	}
	proc.Body = body

	visiting[target.ID()] = true
	defer delete(visiting, target.ID())
	p.inlineHead(idx, visiting)
}
