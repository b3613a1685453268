package cst

import "github.com/recmo/olus/internal/token"

// IsBinder reports whether id names a binder: an Identifier token whose
// immediate parent is a Proc (spec §4.D, §3).
func IsBinder(t *Tree, id ElementID) bool {
	if t.Kind(id) != token.Identifier {
		return false
	}
	parent, ok := t.Parent(id)
	return ok && t.Kind(parent) == token.Proc
}

// IsReference reports whether id is an Identifier token that is not a
// binder.
func IsReference(t *Tree, id ElementID) bool {
	return t.Kind(id) == token.Identifier && !IsBinder(t, id)
}

// IsStatement reports whether id is a Proc or Call node whose parent is
// a Block or the Root (spec §4.D).
func IsStatement(t *Tree, id ElementID) bool {
	k := t.Kind(id)
	if k != token.Proc && k != token.Call {
		return false
	}
	parent, ok := t.Parent(id)
	if !ok {
		return false
	}
	pk := t.Kind(parent)
	return pk == token.Block || pk == token.Root
}

// Statements returns id's direct children that are statements, in
// document order.
func Statements(t *Tree, id ElementID) []ElementID {
	var out []ElementID
	for _, c := range t.Children(id) {
		if k := t.Kind(c); k == token.Proc || k == token.Call {
			out = append(out, c)
		}
	}
	return out
}

// BodyOf locates the Call body of a Proc, implementing the policy of
// spec §4.C: an inline call child if present, else the first statement
// of a following Block, else the next sibling statement in document
// order.
func BodyOf(t *Tree, proc ElementID) (ElementID, bool) {
	for _, c := range t.Children(proc) {
		if t.Kind(c) == token.Call {
			return c, true
		}
	}
	for _, c := range t.Children(proc) {
		if t.Kind(c) != token.Block {
			continue
		}
		if stmts := Statements(t, c); len(stmts) > 0 {
			return stmts[0], true
		}
	}
	parent, ok := t.Parent(proc)
	if !ok {
		return 0, false
	}
	siblings := Statements(t, parent)
	for i, s := range siblings {
		if s == proc {
			if i+1 < len(siblings) && t.Kind(siblings[i+1]) == token.Call {
				return siblings[i+1], true
			}
			return 0, false
		}
	}
	return 0, false
}

// Identifiers returns every Identifier token beneath (and including)
// id, in document order.
func Identifiers(t *Tree, id ElementID) []ElementID {
	var out []ElementID
	var walk func(ElementID)
	walk = func(n ElementID) {
		if t.Kind(n) == token.Identifier {
			out = append(out, n)
			return
		}
		for _, c := range t.Children(n) {
			walk(c)
		}
	}
	walk(id)
	return out
}

// EnclosingScope returns the nearest Block or Root containing id (not
// id itself), the scope a reference searches per spec §4.E.
func EnclosingScope(t *Tree, id ElementID) (ElementID, bool) {
	cur, ok := t.Parent(id)
	for ok {
		if k := t.Kind(cur); k == token.Block || k == token.Root {
			return cur, true
		}
		cur, ok = t.Parent(cur)
	}
	return 0, false
}
