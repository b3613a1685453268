// Package resolver implements component E: it links every reference
// Identifier in a CST to the binder Identifier it resolves to, using
// the bidirectional, shadowed scope search of spec §4.E. The visitor
// shape (a scope stack, binder/reference split) is grounded on
// original_source/src/parser/name_resolution.rs, generalized from that
// file's simpler forward-only, innermost-shadows-outer walk to the
// spec's two-directional in-scope search with forward-reference
// support.
package resolver

import (
	"github.com/recmo/olus/internal/cst"
	"github.com/recmo/olus/internal/token"
)

// Resolution is the result of resolving every reference in a tree:
// a total mapping from reference to binder over the references that
// successfully resolved (spec §3).
//
// Resolution does not itself diagnose unresolved references: per spec
// §4.E/§4.F, a reference that finds no binder here is not necessarily
// an error — it may still name a built-in, which only the IR compiler
// (component F) can tell by consulting the external builtins callback.
// The UnresolvedName diagnostic is raised there, not here.
type Resolution struct {
	binderOf map[cst.ElementID]cst.ElementID
}

// Binder returns the binder ref resolves to, if any.
func (r *Resolution) Binder(ref cst.ElementID) (cst.ElementID, bool) {
	b, ok := r.binderOf[ref]
	return b, ok
}

// Len reports how many references resolved successfully.
func (r *Resolution) Len() int { return len(r.binderOf) }

// Resolve computes the Resolution for every reference Identifier in t.
func Resolve(t *cst.Tree) *Resolution {
	res := &Resolution{binderOf: make(map[cst.ElementID]cst.ElementID)}
	for _, id := range cst.Identifiers(t, t.Root()) {
		if !cst.IsReference(t, id) {
			continue
		}
		if binder, ok := resolveOne(t, id); ok {
			res.binderOf[id] = binder
		}
	}
	return res
}

// resolveOne searches outward from ref's enclosing scope, per spec
// §4.E: within each scope, the reference's (or, once recursing, its
// containing scope's) position is probed backward then forward before
// trying the parent scope.
func resolveOne(t *cst.Tree, ref cst.ElementID) (cst.ElementID, bool) {
	text := t.Text(ref)
	scope, ok := cst.EnclosingScope(t, ref)
	probe := ref
	for ok {
		if binder, found := searchScope(t, scope, probe, text); found {
			return binder, true
		}
		probe = scope
		scope, ok = cst.EnclosingScope(t, scope)
	}
	return 0, false
}

// searchScope builds scope's direct identifier sequence (skipping any
// nested Block subtree entirely) together with the index `probe`
// occupies in it, then scans backward from that index to the scope
// start and, failing that, forward to the scope end, for a binder whose
// text matches.
func searchScope(t *cst.Tree, scope, probe cst.ElementID, text string) (cst.ElementID, bool) {
	order, anchor := scopeOrder(t, scope, probe)
	if anchor < 0 {
		return 0, false
	}
	for i := anchor - 1; i >= 0; i-- {
		if cst.IsBinder(t, order[i]) && t.Text(order[i]) == text {
			return order[i], true
		}
	}
	for i := anchor + 1; i < len(order); i++ {
		if cst.IsBinder(t, order[i]) && t.Text(order[i]) == text {
			return order[i], true
		}
	}
	return 0, false
}

// scopeOrder walks scope's subtree in document order, collecting every
// Identifier token while treating nested Block subtrees as opaque
// (neither descended into nor added). probe is either the reference
// itself (when scope is its immediate enclosing scope, so probe is one
// of the collected identifiers) or a Block being skipped one level up
// (when scope is an ancestor scope reached by recursion, so probe's
// position is the point where that Block was skipped). anchor is -1 if
// probe was not encountered at all.
func scopeOrder(t *cst.Tree, scope, probe cst.ElementID) (order []cst.ElementID, anchor int) {
	anchor = -1
	var walk func(cst.ElementID)
	walk = func(id cst.ElementID) {
		switch t.Kind(id) {
		case token.Identifier:
			order = append(order, id)
			if id == probe {
				anchor = len(order) - 1
			}
		case token.Block:
			if id == probe {
				anchor = len(order)
			}
		default:
			for _, c := range t.Children(id) {
				walk(c)
			}
		}
	}
	for _, c := range t.Children(scope) {
		walk(c)
	}
	return order, anchor
}
