// Package cst implements component C (the lossless concrete syntax tree
// parser) and component D (read-only CST queries). The tree is an arena
// of elements addressed by index with parent back-references, the
// substitute the spec itself sanctions (§9) for a red-green tree such as
// original_source's rowan/cstree-backed parser.
package cst

import "github.com/recmo/olus/internal/token"

// ElementID addresses either a token or a node within a Tree's arena,
// by build order (children before their parent, so the root is always
// built last). The zero value is the first element built; functions that
// also return an ok bool return it alongside false as a placeholder.
type ElementID int

const noParent ElementID = -1

// element is one arena slot: a token (no children) or a node (kind is
// one of Root/Block/Proc/Call, children non-nil).
type element struct {
	kind     token.Kind
	span     token.Span
	parent   ElementID
	children []ElementID
}

// Tree is an immutable, lossless concrete syntax tree: every byte of
// the source appears in exactly one leaf token's span, and
// concatenating all leaf tokens in document order reproduces the
// source exactly (spec §3, Testable Property 1).
type Tree struct {
	source string
	elems  []element
	root   ElementID
}

// Source returns the full source text the tree was parsed from.
func (t *Tree) Source() string { return t.source }

// Root returns the tree's Root node.
func (t *Tree) Root() ElementID { return t.root }

// Kind returns the shared token/node Kind of id.
func (t *Tree) Kind(id ElementID) token.Kind { return t.elems[id].kind }

// Span returns id's byte span into Source(). For a node this is the
// union of its children's spans.
func (t *Tree) Span(id ElementID) token.Span { return t.elems[id].span }

// Text returns the literal source text spanned by id.
func (t *Tree) Text(id ElementID) string {
	sp := t.elems[id].span
	return t.source[sp.Start:sp.End]
}

// Parent returns id's parent node and whether it has one (only the
// root lacks a parent).
func (t *Tree) Parent(id ElementID) (ElementID, bool) {
	p := t.elems[id].parent
	return p, p != noParent
}

// Children returns id's ordered children, or nil if id is a token.
func (t *Tree) Children(id ElementID) []ElementID {
	return t.elems[id].children
}

// IsToken reports whether id is a leaf token rather than a syntax node.
func (t *Tree) IsToken(id ElementID) bool {
	return !t.elems[id].kind.IsSyntaxNode()
}

// Builder incrementally assembles a Tree bottom-up: Token appends a
// leaf, StartNode/FinishNode bracket a node's children, mirroring the
// start_node/token/finish_node shape of a rowan GreenNodeBuilder
// (original_source/src/parser.rs's Parser.builder; the spec explicitly
// permits this arena substitute in place of rowan itself).
type Builder struct {
	tree         *Tree
	openKinds    []token.Kind
	openChildren [][]ElementID
}

// NewBuilder returns a Builder over source, ready to accept Token and
// StartNode/FinishNode calls.
func NewBuilder(source string) *Builder {
	return &Builder{tree: &Tree{source: source}}
}

// Token appends a leaf token as a child of the innermost open node and
// returns its ID.
func (b *Builder) Token(kind token.Kind, span token.Span) ElementID {
	id := ElementID(len(b.tree.elems))
	b.tree.elems = append(b.tree.elems, element{kind: kind, span: span, parent: noParent})
	b.attach(id)
	return id
}

// StartNode opens a new node of the given kind; every Token/FinishNode
// call until the matching FinishNode becomes one of its children.
func (b *Builder) StartNode(kind token.Kind) {
	b.openKinds = append(b.openKinds, kind)
	b.openChildren = append(b.openChildren, nil)
}

// FinishNode closes the innermost open node, computing its span as the
// union of its children's spans, and returns its ID.
func (b *Builder) FinishNode() ElementID {
	n := len(b.openKinds) - 1
	kind := b.openKinds[n]
	children := b.openChildren[n]
	b.openKinds = b.openKinds[:n]
	b.openChildren = b.openChildren[:n]

	id := ElementID(len(b.tree.elems))
	b.tree.elems = append(b.tree.elems, element{
		kind:     kind,
		span:     spanOfChildren(b.tree, children),
		parent:   noParent,
		children: children,
	})
	for _, c := range children {
		b.tree.elems[c].parent = id
	}
	b.attach(id)
	return id
}

func (b *Builder) attach(id ElementID) {
	if len(b.openChildren) == 0 {
		return
	}
	last := len(b.openChildren) - 1
	b.openChildren[last] = append(b.openChildren[last], id)
}

func spanOfChildren(t *Tree, children []ElementID) token.Span {
	if len(children) == 0 {
		return token.Span{}
	}
	sp := t.elems[children[0]].span
	for _, c := range children[1:] {
		sp = sp.Cover(t.elems[c].span)
	}
	return sp
}

// Finish closes the single remaining open node (the Root) and returns
// the completed Tree.
func (b *Builder) Finish() *Tree {
	root := b.FinishNode()
	b.tree.root = root
	return b.tree
}
