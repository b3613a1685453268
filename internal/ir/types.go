// Package ir implements the CPS intermediate representation (spec §3),
// the IR compiler (component F, compile.go) and the mandatory closure
// analysis, tree-shaking and optional inlining (component G). Types and
// the program-level helpers in this file are ported from
// original_source/src/ir.rs, with the builtin tag's Rust generic
// parameter `B` carried over directly as a Go type parameter — the
// pack already uses that pattern (clarete-langlang's tree printer,
// opal-lang-opal's decoder) for the same "opaque payload, shared
// shape" reason.
package ir

import "github.com/recmo/olus/internal/token"

// Identifier names a binder: either a source binder (Named) or one
// synthesized by the compiler during call/procedure lifting.
type Identifier struct {
	Span  token.Span
	Named bool
	ID    uint32
}

// AtomKind discriminates the closed Atom sum (spec §9: "a small closed
// sum" should use a tagged variant, not virtual dispatch).
type AtomKind int

const (
	AtomReference AtomKind = iota
	AtomString
	AtomNumber
	AtomBuiltin
)

// Atom is one CPS operand: a reference to an Identifier.ID, a decoded
// literal, or an opaque built-in tag. Only the field matching Kind is
// meaningful.
type Atom[B any] struct {
	Kind    AtomKind
	Span    token.Span
	ID      uint32 // AtomReference
	Value   string // AtomString, already unescaped
	Number  uint64 // AtomNumber
	Builtin B      // AtomBuiltin
}

func ReferenceAtom[B any](span token.Span, id uint32) Atom[B] {
	return Atom[B]{Kind: AtomReference, Span: span, ID: id}
}

func StringAtom[B any](span token.Span, value string) Atom[B] {
	return Atom[B]{Kind: AtomString, Span: span, Value: value}
}

func NumberAtom[B any](span token.Span, value uint64) Atom[B] {
	return Atom[B]{Kind: AtomNumber, Span: span, Number: value}
}

func BuiltinAtom[B any](span token.Span, builtin B) Atom[B] {
	return Atom[B]{Kind: AtomBuiltin, Span: span, Builtin: builtin}
}

// Procedure is a single CPS continuation: a self-name, its parameters,
// its free-variable closure (empty until G.1 runs) and a flat call body.
type Procedure[B any] struct {
	Span      token.Span
	Arguments []Identifier
	Closure   []uint32
	Body      []Atom[B]
}

// Name returns the procedure's self-name: arguments[0], per the spec's
// resolution of the self-name-placement open question (§9).
func (p *Procedure[B]) Name() Identifier { return p.Arguments[0] }

// ID returns the procedure's self-name id.
func (p *Procedure[B]) ID() uint32 { return p.Name().ID }

func (p *Procedure[B]) hasArgument(id uint32) bool {
	for _, arg := range p.Arguments {
		if arg.ID == id {
			return true
		}
	}
	return false
}

// Program owns the source text and every procedure compiled from it.
// Procedure self-names are unique (spec §3).
type Program[B any] struct {
	Source     string
	Procedures []Procedure[B]
}

// ProcedureByID finds the procedure whose self-name is id.
func (p *Program[B]) ProcedureByID(id uint32) (*Procedure[B], bool) {
	for i := range p.Procedures {
		if p.Procedures[i].ID() == id {
			return &p.Procedures[i], true
		}
	}
	return nil, false
}

// ProcedureByName finds the procedure named name in source text.
func (p *Program[B]) ProcedureByName(name string) (*Procedure[B], bool) {
	for i := range p.Procedures {
		if p.String(p.Procedures[i].Name().Span) == name {
			return &p.Procedures[i], true
		}
	}
	return nil, false
}

// Identifiers iterates every procedure's arguments (the universe of ids
// the program defines).
func (p *Program[B]) Identifiers() []Identifier {
	var out []Identifier
	for _, proc := range p.Procedures {
		out = append(out, proc.Arguments...)
	}
	return out
}

// String slices the program's source by span.
func (p *Program[B]) String(span token.Span) string {
	return p.Source[span.Start:span.End]
}

// IDString returns the source text backing id, if it names a Named
// identifier (i.e. came from a source binder rather than the compiler's
// fresh-variable table).
func (p *Program[B]) IDString(id uint32) (string, bool) {
	for _, ident := range p.Identifiers() {
		if ident.ID == id {
			if ident.Named {
				return p.String(ident.Span), true
			}
			return "", false
		}
	}
	return "", false
}
