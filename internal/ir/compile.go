package ir

import (
	"strconv"
	"unicode/utf8"

	"github.com/recmo/olus/internal/cst"
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/resolver"
	"github.com/recmo/olus/internal/token"
)

// expressionKind distinguishes the three shapes an expression can take
// before call-lifting and procedure-lifting flatten it down to an Atom
// (spec §4.F).
type expressionKind int

const (
	exprAtom expressionKind = iota
	exprProcedure
	exprCall
)

// expression mirrors original_source/src/front/compiler.rs's local
// `Expression<B>` enum: the pre-lowering shape the compiler rewrites
// until only exprAtom survives.
type expression[B any] struct {
	kind      expressionKind
	span      token.Span
	atom      Atom[B]
	arguments []Identifier
	body      []expression[B]
}

func (e expression[B]) source() token.Span {
	if e.kind == exprAtom {
		return e.atom.Span
	}
	return e.span
}

// Builtins maps identifier text to an opaque built-in tag, the external
// collaborator of spec §6. A false second return means the identifier
// is not a built-in.
type Builtins[B any] func(name string) (B, bool)

// compiler lowers a resolved CST into CPS IR (component F), grounded on
// original_source/src/front/compiler.rs's Compiler struct and
// compile_node/compile_call/parse_expression/parse_atom/parse_binder
// methods.
type compiler[B any] struct {
	tree     *cst.Tree
	res      *resolver.Resolution
	builtins Builtins[B]
	diags    *diagnostics.Diagnostics

	binderOf    map[cst.ElementID]Identifier
	identifiers []Identifier // id-allocation counter, mirrors compiler.rs's `identifiers`
	program     Program[B]
}

// Compile lowers t, using res to link references to binders and
// builtins to resolve any reference with no binder, into a Program.
// Unresolved identifiers (neither a binder nor a built-in) are reported
// as UnresolvedName diagnostics and dropped from the call they appear in,
// so compilation can continue best-effort (spec §7: lexer/parser style
// error accumulation, not abort-on-first-error).
func Compile[B any](t *cst.Tree, res *resolver.Resolution, builtins Builtins[B], diags *diagnostics.Diagnostics) *Program[B] {
	c := &compiler[B]{
		tree:     t,
		res:      res,
		builtins: builtins,
		diags:    diags,
		binderOf: make(map[cst.ElementID]Identifier),
		program:  Program[B]{Source: t.Source()},
	}
	c.compileNode(t.Root())
	return &c.program
}

// compileNode walks the Root/Block spine, lowering every top-level Proc
// statement to a Procedure.
func (c *compiler[B]) compileNode(id cst.ElementID) {
	switch c.tree.Kind(id) {
	case token.Root, token.Block:
		for _, child := range c.tree.Children(id) {
			c.compileNode(child)
		}
	case token.Proc:
		c.compileProc(id)
	case token.Call:
		// TODO: detect calls that are never reachable from any procedure
		// body (a bare top-level Call has no binder anything can transfer
		// control into).
	}
}

func (c *compiler[B]) compileProc(id cst.ElementID) {
	span := c.tree.Span(id)
	arguments := c.binders(id)
	bodyNode, ok := cst.BodyOf(c.tree, id)
	if !ok {
		if c.diags != nil {
			c.diags.Add(diagnostics.New(diagnostics.ParseExpected, span,
				"procedure has no call body"))
		}
		return
	}
	body := c.compileCall(c.parseCallExpressions(bodyNode))
	c.program.Procedures = append(c.program.Procedures, Procedure[B]{
		Span:      span,
		Arguments: arguments,
		Body:      body,
	})
}

// binders collects id's own direct Identifier children: the `Identifier+`
// portion of a Proc production, never descending into its Call/Block
// children.
func (c *compiler[B]) binders(proc cst.ElementID) []Identifier {
	var out []Identifier
	for _, child := range c.tree.Children(proc) {
		if c.tree.Kind(child) == token.Identifier {
			out = append(out, c.parseBinder(child))
		}
	}
	return out
}

// compileCall lowers a call of expressions into a call of atoms via the
// two rewrites of spec §4.F: call-lifting then procedure-lifting,
// iterated until only atoms remain. Ported directly from
// compiler.rs::compile_call.
func (c *compiler[B]) compileCall(expr []expression[B]) []Atom[B] {
	// Call lifting: replace the first nested Call with a reference to a
	// fresh binder, wrap the whole outer call into a continuation
	// procedure over that binder, and make the lifted call's own body the
	// current call with that continuation appended as its last argument.
	for {
		callIdx := -1
		for i, e := range expr {
			if e.kind == exprCall {
				callIdx = i
				break
			}
		}
		if callIdx < 0 {
			break
		}

		source := expr[callIdx].source()
		definition, reference := c.freshVariable(false, source)

		body := expr[callIdx].body
		expr[callIdx] = expression[B]{kind: exprAtom, span: source, atom: reference}

		rest := expr
		expr = body
		expr = append(expr, expression[B]{
			kind:      exprProcedure,
			span:      source,
			arguments: []Identifier{definition},
			body:      rest,
		})
	}

	// Procedure lifting: give every remaining Procedure expression a
	// name and emit it as a top-level Procedure, replacing it in the
	// call with a reference to that name.
	atoms := make([]Atom[B], len(expr))
	for i, e := range expr {
		switch e.kind {
		case exprAtom:
			atoms[i] = e.atom
		case exprProcedure:
			definition, reference := c.freshVariable(false, e.span)
			arguments := append([]Identifier{definition}, e.arguments...)
			body := c.compileCall(e.body)
			c.program.Procedures = append(c.program.Procedures, Procedure[B]{
				Span:      e.span,
				Arguments: arguments,
				Body:      body,
			})
			atoms[i] = reference
		}
	}
	return atoms
}

// parseCallExpressions lowers the direct expression children of a Call
// node (or the Call node BodyOf resolved for a Proc).
func (c *compiler[B]) parseCallExpressions(id cst.ElementID) []expression[B] {
	var out []expression[B]
	for _, child := range c.tree.Children(id) {
		if expr, ok := c.parseExpression(child); ok {
			out = append(out, expr)
		}
	}
	return out
}

func (c *compiler[B]) parseExpression(id cst.ElementID) (expression[B], bool) {
	if c.tree.IsToken(id) {
		atom, ok := c.parseAtom(id)
		if !ok {
			return expression[B]{}, false
		}
		return expression[B]{kind: exprAtom, span: atom.Span, atom: atom}, true
	}
	switch c.tree.Kind(id) {
	case token.Proc:
		span := c.tree.Span(id)
		arguments := c.binders(id)
		bodyNode, ok := cst.BodyOf(c.tree, id)
		if !ok {
			return expression[B]{}, false
		}
		return expression[B]{
			kind:      exprProcedure,
			span:      span,
			arguments: arguments,
			body:      c.parseCallExpressions(bodyNode),
		}, true
	case token.Call:
		return expression[B]{
			kind: exprCall,
			span: c.tree.Span(id),
			body: c.parseCallExpressions(id),
		}, true
	default:
		return expression[B]{}, false
	}
}

// parseBinder returns the Identifier already registered for a binder
// token, or registers a fresh one keyed on its CST element (a stable
// arena index, generalizing compiler.rs::parse_binder's span-keyed
// lookup, which needed a text range because the Rust CST had no
// equivalent stable id to key on directly).
func (c *compiler[B]) parseBinder(id cst.ElementID) Identifier {
	if ident, ok := c.binderOf[id]; ok {
		return ident
	}
	ident, _ := c.freshVariable(true, c.tree.Span(id))
	c.binderOf[id] = ident
	return ident
}

// parseAtom lowers a leaf token to an Atom: String/Number literals
// decode directly; an Identifier resolves via its binder if the
// resolver linked one, else via the builtins callback, else is reported
// unresolved.
func (c *compiler[B]) parseAtom(tok cst.ElementID) (Atom[B], bool) {
	span := c.tree.Span(tok)
	switch c.tree.Kind(tok) {
	case token.String:
		return StringAtom[B](span, decodeString(c.tree.Text(tok))), true
	case token.Number:
		value, err := strconv.ParseUint(c.tree.Text(tok), 10, 64)
		if err != nil {
			if c.diags != nil {
				c.diags.Add(diagnostics.New(diagnostics.ParseExpected, span,
					"invalid number literal %q", c.tree.Text(tok)))
			}
			return Atom[B]{}, false
		}
		return NumberAtom[B](span, value), true
	case token.Identifier:
		if binderTok, ok := c.res.Binder(tok); ok {
			binder := c.parseBinder(binderTok)
			return ReferenceAtom[B](span, binder.ID), true
		}
		name := c.tree.Text(tok)
		if builtin, ok := c.builtins(name); ok {
			return BuiltinAtom(span, builtin), true
		}
		if c.diags != nil {
			c.diags.Add(diagnostics.New(diagnostics.UnresolvedName, span,
				"unresolved name %q", name))
		}
		return Atom[B]{}, false
	default:
		return Atom[B]{}, false
	}
}

// freshVariable mints a new globally unique id, recording its
// Identifier and handing back both it and a ready-made Reference atom,
// the same pairing compiler.rs::fresh_variable returns.
func (c *compiler[B]) freshVariable(named bool, span token.Span) (Identifier, Atom[B]) {
	id := uint32(len(c.identifiers))
	ident := Identifier{Span: span, Named: named, ID: id}
	atom := ReferenceAtom[B](span, id)
	c.identifiers = append(c.identifiers, ident)
	return ident, atom
}

// decodeString strips the outer “ ” delimiters (each three UTF-8 bytes)
// from a raw String token's text; nested quote pairs are kept literally,
// matching the source's own nesting rule (spec §6).
func decodeString(text string) string {
	_, openLen := utf8.DecodeRuneInString(text)
	_, closeLen := utf8.DecodeLastRuneInString(text)
	if len(text) < openLen+closeLen {
		return ""
	}
	return text[openLen : len(text)-closeLen]
}
