package cst

import (
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/lexer"
	"github.com/recmo/olus/internal/token"
)

// Parse lexes src and builds its Tree, following the grammar of spec
// §4.C. Lexer/layout errors and grammar mismatches are both recorded in
// diags without aborting (recovery folds the offending token into the
// current parent and continues), matching
// original_source/src/parser.rs's line/group recovery style.
func Parse(src string, diags *diagnostics.Diagnostics) *Tree {
	toks := collectTokens(src, diags)
	p := &parser{toks: toks, diags: diags, b: NewBuilder(src)}
	p.parseRoot()
	return p.b.Finish()
}

func collectTokens(src string, diags *diagnostics.Diagnostics) []token.Token {
	l := lexer.New(src, diags)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

type parser struct {
	toks  []token.Token
	pos   int
	diags *diagnostics.Diagnostics
	b     *Builder
}

func (p *parser) peek() token.Token { return p.toks[p.pos] }

// peekSignificant returns the next token that is not intra-line
// Whitespace, without consuming anything.
func (p *parser) peekSignificant() token.Token {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].Kind != token.Whitespace {
			return p.toks[i]
		}
	}
	return p.toks[len(p.toks)-1] // EOF
}

// bump emits the current token as a leaf of the innermost open node and
// advances.
func (p *parser) bump() token.Token {
	t := p.toks[p.pos]
	p.b.Token(t.Kind, t.Span)
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

// bumpWhitespace consumes and emits any run of trivia Whitespace at the
// current position (intra-line whitespace, absorbed per spec §4.C).
func (p *parser) bumpWhitespace() {
	for p.peek().Kind == token.Whitespace {
		p.bump()
	}
}

func (p *parser) errorf(span token.Span, format string, args ...interface{}) {
	if p.diags != nil {
		p.diags.Add(diagnostics.New(diagnostics.ParseExpected, span, format, args...))
	}
}

func (p *parser) parseRoot() {
	p.b.StartNode(token.Root)
	for p.peekSignificant().Kind != token.EOF {
		p.parseStatement()
	}
	// Recovery: any stray EOF-adjacent trivia/errors already consumed by
	// parseStatement; absorb any trailing Whitespace before EOF so the
	// tree covers the whole source. The EOF token itself is not added, and
	// the Root node is left open for Builder.Finish to close.
	p.bumpWhitespace()
}

// hasColonBeforeTerminator scans forward from the current position,
// tracking parenthesis depth, to decide whether the current statement
// is a Proc (a top-level ':') or a Call. The scan stops at a Newline,
// Dedent, ParenClose, or EOF seen at depth 0 — the same boundary that
// ends the statement or enclosing group (spec §4.C tie-break rule).
func (p *parser) hasColonBeforeTerminator() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.ParenOpen:
			depth++
		case token.ParenClose:
			if depth == 0 {
				return false
			}
			depth--
		case token.Colon:
			if depth == 0 {
				return true
			}
		case token.Newline, token.Dedent, token.EOF:
			if depth == 0 {
				return false
			}
		}
	}
	return false
}

// parseStatement parses a Proc or Call (spec §4.C: Statement := Proc |
// Call), recovering from any token that cannot start either by folding
// it into the enclosing node and reporting a diagnostic.
func (p *parser) parseStatement() {
	p.bumpWhitespace()
	switch p.peek().Kind {
	case token.Identifier, token.Number, token.String, token.ParenOpen:
		if p.hasColonBeforeTerminator() {
			p.parseProc()
		} else {
			p.parseCall()
		}
	case token.Newline:
		// A blank line: consume it as trivia of the enclosing node, not a
		// statement of its own.
		p.bump()
	default:
		bad := p.peek()
		p.errorf(bad.Span, "expected a statement, got %s", bad.Kind)
		p.bump()
	}
}

// parseProc parses `Identifier+ ':' (Call | Newline) Block?`.
func (p *parser) parseProc() {
	p.b.StartNode(token.Proc)
	for {
		p.bumpWhitespace()
		if p.peek().Kind != token.Identifier {
			break
		}
		p.bump()
	}
	if p.peek().Kind == token.Colon {
		p.bump()
	} else {
		p.errorf(p.peek().Span, "expected ':', got %s", p.peek().Kind)
	}
	p.bumpWhitespace()

	switch p.peekSignificant().Kind {
	case token.Newline:
		p.bumpWhitespace()
		p.bump() // the Newline itself
		p.maybeParseBlock()
	default:
		p.b.StartNode(token.Call)
		p.parseCallBody()
		p.b.FinishNode()
	}
	// Block? is its own alternative after (Call | Newline), a sibling of
	// the inline Call rather than nested inside it.
	p.maybeParseBlock()
	p.b.FinishNode()
}

// parseCall parses a top-level Call statement: `Expression+ Newline
// Block?`.
func (p *parser) parseCall() {
	p.b.StartNode(token.Call)
	p.parseCallBody()
	p.maybeParseBlock()
	p.b.FinishNode()
}

// parseCallBody parses the `Expression+ Newline` portion shared by a
// standalone Call statement and a Proc's inline call body, leaving any
// following Block for the caller.
func (p *parser) parseCallBody() {
	for {
		p.bumpWhitespace()
		switch p.peek().Kind {
		case token.Identifier, token.Number, token.String, token.ParenOpen:
			p.parseExpression()
		case token.Newline:
			p.bump()
			return
		case token.EOF:
			return
		case token.ParenClose:
			p.errorf(p.peek().Span, "unexpected closing parenthesis")
			p.bump()
		default:
			bad := p.peek()
			p.errorf(bad.Span, "unexpected token %s in call", bad.Kind)
			p.bump()
		}
	}
}

// parseExpression parses `Identifier | Number | String | '(' Call ')' |
// '(' Proc ')'`.
func (p *parser) parseExpression() {
	switch p.peek().Kind {
	case token.Identifier, token.Number, token.String:
		p.bump()
	case token.ParenOpen:
		p.parseGroup()
	default:
		bad := p.peek()
		p.errorf(bad.Span, "expected an expression, got %s", bad.Kind)
		p.bump()
	}
}

// parseGroup parses a parenthesized `( Call )` or `( Proc )` without a
// separate "group" node (spec §4.C): the opening paren becomes a token of
// the enclosing node and the closing paren a trailing token of the nested
// Call.
func (p *parser) parseGroup() {
	p.bump() // '('
	p.bumpWhitespace()
	if p.hasColonBeforeTerminator() {
		p.parseParenProc()
	} else {
		p.parseParenCall()
	}
}

// parseParenCall parses the body of a parenthesized call up to and
// including its closing paren, which becomes a trailing trivia token of
// the Call node rather than a terminator the grammar names.
func (p *parser) parseParenCall() {
	p.b.StartNode(token.Call)
	for {
		p.bumpWhitespace()
		switch p.peek().Kind {
		case token.Identifier, token.Number, token.String, token.ParenOpen:
			p.parseExpression()
		case token.ParenClose:
			p.bump()
			p.b.FinishNode()
			return
		case token.Newline, token.EOF:
			p.errorf(p.peek().Span, "unterminated parenthesized call")
			p.b.FinishNode()
			return
		default:
			bad := p.peek()
			p.errorf(bad.Span, "unexpected token %s in parenthesized call", bad.Kind)
			p.bump()
		}
	}
}

// parseParenProc mirrors parseParenCall for `( Identifier+ ':' ... )`:
// the expressions after the ':' form the Proc's Call child, which also
// holds the closing paren.
func (p *parser) parseParenProc() {
	p.b.StartNode(token.Proc)
	for {
		p.bumpWhitespace()
		if p.peek().Kind != token.Identifier {
			break
		}
		p.bump()
	}
	if p.peek().Kind == token.Colon {
		p.bump()
	} else {
		p.errorf(p.peek().Span, "expected ':', got %s", p.peek().Kind)
	}
	p.bumpWhitespace()
	p.b.StartNode(token.Call)
	for {
		switch p.peek().Kind {
		case token.Identifier, token.Number, token.String, token.ParenOpen:
			p.parseExpression()
			p.bumpWhitespace()
		case token.ParenClose:
			p.bump()
			p.b.FinishNode() // Call
			p.b.FinishNode() // Proc
			return
		case token.Newline, token.EOF:
			p.errorf(p.peek().Span, "unterminated parenthesized procedure")
			p.b.FinishNode() // Call
			p.b.FinishNode() // Proc
			return
		default:
			bad := p.peek()
			p.errorf(bad.Span, "unexpected token %s in parenthesized procedure", bad.Kind)
			p.bump()
		}
	}
}

// maybeParseBlock parses a trailing `Indent Statement+ Dedent` if one
// immediately follows, per spec §4.C's `Block := Indent Statement+
// Dedent`.
func (p *parser) maybeParseBlock() {
	if p.peekSignificant().Kind != token.Indent {
		return
	}
	p.bumpWhitespace()
	p.b.StartNode(token.Block)
	p.bump() // Indent
	for p.peekSignificant().Kind != token.Dedent && p.peekSignificant().Kind != token.EOF {
		p.parseStatement()
	}
	p.bumpWhitespace()
	if p.peek().Kind == token.Dedent {
		p.bump()
	} else {
		p.errorf(p.peek().Span, "expected dedent, got %s", p.peek().Kind)
	}
	p.b.FinishNode()
}
