// Package token defines the closed Kind enum shared between lexical
// tokens and CST syntax nodes, and the span/position types used
// throughout the pipeline.
package token

import "fmt"

// Kind is a closed enumeration shared between tokens and syntax nodes,
// per spec §3.
type Kind int

const (
	// Trivia tokens.
	Whitespace Kind = iota
	Newline

	// Structural tokens.
	Colon
	ParenOpen
	ParenClose

	// Leaf content tokens.
	Identifier
	Number
	String

	// Virtual layout tokens, produced by the indentation wrapper, never
	// by the raw tokenizer.
	Indent
	Dedent

	// Syntax nodes.
	Root
	Block
	Proc
	Call

	// Error tokens.
	UnknownToken
	UnterminatedString
	InconsistentIndentation

	// EOF is a zero-width sentinel token emitted once at end of input so
	// the parser never has to special-case "no more tokens".
	EOF
)

var kindNames = [...]string{
	Whitespace:              "Whitespace",
	Newline:                 "Newline",
	Colon:                   "Colon",
	ParenOpen:                "ParenOpen",
	ParenClose:               "ParenClose",
	Identifier:               "Identifier",
	Number:                   "Number",
	String:                   "String",
	Indent:                   "Indent",
	Dedent:                   "Dedent",
	Root:                     "Root",
	Block:                    "Block",
	Proc:                     "Proc",
	Call:                     "Call",
	UnknownToken:             "UnknownToken",
	UnterminatedString:       "UnterminatedString",
	InconsistentIndentation:  "InconsistentIndentation",
	EOF:                      "EOF",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTrivia reports whether a token kind is intra-line whitespace or a
// newline: the only kinds that are not tokens comprising a statement.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Newline
}

// IsError reports whether a token kind represents a lexing failure that
// the parser should still accept and recover from.
func (k Kind) IsError() bool {
	switch k {
	case UnknownToken, UnterminatedString, InconsistentIndentation:
		return true
	default:
		return false
	}
}

// IsLayout reports whether a token kind is a virtual Indent/Dedent
// produced only by the indentation wrapper.
func (k Kind) IsLayout() bool {
	return k == Indent || k == Dedent
}

// IsSyntaxNode reports whether a kind names a CST node rather than a
// token.
func (k Kind) IsSyntaxNode() bool {
	switch k {
	case Root, Block, Proc, Call:
		return true
	default:
		return false
	}
}
