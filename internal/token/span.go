package token

import "fmt"

// Position is a 1-based line/column plus a 0-based byte offset into the
// source, mirroring the positioning style of
// mcgru-funxy/internal/lexer/token.go's SourcePosition.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span is a byte-indexed half-open range [Start, End) into the source
// text. Every token and node carries one; concatenating the tokens of a
// CST in document order reproduces the source exactly (spec §3, §8.1).
type Span struct {
	Start int
	End   int
}

// NewSpan builds a Span, panicking on an inverted range: callers within
// this module never construct one backwards.
func NewSpan(start, end int) Span {
	if end < start {
		panic(fmt.Sprintf("token: inverted span [%d, %d)", start, end))
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether the span is zero-width, as Indent/Dedent spans
// are (spec §4.B).
func (s Span) IsEmpty() bool { return s.Start == s.End }

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Token is a single lexical token: a Kind, its exact source span, and
// the literal text it covers. Token is immutable once produced.
type Token struct {
	Kind Kind
	Span Span
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Span)
}
