package lexer

import (
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/token"
)

// Lexer wraps Scanner to translate whitespace layout into bracket-like
// Indent/Dedent virtual tokens (component B, spec §4.B). All non-Newline
// tokens pass through unchanged.
type Lexer struct {
	scanner *Scanner
	src     string

	// indentation is a stack of indent prefixes; the first element is
	// always the empty prefix (the indentation of the root). Every
	// element is a prefix of the next one.
	indentation []string

	// pending holds tokens already produced for a Newline that are
	// waiting to be returned (Indent, a run of Dedents, or an error).
	pending []token.Token

	finished bool
	diags    *diagnostics.Diagnostics
}

// New returns a Lexer over src that appends any InconsistentIndentation
// diagnostics it discovers to diags.
func New(src string, diags *diagnostics.Diagnostics) *Lexer {
	return &Lexer{
		scanner:     NewScanner(src),
		src:         src,
		indentation: []string{""},
		diags:       diags,
	}
}

// Next returns the next token, which may be a virtual Indent/Dedent, or
// EOF once a final synthetic Newline has closed every open block (spec
// §4.B rule 3).
func (l *Lexer) Next() token.Token {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t
	}

	raw := l.scanner.Next()
	if raw.Kind == token.EOF {
		if !l.finished {
			l.finished = true
			return l.closeAll(raw.Span)
		}
		return raw
	}
	if raw.Kind != token.Newline {
		return raw
	}
	return l.handleNewline(raw)
}

// handleNewline implements spec §4.B step 2: split the newline token's
// text into the newline characters and the trailing indent, then
// compare the indent against the stack. The Newline token keeps the
// entire raw whitespace run (newline chars and indent alike); Indent
// and Dedent are zero-width markers placed at its end, so the
// lossless-CST invariant holds whether or not a reconstruction counts
// them. Only the InconsistentIndentation error token carries the
// mismatched indent text itself, since a diagnostic needs the range to
// point at.
func (l *Lexer) handleNewline(raw token.Token) token.Token {
	newlinePart, indentPart := splitIndent(raw.Text)
	last := l.indentation[len(l.indentation)-1]

	switch {
	case len(indentPart) > len(last) && hasPrefix(indentPart, last):
		l.indentation = append(l.indentation, indentPart)
		boundary := token.NewSpan(raw.Span.End, raw.Span.End)
		l.pending = append(l.pending, token.Token{Kind: token.Indent, Span: boundary})
		return token.Token{Kind: token.Newline, Span: raw.Span, Text: raw.Text}

	case indexOf(l.indentation, indentPart) >= 0:
		k := indexOf(l.indentation, indentPart)
		dedents := len(l.indentation) - k - 1
		l.indentation = l.indentation[:k+1]
		boundary := token.NewSpan(raw.Span.End, raw.Span.End)
		for i := 0; i < dedents; i++ {
			l.pending = append(l.pending, token.Token{Kind: token.Dedent, Span: boundary})
		}
		return token.Token{Kind: token.Newline, Span: raw.Span, Text: raw.Text}

	default:
		// No span overlap with the Newline: it keeps only the newline
		// characters, and the mismatched indent gets its own real span so
		// the diagnostic can point at it.
		newlineSpan := token.NewSpan(raw.Span.Start, raw.Span.Start+len(newlinePart))
		errSpan := token.NewSpan(newlineSpan.End, raw.Span.End)
		errTok := token.Token{Kind: token.InconsistentIndentation, Span: errSpan, Text: indentPart}
		l.pending = append(l.pending, errTok)
		if l.diags != nil {
			l.diags.Add(diagnostics.New(diagnostics.InconsistentIndentation, errSpan,
				"indentation %q does not match any enclosing block", indentPart))
		}
		return token.Token{Kind: token.Newline, Span: newlineSpan, Text: newlinePart}
	}
}

// closeAll emits the final synthetic Newline and the Dedents it implies
// for every indentation level still open (spec §4.B rule 3).
func (l *Lexer) closeAll(eofSpan token.Span) token.Token {
	dedents := len(l.indentation) - 1
	l.indentation = l.indentation[:1]
	for i := 0; i < dedents; i++ {
		l.pending = append(l.pending, token.Token{Kind: token.Dedent, Span: eofSpan})
	}
	l.pending = append(l.pending, token.Token{Kind: token.EOF, Span: eofSpan})
	return token.Token{Kind: token.Newline, Span: eofSpan}
}

// splitIndent partitions a Newline token's text into (newline chars,
// trailing indentation), per spec §4.B step 1: the indent is everything
// after the last line-terminator character.
func splitIndent(text string) (newlinePart, indentPart string) {
	last := -1
	for i, r := range text {
		if isLineTerminator(r) {
			last = i
		}
	}
	if last < 0 {
		return "", text
	}
	// Advance past the line-terminator rune itself.
	end := last + 1
	for end < len(text) {
		if text[end]>>6 != 0b10 { // not a UTF-8 continuation byte
			break
		}
		end++
	}
	return text[:end], text[end:]
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func indexOf(stack []string, s string) int {
	for i, v := range stack {
		if v == s {
			return i
		}
	}
	return -1
}
