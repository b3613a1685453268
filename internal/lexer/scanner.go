// Package lexer implements components A and B of the language pipeline:
// a regex-style raw tokenizer (Scanner) and an indentation-aware wrapper
// (Lexer) that turns whitespace layout into explicit Indent/Dedent
// tokens. Both are hand-rolled char-at-a-time scanners in the style of
// mcgru-funxy/internal/lexer/lexer.go, since no pack example reaches for
// a lexer-generator library for a single-pass hand-written scanner.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/recmo/olus/internal/token"
)

// Scanner is the raw tokenizer (component A, spec §4.A). It knows
// nothing about indentation; Lexer wraps it to add that.
type Scanner struct {
	src  string
	pos  int // byte offset of the next rune to read
	done bool
}

// NewScanner returns a Scanner positioned at the start of src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next raw token, or the single EOF token once input is
// exhausted (further calls keep returning EOF at the end span).
func (s *Scanner) Next() token.Token {
	if s.pos >= len(s.src) {
		s.done = true
		return token.Token{Kind: token.EOF, Span: token.NewSpan(len(s.src), len(s.src))}
	}

	start := s.pos
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])

	switch {
	case isPatternWhiteSpace(r) || isLineTerminator(r):
		return s.scanWhitespace(start)
	case r == ':':
		return s.single(token.Colon, start, size)
	case r == '(':
		return s.single(token.ParenOpen, start, size)
	case r == ')':
		return s.single(token.ParenClose, start, size)
	case r == stringOpen:
		return s.scanString(start)
	case r >= '0' && r <= '9':
		return s.scanNumber(start)
	case isXIDStart(r):
		return s.scanIdentifier(start)
	case isPatternSyntax(r):
		s.pos += size
		return token.Token{Kind: token.Identifier, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
	default:
		s.pos += size
		return token.Token{Kind: token.UnknownToken, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
	}
}

func (s *Scanner) single(kind token.Kind, start, size int) token.Token {
	s.pos += size
	return token.Token{Kind: kind, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
}

// scanWhitespace consumes one maximal run of Pattern_White_Space
// characters starting at start. If any character in the run is a line
// terminator the whole run is a Newline token (spec §4.A); otherwise
// it's a Whitespace token.
func (s *Scanner) scanWhitespace(start int) token.Token {
	sawLineTerminator := false
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if isLineTerminator(r) {
			sawLineTerminator = true
		} else if !isPatternWhiteSpace(r) {
			break
		}
		s.pos += size
	}
	kind := token.Whitespace
	if sawLineTerminator {
		kind = token.Newline
	}
	return token.Token{Kind: kind, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
}

func (s *Scanner) scanIdentifier(start int) token.Token {
	_, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isXIDContinue(r) {
			break
		}
		s.pos += size
	}
	return token.Token{Kind: token.Identifier, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
}

func (s *Scanner) scanNumber(start int) token.Token {
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	return token.Token{Kind: token.Number, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
}

const (
	stringOpen  = '“' // “
	stringClose = '”' // ”
)

// scanString consumes a nested “ ... ” string literal starting at the
// opening quote (spec §4.A). An unmatched open produces an
// UnterminatedString token spanning to end of input.
func (s *Scanner) scanString(start int) token.Token {
	_, size := utf8.DecodeRuneInString(s.src[s.pos:]) // the opening “
	s.pos += size
	depth := 1
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		s.pos += size
		switch r {
		case stringOpen:
			depth++
		case stringClose:
			depth--
			if depth == 0 {
				return token.Token{Kind: token.String, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
			}
		}
	}
	return token.Token{Kind: token.UnterminatedString, Span: token.NewSpan(start, s.pos), Text: s.src[start:s.pos]}
}

// Line terminators excluded from Whitespace (spec §4.A): LF, VT, FF, CR,
// NEL, LS, PS.
const (
	lineFeed           = '\u000a'
	verticalTab        = '\u000b'
	formFeed           = '\u000c'
	carriageReturn     = '\u000d'
	nextLine           = '\u0085'
	lineSeparator      = '\u2028'
	paragraphSeparator = '\u2029'
)

func isLineTerminator(r rune) bool {
	switch r {
	case lineFeed, verticalTab, formFeed, carriageReturn, nextLine, lineSeparator, paragraphSeparator:
		return true
	default:
		return false
	}
}

// isPatternWhiteSpace approximates Unicode's Pattern_White_Space
// property: ASCII space/tab plus the common Unicode space separators,
// including line terminators (callers distinguish those separately).
func isPatternWhiteSpace(r rune) bool {
	if isLineTerminator(r) {
		return true
	}
	switch r {
	case ' ', '\t':
		return true
	default:
		return unicode.Is(unicode.Zs, r)
	}
}

// isXIDStart approximates XID_Start: letters and underscore.
func isXIDStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isXIDContinue approximates XID_Continue: XID_Start plus digits and
// combining marks.
func isXIDContinue(r rune) bool {
	return isXIDStart(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// isPatternSyntax approximates Unicode's Pattern_Syntax property with
// the punctuation and symbol general categories, letting single
// punctuation characters serve as operator identifiers (spec §4.A).
func isPatternSyntax(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
