package lexer

import (
	"testing"

	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/token"
)

func lexAll(src string) ([]token.Token, *diagnostics.Diagnostics) {
	diags := &diagnostics.Diagnostics{}
	l := New(src, diags)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, diags
		}
	}
}

func lexKinds(src string) []token.Kind {
	toks, _ := lexAll(src)
	ks := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Whitespace {
			continue
		}
		ks = append(ks, t.Kind)
	}
	return ks
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexerNoIndentation(t *testing.T) {
	got := lexKinds("f(x)")
	assertKinds(t, got, token.Identifier, token.ParenOpen, token.Identifier, token.ParenClose, token.Newline, token.EOF)
}

func TestLexerSingleIndent(t *testing.T) {
	got := lexKinds("f():\n  g()\n")
	assertKinds(t,
		got,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Colon, token.Newline,
		token.Indent, token.Identifier, token.ParenOpen, token.ParenClose, token.Newline,
		token.Dedent, token.Newline, token.EOF,
	)
}

func TestLexerDedentToRoot(t *testing.T) {
	got := lexKinds("f():\n  g():\n    h()\n")
	assertKinds(t,
		got,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Colon, token.Newline,
		token.Indent,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Colon, token.Newline,
		token.Indent,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Newline,
		token.Dedent, token.Dedent, token.Newline, token.EOF,
	)
}

func TestLexerSiblingDedent(t *testing.T) {
	got := lexKinds("f():\n  g()\n  h()\n")
	assertKinds(t,
		got,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Colon, token.Newline,
		token.Indent,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Newline,
		token.Identifier, token.ParenOpen, token.ParenClose, token.Newline,
		token.Dedent, token.Newline, token.EOF,
	)
}

func TestLexerBalancedIndentDedent(t *testing.T) {
	toks, _ := lexAll("f():\n  g():\n    h()\n  i()\n")
	balance := 0
	minBalance := 0
	for _, tok := range toks {
		switch tok.Kind {
		case token.Indent:
			balance++
		case token.Dedent:
			balance--
		}
		if balance < minBalance {
			minBalance = balance
		}
	}
	if minBalance < 0 {
		t.Fatalf("indent/dedent went negative: min balance %d", minBalance)
	}
	if balance != 0 {
		t.Fatalf("indent/dedent did not balance: final balance %d", balance)
	}
}

func TestLexerInconsistentIndentation(t *testing.T) {
	// Two sibling blocks indented with incomparable prefixes (space vs tab)
	// cannot both extend the same parent level.
	_, diags := lexAll("f():\n  g():\n    h()\n\tx()\n")
	if diags.Len() == 0 {
		t.Fatalf("expected an InconsistentIndentation diagnostic")
	}
}

func TestLexerLosslessRoundTrip(t *testing.T) {
	src := "f():\n  g()\n  h():\n    i()\n"
	toks, _ := lexAll(src)
	var rebuilt []byte
	for _, tok := range toks {
		if tok.Kind.IsLayout() || tok.Kind == token.EOF {
			continue
		}
		rebuilt = append(rebuilt, tok.Text...)
	}
	if string(rebuilt) != src {
		t.Fatalf("round trip mismatch: got %q, want %q", rebuilt, src)
	}
}
