package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recmo/olus/internal/cst"
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/resolver"
)

func compileSrc(t *testing.T, src string, builtinNames ...string) (*Program[string], *diagnostics.Diagnostics) {
	t.Helper()
	set := make(map[string]bool, len(builtinNames))
	for _, n := range builtinNames {
		set[n] = true
	}
	diags := &diagnostics.Diagnostics{}
	tree := cst.Parse(src, diags)
	require.Zero(t, diags.Len(), "unexpected parse diagnostics")
	res := resolver.Resolve(tree)
	builtins := Builtins[string](func(name string) (string, bool) {
		if set[name] {
			return name, true
		}
		return "", false
	})
	prog := Compile[string](tree, res, builtins, diags)
	return prog, diags
}

// assertWellFormed checks spec §8.5: every Reference{id} in a body is
// either an argument, the self-name of some procedure, or a fresh
// binder the compiler minted (which, by construction here, is always
// some procedure's argument too, since every fresh binder is either a
// continuation's own first argument or folded into a Procedure's
// arguments).
func assertWellFormed(t *testing.T, prog *Program[string]) {
	t.Helper()
	known := make(map[uint32]bool)
	for _, proc := range prog.Procedures {
		for _, arg := range proc.Arguments {
			known[arg.ID] = true
		}
	}
	for _, proc := range prog.Procedures {
		for _, atom := range proc.Body {
			if atom.Kind == AtomReference {
				assert.True(t, known[atom.ID], "unbound reference id %d", atom.ID)
			}
		}
	}
}

func TestCompileS1TailCall(t *testing.T) {
	prog, diags := compileSrc(t, "main k: k 42\n")
	assert.Zero(t, diags.Len())
	require.Len(t, prog.Procedures, 1)
	main := prog.Procedures[0]
	require.Len(t, main.Body, 2)
	assert.Equal(t, AtomReference, main.Body[0].Kind)
	assert.Equal(t, AtomNumber, main.Body[1].Kind)
	assert.Equal(t, uint64(42), main.Body[1].Number)
	assertWellFormed(t, prog)
}

func TestCompileS2PrintBuiltin(t *testing.T) {
	prog, diags := compileSrc(t, "main k: print 7 k\n", "print")
	assert.Zero(t, diags.Len())
	require.Len(t, prog.Procedures, 1)
	main := prog.Procedures[0]
	require.Len(t, main.Body, 3)
	assert.Equal(t, AtomBuiltin, main.Body[0].Kind)
	assert.Equal(t, "print", main.Body[0].Builtin)
	assert.Equal(t, AtomNumber, main.Body[1].Kind)
	assert.Equal(t, AtomReference, main.Body[2].Kind)
	assertWellFormed(t, prog)
}

func TestCompileS3ProcedureLiftsContinuation(t *testing.T) {
	prog, diags := compileSrc(t, "main k: add 2 3 (r: print r k)\n", "add", "print")
	assert.Zero(t, diags.Len())
	require.Len(t, prog.Procedures, 2)
	// A lifted continuation is appended before the procedure that lifts it.
	main := prog.Procedures[1]
	require.Len(t, main.Body, 4)
	assert.Equal(t, AtomBuiltin, main.Body[0].Kind)
	assert.Equal(t, AtomNumber, main.Body[1].Kind)
	assert.Equal(t, AtomNumber, main.Body[2].Kind)
	assert.Equal(t, AtomReference, main.Body[3].Kind)

	cont := prog.Procedures[0]
	require.Len(t, cont.Arguments, 2) // self-name, r
	require.Len(t, cont.Body, 3)
	assert.Equal(t, AtomBuiltin, cont.Body[0].Kind)
	assert.Equal(t, AtomReference, cont.Body[1].Kind)
	assert.Equal(t, AtomReference, cont.Body[2].Kind)
	assertWellFormed(t, prog)
}

func TestCompileS4SeparateProceduresForwardReference(t *testing.T) {
	prog, diags := compileSrc(t, "id x k: k x\nmain k: id 9 (v: print v k)\n", "print")
	assert.Zero(t, diags.Len())
	// id, main, and the continuation procedure for (v: ...).
	assert.Len(t, prog.Procedures, 3)
	assertWellFormed(t, prog)
}

func TestCompileS5RecursiveLoop(t *testing.T) {
	src := "loop n k: is_zero n (b: if b k (_: sub n 1 (m: loop m k)))\nmain k: loop 3 k\n"
	prog, diags := compileSrc(t, src, "is_zero", "if", "sub")
	assert.Zero(t, diags.Len())
	assertWellFormed(t, prog)
	_, ok := prog.ProcedureByName("loop")
	assert.True(t, ok)
	_, ok = prog.ProcedureByName("main")
	assert.True(t, ok)
}

func TestCompileS6NestedProcedureLifting(t *testing.T) {
	src := "make k: (c x k2: k2 x) k\nmain k: make (f: f 11 (v: print v k))\n"
	prog, diags := compileSrc(t, src, "print")
	assert.Zero(t, diags.Len())
	assertWellFormed(t, prog)
	var buf bytes.Buffer
	Fprint(&buf, prog)
	assert.NotEmpty(t, buf.String())
}

func TestCompileUnresolvedNameIsDiagnosed(t *testing.T) {
	prog, diags := compileSrc(t, "main k:\n  f nosuchname\n")
	assert.NotZero(t, diags.Len())
	var found bool
	for _, d := range diags.All() {
		if d.Code == diagnostics.UnresolvedName {
			found = true
		}
	}
	assert.True(t, found)
	_ = prog
}
