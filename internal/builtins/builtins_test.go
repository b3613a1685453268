package builtins_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recmo/olus/internal/builtins"
	"github.com/recmo/olus/internal/eval"
)

func TestResolveKnowsEveryDeclaredName(t *testing.T) {
	for _, name := range []string{"print", "add", "sub", "mul", "is_zero", "if", "exit", "uuidNew", "trace", "stats"} {
		_, ok := builtins.Resolve(name)
		assert.True(t, ok, "expected %q to resolve", name)
	}
	_, ok := builtins.Resolve("nosuchbuiltin")
	assert.False(t, ok)
}

func TestHostPrintWritesOperandAndContinues(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.Print),
		eval.NumberValue[builtins.Tag](7),
		eval.ClosureValue[builtins.Tag](99, nil),
	}
	fn := host.Eval()
	result, done := fn(nil, &call)
	assert.False(t, done)
	assert.Equal(t, int64(0), result)
	assert.Equal(t, "7\n", buf.String())
	require.Len(t, call, 1)
	assert.Equal(t, uint32(99), call[0].Closure)
}

func TestHostExitReturnsOperand(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.Exit),
		eval.NumberValue[builtins.Tag](5),
	}
	fn := host.Eval()
	result, done := fn(nil, &call)
	assert.True(t, done)
	assert.Equal(t, int64(5), result)
}

func TestHostAddComputesSumAndContinues(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.Add),
		eval.NumberValue[builtins.Tag](2),
		eval.NumberValue[builtins.Tag](3),
		eval.ClosureValue[builtins.Tag](1, nil),
	}
	fn := host.Eval()
	_, done := fn(nil, &call)
	assert.False(t, done)
	require.Len(t, call, 2)
	assert.Equal(t, uint64(5), call[1].Number)
}

func TestHostIfBranchesOnOperand(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	thenBranch := eval.ClosureValue[builtins.Tag](1, nil)
	elseBranch := eval.ClosureValue[builtins.Tag](2, nil)
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.If),
		eval.NumberValue[builtins.Tag](1),
		thenBranch,
		elseBranch,
	}
	fn := host.Eval()
	_, done := fn(nil, &call)
	assert.False(t, done)
	require.Len(t, call, 1)
	assert.Equal(t, uint32(1), call[0].Closure)
}

func TestHostTraceForwardsOperandsUnchanged(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	cont := eval.ClosureValue[builtins.Tag](7, nil)
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.Trace),
		eval.NumberValue[builtins.Tag](1),
		eval.NumberValue[builtins.Tag](2),
		cont,
	}
	fn := host.Eval()
	_, done := fn(nil, &call)
	assert.False(t, done)
	require.Len(t, call, 3)
	assert.Equal(t, uint32(7), call[0].Closure)
	assert.Equal(t, uint64(1), call[1].Number)
	assert.Equal(t, uint64(2), call[2].Number)
}

func TestHostUUIDNewProducesWellFormedString(t *testing.T) {
	var buf bytes.Buffer
	host := &builtins.Host{Out: &buf}
	call := []eval.Value[builtins.Tag]{
		eval.BuiltinValue[builtins.Tag](builtins.UUIDNew),
		eval.ClosureValue[builtins.Tag](1, nil),
	}
	fn := host.Eval()
	_, done := fn(nil, &call)
	assert.False(t, done)
	require.Len(t, call, 2)
	assert.Equal(t, uint32(1), call[0].Closure)
	assert.Equal(t, eval.ValueString, call[1].Kind)
	assert.Len(t, call[1].Str, 36) // 8-4-4-4-12 with dashes
}
