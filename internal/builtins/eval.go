package builtins

import (
	"fmt"
	"io"

	"github.com/recmo/olus/internal/eval"
	"github.com/recmo/olus/internal/ir"
)

// Host owns the side-effecting collaborators a running program can
// reach through its built-ins: where print and stats write, and the
// trace database the trace built-in logs to (sql.go).
type Host struct {
	Out   io.Writer
	Trace *Tracer
}

// Eval returns the builtin_eval external collaborator spec §6
// describes: given call[0] == Value{Kind: ValueBuiltin}, it either
// drains operands and replaces call with the next continuation
// (returning done=false) or terminates the run (done=true), exactly
// the contract eval.Builtin[Tag, R] names.
func (h *Host) Eval() eval.Builtin[Tag, int64] {
	return func(_ *ir.Program[Tag], call *[]eval.Value[Tag]) (int64, bool) {
		return h.step(call)
	}
}

func (h *Host) step(call *[]eval.Value[Tag]) (int64, bool) {
	c := *call
	switch c[0].Builtin {
	case Exit:
		if len(c) > 1 {
			return int64(c[1].Number), true
		}
		return 0, true

	case Print:
		fmt.Fprintln(h.Out, formatValue(c[1]))
		*call = []eval.Value[Tag]{c[2]}
		return 0, false

	case Add:
		*call = []eval.Value[Tag]{c[3], eval.NumberValue[Tag](c[1].Number + c[2].Number)}
		return 0, false

	case Sub:
		*call = []eval.Value[Tag]{c[3], eval.NumberValue[Tag](c[1].Number - c[2].Number)}
		return 0, false

	case Mul:
		*call = []eval.Value[Tag]{c[3], eval.NumberValue[Tag](c[1].Number * c[2].Number)}
		return 0, false

	case IsZero:
		result := uint64(0)
		if c[1].Number == 0 {
			result = 1
		}
		*call = []eval.Value[Tag]{c[2], eval.NumberValue[Tag](result)}
		return 0, false

	case If:
		if c[1].Number != 0 {
			*call = []eval.Value[Tag]{c[2]}
		} else {
			*call = []eval.Value[Tag]{c[3]}
		}
		return 0, false

	case UUIDNew:
		*call = []eval.Value[Tag]{c[1], eval.StringValue[Tag](newUUID())}
		return 0, false

	case Trace:
		cont := c[len(c)-1]
		operands := c[1 : len(c)-1]
		h.Trace.record(cont, len(operands))
		*call = append([]eval.Value[Tag]{cont}, operands...)
		return 0, false

	case Stats:
		fmt.Fprintln(h.Out, humanizeValue(c[1]))
		*call = []eval.Value[Tag]{c[2]}
		return 0, false

	default:
		panic("builtins: unhandled tag " + string(c[0].Builtin))
	}
}

func formatValue(v eval.Value[Tag]) string {
	switch v.Kind {
	case eval.ValueNumber:
		return fmt.Sprintf("%d", v.Number)
	case eval.ValueString:
		return v.Str
	default:
		return v.String()
	}
}
