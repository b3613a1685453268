// Package eval implements component H, the trampolined CPS interpreter
// over ir.Program. Grounded on original_source/src/interpreter/mod.rs's
// evaluate/iterate loop: a single call vector is replaced in place on
// every step instead of growing a native call stack, so tail-call depth
// never costs stack space (spec §4.H).
package eval

import (
	"fmt"

	"github.com/recmo/olus/internal/ir"
)

// ValueKind discriminates the closed runtime value sum of spec §4.H.
type ValueKind int

const (
	ValueBuiltin ValueKind = iota
	ValueNumber
	ValueString
	ValueClosure
)

// Value is one runtime value: a built-in tag, a literal, or a closure
// over a procedure's free variables. Only the field matching Kind is
// meaningful.
type Value[B any] struct {
	Kind     ValueKind
	Builtin  B
	Number   uint64
	Str      string
	Closure  uint32
	Captured []Value[B]
}

func BuiltinValue[B any](b B) Value[B]        { return Value[B]{Kind: ValueBuiltin, Builtin: b} }
func NumberValue[B any](n uint64) Value[B]    { return Value[B]{Kind: ValueNumber, Number: n} }
func StringValue[B any](s string) Value[B]    { return Value[B]{Kind: ValueString, Str: s} }
func ClosureValue[B any](id uint32, captured []Value[B]) Value[B] {
	return Value[B]{Kind: ValueClosure, Closure: id, Captured: captured}
}

func (v Value[B]) String() string {
	switch v.Kind {
	case ValueBuiltin:
		return fmt.Sprintf("Builtin(%v)", v.Builtin)
	case ValueNumber:
		return fmt.Sprintf("Number(%d)", v.Number)
	case ValueString:
		return fmt.Sprintf("String(%q)", v.Str)
	case ValueClosure:
		return fmt.Sprintf("Closure(%d, %v)", v.Closure, v.Captured)
	default:
		return "Value(?)"
	}
}

// RuntimeError reports an evaluator-halting type mismatch (spec §7's
// EvaluatorTypeMismatch): the evaluator has no recovery path for a
// malformed call, unlike the lexer/parser's best-effort accumulation.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Builtin is the external collaborator of a Step: it receives the
// current call with call[0] == BuiltinValue(b), and either replaces
// call with the next continuation+operands (returning done=false to keep
// stepping) or returns a terminal result (done=true).
type Builtin[B any, R any] func(program *ir.Program[B], call *[]Value[B]) (result R, done bool)

// Evaluator drives the CPS trampoline of spec §4.H. Its fields mirror
// the registry/callback shape of an evaluator struct that threads
// caller-supplied hooks through a fixed step loop, rather than holding
// any interpreter-owned mutable state of its own: every Value this
// package produces is immutable once built, so there is nothing else to
// own between steps.
type Evaluator[B any, R any] struct {
	Program *ir.Program[B]
	Builtin Builtin[B, R]
}

// New returns an Evaluator ready to Run over program, dispatching
// builtin calls to builtin.
func New[B any, R any](program *ir.Program[B], builtin Builtin[B, R]) *Evaluator[B, R] {
	return &Evaluator[B, R]{Program: program, Builtin: builtin}
}

// Run drives call to completion, returning the builtin's terminal
// result. call must be non-empty; it is copied before stepping, so the
// caller's slice is left untouched.
func (e *Evaluator[B, R]) Run(call []Value[B]) (R, error) {
	cur := append([]Value[B](nil), call...)
	for {
		result, done, err := e.Step(&cur)
		if err != nil {
			var zero R
			return zero, err
		}
		if done {
			return result, nil
		}
	}
}

// Step performs one trampoline bounce: if call[0] is a Builtin, control
// passes to e.Builtin; if it is a Closure, the next call is built from
// the target procedure's body per spec §4.H's lookup order (closure,
// then arguments, then self-name-of-another-procedure). Any other
// call[0] is an EvaluatorTypeMismatch.
func (e *Evaluator[B, R]) Step(call *[]Value[B]) (result R, done bool, err error) {
	if len(*call) == 0 {
		return result, false, &RuntimeError{Message: "evaluator: empty call"}
	}

	head := (*call)[0]
	switch head.Kind {
	case ValueBuiltin:
		result, done = e.Builtin(e.Program, call)
		return result, done, nil
	case ValueClosure:
		next, stepErr := e.stepClosure(head, *call)
		if stepErr != nil {
			return result, false, stepErr
		}
		*call = next
		return result, false, nil
	default:
		return result, false, &RuntimeError{
			Message: fmt.Sprintf("evaluator: call head is not a builtin or closure: %s", head),
		}
	}
}

func (e *Evaluator[B, R]) stepClosure(head Value[B], call []Value[B]) ([]Value[B], error) {
	proc, ok := e.Program.ProcedureByID(head.Closure)
	if !ok {
		return nil, &RuntimeError{Message: fmt.Sprintf("evaluator: invalid closure id %d", head.Closure)}
	}
	if len(proc.Closure) != len(head.Captured) {
		return nil, &RuntimeError{Message: fmt.Sprintf(
			"evaluator: closure invariant violated for procedure %d: expected %d captured values, got %d",
			head.Closure, len(proc.Closure), len(head.Captured))}
	}

	next := make([]Value[B], len(proc.Body))
	for i, atom := range proc.Body {
		v, err := e.resolveAtom(proc, head.Captured, call, atom)
		if err != nil {
			return nil, err
		}
		next[i] = v
	}
	return next, nil
}

// resolveAtom lowers one body atom of proc to a runtime Value in the
// context of the call that invoked it, per spec §4.H step 2.
func (e *Evaluator[B, R]) resolveAtom(proc *ir.Procedure[B], captured, call []Value[B], atom ir.Atom[B]) (Value[B], error) {
	switch atom.Kind {
	case ir.AtomNumber:
		return NumberValue[B](atom.Number), nil
	case ir.AtomString:
		return StringValue[B](atom.Value), nil
	case ir.AtomBuiltin:
		return BuiltinValue[B](atom.Builtin), nil
	case ir.AtomReference:
		return e.resolveReference(proc, captured, call, atom.ID)
	default:
		return Value[B]{}, &RuntimeError{Message: "evaluator: atom has no recognized kind"}
	}
}

func (e *Evaluator[B, R]) resolveReference(proc *ir.Procedure[B], captured, call []Value[B], id uint32) (Value[B], error) {
	if v, ok := e.lookupInScope(proc, captured, call, id); ok {
		return v, nil
	}
	if target, ok := e.Program.ProcedureByID(id); ok {
		newCaptured := make([]Value[B], len(target.Closure))
		for i, cid := range target.Closure {
			v, ok := e.lookupInScope(proc, captured, call, cid)
			if !ok {
				return Value[B]{}, &RuntimeError{Message: fmt.Sprintf(
					"evaluator: unresolved variable %d while constructing closure for procedure %d", cid, id)}
			}
			newCaptured[i] = v
		}
		return ClosureValue(id, newCaptured), nil
	}
	return Value[B]{}, &RuntimeError{Message: fmt.Sprintf("evaluator: unresolved variable %d", id)}
}

// lookupInScope is the two-tier lookup spec §4.H names explicitly:
// proc's closure, then its arguments. An argument the call supplied no
// value for is reported as not found. It never falls back to
// constructing a further closure — that fallback only applies when
// resolving a body atom directly, not when filling in another
// procedure's captured values.
func (e *Evaluator[B, R]) lookupInScope(proc *ir.Procedure[B], captured, call []Value[B], id uint32) (Value[B], bool) {
	for i, cid := range proc.Closure {
		if cid == id {
			return captured[i], true
		}
	}
	for i, arg := range proc.Arguments {
		if arg.ID == id {
			if i >= len(call) {
				return Value[B]{}, false
			}
			return call[i], true
		}
	}
	return Value[B]{}, false
}
