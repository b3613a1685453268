// Package builtins is the reference built-in set the CLI host wires
// into component H (spec §6): a closed Tag enum for the names the
// evaluator can select on, Resolve to hand ir.Compile (component F),
// and Eval (eval.go) to drive the trampoline itself. Grounded on
// spec §8's S1-S6 vocabulary (print, add, sub, is_zero, if, exit) and
// extended with the reference library bindings (uuid.go, sql.go,
// format.go) the wider example pack exercises that the core scenarios
// never needed.
package builtins

// Tag is the opaque built-in payload carried by ir.Atom[Tag] and
// eval.Value[Tag] (the B type parameter throughout internal/ir and
// internal/eval).
type Tag string

const (
	Print   Tag = "print"
	Add     Tag = "add"
	Sub     Tag = "sub"
	Mul     Tag = "mul"
	IsZero  Tag = "is_zero"
	If      Tag = "if"
	Exit    Tag = "exit"
	UUIDNew Tag = "uuidNew"
	Trace   Tag = "trace"
	Stats   Tag = "stats"
)

var names = map[string]Tag{
	string(Print):   Print,
	string(Add):     Add,
	string(Sub):     Sub,
	string(Mul):     Mul,
	string(IsZero):  IsZero,
	string(If):      If,
	string(Exit):    Exit,
	string(UUIDNew): UUIDNew,
	string(Trace):   Trace,
	string(Stats):   Stats,
}

// Resolve maps source identifier text to a Tag, the callback
// ir.Compile needs to decide whether an unbound reference names a
// built-in or is a genuine UnresolvedName (spec §4.F).
func Resolve(name string) (Tag, bool) {
	tag, ok := names[name]
	return tag, ok
}
