package ir

import (
	"fmt"
	"io"
)

// Fprint writes program in the compact one-line-per-procedure form of
// original_source/src/ir.rs::pretty_print_ir: arguments, then (if
// non-empty) a "; "-separated closure list, then a ':'-headed
// space-separated body.
func Fprint[B any](w io.Writer, program *Program[B]) {
	for i := range program.Procedures {
		proc := &program.Procedures[i]
		for j, arg := range proc.Arguments {
			writeID(w, program, arg.ID)
			if j != len(proc.Arguments)-1 {
				fmt.Fprint(w, " ")
			}
		}
		if len(proc.Closure) > 0 {
			fmt.Fprint(w, "; ")
			for j, id := range proc.Closure {
				writeID(w, program, id)
				if j != len(proc.Closure)-1 {
					fmt.Fprint(w, " ")
				}
			}
		}
		fmt.Fprint(w, ":")
		for _, atom := range proc.Body {
			fmt.Fprint(w, " ")
			switch atom.Kind {
			case AtomBuiltin:
				fmt.Fprintf(w, "@%s", program.String(atom.Span))
			case AtomNumber:
				fmt.Fprintf(w, "%d", atom.Number)
			case AtomString:
				fmt.Fprintf(w, "%q", atom.Value)
			case AtomReference:
				writeID(w, program, atom.ID)
			}
		}
		fmt.Fprintln(w)
	}
}

func writeID[B any](w io.Writer, program *Program[B], id uint32) {
	if name, ok := program.IDString(id); ok {
		fmt.Fprintf(w, "%s_%d", name, id)
	} else {
		fmt.Fprintf(w, "_%d", id)
	}
}
