// Package diagnostics defines the error kinds surfaced across the
// pipeline (spec §7) as a single Diagnostic type carrying a span, in the
// style of mcgru-funxy/internal/diagnostics: a closed error-code enum
// plus a message-template map, rather than ad-hoc fmt.Errorf calls.
package diagnostics

import (
	"fmt"

	"github.com/recmo/olus/internal/token"
)

// Phase names the pipeline stage a Diagnostic originated in.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseResolver Phase = "resolver"
	PhaseCompiler Phase = "compiler"
	PhaseEval     Phase = "eval"
)

// Code is the closed set of error kinds from spec §7.
type Code string

const (
	UnknownToken            Code = "unknown-token"
	UnterminatedString      Code = "unterminated-string"
	InconsistentIndentation Code = "inconsistent-indentation"
	ParseExpected           Code = "parse-expected"
	UnresolvedName          Code = "unresolved-name"
	ClosureInvariant        Code = "closure-invariant"
	EvaluatorTypeMismatch   Code = "evaluator-type-mismatch"
)

var phaseByCode = map[Code]Phase{
	UnknownToken:            PhaseLexer,
	UnterminatedString:      PhaseLexer,
	InconsistentIndentation: PhaseLexer,
	ParseExpected:           PhaseParser,
	UnresolvedName:          PhaseResolver,
	ClosureInvariant:        PhaseCompiler,
	EvaluatorTypeMismatch:   PhaseEval,
}

// fatalByCode records whether a diagnostic of this code halts the pipeline
// outright, per spec §7: lexer/parser errors are best-effort recovered
// from, UnresolvedName is fatal only when the host opts in, and
// ClosureInvariant/EvaluatorTypeMismatch are always fatal.
var fatalByCode = map[Code]bool{
	ClosureInvariant:      true,
	EvaluatorTypeMismatch: true,
}

// Diagnostic is one error or warning produced anywhere in the pipeline.
type Diagnostic struct {
	Code    Code
	Phase   Phase
	Span    token.Span
	Message string
}

// New builds a Diagnostic, formatting Message from a printf-style
// template the same way funxy's errorTemplates map does.
func New(code Code, span token.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Phase:   phaseByCode[code],
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Fatal reports whether this diagnostic's code always aborts the
// pipeline (spec §7).
func (d Diagnostic) Fatal() bool {
	return fatalByCode[d.Code]
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s at %s: %s", d.Phase, d.Code, d.Span, d.Message)
}

func (d Diagnostic) String() string {
	return d.Error()
}

// Diagnostics accumulates errors across phases without aborting the
// pipeline, per spec §7 ("Diagnostics are collected into a list and
// surfaced by the host").
type Diagnostics struct {
	items []Diagnostic
}

// Add appends d to the list, and is the method lexer/parser/resolver
// errors funnel through instead of returning early.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// All returns every diagnostic collected so far, in emission order.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// HasFatal reports whether any collected diagnostic demands the
// pipeline abort before running later phases.
func (d *Diagnostics) HasFatal() bool {
	for _, diag := range d.items {
		if diag.Fatal() {
			return true
		}
	}
	return false
}

// Len reports how many diagnostics have been collected.
func (d *Diagnostics) Len() int {
	return len(d.items)
}
