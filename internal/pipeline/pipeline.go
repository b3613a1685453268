// Package pipeline orchestrates components A through H (spec §2's
// tokenizer → indentation wrapper → parser → queries → resolver →
// compiler → analyses → evaluator chain) behind a single Run call,
// logging each phase boundary the way a host embedding the language
// would want visibility into. Grounded on
// mcgru-funxy/internal/pipeline/{pipeline,context,interfaces}.go's
// small orchestration-only shape, with structured phase logging wired
// through github.com/sirupsen/logrus the way vippsas-sqlcode's cli/cmd
// package logs around each database operation.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/recmo/olus/internal/builtins"
	"github.com/recmo/olus/internal/cst"
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/eval"
	"github.com/recmo/olus/internal/ir"
	"github.com/recmo/olus/internal/resolver"
)

// Options configures a Run beyond the source text itself.
type Options struct {
	// Inline enables component G.3's optional substitution pass.
	Inline bool
	// Logger receives phase-boundary entries; a nil Logger disables
	// logging.
	Logger *logrus.Logger
}

// Result carries every artifact a caller might want after Run,
// including the diagnostics accumulated across every phase (some
// non-fatal: a lexer typo doesn't stop the parser from still running).
type Result struct {
	Tree        *cst.Tree
	Resolution  *resolver.Resolution
	Program     *ir.Program[builtins.Tag]
	Diagnostics *diagnostics.Diagnostics
}

// Compile runs components A through G over src: tokenize, parse, query,
// resolve, compile to IR, then optionally inline, closure-analyze and
// tree-shake from root. It stops early (returning whatever diagnostics
// accumulated) if any phase reports a fatal diagnostic.
func Compile(src string, root string, opts Options) *Result {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel) // silent by default
	}

	diags := &diagnostics.Diagnostics{}
	res := &Result{Diagnostics: diags}

	log.WithField("phase", "lexer+parser").Debug("parsing source")
	tree := cst.Parse(src, diags)
	res.Tree = tree
	if diags.HasFatal() {
		log.WithField("diagnostics", diags.Len()).Warn("parse phase reported fatal diagnostics")
		return res
	}

	log.WithField("phase", "resolver").Debug("resolving names")
	resolution := resolver.Resolve(tree)
	res.Resolution = resolution

	log.WithField("phase", "compiler").Debug("compiling to IR")
	program := ir.Compile[builtins.Tag](tree, resolution, builtins.Resolve, diags)
	res.Program = program
	if diags.HasFatal() {
		log.WithFields(logrus.Fields{"diagnostics": diags.Len()}).Warn("compile phase reported fatal diagnostics")
		return res
	}

	if opts.Inline {
		log.WithField("phase", "inline").Debug("substituting matching-arity calls")
		program.Inline()
	}

	log.WithField("phase", "closure-analysis").Debug("computing free variables")
	program.ClosureAnalysis()

	log.WithFields(logrus.Fields{"phase": "shake", "root": root}).Debug("removing unreachable procedures")
	program.Shake(root)

	log.WithFields(logrus.Fields{
		"phase":      "done",
		"procedures": len(program.Procedures),
	}).Info("pipeline compiled program")
	return res
}

// Run compiles src and, if compilation produced no fatal diagnostics,
// evaluates root called with a single built-in exit continuation,
// returning the exit code the program terminates with.
func Run(src string, root string, opts Options, host *builtins.Host) (*Result, int64, error) {
	res := Compile(src, root, opts)
	if res.Diagnostics.HasFatal() {
		return res, 0, nil
	}

	proc, ok := res.Program.ProcedureByName(root)
	if !ok {
		return res, 0, &diagnostics.Diagnostic{
			Code:    diagnostics.UnresolvedName,
			Message: "no such procedure: " + root,
		}
	}

	ev := eval.New[builtins.Tag, int64](res.Program, host.Eval())
	call := []eval.Value[builtins.Tag]{
		eval.ClosureValue[builtins.Tag](proc.ID(), nil),
		eval.BuiltinValue[builtins.Tag](builtins.Exit),
	}
	code, err := ev.Run(call)
	return res, code, err
}
