// Command olus is the reference CLI host for the pipeline (spec §6):
// it reads a source file, runs it through internal/pipeline, and
// reports diagnostics or the program's exit code. Grounded on
// opal-lang-opal/cli's cobra root command (persistent flags, RunE
// returning an error rather than calling os.Exit mid-flight) and
// vippsas-sqlcode/cli's logrus wiring, with github.com/mattn/go-isatty
// deciding the --no-color default the way opal-lang-opal's own
// noColor flag does.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/recmo/olus/internal/builtins"
	"github.com/recmo/olus/internal/diagnostics"
	"github.com/recmo/olus/internal/eval"
	"github.com/recmo/olus/internal/ir"
	"github.com/recmo/olus/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		root    string
		traceDB string
		dumpIR  bool
		noColor bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "olus <file>",
		Short:         "Run an olus source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			color := !noColor && isatty.IsTerminal(os.Stdout.Fd())
			exitCode, err := run(args[0], root, traceDB, dumpIR, color, verbose)
			if err != nil {
				return err
			}
			if exitCode != 0 {
				os.Exit(int(exitCode))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "main", "name of the procedure to run")
	cmd.Flags().StringVar(&traceDB, "trace-db", "", "sqlite file to log every call step to (trace builtin)")
	cmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the compiled IR to stderr instead of running it")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline phase boundaries")

	return cmd
}

func run(path, root, traceDB string, dumpIR, color, verbose bool) (int64, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 1, fmt.Errorf("reading %s: %w", path, err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	res := pipeline.Compile(string(src), root, pipeline.Options{Logger: log})
	for _, d := range res.Diagnostics.All() {
		printDiagnostic(os.Stderr, path, d, color)
	}
	if res.Diagnostics.HasFatal() {
		return 1, nil
	}

	if dumpIR {
		ir.Fprint(os.Stderr, res.Program)
		return 0, nil
	}

	mainProc, ok := res.Program.ProcedureByName(root)
	if !ok {
		return 1, fmt.Errorf("no such procedure: %s", root)
	}

	var tracer *builtins.Tracer
	if traceDB != "" {
		tracer, err = builtins.OpenTracer(traceDB)
		if err != nil {
			return 1, err
		}
		defer tracer.Close()
	}

	host := &builtins.Host{Out: os.Stdout, Trace: tracer}
	ev := eval.New[builtins.Tag, int64](res.Program, host.Eval())
	call := []eval.Value[builtins.Tag]{
		eval.ClosureValue[builtins.Tag](mainProc.ID(), nil),
		eval.BuiltinValue[builtins.Tag](builtins.Exit),
	}
	return ev.Run(call)
}

func printDiagnostic(w *os.File, path string, d diagnostics.Diagnostic, color bool) {
	if color {
		fmt.Fprintf(w, "\x1b[31m%s\x1b[0m: %s\n", path, d.Error())
		return
	}
	fmt.Fprintf(w, "%s: %s\n", path, d.Error())
}
