// Command turtlescript is the interpreter's entry point: it reads a source
// file (./script0.txt by default, per the reference), lexes, parses, and
// evaluates it, saving the canvas to the configured save path (if one is set
// and the script called init) and surfacing the first diagnostic it hits.
package main

import (
	"fmt"
	"os"

	"github.com/oarkflow/log"

	"github.com/oarkflow/turtlescript/internal/diagnostics"
	"github.com/oarkflow/turtlescript/internal/eval"
	"github.com/oarkflow/turtlescript/internal/parser"
	"github.com/oarkflow/turtlescript/internal/runconfig"
)

const sidecarConfigPath = "./turtlescript.yaml"

func main() {
	enableVirtualTerminal()

	cfg := runconfig.Default()
	if loaded, err := runconfig.Load(sidecarConfigPath); err == nil {
		cfg = loaded
	}

	os.Exit(run(cfg))
}

func run(cfg runconfig.Config) int {
	recorder := diagnostics.NewRecorder(&log.DefaultLogger)

	src, err := os.ReadFile(cfg.ScriptPath)
	if err != nil {
		d := diagnostics.New(diagnostics.ResourceError, 0, "cannot read '%s': %s", cfg.ScriptPath, err)
		reportFailure(recorder, d)
		return 1
	}

	arena, stmts, err := parser.Parse(src)
	if err != nil {
		var d *diagnostics.Diagnostic
		if pe, ok := err.(*parser.Error); ok {
			d = diagnostics.New(diagnostics.SyntaxError, pe.Line, "%s", pe.Message)
		} else {
			d = toDiagnostic(diagnostics.LexerError, err)
		}
		reportFailure(recorder, d)
		return 1
	}

	var opts []eval.Option
	opts = append(opts, eval.WithRecorder(recorder))
	opts = append(opts, eval.WithStdout(func(s string) {
		fmt.Print(diagnostics.StdoutColor + s + diagnostics.ResetColor)
	}))
	if cfg.HasSeed {
		opts = append(opts, eval.WithRandomSeed(cfg.RandomSeed))
	}

	ev := eval.New(opts...)
	if err := ev.Run(arena, stmts); err != nil {
		d := toDiagnostic(diagnostics.RuntimeError, err)
		reportFailure(recorder, d)
		return 1
	}

	if canvas := ev.Canvas(); canvas != nil && cfg.SavePath != "" {
		if err := canvas.SaveAsBitmap(cfg.SavePath); err != nil {
			d := toDiagnostic(diagnostics.ResourceError, err)
			reportFailure(recorder, d)
			return 1
		}
	}

	recorder.Completed()
	return 0
}

func toDiagnostic(fallbackKind diagnostics.Kind, err error) *diagnostics.Diagnostic {
	if d, ok := err.(*diagnostics.Diagnostic); ok {
		return d
	}
	return diagnostics.New(fallbackKind, 0, "%s", err)
}

func reportFailure(recorder *diagnostics.Recorder, d *diagnostics.Diagnostic) {
	recorder.Aborted(d)
	fmt.Fprintln(os.Stderr, diagnostics.StderrColor+d.Error()+diagnostics.ResetColor)
}
