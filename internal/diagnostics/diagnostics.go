// Package diagnostics models the four user-facing error kinds (spec.md §7:
// Lexer, Syntax, Runtime, Resource) and the operational side-channel that
// logs every run's outcome, the way integrations/manager.go in the teacher
// logs both the attempt and its result around a fallible call.
package diagnostics

import (
	"fmt"

	"github.com/oarkflow/errors"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
)

type Kind int

const (
	LexerError Kind = iota
	SyntaxError
	RuntimeError
	ResourceError
)

func (k Kind) String() string {
	switch k {
	case LexerError:
		return "Lexer error"
	case SyntaxError:
		return "Syntax error"
	case RuntimeError:
		return "Runtime error"
	case ResourceError:
		return "Resource error"
	default:
		return "error"
	}
}

// Diagnostic carries a formatted, user-facing single-line message (spec.md
// §7: no recovery, first error aborts its stage) plus the wrapped cause used
// for structured logging.
type Diagnostic struct {
	Kind  Kind
	Line  int
	cause error
}

func New(kind Kind, line int, format string, args ...any) *Diagnostic {
	msg := fmt.Sprintf(format, args...)
	return &Diagnostic{Kind: kind, Line: line, cause: errors.New(msg)}
}

func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("[%s] Line %d: %s", d.Kind, d.Line, d.cause.Error())
	}
	return fmt.Sprintf("[%s] %s", d.Kind, d.cause.Error())
}

func (d *Diagnostic) Unwrap() error { return d.cause }

// ANSI escapes spec.md §6 requires: stderr diagnostics in color 9 (bright
// red), stdout program output in color 15 (bright white).
const (
	StderrColor = "\x1b[38;5;9m"
	StdoutColor = "\x1b[38;5;15m"
	ResetColor  = "\x1b[0m"
)

// Recorder is the structured operational side channel: every run gets a
// correlation id (mirroring the teacher's use of xid-style identifiers to
// tag a unit of work) and logs built-in dispatch at Debug level, a completed
// run at Info level and an aborted run at Error level, distinct from the
// ANSI-colored diagnostic line written to the terminal.
type Recorder struct {
	logger *log.Logger
	runID  string
}

func NewRecorder(logger *log.Logger) *Recorder {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &Recorder{logger: logger, runID: xid.New().String()}
}

func (r *Recorder) RunID() string { return r.runID }

func (r *Recorder) Dispatch(name string, line int) {
	r.logger.Debug().Str("run_id", r.runID).Str("builtin", name).Int("line", line).Msg("built-in dispatch")
}

func (r *Recorder) Aborted(d *Diagnostic) {
	r.logger.Error().Str("run_id", r.runID).Str("kind", d.Kind.String()).Int("line", d.Line).Err(d.cause).Msg("run aborted")
}

func (r *Recorder) Completed() {
	r.logger.Info().Str("run_id", r.runID).Msg("run completed")
}
