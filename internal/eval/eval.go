package eval

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/turtlescript/internal/ast"
	"github.com/oarkflow/turtlescript/internal/canvas"
	"github.com/oarkflow/turtlescript/internal/diagnostics"
)

// userFunc is one overload of a user-defined function, keyed by name+arity.
type userFunc struct {
	name   string
	params []string
	body   []ast.StmtHandle
}

// status is the control-flow signal a statement evaluation produces. There
// is no exception machinery: Break/Continue/Return are explicit values that
// propagate up through evalBlock until something handles them.
type status int

const (
	stSuccess status = iota
	stReturn
	stBreak
	stContinue
)

// Evaluator holds everything a single run needs: the variable stack, the
// function-scope boundary, the monotonic generation counter, the user- and
// built-in function tables, the canvas, and the RNG.
type Evaluator struct {
	arena *ast.Arena

	vars          []Variable
	funcScopeBase int
	generation    uint64

	funcs    []userFunc
	builtins map[string][]builtin

	canvas *canvas.Canvas
	rng    *rand.Rand

	recorder *diagnostics.Recorder
	stdout   func(string)
}

type Option func(*Evaluator)

// WithRandomSeed fixes the RNG seed instead of the default
// seed-from-monotonic-clock behavior, for reproducible test runs.
func WithRandomSeed(seed int64) Option {
	return func(ev *Evaluator) { ev.rng = rand.New(rand.NewSource(seed)) }
}

// WithRecorder attaches the structured-logging side channel.
func WithRecorder(r *diagnostics.Recorder) Option {
	return func(ev *Evaluator) { ev.recorder = r }
}

// WithStdout overrides where `print` writes; tests use this to capture
// output instead of the process's real stdout.
func WithStdout(fn func(string)) Option {
	return func(ev *Evaluator) { ev.stdout = fn }
}

func New(opts ...Option) *Evaluator {
	ev := &Evaluator{
		builtins: registerBuiltins(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		stdout:   func(s string) { fmt.Print(s) },
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Run evaluates a parsed program's top-level statements to completion.
func (ev *Evaluator) Run(arena *ast.Arena, stmts []ast.StmtHandle) error {
	ev.arena = arena
	st, _, err := ev.evalBlock(stmts)
	if err != nil {
		return err
	}
	if st == stReturn {
		return errors.New("'return' outside a function")
	}
	return nil
}

// evalBlock runs a statement list under its own scope: it snapshots the
// variable-stack and function-table lengths on entry and restores both on
// every exit path (normal completion, Break, Continue, or Return) — the
// sole mechanism by which variables and nested function definitions are
// destroyed.
func (ev *Evaluator) evalBlock(stmts []ast.StmtHandle) (status, Value, error) {
	varLen0 := len(ev.vars)
	funcLen0 := len(ev.funcs)
	defer func() {
		ev.vars = ev.vars[:varLen0]
		ev.funcs = ev.funcs[:funcLen0]
	}()

	for _, s := range stmts {
		st, v, err := ev.evalStmt(s)
		if err != nil {
			return stSuccess, Value{}, err
		}
		if st != stSuccess {
			return st, v, nil
		}
	}
	return stSuccess, Value{}, nil
}

func (ev *Evaluator) pushVar(name string, v Value) int {
	ev.generation++
	ev.vars = append(ev.vars, Variable{Name: name, Value: v, Generation: ev.generation})
	return len(ev.vars) - 1
}

// lookupVar resolves an identifier the normal way: searching only the
// active function's variable window (from funcScopeBase to the top), most
// recent declaration first, so inner shadows outer.
func (ev *Evaluator) lookupVar(name string) (int, bool) {
	for i := len(ev.vars) - 1; i >= ev.funcScopeBase; i-- {
		if ev.vars[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// lookupVarAnyScope implements `'x` (parent-scope access): it searches the
// entire stack, ignoring the function-scope boundary.
func (ev *Evaluator) lookupVarAnyScope(name string) (int, bool) {
	for i := len(ev.vars) - 1; i >= 0; i-- {
		if ev.vars[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

func (ev *Evaluator) lookupUserFunc(name string, arity int) (*userFunc, bool) {
	for i := len(ev.funcs) - 1; i >= 0; i-- {
		if ev.funcs[i].name == name && len(ev.funcs[i].params) == arity {
			return &ev.funcs[i], true
		}
	}
	return nil, false
}

func (ev *Evaluator) userFuncExists(name string) bool {
	for _, f := range ev.funcs {
		if f.name == name {
			return true
		}
	}
	return false
}

func (ev *Evaluator) builtinExists(name string) bool {
	_, ok := ev.builtins[name]
	return ok
}

// collapse loads a Lvalue's stored value; every non-lvalue context
// (arithmetic, comparisons, returns, declarations, parameter binding)
// eagerly collapses an identifier's natural Lvalue result this way.
func (ev *Evaluator) collapse(v Value) (Value, error) {
	if v.Kind != Lvalue {
		return v, nil
	}
	if v.SlotIndex < 0 || v.SlotIndex >= len(ev.vars) {
		return Value{}, errors.New("dangling reference: variable slot no longer exists")
	}
	return ev.vars[v.SlotIndex].Value, nil
}

func (ev *Evaluator) evalValue(h ast.ExprHandle) (Value, error) {
	v, err := ev.evalExpr(h)
	if err != nil {
		return Value{}, err
	}
	return ev.collapse(v)
}

func typeErr(line int, op string, kinds ...Kind) error {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return diagnostics.New(diagnostics.RuntimeError, line, "operator '%s' does not accept operand type(s) %v", op, names)
}

func (ev *Evaluator) dispatch(name string) {
	if ev.recorder != nil {
		ev.recorder.Dispatch(name, 0)
	}
}

// Canvas exposes the current canvas (nil if `init` was never called), for
// callers that need to act on the finished drawing (e.g. a CLI that saves
// it to a configured path at exit).
func (ev *Evaluator) Canvas() *canvas.Canvas { return ev.canvas }
