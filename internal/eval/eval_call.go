package eval

import (
	"github.com/oarkflow/turtlescript/internal/ast"
	"github.com/oarkflow/turtlescript/internal/diagnostics"
)

// evalCall implements the dispatch order from spec.md §4.4.1: print first,
// then built-ins (name, arity, per-argument type schema), then user
// functions (name, arity).
func (ev *Evaluator) evalCall(e *ast.Expr) (Value, error) {
	if len(e.Arguments) > 16 {
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "call to '%s' takes at most 16 arguments", e.Name)
	}

	if e.Name == "print" {
		return ev.evalPrint(e)
	}

	args := make([]Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := ev.evalValue(a)
		if err != nil {
			return Value{}, err
		}
		if v.Kind == Void {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "argument %d to '%s' is Void", i+1, e.Name)
		}
		args[i] = v
	}

	if overloads, ok := ev.builtins[e.Name]; ok {
		ev.dispatch(e.Name)
		for _, b := range overloads {
			if matchSchema(b.schema, args) {
				return b.fn(ev, e.Line, args)
			}
		}
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line,
			"no overload of built-in '%s' accepts %d argument(s) of the given types", e.Name, len(args))
	}

	if fn, ok := ev.lookupUserFunc(e.Name, len(args)); ok {
		return ev.callUserFunc(fn, args)
	}
	if ev.userFuncExists(e.Name) {
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "function '%s' takes a different number of arguments", e.Name)
	}
	return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "function '%s' has not been defined", e.Name)
}

func (ev *Evaluator) evalPrint(e *ast.Expr) (Value, error) {
	if len(e.Arguments) == 0 {
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "'print' requires a format string argument")
	}
	format, err := ev.evalValue(e.Arguments[0])
	if err != nil {
		return Value{}, err
	}
	if format.Kind != String {
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "'print''s first argument must be a String")
	}
	rest := make([]Value, len(e.Arguments)-1)
	for i, a := range e.Arguments[1:] {
		v, err := ev.evalValue(a)
		if err != nil {
			return Value{}, err
		}
		rest[i] = v
	}
	out, err := formatPrint(format.StrVal, rest)
	if err != nil {
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "%s", err)
	}
	ev.stdout(out)
	return VoidValue(), nil
}

// callUserFunc pushes one variable per parameter, moves the function-scope
// boundary to the first parameter's slot (so the parameters are visible but
// the caller's variables are not), evaluates the body, and restores every piece of
// saved state before returning — regardless of whether the body finished by
// falling off the end or by an explicit return.
func (ev *Evaluator) callUserFunc(fn *userFunc, args []Value) (Value, error) {
	savedBase := ev.funcScopeBase
	savedLen := len(ev.vars)

	for i, p := range fn.params {
		ev.pushVar(p, args[i])
	}
	ev.funcScopeBase = savedLen

	st, retVal, err := ev.evalBlock(fn.body)

	ev.vars = ev.vars[:savedLen]
	ev.funcScopeBase = savedBase

	if err != nil {
		return Value{}, err
	}
	if st == stReturn {
		return retVal, nil
	}
	return VoidValue(), nil
}
