package eval

import (
	"math"

	"github.com/oarkflow/turtlescript/internal/ast"
	"github.com/oarkflow/turtlescript/internal/diagnostics"
)

func (ev *Evaluator) evalStmt(h ast.StmtHandle) (status, Value, error) {
	s := ev.arena.Stmt(h)
	switch s.Kind {
	case ast.StmtExpression:
		if _, err := ev.evalValue(s.Expression); err != nil {
			return stSuccess, Value{}, err
		}
		return stSuccess, Value{}, nil

	case ast.StmtDeclaration:
		return ev.evalDeclaration(s)

	case ast.StmtAssignment:
		return ev.evalAssignment(s)

	case ast.StmtIf:
		return ev.evalIf(s)

	case ast.StmtWhile:
		return ev.evalWhile(s)

	case ast.StmtFor:
		return ev.evalFor(s)

	case ast.StmtFunctionDefinition:
		ev.funcs = append(ev.funcs, userFunc{name: s.FuncName, params: s.FuncParams, body: s.FuncBody})
		return stSuccess, Value{}, nil

	case ast.StmtBreak:
		return stBreak, Value{}, nil

	case ast.StmtContinue:
		return stContinue, Value{}, nil

	case ast.StmtReturn:
		if !s.HasReturnValue {
			return stReturn, VoidValue(), nil
		}
		v, err := ev.evalValue(s.ReturnValue)
		if err != nil {
			return stSuccess, Value{}, err
		}
		return stReturn, v, nil

	default:
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "invalid statement")
	}
}

func (ev *Evaluator) evalDeclaration(s *ast.Stmt) (status, Value, error) {
	for i := len(ev.vars) - 1; i >= ev.funcScopeBase; i-- {
		if ev.vars[i].Name == s.DeclVar {
			return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "variable '%s' is already declared in this scope", s.DeclVar)
		}
	}
	v, err := ev.evalValue(s.DeclName)
	if err != nil {
		return stSuccess, Value{}, err
	}
	if v.Kind == Void {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "cannot declare '%s' with a Void initializer", s.DeclVar)
	}
	ev.pushVar(s.DeclVar, v)
	return stSuccess, Value{}, nil
}

func (ev *Evaluator) evalAssignment(s *ast.Stmt) (status, Value, error) {
	target, err := ev.evalExpr(s.AssignTarget)
	if err != nil {
		return stSuccess, Value{}, err
	}
	if target.Kind != Lvalue {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "assignment target is not assignable")
	}

	rvalue, err := ev.evalValue(s.AssignValue)
	if err != nil {
		return stSuccess, Value{}, err
	}
	if rvalue.Kind == Void {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "cannot assign a Void value")
	}

	slot := target.SlotIndex
	if s.AssignOp == ast.AssignSet {
		ev.vars[slot].Value = rvalue
		return stSuccess, Value{}, nil
	}

	current := ev.vars[slot].Value
	if current.Kind != Int && current.Kind != Float {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "compound assignment requires a numeric target, got %s", current.Kind)
	}
	if rvalue.Kind != Int && rvalue.Kind != Float {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "compound assignment requires a numeric value, got %s", rvalue.Kind)
	}

	result, err := compoundAssign(s, current, rvalue)
	if err != nil {
		return stSuccess, Value{}, err
	}
	ev.vars[slot].Value = result
	return stSuccess, Value{}, nil
}

func compoundAssign(s *ast.Stmt, current, rvalue Value) (Value, error) {
	if current.Kind == Int && rvalue.Kind == Int {
		a, b := current.IntVal, rvalue.IntVal
		switch s.AssignOp {
		case ast.AssignAdd:
			return IntValue(a + b), nil
		case ast.AssignSub:
			return IntValue(a - b), nil
		case ast.AssignMul:
			return IntValue(a * b), nil
		case ast.AssignDiv:
			if b == 0 {
				return Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "division by zero")
			}
			return IntValue(a / b), nil
		case ast.AssignMod:
			if b == 0 {
				return Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "division by zero")
			}
			return IntValue(a % b), nil
		case ast.AssignPow:
			return IntValue(int64(math.Pow(float64(a), float64(b)))), nil
		}
	}
	a, b := current.AsFloat64(), rvalue.AsFloat64()
	switch s.AssignOp {
	case ast.AssignAdd:
		return FloatValue(a + b), nil
	case ast.AssignSub:
		return FloatValue(a - b), nil
	case ast.AssignMul:
		return FloatValue(a * b), nil
	case ast.AssignDiv:
		return FloatValue(a / b), nil
	case ast.AssignMod:
		return FloatValue(floatMod(a, b)), nil
	case ast.AssignPow:
		return FloatValue(floatPow(a, b)), nil
	}
	return Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "invalid compound assignment operator")
}

func (ev *Evaluator) evalIf(s *ast.Stmt) (status, Value, error) {
	cond, err := ev.evalValue(s.IfCond)
	if err != nil {
		return stSuccess, Value{}, err
	}
	if cond.Kind != Bool {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "'if' condition must be Bool, got %s", cond.Kind)
	}
	if cond.BoolVal {
		return ev.evalBlock(s.ThenBody)
	}
	if s.HasElse {
		return ev.evalBlock(s.ElseBody)
	}
	return stSuccess, Value{}, nil
}

func (ev *Evaluator) evalWhile(s *ast.Stmt) (status, Value, error) {
	for {
		cond, err := ev.evalValue(s.WhileCond)
		if err != nil {
			return stSuccess, Value{}, err
		}
		if cond.Kind != Bool {
			return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "'while' condition must be Bool, got %s", cond.Kind)
		}
		if !cond.BoolVal {
			return stSuccess, Value{}, nil
		}
		st, v, err := ev.evalBlock(s.WhileBody)
		if err != nil {
			return stSuccess, Value{}, err
		}
		switch st {
		case stBreak:
			return stSuccess, Value{}, nil
		case stReturn:
			return stReturn, v, nil
		}
	}
}

func (ev *Evaluator) evalFor(s *ast.Stmt) (status, Value, error) {
	low, err := ev.evalValue(s.ForLow)
	if err != nil {
		return stSuccess, Value{}, err
	}
	high, err := ev.evalValue(s.ForHigh)
	if err != nil {
		return stSuccess, Value{}, err
	}
	if low.Kind != Int || high.Kind != Int {
		return stSuccess, Value{}, diagnostics.New(diagnostics.RuntimeError, s.Line, "'for' bounds must be Int")
	}

	varLen0 := len(ev.vars)
	idx := ev.pushVar(s.ForVar, IntValue(low.IntVal))
	defer func() { ev.vars = ev.vars[:varLen0] }()

	for ev.vars[idx].Value.IntVal < high.IntVal {
		st, v, err := ev.evalBlock(s.ForBody)
		if err != nil {
			return stSuccess, Value{}, err
		}
		switch st {
		case stBreak:
			return stSuccess, Value{}, nil
		case stReturn:
			return stReturn, v, nil
		}
		ev.vars[idx].Value = IntValue(ev.vars[idx].Value.IntVal + 1)
	}
	return stSuccess, Value{}, nil
}

func floatMod(a, b float64) float64 {
	return math.Mod(a, b)
}

func floatPow(a, b float64) float64 {
	return math.Pow(a, b)
}
