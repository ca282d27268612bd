package eval

import (
	"math"

	"github.com/oarkflow/turtlescript/internal/ast"
	"github.com/oarkflow/turtlescript/internal/diagnostics"
)

// evalExpr evaluates an expression in its "raw" form: an Identifier yields
// an Lvalue (never the stored value directly), so the assignment path can
// locate the target slot. Every other context collapses that Lvalue via
// evalValue/collapse.
func (ev *Evaluator) evalExpr(h ast.ExprHandle) (Value, error) {
	e := ev.arena.Expr(h)
	switch e.Kind {
	case ast.ExprIntLiteral:
		return IntValue(e.IntValue), nil
	case ast.ExprFloatLiteral:
		return FloatValue(e.FloatValue), nil
	case ast.ExprBoolLiteral:
		return BoolValue(e.BoolValue), nil
	case ast.ExprStringLiteral:
		return StringValue(e.StringValue), nil
	case ast.ExprIdentifier:
		idx, ok := ev.lookupVar(e.Name)
		if !ok {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "undefined variable '%s'", e.Name)
		}
		return LvalueValue(idx), nil
	case ast.ExprUnaryPrefixOp:
		return ev.evalUnary(e)
	case ast.ExprBinaryOp:
		return ev.evalBinary(e)
	case ast.ExprFunctionCall:
		return ev.evalCall(e)
	case ast.ExprArrayAccess:
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "array access is not supported by this value model")
	default:
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "invalid expression")
	}
}

func (ev *Evaluator) evalUnary(e *ast.Expr) (Value, error) {
	switch e.UnaryOperator {
	case ast.UnaryPlus, ast.UnaryMinus:
		v, err := ev.evalValue(e.UnaryOperand)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != Int && v.Kind != Float {
			return Value{}, typeErr(e.Line, unaryOpSymbol(e.UnaryOperator), v.Kind)
		}
		if e.UnaryOperator == ast.UnaryPlus {
			return v, nil
		}
		if v.Kind == Int {
			return IntValue(-v.IntVal), nil
		}
		return FloatValue(-v.FloatVal), nil

	case ast.UnaryNot:
		v, err := ev.evalValue(e.UnaryOperand)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != Bool {
			return Value{}, typeErr(e.Line, "not", v.Kind)
		}
		return BoolValue(!v.BoolVal), nil

	case ast.UnaryReference:
		// Parser already guarantees the operand is syntactically an
		// identifier.
		name := ev.arena.Expr(e.UnaryOperand).Name
		idx, ok := ev.lookupVar(name)
		if !ok {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "undefined variable '%s'", name)
		}
		return ReferenceValue(idx, ev.vars[idx].Generation), nil

	case ast.UnaryDereference:
		v, err := ev.evalValue(e.UnaryOperand)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != Reference {
			return Value{}, typeErr(e.Line, "^", v.Kind)
		}
		if v.SlotIndex < 0 || v.SlotIndex >= len(ev.vars) || ev.vars[v.SlotIndex].Generation != v.Generation {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "dangling reference")
		}
		return LvalueValue(v.SlotIndex), nil

	case ast.UnaryParentScope:
		name := ev.arena.Expr(e.UnaryOperand).Name
		idx, ok := ev.lookupVarAnyScope(name)
		if !ok {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "undefined variable '%s'", name)
		}
		return LvalueValue(idx), nil

	default:
		return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "invalid unary operator")
	}
}

func unaryOpSymbol(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryPlus:
		return "+"
	case ast.UnaryMinus:
		return "-"
	case ast.UnaryNot:
		return "not"
	case ast.UnaryReference:
		return "&"
	case ast.UnaryDereference:
		return "^"
	case ast.UnaryParentScope:
		return "'"
	default:
		return "?"
	}
}

func (ev *Evaluator) evalBinary(e *ast.Expr) (Value, error) {
	left, err := ev.evalValue(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ev.evalValue(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.BinaryOperator {
	case ast.BinAnd, ast.BinOr:
		if left.Kind != Bool || right.Kind != Bool {
			return Value{}, typeErr(e.Line, binaryOpSymbol(e.BinaryOperator), left.Kind, right.Kind)
		}
		if e.BinaryOperator == ast.BinAnd {
			return BoolValue(left.BoolVal && right.BoolVal), nil
		}
		return BoolValue(left.BoolVal || right.BoolVal), nil

	case ast.BinEq, ast.BinNeq:
		return compareEquality(e, left, right)

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		return compareOrdered(e, left, right)

	default:
		return arithmetic(e, left, right)
	}
}

func binaryOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	case ast.BinPow:
		return "^"
	case ast.BinEq:
		return "=="
	case ast.BinNeq:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinAnd:
		return "and"
	case ast.BinOr:
		return "or"
	default:
		return "?"
	}
}

func bothNumeric(l, r Value) bool {
	return (l.Kind == Int || l.Kind == Float) && (r.Kind == Int || r.Kind == Float)
}

func arithmetic(e *ast.Expr, l, r Value) (Value, error) {
	if !bothNumeric(l, r) {
		return Value{}, typeErr(e.Line, binaryOpSymbol(e.BinaryOperator), l.Kind, r.Kind)
	}
	if l.Kind == Int && r.Kind == Int {
		a, b := l.IntVal, r.IntVal
		switch e.BinaryOperator {
		case ast.BinAdd:
			return IntValue(a + b), nil
		case ast.BinSub:
			return IntValue(a - b), nil
		case ast.BinMul:
			return IntValue(a * b), nil
		case ast.BinDiv:
			if b == 0 {
				return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "division by zero")
			}
			return IntValue(a / b), nil
		case ast.BinMod:
			if b == 0 {
				return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "division by zero")
			}
			return IntValue(a % b), nil
		case ast.BinPow:
			return IntValue(int64(math.Pow(float64(a), float64(b)))), nil
		}
	}
	a, b := l.AsFloat64(), r.AsFloat64()
	switch e.BinaryOperator {
	case ast.BinAdd:
		return FloatValue(a + b), nil
	case ast.BinSub:
		return FloatValue(a - b), nil
	case ast.BinMul:
		return FloatValue(a * b), nil
	case ast.BinDiv:
		return FloatValue(a / b), nil
	case ast.BinMod:
		return FloatValue(math.Mod(a, b)), nil
	case ast.BinPow:
		return FloatValue(math.Pow(a, b)), nil
	}
	return Value{}, diagnostics.New(diagnostics.RuntimeError, e.Line, "invalid arithmetic operator")
}

func compareEquality(e *ast.Expr, l, r Value) (Value, error) {
	var eq bool
	switch {
	case bothNumeric(l, r):
		eq = l.AsFloat64() == r.AsFloat64()
	case l.Kind == Bool && r.Kind == Bool:
		eq = l.BoolVal == r.BoolVal
	case l.Kind == String && r.Kind == String:
		eq = l.StrVal == r.StrVal
	default:
		return Value{}, typeErr(e.Line, binaryOpSymbol(e.BinaryOperator), l.Kind, r.Kind)
	}
	if e.BinaryOperator == ast.BinNeq {
		eq = !eq
	}
	return BoolValue(eq), nil
}

func compareOrdered(e *ast.Expr, l, r Value) (Value, error) {
	if !bothNumeric(l, r) {
		return Value{}, typeErr(e.Line, binaryOpSymbol(e.BinaryOperator), l.Kind, r.Kind)
	}
	a, b := l.AsFloat64(), r.AsFloat64()
	var result bool
	switch e.BinaryOperator {
	case ast.BinLt:
		result = a < b
	case ast.BinLe:
		result = a <= b
	case ast.BinGt:
		result = a > b
	case ast.BinGe:
		result = a >= b
	}
	return BoolValue(result), nil
}
