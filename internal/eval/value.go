// Package eval is the tree-walking evaluator: value model, variable stack,
// function tables, and statement/expression semantics.
package eval

import "fmt"

type Kind int

const (
	Void Kind = iota
	Int
	Float
	Bool
	String
	Reference
	Lvalue

	// internal-only, never a runtime value: used exclusively to describe
	// built-in parameter schemas.
	intOrFloatSchema
	anySchema
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "Void"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Reference:
		return "Reference"
	case Lvalue:
		return "Lvalue"
	default:
		return "?"
	}
}

// Value is the tagged union of every runtime value the evaluator produces.
// Lvalue/Reference additionally carry a variable-slot index; Reference also
// carries the generation captured at the moment it was taken.
type Value struct {
	Kind       Kind
	IntVal     int64
	FloatVal   float64
	BoolVal    bool
	StrVal     string
	SlotIndex  int
	Generation uint64
}

func VoidValue() Value                { return Value{Kind: Void} }
func IntValue(v int64) Value           { return Value{Kind: Int, IntVal: v} }
func FloatValue(v float64) Value       { return Value{Kind: Float, FloatVal: v} }
func BoolValue(v bool) Value           { return Value{Kind: Bool, BoolVal: v} }
func StringValue(v string) Value       { return Value{Kind: String, StrVal: v} }
func ReferenceValue(idx int, gen uint64) Value {
	return Value{Kind: Reference, SlotIndex: idx, Generation: gen}
}
func LvalueValue(idx int) Value { return Value{Kind: Lvalue, SlotIndex: idx} }

// AsFloat64 views an Int or Float value as a float64; callers must have
// already checked Kind is one of those two.
func (v Value) AsFloat64() float64 {
	if v.Kind == Int {
		return float64(v.IntVal)
	}
	return v.FloatVal
}

func (v Value) Inspect() string {
	switch v.Kind {
	case Void:
		return "void"
	case Int:
		return fmt.Sprintf("%d", v.IntVal)
	case Float:
		return fmt.Sprintf("%g", v.FloatVal)
	case Bool:
		return fmt.Sprintf("%t", v.BoolVal)
	case String:
		return v.StrVal
	case Reference:
		return fmt.Sprintf("&%d", v.SlotIndex)
	default:
		return "?"
	}
}

// Variable is one flat-stack slot: a name, its current value, and the
// generation stamped on it when it was pushed.
type Variable struct {
	Name       string
	Value      Value
	Generation uint64
}
