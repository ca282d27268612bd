package eval

import (
	"math"
	"strings"

	"github.com/oarkflow/convert"
	"github.com/oarkflow/errors"

	"github.com/oarkflow/turtlescript/internal/canvas"
	"github.com/oarkflow/turtlescript/internal/diagnostics"
)

// builtin is one overload of a built-in function: a name, an ordered
// parameter-type schema (Int/Float/Bool/String, or the intOrFloatSchema /
// anySchema markers), and its implementation.
type builtin struct {
	name   string
	schema []Kind
	fn     func(ev *Evaluator, line int, args []Value) (Value, error)
}

func matchSchema(schema []Kind, args []Value) bool {
	if len(schema) != len(args) {
		return false
	}
	for i, k := range schema {
		switch k {
		case anySchema:
			continue
		case intOrFloatSchema:
			if args[i].Kind != Int && args[i].Kind != Float {
				return false
			}
		default:
			if args[i].Kind != k {
				return false
			}
		}
	}
	return true
}

func unaryMath(name string, fn func(float64) float64) builtin {
	return builtin{name: name, schema: []Kind{intOrFloatSchema}, fn: func(_ *Evaluator, _ int, args []Value) (Value, error) {
		return FloatValue(fn(args[0].AsFloat64())), nil
	}}
}

func registerBuiltins() map[string][]builtin {
	reg := map[string][]builtin{}
	add := func(b builtin) { reg[b.name] = append(reg[b.name], b) }

	for _, m := range []struct {
		name string
		fn   func(float64) float64
	}{
		{"sin", math.Sin}, {"cos", math.Cos}, {"tan", math.Tan},
		{"asin", math.Asin}, {"acos", math.Acos}, {"atan", math.Atan},
		{"sinh", math.Sinh}, {"cosh", math.Cosh}, {"tanh", math.Tanh},
		{"asinh", math.Asinh}, {"acosh", math.Acosh}, {"atanh", math.Atanh},
		{"abs", math.Abs}, {"sqrt", math.Sqrt}, {"cbrt", math.Cbrt},
		{"gamma", math.Gamma},
		{"radians", func(x float64) float64 { return x * math.Pi / 180 }},
		{"degrees", func(x float64) float64 { return x * 180 / math.Pi }},
	} {
		add(unaryMath(m.name, m.fn))
	}

	add(builtin{name: "min", schema: []Kind{intOrFloatSchema, intOrFloatSchema}, fn: func(_ *Evaluator, _ int, a []Value) (Value, error) {
		return FloatValue(math.Min(a[0].AsFloat64(), a[1].AsFloat64())), nil
	}})
	add(builtin{name: "max", schema: []Kind{intOrFloatSchema, intOrFloatSchema}, fn: func(_ *Evaluator, _ int, a []Value) (Value, error) {
		return FloatValue(math.Max(a[0].AsFloat64(), a[1].AsFloat64())), nil
	}})

	add(builtin{name: "typename", schema: []Kind{anySchema}, fn: func(_ *Evaluator, _ int, a []Value) (Value, error) {
		return StringValue(a[0].Kind.String()), nil
	}})

	add(builtin{name: "int", schema: []Kind{anySchema}, fn: func(_ *Evaluator, line int, a []Value) (Value, error) {
		switch a[0].Kind {
		case Int:
			return a[0], nil
		case Float:
			v, _ := convert.ToInt64(a[0].FloatVal)
			return IntValue(v), nil
		case Bool:
			v, _ := convert.ToInt64(a[0].BoolVal)
			return IntValue(v), nil
		default:
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "int(): cannot cast %s to Int", a[0].Kind.String())
		}
	}})
	add(builtin{name: "float", schema: []Kind{anySchema}, fn: func(_ *Evaluator, line int, a []Value) (Value, error) {
		switch a[0].Kind {
		case Int:
			v, _ := convert.ToFloat64(a[0].IntVal)
			return FloatValue(v), nil
		case Float:
			return a[0], nil
		case Bool:
			v, _ := convert.ToFloat64(a[0].BoolVal)
			return FloatValue(v), nil
		default:
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "float(): cannot cast %s to Float", a[0].Kind.String())
		}
	}})

	add(builtin{name: "pi", schema: nil, fn: func(_ *Evaluator, _ int, _ []Value) (Value, error) {
		return FloatValue(math.Pi), nil
	}})
	add(builtin{name: "random", schema: nil, fn: func(ev *Evaluator, _ int, _ []Value) (Value, error) {
		return FloatValue(ev.rng.Float64()), nil
	}})

	add(builtin{name: "init", schema: []Kind{Int, Int}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		w, h, err := canvasDims(line, a[0].IntVal, a[1].IntVal)
		if err != nil {
			return Value{}, err
		}
		c, err := canvas.New(w, h)
		if err != nil {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "%s", err)
		}
		ev.canvas = c
		return VoidValue(), nil
	}})
	add(builtin{name: "init", schema: []Kind{Int, Int, Int, Int, Int}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		w, h, err := canvasDims(line, a[0].IntVal, a[1].IntVal)
		if err != nil {
			return Value{}, err
		}
		r, g, b := a[2].IntVal, a[3].IntVal, a[4].IntVal
		if err := checkByteRange(r, g, b); err != nil {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "%s", err)
		}
		c, err := canvas.NewWithBackground(w, h, uint8(r), uint8(g), uint8(b))
		if err != nil {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "%s", err)
		}
		ev.canvas = c
		return VoidValue(), nil
	}})

	moveBuiltin := func(name string, sign float64) builtin {
		return builtin{name: name, schema: []Kind{intOrFloatSchema}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
			if err := ev.requireCanvas(line); err != nil {
				return Value{}, err
			}
			ev.canvas.MoveForward(sign * a[0].AsFloat64())
			return VoidValue(), nil
		}}
	}
	add(moveBuiltin("forward", 1))
	add(moveBuiltin("backwards", -1))
	add(moveBuiltin("backward", -1))

	add(builtin{name: "right", schema: []Kind{intOrFloatSchema}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.Rot -= a[0].AsFloat64()
		return VoidValue(), nil
	}})
	add(builtin{name: "left", schema: []Kind{intOrFloatSchema}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.Rot += a[0].AsFloat64()
		return VoidValue(), nil
	}})

	add(builtin{name: "setpos", schema: []Kind{intOrFloatSchema, intOrFloatSchema}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.PosX = a[0].AsFloat64()
		ev.canvas.PosY = a[1].AsFloat64()
		return VoidValue(), nil
	}})
	add(builtin{name: "setrot", schema: []Kind{intOrFloatSchema}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.Rot = a[0].AsFloat64()
		return VoidValue(), nil
	}})

	add(builtin{name: "getposx", schema: nil, fn: func(ev *Evaluator, line int, _ []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		return FloatValue(ev.canvas.PosX), nil
	}})
	add(builtin{name: "getposy", schema: nil, fn: func(ev *Evaluator, line int, _ []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		return FloatValue(ev.canvas.PosY), nil
	}})
	add(builtin{name: "getrot", schema: nil, fn: func(ev *Evaluator, line int, _ []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		return FloatValue(ev.canvas.Rot), nil
	}})

	add(builtin{name: "penup", schema: nil, fn: func(ev *Evaluator, line int, _ []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.IsPenDown = false
		return VoidValue(), nil
	}})
	add(builtin{name: "pendown", schema: nil, fn: func(ev *Evaluator, line int, _ []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		ev.canvas.IsPenDown = true
		return VoidValue(), nil
	}})

	add(builtin{name: "pencolor", schema: []Kind{Int, Int, Int}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		if err := checkByteRange(a[0].IntVal, a[1].IntVal, a[2].IntVal); err != nil {
			return Value{}, diagnostics.New(diagnostics.RuntimeError, line, "%s", err)
		}
		ev.canvas.PenColor = canvas.Color{R: uint8(a[0].IntVal), G: uint8(a[1].IntVal), B: uint8(a[2].IntVal)}
		return VoidValue(), nil
	}})

	add(builtin{name: "save", schema: []Kind{String}, fn: func(ev *Evaluator, line int, a []Value) (Value, error) {
		if err := ev.requireCanvas(line); err != nil {
			return Value{}, err
		}
		if err := ev.canvas.SaveAsBitmap(a[0].StrVal); err != nil {
			return Value{}, diagnostics.New(diagnostics.ResourceError, line, "%s", err)
		}
		return VoidValue(), nil
	}})

	return reg
}

func checkByteRange(vs ...int64) error {
	for _, v := range vs {
		if v < 0 || v > 255 {
			return errors.New("color channel must be in range [0,255]")
		}
	}
	return nil
}

// canvasDims validates that the script-supplied width/height fit in the
// int32 canvas expects before narrowing, so an out-of-range value reports a
// clear runtime error instead of silently wrapping to a different size.
func canvasDims(line int, w, h int64) (int32, int32, error) {
	for _, v := range []int64{w, h} {
		if v < 1 || v > math.MaxInt32 {
			return 0, 0, diagnostics.New(diagnostics.RuntimeError, line,
				"canvas dimensions must be in range [1,%d], got %d", int64(math.MaxInt32), v)
		}
	}
	return int32(w), int32(h), nil
}

func (ev *Evaluator) requireCanvas(line int) error {
	if ev.canvas == nil {
		return diagnostics.New(diagnostics.RuntimeError, line, "canvas has not been initialized; call init() first")
	}
	return nil
}

// formatPrint implements the single-`%`-placeholder format scheme: each '%'
// in the format string is replaced, in order, by the Inspect()ed form of the
// next variadic argument. The count of '%' in the format must equal the
// argument count.
func formatPrint(format string, args []Value) (string, error) {
	var sb strings.Builder
	ai := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '%' {
			if ai >= len(args) {
				return "", errors.New("print: more '%' placeholders than arguments")
			}
			sb.WriteString(args[ai].Inspect())
			ai++
			continue
		}
		sb.WriteByte(format[i])
	}
	if ai != len(args) {
		return "", errors.New("print: more arguments than '%' placeholders")
	}
	return sb.String(), nil
}
