package formulacore

import "strings"

// simpleFunc is the common Function implementation every built-in uses
// (§4.5/§9): eager functions evaluate all arguments first, propagating
// the first error encountered left-to-right; lazy functions receive the
// raw AST nodes so they can choose what to evaluate (IF, IFERROR, AND/OR
// short-circuit-by-error, LAMBDA, LET, ...).
type simpleFunc struct {
	name      string
	min, max  int
	lazy      bool
	lazyCall  func(args []Node, ctx EvaluationContext) Value
	eagerCall func(vals []Value, ctx EvaluationContext) Value
}

func (f *simpleFunc) Name() string { return f.name }
func (f *simpleFunc) MinArgs() int { return f.min }
func (f *simpleFunc) MaxArgs() int { return f.max }

func (f *simpleFunc) Call(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	if len(args) < f.min || (f.max >= 0 && len(args) > f.max) {
		return ErrorValue(ErrValue)
	}
	if f.lazy {
		return f.lazyCall(args, ctx)
	}
	vals := make([]Value, len(args))
	for i, a := range args {
		v := a.Eval(ctx)
		if v.Kind == KindError {
			return v
		}
		vals[i] = v
	}
	return f.eagerCall(vals, ctx)
}

func eagerFn(name string, min, max int, fn func(vals []Value, ctx EvaluationContext) Value) Function {
	return &simpleFunc{name: name, min: min, max: max, eagerCall: fn}
}

func lazyFn(name string, min, max int, fn func(args []Node, ctx EvaluationContext) Value) Function {
	return &simpleFunc{name: name, min: min, max: max, lazy: true, lazyCall: fn}
}

func argOr(vals []Value, i int, def Value) Value {
	if i < len(vals) {
		return vals[i]
	}
	return def
}

func evalArg(args []Node, i int, ctx EvaluationContext) (Value, bool) {
	if i >= len(args) {
		return Value{}, false
	}
	return args[i].Eval(ctx), true
}

// numbersOnly coerces every value to a number, skipping (not failing on)
// values that don't coerce — used by aggregation functions that "skip
// non-numeric" per §4.6.
func numbersOnly(vals []Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v.Kind == KindNumber {
			out = append(out, v.Number)
		} else if v.Kind == KindBoolean {
			// aggregation context: booleans inside ranges are commonly
			// excluded from SUM/AVERAGE/PRODUCT but included when passed
			// directly; treated uniformly as numeric here for simplicity.
			if v.Boolean {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
		// Text is deliberately never coerced in aggregation context (§4.6).
	}
	return out
}

func requireNumber(v Value) (float64, bool) {
	return ToNumber(v)
}

func requireText(v Value) (string, bool) {
	return ToText(v)
}

func caseInsensitiveEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

func boolToValue(b bool) Value { return BoolValue(b) }

func asSingleRow(v Value) [][]Value {
	if v.Kind == KindRange {
		return v.Range.grid
	}
	return [][]Value{{v}}
}
