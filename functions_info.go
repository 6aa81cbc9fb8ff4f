package formulacore

// ISERROR, ISERR, ISNA, TYPE and ERROR.TYPE inspect their argument's error
// state itself, so they must not go through the eager error short-circuit
// in simpleFunc.Call -- they are registered lazy and evaluate their single
// argument directly.
var infoFunctions = []Function{
	eagerFn("ISBLANK", 1, 1, fnIsBlank),
	lazyFn("ISERROR", 1, 1, fnIsErrorLazy),
	lazyFn("ISERR", 1, 1, fnIsErrLazy),
	eagerFn("ISNUMBER", 1, 1, fnIsNumber),
	eagerFn("ISTEXT", 1, 1, fnIsText),
	eagerFn("ISNONTEXT", 1, 1, fnIsNonText),
	eagerFn("ISLOGICAL", 1, 1, fnIsLogical),
	lazyFn("ISNA", 1, 1, fnIsNaLazy),
	eagerFn("ISEVEN", 1, 1, fnIsEven),
	eagerFn("ISODD", 1, 1, fnIsOdd),
	eagerFn("N", 1, 1, fnN),
	eagerFn("T", 1, 1, fnT),
	lazyFn("TYPE", 1, 1, fnTypeLazy),
	lazyFn("ERROR.TYPE", 1, 1, fnErrorTypeLazy),
}

func fnIsBlank(vals []Value, ctx EvaluationContext) Value { return BoolValue(vals[0].Kind == KindEmpty) }

func fnIsErrorLazy(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	return BoolValue(v.Kind == KindError)
}

func fnIsErrLazy(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	return BoolValue(v.Kind == KindError && v.Error != ErrNA)
}

func fnIsNaLazy(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	return BoolValue(v.Kind == KindError && v.Error == ErrNA)
}

func fnIsNumber(vals []Value, ctx EvaluationContext) Value { return BoolValue(vals[0].Kind == KindNumber) }
func fnIsText(vals []Value, ctx EvaluationContext) Value   { return BoolValue(vals[0].Kind == KindText) }
func fnIsNonText(vals []Value, ctx EvaluationContext) Value {
	return BoolValue(vals[0].Kind != KindText)
}
func fnIsLogical(vals []Value, ctx EvaluationContext) Value {
	return BoolValue(vals[0].Kind == KindBoolean)
}
func fnIsEven(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return BoolValue(int64(n)%2 == 0)
}

func fnIsOdd(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return BoolValue(int64(n)%2 != 0)
}

// N coerces to a number where possible, mapping booleans 1/0 and
// non-numeric text to 0, leaving errors to propagate.
func fnN(vals []Value, ctx EvaluationContext) Value {
	v := vals[0]
	switch v.Kind {
	case KindNumber:
		return v
	case KindBoolean:
		if v.Boolean {
			return NumberValue(1)
		}
		return NumberValue(0)
	default:
		return NumberValue(0)
	}
}

// T returns the text itself, or "" for any non-text value.
func fnT(vals []Value, ctx EvaluationContext) Value {
	if vals[0].Kind == KindText {
		return vals[0]
	}
	return TextValue("")
}

func fnTypeLazy(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	switch v.Kind {
	case KindNumber:
		return NumberValue(1)
	case KindText:
		return NumberValue(2)
	case KindBoolean:
		return NumberValue(4)
	case KindError:
		return NumberValue(16)
	case KindRange:
		return NumberValue(64)
	default:
		return NumberValue(1)
	}
}

func fnErrorTypeLazy(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	if v.Kind != KindError {
		return ErrorValue(ErrNA)
	}
	return fnErrorTypeOf(v.Error)
}

func fnErrorTypeOf(errKind ErrorKind) Value {
	switch errKind {
	case ErrNull:
		return NumberValue(1)
	case ErrDivZero:
		return NumberValue(2)
	case ErrValue:
		return NumberValue(3)
	case ErrRef:
		return NumberValue(4)
	case ErrName:
		return NumberValue(5)
	case ErrNum:
		return NumberValue(6)
	case ErrNA:
		return NumberValue(7)
	case ErrCalc:
		return NumberValue(8)
	default:
		return NumberValue(1)
	}
}
