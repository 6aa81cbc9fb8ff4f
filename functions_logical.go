package formulacore

var logicalFunctions = []Function{
	lazyFn("IF", 2, 3, fnIf),
	eagerFn("AND", 1, -1, fnAnd),
	eagerFn("OR", 1, -1, fnOr),
	eagerFn("XOR", 1, -1, fnXor),
	eagerFn("NOT", 1, 1, fnNot),
	lazyFn("IFERROR", 2, 2, fnIfError),
	lazyFn("IFNA", 2, 2, fnIfNa),
}

func fnIf(args []Node, ctx EvaluationContext) Value {
	cond := args[0].Eval(ctx)
	if cond.Kind == KindError {
		return cond
	}
	truthy, ok := Truthy(cond)
	if !ok {
		return ErrorValue(ErrValue)
	}
	if truthy {
		return args[1].Eval(ctx)
	}
	if len(args) < 3 {
		return BoolValue(false)
	}
	return args[2].Eval(ctx)
}

func fnAnd(vals []Value, ctx EvaluationContext) Value {
	result := true
	any := false
	for _, v := range FlattenValues(vals) {
		t, ok := Truthy(v)
		if !ok {
			if v.Kind == KindText {
				continue // non-numeric text inside a range is ignored, not an error, matching AND/OR's range-tolerant contract
			}
			return ErrorValue(ErrValue)
		}
		any = true
		result = result && t
	}
	if !any {
		return ErrorValue(ErrValue)
	}
	return BoolValue(result)
}

func fnOr(vals []Value, ctx EvaluationContext) Value {
	result := false
	any := false
	for _, v := range FlattenValues(vals) {
		t, ok := Truthy(v)
		if !ok {
			if v.Kind == KindText {
				continue
			}
			return ErrorValue(ErrValue)
		}
		any = true
		result = result || t
	}
	if !any {
		return ErrorValue(ErrValue)
	}
	return BoolValue(result)
}

func fnXor(vals []Value, ctx EvaluationContext) Value {
	count := 0
	any := false
	for _, v := range FlattenValues(vals) {
		t, ok := Truthy(v)
		if !ok {
			if v.Kind == KindText {
				continue
			}
			return ErrorValue(ErrValue)
		}
		any = true
		if t {
			count++
		}
	}
	if !any {
		return ErrorValue(ErrValue)
	}
	return BoolValue(count%2 == 1)
}

func fnNot(vals []Value, ctx EvaluationContext) Value {
	t, ok := Truthy(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return BoolValue(!t)
}

func fnIfError(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	if v.Kind == KindError {
		return args[1].Eval(ctx)
	}
	return v
}

func fnIfNa(args []Node, ctx EvaluationContext) Value {
	v := args[0].Eval(ctx)
	if v.Kind == KindError && v.Error == ErrNA {
		return args[1].Eval(ctx)
	}
	return v
}
