package formulacore

var lambdaFunctions = []Function{
	lazyFn("LAMBDA", 1, -1, fnLambda),
	lazyFn("LET", 3, -1, fnLet),
	lazyFn("MAP", 2, -1, fnMap),
	lazyFn("REDUCE", 3, 3, fnReduce),
	lazyFn("SCAN", 3, 3, fnScan),
	lazyFn("MAKEARRAY", 3, 3, fnMakeArray),
	lazyFn("BYROW", 2, 2, fnByRow),
	lazyFn("BYCOL", 2, 2, fnByCol),
	eagerFn("ISOMITTED", 1, 1, fnIsOmitted),
}

// fnLambda builds a FunctionValue closing over ctx: the final argument is
// the body, every preceding argument must be a bare parameter name (§4.8).
func fnLambda(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	params := make([]string, 0, len(args)-1)
	for _, a := range args[:len(args)-1] {
		n, ok := a.(*NameNode)
		if !ok {
			return ErrorValue(ErrValue)
		}
		params = append(params, n.Ident)
	}
	body := args[len(args)-1]
	return FunctionVal(&FunctionValue{Params: params, Body: body, Env: ctx})
}

// fnLet evaluates name/value pairs in sequence, each visible to later
// pairs and to the final expression, then evaluates the final expression
// in that accumulated scope (§4.8).
func fnLet(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	if len(args)%2 != 1 {
		return ErrorValue(ErrValue)
	}
	scope := NewScope(ctx)
	pairs := args[:len(args)-1]
	for i := 0; i < len(pairs); i += 2 {
		nameNode, ok := pairs[i].(*NameNode)
		if !ok {
			return ErrorValue(ErrValue)
		}
		v := pairs[i+1].Eval(scope)
		if v.Kind == KindError {
			return v
		}
		scope.Bind(nameNode.Ident, v)
	}
	return args[len(args)-1].Eval(scope)
}

func asFunctionValue(v Value) (*FunctionValue, bool) {
	if v.Kind != KindFunction {
		return nil, false
	}
	return v.Function, true
}

// fnMap applies a trailing LAMBDA element-wise across one or more
// equal-shaped arrays (§4.8), returning a Range of the same shape.
func fnMap(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	n := len(args) - 1
	fnVal := args[n].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	arrays := make([]*RangeValue, n)
	for i := 0; i < n; i++ {
		v := args[i].Eval(ctx)
		if v.Kind == KindError {
			return v
		}
		arrays[i] = asTable(v)
	}
	rows, cols := arrays[0].Rows(), arrays[0].Cols()
	for _, a := range arrays {
		if a.Rows() != rows || a.Cols() != cols {
			return ErrorValue(ErrValue)
		}
	}
	out := make([][]Value, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]Value, cols)
		for c := 0; c < cols; c++ {
			callArgs := make([]Value, n)
			for i, a := range arrays {
				callArgs[i] = a.At(r, c)
			}
			result := fn.Invoke(callArgs, ctx)
			if result.Kind == KindError {
				return result
			}
			out[r][c] = result
		}
	}
	return RangeVal(NewRangeValue(out))
}

// fnReduce threads an accumulator through an array via a 2-arg LAMBDA
// (acc, value), starting from the given initial value (§4.8).
func fnReduce(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	initial := args[0].Eval(ctx)
	if initial.Kind == KindError {
		return initial
	}
	arrVal := args[1].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	fnVal := args[2].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	acc := initial
	for _, v := range FlattenValues([]Value{arrVal}) {
		acc = fn.Invoke([]Value{acc, v}, ctx)
		if acc.Kind == KindError {
			return acc
		}
	}
	return acc
}

// fnScan is REDUCE but returns every intermediate accumulator value as a
// Range the same length as the input (§4.8).
func fnScan(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	initial := args[0].Eval(ctx)
	if initial.Kind == KindError {
		return initial
	}
	arrVal := args[1].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	fnVal := args[2].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	items := FlattenValues([]Value{arrVal})
	out := make([][]Value, len(items))
	acc := initial
	for i, v := range items {
		acc = fn.Invoke([]Value{acc, v}, ctx)
		if acc.Kind == KindError {
			return acc
		}
		out[i] = []Value{acc}
	}
	return RangeVal(NewRangeValue(out))
}

// fnMakeArray constructs a rows x cols Range by invoking a 2-arg LAMBDA
// (row, col), both 1-indexed, for every cell (§4.8).
func fnMakeArray(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	rowsV := args[0].Eval(ctx)
	if rowsV.Kind == KindError {
		return rowsV
	}
	colsV := args[1].Eval(ctx)
	if colsV.Kind == KindError {
		return colsV
	}
	rows, ok1 := requireNumber(rowsV)
	cols, ok2 := requireNumber(colsV)
	if !ok1 || !ok2 || rows < 1 || cols < 1 {
		return ErrorValue(ErrValue)
	}
	fnVal := args[2].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	out := make([][]Value, int(rows))
	for r := 0; r < int(rows); r++ {
		out[r] = make([]Value, int(cols))
		for c := 0; c < int(cols); c++ {
			v := fn.Invoke([]Value{NumberValue(float64(r + 1)), NumberValue(float64(c + 1))}, ctx)
			if v.Kind == KindError {
				return v
			}
			out[r][c] = v
		}
	}
	return RangeVal(NewRangeValue(out))
}

// fnByRow applies a 1-arg LAMBDA to each row (passed in as a 1-row Range)
// and collects the results into a single column (§4.8).
func fnByRow(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	arrVal := args[0].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	fnVal := args[1].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	t := asTable(arrVal)
	out := make([][]Value, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		rowRange := RangeVal(NewRangeValue([][]Value{t.Row(r)}))
		v := fn.Invoke([]Value{rowRange}, ctx)
		if v.Kind == KindError {
			return v
		}
		out[r] = []Value{v}
	}
	return RangeVal(NewRangeValue(out))
}

// fnByCol is BYROW's column-wise twin, collecting results into a single row.
func fnByCol(args []Node, ctx EvaluationContext) Value {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc)
	}
	arrVal := args[0].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	fnVal := args[1].Eval(ctx)
	if fnVal.Kind == KindError {
		return fnVal
	}
	fn, ok := asFunctionValue(fnVal)
	if !ok {
		return ErrorValue(ErrValue)
	}
	t := asTable(arrVal)
	out := make([]Value, t.Cols())
	for c := 0; c < t.Cols(); c++ {
		col := make([][]Value, t.Rows())
		for r := 0; r < t.Rows(); r++ {
			col[r] = []Value{t.At(r, c)}
		}
		colRange := RangeVal(NewRangeValue(col))
		v := fn.Invoke([]Value{colRange}, ctx)
		if v.Kind == KindError {
			return v
		}
		out[c] = v
	}
	return RangeVal(NewRangeValue([][]Value{out}))
}

func fnIsOmitted(vals []Value, ctx EvaluationContext) Value {
	return BoolValue(vals[0].Kind == KindOmitted)
}
