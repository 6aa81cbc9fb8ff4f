package formulacore

import "math"

// mathFunctions covers §4.6 Arithmetic & aggregation and Rounding, plus
// the textbook closed-form trig/log/exponent family the spec identifies
// "by family rather than enumerated term by term".
var mathFunctions = []Function{
	eagerFn("SUM", 0, -1, fnSum),
	eagerFn("AVERAGE", 1, -1, fnAverage),
	eagerFn("MIN", 0, -1, fnMin),
	eagerFn("MAX", 0, -1, fnMax),
	eagerFn("PRODUCT", 0, -1, fnProduct),
	eagerFn("COUNT", 0, -1, fnCount),
	eagerFn("COUNTA", 0, -1, fnCountA),
	eagerFn("COUNTBLANK", 1, -1, fnCountBlank),

	eagerFn("ROUND", 2, 2, fnRound),
	eagerFn("ROUNDUP", 2, 2, fnRoundUp),
	eagerFn("ROUNDDOWN", 2, 2, fnRoundDown),
	eagerFn("TRUNC", 1, 2, fnTrunc),
	eagerFn("INT", 1, 1, fnInt),
	eagerFn("MROUND", 2, 2, fnMRound),
	eagerFn("CEILING", 2, 2, fnCeiling),
	eagerFn("FLOOR", 2, 2, fnFloor),

	eagerFn("ABS", 1, 1, unaryNum(math.Abs)),
	eagerFn("SQRT", 1, 1, fnSqrt),
	eagerFn("POWER", 2, 2, fnPower),
	eagerFn("MOD", 2, 2, fnMod),
	eagerFn("PI", 0, 0, func(vals []Value, ctx EvaluationContext) Value { return NumberValue(math.Pi) }),
	eagerFn("SIGN", 1, 1, fnSign),
	eagerFn("EVEN", 1, 1, fnEven),
	eagerFn("ODD", 1, 1, fnOdd),
	eagerFn("GCD", 1, -1, fnGCD),
	eagerFn("LCM", 1, -1, fnLCM),
	eagerFn("FACT", 1, 1, fnFact),
	eagerFn("COMBIN", 2, 2, fnCombin),
	eagerFn("PERMUT", 2, 2, fnPermut),
	eagerFn("QUOTIENT", 2, 2, fnQuotient),

	eagerFn("SIN", 1, 1, unaryNum(math.Sin)),
	eagerFn("COS", 1, 1, unaryNum(math.Cos)),
	eagerFn("TAN", 1, 1, unaryNum(math.Tan)),
	eagerFn("ASIN", 1, 1, unaryNum(math.Asin)),
	eagerFn("ACOS", 1, 1, unaryNum(math.Acos)),
	eagerFn("ATAN", 1, 1, unaryNum(math.Atan)),
	eagerFn("ATAN2", 2, 2, fnAtan2),
	eagerFn("SINH", 1, 1, unaryNum(math.Sinh)),
	eagerFn("COSH", 1, 1, unaryNum(math.Cosh)),
	eagerFn("TANH", 1, 1, unaryNum(math.Tanh)),
	eagerFn("LN", 1, 1, unaryNum(math.Log)),
	eagerFn("LOG10", 1, 1, unaryNum(math.Log10)),
	eagerFn("LOG", 1, 2, fnLog),
	eagerFn("EXP", 1, 1, unaryNum(math.Exp)),
}

func unaryNum(f func(float64) float64) func([]Value, EvaluationContext) Value {
	return func(vals []Value, ctx EvaluationContext) Value {
		n, ok := requireNumber(vals[0])
		if !ok {
			return ErrorValue(ErrValue)
		}
		return NumberValue(f(n))
	}
}

func fnSum(vals []Value, ctx EvaluationContext) Value {
	total := 0.0
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			total += v.Number
		} else if v.Kind == KindBoolean {
			if v.Boolean {
				total++
			}
		}
	}
	return NumberValue(total)
}

func fnAverage(vals []Value, ctx EvaluationContext) Value {
	total, count := 0.0, 0
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			total += v.Number
			count++
		} else if v.Kind == KindBoolean {
			if v.Boolean {
				total++
			}
			count++
		}
	}
	if count == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(total / float64(count))
}

func fnMin(vals []Value, ctx EvaluationContext) Value {
	best := math.Inf(1)
	found := false
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			found = true
			if v.Number < best {
				best = v.Number
			}
		}
	}
	if !found {
		return NumberValue(0)
	}
	return NumberValue(best)
}

func fnMax(vals []Value, ctx EvaluationContext) Value {
	best := math.Inf(-1)
	found := false
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			found = true
			if v.Number > best {
				best = v.Number
			}
		}
	}
	if !found {
		return NumberValue(0)
	}
	return NumberValue(best)
}

func fnProduct(vals []Value, ctx EvaluationContext) Value {
	product := 1.0
	found := false
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			found = true
			product *= v.Number
		}
	}
	if !found {
		return NumberValue(0)
	}
	return NumberValue(product)
}

func fnCount(vals []Value, ctx EvaluationContext) Value {
	count := 0
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindError {
			return v
		}
		if v.Kind == KindNumber {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnCountA(vals []Value, ctx EvaluationContext) Value {
	count := 0
	for _, v := range FlattenValues(vals) {
		if v.Kind != KindEmpty {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnCountBlank(vals []Value, ctx EvaluationContext) Value {
	count := 0
	for _, v := range FlattenValues(vals) {
		if v.Kind == KindEmpty || (v.Kind == KindText && v.Text == "") {
			count++
		}
	}
	return NumberValue(float64(count))
}

func roundHalfAwayFromZero(n float64, digits int) float64 {
	mult := math.Pow(10, float64(digits))
	if n >= 0 {
		return math.Floor(n*mult+0.5) / mult
	}
	return math.Ceil(n*mult-0.5) / mult
}

func fnRound(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	d, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	return NumberValue(roundHalfAwayFromZero(n, int(d)))
}

func fnRoundUp(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	d, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	mult := math.Pow(10, d)
	if n >= 0 {
		return NumberValue(math.Ceil(n*mult) / mult)
	}
	return NumberValue(math.Floor(n*mult) / mult)
}

func fnRoundDown(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	d, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	mult := math.Pow(10, d)
	if n >= 0 {
		return NumberValue(math.Floor(n*mult) / mult)
	}
	return NumberValue(math.Ceil(n*mult) / mult)
}

func fnTrunc(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	d := 0.0
	if len(vals) > 1 {
		var ok2 bool
		d, ok2 = requireNumber(vals[1])
		if !ok2 {
			return ErrorValue(ErrValue)
		}
	}
	mult := math.Pow(10, d)
	if n >= 0 {
		return NumberValue(math.Floor(n*mult) / mult)
	}
	return NumberValue(math.Ceil(n*mult) / mult)
}

func fnInt(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(math.Floor(n))
}

func fnMRound(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	m, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	if m == 0 {
		return NumberValue(0)
	}
	if (n < 0) != (m < 0) {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Round(n/m) * m)
}

func fnCeiling(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	sig, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	if sig == 0 {
		return ErrorValue(ErrDivZero)
	}
	if (n > 0 && sig < 0) || (n < 0 && sig > 0) {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Ceil(n/sig) * sig)
}

func fnFloor(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	sig, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	if sig == 0 {
		return ErrorValue(ErrDivZero)
	}
	if (n > 0 && sig < 0) || (n < 0 && sig > 0) {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Floor(n/sig) * sig)
}

func fnSqrt(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	if n < 0 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Sqrt(n))
}

func fnPower(vals []Value, ctx EvaluationContext) Value {
	b, ok1 := requireNumber(vals[0])
	e, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	r := math.Pow(b, e)
	if math.IsNaN(r) {
		return ErrorValue(ErrNum)
	}
	return NumberValue(r)
}

func fnMod(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := requireNumber(vals[0])
	b, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	if b == 0 {
		return ErrorValue(ErrDivZero)
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return NumberValue(r)
}

func fnSign(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	switch {
	case n > 0:
		return NumberValue(1)
	case n < 0:
		return NumberValue(-1)
	default:
		return NumberValue(0)
	}
}

func fnEven(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	if n >= 0 {
		r := math.Ceil(n/2) * 2
		if r == 0 {
			r = 0
		}
		return NumberValue(r)
	}
	return NumberValue(math.Floor(n/2) * 2)
}

func fnOdd(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	if n >= 0 {
		r := math.Ceil((n-1)/2)*2 + 1
		return NumberValue(r)
	}
	r := math.Floor((n+1)/2)*2 - 1
	return NumberValue(r)
}

func gcd2(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func fnGCD(vals []Value, ctx EvaluationContext) Value {
	var result int64
	for i, v := range vals {
		n, ok := requireNumber(v)
		if !ok || n < 0 {
			return ErrorValue(ErrNum)
		}
		iv := int64(n)
		if i == 0 {
			result = iv
		} else {
			result = gcd2(result, iv)
		}
	}
	return NumberValue(float64(result))
}

func fnLCM(vals []Value, ctx EvaluationContext) Value {
	var result int64 = 1
	for _, v := range vals {
		n, ok := requireNumber(v)
		if !ok || n < 0 {
			return ErrorValue(ErrNum)
		}
		iv := int64(n)
		if iv == 0 {
			return NumberValue(0)
		}
		g := gcd2(result, iv)
		result = result / g * iv
	}
	return NumberValue(float64(result))
}

func fnFact(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok || n < 0 {
		return ErrorValue(ErrNum)
	}
	iv := int64(n)
	result := 1.0
	for i := int64(2); i <= iv; i++ {
		result *= float64(i)
	}
	return NumberValue(result)
}

func fnCombin(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	k, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || k < 0 || n < k {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Round(math.Exp(logFact(n) - logFact(k) - logFact(n-k))))
}

func fnPermut(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	k, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || k < 0 || n < k {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Round(math.Exp(logFact(n) - logFact(n-k))))
}

func logFact(n float64) float64 {
	r := 0.0
	for i := 2.0; i <= n; i++ {
		r += math.Log(i)
	}
	return r
}

func fnQuotient(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := requireNumber(vals[0])
	b, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	if b == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Trunc(a / b))
}

func fnAtan2(vals []Value, ctx EvaluationContext) Value {
	y, ok1 := requireNumber(vals[0])
	x, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	return NumberValue(math.Atan2(y, x))
}

func fnLog(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok || n <= 0 {
		return ErrorValue(ErrNum)
	}
	base := 10.0
	if len(vals) > 1 {
		b, ok2 := requireNumber(vals[1])
		if !ok2 || b <= 0 || b == 1 {
			return ErrorValue(ErrNum)
		}
		base = b
	}
	return NumberValue(math.Log(n) / math.Log(base))
}
