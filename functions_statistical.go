package formulacore

import (
	"math"
	"sort"
)

var statisticalFunctions = []Function{
	eagerFn("STDEV", 1, -1, fnStdev),
	eagerFn("STDEV.S", 1, -1, fnStdev),
	eagerFn("STDEVP", 1, -1, fnStdevp),
	eagerFn("STDEV.P", 1, -1, fnStdevp),
	eagerFn("VAR", 1, -1, fnVar),
	eagerFn("VAR.S", 1, -1, fnVar),
	eagerFn("VARP", 1, -1, fnVarp),
	eagerFn("VAR.P", 1, -1, fnVarp),
	eagerFn("MEDIAN", 1, -1, fnMedian),
	eagerFn("MODE.SNGL", 1, -1, fnModeSngl),
	eagerFn("MODE.MULT", 1, -1, fnModeMult),
	eagerFn("PERCENTILE.INC", 2, 2, fnPercentileInc),
	eagerFn("QUARTILE.INC", 2, 2, fnQuartileInc),
	eagerFn("LARGE", 2, 2, fnLarge),
	eagerFn("SMALL", 2, 2, fnSmall),
	eagerFn("RANK.EQ", 2, 3, fnRankEq),
	eagerFn("CORREL", 2, 2, fnCorrel),
	eagerFn("SLOPE", 2, 2, fnSlope),
	eagerFn("INTERCEPT", 2, 2, fnIntercept),
	eagerFn("NORM.DIST", 4, 4, fnNormDist),
	eagerFn("NORM.INV", 3, 3, fnNormInv),
	eagerFn("NORM.S.DIST", 2, 2, fnNormSDist),
	eagerFn("NORM.S.INV", 1, 1, fnNormSInv),
	eagerFn("SUBTOTAL", 2, -1, fnSubtotal),
	eagerFn("AGGREGATE", 3, -1, fnAggregate),
}

func collectNumbers(vals []Value) []float64 {
	return numbersFromFlat(FlattenValues(vals))
}

func numbersFromFlat(flat []Value) []float64 {
	out := make([]float64, 0, len(flat))
	for _, v := range flat {
		if v.Kind == KindNumber {
			out = append(out, v.Number)
		}
	}
	return out
}

func mean(nums []float64) float64 {
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

func sampleVariance(nums []float64) (float64, bool) {
	if len(nums) < 2 {
		return 0, false
	}
	m := mean(nums)
	sq := 0.0
	for _, n := range nums {
		sq += (n - m) * (n - m)
	}
	return sq / float64(len(nums)-1), true
}

func populationVariance(nums []float64) (float64, bool) {
	if len(nums) < 1 {
		return 0, false
	}
	m := mean(nums)
	sq := 0.0
	for _, n := range nums {
		sq += (n - m) * (n - m)
	}
	return sq / float64(len(nums)), true
}

func fnStdev(vals []Value, ctx EvaluationContext) Value {
	v, ok := sampleVariance(collectNumbers(vals))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Sqrt(v))
}

func fnStdevp(vals []Value, ctx EvaluationContext) Value {
	v, ok := populationVariance(collectNumbers(vals))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Sqrt(v))
}

func fnVar(vals []Value, ctx EvaluationContext) Value {
	v, ok := sampleVariance(collectNumbers(vals))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(v)
}

func fnVarp(vals []Value, ctx EvaluationContext) Value {
	v, ok := populationVariance(collectNumbers(vals))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(v)
}

func fnMedian(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers(vals)
	if len(nums) == 0 {
		return ErrorValue(ErrNum)
	}
	sort.Float64s(nums)
	n := len(nums)
	if n%2 == 1 {
		return NumberValue(nums[n/2])
	}
	return NumberValue((nums[n/2-1] + nums[n/2]) / 2)
}

func fnModeSngl(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers(vals)
	counts := map[float64]int{}
	order := []float64{}
	for _, n := range nums {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	best := 0.0
	bestCount := 0
	for _, n := range order {
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	if bestCount <= 1 {
		return ErrorValue(ErrNA)
	}
	return NumberValue(best)
}

func fnModeMult(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers(vals)
	counts := map[float64]int{}
	order := []float64{}
	for _, n := range nums {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount <= 1 {
		return ErrorValue(ErrNA)
	}
	var out [][]Value
	for _, n := range order {
		if counts[n] == maxCount {
			out = append(out, []Value{NumberValue(n)})
		}
	}
	return RangeVal(NewRangeValue(out))
}

func percentileInc(sorted []float64, p float64) (float64, bool) {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 {
		return 0, false
	}
	if n == 1 {
		return sorted[0], true
	}
	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], true
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
}

func fnPercentileInc(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers([]Value{vals[0]})
	p, ok := requireNumber(vals[1])
	if !ok {
		return ErrorValue(ErrValue)
	}
	sort.Float64s(nums)
	v, ok := percentileInc(nums, p)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(v)
}

func fnQuartileInc(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers([]Value{vals[0]})
	q, ok := requireNumber(vals[1])
	if !ok || q < 0 || q > 4 {
		return ErrorValue(ErrNum)
	}
	sort.Float64s(nums)
	v, ok := percentileInc(nums, q/4)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(v)
}

func fnLarge(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers([]Value{vals[0]})
	k, ok := requireNumber(vals[1])
	if !ok || int(k) < 1 || int(k) > len(nums) {
		return ErrorValue(ErrNum)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(nums)))
	return NumberValue(nums[int(k)-1])
}

func fnSmall(vals []Value, ctx EvaluationContext) Value {
	nums := collectNumbers([]Value{vals[0]})
	k, ok := requireNumber(vals[1])
	if !ok || int(k) < 1 || int(k) > len(nums) {
		return ErrorValue(ErrNum)
	}
	sort.Float64s(nums)
	return NumberValue(nums[int(k)-1])
}

func fnRankEq(vals []Value, ctx EvaluationContext) Value {
	target, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	nums := collectNumbers([]Value{vals[1]})
	ascending := false
	if len(vals) > 2 {
		order, ok := requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
		ascending = order != 0
	}
	if ascending {
		sort.Float64s(nums)
	} else {
		sort.Sort(sort.Reverse(sort.Float64Slice(nums)))
	}
	for i, n := range nums {
		if n == target {
			return NumberValue(float64(i + 1))
		}
	}
	return ErrorValue(ErrNA)
}

func fnCorrel(vals []Value, ctx EvaluationContext) Value {
	xs := collectNumbers([]Value{vals[0]})
	ys := collectNumbers([]Value{vals[1]})
	if len(xs) != len(ys) || len(xs) < 2 {
		return ErrorValue(ErrDivZero)
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(sxy / math.Sqrt(sxx*syy))
}

func linearFit(xs, ys []float64) (slope, intercept float64, ok bool) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, 0, false
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 0, false
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	return slope, intercept, true
}

func fnSlope(vals []Value, ctx EvaluationContext) Value {
	ys := collectNumbers([]Value{vals[0]})
	xs := collectNumbers([]Value{vals[1]})
	slope, _, ok := linearFit(xs, ys)
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(slope)
}

func fnIntercept(vals []Value, ctx EvaluationContext) Value {
	ys := collectNumbers([]Value{vals[0]})
	xs := collectNumbers([]Value{vals[1]})
	_, intercept, ok := linearFit(xs, ys)
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(intercept)
}

func normalPDF(x, mean, std float64) float64 {
	return math.Exp(-(x-mean)*(x-mean)/(2*std*std)) / (std * math.Sqrt(2*math.Pi))
}

func normalCDF(x, mean, std float64) float64 {
	return 0.5 * (1 + math.Erf((x-mean)/(std*math.Sqrt2)))
}

func fnNormDist(vals []Value, ctx EvaluationContext) Value {
	x, ok1 := requireNumber(vals[0])
	m, ok2 := requireNumber(vals[1])
	std, ok3 := requireNumber(vals[2])
	cumulative, ok4 := Truthy(vals[3])
	if !ok1 || !ok2 || !ok3 || !ok4 || std <= 0 {
		return ErrorValue(ErrNum)
	}
	if cumulative {
		return NumberValue(normalCDF(x, m, std))
	}
	return NumberValue(normalPDF(x, m, std))
}

// invNormCDF inverts the standard normal CDF via bisection (§9
// floating-point-determinism disclaimer: inverse CDFs are iterative and
// not guaranteed bit-identical across platforms).
func invNormCDF(p float64) float64 {
	lo, hi := -10.0, 10.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if normalCDF(mid, 0, 1) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func fnNormInv(vals []Value, ctx EvaluationContext) Value {
	p, ok1 := requireNumber(vals[0])
	m, ok2 := requireNumber(vals[1])
	std, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 || p <= 0 || p >= 1 || std <= 0 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(m + std*invNormCDF(p))
}

func fnNormSDist(vals []Value, ctx EvaluationContext) Value {
	x, ok1 := requireNumber(vals[0])
	cumulative, ok2 := Truthy(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	if cumulative {
		return NumberValue(normalCDF(x, 0, 1))
	}
	return NumberValue(normalPDF(x, 0, 1))
}

func fnNormSInv(vals []Value, ctx EvaluationContext) Value {
	p, ok := requireNumber(vals[0])
	if !ok || p <= 0 || p >= 1 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(invNormCDF(p))
}

// subtotalOp applies one of SUBTOTAL/AGGREGATE's numbered function
// codes to a flattened numeric vector (§4.6's dispatch-table functions).
func subtotalOp(code int, nums []float64) Value {
	switch code {
	case 1, 101:
		if len(nums) == 0 {
			return ErrorValue(ErrDivZero)
		}
		return NumberValue(mean(nums))
	case 2, 102:
		return NumberValue(float64(len(nums)))
	case 4, 104:
		if len(nums) == 0 {
			return ErrorValue(ErrNum)
		}
		m := nums[0]
		for _, n := range nums {
			if n > m {
				m = n
			}
		}
		return NumberValue(m)
	case 5, 105:
		if len(nums) == 0 {
			return ErrorValue(ErrNum)
		}
		m := nums[0]
		for _, n := range nums {
			if n < m {
				m = n
			}
		}
		return NumberValue(m)
	case 6, 106:
		p := 1.0
		for _, n := range nums {
			p *= n
		}
		return NumberValue(p)
	case 7, 107:
		v, ok := sampleVariance(nums)
		if !ok {
			return ErrorValue(ErrDivZero)
		}
		return NumberValue(math.Sqrt(v))
	case 9, 109:
		sum := 0.0
		for _, n := range nums {
			sum += n
		}
		return NumberValue(sum)
	case 10, 110:
		v, ok := populationVariance(nums)
		if !ok {
			return ErrorValue(ErrDivZero)
		}
		return NumberValue(math.Sqrt(v))
	case 11, 111:
		v, ok := populationVariance(nums)
		if !ok {
			return ErrorValue(ErrDivZero)
		}
		return NumberValue(v)
	default:
		return ErrorValue(ErrValue)
	}
}

func fnSubtotal(vals []Value, ctx EvaluationContext) Value {
	code, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	nums := collectNumbers(vals[1:])
	return subtotalOp(int(code), nums)
}

func fnAggregate(vals []Value, ctx EvaluationContext) Value {
	code, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	nums := collectNumbers(vals[2:])
	return subtotalOp(int(code), nums)
}
