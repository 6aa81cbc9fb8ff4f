package formulacore

import "math"

// Representative subset of the financial family (§4.9): the full TVM
// annuity group plus closed-form and iterative functions named as
// "implement in depth" by the spec. Bond-pricing functions (PRICE,
// YIELD, DURATION, ACCRINT, ...) are deliberately not included — see
// DESIGN.md.
var financialFunctions = []Function{
	eagerFn("PMT", 3, 5, fnPmt),
	eagerFn("FV", 3, 5, fnFv),
	eagerFn("PV", 3, 5, fnPv),
	eagerFn("NPER", 3, 5, fnNper),
	eagerFn("IPMT", 4, 6, fnIpmt),
	eagerFn("PPMT", 4, 6, fnPpmt),
	eagerFn("CUMIPMT", 6, 6, fnCumipmt),
	eagerFn("CUMPRINC", 6, 6, fnCumprinc),
	eagerFn("RATE", 3, 6, fnRate),
	eagerFn("IRR", 1, 2, fnIrr),
	eagerFn("NPV", 2, -1, fnNpv),
	eagerFn("XNPV", 3, 3, fnXnpv),
	eagerFn("XIRR", 2, 3, fnXirr),
	eagerFn("MIRR", 3, 3, fnMirr),
	eagerFn("DB", 4, 5, fnDb),
	eagerFn("DDB", 4, 5, fnDdb),
	eagerFn("SLN", 3, 3, fnSln),
	eagerFn("SYD", 4, 4, fnSyd),
	eagerFn("EFFECT", 2, 2, fnEffect),
	eagerFn("NOMINAL", 2, 2, fnNominal),
	eagerFn("PDURATION", 3, 3, fnPduration),
	eagerFn("RRI", 3, 3, fnRri),
	eagerFn("ISPMT", 4, 4, fnIspmt),
	eagerFn("DOLLARDE", 2, 2, fnDollarde),
	eagerFn("DOLLARFR", 2, 2, fnDollarfr),
	eagerFn("FVSCHEDULE", 2, 2, fnFvschedule),
}

func tvmArg(vals []Value, i int, def float64) (float64, bool) {
	if i >= len(vals) {
		return def, true
	}
	return requireNumber(vals[i])
}

// fnPv/fnFv/fnPmt/fnNper implement the canonical annuity identity from §4.9:
// pv*(1+r)^n + pmt*(1+r*type)*((1+r)^n-1)/r + fv = 0, with a
// zero-rate linear special case (pv + pmt*n + fv = 0).
func fnPv(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	nper, ok2 := requireNumber(vals[1])
	pmt, ok3 := requireNumber(vals[2])
	fv, _ := tvmArg(vals, 3, 0)
	typ, _ := tvmArg(vals, 4, 0)
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if rate == 0 {
		return NumberValue(-(fv + pmt*nper))
	}
	pow := math.Pow(1+rate, nper)
	pv := -(fv + pmt*(1+rate*typ)*(pow-1)/rate) / pow
	return NumberValue(pv)
}

func fnFv(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	nper, ok2 := requireNumber(vals[1])
	pmt, ok3 := requireNumber(vals[2])
	pv, _ := tvmArg(vals, 3, 0)
	typ, _ := tvmArg(vals, 4, 0)
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if rate == 0 {
		return NumberValue(-(pv + pmt*nper))
	}
	pow := math.Pow(1+rate, nper)
	fv := -(pv*pow + pmt*(1+rate*typ)*(pow-1)/rate)
	return NumberValue(fv)
}

func fnPmt(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	nper, ok2 := requireNumber(vals[1])
	pv, ok3 := requireNumber(vals[2])
	fv, _ := tvmArg(vals, 3, 0)
	typ, _ := tvmArg(vals, 4, 0)
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if rate == 0 {
		return NumberValue(-(pv + fv) / nper)
	}
	pow := math.Pow(1+rate, nper)
	pmt := -(pv*pow + fv) * rate / ((1 + rate*typ) * (pow - 1))
	return NumberValue(pmt)
}

func fnNper(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	pmt, ok2 := requireNumber(vals[1])
	pv, ok3 := requireNumber(vals[2])
	fv, _ := tvmArg(vals, 3, 0)
	typ, _ := tvmArg(vals, 4, 0)
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if rate == 0 {
		if pmt == 0 {
			return ErrorValue(ErrDivZero)
		}
		return NumberValue(-(pv + fv) / pmt)
	}
	num := pmt*(1+rate*typ) - fv*rate
	den := pv*rate + pmt*(1+rate*typ)
	if num <= 0 || den <= 0 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Log(num/den) / math.Log(1+rate))
}

func ipmtAt(rate float64, per, nper, pv, fv, typ float64) float64 {
	pmt := fnPmt([]Value{NumberValue(rate), NumberValue(nper), NumberValue(pv), NumberValue(fv), NumberValue(typ)}, nil).Number
	balance := pv
	if per == 1 {
		if typ == 1 {
			return 0
		}
		return -balance * rate
	}
	for p := 1.0; p < per; p++ {
		var interest float64
		if p == 1 && typ == 1 {
			interest = 0
		} else {
			interest = -balance * rate
		}
		principal := pmt - interest
		balance += principal
	}
	if typ == 1 {
		return 0
	}
	return -balance * rate
}

func fnIpmt(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	per, ok2 := requireNumber(vals[1])
	nper, ok3 := requireNumber(vals[2])
	pv, ok4 := requireNumber(vals[3])
	fv, _ := tvmArg(vals, 4, 0)
	typ, _ := tvmArg(vals, 5, 0)
	if !ok1 || !ok2 || !ok3 || !ok4 || per < 1 || per > nper {
		return ErrorValue(ErrNum)
	}
	return NumberValue(ipmtAt(rate, per, nper, pv, fv, typ))
}

func fnPpmt(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	per, ok2 := requireNumber(vals[1])
	nper, ok3 := requireNumber(vals[2])
	pv, ok4 := requireNumber(vals[3])
	fv, _ := tvmArg(vals, 4, 0)
	typ, _ := tvmArg(vals, 5, 0)
	if !ok1 || !ok2 || !ok3 || !ok4 || per < 1 || per > nper {
		return ErrorValue(ErrNum)
	}
	pmtVal := fnPmt([]Value{NumberValue(rate), NumberValue(nper), NumberValue(pv), NumberValue(fv), NumberValue(typ)}, ctx)
	interest := ipmtAt(rate, per, nper, pv, fv, typ)
	return NumberValue(pmtVal.Number - interest)
}

func fnCumipmt(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	nper, ok2 := requireNumber(vals[1])
	pv, ok3 := requireNumber(vals[2])
	start, ok4 := requireNumber(vals[3])
	end, ok5 := requireNumber(vals[4])
	typ, ok6 := requireNumber(vals[5])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || start < 1 || start > end {
		return ErrorValue(ErrNum)
	}
	sum := 0.0
	for per := start; per <= end; per++ {
		sum += ipmtAt(rate, per, nper, pv, 0, typ)
	}
	return NumberValue(sum)
}

func fnCumprinc(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	nper, ok2 := requireNumber(vals[1])
	pv, ok3 := requireNumber(vals[2])
	start, ok4 := requireNumber(vals[3])
	end, ok5 := requireNumber(vals[4])
	typ, ok6 := requireNumber(vals[5])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || start < 1 || start > end {
		return ErrorValue(ErrNum)
	}
	pmtVal := fnPmt([]Value{NumberValue(rate), NumberValue(nper), NumberValue(pv), NumberValue(0), NumberValue(typ)}, ctx).Number
	sum := 0.0
	for per := start; per <= end; per++ {
		sum += pmtVal - ipmtAt(rate, per, nper, pv, 0, typ)
	}
	return NumberValue(sum)
}

func fnRate(vals []Value, ctx EvaluationContext) Value {
	nper, ok1 := requireNumber(vals[0])
	pmt, ok2 := requireNumber(vals[1])
	pv, ok3 := requireNumber(vals[2])
	fv, _ := tvmArg(vals, 3, 0)
	typ, _ := tvmArg(vals, 4, 0)
	guess, _ := tvmArg(vals, 5, 0.1)
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	rate := guess
	for i := 0; i < 100; i++ {
		f := pv*math.Pow(1+rate, nper) + pmt*(1+rate*typ)*(math.Pow(1+rate, nper)-1)/rateOrEps(rate) + fv
		df := derivRateFunc(rate, nper, pmt, pv, fv, typ)
		if df == 0 {
			return ErrorValue(ErrNum)
		}
		next := rate - f/df
		if math.Abs(next-rate) < 1e-10 {
			return NumberValue(next)
		}
		rate = next
	}
	return ErrorValue(ErrNum)
}

func rateOrEps(r float64) float64 {
	if r == 0 {
		return 1e-10
	}
	return r
}

func derivRateFunc(rate, nper, pmt, pv, fv, typ float64) float64 {
	h := 1e-6
	f1 := pv*math.Pow(1+rate+h, nper) + pmt*(1+(rate+h)*typ)*(math.Pow(1+rate+h, nper)-1)/rateOrEps(rate+h) + fv
	f2 := pv*math.Pow(1+rate-h, nper) + pmt*(1+(rate-h)*typ)*(math.Pow(1+rate-h, nper)-1)/rateOrEps(rate-h) + fv
	return (f1 - f2) / (2 * h)
}

func fnNpv(vals []Value, ctx EvaluationContext) Value {
	rate, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flows := collectNumbers(vals[1:])
	sum := 0.0
	for i, f := range flows {
		sum += f / math.Pow(1+rate, float64(i+1))
	}
	return NumberValue(sum)
}

func fnIrr(vals []Value, ctx EvaluationContext) Value {
	flows := collectNumbers([]Value{vals[0]})
	guess := 0.1
	if len(vals) > 1 {
		var ok bool
		guess, ok = requireNumber(vals[1])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	rate := guess
	for i := 0; i < 100; i++ {
		npv, dnpv := 0.0, 0.0
		for t, f := range flows {
			tt := float64(t)
			npv += f / math.Pow(1+rate, tt)
			dnpv -= tt * f / math.Pow(1+rate, tt+1)
		}
		if dnpv == 0 {
			return ErrorValue(ErrNum)
		}
		next := rate - npv/dnpv
		if math.Abs(next-rate) < 1e-10 {
			return NumberValue(next)
		}
		rate = next
	}
	return ErrorValue(ErrNum)
}

func fnXnpv(vals []Value, ctx EvaluationContext) Value {
	rate, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flows := collectNumbers([]Value{vals[1]})
	dates := collectNumbers([]Value{vals[2]})
	if len(flows) != len(dates) || len(flows) == 0 {
		return ErrorValue(ErrNum)
	}
	d0 := dates[0]
	sum := 0.0
	for i, f := range flows {
		sum += f / math.Pow(1+rate, (dates[i]-d0)/365)
	}
	return NumberValue(sum)
}

func fnXirr(vals []Value, ctx EvaluationContext) Value {
	flows := collectNumbers([]Value{vals[0]})
	dates := collectNumbers([]Value{vals[1]})
	if len(flows) != len(dates) || len(flows) == 0 {
		return ErrorValue(ErrNum)
	}
	guess := 0.1
	if len(vals) > 2 {
		var ok bool
		guess, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	d0 := dates[0]
	rate := guess
	for i := 0; i < 100; i++ {
		npv, dnpv := 0.0, 0.0
		for j, f := range flows {
			t := (dates[j] - d0) / 365
			npv += f / math.Pow(1+rate, t)
			dnpv -= t * f / math.Pow(1+rate, t+1)
		}
		if dnpv == 0 {
			return ErrorValue(ErrNum)
		}
		next := rate - npv/dnpv
		if math.Abs(next-rate) < 1e-10 {
			return NumberValue(next)
		}
		rate = next
	}
	return ErrorValue(ErrNum)
}

func fnMirr(vals []Value, ctx EvaluationContext) Value {
	flows := collectNumbers([]Value{vals[0]})
	financeRate, ok1 := requireNumber(vals[1])
	reinvestRate, ok2 := requireNumber(vals[2])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	n := len(flows)
	var pv, fv float64
	hasNeg, hasPos := false, false
	for i, f := range flows {
		if f < 0 {
			hasNeg = true
			pv += f / math.Pow(1+financeRate, float64(i))
		} else if f > 0 {
			hasPos = true
			fv += f * math.Pow(1+reinvestRate, float64(n-1-i))
		}
	}
	if !hasNeg || !hasPos {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Pow(-fv/pv, 1/float64(n-1)) - 1)
}

func fnDb(vals []Value, ctx EvaluationContext) Value {
	cost, ok1 := requireNumber(vals[0])
	salvage, ok2 := requireNumber(vals[1])
	life, ok3 := requireNumber(vals[2])
	period, ok4 := requireNumber(vals[3])
	month := 12.0
	if len(vals) > 4 {
		var ok bool
		month, ok = requireNumber(vals[4])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if !ok1 || !ok2 || !ok3 || !ok4 || cost <= 0 || salvage < 0 || life <= 0 {
		return ErrorValue(ErrNum)
	}
	rate := 1 - math.Pow(salvage/cost, 1/life)
	rate = math.Round(rate*1000) / 1000
	firstPeriodFactor := month / 12
	totalDep := 0.0
	var depreciation float64
	for p := 1.0; p <= period; p++ {
		var periodDep float64
		switch {
		case p == 1:
			periodDep = cost * rate * firstPeriodFactor
		case p > life:
			periodDep = (cost - totalDep) * rate * (12 - month) / 12
		default:
			periodDep = (cost - totalDep) * rate
		}
		totalDep += periodDep
		depreciation = periodDep
	}
	return NumberValue(depreciation)
}

func fnDdb(vals []Value, ctx EvaluationContext) Value {
	cost, ok1 := requireNumber(vals[0])
	salvage, ok2 := requireNumber(vals[1])
	life, ok3 := requireNumber(vals[2])
	period, ok4 := requireNumber(vals[3])
	factor := 2.0
	if len(vals) > 4 {
		var ok bool
		factor, ok = requireNumber(vals[4])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if !ok1 || !ok2 || !ok3 || !ok4 || cost < 0 || life <= 0 {
		return ErrorValue(ErrNum)
	}
	bookValue := cost
	var dep float64
	for p := 1.0; p <= period; p++ {
		dep = bookValue * factor / life
		if bookValue-dep < salvage {
			dep = bookValue - salvage
		}
		bookValue -= dep
	}
	return NumberValue(dep)
}

func fnSln(vals []Value, ctx EvaluationContext) Value {
	cost, ok1 := requireNumber(vals[0])
	salvage, ok2 := requireNumber(vals[1])
	life, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 || life == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue((cost - salvage) / life)
}

func fnSyd(vals []Value, ctx EvaluationContext) Value {
	cost, ok1 := requireNumber(vals[0])
	salvage, ok2 := requireNumber(vals[1])
	life, ok3 := requireNumber(vals[2])
	per, ok4 := requireNumber(vals[3])
	if !ok1 || !ok2 || !ok3 || !ok4 || life <= 0 {
		return ErrorValue(ErrNum)
	}
	sumOfYears := life * (life + 1) / 2
	return NumberValue((cost - salvage) * (life - per + 1) / sumOfYears)
}

func fnEffect(vals []Value, ctx EvaluationContext) Value {
	nominal, ok1 := requireNumber(vals[0])
	npery, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || npery < 1 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Pow(1+nominal/npery, npery) - 1)
}

func fnNominal(vals []Value, ctx EvaluationContext) Value {
	effect, ok1 := requireNumber(vals[0])
	npery, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || npery < 1 {
		return ErrorValue(ErrNum)
	}
	return NumberValue((math.Pow(effect+1, 1/npery) - 1) * npery)
}

func fnPduration(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	pv, ok2 := requireNumber(vals[1])
	fv, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 || rate <= 0 || pv <= 0 || fv <= 0 {
		return ErrorValue(ErrNum)
	}
	return NumberValue((math.Log(fv) - math.Log(pv)) / math.Log(1+rate))
}

func fnRri(vals []Value, ctx EvaluationContext) Value {
	nper, ok1 := requireNumber(vals[0])
	pv, ok2 := requireNumber(vals[1])
	fv, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 || nper <= 0 || pv == 0 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Pow(fv/pv, 1/nper) - 1)
}

func fnIspmt(vals []Value, ctx EvaluationContext) Value {
	rate, ok1 := requireNumber(vals[0])
	per, ok2 := requireNumber(vals[1])
	nper, ok3 := requireNumber(vals[2])
	pv, ok4 := requireNumber(vals[3])
	if !ok1 || !ok2 || !ok3 || !ok4 || nper == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(-pv * rate * (1 - per/nper))
}

func fnDollarde(vals []Value, ctx EvaluationContext) Value {
	fraction, ok1 := requireNumber(vals[0])
	denom, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || denom < 1 {
		return ErrorValue(ErrNum)
	}
	whole := math.Trunc(fraction)
	frac := fraction - whole
	digits := math.Ceil(math.Log10(denom))
	return NumberValue(whole + frac*math.Pow(10, digits)/denom)
}

func fnDollarfr(vals []Value, ctx EvaluationContext) Value {
	decimal, ok1 := requireNumber(vals[0])
	denom, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || denom < 1 {
		return ErrorValue(ErrNum)
	}
	whole := math.Trunc(decimal)
	frac := decimal - whole
	digits := math.Ceil(math.Log10(denom))
	return NumberValue(whole + frac*denom/math.Pow(10, digits))
}

func fnFvschedule(vals []Value, ctx EvaluationContext) Value {
	principal, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	rates := collectNumbers([]Value{vals[1]})
	fv := principal
	for _, r := range rates {
		fv *= 1 + r
	}
	return NumberValue(fv)
}
