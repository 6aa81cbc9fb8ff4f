package formulacore

import "strings"

var conditionalFunctions = []Function{
	eagerFn("SUMIF", 2, 3, fnSumif),
	eagerFn("COUNTIF", 2, 2, fnCountif),
	eagerFn("AVERAGEIF", 2, 3, fnAverageif),
	eagerFn("SUMIFS", 3, -1, fnSumifs),
	eagerFn("COUNTIFS", 2, -1, fnCountifs),
	eagerFn("AVERAGEIFS", 3, -1, fnAverageifs),
	eagerFn("MAXIFS", 3, -1, fnMaxifs),
	eagerFn("MINIFS", 3, -1, fnMinifs),
}

type criterion struct {
	op  BinOp
	val Value
	re  string // non-empty when the criterion is a wildcard text pattern
}

// parseCriterion decodes a criteria argument into a comparable predicate
// (§4.6): a bare value means equality; a string prefixed with a
// comparison operator (">5", "<=10", "<>x") changes the operator; a
// string containing "*"/"?" is treated as a wildcard match.
func parseCriterion(v Value) criterion {
	if v.Kind != KindText {
		return criterion{op: OpEq, val: v}
	}
	s := v.Text
	for _, pair := range []struct {
		prefix string
		op     BinOp
	}{
		{"<=", OpLe}, {">=", OpGe}, {"<>", OpNe}, {"=", OpEq}, {"<", OpLt}, {">", OpGt},
	} {
		if strings.HasPrefix(s, pair.prefix) {
			rest := strings.TrimSpace(s[len(pair.prefix):])
			if n, ok := parseNumberText(rest); ok {
				return criterion{op: pair.op, val: NumberValue(n)}
			}
			return criterion{op: pair.op, val: TextValue(rest)}
		}
	}
	if strings.ContainsAny(s, "*?") {
		return criterion{op: OpEq, val: v, re: wildcardToRegex(s)}
	}
	return criterion{op: OpEq, val: v}
}

func (c criterion) matches(cell Value) bool {
	if c.re != "" {
		text, ok := ToText(cell)
		if !ok {
			return false
		}
		re := mustCompileCaseInsensitive(c.re)
		m, err := re.MatchString(strings.ToLower(text))
		return err == nil && m
	}
	cmp, ok := Compare(cell, c.val)
	if !ok {
		return c.op == OpNe
	}
	switch c.op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpLe:
		return cmp <= 0
	case OpGe:
		return cmp >= 0
	}
	return false
}

func fnSumif(vals []Value, ctx EvaluationContext) Value {
	rangeT := asTable(vals[0])
	crit := parseCriterion(vals[1])
	sumT := rangeT
	if len(vals) > 2 {
		sumT = asTable(vals[2])
	}
	sum := 0.0
	for r := 0; r < rangeT.Rows(); r++ {
		for c := 0; c < rangeT.Cols(); c++ {
			if crit.matches(rangeT.At(r, c)) {
				if r < sumT.Rows() && c < sumT.Cols() {
					if n, ok := ToNumber(sumT.At(r, c)); ok {
						sum += n
					}
				}
			}
		}
	}
	return NumberValue(sum)
}

func fnCountif(vals []Value, ctx EvaluationContext) Value {
	rangeT := asTable(vals[0])
	crit := parseCriterion(vals[1])
	count := 0
	for _, v := range rangeT.Flatten() {
		if crit.matches(v) {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnAverageif(vals []Value, ctx EvaluationContext) Value {
	rangeT := asTable(vals[0])
	crit := parseCriterion(vals[1])
	avgT := rangeT
	if len(vals) > 2 {
		avgT = asTable(vals[2])
	}
	sum, count := 0.0, 0
	for r := 0; r < rangeT.Rows(); r++ {
		for c := 0; c < rangeT.Cols(); c++ {
			if crit.matches(rangeT.At(r, c)) && r < avgT.Rows() && c < avgT.Cols() {
				if n, ok := ToNumber(avgT.At(r, c)); ok {
					sum += n
					count++
				}
			}
		}
	}
	if count == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(sum / count)
}

// criteriaMask builds the AND of every (range,criteria) pair shared by
// the *IFS family into a boolean mask over the first range's shape.
func criteriaMask(pairs []Value) (*RangeValue, []bool, bool) {
	if len(pairs)%2 != 0 {
		return nil, nil, false
	}
	first := asTable(pairs[0])
	n := first.Rows() * first.Cols()
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	for i := 0; i < len(pairs); i += 2 {
		t := asTable(pairs[i])
		crit := parseCriterion(pairs[i+1])
		flat := t.Flatten()
		if len(flat) != n {
			return nil, nil, false
		}
		for idx, v := range flat {
			if mask[idx] && !crit.matches(v) {
				mask[idx] = false
			}
		}
	}
	return first, mask, true
}

func fnSumifs(vals []Value, ctx EvaluationContext) Value {
	sumT := asTable(vals[0])
	_, mask, ok := criteriaMask(vals[1:])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flat := sumT.Flatten()
	if len(flat) != len(mask) {
		return ErrorValue(ErrValue)
	}
	sum := 0.0
	for i, v := range flat {
		if mask[i] {
			if n, ok := ToNumber(v); ok {
				sum += n
			}
		}
	}
	return NumberValue(sum)
}

func fnCountifs(vals []Value, ctx EvaluationContext) Value {
	_, mask, ok := criteriaMask(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	count := 0
	for _, m := range mask {
		if m {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnAverageifs(vals []Value, ctx EvaluationContext) Value {
	avgT := asTable(vals[0])
	_, mask, ok := criteriaMask(vals[1:])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flat := avgT.Flatten()
	if len(flat) != len(mask) {
		return ErrorValue(ErrValue)
	}
	sum, count := 0.0, 0
	for i, v := range flat {
		if mask[i] {
			if n, ok := ToNumber(v); ok {
				sum += n
				count++
			}
		}
	}
	if count == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(sum / count)
}

func fnMaxifs(vals []Value, ctx EvaluationContext) Value {
	maxT := asTable(vals[0])
	_, mask, ok := criteriaMask(vals[1:])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flat := maxT.Flatten()
	best := 0.0
	found := false
	for i, v := range flat {
		if mask[i] {
			if n, ok := ToNumber(v); ok {
				if !found || n > best {
					best = n
					found = true
				}
			}
		}
	}
	return NumberValue(best)
}

func fnMinifs(vals []Value, ctx EvaluationContext) Value {
	minT := asTable(vals[0])
	_, mask, ok := criteriaMask(vals[1:])
	if !ok {
		return ErrorValue(ErrValue)
	}
	flat := minT.Flatten()
	best := 0.0
	found := false
	for i, v := range flat {
		if mask[i] {
			if n, ok := ToNumber(v); ok {
				if !found || n < best {
					best = n
					found = true
				}
			}
		}
	}
	return NumberValue(best)
}
