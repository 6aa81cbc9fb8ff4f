package formulacore

import "math"

var databaseFunctions = []Function{
	eagerFn("DSUM", 3, 3, fnDsum),
	eagerFn("DAVERAGE", 3, 3, fnDaverage),
	eagerFn("DCOUNT", 3, 3, fnDcount),
	eagerFn("DCOUNTA", 3, 3, fnDcounta),
	eagerFn("DMAX", 3, 3, fnDmax),
	eagerFn("DMIN", 3, 3, fnDmin),
	eagerFn("DGET", 3, 3, fnDget),
	eagerFn("DPRODUCT", 3, 3, fnDproduct),
	eagerFn("DSTDEV", 3, 3, fnDstdev),
	eagerFn("DSTDEVP", 3, 3, fnDstdevp),
	eagerFn("DVAR", 3, 3, fnDvar),
	eagerFn("DVARP", 3, 3, fnDvarp),
}

// dbFieldColumn resolves the field argument to a 0-based column index:
// a number is a 1-based column offset, text is matched case-insensitively
// against the database's header row (row 0).
func dbFieldColumn(db *RangeValue, field Value) (int, bool) {
	if n, ok := ToNumber(field); ok && field.Kind == KindNumber {
		col := int(n) - 1
		if col < 0 || col >= db.Cols() {
			return 0, false
		}
		return col, true
	}
	name, ok := ToText(field)
	if !ok {
		return 0, false
	}
	for c := 0; c < db.Cols(); c++ {
		hdr, _ := ToText(db.At(0, c))
		if caseInsensitiveEqual(hdr, name) {
			return c, true
		}
	}
	return 0, false
}

// dbMatchingRows implements the criteria-range OR/AND semantics (§4.6):
// criteria rows below the header are OR'd together; cells within a
// single criteria row are AND'd.
func dbMatchingRows(db, criteria *RangeValue) []int {
	headerIdx := map[string]int{}
	for c := 0; c < db.Cols(); c++ {
		h, _ := ToText(db.At(0, c))
		headerIdx[normalizeHeader(h)] = c
	}
	var matches []int
	for r := 0; r < db.Rows()-1; r++ {
		row := r + 1
		if rowSatisfiesAnyCriteriaRow(db, row, criteria, headerIdx) {
			matches = append(matches, row)
		}
	}
	return matches
}

func normalizeHeader(s string) string {
	return s
}

func rowSatisfiesAnyCriteriaRow(db *RangeValue, dbRow int, criteria *RangeValue, headerIdx map[string]int) bool {
	for cr := 1; cr < criteria.Rows(); cr++ {
		ok := true
		any := false
		for cc := 0; cc < criteria.Cols(); cc++ {
			critVal := criteria.At(cr, cc)
			if critVal.Kind == KindEmpty {
				continue
			}
			hdr, _ := ToText(criteria.At(0, cc))
			col, found := headerIdx[normalizeHeader(hdr)]
			if !found {
				continue
			}
			any = true
			crit := parseCriterion(critVal)
			if !crit.matches(db.At(dbRow, col)) {
				ok = false
				break
			}
		}
		if any && ok {
			return true
		}
	}
	return criteria.Rows() <= 1
}

func collectDbValues(vals []Value) (*RangeValue, int, []int, bool) {
	db := asTable(vals[0])
	col, ok := dbFieldColumn(db, vals[1])
	if !ok {
		return nil, 0, nil, false
	}
	criteria := asTable(vals[2])
	return db, col, dbMatchingRows(db, criteria), true
}

func fnDsum(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	sum := 0.0
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			sum += n
		}
	}
	return NumberValue(sum)
}

func fnDaverage(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	sum, count := 0.0, 0
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			sum += n
			count++
		}
	}
	if count == 0 {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(sum / float64(count))
}

func fnDcount(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	count := 0
	for _, r := range rows {
		if db.At(r, col).Kind == KindNumber {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnDcounta(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	count := 0
	for _, r := range rows {
		if db.At(r, col).Kind != KindEmpty {
			count++
		}
	}
	return NumberValue(float64(count))
}

func fnDmax(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	best := 0.0
	found := false
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			if !found || n > best {
				best = n
				found = true
			}
		}
	}
	return NumberValue(best)
}

func fnDmin(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	best := 0.0
	found := false
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			if !found || n < best {
				best = n
				found = true
			}
		}
	}
	return NumberValue(best)
}

func fnDget(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	if len(rows) == 0 {
		return ErrorValue(ErrValue)
	}
	if len(rows) > 1 {
		return ErrorValue(ErrNum)
	}
	return db.At(rows[0], col)
}

func fnDproduct(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	product := 1.0
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			product *= n
		}
	}
	return NumberValue(product)
}

func dbNumbers(db *RangeValue, col int, rows []int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if n, ok := ToNumber(db.At(r, col)); ok {
			out = append(out, n)
		}
	}
	return out
}

func fnDstdev(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	nums := dbNumbers(db, col, rows)
	v, ok := sampleVariance(nums)
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Sqrt(v))
}

func fnDstdevp(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	nums := dbNumbers(db, col, rows)
	v, ok := populationVariance(nums)
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(math.Sqrt(v))
}

func fnDvar(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	v, ok := sampleVariance(dbNumbers(db, col, rows))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(v)
}

func fnDvarp(vals []Value, ctx EvaluationContext) Value {
	db, col, rows, ok := collectDbValues(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	v, ok := populationVariance(dbNumbers(db, col, rows))
	if !ok {
		return ErrorValue(ErrDivZero)
	}
	return NumberValue(v)
}
