package formulacore

import "strings"

var lookupFunctions = []Function{
	eagerFn("VLOOKUP", 3, 4, fnVlookup),
	eagerFn("HLOOKUP", 3, 4, fnHlookup),
	eagerFn("INDEX", 2, 3, fnIndex),
	eagerFn("MATCH", 2, 3, fnMatch),
	eagerFn("XLOOKUP", 3, 6, fnXlookup),
	eagerFn("XMATCH", 2, 4, fnXmatch),
	eagerFn("CHOOSE", 2, -1, fnChoose),
	eagerFn("TRANSPOSE", 1, 1, fnTranspose),
	eagerFn("ROWS", 1, 1, fnRows),
	eagerFn("COLUMNS", 1, 1, fnColumns),
	eagerFn("ADDRESS", 2, 5, fnAddress),
	lazyFn("INDIRECT", 1, 2, fnIndirect),
	lazyFn("OFFSET", 3, 5, fnOffset),
	lazyFn("ROW", 0, 1, fnRow),
	lazyFn("COLUMN", 0, 1, fnColumn),
}

func asTable(v Value) *RangeValue {
	if v.Kind == KindRange {
		return v.Range
	}
	return NewRangeValue([][]Value{{v}})
}

// valuesEqual implements case-insensitive equality with numeric-text
// coercion, matching Compare's equality semantics.
func valuesEqual(a, b Value) bool {
	cmp, ok := Compare(a, b)
	return ok && cmp == 0
}

func fnVlookup(vals []Value, ctx EvaluationContext) Value {
	key := vals[0]
	table := asTable(vals[1])
	idx, ok := requireNumber(vals[2])
	if !ok {
		return ErrorValue(ErrValue)
	}
	if idx < 1 {
		return ErrorValue(ErrValue)
	}
	if int(idx) > table.Cols() {
		return ErrorValue(ErrRef)
	}
	approx := true
	if len(vals) > 3 {
		approx, ok = Truthy(vals[3])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	row := findLookupRow(key, table, 0, approx)
	if row < 0 {
		return ErrorValue(ErrNA)
	}
	return table.At(row, int(idx)-1)
}

func fnHlookup(vals []Value, ctx EvaluationContext) Value {
	key := vals[0]
	table := asTable(vals[1])
	idx, ok := requireNumber(vals[2])
	if !ok {
		return ErrorValue(ErrValue)
	}
	if idx < 1 {
		return ErrorValue(ErrValue)
	}
	if int(idx) > table.Rows() {
		return ErrorValue(ErrRef)
	}
	approx := true
	if len(vals) > 3 {
		approx, ok = Truthy(vals[3])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	col := findLookupCol(key, table, approx)
	if col < 0 {
		return ErrorValue(ErrNA)
	}
	return table.At(int(idx)-1, col)
}

func findLookupRow(key Value, table *RangeValue, col int, approx bool) int {
	if !approx {
		for r := 0; r < table.Rows(); r++ {
			if valuesEqual(table.At(r, col), key) {
				return r
			}
		}
		return -1
	}
	best := -1
	for r := 0; r < table.Rows(); r++ {
		cmp, ok := Compare(table.At(r, col), key)
		if !ok {
			continue
		}
		if cmp <= 0 {
			best = r
		} else {
			break
		}
	}
	return best
}

func findLookupCol(key Value, table *RangeValue, approx bool) int {
	if !approx {
		for c := 0; c < table.Cols(); c++ {
			if valuesEqual(table.At(0, c), key) {
				return c
			}
		}
		return -1
	}
	best := -1
	for c := 0; c < table.Cols(); c++ {
		cmp, ok := Compare(table.At(0, c), key)
		if !ok {
			continue
		}
		if cmp <= 0 {
			best = c
		} else {
			break
		}
	}
	return best
}

func fnIndex(vals []Value, ctx EvaluationContext) Value {
	table := asTable(vals[0])
	row, ok1 := requireNumber(vals[1])
	if !ok1 {
		return ErrorValue(ErrValue)
	}
	col := 1.0
	colOmitted := len(vals) < 3
	if !colOmitted {
		var ok2 bool
		col, ok2 = requireNumber(vals[2])
		if !ok2 {
			return ErrorValue(ErrValue)
		}
	}
	if row < 0 || col < 0 {
		return ErrorValue(ErrValue)
	}
	if row == 0 && col == 0 {
		return ErrorValue(ErrValue)
	}
	if colOmitted && table.Cols() == 1 {
		col = 1
		if row == 0 {
			return ErrorValue(ErrValue)
		}
	} else if row == 0 || col == 0 {
		return ErrorValue(ErrValue)
	}
	if int(row) > table.Rows() || int(col) > table.Cols() {
		return ErrorValue(ErrRef)
	}
	return table.At(int(row)-1, int(col)-1)
}

func fnMatch(vals []Value, ctx EvaluationContext) Value {
	key := vals[0]
	vec := FlattenValues([]Value{vals[1]})
	matchType := 1.0
	if len(vals) > 2 {
		var ok bool
		matchType, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	switch {
	case matchType == 0:
		for i, v := range vec {
			if valuesEqual(v, key) {
				return NumberValue(float64(i + 1))
			}
		}
		return ErrorValue(ErrNA)
	case matchType > 0:
		best := -1
		for i, v := range vec {
			cmp, ok := Compare(v, key)
			if !ok {
				continue
			}
			if cmp <= 0 {
				best = i
			} else {
				break
			}
		}
		if best < 0 {
			return ErrorValue(ErrNA)
		}
		return NumberValue(float64(best + 1))
	default:
		best := -1
		for i, v := range vec {
			cmp, ok := Compare(v, key)
			if !ok {
				continue
			}
			if cmp >= 0 {
				best = i
			} else {
				break
			}
		}
		if best < 0 {
			return ErrorValue(ErrNA)
		}
		return NumberValue(float64(best + 1))
	}
}

func fnXlookup(vals []Value, ctx EvaluationContext) Value {
	key := vals[0]
	lookupVec := FlattenValues([]Value{vals[1]})
	returnTable := asTable(vals[2])
	for i, v := range lookupVec {
		if valuesEqual(v, key) {
			if returnTable.Rows() == 1 {
				if i < returnTable.Cols() {
					return returnTable.At(0, i)
				}
			} else if i < returnTable.Rows() {
				if returnTable.Cols() == 1 {
					return returnTable.At(i, 0)
				}
				return RangeVal(NewRangeValue([][]Value{returnTable.Row(i)}))
			}
		}
	}
	if len(vals) > 3 {
		return vals[3]
	}
	return ErrorValue(ErrNA)
}

func fnXmatch(vals []Value, ctx EvaluationContext) Value {
	key := vals[0]
	vec := FlattenValues([]Value{vals[1]})
	for i, v := range vec {
		if valuesEqual(v, key) {
			return NumberValue(float64(i + 1))
		}
	}
	return ErrorValue(ErrNA)
}

func fnChoose(vals []Value, ctx EvaluationContext) Value {
	idx, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	i := int(idx)
	if i < 1 || i >= len(vals) {
		return ErrorValue(ErrValue)
	}
	return vals[i]
}

func fnTranspose(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	out := make([][]Value, t.Cols())
	for c := 0; c < t.Cols(); c++ {
		out[c] = make([]Value, t.Rows())
		for r := 0; r < t.Rows(); r++ {
			out[c][r] = t.At(r, c)
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnRows(vals []Value, ctx EvaluationContext) Value {
	return NumberValue(float64(asTable(vals[0]).Rows()))
}

func fnColumns(vals []Value, ctx EvaluationContext) Value {
	return NumberValue(float64(asTable(vals[0]).Cols()))
}

func fnAddress(vals []Value, ctx EvaluationContext) Value {
	row, ok1 := requireNumber(vals[0])
	col, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || row < 1 || col < 1 {
		return ErrorValue(ErrValue)
	}
	absNum := 1.0
	if len(vals) > 2 {
		var ok3 bool
		absNum, ok3 = requireNumber(vals[2])
		if !ok3 {
			return ErrorValue(ErrValue)
		}
	}
	a1 := true
	if len(vals) > 3 {
		var ok4 bool
		a1, ok4 = Truthy(vals[3])
		if !ok4 {
			return ErrorValue(ErrValue)
		}
	}
	sheet := ""
	if len(vals) > 4 {
		s, ok5 := textArg(vals[4])
		if !ok5 {
			return ErrorValue(ErrValue)
		}
		sheet = s
	}
	colAbs := absNum == 1 || absNum == 3
	rowAbs := absNum == 1 || absNum == 2
	var body string
	if a1 {
		addr := CellAddress{Col: int(col), Row: int(row), ColAbsolute: colAbs, RowAbsolute: rowAbs}
		body = FormatCellAddress(addr)
	} else {
		rPart := "R" + itoa(int(row))
		if !rowAbs {
			rPart = "R[" + itoa(int(row)) + "]"
		}
		cPart := "C" + itoa(int(col))
		if !colAbs {
			cPart = "C[" + itoa(int(col)) + "]"
		}
		body = rPart + cPart
	}
	if sheet != "" {
		return TextValue(sheet + "!" + body)
	}
	return TextValue(body)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func fnIndirect(args []Node, ctx EvaluationContext) Value {
	textVal := args[0].Eval(ctx)
	if textVal.Kind == KindError {
		return textVal
	}
	text, ok := textArg(textVal)
	if !ok {
		return ErrorValue(ErrRef)
	}
	a1 := true
	if len(args) > 1 {
		flagVal := args[1].Eval(ctx)
		if flagVal.Kind == KindError {
			return flagVal
		}
		a1, ok = Truthy(flagVal)
		if !ok {
			return ErrorValue(ErrRef)
		}
	}
	if !a1 {
		return ErrorValue(ErrRef)
	}
	rng, cell, isRange, ok := parseA1RefString(text)
	if !ok {
		return ErrorValue(ErrRef)
	}
	if isRange {
		return ctx.GetRangeValues(rng)
	}
	return ctx.GetCellValue(cell)
}

func parseA1RefString(s string) (RangeAddress, CellAddress, bool, bool) {
	sheet := ""
	hasSheet := false
	rest := s
	if idx := strings.LastIndexByte(s, '!'); idx >= 0 {
		sheet = strings.Trim(s[:idx], "'")
		hasSheet = true
		rest = s[idx+1:]
	}
	parts := strings.SplitN(rest, ":", 2)
	start, ok := ParseCellAddress(parts[0])
	if !ok {
		return RangeAddress{}, CellAddress{}, false, false
	}
	start.Sheet, start.HasSheet = sheet, hasSheet
	if len(parts) == 2 {
		end, ok2 := ParseCellAddress(parts[1])
		if !ok2 {
			return RangeAddress{}, CellAddress{}, false, false
		}
		end.Sheet, end.HasSheet = sheet, hasSheet
		rng := NormalizeRange(RangeAddress{Sheet: sheet, HasSheet: hasSheet, Start: start, End: end})
		return rng, CellAddress{}, true, true
	}
	return RangeAddress{}, start, false, true
}

func refAddrOfNode(n Node) (CellAddress, bool) {
	switch v := n.(type) {
	case *CellRefNode:
		return v.Addr, true
	case *ParenNode:
		return refAddrOfNode(v.Inner)
	default:
		return CellAddress{}, false
	}
}

func rangeAddrOfNode(n Node) (RangeAddress, bool) {
	switch v := n.(type) {
	case *RangeRefNode:
		return v.Addr, true
	case *CellRefNode:
		return RangeAddress{Sheet: v.Addr.Sheet, HasSheet: v.Addr.HasSheet, Start: v.Addr, End: v.Addr}, true
	case *ParenNode:
		return rangeAddrOfNode(v.Inner)
	default:
		return RangeAddress{}, false
	}
}

func fnOffset(args []Node, ctx EvaluationContext) Value {
	base, ok := rangeAddrOfNode(args[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	drowV := args[1].Eval(ctx)
	if drowV.Kind == KindError {
		return drowV
	}
	dcolV := args[2].Eval(ctx)
	if dcolV.Kind == KindError {
		return dcolV
	}
	drow, ok1 := requireNumber(drowV)
	dcol, ok2 := requireNumber(dcolV)
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	h := float64(base.End.Row - base.Start.Row + 1)
	w := float64(base.End.Col - base.Start.Col + 1)
	if len(args) > 3 {
		hv := args[3].Eval(ctx)
		if hv.Kind == KindError {
			return hv
		}
		var ok3 bool
		h, ok3 = requireNumber(hv)
		if !ok3 {
			return ErrorValue(ErrValue)
		}
	}
	if len(args) > 4 {
		wv := args[4].Eval(ctx)
		if wv.Kind == KindError {
			return wv
		}
		var ok4 bool
		w, ok4 = requireNumber(wv)
		if !ok4 {
			return ErrorValue(ErrValue)
		}
	}
	if h == 0 || w == 0 {
		return ErrorValue(ErrRef)
	}
	newStartRow := base.Start.Row + int(drow)
	newStartCol := base.Start.Col + int(dcol)
	if newStartRow < 1 || newStartCol < 1 {
		return ErrorValue(ErrRef)
	}
	newEndRow := newStartRow + int(h) - 1
	newEndCol := newStartCol + int(w) - 1
	if newEndRow < newStartRow || newEndCol < newStartCol {
		return ErrorValue(ErrRef)
	}
	result := RangeAddress{
		Sheet: base.Sheet, HasSheet: base.HasSheet,
		Start: CellAddress{Sheet: base.Sheet, HasSheet: base.HasSheet, Row: newStartRow, Col: newStartCol},
		End:   CellAddress{Sheet: base.Sheet, HasSheet: base.HasSheet, Row: newEndRow, Col: newEndCol},
	}
	if result.Start == result.End {
		return ctx.GetCellValue(result.Start)
	}
	return ctx.GetRangeValues(result)
}

func fnRow(args []Node, ctx EvaluationContext) Value {
	if len(args) == 0 {
		cell, ok := ctx.CurrentCell()
		if !ok {
			return ErrorValue(ErrValue)
		}
		return NumberValue(float64(cell.Row))
	}
	if addr, ok := refAddrOfNode(args[0]); ok {
		return NumberValue(float64(addr.Row))
	}
	if rng, ok := rangeAddrOfNode(args[0]); ok {
		return NumberValue(float64(rng.Start.Row))
	}
	return ErrorValue(ErrValue)
}

func fnColumn(args []Node, ctx EvaluationContext) Value {
	if len(args) == 0 {
		cell, ok := ctx.CurrentCell()
		if !ok {
			return ErrorValue(ErrValue)
		}
		return NumberValue(float64(cell.Col))
	}
	if addr, ok := refAddrOfNode(args[0]); ok {
		return NumberValue(float64(addr.Col))
	}
	if rng, ok := rangeAddrOfNode(args[0]); ok {
		return NumberValue(float64(rng.Start.Col))
	}
	return ErrorValue(ErrValue)
}
