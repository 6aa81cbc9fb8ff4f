package formulacore

import (
	"math/rand"
	"sort"
)

var arrayFunctions = []Function{
	eagerFn("SEQUENCE", 1, 4, fnSequence),
	eagerFn("RANDARRAY", 0, 5, fnRandArray),
	eagerFn("TOCOL", 1, 2, fnToCol),
	eagerFn("TOROW", 1, 2, fnToRow),
	eagerFn("WRAPROWS", 2, 3, fnWrapRows),
	eagerFn("WRAPCOLS", 2, 3, fnWrapCols),
	eagerFn("CHOOSEROWS", 2, -1, fnChooseRows),
	eagerFn("CHOOSECOLS", 2, -1, fnChooseCols),
	eagerFn("DROP", 2, 3, fnDrop),
	eagerFn("TAKE", 2, 3, fnTake),
	eagerFn("EXPAND", 2, 4, fnExpand),
	eagerFn("HSTACK", 1, -1, fnHStack),
	eagerFn("VSTACK", 1, -1, fnVStack),
	lazyFn("FILTER", 2, 3, fnFilter),
	eagerFn("UNIQUE", 1, 3, fnUnique),
	eagerFn("SORT", 1, 4, fnSort),
	lazyFn("SORTBY", 2, -1, fnSortBy),
}

func fnSequence(vals []Value, ctx EvaluationContext) Value {
	rows, ok := requireNumber(vals[0])
	if !ok || rows < 1 {
		return ErrorValue(ErrValue)
	}
	cols := 1.0
	if len(vals) > 1 {
		var ok2 bool
		cols, ok2 = requireNumber(vals[1])
		if !ok2 || cols < 1 {
			return ErrorValue(ErrValue)
		}
	}
	start := 1.0
	if len(vals) > 2 {
		var ok3 bool
		start, ok3 = requireNumber(vals[2])
		if !ok3 {
			return ErrorValue(ErrValue)
		}
	}
	step := 1.0
	if len(vals) > 3 {
		var ok4 bool
		step, ok4 = requireNumber(vals[3])
		if !ok4 {
			return ErrorValue(ErrValue)
		}
	}
	out := make([][]Value, int(rows))
	n := start
	for r := 0; r < int(rows); r++ {
		out[r] = make([]Value, int(cols))
		for c := 0; c < int(cols); c++ {
			out[r][c] = NumberValue(n)
			n += step
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnRandArray(vals []Value, ctx EvaluationContext) Value {
	rows, cols := 1.0, 1.0
	lo, hi := 0.0, 1.0
	wholeNumber := false
	var ok bool
	if len(vals) > 0 {
		rows, ok = requireNumber(vals[0])
		if !ok || rows < 1 {
			return ErrorValue(ErrValue)
		}
	}
	if len(vals) > 1 {
		cols, ok = requireNumber(vals[1])
		if !ok || cols < 1 {
			return ErrorValue(ErrValue)
		}
	}
	if len(vals) > 2 {
		lo, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if len(vals) > 3 {
		hi, ok = requireNumber(vals[3])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if len(vals) > 4 {
		wholeNumber, ok = Truthy(vals[4])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	out := make([][]Value, int(rows))
	for r := 0; r < int(rows); r++ {
		out[r] = make([]Value, int(cols))
		for c := 0; c < int(cols); c++ {
			n := lo + rand.Float64()*(hi-lo)
			if wholeNumber {
				n = float64(int64(lo) + rand.Int63n(int64(hi)-int64(lo)+1))
			}
			out[r][c] = NumberValue(n)
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnToCol(vals []Value, ctx EvaluationContext) Value {
	flat := asTable(vals[0]).Flatten()
	out := make([][]Value, len(flat))
	for i, v := range flat {
		out[i] = []Value{v}
	}
	return RangeVal(NewRangeValue(out))
}

func fnToRow(vals []Value, ctx EvaluationContext) Value {
	flat := asTable(vals[0]).Flatten()
	return RangeVal(NewRangeValue([][]Value{flat}))
}

func fnWrapRows(vals []Value, ctx EvaluationContext) Value {
	flat := asTable(vals[0]).Flatten()
	width, ok := requireNumber(vals[1])
	if !ok || width < 1 {
		return ErrorValue(ErrValue)
	}
	pad := EmptyValue()
	if len(vals) > 2 {
		pad = vals[2]
	}
	w := int(width)
	rows := (len(flat) + w - 1) / w
	out := make([][]Value, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]Value, w)
		for c := 0; c < w; c++ {
			idx := r*w + c
			if idx < len(flat) {
				out[r][c] = flat[idx]
			} else {
				out[r][c] = pad
			}
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnWrapCols(vals []Value, ctx EvaluationContext) Value {
	flat := asTable(vals[0]).Flatten()
	height, ok := requireNumber(vals[1])
	if !ok || height < 1 {
		return ErrorValue(ErrValue)
	}
	pad := EmptyValue()
	if len(vals) > 2 {
		pad = vals[2]
	}
	h := int(height)
	cols := (len(flat) + h - 1) / h
	out := make([][]Value, h)
	for r := 0; r < h; r++ {
		out[r] = make([]Value, cols)
	}
	for c := 0; c < cols; c++ {
		for r := 0; r < h; r++ {
			idx := c*h + r
			if idx < len(flat) {
				out[r][c] = flat[idx]
			} else {
				out[r][c] = pad
			}
		}
	}
	return RangeVal(NewRangeValue(out))
}

func indicesFromValues(vals []Value, limit int) ([]int, bool) {
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		n, ok := requireNumber(v)
		if !ok {
			return nil, false
		}
		i := int(n)
		if i < 0 {
			i = limit + i + 1
		}
		if i < 1 || i > limit {
			return nil, false
		}
		out = append(out, i-1)
	}
	return out, true
}

func fnChooseRows(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	idxs, ok := indicesFromValues(vals[1:], t.Rows())
	if !ok {
		return ErrorValue(ErrValue)
	}
	out := make([][]Value, len(idxs))
	for i, r := range idxs {
		out[i] = t.Row(r)
	}
	return RangeVal(NewRangeValue(out))
}

func fnChooseCols(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	idxs, ok := indicesFromValues(vals[1:], t.Cols())
	if !ok {
		return ErrorValue(ErrValue)
	}
	out := make([][]Value, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		out[r] = make([]Value, len(idxs))
		for i, c := range idxs {
			out[r][i] = t.At(r, c)
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnDrop(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	rowsDrop, ok := requireNumber(vals[1])
	if !ok {
		return ErrorValue(ErrValue)
	}
	colsDrop := 0.0
	if len(vals) > 2 {
		colsDrop, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	startRow, endRow := dropRange(int(rowsDrop), t.Rows())
	startCol, endCol := dropRange(int(colsDrop), t.Cols())
	if startRow >= endRow || startCol >= endCol {
		return ErrorValue(ErrCalc)
	}
	out := make([][]Value, 0, endRow-startRow)
	for r := startRow; r < endRow; r++ {
		row := make([]Value, 0, endCol-startCol)
		for c := startCol; c < endCol; c++ {
			row = append(row, t.At(r, c))
		}
		out = append(out, row)
	}
	return RangeVal(NewRangeValue(out))
}

func dropRange(n, total int) (int, int) {
	if n >= 0 {
		return n, total
	}
	return 0, total + n
}

func fnTake(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	rowsTake, ok := requireNumber(vals[1])
	if !ok {
		return ErrorValue(ErrValue)
	}
	colsTake := float64(t.Cols())
	if len(vals) > 2 {
		colsTake, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	startRow, endRow := takeRange(int(rowsTake), t.Rows())
	startCol, endCol := takeRange(int(colsTake), t.Cols())
	out := make([][]Value, 0, endRow-startRow)
	for r := startRow; r < endRow; r++ {
		row := make([]Value, 0, endCol-startCol)
		for c := startCol; c < endCol; c++ {
			row = append(row, t.At(r, c))
		}
		out = append(out, row)
	}
	return RangeVal(NewRangeValue(out))
}

func takeRange(n, total int) (int, int) {
	if n >= 0 {
		if n > total {
			n = total
		}
		return 0, n
	}
	start := total + n
	if start < 0 {
		start = 0
	}
	return start, total
}

func fnExpand(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	rows, ok := requireNumber(vals[1])
	if !ok || int(rows) < t.Rows() {
		return ErrorValue(ErrValue)
	}
	cols := float64(t.Cols())
	if len(vals) > 2 {
		cols, ok = requireNumber(vals[2])
		if !ok || int(cols) < t.Cols() {
			return ErrorValue(ErrValue)
		}
	}
	pad := ErrorValue(ErrNA)
	if len(vals) > 3 {
		pad = vals[3]
	}
	out := make([][]Value, int(rows))
	for r := 0; r < int(rows); r++ {
		out[r] = make([]Value, int(cols))
		for c := 0; c < int(cols); c++ {
			if r < t.Rows() && c < t.Cols() {
				out[r][c] = t.At(r, c)
			} else {
				out[r][c] = pad
			}
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnHStack(vals []Value, ctx EvaluationContext) Value {
	tables := make([]*RangeValue, len(vals))
	maxRows := 0
	for i, v := range vals {
		tables[i] = asTable(v)
		if tables[i].Rows() > maxRows {
			maxRows = tables[i].Rows()
		}
	}
	out := make([][]Value, maxRows)
	for r := 0; r < maxRows; r++ {
		var row []Value
		for _, t := range tables {
			for c := 0; c < t.Cols(); c++ {
				if r < t.Rows() {
					row = append(row, t.At(r, c))
				} else {
					row = append(row, ErrorValue(ErrNA))
				}
			}
		}
		out[r] = row
	}
	return RangeVal(NewRangeValue(out))
}

func fnVStack(vals []Value, ctx EvaluationContext) Value {
	tables := make([]*RangeValue, len(vals))
	maxCols := 0
	for i, v := range vals {
		tables[i] = asTable(v)
		if tables[i].Cols() > maxCols {
			maxCols = tables[i].Cols()
		}
	}
	var out [][]Value
	for _, t := range tables {
		for r := 0; r < t.Rows(); r++ {
			row := make([]Value, maxCols)
			for c := 0; c < maxCols; c++ {
				if c < t.Cols() {
					row[c] = t.At(r, c)
				} else {
					row[c] = ErrorValue(ErrNA)
				}
			}
			out = append(out, row)
		}
	}
	return RangeVal(NewRangeValue(out))
}

// fnFilter keeps rows of the array whose corresponding entry in a
// single-column include array is truthy, or columns whose entry in a
// single-row include array is truthy; the include argument stays lazy only so a
// third "if_empty" argument can be returned without evaluating the
// array twice on the empty-result path.
func fnFilter(args []Node, ctx EvaluationContext) Value {
	arrVal := args[0].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	includeVal := args[1].Eval(ctx)
	if includeVal.Kind == KindError {
		return includeVal
	}
	t := asTable(arrVal)
	include := asTable(includeVal)
	var out [][]Value
	for r := 0; r < t.Rows(); r++ {
		keep := false
		if include.Rows() == t.Rows() && include.Cols() == 1 {
			ok, _ := Truthy(include.At(r, 0))
			keep = ok
		} else if include.Rows() == 1 && include.Cols() == t.Cols() {
			var row []Value
			for c := 0; c < t.Cols(); c++ {
				if ok, _ := Truthy(include.At(0, c)); ok {
					row = append(row, t.At(r, c))
				}
			}
			if len(row) > 0 {
				out = append(out, row)
			}
		}
		if keep {
			out = append(out, t.Row(r))
		}
	}
	if len(out) == 0 {
		if len(args) > 2 {
			return args[2].Eval(ctx)
		}
		return ErrorValue(ErrCalc)
	}
	return RangeVal(NewRangeValue(out))
}

func fnUnique(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	byCol := false
	if len(vals) > 1 {
		var ok bool
		byCol, ok = Truthy(vals[1])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	exactlyOnce := false
	if len(vals) > 2 {
		var ok bool
		exactlyOnce, ok = Truthy(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if byCol {
		counts := map[string]int{}
		var keys []string
		for c := 0; c < t.Cols(); c++ {
			key := columnKey(t, c)
			counts[key]++
			keys = append(keys, key)
		}
		seen := map[string]bool{}
		var out []int
		for c, key := range keys {
			if exactlyOnce {
				if counts[key] == 1 {
					out = append(out, c)
				}
				continue
			}
			if !seen[key] {
				seen[key] = true
				out = append(out, c)
			}
		}
		result := make([][]Value, t.Rows())
		for r := 0; r < t.Rows(); r++ {
			result[r] = make([]Value, len(out))
			for i, c := range out {
				result[r][i] = t.At(r, c)
			}
		}
		return RangeVal(NewRangeValue(result))
	}
	counts := map[string]int{}
	var keys []string
	for r := 0; r < t.Rows(); r++ {
		key := rowKey(t.Row(r))
		counts[key]++
		keys = append(keys, key)
	}
	seen := map[string]bool{}
	var out [][]Value
	for r, key := range keys {
		if exactlyOnce {
			if counts[key] == 1 {
				out = append(out, t.Row(r))
			}
			continue
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, t.Row(r))
		}
	}
	return RangeVal(NewRangeValue(out))
}

func rowKey(row []Value) string {
	var sb []byte
	for _, v := range row {
		s, _ := ToText(v)
		sb = append(sb, []byte(v.Kind.String()+":"+s+"|")...)
	}
	return string(sb)
}

func columnKey(t *RangeValue, c int) string {
	var sb []byte
	for r := 0; r < t.Rows(); r++ {
		v := t.At(r, c)
		s, _ := ToText(v)
		sb = append(sb, []byte(v.Kind.String()+":"+s+"|")...)
	}
	return string(sb)
}

func fnSort(vals []Value, ctx EvaluationContext) Value {
	t := asTable(vals[0])
	sortIndex := 1.0
	if len(vals) > 1 {
		var ok bool
		sortIndex, ok = requireNumber(vals[1])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	ascending := true
	if len(vals) > 2 {
		order, ok := requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
		ascending = order >= 0
	}
	col := int(sortIndex) - 1
	if col < 0 || col >= t.Cols() {
		return ErrorValue(ErrValue)
	}
	rows := make([][]Value, t.Rows())
	for r := range rows {
		rows[r] = t.Row(r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		cmp, _ := Compare(rows[i][col], rows[j][col])
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return RangeVal(NewRangeValue(rows))
}

// fnSortBy sorts the first array by one or more parallel key arrays,
// each optionally followed by a numeric ±1 order argument (§4.8-adjacent
// array reshaping family).
func fnSortBy(args []Node, ctx EvaluationContext) Value {
	arrVal := args[0].Eval(ctx)
	if arrVal.Kind == KindError {
		return arrVal
	}
	t := asTable(arrVal)
	type key struct {
		vals []Value
		asc  bool
	}
	var keys []key
	i := 1
	for i < len(args) {
		kv := args[i].Eval(ctx)
		if kv.Kind == KindError {
			return kv
		}
		kt := asTable(kv)
		asc := true
		i++
		if i < len(args) {
			ov := args[i].Eval(ctx)
			if ov.Kind != KindError {
				if n, ok := requireNumber(ov); ok {
					asc = n >= 0
					i++
				}
			} else {
				return ov
			}
		}
		keys = append(keys, key{vals: kt.Flatten(), asc: asc})
	}
	order := make([]int, t.Rows())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for _, k := range keys {
			if a >= len(k.vals) || b >= len(k.vals) {
				continue
			}
			cmp, _ := Compare(k.vals[a], k.vals[b])
			if cmp == 0 {
				continue
			}
			if k.asc {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	out := make([][]Value, t.Rows())
	for i, r := range order {
		out[i] = t.Row(r)
	}
	return RangeVal(NewRangeValue(out))
}
