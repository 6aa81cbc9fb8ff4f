package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLookupTable(w *MemoryWorkbook) {
	// A1:B3 -- a two-column sorted table
	rows := []struct {
		key string
		val float64
	}{{"a", 1}, {"b", 2}, {"c", 3}}
	for i, r := range rows {
		w.SetCell("Sheet1", 1, i+1, TextValue(r.key))
		w.SetCell("Sheet1", 2, i+1, NumberValue(r.val))
	}
}

func TestFnVlookupExactAndApprox(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	assert.Equal(t, 2.0, evalNum(t, e, w, `VLOOKUP("b",A1:B3,2,FALSE)`))
	assert.Equal(t, ErrNA, evalErr(t, e, w, `VLOOKUP("z",A1:B3,2,FALSE)`))
}

func TestFnVlookupColumnOutOfRangeIsRef(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	assert.Equal(t, ErrRef, evalErr(t, e, w, `VLOOKUP("a",A1:B3,5,FALSE)`))
}

func TestFnIndexScalarAndWholeColumn(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	assert.Equal(t, 2.0, evalNum(t, e, w, "INDEX(B1:B3,2)"))
	assert.Equal(t, "b", evalText(t, e, w, "INDEX(A1:B3,2,1)"))
}

func TestFnMatchTypes(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	assert.Equal(t, 2.0, evalNum(t, e, w, `MATCH("b",A1:A3,0)`))
	assert.Equal(t, ErrNA, evalErr(t, e, w, `MATCH("z",A1:A3,0)`))
}

func TestFnXlookupFallback(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	assert.Equal(t, 2.0, evalNum(t, e, w, `XLOOKUP("b",A1:A3,B1:B3)`))
	assert.Equal(t, "none", evalText(t, e, w, `XLOOKUP("z",A1:A3,B1:B3,"none")`))
}

func TestFnChoose(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "two", evalText(t, e, w, `CHOOSE(2,"one","two","three")`))
}

func TestFnTransposeRowsColumns(t *testing.T) {
	e, w := newTestWorkbook()
	setupLookupTable(w)
	v := mustEval(t, e, w, "TRANSPOSE(A1:B3)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 2, v.Range.Rows())
	assert.Equal(t, 3, v.Range.Cols())
	assert.Equal(t, 3.0, evalNum(t, e, w, "ROWS(A1:B3)"))
	assert.Equal(t, 2.0, evalNum(t, e, w, "COLUMNS(A1:B3)"))
}

func TestFnAddressA1Style(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "$A$1", evalText(t, e, w, "ADDRESS(1,1)"))
	assert.Equal(t, "A1", evalText(t, e, w, "ADDRESS(1,1,4)"))
}

func TestFnIndirectCellAndCrossSheet(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(7))
	w.AddSheet("Sheet2")
	w.SetCell("Sheet2", 2, 3, NumberValue(99))
	assert.Equal(t, 7.0, evalNum(t, e, w, `INDIRECT("A1")`))
	assert.Equal(t, 99.0, evalNum(t, e, w, `INDIRECT("Sheet2!B3")`))
}

func TestFnOffsetBasic(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	assert.Equal(t, 2.0, evalNum(t, e, w, "OFFSET(A1,1,0)"))
}

func TestFnOffsetOutOfBoundsIsRef(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrRef, evalErr(t, e, w, "OFFSET(A1,-1,0)"))
}

func TestFnRowColumn(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 5.0, evalNum(t, e, w, "ROW(B5)"))
	assert.Equal(t, 2.0, evalNum(t, e, w, "COLUMN(B5)"))
}
