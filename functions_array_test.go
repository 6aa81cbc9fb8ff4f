package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnSequenceGeneratesGrid(t *testing.T) {
	e, w := newTestWorkbook()
	v := mustEval(t, e, w, "SEQUENCE(2,2,1,2)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 1.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 3.0, v.Range.At(0, 1).Number)
	assert.Equal(t, 5.0, v.Range.At(1, 0).Number)
	assert.Equal(t, 7.0, v.Range.At(1, 1).Number)
}

func TestFnToColToRow(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 2, 1, NumberValue(2))
	w.SetCell("Sheet1", 1, 2, NumberValue(3))
	w.SetCell("Sheet1", 2, 2, NumberValue(4))
	col := mustEval(t, e, w, "TOCOL(A1:B2)")
	require.Equal(t, KindRange, col.Kind)
	assert.Equal(t, 4, col.Range.Rows())
	assert.Equal(t, 1, col.Range.Cols())
	row := mustEval(t, e, w, "TOROW(A1:B2)")
	assert.Equal(t, 1, row.Range.Rows())
	assert.Equal(t, 4, row.Range.Cols())
}

func TestFnWrapRowsCols(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	v := mustEval(t, e, w, "WRAPROWS(A1:A3,2)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 2, v.Range.Rows())
	assert.Equal(t, 2, v.Range.Cols())
}

func TestFnChooseRowsCols(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 2, 1, NumberValue(2))
	w.SetCell("Sheet1", 1, 2, NumberValue(3))
	w.SetCell("Sheet1", 2, 2, NumberValue(4))
	v := mustEval(t, e, w, "CHOOSEROWS(A1:B2,2)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 3.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 4.0, v.Range.At(0, 1).Number)
}

func TestFnDropTake(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	v := mustEval(t, e, w, "DROP(A1:A3,1)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 2, v.Range.Rows())
	assert.Equal(t, 2.0, v.Range.At(0, 0).Number)
	v2 := mustEval(t, e, w, "TAKE(A1:A3,2)")
	assert.Equal(t, 2, v2.Range.Rows())
	assert.Equal(t, 1.0, v2.Range.At(0, 0).Number)
}

func TestFnExpandPadsWithNA(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	v := mustEval(t, e, w, "EXPAND(A1,2,2)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 1.0, v.Range.At(0, 0).Number)
	assert.Equal(t, KindError, v.Range.At(1, 1).Kind)
	assert.Equal(t, ErrNA, v.Range.At(1, 1).Error)
}

func TestFnHStackVStack(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	h := mustEval(t, e, w, "HSTACK(A1,A2)")
	require.Equal(t, KindRange, h.Kind)
	assert.Equal(t, 1, h.Range.Rows())
	assert.Equal(t, 2, h.Range.Cols())
	vv := mustEval(t, e, w, "VSTACK(A1,A2)")
	assert.Equal(t, 2, vv.Range.Rows())
	assert.Equal(t, 1, vv.Range.Cols())
}

func TestFnFilterKeepsTruthyRows(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	w.SetCell("Sheet1", 2, 1, BoolValue(true))
	w.SetCell("Sheet1", 2, 2, BoolValue(false))
	w.SetCell("Sheet1", 2, 3, BoolValue(true))
	v := mustEval(t, e, w, "FILTER(A1:A3,B1:B3)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 2, v.Range.Rows())
	assert.Equal(t, 1.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 3.0, v.Range.At(1, 0).Number)
}

func TestFnFilterEmptyResultIsCalcError(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 2, 1, BoolValue(false))
	assert.Equal(t, ErrCalc, evalErr(t, e, w, "FILTER(A1,B1)"))
}

func TestFnUniqueDedupesRows(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(1))
	w.SetCell("Sheet1", 1, 3, NumberValue(2))
	v := mustEval(t, e, w, "UNIQUE(A1:A3)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 2, v.Range.Rows())
}

func TestFnUniqueExactlyOnce(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(1))
	w.SetCell("Sheet1", 1, 3, NumberValue(2))
	v := mustEval(t, e, w, "UNIQUE(A1:A3,FALSE,TRUE)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 1, v.Range.Rows())
	assert.Equal(t, 2.0, v.Range.At(0, 0).Number)
}

func TestFnSortAscendingDescending(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(3))
	w.SetCell("Sheet1", 1, 2, NumberValue(1))
	w.SetCell("Sheet1", 1, 3, NumberValue(2))
	v := mustEval(t, e, w, "SORT(A1:A3)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 1.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 3.0, v.Range.At(2, 0).Number)
	v2 := mustEval(t, e, w, "SORT(A1:A3,1,-1)")
	assert.Equal(t, 3.0, v2.Range.At(0, 0).Number)
}

func TestFnSortByKeyArray(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, TextValue("a"))
	w.SetCell("Sheet1", 1, 2, TextValue("b"))
	w.SetCell("Sheet1", 2, 1, NumberValue(2))
	w.SetCell("Sheet1", 2, 2, NumberValue(1))
	v := mustEval(t, e, w, "SORTBY(A1:A2,B1:B2)")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, "b", v.Range.At(0, 0).Text)
	assert.Equal(t, "a", v.Range.At(1, 0).Text)
}
