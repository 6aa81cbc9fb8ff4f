package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnSumAverageOverRange(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	assert.Equal(t, 6.0, evalNum(t, e, w, "SUM(A1:A3)"))
	assert.Equal(t, 2.0, evalNum(t, e, w, "AVERAGE(A1:A3)"))
}

func TestFnAverageEmptyRangeIsDivZero(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrDivZero, evalErr(t, e, w, "AVERAGE(A1:A3)"))
}

func TestFnMinMaxProductCount(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(4))
	w.SetCell("Sheet1", 1, 2, NumberValue(9))
	assert.Equal(t, 4.0, evalNum(t, e, w, "MIN(A1:A2)"))
	assert.Equal(t, 9.0, evalNum(t, e, w, "MAX(A1:A2)"))
	assert.Equal(t, 36.0, evalNum(t, e, w, "PRODUCT(A1:A2)"))
	assert.Equal(t, 2.0, evalNum(t, e, w, "COUNT(A1:A2)"))
}

func TestFnRoundFamily(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 2.5, evalNum(t, e, w, "ROUND(2.45,1)"))
	assert.Equal(t, 2.5, evalNum(t, e, w, "ROUNDUP(2.41,1)"))
	assert.Equal(t, 2.4, evalNum(t, e, w, "ROUNDDOWN(2.49,1)"))
	assert.Equal(t, -2.0, evalNum(t, e, w, "TRUNC(-2.9)"))
	assert.Equal(t, 3.0, evalNum(t, e, w, "INT(3.9)"))
}

func TestFnModSignMatchesDivisor(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 1.0, evalNum(t, e, w, "MOD(-7,4)"))
	assert.Equal(t, -1.0, evalNum(t, e, w, "MOD(7,-4)"))
}

func TestFnDivZeroErrors(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrDivZero, evalErr(t, e, w, "MOD(1,0)"))
	assert.Equal(t, ErrDivZero, evalErr(t, e, w, "CEILING(1,0)"))
}

func TestFnGCDLCM(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 6.0, evalNum(t, e, w, "GCD(12,18)"))
	assert.Equal(t, 36.0, evalNum(t, e, w, "LCM(12,18)"))
}

func TestFnCombinPermut(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 10.0, evalNum(t, e, w, "COMBIN(5,2)"))
	assert.Equal(t, 20.0, evalNum(t, e, w, "PERMUT(5,2)"))
}

func TestFnSqrtNegativeIsNumError(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrNum, evalErr(t, e, w, "SQRT(-1)"))
}

func TestFnLogDefaultsBase10(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 2.0, evalNum(t, e, w, "LOG(100)"))
	assert.Equal(t, 3.0, evalNum(t, e, w, "LOG(8,2)"))
}
