package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupStatRange(w *MemoryWorkbook, col int, vals []float64) {
	for i, v := range vals {
		w.SetCell("Sheet1", col, i+1, NumberValue(v))
	}
}

func TestFnStdevVarSampleAndPopulation(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{2, 4, 6})
	assert.Equal(t, 2.0, evalNum(t, e, w, "STDEV(A1:A3)"))
	assert.Equal(t, 4.0, evalNum(t, e, w, "VAR(A1:A3)"))
	assert.InDelta(t, 1.633, evalNum(t, e, w, "STDEVP(A1:A3)"), 0.001)
	assert.InDelta(t, 2.667, evalNum(t, e, w, "VARP(A1:A3)"), 0.001)
}

func TestFnMedianModeSnglMult(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, evalNum(t, e, w, "MEDIAN(A1:A4)"))
	setupStatRange(w, 2, []float64{1, 2, 2, 3})
	assert.Equal(t, 2.0, evalNum(t, e, w, "MODE.SNGL(B1:B4)"))
}

func TestFnPercentileIncQuartileInc(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3, 4})
	assert.Equal(t, 1.75, evalNum(t, e, w, "PERCENTILE.INC(A1:A4,0.25)"))
	assert.Equal(t, 1.75, evalNum(t, e, w, "QUARTILE.INC(A1:A4,1)"))
}

func TestFnLargeSmall(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3, 4})
	assert.Equal(t, 4.0, evalNum(t, e, w, "LARGE(A1:A4,1)"))
	assert.Equal(t, 1.0, evalNum(t, e, w, "SMALL(A1:A4,1)"))
}

func TestFnRankEqDescendingDefault(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3, 4})
	assert.Equal(t, 2.0, evalNum(t, e, w, "RANK.EQ(3,A1:A4)"))
}

func TestFnCorrelSlopeIntercept(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3})
	setupStatRange(w, 2, []float64{2, 4, 6})
	assert.InDelta(t, 1.0, evalNum(t, e, w, "CORREL(A1:A3,B1:B3)"), 0.0001)
	assert.InDelta(t, 2.0, evalNum(t, e, w, "SLOPE(B1:B3,A1:A3)"), 0.0001)
	assert.InDelta(t, 0.0, evalNum(t, e, w, "INTERCEPT(B1:B3,A1:A3)"), 0.0001)
}

func TestFnNormDistAndNormSDist(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 0.5, evalNum(t, e, w, "NORM.DIST(0,0,1,TRUE)"), 0.0001)
	assert.InDelta(t, 0.5, evalNum(t, e, w, "NORM.S.DIST(0,TRUE)"), 0.0001)
}

func TestFnSubtotalAndAggregateSum(t *testing.T) {
	e, w := newTestWorkbook()
	setupStatRange(w, 1, []float64{1, 2, 3})
	assert.Equal(t, 6.0, evalNum(t, e, w, "SUBTOTAL(9,A1:A3)"))
	assert.Equal(t, 6.0, evalNum(t, e, w, "AGGREGATE(9,0,A1:A3)"))
}
