package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnPmtFvPvRoundTrip(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 162.745, evalNum(t, e, w, "PMT(0.1,10,-1000)"), 0.001)
	assert.InDelta(t, -1000.0, evalNum(t, e, w, "PV(0.1,10,162.7454)"), 0.01)
}

func TestFnNperZeroRate(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 10.0, evalNum(t, e, w, "NPER(0,-100,1000)"))
}

func TestFnSlnSyd(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 1800.0, evalNum(t, e, w, "SLN(10000,1000,5)"))
	assert.Equal(t, 3000.0, evalNum(t, e, w, "SYD(10000,1000,5,1)"))
}

func TestFnEffectNominalRoundTrip(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 0.10471, evalNum(t, e, w, "EFFECT(0.1,12)"), 0.0001)
	assert.InDelta(t, 0.1, evalNum(t, e, w, "NOMINAL(EFFECT(0.1,12),12)"), 0.0001)
}

func TestFnNpvSumsDiscountedFlows(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 481.5928, evalNum(t, e, w, "NPV(0.1,100,200,300)"), 0.001)
}

func TestFnIrrFindsBreakEvenRate(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(-1000))
	w.SetCell("Sheet1", 1, 2, NumberValue(600))
	w.SetCell("Sheet1", 1, 3, NumberValue(600))
	rate := evalNum(t, e, w, "IRR(A1:A3)")
	// NPV at the solved rate should be ~0.
	npv := -1000.0 + 600.0/(1+rate) + 600.0/((1+rate)*(1+rate))
	assert.InDelta(t, 0, npv, 0.001)
}

func TestFnFvscheduleCompoundsEachRate(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(0.1))
	w.SetCell("Sheet1", 1, 2, NumberValue(0.2))
	assert.InDelta(t, 132.0, evalNum(t, e, w, "FVSCHEDULE(100,A1:A2)"), 0.0001)
}

func TestFnDollardeConvertsFraction(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 1.125, evalNum(t, e, w, "DOLLARDE(1.1,8)"), 0.0001)
}

func TestFnDollarfrRoundTripsDollarde(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 1.1, evalNum(t, e, w, "DOLLARFR(DOLLARDE(1.1,8),8)"), 0.0001)
}
