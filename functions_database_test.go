package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupDatabaseTable(w *MemoryWorkbook) {
	w.SetCell("Sheet1", 1, 1, TextValue("Name"))
	w.SetCell("Sheet1", 2, 1, TextValue("Age"))
	w.SetCell("Sheet1", 1, 2, TextValue("Tom"))
	w.SetCell("Sheet1", 2, 2, NumberValue(10))
	w.SetCell("Sheet1", 1, 3, TextValue("Jane"))
	w.SetCell("Sheet1", 2, 3, NumberValue(20))
	w.SetCell("Sheet1", 1, 4, TextValue("Sam"))
	w.SetCell("Sheet1", 2, 4, NumberValue(30))
	// criteria table in D1:D2
	w.SetCell("Sheet1", 4, 1, TextValue("Age"))
	w.SetCell("Sheet1", 4, 2, TextValue(">=20"))
}

func TestFnDsumDaverageWithCriteria(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	assert.Equal(t, 50.0, evalNum(t, e, w, `DSUM(A1:B4,"Age",D1:D2)`))
	assert.Equal(t, 25.0, evalNum(t, e, w, `DAVERAGE(A1:B4,"Age",D1:D2)`))
}

func TestFnDcountDcounta(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	assert.Equal(t, 2.0, evalNum(t, e, w, `DCOUNT(A1:B4,"Age",D1:D2)`))
	assert.Equal(t, 2.0, evalNum(t, e, w, `DCOUNTA(A1:B4,"Name",D1:D2)`))
}

func TestFnDmaxDmin(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	assert.Equal(t, 30.0, evalNum(t, e, w, `DMAX(A1:B4,"Age",D1:D2)`))
	assert.Equal(t, 20.0, evalNum(t, e, w, `DMIN(A1:B4,"Age",D1:D2)`))
}

func TestFnDgetSingleMatch(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	w.SetCell("Sheet1", 4, 2, TextValue(">=30"))
	assert.Equal(t, "Sam", evalText(t, e, w, `DGET(A1:B4,"Name",D1:D2)`))
}

func TestFnDgetAmbiguousIsNumError(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	assert.Equal(t, ErrNum, evalErr(t, e, w, `DGET(A1:B4,"Name",D1:D2)`))
}

func TestFnDproductAndFieldByNumber(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	assert.Equal(t, 600.0, evalNum(t, e, w, `DPRODUCT(A1:B4,2,D1:D2)`))
}

func TestFnDsumIgnoresCriteriaCellWithUnmatchedHeader(t *testing.T) {
	e, w := newTestWorkbook()
	setupDatabaseTable(w)
	// E1 names a column the database doesn't have; that criteria cell
	// must be ignored rather than rejecting every row outright.
	w.SetCell("Sheet1", 5, 1, TextValue("Unknown"))
	w.SetCell("Sheet1", 5, 2, TextValue("whatever"))
	assert.Equal(t, 50.0, evalNum(t, e, w, `DSUM(A1:B4,"Age",D1:E2)`))
}
