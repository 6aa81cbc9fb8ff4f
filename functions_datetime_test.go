package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnDateSerialEpoch(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 2.0, evalNum(t, e, w, "DATE(1900,1,1)"))
	assert.Equal(t, 45292.0, evalNum(t, e, w, "DATE(2024,1,1)"))
}

func TestFnDateTwoDigitYearOffset(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, evalNum(t, e, w, "DATE(2005,6,1)"), evalNum(t, e, w, "DATE(105,6,1)"))
}

func TestFnYearMonthDayRoundTrip(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 2024.0, evalNum(t, e, w, "YEAR(DATE(2024,1,1))"))
	assert.Equal(t, 1.0, evalNum(t, e, w, "MONTH(DATE(2024,1,1))"))
	assert.Equal(t, 1.0, evalNum(t, e, w, "DAY(DATE(2024,1,1))"))
}

func TestFnTimeAndComponents(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 13.0, evalNum(t, e, w, "HOUR(TIME(13,30,15))"))
	assert.Equal(t, 30.0, evalNum(t, e, w, "MINUTE(TIME(13,30,15))"))
	assert.Equal(t, 15.0, evalNum(t, e, w, "SECOND(TIME(13,30,15))"))
}

func TestFnWeekdayTypes(t *testing.T) {
	e, w := newTestWorkbook()
	// 2024-01-01 is a Monday.
	assert.Equal(t, 2.0, evalNum(t, e, w, "WEEKDAY(DATE(2024,1,1))"))
	assert.Equal(t, 1.0, evalNum(t, e, w, "WEEKDAY(DATE(2024,1,1),2)"))
	assert.Equal(t, 0.0, evalNum(t, e, w, "WEEKDAY(DATE(2024,1,1),3)"))
}

func TestFnEdateEomonth(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, evalNum(t, e, w, "DATE(2024,3,1)"), evalNum(t, e, w, "EDATE(DATE(2024,1,1),2)"))
	assert.Equal(t, evalNum(t, e, w, "DATE(2024,2,29)"), evalNum(t, e, w, "EOMONTH(DATE(2024,1,15),1)"))
}

func TestFnDatedifUnits(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 1.0, evalNum(t, e, w, `DATEDIF(DATE(2020,1,1),DATE(2021,3,15),"Y")`))
	assert.Equal(t, 14.0, evalNum(t, e, w, `DATEDIF(DATE(2020,1,1),DATE(2021,3,15),"M")`))
	assert.Equal(t, 439.0, evalNum(t, e, w, `DATEDIF(DATE(2020,1,1),DATE(2021,3,15),"D")`))
}

func TestFnDatedifStartAfterEndIsNumError(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrNum, evalErr(t, e, w, `DATEDIF(DATE(2021,1,1),DATE(2020,1,1),"Y")`))
}

func TestFnYearfracBasisZero(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 0.5, evalNum(t, e, w, "YEARFRAC(DATE(2020,1,1),DATE(2020,7,1),0)"), 0.01)
}

func TestFnNetworkdaysExcludesWeekends(t *testing.T) {
	e, w := newTestWorkbook()
	// 2024-01-01 (Mon) through 2024-01-05 (Fri) is 5 workdays.
	assert.Equal(t, 5.0, evalNum(t, e, w, "NETWORKDAYS(DATE(2024,1,1),DATE(2024,1,5))"))
}

func TestFnWorkdayAdvancesSkippingWeekends(t *testing.T) {
	e, w := newTestWorkbook()
	// From Friday 2024-01-05, +1 workday lands on Monday 2024-01-08.
	assert.Equal(t, evalNum(t, e, w, "DATE(2024,1,8)"), evalNum(t, e, w, "WORKDAY(DATE(2024,1,5),1)"))
}
