package formulacore

import (
	"math"
	"time"
)

// Serial-date epoch (§3/§4.9): DATE(1900,1,1)=2, chosen so that the
// fixed-point spec examples (DATE(1900,1,1)=2, DATE(2024,1,1)=45292)
// hold exactly under plain proleptic-Gregorian day counting — see
// DESIGN.md for why the historical "1900 was a leap year" bug is not
// separately reproduced.
var dateEpoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

func serialFromDate(y, m, d int) float64 {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	days := t.Sub(dateEpoch).Hours() / 24
	return 2 + days
}

func dateFromSerial(serial float64) time.Time {
	days := math.Floor(serial) - 2
	return dateEpoch.AddDate(0, 0, int(days))
}

var datetimeFunctions = []Function{
	eagerFn("DATE", 3, 3, fnDate),
	eagerFn("DATEVALUE", 1, 1, fnDateValue),
	eagerFn("TIME", 3, 3, fnTime),
	eagerFn("TIMEVALUE", 1, 1, fnTimeValue),
	eagerFn("YEAR", 1, 1, fnYear),
	eagerFn("MONTH", 1, 1, fnMonth),
	eagerFn("DAY", 1, 1, fnDay),
	eagerFn("HOUR", 1, 1, fnHour),
	eagerFn("MINUTE", 1, 1, fnMinute),
	eagerFn("SECOND", 1, 1, fnSecond),
	eagerFn("WEEKDAY", 1, 2, fnWeekday),
	eagerFn("EDATE", 2, 2, fnEdate),
	eagerFn("EOMONTH", 2, 2, fnEomonth),
	eagerFn("DATEDIF", 3, 3, fnDatedif),
	eagerFn("YEARFRAC", 2, 3, fnYearfrac),
	eagerFn("NETWORKDAYS", 2, 3, fnNetworkdays),
	eagerFn("NETWORKDAYS.INTL", 2, 4, fnNetworkdaysIntl),
	eagerFn("WORKDAY", 2, 3, fnWorkday),
	eagerFn("WORKDAY.INTL", 2, 4, fnWorkdayIntl),
	eagerFn("NOW", 0, 0, fnNow),
	eagerFn("TODAY", 0, 0, fnToday),
}

func fnDate(vals []Value, ctx EvaluationContext) Value {
	y, ok1 := requireNumber(vals[0])
	m, ok2 := requireNumber(vals[1])
	d, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if y >= 0 && y < 1900 {
		y += 1900
	}
	return NumberValue(serialFromDate(int(y), int(m), int(d)))
}

func fnDateValue(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006", "January 2, 2006", "2-Jan-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NumberValue(serialFromDate(t.Year(), int(t.Month()), t.Day()))
		}
	}
	return ErrorValue(ErrValue)
}

func fnTime(vals []Value, ctx EvaluationContext) Value {
	h, ok1 := requireNumber(vals[0])
	m, ok2 := requireNumber(vals[1])
	s, ok3 := requireNumber(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	frac := (h*3600 + m*60 + s) / 86400
	frac -= math.Floor(frac)
	return NumberValue(frac)
}

func fnTimeValue(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	for _, layout := range []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			frac := (float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second())) / 86400
			return NumberValue(frac)
		}
	}
	return ErrorValue(ErrValue)
}

func serialArg(v Value) (float64, bool) {
	return requireNumber(v)
}

func fnYear(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(float64(dateFromSerial(n).Year()))
}

func fnMonth(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(float64(dateFromSerial(n).Month()))
}

func fnDay(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(float64(dateFromSerial(n).Day()))
}

func timeFrac(n float64) float64 {
	return n - math.Floor(n)
}

func fnHour(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	secs := timeFrac(n) * 86400
	return NumberValue(math.Floor(secs / 3600))
}

func fnMinute(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	secs := int(math.Round(timeFrac(n) * 86400))
	return NumberValue(float64((secs / 60) % 60))
}

func fnSecond(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	secs := int(math.Round(timeFrac(n) * 86400))
	return NumberValue(float64(secs % 60))
}

func fnWeekday(vals []Value, ctx EvaluationContext) Value {
	n, ok := serialArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	retType := 1.0
	if len(vals) > 1 {
		retType, ok = requireNumber(vals[1])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	wd := int(dateFromSerial(n).Weekday()) // 0=Sunday
	switch int(retType) {
	case 1:
		return NumberValue(float64(wd + 1))
	case 2:
		return NumberValue(float64((wd+6)%7 + 1))
	case 3:
		return NumberValue(float64((wd + 6) % 7))
	default:
		return ErrorValue(ErrNum)
	}
}

func fnEdate(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := serialArg(vals[0])
	months, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	t := dateFromSerial(n).AddDate(0, int(months), 0)
	return NumberValue(serialFromDate(t.Year(), int(t.Month()), t.Day()))
}

func fnEomonth(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := serialArg(vals[0])
	months, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	t := dateFromSerial(n)
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, int(months)+1, 0)
	lastDay := firstOfTarget.AddDate(0, 0, -1)
	return NumberValue(serialFromDate(lastDay.Year(), int(lastDay.Month()), lastDay.Day()))
}

func fnDatedif(vals []Value, ctx EvaluationContext) Value {
	start, ok1 := serialArg(vals[0])
	end, ok2 := serialArg(vals[1])
	unit, ok3 := requireText(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if start > end {
		return ErrorValue(ErrNum)
	}
	s := dateFromSerial(start)
	e := dateFromSerial(end)
	switch unit {
	case "Y", "y":
		years := e.Year() - s.Year()
		if e.Month() < s.Month() || (e.Month() == s.Month() && e.Day() < s.Day()) {
			years--
		}
		return NumberValue(float64(years))
	case "M", "m":
		months := (e.Year()-s.Year())*12 + int(e.Month()-s.Month())
		if e.Day() < s.Day() {
			months--
		}
		return NumberValue(float64(months))
	case "D", "d":
		return NumberValue(end - start)
	case "MD":
		d := e.Day() - s.Day()
		if d < 0 {
			prevMonth := time.Date(e.Year(), e.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			d += prevMonth.Day()
		}
		return NumberValue(float64(d))
	case "YM":
		m := int(e.Month() - s.Month())
		if e.Day() < s.Day() {
			m--
		}
		if m < 0 {
			m += 12
		}
		return NumberValue(float64(m))
	case "YD":
		sameYear := time.Date(e.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
		if sameYear.After(e) {
			sameYear = sameYear.AddDate(-1, 0, 0)
		}
		return NumberValue(math.Round(e.Sub(sameYear).Hours() / 24))
	default:
		return ErrorValue(ErrNum)
	}
}

func fnYearfrac(vals []Value, ctx EvaluationContext) Value {
	start, ok1 := serialArg(vals[0])
	end, ok2 := serialArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	basis := 0.0
	if len(vals) > 2 {
		var ok bool
		basis, ok = requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	if start > end {
		start, end = end, start
	}
	s := dateFromSerial(start)
	e := dateFromSerial(end)
	switch int(basis) {
	case 0:
		return NumberValue(days30360(s, e) / 360)
	case 1:
		return NumberValue((end - start) / actualYearLength(s, e))
	case 2:
		return NumberValue((end - start) / 360)
	case 3:
		return NumberValue((end - start) / 365)
	case 4:
		return NumberValue(days30360European(s, e) / 360)
	default:
		return ErrorValue(ErrNum)
	}
}

func actualYearLength(s, e time.Time) float64 {
	if isLeapYearSpan(s, e) {
		return 366
	}
	return 365
}

func isLeapYearSpan(s, e time.Time) bool {
	for y := s.Year(); y <= e.Year(); y++ {
		if isLeapYear(y) {
			return true
		}
	}
	return false
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func days30360(s, e time.Time) float64 {
	d1, d2 := s.Day(), e.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 == 30 {
		d2 = 30
	}
	return float64((e.Year()-s.Year())*360 + (int(e.Month())-int(s.Month()))*30 + (d2 - d1))
}

func days30360European(s, e time.Time) float64 {
	d1, d2 := s.Day(), e.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 {
		d2 = 30
	}
	return float64((e.Year()-s.Year())*360 + (int(e.Month())-int(s.Month()))*30 + (d2 - d1))
}

func isWeekendDefault(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

// weekendMask decodes the NETWORKDAYS.INTL/WORKDAY.INTL numeric weekend
// codes (§4.9): 1=Sat/Sun ... 11=Sunday only ... 17=Saturday only.
func weekendMask(code int) (map[time.Weekday]bool, bool) {
	codes := map[int][]time.Weekday{
		1:  {time.Saturday, time.Sunday},
		2:  {time.Sunday, time.Monday},
		3:  {time.Monday, time.Tuesday},
		4:  {time.Tuesday, time.Wednesday},
		5:  {time.Wednesday, time.Thursday},
		6:  {time.Thursday, time.Friday},
		7:  {time.Friday, time.Saturday},
		11: {time.Sunday},
		12: {time.Monday},
		13: {time.Tuesday},
		14: {time.Wednesday},
		15: {time.Thursday},
		16: {time.Friday},
		17: {time.Saturday},
	}
	days, ok := codes[code]
	if !ok {
		return nil, false
	}
	m := map[time.Weekday]bool{}
	for _, d := range days {
		m[d] = true
	}
	return m, true
}

func fnNetworkdays(vals []Value, ctx EvaluationContext) Value {
	return networkdaysImpl(vals, nil)
}

func fnNetworkdaysIntl(vals []Value, ctx EvaluationContext) Value {
	return networkdaysImplIntl(vals)
}

func networkdaysImpl(vals []Value, holidays []time.Time) Value {
	start, ok1 := serialArg(vals[0])
	end, ok2 := serialArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	var hol map[string]bool
	if len(vals) > 2 {
		hol = holidaySet(vals[2])
	}
	return NumberValue(float64(countWorkdays(start, end, isWeekendDefault, hol)))
}

func networkdaysImplIntl(vals []Value) Value {
	start, ok1 := serialArg(vals[0])
	end, ok2 := serialArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	code := 1
	if len(vals) > 2 {
		c, ok := requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
		code = int(c)
	}
	mask, ok := weekendMask(code)
	if !ok {
		return ErrorValue(ErrNum)
	}
	var hol map[string]bool
	if len(vals) > 3 {
		hol = holidaySet(vals[3])
	}
	isWeekend := func(wd time.Weekday) bool { return mask[wd] }
	return NumberValue(float64(countWorkdays(start, end, isWeekend, hol)))
}

func holidaySet(v Value) map[string]bool {
	out := map[string]bool{}
	for _, h := range FlattenValues([]Value{v}) {
		if n, ok := ToNumber(h); ok {
			t := dateFromSerial(n)
			out[t.Format("2006-01-02")] = true
		}
	}
	return out
}

func countWorkdays(start, end float64, isWeekend func(time.Weekday) bool, holidays map[string]bool) int {
	dir := 1
	if start > end {
		start, end = end, start
		dir = -1
	}
	count := 0
	for s := start; s <= end; s++ {
		t := dateFromSerial(s)
		if isWeekend(t.Weekday()) {
			continue
		}
		if holidays != nil && holidays[t.Format("2006-01-02")] {
			continue
		}
		count++
	}
	return count * dir
}

func fnWorkday(vals []Value, ctx EvaluationContext) Value {
	return workdayImpl(vals, isWeekendDefault)
}

func fnWorkdayIntl(vals []Value, ctx EvaluationContext) Value {
	start, ok1 := serialArg(vals[0])
	days, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	code := 1
	if len(vals) > 2 {
		c, ok := requireNumber(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
		code = int(c)
	}
	mask, ok := weekendMask(code)
	if !ok {
		return ErrorValue(ErrNum)
	}
	var hol map[string]bool
	if len(vals) > 3 {
		hol = holidaySet(vals[3])
	}
	isWeekend := func(wd time.Weekday) bool { return mask[wd] }
	return NumberValue(stepWorkday(start, days, isWeekend, hol))
}

func workdayImpl(vals []Value, isWeekend func(time.Weekday) bool) Value {
	start, ok1 := serialArg(vals[0])
	days, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	var hol map[string]bool
	if len(vals) > 2 {
		hol = holidaySet(vals[2])
	}
	return NumberValue(stepWorkday(start, days, isWeekend, hol))
}

func stepWorkday(start, days float64, isWeekend func(time.Weekday) bool, holidays map[string]bool) float64 {
	step := 1.0
	remaining := int(days)
	if remaining < 0 {
		step = -1
		remaining = -remaining
	}
	cur := start
	for remaining > 0 {
		cur += step
		t := dateFromSerial(cur)
		if isWeekend(t.Weekday()) {
			continue
		}
		if holidays != nil && holidays[t.Format("2006-01-02")] {
			continue
		}
		remaining--
	}
	return cur
}

func fnNow(vals []Value, ctx EvaluationContext) Value {
	now := time.Now().UTC()
	serial := serialFromDate(now.Year(), int(now.Month()), now.Day())
	frac := (float64(now.Hour())*3600 + float64(now.Minute())*60 + float64(now.Second())) / 86400
	return NumberValue(serial + frac)
}

func fnToday(vals []Value, ctx EvaluationContext) Value {
	now := time.Now().UTC()
	return NumberValue(serialFromDate(now.Year(), int(now.Month()), now.Day()))
}
