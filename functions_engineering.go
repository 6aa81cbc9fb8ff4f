package formulacore

import (
	"math"
	"strconv"
	"strings"
)

var engineeringFunctions = []Function{
	eagerFn("BITAND", 2, 2, fnBitAnd),
	eagerFn("BITOR", 2, 2, fnBitOr),
	eagerFn("BITXOR", 2, 2, fnBitXor),
	eagerFn("BITLSHIFT", 2, 2, fnBitLshift),
	eagerFn("BITRSHIFT", 2, 2, fnBitRshift),
	eagerFn("BIN2DEC", 1, 1, fnBin2Dec),
	eagerFn("BIN2HEX", 1, 2, fnBin2Hex),
	eagerFn("BIN2OCT", 1, 2, fnBin2Oct),
	eagerFn("DEC2BIN", 1, 2, fnDec2Bin),
	eagerFn("DEC2HEX", 1, 2, fnDec2Hex),
	eagerFn("DEC2OCT", 1, 2, fnDec2Oct),
	eagerFn("HEX2DEC", 1, 1, fnHex2Dec),
	eagerFn("HEX2BIN", 1, 2, fnHex2Bin),
	eagerFn("HEX2OCT", 1, 2, fnHex2Oct),
	eagerFn("OCT2DEC", 1, 1, fnOct2Dec),
	eagerFn("OCT2BIN", 1, 2, fnOct2Bin),
	eagerFn("OCT2HEX", 1, 2, fnOct2Hex),
	eagerFn("BASE", 2, 3, fnBase),
	eagerFn("DECIMAL", 2, 2, fnDecimal),
	eagerFn("ROMAN", 1, 2, fnRoman),
	eagerFn("ARABIC", 1, 1, fnArabic),
	eagerFn("COMPLEX", 2, 3, fnComplex),
	eagerFn("IMREAL", 1, 1, fnImReal),
	eagerFn("IMAGINARY", 1, 1, fnImAginary),
	eagerFn("IMABS", 1, 1, fnImAbs),
	eagerFn("IMSUM", 1, -1, fnImSum),
	eagerFn("IMPRODUCT", 1, -1, fnImProduct),
	eagerFn("CONVERT", 3, 3, fnConvert),
}

func bitArg(v Value) (int64, bool) {
	n, ok := requireNumber(v)
	if !ok || n < 0 || n >= (1<<48) {
		return 0, false
	}
	return int64(n), true
}

func fnBitAnd(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := bitArg(vals[0])
	b, ok2 := bitArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(a & b))
}

func fnBitOr(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := bitArg(vals[0])
	b, ok2 := bitArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(a | b))
}

func fnBitXor(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := bitArg(vals[0])
	b, ok2 := bitArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(a ^ b))
}

func fnBitLshift(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := bitArg(vals[0])
	shift, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	if shift < 0 {
		return NumberValue(float64(a >> uint(-shift)))
	}
	return NumberValue(float64(a << uint(shift)))
}

func fnBitRshift(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := bitArg(vals[0])
	shift, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrNum)
	}
	if shift < 0 {
		return NumberValue(float64(a << uint(-shift)))
	}
	return NumberValue(float64(a >> uint(shift)))
}

func parseInBase(s string, base int) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), base, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatInBase(n int64, base int, places Value, hasPlaces bool) (string, bool) {
	s := strconv.FormatInt(n, base)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	s = strings.ToUpper(s)
	if hasPlaces {
		p, ok := requireNumber(places)
		if !ok {
			return "", false
		}
		for len(s) < int(p) {
			s = "0" + s
		}
	}
	if neg {
		return "-" + s, true
	}
	return s, true
}

func fnBin2Dec(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n, ok := parseInBase(s, 2)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(n))
}

func fnBin2Hex(vals []Value, ctx EvaluationContext) Value {
	return convertRadix(vals, 2, 16)
}

func fnBin2Oct(vals []Value, ctx EvaluationContext) Value {
	return convertRadix(vals, 2, 8)
}

func fnDec2Bin(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	var hasPlaces bool
	var places Value
	if len(vals) > 1 {
		hasPlaces, places = true, vals[1]
	}
	s, ok := formatInBase(int64(n), 2, places, hasPlaces)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return TextValue(s)
}

func fnDec2Hex(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	var hasPlaces bool
	var places Value
	if len(vals) > 1 {
		hasPlaces, places = true, vals[1]
	}
	s, ok := formatInBase(int64(n), 16, places, hasPlaces)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return TextValue(s)
}

func fnDec2Oct(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	var hasPlaces bool
	var places Value
	if len(vals) > 1 {
		hasPlaces, places = true, vals[1]
	}
	s, ok := formatInBase(int64(n), 8, places, hasPlaces)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return TextValue(s)
}

func fnHex2Dec(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n, ok := parseInBase(s, 16)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(n))
}

func fnHex2Bin(vals []Value, ctx EvaluationContext) Value { return convertRadix(vals, 16, 2) }
func fnHex2Oct(vals []Value, ctx EvaluationContext) Value { return convertRadix(vals, 16, 8) }
func fnOct2Dec(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n, ok := parseInBase(s, 8)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(n))
}
func fnOct2Bin(vals []Value, ctx EvaluationContext) Value { return convertRadix(vals, 8, 2) }
func fnOct2Hex(vals []Value, ctx EvaluationContext) Value { return convertRadix(vals, 8, 16) }

func convertRadix(vals []Value, from, to int) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n, ok := parseInBase(s, from)
	if !ok {
		return ErrorValue(ErrNum)
	}
	var hasPlaces bool
	var places Value
	if len(vals) > 1 {
		hasPlaces, places = true, vals[1]
	}
	out, ok := formatInBase(n, to, places, hasPlaces)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return TextValue(out)
}

func fnBase(vals []Value, ctx EvaluationContext) Value {
	n, ok1 := requireNumber(vals[0])
	base, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || base < 2 || base > 36 {
		return ErrorValue(ErrNum)
	}
	var hasPlaces bool
	var places Value
	if len(vals) > 2 {
		hasPlaces, places = true, vals[2]
	}
	s, ok := formatInBase(int64(n), int(base), places, hasPlaces)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return TextValue(s)
}

func fnDecimal(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := requireText(vals[0])
	base, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || base < 2 || base > 36 {
		return ErrorValue(ErrNum)
	}
	n, ok := parseInBase(s, int(base))
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(float64(n))
}

var romanValues = []struct {
	val    int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"}, {100, "C"}, {90, "XC"},
	{50, "L"}, {40, "XL"}, {10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func fnRoman(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok || n < 0 || n > 3999 {
		return ErrorValue(ErrValue)
	}
	i := int(n)
	var sb strings.Builder
	for _, rv := range romanValues {
		for i >= rv.val {
			sb.WriteString(rv.symbol)
			i -= rv.val
		}
	}
	return TextValue(sb.String())
}

func fnArabic(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := values[s[i]]
		if !ok {
			return ErrorValue(ErrValue)
		}
		if i+1 < len(s) {
			if next, ok := values[s[i+1]]; ok && next > v {
				total -= v
				continue
			}
		}
		total += v
	}
	return NumberValue(float64(total))
}

// Complex numbers are modeled as "a+bi" text per the spreadsheet surface
// (§4.9), not as a distinct Value kind — consistent with Value staying
// the closed §3 tagged union.
func fnComplex(vals []Value, ctx EvaluationContext) Value {
	re, ok1 := requireNumber(vals[0])
	im, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	suffix := "i"
	if len(vals) > 2 {
		s, ok := requireText(vals[2])
		if !ok || (s != "i" && s != "j") {
			return ErrorValue(ErrValue)
		}
		suffix = s
	}
	return TextValue(formatComplex(re, im, suffix))
}

func formatComplex(re, im float64, suffix string) string {
	if im == 0 {
		return FormatNumber(re)
	}
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	imPart := suffix
	if im != 1 {
		imPart = FormatNumber(im) + suffix
	}
	if re == 0 {
		if sign == "-" {
			return "-" + imPart
		}
		return imPart
	}
	return FormatNumber(re) + sign + imPart
}

func parseComplex(s string) (re, im float64, ok bool) {
	s = strings.TrimSpace(s)
	suffix := ""
	if strings.HasSuffix(s, "i") {
		suffix = "i"
	} else if strings.HasSuffix(s, "j") {
		suffix = "j"
	}
	if suffix == "" {
		n, ok := parseNumberText(s)
		return n, 0, ok
	}
	body := s[:len(s)-1]
	splitAt := -1
	for i := len(body) - 1; i > 0; i-- {
		if (body[i] == '+' || body[i] == '-') && body[i-1] != 'e' && body[i-1] != 'E' {
			splitAt = i
			break
		}
	}
	if splitAt < 0 {
		im := 1.0
		if body == "-" {
			im = -1
		} else if body != "" {
			n, ok := parseNumberText(body)
			if !ok {
				return 0, 0, false
			}
			im = n
		}
		return 0, im, true
	}
	rePart := body[:splitAt]
	imPart := body[splitAt:]
	reN, ok1 := parseNumberText(rePart)
	var imN float64
	var ok2 bool
	switch imPart {
	case "+":
		imN, ok2 = 1, true
	case "-":
		imN, ok2 = -1, true
	default:
		imN, ok2 = parseNumberText(imPart)
	}
	return reN, imN, ok1 && ok2
}

func fnImReal(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	re, _, ok := parseComplex(s)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(re)
}

func fnImAginary(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	_, im, ok := parseComplex(s)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(im)
}

func fnImAbs(vals []Value, ctx EvaluationContext) Value {
	s, ok := requireText(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	re, im, ok := parseComplex(s)
	if !ok {
		return ErrorValue(ErrNum)
	}
	return NumberValue(math.Hypot(re, im))
}

func fnImSum(vals []Value, ctx EvaluationContext) Value {
	var re, im float64
	for _, v := range FlattenValues(vals) {
		s, ok := requireText(v)
		if !ok {
			return ErrorValue(ErrValue)
		}
		r, i, ok := parseComplex(s)
		if !ok {
			return ErrorValue(ErrNum)
		}
		re += r
		im += i
	}
	return TextValue(formatComplex(re, im, "i"))
}

func fnImProduct(vals []Value, ctx EvaluationContext) Value {
	re, im := 1.0, 0.0
	for _, v := range FlattenValues(vals) {
		s, ok := requireText(v)
		if !ok {
			return ErrorValue(ErrValue)
		}
		r, i, ok := parseComplex(s)
		if !ok {
			return ErrorValue(ErrNum)
		}
		re, im = re*r-im*i, re*i+im*r
	}
	return TextValue(formatComplex(re, im, "i"))
}

// convertFactors holds a representative subset of CONVERT's unit table
// (§4.9 supplemental), all expressed relative to a base SI unit per
// dimension.
var convertFactors = map[string]float64{
	"g": 1, "kg": 1000, "mg": 0.001, "lbm": 453.59237, "ozm": 28.349523125,
	"m": 1, "km": 1000, "cm": 0.01, "mm": 0.001, "mi": 1609.344, "yd": 0.9144, "ft": 0.3048, "in": 0.0254,
	"sec": 1, "min": 60, "hr": 3600, "day": 86400,
	"C": 1, "F": 1, "K": 1, // temperature handled specially
	"l": 1, "lt": 1, "gal": 3.785411784, "qt": 0.946352946,
}

var convertDimension = map[string]string{
	"g": "mass", "kg": "mass", "mg": "mass", "lbm": "mass", "ozm": "mass",
	"m": "length", "km": "length", "cm": "length", "mm": "length", "mi": "length", "yd": "length", "ft": "length", "in": "length",
	"sec": "time", "min": "time", "hr": "time", "day": "time",
	"C": "temp", "F": "temp", "K": "temp",
	"l": "volume", "lt": "volume", "gal": "volume", "qt": "volume",
}

func fnConvert(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	from, ok1 := requireText(vals[1])
	to, ok2 := requireText(vals[2])
	if !ok || !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	dimFrom, found1 := convertDimension[from]
	dimTo, found2 := convertDimension[to]
	if !found1 || !found2 || dimFrom != dimTo {
		return ErrorValue(ErrNA)
	}
	if dimFrom == "temp" {
		return NumberValue(convertTemperature(n, from, to))
	}
	return NumberValue(n * convertFactors[from] / convertFactors[to])
}

func convertTemperature(n float64, from, to string) float64 {
	var celsius float64
	switch from {
	case "C":
		celsius = n
	case "F":
		celsius = (n - 32) * 5 / 9
	case "K":
		celsius = n - 273.15
	}
	switch to {
	case "C":
		return celsius
	case "F":
		return celsius*9/5 + 32
	case "K":
		return celsius + 273.15
	}
	return 0
}
