package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnBitwiseOps(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 8.0, evalNum(t, e, w, "BITAND(12,9)"))
	assert.Equal(t, 13.0, evalNum(t, e, w, "BITOR(12,9)"))
	assert.Equal(t, 5.0, evalNum(t, e, w, "BITXOR(12,9)"))
	assert.Equal(t, 16.0, evalNum(t, e, w, "BITLSHIFT(4,2)"))
	assert.Equal(t, 1.0, evalNum(t, e, w, "BITRSHIFT(4,2)"))
}

func TestFnBaseConversionsRoundTrip(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 13.0, evalNum(t, e, w, `BIN2DEC("1101")`))
	assert.Equal(t, "1101", evalText(t, e, w, "DEC2BIN(13)"))
	assert.Equal(t, "D", evalText(t, e, w, "DEC2HEX(13)"))
	assert.Equal(t, 13.0, evalNum(t, e, w, `HEX2DEC("D")`))
	assert.Equal(t, 8.0, evalNum(t, e, w, `OCT2DEC("10")`))
}

func TestFnBasePlacesPadding(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "0D", evalText(t, e, w, "DEC2HEX(13,2)"))
}

func TestFnBaseAndDecimal(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "11", evalText(t, e, w, "BASE(3,2)"))
	assert.Equal(t, 3.0, evalNum(t, e, w, `DECIMAL("11",2)`))
}

func TestFnRomanArabicRoundTrip(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "MCMXCIV", evalText(t, e, w, "ROMAN(1994)"))
	assert.Equal(t, 1994.0, evalNum(t, e, w, `ARABIC("MCMXCIV")`))
}

func TestFnComplexAndImParts(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "3+4i", evalText(t, e, w, "COMPLEX(3,4)"))
	assert.Equal(t, 3.0, evalNum(t, e, w, `IMREAL("3+4i")`))
	assert.Equal(t, 4.0, evalNum(t, e, w, `IMAGINARY("3+4i")`))
	assert.Equal(t, 5.0, evalNum(t, e, w, `IMABS("3+4i")`))
}

func TestFnImSumImProduct(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "4+6i", evalText(t, e, w, `IMSUM("1+2i","3+4i")`))
	assert.Equal(t, "-5+10i", evalText(t, e, w, `IMPRODUCT("1+2i","3+4i")`))
}

func TestFnConvertLengthAndTemp(t *testing.T) {
	e, w := newTestWorkbook()
	assert.InDelta(t, 1000.0, evalNum(t, e, w, `CONVERT(1,"km","m")`), 0.0001)
	assert.InDelta(t, 32.0, evalNum(t, e, w, `CONVERT(0,"C","F")`), 0.0001)
}

func TestFnConvertMismatchedDimensionIsNA(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrNA, evalErr(t, e, w, `CONVERT(1,"km","sec")`))
}
