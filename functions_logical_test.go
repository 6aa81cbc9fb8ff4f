package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnIfBranches(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "yes", evalText(t, e, w, `IF(1=1,"yes","no")`))
	assert.Equal(t, "no", evalText(t, e, w, `IF(1=2,"yes","no")`))
	assert.Equal(t, false, evalBool(t, e, w, "IF(FALSE,1)"))
}

func TestFnAndOr(t *testing.T) {
	e, w := newTestWorkbook()
	assert.True(t, evalBool(t, e, w, "AND(TRUE,1,2)"))
	assert.False(t, evalBool(t, e, w, "AND(TRUE,FALSE)"))
	assert.True(t, evalBool(t, e, w, "OR(FALSE,0,1)"))
}

func TestFnXor(t *testing.T) {
	e, w := newTestWorkbook()
	assert.True(t, evalBool(t, e, w, "XOR(TRUE,FALSE)"))
	assert.False(t, evalBool(t, e, w, "XOR(TRUE,TRUE)"))
}

func TestFnNot(t *testing.T) {
	e, w := newTestWorkbook()
	assert.False(t, evalBool(t, e, w, "NOT(TRUE)"))
}

func TestFnIfErrorSuppressesError(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 0.0, evalNum(t, e, w, "IFERROR(1/0,0)"))
	assert.Equal(t, 5.0, evalNum(t, e, w, "IFERROR(5,0)"))
}

func TestFnIfNaOnlyCatchesNA(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrDivZero, evalErr(t, e, w, "IFNA(1/0,0)"))
	assert.Equal(t, 0.0, evalNum(t, e, w, `IFNA(#N/A,0)`))
}

func TestFnIfShortCircuitsBranches(t *testing.T) {
	e, w := newTestWorkbook()
	// the untaken branch must never be evaluated, so its #DIV/0! never
	// surfaces — this is the behavior lazy-argument dispatch exists for.
	v := mustEval(t, e, w, "IF(TRUE,1,1/0)")
	assert.Equal(t, NumberValue(1), v)
}
