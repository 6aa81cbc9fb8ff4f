package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnLambdaImmediateInvocation(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 6.0, evalNum(t, e, w, "LAMBDA(x,x+1)(5)"))
}

func TestFnLetSequentialBinding(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, 15.0, evalNum(t, e, w, "LET(a,5,b,a*2,a+b)"))
}

func TestFnMapElementwise(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	v := mustEval(t, e, w, "MAP(A1:A2,LAMBDA(x,x*10))")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 10.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 20.0, v.Range.At(1, 0).Number)
}

func TestFnReduce(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	assert.Equal(t, 6.0, evalNum(t, e, w, "REDUCE(0,A1:A3,LAMBDA(acc,v,acc+v))"))
}

func TestFnScanReturnsRunningTotals(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 1, 2, NumberValue(2))
	w.SetCell("Sheet1", 1, 3, NumberValue(3))
	v := mustEval(t, e, w, "SCAN(0,A1:A3,LAMBDA(acc,v,acc+v))")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, []float64{1, 3, 6}, []float64{
		v.Range.At(0, 0).Number, v.Range.At(1, 0).Number, v.Range.At(2, 0).Number,
	})
}

func TestFnMakeArray(t *testing.T) {
	e, w := newTestWorkbook()
	v := mustEval(t, e, w, "MAKEARRAY(2,2,LAMBDA(r,c,r*10+c))")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 11.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 22.0, v.Range.At(1, 1).Number)
}

func TestFnByRowByCol(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(1))
	w.SetCell("Sheet1", 2, 1, NumberValue(2))
	w.SetCell("Sheet1", 1, 2, NumberValue(3))
	w.SetCell("Sheet1", 2, 2, NumberValue(4))
	v := mustEval(t, e, w, "BYROW(A1:B2,LAMBDA(row,SUM(row)))")
	require.Equal(t, KindRange, v.Kind)
	assert.Equal(t, 3.0, v.Range.At(0, 0).Number)
	assert.Equal(t, 7.0, v.Range.At(1, 0).Number)
}

func TestFnIsOmitted(t *testing.T) {
	e, w := newTestWorkbook()
	assert.True(t, evalBool(t, e, w, "LAMBDA(x,ISOMITTED(x))()"))
	assert.False(t, evalBool(t, e, w, "LAMBDA(x,ISOMITTED(x))(1)"))
}
