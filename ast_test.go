package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBinaryArithmetic(t *testing.T) {
	assert.Equal(t, NumberValue(3), ApplyBinary(OpAdd, NumberValue(1), NumberValue(2)))
	assert.Equal(t, NumberValue(-1), ApplyBinary(OpSub, NumberValue(1), NumberValue(2)))
	assert.Equal(t, NumberValue(8), ApplyBinary(OpPow, NumberValue(2), NumberValue(3)))
}

func TestApplyBinaryDivByZero(t *testing.T) {
	v := ApplyBinary(OpDiv, NumberValue(1), NumberValue(0))
	require.Equal(t, KindError, v.Kind)
	assert.Equal(t, ErrDivZero, v.Error)
}

func TestApplyBinaryErrorPropagationLeftFirst(t *testing.T) {
	v := ApplyBinary(OpAdd, ErrorValue(ErrRef), ErrorValue(ErrNum))
	assert.Equal(t, ErrRef, v.Error)
}

func TestApplyBinaryErrorPropagationRight(t *testing.T) {
	v := ApplyBinary(OpAdd, NumberValue(1), ErrorValue(ErrNum))
	assert.Equal(t, ErrNum, v.Error)
}

func TestApplyBinaryConcat(t *testing.T) {
	v := ApplyBinary(OpConcat, TextValue("a"), TextValue("b"))
	assert.Equal(t, TextValue("ab"), v)
}

func TestApplyBinaryComparison(t *testing.T) {
	assert.Equal(t, BoolValue(true), ApplyBinary(OpLt, NumberValue(1), NumberValue(2)))
	assert.Equal(t, BoolValue(false), ApplyBinary(OpGt, NumberValue(1), NumberValue(2)))
	assert.Equal(t, BoolValue(true), ApplyBinary(OpEq, TextValue("a"), TextValue("A")))
}

func TestEvalCancellation(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(5))
	w.SetCancelled(true)
	v := mustEval(t, e, w, "A1+1")
	require.Equal(t, KindError, v.Kind)
	assert.Equal(t, ErrCalc, v.Error)
}

func TestEvalEmptyCellIsZero(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, true, evalBool(t, e, w, "A1=0"))
}

func TestEvalUnknownFunctionIsNameError(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrName, evalErr(t, e, w, "BOGUSFUNC(1)"))
}

func TestEvalUnknownNameIsNameError(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrName, evalErr(t, e, w, "someUndefinedName"))
}

func TestCollectRefsExpandsRanges(t *testing.T) {
	e, _ := newTestWorkbook()
	refs, perr := e.GetCellReferences("SUM(A1:B2)+C3")
	require.Nil(t, perr)
	assert.Len(t, refs, 5)
}

func TestToFormulaStringBinary(t *testing.T) {
	node := &BinaryOpNode{Op: OpAdd, Left: &NumberNode{Value: 1}, Right: &NumberNode{Value: 2}}
	assert.Equal(t, "1+2", node.ToFormulaString())
}
