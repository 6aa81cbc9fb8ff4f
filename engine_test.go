package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineIsValidFormula(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.IsValidFormula("SUM(A1:A10)"))
	assert.False(t, e.IsValidFormula("SUM(A1"))
}

func TestEngineTryParse(t *testing.T) {
	e := NewEngine()
	assert.NotNil(t, e.TryParse("1+1"))
	assert.Nil(t, e.TryParse("1+"))
}

func TestEngineEvaluateStringParseFailureSurfacesAsError(t *testing.T) {
	e := NewEngine()
	w := NewMemoryWorkbook()
	v := e.EvaluateString("1+", w)
	require.Equal(t, KindError, v.Kind)
	assert.Equal(t, ErrValue, v.Error)
}

func TestEngineEvaluateStringHappyPath(t *testing.T) {
	e, w := newTestWorkbook()
	w.SetCell("Sheet1", 1, 1, NumberValue(10))
	v := e.EvaluateString("A1*2", w)
	assert.Equal(t, NumberValue(20), v)
}

func TestEngineWithoutBuiltinsHasNoFunctions(t *testing.T) {
	e := NewEngineWithoutBuiltins()
	w := NewMemoryWorkbook()
	v := e.EvaluateString("SUM(1,2)", w)
	require.Equal(t, KindError, v.Kind)
	assert.Equal(t, ErrName, v.Error)
}

func TestEngineHostFunctionsShadowBuiltins(t *testing.T) {
	e := NewEngine()
	w := NewMemoryWorkbook()
	w.RegisterFunction(eagerFn("SUM", 0, -1, func(vals []Value, ctx EvaluationContext) Value {
		return NumberValue(999)
	}))
	v := e.EvaluateString("SUM(1,2)", w)
	assert.Equal(t, NumberValue(999), v)
}

func TestEngineRegisterFunctionAddsToRegistry(t *testing.T) {
	e := NewEngine()
	e.RegisterFunction(eagerFn("TRIPLE", 1, 1, func(vals []Value, ctx EvaluationContext) Value {
		n, _ := ToNumber(vals[0])
		return NumberValue(n * 3)
	}))
	w := NewMemoryWorkbook()
	v := e.EvaluateString("TRIPLE(4)", w)
	assert.Equal(t, NumberValue(12), v)
}

func TestEngineClearCache(t *testing.T) {
	e := NewEngine()
	a, _ := e.Parse("1+1")
	e.ClearCache()
	b, _ := e.Parse("1+1")
	assert.NotSame(t, a, b)
}

func TestEngineGetCellReferences(t *testing.T) {
	e := NewEngine()
	refs, err := e.GetCellReferences("A1+SUM(B1:B2)")
	require.Nil(t, err)
	assert.Len(t, refs, 3)
}

func TestEngineFunctionsExposesRegistry(t *testing.T) {
	e := NewEngine()
	assert.True(t, e.Functions().Has("SUM"))
}
