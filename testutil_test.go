package formulacore

import "testing"

// newTestWorkbook builds an engine and a workbook holding one empty sheet,
// Sheet1, used across the function-family tests; each test sets its own
// supporting cells with SetCell.
func newTestWorkbook() (*Engine, *MemoryWorkbook) {
	e := NewEngine()
	w := NewMemoryWorkbook()
	w.AddSheet("Sheet1")
	return e, w
}

// mustEval parses and evaluates source against ctx, failing the test on a
// parse error (most table-driven cases only care about the evaluated Value).
func mustEval(t *testing.T, e *Engine, ctx EvaluationContext, source string) Value {
	t.Helper()
	ast, perr := e.Parse(source)
	if perr != nil {
		t.Fatalf("parse %q: %v", source, perr)
	}
	return e.Evaluate(ast, ctx)
}

func evalNum(t *testing.T, e *Engine, ctx EvaluationContext, source string) float64 {
	t.Helper()
	v := mustEval(t, e, ctx, source)
	if v.Kind != KindNumber {
		t.Fatalf("%q: expected Number, got %s (%+v)", source, v.Kind, v)
	}
	return v.Number
}

func evalText(t *testing.T, e *Engine, ctx EvaluationContext, source string) string {
	t.Helper()
	v := mustEval(t, e, ctx, source)
	if v.Kind != KindText {
		t.Fatalf("%q: expected Text, got %s (%+v)", source, v.Kind, v)
	}
	return v.Text
}

func evalBool(t *testing.T, e *Engine, ctx EvaluationContext, source string) bool {
	t.Helper()
	v := mustEval(t, e, ctx, source)
	if v.Kind != KindBoolean {
		t.Fatalf("%q: expected Boolean, got %s (%+v)", source, v.Kind, v)
	}
	return v.Boolean
}

func evalErr(t *testing.T, e *Engine, ctx EvaluationContext, source string) ErrorKind {
	t.Helper()
	v := mustEval(t, e, ctx, source)
	if v.Kind != KindError {
		t.Fatalf("%q: expected Error, got %s (%+v)", source, v.Kind, v)
	}
	return v.Error
}
