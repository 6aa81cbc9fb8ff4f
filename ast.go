package formulacore

import (
	"math"
	"strings"
)

// Node is the closed AST sum type (§3): every variant implements
// evaluate, pretty-print, and cell-reference collection.
type Node interface {
	Eval(ctx EvaluationContext) Value
	ToFormulaString() string
	CollectRefs(refs *RefSet)
}

func cancelled(ctx EvaluationContext) (Value, bool) {
	if ctx.IsCancelled() {
		return ErrorValue(ErrCalc), true
	}
	return Value{}, false
}

// NumberNode is a numeric literal.
type NumberNode struct{ Value float64 }

func (n *NumberNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return NumberValue(n.Value)
}
func (n *NumberNode) ToFormulaString() string  { return FormatNumber(n.Value) }
func (n *NumberNode) CollectRefs(_ *RefSet)    {}

// TextNode is a string literal (double-quote delimited in source).
type TextNode struct{ Value string }

func (n *TextNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return TextValue(n.Value)
}
func (n *TextNode) ToFormulaString() string {
	return `"` + strings.ReplaceAll(n.Value, `"`, `""`) + `"`
}
func (n *TextNode) CollectRefs(_ *RefSet) {}

// BooleanNode is a TRUE/FALSE literal.
type BooleanNode struct{ Value bool }

func (n *BooleanNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return BoolValue(n.Value)
}
func (n *BooleanNode) ToFormulaString() string {
	if n.Value {
		return "TRUE"
	}
	return "FALSE"
}
func (n *BooleanNode) CollectRefs(_ *RefSet) {}

// ErrorLiteralNode is a literal such as #REF!.
type ErrorLiteralNode struct{ Kind ErrorKind }

func (n *ErrorLiteralNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return ErrorValue(n.Kind)
}
func (n *ErrorLiteralNode) ToFormulaString() string { return n.Kind.Surface() }
func (n *ErrorLiteralNode) CollectRefs(_ *RefSet)   {}

// CellRefNode reads one cell.
type CellRefNode struct{ Addr CellAddress }

func (n *CellRefNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return ctx.GetCellValue(n.Addr)
}
func (n *CellRefNode) ToFormulaString() string { return FormatCellAddress(n.Addr) }
func (n *CellRefNode) CollectRefs(refs *RefSet) { refs.AddCell(n.Addr) }

// RangeRefNode reads a 2-D region.
type RangeRefNode struct{ Addr RangeAddress }

func (n *RangeRefNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return ctx.GetRangeValues(n.Addr)
}
func (n *RangeRefNode) ToFormulaString() string { return FormatRangeAddress(n.Addr) }
func (n *RangeRefNode) CollectRefs(refs *RefSet) { refs.AddRange(n.Addr) }

// NameNode resolves an identifier through the lexical scope chain.
type NameNode struct{ Ident string }

func (n *NameNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	v, ok := ctx.GetVariable(n.Ident)
	if !ok {
		return ErrorValue(ErrName)
	}
	return v
}
func (n *NameNode) ToFormulaString() string { return n.Ident }
func (n *NameNode) CollectRefs(_ *RefSet)   {}

// ParenNode preserves explicit grouping for round-trip pretty-print.
type ParenNode struct{ Inner Node }

func (n *ParenNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	return n.Inner.Eval(ctx)
}
func (n *ParenNode) ToFormulaString() string   { return "(" + n.Inner.ToFormulaString() + ")" }
func (n *ParenNode) CollectRefs(refs *RefSet) { n.Inner.CollectRefs(refs) }

// BinOp is the fixed set of binary operators (§4.2/§4.3).
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpConcat
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

type opInfo struct {
	symbol     string
	precedence int
}

var binOpInfo = map[BinOp]opInfo{
	OpEq:     {"=", 1},
	OpNe:     {"<>", 1},
	OpLt:     {"<", 1},
	OpGt:     {">", 1},
	OpLe:     {"<=", 1},
	OpGe:     {">=", 1},
	OpConcat: {"&", 2},
	OpAdd:    {"+", 3},
	OpSub:    {"-", 3},
	OpMul:    {"*", 4},
	OpDiv:    {"/", 4},
	OpPow:    {"^", 5},
}

// Symbol and Precedence expose operator metadata for pretty-printing and
// round-trip parsing (§4.3).
func (o BinOp) Symbol() string     { return binOpInfo[o].symbol }
func (o BinOp) Precedence() int    { return binOpInfo[o].precedence }

// BinaryOpNode evaluates both sides eagerly, then delegates to the
// operator. Errors short-circuit via the operator's own left-then-right
// rule (§4.3/§7) — both sides are still evaluated (no operand is skipped)
// since + - * / = etc. never decide whether to evaluate their operands.
type BinaryOpNode struct {
	Op          BinOp
	Left, Right Node
}

func (n *BinaryOpNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	l := n.Left.Eval(ctx)
	r := n.Right.Eval(ctx)
	return ApplyBinary(n.Op, l, r)
}

func (n *BinaryOpNode) ToFormulaString() string {
	return n.Left.ToFormulaString() + n.Op.Symbol() + n.Right.ToFormulaString()
}

func (n *BinaryOpNode) CollectRefs(refs *RefSet) {
	n.Left.CollectRefs(refs)
	n.Right.CollectRefs(refs)
}

// ApplyBinary implements §4.3's apply(left,right) contract.
func ApplyBinary(op BinOp, l, r Value) Value {
	if l.Kind == KindError {
		return l
	}
	if r.Kind == KindError {
		return r
	}
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		ln, lok := ToNumber(l)
		rn, rok := ToNumber(r)
		if !lok || !rok {
			return ErrorValue(ErrValue)
		}
		switch op {
		case OpAdd:
			return NumberValue(ln + rn)
		case OpSub:
			return NumberValue(ln - rn)
		case OpMul:
			return NumberValue(ln * rn)
		case OpDiv:
			if rn == 0 {
				return ErrorValue(ErrDivZero)
			}
			return NumberValue(ln / rn)
		case OpPow:
			return NumberValue(powFloat(ln, rn))
		}
	case OpConcat:
		ls, lok := ToText(l)
		rs, rok := ToText(r)
		if !lok || !rok {
			return ErrorValue(ErrValue)
		}
		return TextValue(ls + rs)
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		cmp, ok := Compare(l, r)
		if !ok {
			return ErrorValue(ErrValue)
		}
		switch op {
		case OpEq:
			return BoolValue(cmp == 0)
		case OpNe:
			return BoolValue(cmp != 0)
		case OpLt:
			return BoolValue(cmp < 0)
		case OpGt:
			return BoolValue(cmp > 0)
		case OpLe:
			return BoolValue(cmp <= 0)
		case OpGe:
			return BoolValue(cmp >= 0)
		}
	}
	return ErrorValue(ErrValue)
}

// UnOp is the fixed set of unary operators (§3/§4.2).
type UnOp uint8

const (
	OpNegate UnOp = iota
	OpPositive
	OpPercent
)

// UnaryOpNode evaluates the operand then applies.
type UnaryOpNode struct {
	Op      UnOp
	Operand Node
}

func (n *UnaryOpNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	v := n.Operand.Eval(ctx)
	if v.Kind == KindError {
		return v
	}
	num, ok := ToNumber(v)
	if !ok {
		return ErrorValue(ErrValue)
	}
	switch n.Op {
	case OpNegate:
		return NumberValue(-num)
	case OpPositive:
		return NumberValue(num)
	case OpPercent:
		return NumberValue(num / 100)
	}
	return ErrorValue(ErrValue)
}

func (n *UnaryOpNode) ToFormulaString() string {
	switch n.Op {
	case OpNegate:
		return "-" + n.Operand.ToFormulaString()
	case OpPositive:
		return "+" + n.Operand.ToFormulaString()
	case OpPercent:
		return n.Operand.ToFormulaString() + "%"
	}
	return n.Operand.ToFormulaString()
}
func (n *UnaryOpNode) CollectRefs(refs *RefSet) { n.Operand.CollectRefs(refs) }

// FunctionCallNode dispatches via the registry with lazy (unevaluated)
// arguments (§4.4/§9), enabling IF/IFERROR/AND/OR/LAMBDA control flow.
type FunctionCallNode struct {
	Name string // uppercase, canonical
	Args []Node
}

func (n *FunctionCallNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	fn, ok := ctx.GetFunction(n.Name)
	if !ok {
		return ErrorValue(ErrName)
	}
	return fn.Call(n.Args, ctx)
}

func (n *FunctionCallNode) ToFormulaString() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToFormulaString()
	}
	return n.Name + "(" + strings.Join(parts, ",") + ")"
}

func (n *FunctionCallNode) CollectRefs(refs *RefSet) {
	for _, a := range n.Args {
		a.CollectRefs(refs)
	}
}

// CallExpressionNode invokes a first-class function value (§4.2/§4.4):
// any primary followed by "(args)" — the path LAMBDA(x,x+1)(5) and
// curried f(a)(b) take.
type CallExpressionNode struct {
	Callee Node
	Args   []Node
}

func (n *CallExpressionNode) Eval(ctx EvaluationContext) Value {
	if v, stop := cancelled(ctx); stop {
		return v
	}
	callee := n.Callee.Eval(ctx)
	if callee.Kind == KindError {
		return callee
	}
	if callee.Kind != KindFunction {
		return ErrorValue(ErrValue)
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v := a.Eval(ctx)
		if v.Kind == KindError {
			return v
		}
		args[i] = v
	}
	return callee.Function.Invoke(args, ctx)
}

func (n *CallExpressionNode) ToFormulaString() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToFormulaString()
	}
	return n.Callee.ToFormulaString() + "(" + strings.Join(parts, ",") + ")"
}

func (n *CallExpressionNode) CollectRefs(refs *RefSet) {
	n.Callee.CollectRefs(refs)
	for _, a := range n.Args {
		a.CollectRefs(refs)
	}
}

func powFloat(base, exp float64) float64 {
	return math.Pow(base, exp)
}
