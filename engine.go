package formulacore

// Engine is the thin façade described in §4.10: parse / try_parse /
// is_valid_formula / evaluate / evaluate_string / get_cell_references /
// register_function / clear_cache / functions.
type Engine struct {
	registry *FunctionRegistry
	cache    *ParseCache
}

// NewEngine builds an engine with the full built-in catalogue registered
// and a default-sized parse cache.
func NewEngine() *Engine {
	return &Engine{
		registry: NewFunctionRegistry(true),
		cache:    NewParseCache(defaultParseCacheSize),
	}
}

// NewEngineWithoutBuiltins builds an engine with an empty function
// registry — used by tests exercising the core in isolation (§4.5).
func NewEngineWithoutBuiltins() *Engine {
	return &Engine{
		registry: NewFunctionRegistry(false),
		cache:    NewParseCache(defaultParseCacheSize),
	}
}

// Parse parses source (through the cache) or returns a FormulaParseError.
func (e *Engine) Parse(source string) (Node, *FormulaParseError) {
	return e.cache.Parse(source)
}

// TryParse returns nil instead of an error on failure.
func (e *Engine) TryParse(source string) Node {
	node, err := e.Parse(source)
	if err != nil {
		return nil
	}
	return node
}

// IsValidFormula reports whether source parses, without returning the AST.
func (e *Engine) IsValidFormula(source string) bool {
	_, err := e.Parse(source)
	return err == nil
}

// engineEvalContext wraps a host EvaluationContext so the evaluator
// resolves functions through this engine's registry, letting hosts supply
// a context implementation that only handles cells/variables.
type engineEvalContext struct {
	EvaluationContext
	registry *FunctionRegistry
}

func (c *engineEvalContext) GetFunction(name string) (Function, bool) {
	if f, ok := c.EvaluationContext.GetFunction(name); ok {
		return f, ok
	}
	return c.registry.Get(name)
}

func (e *Engine) withRegistry(ctx EvaluationContext) EvaluationContext {
	return &engineEvalContext{EvaluationContext: ctx, registry: e.registry}
}

// Evaluate evaluates an already-parsed AST against context.
func (e *Engine) Evaluate(ast Node, ctx EvaluationContext) Value {
	return ast.Eval(e.withRegistry(ctx))
}

// EvaluateString parses then evaluates; a parse failure surfaces as
// Error(Value) rather than panicking (§4.10 permits either).
func (e *Engine) EvaluateString(source string, ctx EvaluationContext) Value {
	ast, err := e.Parse(source)
	if err != nil {
		return ErrorValue(ErrValue)
	}
	return e.Evaluate(ast, ctx)
}

// GetCellReferences parses source and returns the union of cells named or
// covered by ranges in the AST (§4.10/§8).
func (e *Engine) GetCellReferences(source string) ([]CellAddress, *FormulaParseError) {
	ast, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	refs := &RefSet{}
	ast.CollectRefs(refs)
	return refs.ExpandedCells(), nil
}

// RegisterFunction adds or replaces a function in the engine's registry.
func (e *Engine) RegisterFunction(f Function) {
	e.registry.Register(f)
}

// ClearCache empties the parse cache (§4.9).
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Functions exposes read access to the function registry.
func (e *Engine) Functions() *FunctionRegistry {
	return e.registry
}
