package formulacore

import "fmt"

// ErrorKind is the fixed spreadsheet error taxonomy. Every in-formula
// error value carries one of these; the set is closed.
type ErrorKind uint8

const (
	ErrRef ErrorKind = iota
	ErrDivZero
	ErrValue
	ErrNum
	ErrNA
	ErrName
	ErrNull
	ErrCalc
)

var errorSurfaces = map[ErrorKind]string{
	ErrRef:     "#REF!",
	ErrDivZero: "#DIV/0!",
	ErrValue:   "#VALUE!",
	ErrNum:     "#NUM!",
	ErrNA:      "#N/A",
	ErrName:    "#NAME?",
	ErrNull:    "#NULL!",
	ErrCalc:    "#CALC!",
}

var surfaceToError = map[string]ErrorKind{
	"#REF!":    ErrRef,
	"#DIV/0!":  ErrDivZero,
	"#VALUE!":  ErrValue,
	"#NUM!":    ErrNum,
	"#N/A":     ErrNA,
	"#NAME?":   ErrName,
	"#NULL!":   ErrNull,
	"#CALC!":   ErrCalc,
}

// Surface returns the exact spreadsheet spelling, e.g. "#DIV/0!".
func (e ErrorKind) Surface() string {
	if s, ok := errorSurfaces[e]; ok {
		return s
	}
	return "#ERROR!"
}

func (e ErrorKind) String() string { return e.Surface() }

// ErrorKindFromSurface parses a literal such as "#REF!" back into its kind.
func ErrorKindFromSurface(s string) (ErrorKind, bool) {
	k, ok := surfaceToError[s]
	return k, ok
}

// FormulaParseError is the separate error channel for parse failures: it
// never surfaces as an in-formula Value, only from Parse/Engine.Parse.
type FormulaParseError struct {
	Message string
	Offset  int // 1-based character offset
}

func (e *FormulaParseError) Error() string {
	return fmt.Sprintf("formula parse error at offset %d: %s", e.Offset, e.Message)
}

func newParseError(offset int, format string, a ...any) *FormulaParseError {
	return &FormulaParseError{Message: fmt.Sprintf(format, a...), Offset: offset}
}
