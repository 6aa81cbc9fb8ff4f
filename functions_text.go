package formulacore

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var textFunctions = []Function{
	eagerFn("LEFT", 1, 2, fnLeft),
	eagerFn("RIGHT", 1, 2, fnRight),
	eagerFn("MID", 3, 3, fnMid),
	eagerFn("LEN", 1, 1, fnLen),
	eagerFn("LOWER", 1, 1, fnLower),
	eagerFn("UPPER", 1, 1, fnUpper),
	eagerFn("TRIM", 1, 1, fnTrim),
	eagerFn("FIND", 2, 3, fnFind),
	eagerFn("SEARCH", 2, 3, fnSearch),
	eagerFn("SUBSTITUTE", 3, 4, fnSubstitute),
	eagerFn("REPLACE", 4, 4, fnReplace),
	eagerFn("TEXT", 2, 2, fnText),
	eagerFn("CONCATENATE", 0, -1, fnConcatenate),
	eagerFn("CONCAT", 0, -1, fnConcatenate),
	eagerFn("TEXTJOIN", 2, -1, fnTextJoin),
	eagerFn("EXACT", 2, 2, fnExact),
	eagerFn("REPT", 2, 2, fnRept),
	eagerFn("TEXTBEFORE", 2, 5, fnTextBefore),
	eagerFn("TEXTAFTER", 2, 5, fnTextAfter),
	eagerFn("TEXTSPLIT", 2, 6, fnTextSplit),
	eagerFn("VALUE", 1, 1, fnValue),
}

func textArg(v Value) (string, bool) { return requireText(v) }

func fnLeft(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n := 1.0
	if len(vals) > 1 {
		var ok2 bool
		n, ok2 = requireNumber(vals[1])
		if !ok2 {
			return ErrorValue(ErrValue)
		}
	}
	if n < 0 {
		return ErrorValue(ErrValue)
	}
	r := []rune(s)
	count := int(n)
	if count > len(r) {
		count = len(r)
	}
	return TextValue(string(r[:count]))
}

func fnRight(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	n := 1.0
	if len(vals) > 1 {
		var ok2 bool
		n, ok2 = requireNumber(vals[1])
		if !ok2 {
			return ErrorValue(ErrValue)
		}
	}
	if n < 0 {
		return ErrorValue(ErrValue)
	}
	r := []rune(s)
	count := int(n)
	if count > len(r) {
		count = len(r)
	}
	return TextValue(string(r[len(r)-count:]))
}

func fnMid(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	start, ok2 := requireNumber(vals[1])
	length, ok3 := requireNumber(vals[2])
	if !ok || !ok2 || !ok3 || start < 1 || length < 0 {
		return ErrorValue(ErrValue)
	}
	r := []rune(s)
	from := int(start) - 1
	if from >= len(r) {
		return TextValue("")
	}
	to := from + int(length)
	if to > len(r) {
		to = len(r)
	}
	return TextValue(string(r[from:to]))
}

func fnLen(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(float64(len([]rune(s))))
}

func fnLower(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return TextValue(strings.ToLower(s))
}

func fnUpper(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return TextValue(strings.ToUpper(s))
}

func fnTrim(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	fields := strings.Fields(s)
	return TextValue(strings.Join(fields, " "))
}

// fnFind is case-sensitive and disallows wildcards (§4.6).
func fnFind(vals []Value, ctx EvaluationContext) Value {
	needle, ok1 := textArg(vals[0])
	hay, ok2 := textArg(vals[1])
	start := 1.0
	if len(vals) > 2 {
		var ok3 bool
		start, ok3 = requireNumber(vals[2])
		if !ok3 {
			return ErrorValue(ErrValue)
		}
	}
	if !ok1 || !ok2 || start < 1 {
		return ErrorValue(ErrValue)
	}
	r := []rune(hay)
	from := int(start) - 1
	if from > len(r) {
		return ErrorValue(ErrValue)
	}
	idx := strings.Index(string(r[from:]), needle)
	if idx < 0 {
		return ErrorValue(ErrValue)
	}
	return NumberValue(float64(from + len([]rune(string(r[from:])[:idx])) + 1))
}

// fnSearch is case-insensitive and supports '?' (one char) and '*' (run).
func fnSearch(vals []Value, ctx EvaluationContext) Value {
	needle, ok1 := textArg(vals[0])
	hay, ok2 := textArg(vals[1])
	start := 1.0
	if len(vals) > 2 {
		var ok3 bool
		start, ok3 = requireNumber(vals[2])
		if !ok3 {
			return ErrorValue(ErrValue)
		}
	}
	if !ok1 || !ok2 || start < 1 {
		return ErrorValue(ErrValue)
	}
	r := []rune(hay)
	from := int(start) - 1
	if from > len(r) {
		return ErrorValue(ErrValue)
	}
	pattern := wildcardToRegex(needle)
	re := mustCompileCaseInsensitive(pattern)
	loc := re.FindStringIndex(strings.ToLower(string(r[from:])))
	if loc == nil {
		return ErrorValue(ErrValue)
	}
	prefix := []rune(string(r[from:])[:loc[0]])
	return NumberValue(float64(from + len(prefix) + 1))
}

func fnSubstitute(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	old, ok2 := textArg(vals[1])
	newS, ok3 := textArg(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	if old == "" {
		return TextValue(s)
	}
	if len(vals) < 4 {
		return TextValue(strings.ReplaceAll(s, old, newS))
	}
	nth, ok4 := requireNumber(vals[3])
	if !ok4 || nth < 1 {
		return ErrorValue(ErrValue)
	}
	count := 0
	idx := 0
	for {
		pos := strings.Index(s[idx:], old)
		if pos < 0 {
			return TextValue(s)
		}
		count++
		abs := idx + pos
		if count == int(nth) {
			return TextValue(s[:abs] + newS + s[abs+len(old):])
		}
		idx = abs + len(old)
	}
}

func fnReplace(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	start, ok2 := requireNumber(vals[1])
	length, ok3 := requireNumber(vals[2])
	newS, ok4 := textArg(vals[3])
	if !ok1 || !ok2 || !ok3 || !ok4 || start < 1 || length < 0 {
		return ErrorValue(ErrValue)
	}
	r := []rune(s)
	from := int(start) - 1
	if from > len(r) {
		from = len(r)
	}
	to := from + int(length)
	if to > len(r) {
		to = len(r)
	}
	return TextValue(string(r[:from]) + newS + string(r[to:]))
}

func fnConcatenate(vals []Value, ctx EvaluationContext) Value {
	var sb strings.Builder
	for _, v := range FlattenValues(vals) {
		s, ok := textArg(v)
		if !ok {
			return ErrorValue(ErrValue)
		}
		sb.WriteString(s)
	}
	return TextValue(sb.String())
}

func fnTextJoin(vals []Value, ctx EvaluationContext) Value {
	sep, ok1 := textArg(vals[0])
	ignoreEmpty, ok2 := Truthy(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	var parts []string
	for _, v := range FlattenValues(vals[2:]) {
		s, ok := textArg(v)
		if !ok {
			return ErrorValue(ErrValue)
		}
		if ignoreEmpty && s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return TextValue(strings.Join(parts, sep))
}

func fnExact(vals []Value, ctx EvaluationContext) Value {
	a, ok1 := textArg(vals[0])
	b, ok2 := textArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	return BoolValue(a == b)
}

func fnRept(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	n, ok2 := requireNumber(vals[1])
	if !ok1 || !ok2 || n < 0 {
		return ErrorValue(ErrValue)
	}
	return TextValue(strings.Repeat(s, int(n)))
}

// textBeforeAfterArgs parses the instance_num/match_mode/if_not_found
// trailing arguments shared by TEXTBEFORE and TEXTAFTER.
func textBeforeAfterArgs(vals []Value) (instance float64, caseInsensitive bool, notFound Value, hasNotFound bool, ok bool) {
	instance = 1
	if len(vals) > 2 {
		var okN bool
		instance, okN = requireNumber(vals[2])
		if !okN || instance == 0 {
			return 0, false, Value{}, false, false
		}
	}
	if len(vals) > 3 {
		mode, okM := requireNumber(vals[3])
		if !okM {
			return 0, false, Value{}, false, false
		}
		caseInsensitive = mode != 0
	}
	if len(vals) > 4 {
		notFound, hasNotFound = vals[4], true
	}
	return instance, caseInsensitive, notFound, hasNotFound, true
}

// delimOccurrence is the half-open [start,end) byte-index span of one
// non-overlapping match of a delimiter within a string.
type delimOccurrence struct{ start, end int }

func findDelimOccurrences(s, delim string, caseInsensitive bool) []delimOccurrence {
	var occ []delimOccurrence
	cur := 0
	for {
		idx := indexOfDelim(s[cur:], delim, caseInsensitive)
		if idx < 0 {
			break
		}
		start := cur + idx
		end := start + len(delim)
		occ = append(occ, delimOccurrence{start, end})
		cur = end
	}
	return occ
}

func indexOfDelim(s, delim string, caseInsensitive bool) int {
	if caseInsensitive {
		return strings.Index(strings.ToLower(s), strings.ToLower(delim))
	}
	return strings.Index(s, delim)
}

// pickOccurrence resolves a (possibly negative, "from the end") instance_num
// against a list of delimiter occurrences.
func pickOccurrence(occ []delimOccurrence, instance float64) (int, bool) {
	n := len(occ)
	i := int(instance)
	if i > 0 {
		if i > n {
			return 0, false
		}
		return i - 1, true
	}
	idx := n + i
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

func fnTextBefore(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	delim, ok2 := textArg(vals[1])
	if !ok1 || !ok2 || delim == "" {
		return ErrorValue(ErrValue)
	}
	instance, caseInsensitive, notFound, hasNotFound, ok := textBeforeAfterArgs(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	occ := findDelimOccurrences(s, delim, caseInsensitive)
	idx, found := pickOccurrence(occ, instance)
	if !found {
		if hasNotFound {
			return notFound
		}
		return ErrorValue(ErrNA)
	}
	return TextValue(s[:occ[idx].start])
}

func fnTextAfter(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	delim, ok2 := textArg(vals[1])
	if !ok1 || !ok2 || delim == "" {
		return ErrorValue(ErrValue)
	}
	instance, caseInsensitive, notFound, hasNotFound, ok := textBeforeAfterArgs(vals)
	if !ok {
		return ErrorValue(ErrValue)
	}
	occ := findDelimOccurrences(s, delim, caseInsensitive)
	idx, found := pickOccurrence(occ, instance)
	if !found {
		if hasNotFound {
			return notFound
		}
		return ErrorValue(ErrNA)
	}
	return TextValue(s[occ[idx].end:])
}

// delimiterList flattens a delimiter argument (scalar or array) to its
// non-empty text members; an empty result means "no delimiter on this
// axis", matching TEXTSPLIT's optional row/col delimiter semantics.
func delimiterList(v Value) ([]string, bool) {
	var out []string
	for _, fv := range FlattenValues([]Value{v}) {
		s, ok := textArg(fv)
		if !ok {
			return nil, false
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

// splitByDelims repeatedly peels off the text up to the earliest match of
// any delimiter in delims, longest delimiter winning ties.
func splitByDelims(s string, delims []string, caseInsensitive, ignoreEmpty bool) []string {
	if len(delims) == 0 {
		return []string{s}
	}
	var out []string
	cur := s
	for {
		bestIdx, bestLen := -1, 0
		for _, d := range delims {
			idx := indexOfDelim(cur, d, caseInsensitive)
			if idx < 0 {
				continue
			}
			if bestIdx == -1 || idx < bestIdx || (idx == bestIdx && len(d) > bestLen) {
				bestIdx, bestLen = idx, len(d)
			}
		}
		if bestIdx == -1 {
			out = append(out, cur)
			break
		}
		out = append(out, cur[:bestIdx])
		cur = cur[bestIdx+bestLen:]
	}
	if ignoreEmpty {
		filtered := out[:0]
		for _, p := range out {
			if p != "" {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			filtered = []string{""}
		}
		out = filtered
	}
	return out
}

// fnTextSplit implements TEXTSPLIT's column/row delimiter grid, padding
// ragged rows with pad_with (default #N/A) the way EXPAND does elsewhere
// in the array family.
func fnTextSplit(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	colDelims, ok := delimiterList(vals[1])
	if !ok {
		return ErrorValue(ErrValue)
	}
	var rowDelims []string
	if len(vals) > 2 {
		rowDelims, ok = delimiterList(vals[2])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	ignoreEmpty := false
	if len(vals) > 3 {
		ignoreEmpty, ok = Truthy(vals[3])
		if !ok {
			return ErrorValue(ErrValue)
		}
	}
	caseInsensitive := false
	if len(vals) > 4 {
		mode, okM := requireNumber(vals[4])
		if !okM {
			return ErrorValue(ErrValue)
		}
		caseInsensitive = mode != 0
	}
	padWith := ErrorValue(ErrNA)
	if len(vals) > 5 {
		padWith = vals[5]
	}

	rows := splitByDelims(s, rowDelims, caseInsensitive, ignoreEmpty)
	grid := make([][]string, len(rows))
	maxCols := 0
	for i, row := range rows {
		cols := splitByDelims(row, colDelims, caseInsensitive, ignoreEmpty)
		grid[i] = cols
		if len(cols) > maxCols {
			maxCols = len(cols)
		}
	}
	out := make([][]Value, len(grid))
	for r, row := range grid {
		out[r] = make([]Value, maxCols)
		for c := 0; c < maxCols; c++ {
			if c < len(row) {
				out[r][c] = TextValue(row[c])
			} else {
				out[r][c] = padWith
			}
		}
	}
	return RangeVal(NewRangeValue(out))
}

func fnValue(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	return NumberValue(n)
}

// fnText implements TEXT(n, fmt): a subset of spreadsheet format codes
// (§4.6): "0", "0.0…", "#,##0", "%", "E+0" scientific, leading-zero
// padding. Decimal rounding goes through shopspring/decimal so building
// thousand-separated strings doesn't drift the way repeated float64
// division can.
func fnText(vals []Value, ctx EvaluationContext) Value {
	n, ok := requireNumber(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	format, ok2 := textArg(vals[1])
	if !ok2 {
		return ErrorValue(ErrValue)
	}
	s, ok3 := formatNumberCode(n, format)
	if !ok3 {
		return ErrorValue(ErrValue)
	}
	return TextValue(s)
}

func formatNumberCode(n float64, format string) (string, bool) {
	format = strings.TrimSpace(format)
	if strings.ContainsAny(format, "eE") && strings.Contains(format, "+") {
		decPlaces := strings.Count(afterDot(format), "0")
		str := strconv.FormatFloat(n, 'E', decPlaces, 64)
		return normalizeExponent(str), true
	}
	percent := strings.Contains(format, "%")
	core := strings.ReplaceAll(format, "%", "")
	if percent {
		n *= 100
	}
	thousands := strings.Contains(core, ",")
	core = strings.ReplaceAll(core, ",", "")
	decPlaces := 0
	intPattern := core
	if idx := strings.IndexByte(core, '.'); idx >= 0 {
		intPattern = core[:idx]
		decPlaces = len(core) - idx - 1
	}
	minIntDigits := strings.Count(intPattern, "0")

	d := decimal.NewFromFloat(n).Round(int32(decPlaces))
	s := d.StringFixed(int32(decPlaces))
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	for len(intPart) < minIntDigits {
		intPart = "0" + intPart
	}
	if thousands {
		intPart = addThousandsSep(intPart)
	}
	out := intPart
	if decPlaces > 0 && len(parts) > 1 {
		out += "." + parts[1]
	}
	if neg {
		out = "-" + out
	}
	if percent {
		out += "%"
	}
	return out, true
}

func afterDot(s string) string {
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return s[idx+1:]
	}
	return ""
}

func addThousandsSep(intPart string) string {
	n := len(intPart)
	if n <= 3 {
		return intPart
	}
	var sb strings.Builder
	rem := n % 3
	if rem > 0 {
		sb.WriteString(intPart[:rem])
	}
	for i := rem; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sb.String()
}
