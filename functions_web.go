package formulacore

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var webFunctions = []Function{
	eagerFn("ENCODEURL", 1, 1, fnEncodeURL),
	eagerFn("REGEXMATCH", 2, 2, fnRegexMatch),
	eagerFn("REGEXEXTRACT", 2, 2, fnRegexExtract),
	eagerFn("REGEXREPLACE", 3, 3, fnRegexReplace),
}

// fnEncodeURL percent-encodes everything outside A-Za-z0-9-_.~ (§4.7).
func fnEncodeURL(vals []Value, ctx EvaluationContext) Value {
	s, ok := textArg(vals[0])
	if !ok {
		return ErrorValue(ErrValue)
	}
	const hexDigits = "0123456789ABCDEF"
	var sb strings.Builder
	for _, b := range []byte(s) {
		if isURLUnreserved(b) {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('%')
			sb.WriteByte(hexDigits[b>>4])
			sb.WriteByte(hexDigits[b&0x0F])
		}
	}
	return TextValue(sb.String())
}

func isURLUnreserved(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') ||
		b == '-' || b == '_' || b == '.' || b == '~'
}

func compileRegex(pattern string) (*regexp2.Regexp, bool) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, false
	}
	return re, true
}

func fnRegexMatch(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	pattern, ok2 := textArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	re, ok := compileRegex(pattern)
	if !ok {
		return ErrorValue(ErrValue)
	}
	m, err := re.MatchString(s)
	if err != nil {
		return ErrorValue(ErrValue)
	}
	return BoolValue(m)
}

func fnRegexExtract(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	pattern, ok2 := textArg(vals[1])
	if !ok1 || !ok2 {
		return ErrorValue(ErrValue)
	}
	re, ok := compileRegex(pattern)
	if !ok {
		return ErrorValue(ErrValue)
	}
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return ErrorValue(ErrNA)
	}
	groups := m.Groups()
	if len(groups) > 1 {
		return TextValue(groups[1].String())
	}
	return TextValue(m.String())
}

func fnRegexReplace(vals []Value, ctx EvaluationContext) Value {
	s, ok1 := textArg(vals[0])
	pattern, ok2 := textArg(vals[1])
	repl, ok3 := textArg(vals[2])
	if !ok1 || !ok2 || !ok3 {
		return ErrorValue(ErrValue)
	}
	re, ok := compileRegex(pattern)
	if !ok {
		return ErrorValue(ErrValue)
	}
	out, err := re.Replace(s, convertReplacement(repl), -1, -1)
	if err != nil {
		return ErrorValue(ErrValue)
	}
	return TextValue(out)
}

// convertReplacement maps spreadsheet-style "$1" backreferences to
// regexp2's "${1}" replacement syntax.
func convertReplacement(repl string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			j := i + 1
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			sb.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
			continue
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}

// wildcardToRegex translates spreadsheet wildcards ('?' one char, '*' any
// run, '~' escape) into an unanchored regex fragment, used by SEARCH.
func wildcardToRegex(pattern string) string {
	var sb strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '?':
			sb.WriteString(".")
		case '*':
			sb.WriteString(".*")
		case '~':
			if i+1 < len(runes) {
				i++
				sb.WriteString(escapeRegexLiteral(runes[i]))
			}
		default:
			sb.WriteString(escapeRegexLiteral(c))
		}
	}
	return sb.String()
}

func mustCompileCaseInsensitive(pattern string) *regexp2.Regexp {
	re, err := regexp2.Compile(strings.ToLower(pattern), regexp2.None)
	if err != nil {
		re, _ = regexp2.Compile(".*", regexp2.None)
	}
	return re
}

var regexMetaChars = ".^$*+?()[]{}|\\"

func escapeRegexLiteral(c rune) string {
	if strings.ContainsRune(regexMetaChars, c) {
		return "\\" + string(c)
	}
	return string(c)
}
