package formulacore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnEncodeURL(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "a%20b", evalText(t, e, w, `ENCODEURL("a b")`))
	assert.Equal(t, "abc-_.~", evalText(t, e, w, `ENCODEURL("abc-_.~")`))
}

func TestFnRegexMatch(t *testing.T) {
	e, w := newTestWorkbook()
	assert.True(t, evalBool(t, e, w, `REGEXMATCH("hello123","[0-9]+")`))
	assert.False(t, evalBool(t, e, w, `REGEXMATCH("hello","[0-9]+")`))
}

func TestFnRegexExtractFirstGroup(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "123", evalText(t, e, w, `REGEXEXTRACT("id:123","id:(\d+)")`))
}

func TestFnRegexExtractNoMatchIsNA(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, ErrNA, evalErr(t, e, w, `REGEXEXTRACT("abc","[0-9]+")`))
}

func TestFnRegexReplaceBackreference(t *testing.T) {
	e, w := newTestWorkbook()
	assert.Equal(t, "123-id", evalText(t, e, w, `REGEXREPLACE("id:123","id:(\d+)","$1-id")`))
}
