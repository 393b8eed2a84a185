package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "FB_Motor", "FB_Motor"},
		{"space", "Motor Control", "Motor-Control"},
		{"dot", "a.b", "a_b"},
		{"umlaut", "Über", "Uber"},
		{"sharp s", "Straße", "Strasse"},
		{"collapse spaces", "a  b", "a-b"},
		{"collapse underscores", "a__b", "a_b"},
		{"drop invalid", "x/y:z", "xyz"},
		{"dot underscore", "a._b", "a_b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestEscapeIEC(t *testing.T) {
	assert.Equal(t, `\_x`, EscapeIEC("_x"))
	assert.Equal(t, `x\_`, EscapeIEC("x_"))
	assert.Equal(t, `a\_.b`, EscapeIEC("a_.b"))
	assert.Equal(t, "abc", EscapeIEC("abc"))
	assert.Equal(t, "a_b", EscapeIEC("a_b"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"aaa bbb", "ccc"}, wrap("aaa bbb ccc", 7, false))
	assert.Equal(t, []string{"abcdefghij"}, wrap("abcdefghij", 4, false))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4, true))
	assert.Nil(t, wrap("   ", 10, false))
}

func TestDedent(t *testing.T) {
	got := dedent([]string{"  a", "    b", "   ", "  c"})
	assert.Equal(t, []string{"a", "  b", "", "c"}, got)
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "    x", expandTabs("\tx", 4))
	assert.Equal(t, "ab  x", expandTabs("ab\tx", 4))
	assert.Equal(t, "none", expandTabs("none", 4))
}

func TestSourceBlock(t *testing.T) {
	got := sourceBlock("\tVAR\r\n\t\tx : INT;   \r\n\tEND_VAR\r\n")
	assert.Equal(t, "VAR\n    x : INT;\nEND_VAR", got)
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"summary paragraph", "  Summary  \n\n  Details", []string{"Summary", "", "Details"}},
		{"star decoration", "Line one\n * star one\n * star two", []string{"Line one", "star one", "star two"}},
		{"leading star kept", "* item\n* item", []string{"* item", "* item"}},
		{"return cut", "Doc\n:return: value", []string{"Doc"}},
		{"trailing blanks", "a\nb\n\n\n", []string{"a", "b"}},
		{"prefix removed", "Text\n:prefix: MC_\nMore", []string{"Text", "", "More"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanDoc(tt.in))
		})
	}
}

func TestDocPrefixAndReturn(t *testing.T) {
	assert.Equal(t, "MC", docPrefix(":prefix: MC\nText"))
	assert.Equal(t, "MC", docPrefix("Text\n:prefix:  MC  "))
	assert.Empty(t, docPrefix("Text"))
	assert.Equal(t, " value", docReturn("Doc\n:return: value"))
	assert.Empty(t, docReturn("Doc"))
}

func TestFindSymbolRefs(t *testing.T) {
	matches := findSymbolRefs("Use |FB_A| or |B|.")
	if assert.Len(t, matches, 2) {
		assert.Equal(t, "FB_A", matches[0].symbol)
		assert.Equal(t, "B", matches[1].symbol)
	}

	assert.Empty(t, findSymbolRefs(".. |X| replace:: text"))
	assert.Empty(t, findSymbolRefs("a | b"))
}

func TestSubstituteSymbols(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "FB_A" {
			return "Lib.FB_A", true
		}
		return "", false
	}

	l := links{}
	got := substituteSymbols("See |FB_A| and |Nope|.", "io", lookup, l)
	assert.Equal(t, `See |ioFB_A| and \|Nope\|.`, got)
	assert.Equal(t, []string{".. |ioFB_A| replace:: :ref:`FB_A<Lib.FB_A>`"}, l.sorted())

	assert.Equal(t, "See ``FB_A`` and |Nope|.", literalSymbols("See |FB_A| and |Nope|.", lookup))
}

func TestSubstituteFiles(t *testing.T) {
	files := map[string]string{"logo": "logo.png"}

	got := substituteFiles("See @(logo) and @(nope).", files)
	assert.Equal(t, "See /../logo.png and ** Unknown file reference: '@(nope)' **.", got)

	assert.Equal(t, "mail@(logo)", substituteFiles("mail@(logo)", files))
	assert.Equal(t, "open @(logo", substituteFiles("open @(logo", files))
}

func TestSubstituteWord(t *testing.T) {
	assert.Equal(t, "EXTENDS |dFB_Base| FB_BaseX", substituteWord("EXTENDS FB_Base FB_BaseX", "FB_Base", "dFB_Base"))
}
