package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delimiter rune
		want      []string
	}{
		{"quoted delimiter is kept", `"Smith, John",34`, ',', []string{"Smith, John", "34"}},
		{"fields are trimmed", " a , b ,c ", ',', []string{"a", "b", "c"}},
		{"semicolon dialect", `a;"x;y";z`, ';', []string{"a", "x;y", "z"}},
		{"tab dialect", "1\t two \t3", '\t', []string{"1", "two", "3"}},
		{"pipe dialect", `x|"a|b"|y`, '|', []string{"x", "a|b", "y"}},
		{"doubled quotes are not unescaped", `"say ""hi""",2`, ',', []string{`say ""hi""`, "2"}},
		{"trailing delimiter yields empty field", "a,b,", ',', []string{"a", "b", ""}},
		{"empty line is one empty field", "", ',', []string{""}},
		{"only one quote pair stripped", `""x""`, ',', []string{`"x"`}},
		{"quote stripping happens after trimming", `  "padded"  ,z`, ',', []string{"padded", "z"}},
		{"multi-byte content", `"Zoë, Ana",Åsa`, ',', []string{"Zoë, Ana", "Åsa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line, tt.delimiter))
		})
	}
}

func TestSplitLineUnbalancedQuotesChangeFieldCount(t *testing.T) {
	// An odd quote count shifts parity, so this row no longer has three fields
	// and the integrity gate sees it as malformed.
	fields := SplitLine(`a,"b,c`, ',')
	assert.Len(t, fields, 2)
	assert.Equal(t, []string{`a,"b`, "c"}, fields)
}

func TestSplitLineNeverSplitsInsideQuotedField(t *testing.T) {
	lines := []string{
		`"1,2,3",x`,
		`x,"1,2,3"`,
		`"a,b","c,d","e,f"`,
	}
	for _, line := range lines {
		for _, f := range SplitLine(line, ',') {
			if f == "1" || f == "2" || f == "3" || f == "a" || f == "d" {
				t.Errorf("line %q was split inside a quoted field: %q", line, SplitLine(line, ','))
			}
		}
	}
}
