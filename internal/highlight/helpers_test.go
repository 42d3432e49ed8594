package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// lines is a LineSource over a slice, used by the tests as a minimal host.
type lines []string

func (l *lines) LineCount() int    { return len(*l) }
func (l *lines) Line(n int) string { return (*l)[n] }

// exampleGrammar is a C-like grammar with block and line comments, strings
// with an escaped-quote skip, and two keywords.
func exampleGrammar() []GroupDecl {
	return []GroupDecl{
		Group("comment",
			Range(`/\*`, `\*/`),
			Range(`//`, `$`).SingleLine(),
		),
		Group("string",
			Range(`"`, `"`).WithSkip(`\\"`),
		),
		Group("keyword", Keywords("fn", "let")...),
	}
}

func compileExample(t *testing.T) *Table {
	t.Helper()
	table, err := Compile("example", exampleGrammar())
	require.NoError(t, err)
	return table
}

// span builds an expected span using the table's attribute names.
func span(t *testing.T, table *Table, start, end int, attr string) StyledSpan {
	t.Helper()
	a, ok := table.Attributes().Lookup(attr)
	require.True(t, ok, "attribute %q not interned", attr)
	return StyledSpan{Start: start, End: end, Attr: a}
}

// fullScan styles every line from the top with an empty stack.
func fullScan(table *Table, text []string) [][]StyledSpan {
	out := make([][]StyledSpan, len(text))
	var st Stack
	for i, l := range text {
		out[i], st = table.Scan(l, st)
	}
	return out
}

// allRanges collects every range descriptor reachable from the table.
func allRanges(table *Table) map[*RangeDesc]bool {
	seen := make(map[*RangeDesc]bool)
	var walk func(groups []*RuleGroup)
	walk = func(groups []*RuleGroup) {
		for _, g := range groups {
			for _, r := range g.rules {
				if r.rng != nil && !seen[r.rng] {
					seen[r.rng] = true
					walk(r.rng.groups)
				}
			}
		}
	}
	walk(table.groups)
	return seen
}
