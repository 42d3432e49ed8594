package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestScanExampleBuffer(t *testing.T) {
	table := compileExample(t)

	text := []string{
		`fn main() {`,
		`// let x = 1;`,
		`let s = "a\"b";`,
	}
	got := fullScan(table, text)

	assert.Equal(t, []StyledSpan{span(t, table, 0, 2, "keyword")}, got[0])
	assert.Equal(t, []StyledSpan{span(t, table, 0, 13, "comment")}, got[1])
	assert.Equal(t, []StyledSpan{
		span(t, table, 0, 3, "keyword"),
		span(t, table, 8, 14, "string"),
	}, got[2])
}

func TestScanPriority(t *testing.T) {
	t.Run("comment declared before keyword", func(t *testing.T) {
		table, err := Compile("p", []GroupDecl{
			Group("comment", Range(`//`, `$`).SingleLine()),
			Group("keyword", Keyword("for")),
		})
		require.NoError(t, err)

		spans, out := table.Scan(`// for`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, table, 0, 6, "comment")}, spans)
		assert.True(t, out.Empty())
	})

	t.Run("same column goes to earlier group", func(t *testing.T) {
		first, err := Compile("a", []GroupDecl{
			Group("ident", Regex(`for\w*`)),
			Group("keyword", Keyword("for")),
		})
		require.NoError(t, err)
		spans, _ := first.Scan(`for`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, first, 0, 3, "ident")}, spans)

		second, err := Compile("b", []GroupDecl{
			Group("keyword", Keyword("for")),
			Group("ident", Regex(`for\w*`)),
		})
		require.NoError(t, err)
		spans, _ = second.Scan(`for`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, second, 0, 3, "keyword")}, spans)
	})

	t.Run("earlier column beats earlier group", func(t *testing.T) {
		table := compileExample(t)
		spans, _ := table.Scan(`let s = "x"`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 3, "keyword"),
			span(t, table, 8, 11, "string"),
		}, spans)
	})
}

func TestScanSkipBeforeEnd(t *testing.T) {
	table := compileExample(t)

	spans, out := table.Scan(`"a\"b"`, Stack{})
	assert.Equal(t, []StyledSpan{span(t, table, 0, 6, "string")}, spans)
	assert.True(t, out.Empty())
}

func TestScanKeywordsWholeWord(t *testing.T) {
	table, err := Compile("kw", []GroupDecl{
		Group("keyword", Keywords("in", "int", "macro_rules!")...),
	})
	require.NoError(t, err)

	tests := []struct {
		line string
		want [][2]int
	}{
		{"in", [][2]int{{0, 2}}},
		{"int in", [][2]int{{0, 3}, {4, 6}}},
		{"inside print _in in_", nil},
		{"x.in(", [][2]int{{2, 4}}},
		{"macro_rules! m", [][2]int{{0, 12}}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			spans, _ := table.Scan(tt.line, Stack{})
			var got [][2]int
			for _, s := range spans {
				got = append(got, [2]int{s.Start, s.End})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanCaptureGroups(t *testing.T) {
	table, err := Compile("cap", []GroupDecl{
		Group("fn-call", RegexSub(`([A-Za-z_]\w*!?)\s*\(`, 1)),
		Group("number", Regex(`(?<![\w.])-?\d+`)),
		Group("field", RegexSub(`(\.|->)\s*([A-Za-z_]\w*)`, 2)),
	})
	require.NoError(t, err)

	t.Run("function call attributes name only", func(t *testing.T) {
		spans, _ := table.Scan(`foo (x)`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, table, 0, 3, "fn-call")}, spans)
	})

	t.Run("macro call", func(t *testing.T) {
		spans, _ := table.Scan(`println!("x")`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, table, 0, 8, "fn-call")}, spans)
	})

	t.Run("number not inside identifier", func(t *testing.T) {
		spans, _ := table.Scan(`x1 = 42`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, table, 5, 7, "number")}, spans)
	})

	t.Run("field access attributes identifier", func(t *testing.T) {
		spans, _ := table.Scan(`a.b->c`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 2, 3, "field"),
			span(t, table, 5, 6, "field"),
		}, spans)
	})
}

func TestScanCaptureOutsideMatch(t *testing.T) {
	table, err := Compile("look", []GroupDecl{
		Group("k", Keyword("a")),
		Group("x", RegexSub(`(?<=(a ))b`, 1)),
		Group("y", RegexSub(`c(?=(de))`, 1)),
	})
	require.NoError(t, err)

	spans, _ := table.Scan(`a b cde`, Stack{})
	assert.Equal(t, []StyledSpan{span(t, table, 0, 1, "k")}, spans,
		"captures outside the consumed text attribute nothing")
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].End, spans[i].Start)
	}
}

func TestScanMultiLineRange(t *testing.T) {
	table := compileExample(t)

	got := fullScan(table, []string{`/* a`, `b`, `c */ fn`})
	assert.Equal(t, []StyledSpan{span(t, table, 0, 4, "comment")}, got[0])
	assert.Equal(t, []StyledSpan{span(t, table, 0, 1, "comment")}, got[1])
	assert.Equal(t, []StyledSpan{
		span(t, table, 0, 4, "comment"),
		span(t, table, 5, 7, "keyword"),
	}, got[2])

	_, out := table.Scan(`/* a`, Stack{})
	require.Equal(t, 1, out.Depth())
	assert.Equal(t, table.Groups()[0].Rules()[0].Range(), out.Top())

	_, out = table.Scan(`b`, out)
	assert.Equal(t, 1, out.Depth(), "multi-line ranges carry over")

	spans, out := table.Scan(``, out)
	assert.Empty(t, spans, "empty lines produce no spans")
	assert.Equal(t, 1, out.Depth())
}

func TestScanOneLineRange(t *testing.T) {
	table, err := Compile("one", []GroupDecl{
		Group("comment",
			Range(`--`, `zz`).SingleLine(),
			Range(`//`, `$`).SingleLine().Within(
				Group("todo", Range(`<`, `>`)),
			),
		),
	})
	require.NoError(t, err)

	t.Run("force closed without end match", func(t *testing.T) {
		spans, out := table.Scan(`x -- abc`, Stack{})
		assert.Equal(t, []StyledSpan{span(t, table, 2, 8, "comment")}, spans)
		assert.True(t, out.Empty())
	})

	t.Run("nested multi-line range closes with it", func(t *testing.T) {
		spans, out := table.Scan(`// <abc`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 3, "comment"),
			span(t, table, 3, 7, "todo"),
		}, spans)
		assert.True(t, out.Empty())
	})
}

func TestScanNestedRanges(t *testing.T) {
	table, err := Compile("nest", []GroupDecl{
		Group("string",
			Range(`"`, `"`).Within(
				Group("escape", Regex(`\\.`)),
				Group("interp", Range(`\{`, `\}`).Within(
					Group("keyword", Keyword("fn")),
				)),
			),
		),
		Group("keyword", Keyword("fn")),
	})
	require.NoError(t, err)

	t.Run("escape inside string", func(t *testing.T) {
		spans, _ := table.Scan(`"a\nb"`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 2, "string"),
			span(t, table, 2, 4, "escape"),
			span(t, table, 4, 6, "string"),
		}, spans)
	})

	t.Run("escaped quote does not end string", func(t *testing.T) {
		spans, out := table.Scan(`"\"" fn`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 1, "string"),
			span(t, table, 1, 3, "escape"),
			span(t, table, 3, 4, "string"),
			span(t, table, 5, 7, "keyword"),
		}, spans)
		assert.True(t, out.Empty())
	})

	t.Run("range inside range", func(t *testing.T) {
		spans, out := table.Scan(`"x{fn}y"`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 2, "string"),
			span(t, table, 2, 3, "interp"),
			span(t, table, 3, 5, "keyword"),
			span(t, table, 5, 6, "interp"),
			span(t, table, 6, 8, "string"),
		}, spans)
		assert.True(t, out.Empty())
	})

	t.Run("inner end checked before outer end", func(t *testing.T) {
		spans, out := table.Scan(`"{"`, Stack{})
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 1, "string"),
			span(t, table, 1, 3, "interp"),
		}, spans)
		require.Equal(t, 2, out.Depth(), "the quote inside the interpolation is content")

		spans, out = table.Scan(`}"`, out)
		assert.Equal(t, []StyledSpan{
			span(t, table, 0, 1, "interp"),
			span(t, table, 1, 2, "string"),
		}, spans)
		assert.True(t, out.Empty())
	})
}

func TestScanUnicodeColumns(t *testing.T) {
	table := compileExample(t)

	spans, _ := table.Scan(`"héllo" fn`, Stack{})
	assert.Equal(t, []StyledSpan{
		span(t, table, 0, 7, "string"),
		span(t, table, 8, 10, "keyword"),
	}, spans, "offsets are rune columns")
}

func TestStack(t *testing.T) {
	table := compileExample(t)
	block := table.Groups()[0].Rules()[0].Range()
	str := table.Groups()[1].Rules()[0].Range()

	var s Stack
	assert.True(t, s.Empty())
	assert.Nil(t, s.Top())
	assert.True(t, s.Pop().Empty(), "popping an empty stack is a no-op")

	a := s.Push(block)
	b := a.Push(str)
	assert.Equal(t, 1, a.Depth(), "push does not modify the receiver")
	assert.Equal(t, 2, b.Depth())
	assert.Same(t, str, b.Top())
	assert.True(t, b.Pop().Equal(a))
	assert.False(t, b.Equal(a))
	assert.Equal(t, []*RangeDesc{block, str}, b.Frames())

	c := b.Pop().Push(block)
	assert.Same(t, str, b.Top(), "pushing after pop must not overwrite shared frames")
	assert.Equal(t, 2, c.Depth())
	assert.Contains(t, b.String(), "comment")
}

func drawLine(rt *rapid.T, label string) string {
	return rapid.StringOfN(rapid.SampledFrom([]rune(`/*"\ fnlet{}x1.`)), 0, 24, -1).Draw(rt, label)
}

func TestScanProperties(t *testing.T) {
	table := compileExample(t)
	known := allRanges(table)

	rapid.Check(t, func(rt *rapid.T) {
		prev := drawLine(rt, "prev")
		line := drawLine(rt, "line")
		_, in := table.Scan(prev, Stack{})

		spans, out := table.Scan(line, in)

		// Determinism.
		again, outAgain := table.Scan(line, in)
		require.Equal(rt, spans, again)
		require.True(rt, out.Equal(outAgain))

		// Spans are ordered, non-empty, in bounds and never overlap.
		n := len([]rune(line))
		end := 0
		for _, s := range spans {
			require.Greater(rt, s.End, s.Start)
			require.GreaterOrEqual(rt, s.Start, end)
			require.LessOrEqual(rt, s.End, n)
			require.NotEqual(rt, AttrNone, s.Attr)
			end = s.End
		}

		// Stack balance: one-line ranges never survive the line and every
		// open range belongs to the table.
		for _, r := range out.Frames() {
			require.False(rt, r.OneLine())
			require.True(rt, known[r])
		}
	})
}
