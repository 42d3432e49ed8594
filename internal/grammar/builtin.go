package grammar

import "github.com/dshills/hilite/internal/highlight"

// Rust returns the built-in Rust grammar.
func Rust() *Definition {
	return &Definition{
		Name:       "rust",
		Extensions: []string{".rs"},
		Groups: []highlight.GroupDecl{
			highlight.Group("code-comment",
				highlight.Range(`/\*`, `\*/`),
				highlight.Range(`//`, `$`).SingleLine(),
			),

			highlight.Group("code-string",
				highlight.Regex(`'(\\.|[^'\\])'`),
				highlight.Range(`"`, `"`).WithSkip(`\\"`).Within(
					highlight.Group("code-escape", highlight.Regex(`\\.`)),
				),
			),

			highlight.Group("code-fn-call",
				highlight.RegexSub(`([A-Za-z_][A-Za-z0-9_]*!?)\s*\(`, 1),
				highlight.RegexSub(`([A-Za-z_][A-Za-z0-9_]*!)\s*\[`, 1),
			),

			highlight.Group("code-number",
				highlight.RegexSub(`(?<![A-Za-z0-9_])(-?(?:[0-9]+\.[0-9]*|[0-9]*\.[0-9]+)(?:e\+[0-9]+)?[fFlL]?)\b`, 1),
				highlight.RegexSub(`(?<![A-Za-z0-9_])(-?[0-9]+(?:[uU]?[lL]{0,2}|[lL]{0,2}[uU]?))\b`, 1),
				highlight.RegexSub(`(?<![A-Za-z0-9_])(0[xX][0-9a-fA-F]+(?:[uU]?[lL]{0,2}|[lL]{0,2}[uU]?))\b`, 1),
			),

			highlight.Group("code-keyword", highlight.Keywords(
				"as", "const", "crate", "enum", "extern", "false", "fn", "for",
				"impl", "in", "let", "match", "move", "mut", "pub", "ref",
				"self", "Self", "static", "struct", "super", "trait", "true",
				"type", "unsafe", "use", "where", "while", "async", "await",
				"abstract", "become", "box", "final", "macro", "override",
				"priv", "typedef", "unsized", "virtual", "yield",
			)...),

			highlight.Group("code-control-flow", highlight.Keywords(
				"break", "case", "continue", "default", "do", "else", "for",
				"goto", "if", "loop", "return", "switch", "while",
			)...),

			highlight.Group("code-typename", highlight.Keywords(
				"bool", "char", "i8", "i16", "i32", "i64", "i128", "isize",
				"u8", "u16", "u32", "u64", "u128", "usize", "array", "slice",
				"str", "tuple", "f32", "f64",
			)...),

			highlight.Group("code-constant"),

			highlight.Group("code-field",
				highlight.RegexSub(`(\.|->)\s*([A-Za-z_][A-Za-z0-9_]*)`, 2),
			),
		},
	}
}

// Go returns the built-in Go grammar.
func Go() *Definition {
	return &Definition{
		Name:       "go",
		Extensions: []string{".go"},
		Groups: []highlight.GroupDecl{
			highlight.Group("code-comment",
				highlight.Range(`/\*`, `\*/`),
				highlight.Range(`//`, `$`).SingleLine(),
			),

			highlight.Group("code-string",
				highlight.Range("`", "`"),
				highlight.Range(`"`, `"`).SingleLine().Within(
					highlight.Group("code-escape", highlight.Regex(`\\.`)),
				),
				highlight.Regex(`'(?:[^'\\]|\\.)+'`),
			),

			highlight.Group("code-number",
				highlight.Regex(`\b0[xX][0-9a-fA-F_]+\b`),
				highlight.Regex(`\b0[oO][0-7_]+\b`),
				highlight.Regex(`\b0[bB][01_]+\b`),
				highlight.Regex(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?\d+)?i?\b`),
			),

			highlight.Group("code-keyword", highlight.Keywords(
				"func", "var", "const", "type", "struct", "interface", "map",
				"chan", "package", "import", "defer", "go",
			)...),

			highlight.Group("code-control-flow", highlight.Keywords(
				"if", "else", "for", "range", "switch", "case", "default",
				"break", "continue", "return", "goto", "fallthrough", "select",
			)...),

			highlight.Group("code-typename", highlight.Keywords(
				"int", "int8", "int16", "int32", "int64",
				"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
				"float32", "float64", "complex64", "complex128",
				"bool", "byte", "rune", "string", "error", "any",
			)...),

			highlight.Group("code-constant", highlight.Keywords(
				"true", "false", "nil", "iota",
			)...),

			highlight.Group("code-fn-call",
				highlight.RegexSub(`([A-Za-z_]\w*)\s*\(`, 1),
			),

			highlight.Group("code-field",
				highlight.RegexSub(`\.\s*([A-Za-z_]\w*)`, 1),
			),
		},
	}
}

// Builtins returns every built-in grammar.
func Builtins() []*Definition {
	return []*Definition{Rust(), Go()}
}
