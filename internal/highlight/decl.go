package highlight

// RuleKind identifies the kind of a rule.
type RuleKind uint8

const (
	// RuleKeyword matches a literal word bounded by non-identifier characters.
	RuleKeyword RuleKind = iota

	// RuleRegex matches a regular expression, optionally attributing only
	// one capture group.
	RuleRegex

	// RuleRange opens a range that is closed by its end pattern.
	RuleRange
)

// String returns the string representation of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case RuleKeyword:
		return "keyword"
	case RuleRegex:
		return "regex"
	case RuleRange:
		return "range"
	default:
		return "unknown"
	}
}

// RuleDecl declares one matching directive.
type RuleDecl struct {
	Kind RuleKind

	// Pattern is the keyword text, the regex, or the range start pattern.
	Pattern string

	// Capture selects the regex group that receives the attribute.
	// Zero attributes the whole match.
	Capture int

	// End closes a range. "$" closes it at end of line.
	End string

	// Skip is consumed inside a range without closing it.
	Skip string

	// OneLine force-closes the range at end of line.
	OneLine bool

	// Groups are the rule groups active inside a range.
	Groups []GroupDecl
}

// GroupDecl is an ordered list of rules sharing one attribute.
type GroupDecl struct {
	Attr  string
	Rules []RuleDecl
}

// Group declares a rule group.
func Group(attr string, rules ...RuleDecl) GroupDecl {
	return GroupDecl{Attr: attr, Rules: rules}
}

// Keyword declares a keyword rule.
func Keyword(word string) RuleDecl {
	return RuleDecl{Kind: RuleKeyword, Pattern: word}
}

// Keywords declares one keyword rule per word.
func Keywords(words ...string) []RuleDecl {
	rules := make([]RuleDecl, 0, len(words))
	for _, w := range words {
		rules = append(rules, Keyword(w))
	}
	return rules
}

// Regex declares a regex rule attributing the whole match.
func Regex(pattern string) RuleDecl {
	return RuleDecl{Kind: RuleRegex, Pattern: pattern}
}

// RegexSub declares a regex rule attributing only capture group n.
func RegexSub(pattern string, n int) RuleDecl {
	return RuleDecl{Kind: RuleRegex, Pattern: pattern, Capture: n}
}

// Range declares a range from start to end.
func Range(start, end string) RuleDecl {
	return RuleDecl{Kind: RuleRange, Pattern: start, End: end}
}

// WithSkip returns a copy of the range declaration with a skip pattern.
func (d RuleDecl) WithSkip(pattern string) RuleDecl {
	d.Skip = pattern
	return d
}

// SingleLine returns a copy of the range declaration that closes at end of line.
func (d RuleDecl) SingleLine() RuleDecl {
	d.OneLine = true
	return d
}

// Within returns a copy of the range declaration with nested groups.
func (d RuleDecl) Within(groups ...GroupDecl) RuleDecl {
	d.Groups = append(append([]GroupDecl(nil), d.Groups...), groups...)
	return d
}
