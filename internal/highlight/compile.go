package highlight

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// Table is a compiled grammar. It is immutable and safe to share between
// goroutines and buffers.
type Table struct {
	name        string
	groups      []*RuleGroup
	attrs       *AttributeRegistry
	diagnostics []*CompileError

	// matchers is the number of compiled patterns, used to size the
	// per-scan match memo.
	matchers int
}

// Name returns the grammar name the table was compiled from.
func (t *Table) Name() string { return t.name }

// Groups returns the top-level rule groups in priority order.
func (t *Table) Groups() []*RuleGroup { return slices.Clone(t.groups) }

// Attributes returns the registry the table's attribute names live in.
func (t *Table) Attributes() *AttributeRegistry { return t.attrs }

// Diagnostics returns the rules skipped during compilation.
func (t *Table) Diagnostics() []*CompileError { return slices.Clone(t.diagnostics) }

// RuleGroup is a compiled rule group.
type RuleGroup struct {
	Attr  Attribute
	Name  string
	rules []*Rule
}

// Rules returns the group's compiled rules in priority order.
func (g *RuleGroup) Rules() []*Rule { return slices.Clone(g.rules) }

// Rule is a compiled rule. Consecutive keyword declarations of a group are
// merged into a single keyword rule.
type Rule struct {
	kind    RuleKind
	source  string
	re      *regexp2.Regexp
	capture int
	rng     *RangeDesc
	id      int
}

// Kind returns the rule kind.
func (r *Rule) Kind() RuleKind { return r.kind }

// Source returns the declared pattern, or the space separated word list of a
// keyword rule.
func (r *Rule) Source() string { return r.source }

// Range returns the range a RuleRange opens, nil otherwise.
func (r *Rule) Range() *RangeDesc { return r.rng }

// RangeDesc is a compiled range descriptor. Open ranges are what a Stack holds.
type RangeDesc struct {
	Attr    Attribute
	name    string
	opener  *RuleGroup
	end     *regexp2.Regexp
	skip    *regexp2.Regexp
	oneLine bool
	groups  []*RuleGroup

	endID  int
	skipID int
}

// Opener returns the group whose rule opened the range.
func (r *RangeDesc) Opener() *RuleGroup { return r.opener }

// OneLine reports whether the range is force-closed at end of line.
func (r *RangeDesc) OneLine() bool { return r.oneLine }

// Groups returns the rule groups active inside the range.
func (r *RangeDesc) Groups() []*RuleGroup { return slices.Clone(r.groups) }

// String returns the attribute and start pattern of the range.
func (r *RangeDesc) String() string { return r.name }

// CompileOption configures Compile.
type CompileOption func(*compileOptions)

type compileOptions struct {
	logger *slog.Logger
	attrs  *AttributeRegistry
	strict bool
}

// WithLogger sets the logger compile diagnostics are written to.
func WithLogger(l *slog.Logger) CompileOption {
	return func(o *compileOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAttributes interns attribute names into reg instead of a new registry.
func WithAttributes(reg *AttributeRegistry) CompileOption {
	return func(o *compileOptions) {
		o.attrs = reg
	}
}

// WithStrict makes every skipped rule a fatal error.
func WithStrict() CompileOption {
	return func(o *compileOptions) {
		o.strict = true
	}
}

// Compile builds a Table from group declarations.
//
// A rule whose pattern does not compile is skipped and reported through the
// logger and Table.Diagnostics. Structural problems (a group without an
// attribute, a range without a start or an end) fail the whole compilation
// and no table is returned.
func Compile(name string, decls []GroupDecl, opts ...CompileOption) (*Table, error) {
	o := compileOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.attrs == nil {
		o.attrs = NewAttributeRegistry()
	}

	c := &compiler{attrs: o.attrs}
	groups := c.groups(decls)

	if len(c.fatal) > 0 {
		return nil, joinCompileErrors(c.fatal)
	}
	if o.strict && len(c.diagnostics) > 0 {
		return nil, joinCompileErrors(c.diagnostics)
	}

	for _, d := range c.diagnostics {
		o.logger.Warn("grammar rule skipped",
			"grammar", name,
			"group", d.Group,
			"pattern", d.Pattern,
			"error", d.Message)
	}

	return &Table{
		name:        name,
		groups:      groups,
		attrs:       o.attrs,
		diagnostics: c.diagnostics,
		matchers:    c.next,
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(name string, decls []GroupDecl, opts ...CompileOption) *Table {
	t, err := Compile(name, decls, opts...)
	if err != nil {
		panic("highlight: Compile(" + name + "): " + err.Error())
	}
	return t
}

func joinCompileErrors(errs []*CompileError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}

type compiler struct {
	attrs       *AttributeRegistry
	fatal       []*CompileError
	diagnostics []*CompileError
	next        int
}

func (c *compiler) id() int {
	id := c.next
	c.next++
	return id
}

func (c *compiler) regexp(group, pattern string) (*regexp2.Regexp, bool) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		c.diagnostics = append(c.diagnostics, newCompileError(group, pattern, err))
		return nil, false
	}
	return re, true
}

// groups compiles one scope: the top level, or the inside of a range.
func (c *compiler) groups(decls []GroupDecl) []*RuleGroup {
	groups := make([]*RuleGroup, 0, len(decls))
	starts := make(map[string]bool)

	for _, gd := range decls {
		name := normalizeName(gd.Attr)
		if name == "" {
			c.fatal = append(c.fatal, newCompileError("", "", ErrEmptyAttribute))
			continue
		}
		g := &RuleGroup{Attr: c.attrs.Intern(name), Name: name}

		for i := 0; i < len(gd.Rules); i++ {
			rd := gd.Rules[i]
			switch rd.Kind {
			case RuleKeyword:
				j := i
				for j < len(gd.Rules) && gd.Rules[j].Kind == RuleKeyword {
					j++
				}
				if r := c.keywords(name, gd.Rules[i:j]); r != nil {
					g.rules = append(g.rules, r)
				}
				i = j - 1
			case RuleRegex:
				if r := c.regex(name, rd); r != nil {
					g.rules = append(g.rules, r)
				}
			case RuleRange:
				if r := c.rangeRule(g, rd, starts); r != nil {
					g.rules = append(g.rules, r)
				}
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// keywords merges a run of keyword declarations into one whole-word matcher.
func (c *compiler) keywords(group string, decls []RuleDecl) *Rule {
	seen := make(map[string]bool, len(decls))
	words := make([]string, 0, len(decls))
	for _, d := range decls {
		w := strings.TrimSpace(d.Pattern)
		if w == "" {
			c.diagnostics = append(c.diagnostics, newCompileError(group, d.Pattern, ErrEmptyPattern))
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}

	alts := slices.Clone(words)
	slices.SortStableFunc(alts, func(a, b string) int {
		return len(b) - len(a)
	})
	for i, w := range alts {
		alts[i] = regexp2.Escape(w)
	}
	pattern := `(?<!\w)(?:` + strings.Join(alts, "|") + `)(?!\w)`

	re, ok := c.regexp(group, pattern)
	if !ok {
		return nil
	}
	return &Rule{
		kind:   RuleKeyword,
		source: strings.Join(words, " "),
		re:     re,
		id:     c.id(),
	}
}

func (c *compiler) regex(group string, d RuleDecl) *Rule {
	if d.Pattern == "" {
		c.diagnostics = append(c.diagnostics, newCompileError(group, d.Pattern, ErrEmptyPattern))
		return nil
	}
	re, ok := c.regexp(group, d.Pattern)
	if !ok {
		return nil
	}
	if d.Capture < 0 || !slices.Contains(re.GetGroupNumbers(), d.Capture) {
		c.diagnostics = append(c.diagnostics, newCompileError(group, d.Pattern, ErrBadCapture))
		return nil
	}
	return &Rule{
		kind:    RuleRegex,
		source:  d.Pattern,
		re:      re,
		capture: d.Capture,
		id:      c.id(),
	}
}

func (c *compiler) rangeRule(g *RuleGroup, d RuleDecl, starts map[string]bool) *Rule {
	switch {
	case d.Pattern == "":
		c.fatal = append(c.fatal, newCompileError(g.Name, d.End, ErrMissingStart))
		return nil
	case d.End == "":
		c.fatal = append(c.fatal, newCompileError(g.Name, d.Pattern, ErrUnbalancedRange))
		return nil
	case starts[d.Pattern]:
		c.diagnostics = append(c.diagnostics, newCompileError(g.Name, d.Pattern, ErrDuplicateRange))
		return nil
	}
	starts[d.Pattern] = true

	// A range missing any of its patterns would terminate at the wrong
	// place, so one bad pattern drops the whole range.
	start, ok := c.regexp(g.Name, d.Pattern)
	if !ok {
		return nil
	}
	end, ok := c.regexp(g.Name, d.End)
	if !ok {
		return nil
	}
	var skip *regexp2.Regexp
	if d.Skip != "" {
		if skip, ok = c.regexp(g.Name, d.Skip); !ok {
			return nil
		}
	}

	r := &RangeDesc{
		Attr:    g.Attr,
		name:    g.Name + "(" + d.Pattern + ")",
		opener:  g,
		end:     end,
		skip:    skip,
		oneLine: d.OneLine,
		endID:   c.id(),
		skipID:  c.id(),
	}
	r.groups = c.groups(d.Groups)

	return &Rule{
		kind:   RuleRange,
		source: d.Pattern,
		re:     start,
		rng:    r,
		id:     c.id(),
	}
}
