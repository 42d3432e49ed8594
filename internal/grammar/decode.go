package grammar

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/dshills/hilite/internal/highlight"
)

// decoder turns a generic grammar document, as produced by any of the file
// loaders, into a Definition.
type decoder struct {
	path string
}

var (
	documentKeys = []string{"name", "extensions", "groups"}
	groupKeys    = []string{"attr", "keywords", "rules"}
	ruleKeys     = []string{"keyword", "keywords", "regex", "group", "start", "end", "skip", "one_line", "groups"}
)

func decode(path string, doc map[string]any) (*Definition, error) {
	d := decoder{path: path}
	if err := d.checkKeys("grammar", doc, documentKeys); err != nil {
		return nil, err
	}

	def := &Definition{}
	if v, ok := doc["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, d.errorf("name", "expected string, got %T", v)
		}
		def.Name = name
	}
	if v, ok := doc["extensions"]; ok {
		exts, err := d.strs("extensions", v)
		if err != nil {
			return nil, err
		}
		def.Extensions = exts
	}

	v, ok := doc["groups"]
	if !ok {
		return nil, d.errorf("groups", "missing")
	}
	groups, err := d.groups("groups", v)
	if err != nil {
		return nil, err
	}
	def.Groups = groups
	return def, nil
}

func (d decoder) groups(field string, v any) ([]highlight.GroupDecl, error) {
	items, err := d.list(field, v)
	if err != nil {
		return nil, err
	}

	groups := make([]highlight.GroupDecl, 0, len(items))
	for i, item := range items {
		g, err := d.group(fmt.Sprintf("%s[%d]", field, i), item)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (d decoder) group(field string, v any) (highlight.GroupDecl, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return highlight.GroupDecl{}, d.errorf(field, "expected table, got %T", v)
	}
	if err := d.checkKeys(field, m, groupKeys); err != nil {
		return highlight.GroupDecl{}, err
	}

	attr, ok := m["attr"].(string)
	if !ok {
		return highlight.GroupDecl{}, d.errorf(field+".attr", "expected string, got %T", m["attr"])
	}
	g := highlight.GroupDecl{Attr: attr}

	if kw, ok := m["keywords"]; ok {
		words, err := d.strs(field+".keywords", kw)
		if err != nil {
			return g, err
		}
		g.Rules = append(g.Rules, highlight.Keywords(words...)...)
	}

	if rv, ok := m["rules"]; ok {
		items, err := d.list(field+".rules", rv)
		if err != nil {
			return g, err
		}
		for i, item := range items {
			rules, err := d.rule(fmt.Sprintf("%s.rules[%d]", field, i), item)
			if err != nil {
				return g, err
			}
			g.Rules = append(g.Rules, rules...)
		}
	}
	return g, nil
}

func (d decoder) rule(field string, v any) ([]highlight.RuleDecl, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, d.errorf(field, "expected table, got %T", v)
	}
	if err := d.checkKeys(field, m, ruleKeys); err != nil {
		return nil, err
	}

	var kinds []string
	for _, k := range []string{"keyword", "keywords", "regex", "start"} {
		if _, ok := m[k]; ok {
			kinds = append(kinds, k)
		}
	}
	if _, ok := m["end"]; ok && !slices.Contains(kinds, "start") {
		kinds = append(kinds, "start")
	}
	if len(kinds) != 1 {
		return nil, d.errorf(field, "exactly one of keyword, keywords, regex or start is required")
	}

	switch kinds[0] {
	case "keyword":
		word, err := d.str(field+".keyword", m["keyword"])
		if err != nil {
			return nil, err
		}
		return []highlight.RuleDecl{highlight.Keyword(word)}, nil

	case "keywords":
		words, err := d.strs(field+".keywords", m["keywords"])
		if err != nil {
			return nil, err
		}
		return highlight.Keywords(words...), nil

	case "regex":
		pattern, err := d.str(field+".regex", m["regex"])
		if err != nil {
			return nil, err
		}
		capture := 0
		if gv, ok := m["group"]; ok {
			if capture, err = d.integer(field+".group", gv); err != nil {
				return nil, err
			}
		}
		return []highlight.RuleDecl{highlight.RegexSub(pattern, capture)}, nil
	}

	return d.rangeRule(field, m)
}

func (d decoder) rangeRule(field string, m map[string]any) ([]highlight.RuleDecl, error) {
	var start, end, skip string
	var err error
	if v, ok := m["start"]; ok {
		if start, err = d.str(field+".start", v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["end"]; ok {
		if end, err = d.str(field+".end", v); err != nil {
			return nil, err
		}
	}
	if v, ok := m["skip"]; ok {
		if skip, err = d.str(field+".skip", v); err != nil {
			return nil, err
		}
	}

	r := highlight.Range(start, end).WithSkip(skip)
	if v, ok := m["one_line"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, d.errorf(field+".one_line", "expected bool, got %T", v)
		}
		r.OneLine = b
	}
	if v, ok := m["groups"]; ok {
		groups, err := d.groups(field+".groups", v)
		if err != nil {
			return nil, err
		}
		r = r.Within(groups...)
	}
	return []highlight.RuleDecl{r}, nil
}

func (d decoder) checkKeys(field string, m map[string]any, allowed []string) error {
	var unknown []string
	for k := range m {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return d.errorf(field, "unknown key %q", unknown[0])
}

func (d decoder) str(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", d.errorf(field, "expected string, got %T", v)
	}
	return s, nil
}

// strs accepts a list of strings or a single string.
func (d decoder) strs(field string, v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	}

	items, err := d.list(field, v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, d.errorf(fmt.Sprintf("%s[%d]", field, i), "expected string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// list accepts a sequence. An empty table counts as an empty list, since Lua
// cannot tell the two apart.
func (d decoder) list(field string, v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
	}
	return nil, d.errorf(field, "expected list, got %T", v)
}

func (d decoder) integer(field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, d.errorf(field, "expected integer, got %v", v)
}

func (d decoder) errorf(field, format string, args ...any) error {
	return fieldError(d.path, field, format, args...)
}
