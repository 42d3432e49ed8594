package highlight

import "github.com/dlclark/regexp2"

// StyledSpan attributes the characters [Start, End) of a line.
// Offsets are rune columns.
type StyledSpan struct {
	Start int
	End   int
	Attr  Attribute
}

// Len returns the number of characters in the span.
func (s StyledSpan) Len() int { return s.End - s.Start }

// Contains reports whether col is inside the span.
func (s StyledSpan) Contains(col int) bool {
	return col >= s.Start && col < s.End
}

// Scan styles one line.
//
// in is the range stack at the start of the line; the returned stack is the
// one at its end, which is the incoming stack of the next line. Scan is a
// pure function of (line, in). Spans are ordered, do not overlap, and
// adjacent spans never share an attribute.
func (t *Table) Scan(line string, in Stack) ([]StyledSpan, Stack) {
	s := &scanner{
		runes: []rune(line),
		memo:  make([]memoEntry, t.matchers),
	}
	n := len(s.runes)
	stack := in
	pos := 0

	for {
		top := stack.Top()
		if top == nil {
			c, ok := s.earliest(t.groups, pos)
			if !ok {
				break
			}
			stack = s.apply(c, stack, AttrNone)
			pos = c.end
			continue
		}

		step, c := s.nextInRange(top, pos)
		switch step {
		case stepSkip:
			s.emit(pos, c.end, top.Attr)
			pos = c.end
		case stepEnd:
			s.emit(pos, c.end, top.Attr)
			pos = c.end
			stack = stack.Pop()
		case stepRule:
			s.emit(pos, c.start, top.Attr)
			stack = s.apply(c, stack, top.Attr)
			pos = c.end
		default:
			s.emit(pos, n, top.Attr)
			pos = n
			if !top.oneLine {
				return s.spans, stack.closeAtEOL()
			}
			stack = stack.Pop()
		}
	}

	return s.spans, stack.closeAtEOL()
}

// match is one regex match in rune offsets. [spanStart, spanEnd) is the
// part that receives the attribute.
type match struct {
	start     int
	end       int
	spanStart int
	spanEnd   int
	ok        bool
}

type candidate struct {
	match
	group *RuleGroup
	rule  *Rule
}

type memoEntry struct {
	set  bool
	from int
	m    match
}

type rangeStep uint8

const (
	stepNone rangeStep = iota
	stepSkip
	stepEnd
	stepRule
)

type scanner struct {
	runes []rune
	spans []StyledSpan
	memo  []memoEntry
}

// emit attributes [start, end), merging with the previous span when they
// touch and share the attribute.
func (s *scanner) emit(start, end int, attr Attribute) {
	if attr == AttrNone || end <= start {
		return
	}
	if n := len(s.spans); n > 0 {
		last := &s.spans[n-1]
		if last.End == start && last.Attr == attr {
			last.End = end
			return
		}
	}
	s.spans = append(s.spans, StyledSpan{Start: start, End: end, Attr: attr})
}

// apply emits a rule match. fill is the attribute of the enclosing range,
// used for the parts of the match outside the selected capture.
func (s *scanner) apply(c candidate, stack Stack, fill Attribute) Stack {
	if c.rule.rng != nil {
		s.emit(c.start, c.end, c.rule.rng.Attr)
		return stack.Push(c.rule.rng)
	}
	s.emit(c.start, c.spanStart, fill)
	s.emit(c.spanStart, c.spanEnd, c.group.Attr)
	s.emit(c.spanEnd, c.end, fill)
	return stack
}

// earliest returns the match starting closest to pos across groups. Ties go
// to the earlier group, then the earlier rule.
func (s *scanner) earliest(groups []*RuleGroup, pos int) (candidate, bool) {
	var best candidate
	found := false
	for _, g := range groups {
		for _, r := range g.rules {
			m := s.find(r.id, r.re, pos, r.capture, false)
			if !m.ok {
				continue
			}
			if !found || m.start < best.start {
				best = candidate{match: m, group: g, rule: r}
				found = true
				if m.start == pos {
					return best, true
				}
			}
		}
	}
	return best, found
}

// nextInRange decides what happens next inside r: its skip, its end, or a
// rule of one of its nested groups. Ties go in that order.
func (s *scanner) nextInRange(r *RangeDesc, pos int) (rangeStep, candidate) {
	step := stepNone
	var best candidate

	if r.skip != nil {
		if m := s.find(r.skipID, r.skip, pos, 0, false); m.ok {
			step, best = stepSkip, candidate{match: m}
		}
	}
	if m := s.find(r.endID, r.end, pos, 0, true); m.ok {
		if step == stepNone || m.start < best.start {
			step, best = stepEnd, candidate{match: m}
		}
	}
	if c, ok := s.earliest(r.groups, pos); ok {
		if step == stepNone || c.start < best.start {
			step, best = stepRule, c
		}
	}
	return step, best
}

// find returns the first match of re at or after pos. The result of an
// earlier search is reused while it still lies ahead of pos.
func (s *scanner) find(id int, re *regexp2.Regexp, pos, capture int, allowEmpty bool) match {
	e := &s.memo[id]
	if e.set && e.from <= pos && (!e.m.ok || e.m.start >= pos) {
		return e.m
	}
	m := findMatch(re, s.runes, pos, capture, allowEmpty)
	*e = memoEntry{set: true, from: pos, m: m}
	return m
}

func findMatch(re *regexp2.Regexp, runes []rune, from, capture int, allowEmpty bool) match {
	for from <= len(runes) {
		m, err := re.FindRunesMatchStartingAt(runes, from)
		if err != nil || m == nil {
			return match{}
		}
		if m.Length == 0 && !allowEmpty {
			from = m.Index + 1
			continue
		}

		res := match{
			start:     m.Index,
			end:       m.Index + m.Length,
			spanStart: m.Index,
			spanEnd:   m.Index + m.Length,
			ok:        true,
		}
		if capture > 0 {
			g := m.GroupByNumber(capture)
			if g == nil || len(g.Captures) == 0 {
				res.spanStart, res.spanEnd = res.start, res.start
			} else {
				// Captures inside lookarounds may lie outside the match.
				res.spanStart = min(max(g.Index, res.start), res.end)
				res.spanEnd = min(max(g.Index+g.Length, res.spanStart), res.end)
			}
		}
		return res
	}
	return match{}
}
